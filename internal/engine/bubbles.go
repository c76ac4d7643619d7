package engine

import (
	"regexp"
	"strings"
)

// Bubble is one sendable unit of a generated reply: a text message, an
// image, or text accompanied by an image marker.
type Bubble struct {
	Text  string
	Image string
}

var (
	bubbleSplit = regexp.MustCompile(`\s*\|\|\s*`)
	imageTag    = regexp.MustCompile(`\[IMG:([^\]]+)\]`)
)

// SplitBubbles parses a raw generated reply into sendable bubbles. Replies
// use "||" as the multi-message delimiter and "[IMG:name]" as an inline
// image marker; a fragment carrying both text and an image yields a text
// bubble followed by an image-only bubble.
func SplitBubbles(reply string) []Bubble {
	if strings.TrimSpace(reply) == "" {
		return nil
	}

	var bubbles []Bubble
	for _, part := range bubbleSplit.Split(reply, -1) {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		m := imageTag.FindStringSubmatch(part)
		if m == nil {
			bubbles = append(bubbles, Bubble{Text: part})
			continue
		}

		text := strings.TrimSpace(imageTag.ReplaceAllString(part, ""))
		if text != "" {
			bubbles = append(bubbles, Bubble{Text: text})
		}
		bubbles = append(bubbles, Bubble{Image: strings.TrimSpace(m[1])})
	}
	return bubbles
}
