package mood

import (
	"fmt"
	"strings"

	"github.com/fanloophq/fanloop/internal/intent"
)

// Style is the qualitative response-style directive derived from the mood
// floats. Checked in a fixed priority order: patience first, then
// engagement, then warmth.
type Style string

const (
	StyleAnnoyed Style = "annoyed"
	StyleBored   Style = "bored"
	StyleEngaged Style = "engaged"
	StyleFlirty  Style = "flirty"
	StyleGuarded Style = "guarded"
	StyleNeutral Style = "neutral"
)

// Guidance returns the response-style text handed to the generator.
func (s Style) Guidance() string {
	switch s {
	case StyleAnnoyed:
		return "ANNOYED: Be cold, dismissive. Short responses. Consider leaving on read or just 'k' or 'lol ok'."
	case StyleBored:
		return "BORED: Give minimal responses. 'lol' 'yeah' 'mhm' 'k'. Dont ask questions. Low effort energy."
	case StyleEngaged:
		return "ENGAGED: Be more talkative, playful, ask him stuff back. Show genuine interest."
	case StyleFlirty:
		return "FLIRTY: Tease him, be playful, hint at more. Be sweet but not too easy."
	case StyleGuarded:
		return "GUARDED: Keep responses neutral, dont give much. Not hostile but not warm either."
	default:
		return "NEUTRAL: Normal casual conversation. Be yourself, match his energy."
	}
}

// Default starting values for a fresh conversation.
const (
	DefaultEngagement = 0.5
	DefaultWarmth     = 0.5
	DefaultPatience   = 1.0
)

// Vocabulary the update rules key off. These are small fixed lists, not
// general sentiment analysis.
var (
	lowEffortOpeners = map[string]bool{
		"hey": true, "hi": true, "hello": true, "sup": true, "yo": true,
		"hey there": true, "whats up": true, "wyd": true, "hru": true,
	}
	creepyWords    = []string{"sexy body", "hot body", "dtf", "daddy", "slut", "whore", "my girl", "mine now"}
	demandingWords = []string{"send me", "give me", "show me", "i want", "now", "cmon", "come on"}
	warmWords      = []string{"beautiful", "gorgeous", "amazing", "lovely", "sweet", "nice to meet", "appreciate"}
	playfulMarkers = []string{"haha", "lol", "lmao", "jk", "joking"}
)

// State tracks the persona's mood for one conversation. Values live in
// [0,1] and are clamped after every update. Not safe for concurrent use;
// per-identity state is single-writer by contract.
type State struct {
	Engagement float64 `json:"engagement"`
	Warmth     float64 `json:"warmth"`
	Patience   float64 `json:"patience"`
}

// NewState returns a mood at the neutral defaults.
func NewState() *State {
	return &State{Engagement: DefaultEngagement, Warmth: DefaultWarmth, Patience: DefaultPatience}
}

// Update applies the mood deltas for one inbound message. Deltas are
// additive and order-independent; clamping happens once at the end.
func (s *State) Update(message string, label intent.Label) {
	msg := strings.ToLower(strings.TrimSpace(message))

	// Low-effort openers read as boredom.
	if lowEffortOpeners[msg] || len(msg) <= 3 {
		s.Engagement -= 0.1
	}

	// Longer, thoughtful messages earn attention.
	if len(message) > 50 {
		s.Engagement += 0.1
	}

	if strings.Contains(message, "?") {
		s.Engagement += 0.05
	}

	if intent.IsPursuit(label) && label != intent.LabelCompliment {
		s.Patience -= 0.15
	}

	if label == intent.LabelCompliment {
		if containsAny(msg, creepyWords) {
			s.Warmth -= 0.05
		} else {
			s.Warmth += 0.1
		}
	}

	if containsAny(msg, demandingWords) {
		s.Patience -= 0.05
		s.Warmth -= 0.05
	}

	if containsAny(msg, warmWords) && label != intent.LabelSexual {
		s.Warmth += 0.05
	}

	if containsAny(msg, playfulMarkers) {
		s.Engagement += 0.05
		s.Warmth += 0.03
	}

	s.Engagement = clamp(s.Engagement)
	s.Warmth = clamp(s.Warmth)
	s.Patience = clamp(s.Patience)
}

// Style picks the response-style directive. Low patience overrides
// everything, then engagement extremes, then warmth extremes.
func (s *State) Style() Style {
	if s.Patience < 0.3 {
		return StyleAnnoyed
	}
	if s.Engagement < 0.3 {
		return StyleBored
	}
	if s.Engagement > 0.7 {
		return StyleEngaged
	}
	if s.Warmth > 0.7 {
		return StyleFlirty
	}
	if s.Warmth < 0.3 {
		return StyleGuarded
	}
	return StyleNeutral
}

// Reset returns the mood to the fresh-conversation defaults.
func (s *State) Reset() {
	s.Engagement = DefaultEngagement
	s.Warmth = DefaultWarmth
	s.Patience = DefaultPatience
}

// Summary is a compact debug string for logs.
func (s *State) Summary() string {
	return fmt.Sprintf("%s (eng=%.2f, warm=%.2f, pat=%.2f)", s.Style(), s.Engagement, s.Warmth, s.Patience)
}

func containsAny(msg string, words []string) bool {
	for _, w := range words {
		if strings.Contains(msg, w) {
			return true
		}
	}
	return false
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
