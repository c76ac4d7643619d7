package memory

import (
	"regexp"
	"strconv"
	"strings"
)

// Extractor pulls profile facts out of raw peer messages with a fixed set
// of labeled patterns. A field that fails to parse is dropped on its own;
// the remaining fields still extract.
type Extractor struct {
	name      *regexp.Regexp
	location  *regexp.Regexp
	age       *regexp.Regexp
	job       *regexp.Regexp
	interests *regexp.Regexp
}

// NewExtractor compiles the extraction patterns.
func NewExtractor() *Extractor {
	return &Extractor{
		name:      regexp.MustCompile(`(?i)(?:my name is|call me|name'?s)\s+([A-Za-z]+)`),
		location:  regexp.MustCompile(`(?i)(?:i'?m from|im from|i live in|from|based in)\s+([A-Za-z]+(?:\s+[A-Za-z]+)?)`),
		age:       regexp.MustCompile(`(?i)\b(\d{2})\s*(?:years?\s*old|yo|y\.o\.?)`),
		job:       regexp.MustCompile(`(?i)(?:i work as|work as|i'?m a|im a|i am a|job is)\s+([A-Za-z]+(?:\s+[A-Za-z]+)?)`),
		interests: regexp.MustCompile(`(?i)(?:i love|i like|i enjoy|i'?m into|im into|fan of|hobby is)\s+([A-Za-z]+(?:ing)?(?:\s+and\s+[A-Za-z]+(?:ing)?)?)`),
	}
}

// Extracted holds whatever a single message yielded.
type Extracted struct {
	Name     string
	Location string
	Age      int
	Job      string
	Interest string
}

// Extract runs all patterns against one message.
func (e *Extractor) Extract(message string) Extracted {
	var out Extracted

	if m := e.name.FindStringSubmatch(message); m != nil {
		out.Name = titleCase(m[1])
	}
	if m := e.location.FindStringSubmatch(message); m != nil {
		out.Location = titleCase(m[1])
	}
	if m := e.age.FindStringSubmatch(message); m != nil {
		// A non-numeric match discards only this field.
		if age, err := strconv.Atoi(m[1]); err == nil {
			out.Age = age
		}
	}
	if m := e.job.FindStringSubmatch(message); m != nil {
		out.Job = titleCase(m[1])
	}
	if m := e.interests.FindStringSubmatch(message); m != nil {
		out.Interest = strings.ToLower(strings.TrimSpace(m[1]))
	}

	return out
}

// ExtractAndUpdate extracts from the message and folds the results into the
// record's profile. Interests accumulate de-duplicated; scalar fields
// overwrite. Each newly populated field marks its topic as covered.
func (e *Extractor) ExtractAndUpdate(message string, r *Record) Extracted {
	got := e.Extract(message)

	if got.Name != "" {
		r.Profile.Name = got.Name
		r.markTopic("name")
	}
	if got.Location != "" {
		r.Profile.Location = got.Location
		r.markTopic("location")
	}
	if got.Age > 0 {
		r.Profile.Age = got.Age
		r.markTopic("age")
	}
	if got.Job != "" {
		r.Profile.Job = got.Job
		r.markTopic("job")
	}
	if got.Interest != "" {
		known := false
		for _, i := range r.Profile.Interests {
			if i == got.Interest {
				known = true
				break
			}
		}
		if !known {
			r.Profile.Interests = append(r.Profile.Interests, got.Interest)
		}
		r.markTopic("interests")
	}

	if got != (Extracted{}) {
		r.LastActive = r.now()
	}
	return got
}

// titleCase uppercases the first letter of each word, lowercasing the rest.
func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(strings.TrimSpace(s)))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
