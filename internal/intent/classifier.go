package intent

import "strings"

// Classifier maps one inbound message to its best-matching intent. It is a
// pure function of the message plus its ruleset and never fails: anything
// the table does not recognize comes back as GENERIC with confidence 0.5.
type Classifier struct {
	rules *Ruleset
}

// NewClassifier creates a classifier over the given ruleset. A nil ruleset
// falls back to the built-in table.
func NewClassifier(rules *Ruleset) *Classifier {
	if rules == nil {
		rules = DefaultRuleset()
	}
	return &Classifier{rules: rules}
}

// Classify returns exactly one intent for the message. Labels are scanned in
// priority order and the first matching pattern wins; ties between labels are
// broken by priority alone, not match quality.
func (c *Classifier) Classify(message string) Intent {
	msg := strings.ToLower(strings.TrimSpace(message))

	for _, rule := range c.rules.rules {
		for _, re := range rule.patterns {
			loc := re.FindString(msg)
			if loc == "" {
				continue
			}
			msgLen := len(msg)
			if msgLen < 1 {
				msgLen = 1
			}
			confidence := 0.5 + 0.5*float64(len(loc))/float64(msgLen)
			if confidence > 1.0 {
				confidence = 1.0
			}
			return Intent{Label: rule.label, Confidence: confidence, Match: loc}
		}
	}

	return Intent{Label: LabelGeneric, Confidence: 0.5}
}
