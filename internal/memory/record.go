package memory

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"regexp"
	"strings"
	"time"
)

// Role names for history entries.
const (
	RolePeer = "peer"
	RoleSelf = "self"
)

// Default caps. Overridable via Caps; the values come from the calibrated
// playbook and should not be re-derived.
const (
	DefaultHistoryCap = 100
	DefaultPhraseCap  = 50
	DefaultTopicsCap  = 10

	// DefaultSimilarityThreshold rejects a phrase when any stored phrase
	// scores above it.
	DefaultSimilarityThreshold = 0.8

	// maxPhrasesPerReply bounds how many fragments of one generated reply
	// are fed into the phrase list.
	maxPhrasesPerReply = 5
)

// Caps bounds per-record growth.
type Caps struct {
	History             int
	Phrases             int
	Topics              int
	SimilarityThreshold float64
}

// DefaultCaps returns the playbook defaults.
func DefaultCaps() Caps {
	return Caps{
		History:             DefaultHistoryCap,
		Phrases:             DefaultPhraseCap,
		Topics:              DefaultTopicsCap,
		SimilarityThreshold: DefaultSimilarityThreshold,
	}
}

// IdentityID derives the stable 16-char identity key from a namespace and an
// external handle.
func IdentityID(namespace, handle string) string {
	sum := sha256.Sum256([]byte(namespace + ":" + handle))
	return hex.EncodeToString(sum[:])[:16]
}

// Message is one history entry.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
	Phase     string    `json:"phase,omitempty"`
}

// Profile is the fixed set of facts extracted about the peer.
type Profile struct {
	Name               string   `json:"name,omitempty"`
	Location           string   `json:"location,omitempty"`
	Age                int      `json:"age,omitempty"`
	Job                string   `json:"job,omitempty"`
	Interests          []string `json:"interests,omitempty"`
	RelationshipStatus string   `json:"relationship_status,omitempty"`
	PlatformPrefs      []string `json:"platform_prefs,omitempty"`
}

// StateCounters is the coarse conversation state persisted alongside the
// transcript.
type StateCounters struct {
	Phase             string `json:"phase"`
	RevealMentioned   bool   `json:"reveal_mentioned"`
	Converted         bool   `json:"converted"`
	MeetupRequests    int    `json:"meetup_requests"`
	RapportLevel      int    `json:"rapport_level"`
	ConversationCount int    `json:"conversation_count"`
}

// Record is the durable per-identity memory: transcript, anti-repetition
// phrase list, extracted profile, and state counters. Created lazily on
// first contact and never deleted except by explicit operator action.
type Record struct {
	IdentityID string    `json:"identity_id"`
	CreatedAt  time.Time `json:"created_at"`
	LastActive time.Time `json:"last_active"`

	Messages      []Message     `json:"messages"`
	UsedPhrases   []string      `json:"used_phrases"`
	Profile       Profile       `json:"profile"`
	TopicsCovered []string      `json:"topics_covered"`
	State         StateCounters `json:"state"`

	caps       Caps
	similarity Similarity
	now        func() time.Time
}

// NewRecord creates an empty record for the identity with default caps.
func NewRecord(identityID string) *Record {
	return NewRecordWithCaps(identityID, DefaultCaps())
}

// NewRecordWithCaps creates an empty record with explicit caps.
func NewRecordWithCaps(identityID string, caps Caps) *Record {
	now := time.Now()
	r := &Record{
		IdentityID: identityID,
		CreatedAt:  now,
		LastActive: now,
		State:      StateCounters{Phase: "opening", RapportLevel: 1},
	}
	r.init(caps)
	return r
}

// init restores the unexported runtime fields after construction or decode.
func (r *Record) init(caps Caps) {
	if caps.History <= 0 {
		caps = DefaultCaps()
	}
	r.caps = caps
	r.similarity = LCSRatio
	r.now = time.Now
}

// SetSimilarity swaps the phrase-similarity function.
func (r *Record) SetSimilarity(fn Similarity) {
	if fn != nil {
		r.similarity = fn
	}
}

// AppendMessage adds one history entry, trimming to the history cap with the
// oldest entries dropped first.
func (r *Record) AppendMessage(role, text, phase string) {
	r.Messages = append(r.Messages, Message{
		Role:      role,
		Text:      text,
		Timestamp: r.now(),
		Phase:     phase,
	})
	if len(r.Messages) > r.caps.History {
		r.Messages = append([]Message(nil), r.Messages[len(r.Messages)-r.caps.History:]...)
	}
	r.LastActive = r.now()

	if role == RolePeer {
		r.State.ConversationCount++
	}
}

// RecentMessages returns the last n history entries.
func (r *Record) RecentMessages(n int) []Message {
	if n >= len(r.Messages) {
		return r.Messages
	}
	return r.Messages[len(r.Messages)-n:]
}

// AddPhrase stores a normalized phrase unless it is too similar to one
// already stored. Returns whether the phrase was kept.
func (r *Record) AddPhrase(phrase string) bool {
	normalized := strings.ToLower(strings.TrimSpace(phrase))
	if normalized == "" {
		return false
	}

	for _, existing := range r.UsedPhrases {
		if r.similarity(normalized, existing) > r.caps.SimilarityThreshold {
			return false
		}
	}

	r.UsedPhrases = append(r.UsedPhrases, normalized)
	if len(r.UsedPhrases) > r.caps.Phrases {
		r.UsedPhrases = append([]string(nil), r.UsedPhrases[len(r.UsedPhrases)-r.caps.Phrases:]...)
	}
	r.LastActive = r.now()
	return true
}

// replySplit breaks a generated reply into candidate phrases: sentence
// punctuation plus the multi-bubble delimiter.
var replySplit = regexp.MustCompile(`[.!?|]+`)

// AddPhrasesFromReply extracts phrases from a generated reply and runs each
// through AddPhrase. At most the first maxPhrasesPerReply usable fragments
// are considered.
func (r *Record) AddPhrasesFromReply(reply string) {
	parts := replySplit.Split(reply, -1)
	n := 0
	for _, part := range parts {
		if n >= maxPhrasesPerReply {
			break
		}
		phrase := strings.TrimSpace(part)
		if len(phrase) > 3 {
			r.AddPhrase(phrase)
			n++
		}
	}
}

// RecentPhrases returns the last n stored phrases.
func (r *Record) RecentPhrases(n int) []string {
	if n >= len(r.UsedPhrases) {
		return r.UsedPhrases
	}
	return r.UsedPhrases[len(r.UsedPhrases)-n:]
}

// topicForField maps a populated profile field to its topic label.
var topicForField = map[string]string{
	"name":                "personal",
	"age":                 "personal",
	"location":            "location",
	"job":                 "work",
	"interests":           "hobbies",
	"relationship_status": "relationship",
}

// markTopic appends the topic for a newly populated field, skipping
// duplicates and trimming to the topics cap.
func (r *Record) markTopic(field string) {
	topic, ok := topicForField[field]
	if !ok {
		topic = field
	}
	for _, t := range r.TopicsCovered {
		if t == topic {
			return
		}
	}
	r.TopicsCovered = append(r.TopicsCovered, topic)
	if len(r.TopicsCovered) > r.caps.Topics {
		r.TopicsCovered = append([]string(nil), r.TopicsCovered[len(r.TopicsCovered)-r.caps.Topics:]...)
	}
}

// UpdateRapport recomputes the 1-5 rapport level from the peer message
// count: one level per three messages, capped at five.
func (r *Record) UpdateRapport() {
	level := 1 + r.State.ConversationCount/3
	if level > 5 {
		level = 5
	}
	r.State.RapportLevel = level
}

// ProfileSummary renders the populated profile fields on one line.
func (r *Record) ProfileSummary() string {
	var parts []string
	if r.Profile.Name != "" {
		parts = append(parts, "name: "+r.Profile.Name)
	}
	if r.Profile.Location != "" {
		parts = append(parts, "location: "+r.Profile.Location)
	}
	if r.Profile.Age > 0 {
		parts = append(parts, fmt.Sprintf("age: %d", r.Profile.Age))
	}
	if r.Profile.Job != "" {
		parts = append(parts, "job: "+r.Profile.Job)
	}
	if len(r.Profile.Interests) > 0 {
		parts = append(parts, "interests: "+strings.Join(r.Profile.Interests, ", "))
	}
	if r.Profile.RelationshipStatus != "" {
		parts = append(parts, "relationship: "+r.Profile.RelationshipStatus)
	}
	if len(r.Profile.PlatformPrefs) > 0 {
		parts = append(parts, "platforms: "+strings.Join(r.Profile.PlatformPrefs, ", "))
	}
	return strings.Join(parts, "; ")
}

// PromptContext renders the memory block handed to the generator. This is
// the only way memory state reaches it; the raw record never leaves the
// store.
func (r *Record) PromptContext() string {
	var parts []string

	if phrases := r.RecentPhrases(15); len(phrases) > 0 {
		parts = append(parts, "DONT REPEAT these phrases: "+strings.Join(phrases, ", "))
	}

	if summary := r.ProfileSummary(); summary != "" {
		parts = append(parts, "You know about him: "+summary)
	}

	if len(r.TopicsCovered) > 0 {
		parts = append(parts, "Topics already discussed: "+strings.Join(r.TopicsCovered, ", "))
	}

	if r.State.RapportLevel >= 3 {
		parts = append(parts, "You've built some rapport - can be slightly warmer")
	}

	return strings.Join(parts, "\n")
}
