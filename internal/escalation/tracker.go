package escalation

import (
	"math/rand"
	"strings"

	"github.com/fanloophq/fanloop/internal/intent"
)

// Level is the tracker's current stance on revealing the paid offering.
// It only moves forward; once Reveal is reached it never regresses.
type Level int

const (
	LevelDefer Level = iota + 1
	LevelTease
	LevelHint
	LevelReveal
)

func (l Level) String() string {
	switch l {
	case LevelDefer:
		return "defer"
	case LevelTease:
		return "tease"
	case LevelHint:
		return "hint"
	case LevelReveal:
		return "reveal"
	default:
		return "unknown"
	}
}

// FunnelState is the coarse sales-funnel status for a conversation.
type FunnelState string

const (
	FunnelNotPitched FunnelState = "not_pitched"
	FunnelPitched    FunnelState = "pitched"
	FunnelInterested FunnelState = "interested"
	FunnelResistant  FunnelState = "resistant"
	FunnelConverted  FunnelState = "converted"
)

// State tracks escalation for one conversation.
type State struct {
	EscalationCount int         `json:"escalation_count"`
	Level           Level       `json:"level"`
	Funnel          FunnelState `json:"funnel"`
	Revealed        bool        `json:"revealed"`

	// ObjectionDetected is sticky: once the peer pushes back on paying, the
	// directive must stop proposing a reveal regardless of tension level.
	ObjectionDetected bool `json:"objection_detected"`

	// Rapport accumulates from positive interactions and feeds the
	// proactive-pitch decision.
	MessageCount            int     `json:"message_count"`
	RapportScore            float64 `json:"rapport_score"`
	ProactivePitchSuggested bool    `json:"proactive_pitch_suggested"`
}

// NewState returns a fresh escalation state.
func NewState() *State {
	return &State{Level: LevelDefer, Funnel: FunnelNotPitched}
}

// defaultRevealProbability maps escalation count to the chance of revealing
// on that escalation. Never zero: some peers are ready immediately.
var defaultRevealProbability = map[int]float64{
	1: 0.05,
	2: 0.10,
	3: 0.25,
	4: 0.50,
	5: 0.75,
}

// defaultCeiling applies to counts beyond the table's domain.
const defaultCeiling = 0.90

// proactivePitchAfter is the message count after which an unprompted
// mention gets suggested once.
const proactivePitchAfter = 4

// rapportScoreCap bounds the accumulated rapport score.
const rapportScoreCap = 10.0

// Tracker decides, per pursuit escalation, whether it is time to reveal.
// The draw is intentionally probabilistic rather than a hard threshold so
// the behavior is not perfectly predictable from outside.
type Tracker struct {
	probability map[int]float64
	ceiling     float64
	randFloat   func() float64
}

// Option customizes a Tracker.
type Option func(*Tracker)

// WithRand injects the random source, for deterministic tests.
func WithRand(r *rand.Rand) Option {
	return func(t *Tracker) { t.randFloat = r.Float64 }
}

// WithProbabilityTable swaps the reveal probability table and its ceiling.
func WithProbabilityTable(table map[int]float64, ceiling float64) Option {
	return func(t *Tracker) {
		t.probability = table
		t.ceiling = ceiling
	}
}

// NewTracker creates a tracker with the documented probability table.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		probability: defaultRevealProbability,
		ceiling:     defaultCeiling,
		randFloat:   rand.Float64,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// RevealProbability returns the reveal chance at the given escalation count.
// Counts above the table use the ceiling. Count zero is unreachable in
// practice because RecordEscalation increments before looking up.
func (t *Tracker) RevealProbability(count int) float64 {
	if p, ok := t.probability[count]; ok {
		return p
	}
	return t.ceiling
}

// RecordEscalation registers one pursuit-type turn and returns the level the
// response should take. Idempotent once the conversation has revealed.
// Calling it with a non-pursuit label is a contract violation and a no-op.
func (t *Tracker) RecordEscalation(s *State, label intent.Label) Level {
	if !intent.IsPursuit(label) {
		return s.Level
	}
	if s.Revealed {
		return LevelReveal
	}

	s.EscalationCount++

	if t.randFloat() < t.RevealProbability(s.EscalationCount) {
		s.Level = LevelReveal
		s.Revealed = true
		return s.Level
	}

	switch s.EscalationCount {
	case 1:
		s.Level = LevelDefer
	case 2:
		s.Level = LevelTease
	default:
		s.Level = LevelHint
	}
	return s.Level
}

// RecordRevealMention marks that our own reply pitched the offering.
func (t *Tracker) RecordRevealMention(s *State) {
	s.Revealed = true
	s.Level = LevelReveal
	if s.Funnel == FunnelNotPitched {
		s.Funnel = FunnelPitched
	}
}

// RecordInterest marks that the peer showed interest in the offering.
func (t *Tracker) RecordInterest(s *State) {
	if s.Funnel != FunnelConverted {
		s.Funnel = FunnelInterested
	}
}

// RecordObjection marks that the peer pushed back on paying. The flag is
// sticky; downstream directive logic stops proposing a reveal after this.
func (t *Tracker) RecordObjection(s *State) {
	s.ObjectionDetected = true
	if s.Funnel != FunnelConverted {
		s.Funnel = FunnelResistant
	}
}

// RecordConversion marks the terminal subscribed state.
func (t *Tracker) RecordConversion(s *State) {
	s.Funnel = FunnelConverted
}

// laughter tokens that read as positive signals for rapport.
var positiveSignals = []string{"haha", "lol", "lmao"}

// RecordRapport accumulates rapport from one inbound message.
func (t *Tracker) RecordRapport(s *State, label intent.Label, message string) {
	s.MessageCount++

	var delta float64
	switch label {
	case intent.LabelCompliment:
		delta += 0.5
	case intent.LabelGreeting:
		delta += 0.1
	case intent.LabelGeneric, intent.LabelEmotional:
		delta += 0.2
	}

	if len(message) > 50 {
		delta += 0.2
	}

	msg := strings.ToLower(message)
	for _, sig := range positiveSignals {
		if strings.Contains(msg, sig) {
			delta += 0.1
			break
		}
	}

	s.RapportScore += delta
	if s.RapportScore > rapportScoreCap {
		s.RapportScore = rapportScoreCap
	}
}

// ShouldProactivePitch reports whether the directive should nudge an
// unprompted mention of the offering. Fires at most once per conversation,
// and never after a reveal or an objection.
func (t *Tracker) ShouldProactivePitch(s *State) bool {
	if s.Revealed || s.ObjectionDetected || s.ProactivePitchSuggested {
		return false
	}
	return s.MessageCount >= proactivePitchAfter
}
