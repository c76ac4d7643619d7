// Package engine orchestrates one conversation turn: it classifies the
// inbound message, updates mood, escalation, memory, and phase, and merges
// their outputs into a single directive for the external text generator.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fanloophq/fanloop/internal/escalation"
	"github.com/fanloophq/fanloop/internal/intent"
	"github.com/fanloophq/fanloop/internal/memory"
	"github.com/fanloophq/fanloop/internal/mood"
	"github.com/fanloophq/fanloop/internal/observability/metrics"
	"github.com/fanloophq/fanloop/internal/phase"
	"github.com/fanloophq/fanloop/pkg/logging"
)

// Generator is the external text generator boundary. The engine prepares the
// directive before the call and consumes the raw reply after it; the call
// itself, including any timeout, lives outside the engine.
type Generator interface {
	Generate(ctx context.Context, directive *Directive, history []memory.Message) (string, error)
}

// conversation bundles the in-memory trackers for one identity.
type conversation struct {
	mood  *mood.State
	esc   *escalation.State
	phase *phase.State
}

// Engine processes turns. Per-identity state is single-writer: the caller
// guarantees at most one in-flight call per identity; calls for distinct
// identities are safe to run concurrently.
type Engine struct {
	classifier *intent.Classifier
	tracker    *escalation.Tracker
	machine    *phase.Machine
	extractor  *memory.Extractor
	store      memory.Store
	metrics    *metrics.EngineMetrics
	logger     *logging.Logger
	now        func() time.Time

	mu            sync.Mutex
	conversations map[string]*conversation
}

// Option customizes an Engine.
type Option func(*Engine)

// WithTracker swaps the escalation tracker, for deterministic tests.
func WithTracker(t *escalation.Tracker) Option {
	return func(e *Engine) { e.tracker = t }
}

// WithClassifier swaps the intent classifier.
func WithClassifier(c *intent.Classifier) Option {
	return func(e *Engine) { e.classifier = c }
}

// WithMachine swaps the phase machine.
func WithMachine(m *phase.Machine) Option {
	return func(e *Engine) { e.machine = m }
}

// WithMetrics attaches engine metrics. A nil metrics value is fine; every
// observe method is a no-op on nil.
func WithMetrics(m *metrics.EngineMetrics) Option {
	return func(e *Engine) { e.metrics = m }
}

// WithClock swaps the clock, for tests.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates an engine over the given memory store.
func New(store memory.Store, logger *logging.Logger, opts ...Option) *Engine {
	if store == nil {
		panic("engine: memory store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	e := &Engine{
		classifier:    intent.NewClassifier(nil),
		tracker:       escalation.NewTracker(),
		machine:       phase.NewMachine(0),
		extractor:     memory.NewExtractor(),
		store:         store,
		logger:        logger.Component("engine"),
		now:           time.Now,
		conversations: map[string]*conversation{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// conversationFor returns the identity's trackers, creating them on first
// contact. Only the map lookup is guarded; the states themselves are
// single-writer by the caller contract.
func (e *Engine) conversationFor(identityID string) *conversation {
	e.mu.Lock()
	defer e.mu.Unlock()

	c, ok := e.conversations[identityID]
	if !ok {
		c = &conversation{
			mood:  mood.NewState(),
			esc:   escalation.NewState(),
			phase: phase.NewState(),
		}
		e.conversations[identityID] = c
	}
	return c
}

// ProcessInbound folds one inbound peer message into every tracker and
// returns the directive for generating the reply.
func (e *Engine) ProcessInbound(ctx context.Context, identityID, message string) (*Directive, error) {
	start := e.now()

	record, err := e.store.GetOrCreate(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("engine: load memory: %w", err)
	}
	c := e.conversationFor(identityID)

	it := e.classifier.Classify(message)

	record.AppendMessage(memory.RolePeer, message, string(c.phase.Phase))
	e.extractor.ExtractAndUpdate(message, record)
	record.UpdateRapport()

	c.mood.Update(message, it.Label)

	switch it.Label {
	case intent.LabelObjection:
		e.tracker.RecordObjection(c.esc)
	case intent.LabelOfferQuestion:
		e.tracker.RecordInterest(c.esc)
	case intent.LabelSubscribed:
		e.tracker.RecordConversion(c.esc)
		e.metrics.ObserveConversion()
	}

	if intent.IsPursuit(it.Label) {
		wasRevealed := c.esc.Revealed
		e.tracker.RecordEscalation(c.esc, it.Label)
		if c.esc.Revealed && !wasRevealed {
			e.metrics.ObserveReveal()
		}
	}
	e.tracker.RecordRapport(c.esc, it.Label, message)

	before := c.phase.Phase
	e.machine.ProcessPeerMessage(c.phase, message)
	if c.phase.Phase != before {
		e.metrics.ObservePhaseTransition(string(before), string(c.phase.Phase))
	}

	proactive := e.tracker.ShouldProactivePitch(c.esc)
	if proactive {
		c.esc.ProactivePitchSuggested = true
	}

	e.syncRecordState(record, c)
	if err := e.store.Save(ctx, record); err != nil {
		return nil, fmt.Errorf("engine: save memory: %w", err)
	}

	d := &Directive{
		Phase:             c.phase.Phase,
		PhaseGuidance:     PhaseGuidance(c.phase.Phase),
		MoodStyle:         c.mood.Style(),
		MoodGuidance:      c.mood.Style().Guidance(),
		TensionLevel:      c.esc.Level,
		TensionGuidance:   TensionGuidance(c.esc.Level, c.esc.ObjectionDetected),
		MemoryContext:     record.PromptContext(),
		ObjectionDetected: c.esc.ObjectionDetected,
		ProactivePitch:    proactive,
		Intent:            it,
	}

	e.metrics.ObserveTurn(string(it.Label))
	e.metrics.ObserveTurnLatency(e.now().Sub(start).Seconds())
	e.logger.Info("inbound turn processed",
		"identity", identityID,
		"intent", string(it.Label),
		"phase", string(c.phase.Phase),
		"tension", c.esc.Level.String(),
		"mood", string(c.mood.Style()),
	)
	return d, nil
}

// ProcessReply folds one generated reply back into the trackers: phrase
// memory for anti-repetition, reveal-marker detection for the phase machine
// and the escalation funnel.
func (e *Engine) ProcessReply(ctx context.Context, identityID, reply string) error {
	record, err := e.store.GetOrCreate(ctx, identityID)
	if err != nil {
		return fmt.Errorf("engine: load memory: %w", err)
	}
	c := e.conversationFor(identityID)

	wasRevealed := c.phase.RevealMentioned
	e.machine.ProcessSelfReply(c.phase, reply)
	if c.phase.RevealMentioned && !wasRevealed {
		e.tracker.RecordRevealMention(c.esc)
		e.metrics.ObserveReveal()
		e.logger.Info("reveal mentioned", "identity", identityID)
	}

	record.AppendMessage(memory.RoleSelf, reply, string(c.phase.Phase))
	record.AddPhrasesFromReply(reply)

	e.syncRecordState(record, c)
	if err := e.store.Save(ctx, record); err != nil {
		return fmt.Errorf("engine: save memory: %w", err)
	}
	return nil
}

// History returns the most recent history entries for the identity, for
// handing to the generator alongside the directive.
func (e *Engine) History(ctx context.Context, identityID string, n int) ([]memory.Message, error) {
	record, err := e.store.GetOrCreate(ctx, identityID)
	if err != nil {
		return nil, fmt.Errorf("engine: load memory: %w", err)
	}
	return record.RecentMessages(n), nil
}

// syncRecordState mirrors the tracker-derived counters into the durable
// record so a later session starts from them.
func (e *Engine) syncRecordState(record *memory.Record, c *conversation) {
	record.State.Phase = string(c.phase.Phase)
	record.State.RevealMentioned = c.phase.RevealMentioned
	record.State.Converted = c.esc.Funnel == escalation.FunnelConverted
	record.State.MeetupRequests = c.phase.MeetupRequests
}
