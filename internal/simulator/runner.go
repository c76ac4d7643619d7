package simulator

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/fanloophq/fanloop/internal/engine"
	"github.com/fanloophq/fanloop/internal/memory"
	"github.com/fanloophq/fanloop/internal/phase"
	"github.com/fanloophq/fanloop/pkg/logging"
)

const (
	defaultWorkerCount = 4
	defaultMaxTurns    = 12
)

// Result summarizes one simulated conversation.
type Result struct {
	Persona    string
	IdentityID string
	Turns      int
	FinalPhase phase.Phase
	Revealed   bool
	Converted  bool
	Err        error
}

// Runner drives personas through the engine with a worker pool. Identities
// never overlap across jobs, so the engine's per-identity single-writer
// contract holds even with many workers.
type Runner struct {
	engine  *engine.Engine
	gen     engine.Generator
	store   memory.Store
	logger  *logging.Logger
	workers int
	turns   int
}

// RunnerOption customizes runner behavior.
type RunnerOption func(*Runner)

// WithWorkerCount sets the number of concurrent conversation goroutines.
func WithWorkerCount(count int) RunnerOption {
	return func(r *Runner) {
		if count > 0 {
			r.workers = count
		}
	}
}

// WithMaxTurns caps how many scripted turns each conversation plays.
func WithMaxTurns(turns int) RunnerOption {
	return func(r *Runner) {
		if turns > 0 {
			r.turns = turns
		}
	}
}

// NewRunner wires a runner over an engine and the store it persists to.
func NewRunner(e *engine.Engine, gen engine.Generator, store memory.Store, logger *logging.Logger, opts ...RunnerOption) *Runner {
	if e == nil {
		panic("simulator: engine cannot be nil")
	}
	if gen == nil {
		panic("simulator: generator cannot be nil")
	}
	if store == nil {
		panic("simulator: store cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}

	r := &Runner{
		engine:  e,
		gen:     gen,
		store:   store,
		logger:  logger.Component("simulator"),
		workers: defaultWorkerCount,
		turns:   defaultMaxTurns,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plays every persona `perPersona` times concurrently and returns one
// Result per conversation.
func (r *Runner) Run(ctx context.Context, personas []Persona, perPersona int) []Result {
	if perPersona < 1 {
		perPersona = 1
	}

	jobs := make(chan Persona, len(personas)*perPersona)
	results := make(chan Result, len(personas)*perPersona)

	var wg sync.WaitGroup
	for i := 0; i < r.workers; i++ {
		wg.Add(1)
		go func(workerID int) {
			defer wg.Done()
			for p := range jobs {
				select {
				case <-ctx.Done():
					results <- Result{Persona: p.Name, Err: ctx.Err()}
					continue
				default:
				}
				results <- r.play(ctx, p)
			}
		}(i + 1)
	}

	for i := 0; i < perPersona; i++ {
		for _, p := range personas {
			jobs <- p
		}
	}
	close(jobs)
	wg.Wait()
	close(results)

	out := make([]Result, 0, len(personas)*perPersona)
	for res := range results {
		out = append(out, res)
	}
	return out
}

// play runs one scripted conversation end to end.
func (r *Runner) play(ctx context.Context, p Persona) Result {
	identityID := memory.IdentityID("simulator", p.Name+"-"+uuid.NewString())
	res := Result{Persona: p.Name, IdentityID: identityID}

	for i, msg := range p.Script {
		if i >= r.turns {
			break
		}

		directive, err := r.engine.ProcessInbound(ctx, identityID, msg)
		if err != nil {
			res.Err = fmt.Errorf("simulator: inbound turn %d: %w", i+1, err)
			return res
		}

		history, err := r.engine.History(ctx, identityID, 10)
		if err != nil {
			res.Err = fmt.Errorf("simulator: history turn %d: %w", i+1, err)
			return res
		}

		reply, err := r.gen.Generate(ctx, directive, history)
		if err != nil {
			res.Err = fmt.Errorf("simulator: generate turn %d: %w", i+1, err)
			return res
		}
		if err := r.engine.ProcessReply(ctx, identityID, reply); err != nil {
			res.Err = fmt.Errorf("simulator: reply turn %d: %w", i+1, err)
			return res
		}
		res.Turns++
	}

	record, err := r.store.GetOrCreate(ctx, identityID)
	if err != nil {
		res.Err = fmt.Errorf("simulator: final record: %w", err)
		return res
	}
	res.FinalPhase = phase.Phase(record.State.Phase)
	res.Revealed = record.State.RevealMentioned
	res.Converted = record.State.Converted

	r.logger.Info("conversation finished",
		"persona", p.Name,
		"turns", res.Turns,
		"phase", string(res.FinalPhase),
		"revealed", res.Revealed,
		"converted", res.Converted,
	)
	return res
}

// Summary aggregates results for reporting.
type Summary struct {
	Conversations int
	Reveals       int
	Conversions   int
	Errors        int
	ByPhase       map[phase.Phase]int
}

// Summarize folds results into a summary.
func Summarize(results []Result) Summary {
	s := Summary{ByPhase: map[phase.Phase]int{}}
	for _, res := range results {
		s.Conversations++
		if res.Err != nil {
			s.Errors++
			continue
		}
		if res.Revealed {
			s.Reveals++
		}
		if res.Converted {
			s.Conversions++
		}
		s.ByPhase[res.FinalPhase]++
	}
	return s
}

// String renders the summary on one line for the CLI.
func (s Summary) String() string {
	return fmt.Sprintf("conversations=%d reveals=%d conversions=%d errors=%d phases=%v",
		s.Conversations, s.Reveals, s.Conversions, s.Errors, s.ByPhase)
}
