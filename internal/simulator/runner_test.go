package simulator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanloophq/fanloop/internal/engine"
	"github.com/fanloophq/fanloop/internal/escalation"
	"github.com/fanloophq/fanloop/internal/memory"
	"github.com/fanloophq/fanloop/internal/phase"
	"github.com/fanloophq/fanloop/pkg/logging"
)

func newTestRunner(t *testing.T, opts ...RunnerOption) (*Runner, memory.Store) {
	t.Helper()
	store, err := memory.NewFileStore(t.TempDir(), memory.DefaultCaps())
	require.NoError(t, err)

	// Probability table with a zero ceiling: the reveal only ever happens
	// through the phase-driven pitch, so runs are deterministic.
	tracker := escalation.NewTracker(escalation.WithProbabilityTable(map[int]float64{}, 0.0))
	e := engine.New(store, logging.New("error"), engine.WithTracker(tracker))
	return NewRunner(e, ScriptedGenerator{}, store, logging.New("error"), opts...), store
}

func findResults(results []Result, persona string) []Result {
	var out []Result
	for _, r := range results {
		if r.Persona == persona {
			out = append(out, r)
		}
	}
	return out
}

func TestRunnerPlaysAllPersonas(t *testing.T) {
	r, _ := newTestRunner(t, WithWorkerCount(3))

	results := r.Run(context.Background(), DefaultPersonas(), 2)
	require.Len(t, results, len(DefaultPersonas())*2)
	for _, res := range results {
		assert.NoErrorf(t, res.Err, "persona %s", res.Persona)
		assert.Positive(t, res.Turns)
	}
}

func TestRunnerPushyPersonaGetsTheReveal(t *testing.T) {
	r, _ := newTestRunner(t)

	results := r.Run(context.Background(), DefaultPersonas(), 1)

	pushy := findResults(results, "pushy")
	require.Len(t, pushy, 1)
	assert.True(t, pushy[0].Revealed)
	assert.False(t, pushy[0].Converted)
	assert.Equal(t, phase.PostPitch, pushy[0].FinalPhase)
}

func TestRunnerInstantSubConverts(t *testing.T) {
	r, _ := newTestRunner(t)

	results := r.Run(context.Background(), []Persona{DefaultPersonas()[4]}, 1)
	require.Len(t, results, 1)
	require.Equal(t, "instant_sub", results[0].Persona)
	assert.True(t, results[0].Converted)
}

func TestRunnerObjectorNeverGetsPushed(t *testing.T) {
	r, _ := newTestRunner(t)

	results := r.Run(context.Background(), []Persona{DefaultPersonas()[3]}, 1)
	require.Len(t, results, 1)
	require.Equal(t, "cheapskate", results[0].Persona)
	assert.False(t, results[0].Revealed)
	assert.False(t, results[0].Converted)
}

func TestRunnerMaxTurnsCapsScript(t *testing.T) {
	r, _ := newTestRunner(t, WithMaxTurns(2))

	results := r.Run(context.Background(), []Persona{DefaultPersonas()[0]}, 1)
	require.Len(t, results, 1)
	assert.Equal(t, 2, results[0].Turns)
}

func TestSummarize(t *testing.T) {
	results := []Result{
		{Persona: "a", FinalPhase: phase.PostPitch, Revealed: true, Converted: true},
		{Persona: "b", FinalPhase: phase.PostPitch, Revealed: true},
		{Persona: "c", FinalPhase: phase.SmallTalk},
		{Persona: "d", Err: context.Canceled},
	}

	s := Summarize(results)
	assert.Equal(t, 4, s.Conversations)
	assert.Equal(t, 2, s.Reveals)
	assert.Equal(t, 1, s.Conversions)
	assert.Equal(t, 1, s.Errors)
	assert.Equal(t, 2, s.ByPhase[phase.PostPitch])
	assert.Equal(t, 1, s.ByPhase[phase.SmallTalk])
	assert.Contains(t, s.String(), "conversations=4")
}
