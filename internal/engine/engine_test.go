package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fanloophq/fanloop/internal/escalation"
	"github.com/fanloophq/fanloop/internal/intent"
	"github.com/fanloophq/fanloop/internal/memory"
	"github.com/fanloophq/fanloop/internal/phase"
	"github.com/fanloophq/fanloop/pkg/logging"
)

// neverRevealTracker never passes the reveal draw, so level progression and
// phase transitions are deterministic.
func neverRevealTracker() *escalation.Tracker {
	return escalation.NewTracker(escalation.WithProbabilityTable(map[int]float64{}, 0.0))
}

func newTestEngine(t *testing.T) (*Engine, memory.Store) {
	t.Helper()
	store, err := memory.NewFileStore(t.TempDir(), memory.DefaultCaps())
	require.NoError(t, err)
	e := New(store, logging.NewWithWriter("error", testWriter{t}), WithTracker(neverRevealTracker()))
	return e, store
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(string(p))
	return len(p), nil
}

func TestNewPanicsOnNilStore(t *testing.T) {
	assert.Panics(t, func() { New(nil, logging.Default()) })
}

func TestProcessInboundGreeting(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	d, err := e.ProcessInbound(ctx, "fan1", "hey")
	require.NoError(t, err)

	assert.Equal(t, intent.LabelGreeting, d.Intent.Label)
	assert.Equal(t, phase.Opening, d.Phase)
	assert.Contains(t, d.PhaseGuidance, "PHASE: OPENING")
	assert.Equal(t, escalation.LevelDefer, d.TensionLevel)
	assert.False(t, d.ObjectionDetected)
}

func TestProcessInboundObjectionSteersGuidance(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	d, err := e.ProcessInbound(ctx, "fan1", "i dont pay for that stuff")
	require.NoError(t, err)

	assert.Equal(t, intent.LabelObjection, d.Intent.Label)
	assert.True(t, d.ObjectionDetected)
	assert.Contains(t, d.TensionGuidance, "OBJECTION")
	assert.NotContains(t, d.TensionGuidance, "REVEAL:")
}

func TestProcessReplyStoresPhrases(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ProcessInbound(ctx, "fan1", "hey")
	require.NoError(t, err)
	require.NoError(t, e.ProcessReply(ctx, "fan1", "heyy whats good||hows ur day going"))

	record, err := store.GetOrCreate(ctx, "fan1")
	require.NoError(t, err)
	assert.Contains(t, record.UsedPhrases, "heyy whats good")
	assert.Contains(t, record.UsedPhrases, "hows ur day going")
	require.Len(t, record.Messages, 2)
	assert.Equal(t, memory.RoleSelf, record.Messages[1].Role)
}

func TestHistory(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ProcessInbound(ctx, "fan1", "hey")
	require.NoError(t, err)
	require.NoError(t, e.ProcessReply(ctx, "fan1", "heyy"))

	history, err := e.History(ctx, "fan1", 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hey", history[0].Text)
	assert.Equal(t, "heyy", history[1].Text)
}

// Full funnel walk: greeting, location share, escalating meetup requests,
// the reveal, going cold, then a late conversion thawing the conversation.
func TestFullConversationFlow(t *testing.T) {
	e, store := newTestEngine(t)
	ctx := context.Background()
	const id = "fan1"

	d, err := e.ProcessInbound(ctx, id, "hey")
	require.NoError(t, err)
	assert.Equal(t, phase.Opening, d.Phase)
	require.NoError(t, e.ProcessReply(ctx, id, "heyy wbu"))

	d, err = e.ProcessInbound(ctx, id, "I'm from Denver")
	require.NoError(t, err)
	assert.Equal(t, intent.LabelLocationShare, d.Intent.Label)
	assert.Equal(t, phase.Location, d.Phase)
	require.NoError(t, e.ProcessReply(ctx, id, "no way im visiting denver next week"))

	d, err = e.ProcessInbound(ctx, id, "lets meet up")
	require.NoError(t, err)
	assert.Equal(t, intent.LabelMeetupReq, d.Intent.Label)
	assert.Equal(t, phase.Deflection, d.Phase)
	assert.Equal(t, escalation.LevelDefer, d.TensionLevel)
	require.NoError(t, e.ProcessReply(ctx, id, "haha slow down i barely know u"))

	d, err = e.ProcessInbound(ctx, id, "come on lets meet")
	require.NoError(t, err)
	assert.Equal(t, phase.Pitch, d.Phase)
	assert.Equal(t, escalation.LevelTease, d.TensionLevel)
	// Four positive turns in, the unprompted-pitch nudge fires once.
	assert.True(t, d.ProactivePitch)

	require.NoError(t, e.ProcessReply(ctx, id, "i dont rly meet people from here but im way more open on my premium"))

	record, err := store.GetOrCreate(ctx, id)
	require.NoError(t, err)
	assert.True(t, record.State.RevealMentioned)
	assert.Equal(t, string(phase.PostPitch), record.State.Phase)
	assert.Equal(t, "Denver", record.Profile.Location)

	// Four more turns without a conversion and the conversation goes cold.
	for _, msg := range []string{"why tho", "hm ok", "idk man", "u there"} {
		d, err = e.ProcessInbound(ctx, id, msg)
		require.NoError(t, err)
		require.NoError(t, e.ProcessReply(ctx, id, "mhm"))
	}
	assert.Equal(t, phase.Cold, d.Phase)

	// A detected conversion is the only thing that thaws it.
	d, err = e.ProcessInbound(ctx, id, "ok fine i just subscribed")
	require.NoError(t, err)
	assert.Equal(t, intent.LabelSubscribed, d.Intent.Label)
	assert.Equal(t, phase.PostPitch, d.Phase)

	record, err = store.GetOrCreate(ctx, id)
	require.NoError(t, err)
	assert.True(t, record.State.Converted)
}

func TestProactivePitchFiresOnce(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	var fired int
	for i, msg := range []string{"hey", "hows it going", "im good haha", "just chilling", "watching a movie"} {
		d, err := e.ProcessInbound(ctx, "fan1", msg)
		require.NoError(t, err)
		if d.ProactivePitch {
			fired++
			assert.GreaterOrEqual(t, i+1, 4)
		}
		require.NoError(t, e.ProcessReply(ctx, "fan1", "nice"))
	}
	assert.Equal(t, 1, fired)
}

func TestDistinctIdentitiesAreIndependent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	_, err := e.ProcessInbound(ctx, "fan1", "lets meet up")
	require.NoError(t, err)

	d, err := e.ProcessInbound(ctx, "fan2", "hey")
	require.NoError(t, err)
	assert.Equal(t, phase.Opening, d.Phase)
	assert.Equal(t, escalation.LevelDefer, d.TensionLevel)
}
