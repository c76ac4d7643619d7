package mood

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/fanloophq/fanloop/internal/intent"
)

func TestNewStateDefaults(t *testing.T) {
	s := NewState()
	assert.Equal(t, 0.5, s.Engagement)
	assert.Equal(t, 0.5, s.Warmth)
	assert.Equal(t, 1.0, s.Patience)
	assert.Equal(t, StyleNeutral, s.Style())
}

func TestUpdateLowEffortOpener(t *testing.T) {
	s := NewState()
	s.Update("hey", intent.LabelGreeting)
	assert.InDelta(t, 0.4, s.Engagement, 1e-9)
}

func TestUpdateLongMessageAndQuestion(t *testing.T) {
	s := NewState()
	s.Update("I saw you're into yoga, that's cool! any tips for getting started with meditation?", intent.LabelGeneric)
	// +0.1 length, +0.05 question
	assert.InDelta(t, 0.65, s.Engagement, 1e-9)
}

func TestUpdatePursuitDrainsPatience(t *testing.T) {
	s := NewState()
	s.Update("send me pics", intent.LabelExplicitReq)
	// -0.15 pursuit, -0.05 demanding ("send me")
	assert.InDelta(t, 0.8, s.Patience, 1e-9)
	assert.InDelta(t, 0.45, s.Warmth, 1e-9)
}

func TestUpdateCompliment(t *testing.T) {
	s := NewState()
	s.Update("you're really beautiful, nice to meet you", intent.LabelCompliment)
	// +0.1 compliment, +0.05 warm words
	assert.InDelta(t, 0.65, s.Warmth, 1e-9)

	creepy := NewState()
	creepy.Update("you're so sexy, dtf?", intent.LabelCompliment)
	assert.InDelta(t, 0.45, creepy.Warmth, 1e-9)
}

func TestUpdatePlayfulMarkers(t *testing.T) {
	s := NewState()
	s.Update("haha jk that was funny", intent.LabelGeneric)
	assert.InDelta(t, 0.55, s.Engagement, 1e-9)
	assert.InDelta(t, 0.53, s.Warmth, 1e-9)
}

func TestUpdateEmptyMessageSafe(t *testing.T) {
	s := NewState()
	s.Update("", intent.LabelGeneric)
	// Empty counts as a <=3 char message.
	assert.InDelta(t, 0.4, s.Engagement, 1e-9)
	assert.Equal(t, 1.0, s.Patience)
}

func TestMoodAlwaysClamped(t *testing.T) {
	s := NewState()
	for i := 0; i < 50; i++ {
		s.Update("send nudes now", intent.LabelSexual)
		s.Update(strings.Repeat("a", 500)+"?", intent.LabelGeneric)
		s.Update("hey", intent.LabelGreeting)
	}
	assert.GreaterOrEqual(t, s.Engagement, 0.0)
	assert.LessOrEqual(t, s.Engagement, 1.0)
	assert.GreaterOrEqual(t, s.Warmth, 0.0)
	assert.LessOrEqual(t, s.Warmth, 1.0)
	assert.GreaterOrEqual(t, s.Patience, 0.0)
	assert.LessOrEqual(t, s.Patience, 1.0)
}

func TestStylePriority(t *testing.T) {
	tests := []struct {
		name  string
		state State
		want  Style
	}{
		{"low patience overrides everything", State{Engagement: 0.9, Warmth: 0.9, Patience: 0.2}, StyleAnnoyed},
		{"low engagement", State{Engagement: 0.2, Warmth: 0.9, Patience: 0.9}, StyleBored},
		{"high engagement", State{Engagement: 0.8, Warmth: 0.9, Patience: 0.9}, StyleEngaged},
		{"high warmth", State{Engagement: 0.5, Warmth: 0.8, Patience: 0.9}, StyleFlirty},
		{"low warmth", State{Engagement: 0.5, Warmth: 0.2, Patience: 0.9}, StyleGuarded},
		{"midpoints", State{Engagement: 0.5, Warmth: 0.5, Patience: 1.0}, StyleNeutral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.state.Style())
		})
	}
}

func TestRepeatedPursuitGoesAnnoyed(t *testing.T) {
	s := NewState()
	for i := 0; i < 5; i++ {
		s.Update("send nudes", intent.LabelExplicitReq)
	}
	assert.Equal(t, StyleAnnoyed, s.Style())
}

func TestReset(t *testing.T) {
	s := NewState()
	s.Update("send nudes", intent.LabelExplicitReq)
	s.Reset()
	assert.Equal(t, *NewState(), *s)
}

func TestSummary(t *testing.T) {
	s := NewState()
	assert.Contains(t, s.Summary(), "neutral")
	assert.Contains(t, s.Summary(), "pat=1.00")
}

func TestStyleGuidanceNonEmpty(t *testing.T) {
	for _, style := range []Style{StyleAnnoyed, StyleBored, StyleEngaged, StyleFlirty, StyleGuarded, StyleNeutral} {
		assert.NotEmpty(t, style.Guidance())
	}
}
