// Package simulator drives scripted conversations through the engine
// concurrently, for evaluating funnel behavior without a live generator.
package simulator

import (
	"context"
	"strings"

	"github.com/fanloophq/fanloop/internal/engine"
	"github.com/fanloophq/fanloop/internal/escalation"
	"github.com/fanloophq/fanloop/internal/intent"
	"github.com/fanloophq/fanloop/internal/memory"
	"github.com/fanloophq/fanloop/internal/phase"
)

// Persona is a scripted simulated peer: one message per turn, in order.
type Persona struct {
	Name   string
	Script []string
}

// DefaultPersonas covers the archetypes worth evaluating against: the polite
// regular, the pushy escalator, the skeptic, the one who won't pay, and the
// instant conversion.
func DefaultPersonas() []Persona {
	return []Persona{
		{
			Name: "nice_guy",
			Script: []string{
				"hey",
				"im from denver, hbu",
				"i love hiking and fishing",
				"you seem really cool tbh",
				"whats your day been like",
				"we should hang sometime haha",
				"come on lets meet for coffee",
				"ok fair, whats on your page",
			},
		},
		{
			Name: "pushy",
			Script: []string{
				"hey sexy",
				"lets meet up",
				"come on lets meet tonight",
				"send me a pic",
				"what are you wearing",
				"why not",
			},
		},
		{
			Name: "skeptic",
			Script: []string{
				"hey",
				"are you a bot",
				"prove it",
				"how do i know ur real",
				"hm ok maybe",
				"where are you from",
			},
		},
		{
			Name: "cheapskate",
			Script: []string{
				"hey",
				"got any free pics",
				"i dont pay for that stuff",
				"thats too expensive",
				"maybe later",
			},
		},
		{
			Name: "instant_sub",
			Script: []string{
				"hey",
				"i just subscribed",
				"loving it already",
			},
		},
	}
}

// ScriptedGenerator is a stand-in for the external text generator. It picks
// a canned reply off the directive the same way the real generator is asked
// to, including the reveal when the tension level calls for one.
type ScriptedGenerator struct{}

var _ engine.Generator = ScriptedGenerator{}

func (ScriptedGenerator) Generate(_ context.Context, d *engine.Directive, _ []memory.Message) (string, error) {
	if d.ObjectionDetected {
		return "haha all good, no pressure", nil
	}
	if d.TensionLevel == escalation.LevelReveal || d.Phase == phase.Pitch {
		return "i dont rly meet people from here but im way more open on my premium", nil
	}
	if d.ProactivePitch {
		return "btw my page is where i post the fun stuff||anyway", nil
	}

	switch d.Phase {
	case phase.Location:
		return "wait fr? im visiting there next week lol", nil
	case phase.Deflection:
		return "haha slow down, i barely know u", nil
	case phase.PostPitch:
		if d.Intent.Label == intent.LabelSubscribed {
			return "omg yay, u wont regret it", nil
		}
		return "its chill, no rush", nil
	case phase.Cold:
		return "mhm", nil
	default:
		if strings.Contains(d.MoodGuidance, "BORED") {
			return "lol", nil
		}
		return "haha nice||tell me more", nil
	}
}
