package engine

import (
	"github.com/fanloophq/fanloop/internal/escalation"
	"github.com/fanloophq/fanloop/internal/intent"
	"github.com/fanloophq/fanloop/internal/mood"
	"github.com/fanloophq/fanloop/internal/phase"
)

// Directive is the structured bundle handed to the external text generator
// for one turn. The engine's obligation is to supply correct, current values
// for each field; rendering them into a prompt is the generator's concern.
type Directive struct {
	Phase         phase.Phase
	PhaseGuidance string

	MoodStyle    mood.Style
	MoodGuidance string

	TensionLevel    escalation.Level
	TensionGuidance string

	MemoryContext string

	ObjectionDetected bool
	ProactivePitch    bool

	Intent intent.Intent
}

// phaseGuidance is the per-phase instruction block for the generator.
var phaseGuidance = map[phase.Phase]string{
	phase.Opening: `PHASE: OPENING
- Be fun, flirty, positive energy
- Keep it simple and light - "heyyy" or "im good u?" is fine
- NO sad/stressed/heavy topics - save that for later
- You can ask where they're from OR just let them talk
- DO NOT mention the premium page yet`,

	phase.Location: `PHASE: LOCATION MATCHING
- If they mention a city, say you're visiting there or in the area
- Keep it vague ("just here for a few days", "looking at apartments")
- Turn it back to them - ask if they're from there
- Build connection through the location
- DO NOT mention the premium page yet`,

	phase.SmallTalk: `PHASE: SMALL TALK
- Build rapport, be casual
- Reference things they said
- Share your interests naturally
- DO NOT mention the premium page yet`,

	phase.Deflection: `PHASE: FIRST MEETUP REQUEST - SOFT DEFLECTION
- They asked to meet - deflect but keep hope alive
- Don't shut them down completely
- Say things like "i barely know u" or "slow down lol"
- Return to small talk after
- DO NOT mention the premium page yet - too early`,

	phase.Pitch: `PHASE: REDIRECT
- NOW is the time to mention the premium page
- They've asked multiple times to meet OR pushed for pics
- Be casual about it, not salesy
- Only mention it ONCE`,

	phase.PostPitch: `PHASE: POST-PITCH
- Already mentioned the page, don't keep pushing
- If they ask questions, answer casually
- If they subscribe, be happy and thankful
- Can let conversation fade if no interest
- Don't mention it again unless they ask`,

	phase.Cold: `PHASE: COLD
- They've had the pitch and didn't bite
- Minimal effort, slow replies, one or two words
- Don't chase - a dead convo can spark back up later
- Warm back up only if they subscribe`,
}

// PhaseGuidance returns the guidance block for a phase, defaulting to the
// small-talk block for anything unrecognized.
func PhaseGuidance(p phase.Phase) string {
	if g, ok := phaseGuidance[p]; ok {
		return g
	}
	return phaseGuidance[phase.SmallTalk]
}

// tensionGuidance is the per-level escalation-response instruction.
var tensionGuidance = map[escalation.Level]string{
	escalation.LevelDefer:  "DEFER: Change the subject, stay casual. Don't acknowledge the push.",
	escalation.LevelTease:  "TEASE: Acknowledge it playfully but don't give anything. Keep him wanting.",
	escalation.LevelHint:   "HINT: Suggest there's more of you somewhere, without saying where yet.",
	escalation.LevelReveal: "REVEAL: Drop the premium page now. Casual, not salesy. Mention it once.",
}

// objectionGuidance replaces the reveal instruction once the peer has pushed
// back on paying; pushing the page again reads as desperate.
const objectionGuidance = "OBJECTION: He pushed back on paying. Don't pitch the page again. Stay warm, keep it light, let him come back around on his own."

// TensionGuidance returns the escalation-response text, with the objection
// flag steering away from the reveal.
func TensionGuidance(level escalation.Level, objection bool) string {
	if objection {
		return objectionGuidance
	}
	if g, ok := tensionGuidance[level]; ok {
		return g
	}
	return tensionGuidance[escalation.LevelDefer]
}
