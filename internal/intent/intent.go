package intent

// Label identifies what the peer is doing right now, independent of which
// conversation phase the engine is in.
type Label string

const (
	// LabelSubscribed is the conversion signal: the peer says they bought the
	// subscription. It outranks everything else.
	LabelSubscribed     Label = "SUBSCRIBED"
	LabelHostile        Label = "HOSTILE"
	LabelObjection      Label = "OBJECTION"
	LabelExplicitReq    Label = "EXPLICIT_REQUEST"
	LabelSexual         Label = "SEXUAL"
	LabelMeetupReq      Label = "MEETUP_REQUEST"
	LabelSkeptical      Label = "SKEPTICAL"
	LabelContactReq     Label = "CONTACT_REQUEST"
	LabelOfferQuestion  Label = "OFFER_QUESTION"
	LabelEmotional      Label = "EMOTIONAL"
	LabelCompliment     Label = "COMPLIMENT"
	LabelLocationShare  Label = "LOCATION_SHARE"
	LabelLocationAsk    Label = "LOCATION_ASK"
	LabelGreeting       Label = "GREETING"
	LabelGeneric        Label = "GENERIC"
)

// Intent is a classified inbound message.
type Intent struct {
	Label      Label
	Confidence float64
	// Match is the text span that triggered the classification. Empty for the
	// generic fallback.
	Match string
}

// pursuitLabels are the intents that represent the peer pushing for more.
// The escalation tracker is only ever fed these.
var pursuitLabels = map[Label]bool{
	LabelExplicitReq: true,
	LabelSexual:      true,
	LabelMeetupReq:   true,
	LabelContactReq:  true,
	LabelCompliment:  true, // repeated compliments count as pursuit
}

// IsPursuit reports whether the label belongs to the static pursuit subset.
func IsPursuit(label Label) bool {
	return pursuitLabels[label]
}
