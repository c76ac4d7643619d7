// Package phase tracks where a conversation sits in the funnel and decides
// transitions from counters maintained on every turn. It is the top-level
// aggregator: intent, mood, and escalation feed it, and its output phase
// selects the guidance handed to the generator.
package phase

// Phase is a discrete conversation stage.
type Phase string

const (
	// Opening covers first contact, the first couple of peer messages.
	Opening Phase = "opening"

	// Location is active once the peer's location is known but not yet
	// acknowledged in a self-authored reply.
	Location Phase = "location"

	// SmallTalk is the default rapport-building stage.
	SmallTalk Phase = "small_talk"

	// Deflection handles the first meetup-style request softly.
	Deflection Phase = "deflection"

	// Pitch is entered on a second meetup request, any explicit-content
	// request, or sustained sexual tone, before the reveal has been made.
	Pitch Phase = "pitch"

	// PostPitch follows a self-authored reply containing a reveal marker.
	PostPitch Phase = "post_pitch"

	// Cold is entered from PostPitch after too many turns without a
	// conversion, and exited only by a detected conversion.
	Cold Phase = "cold"
)

// State holds the counters the transition function reads. MessageCount is
// always PeerMessageCount + SelfMessageCount.
type State struct {
	Phase Phase `json:"phase"`

	MessageCount     int `json:"message_count"`
	PeerMessageCount int `json:"peer_message_count"`
	SelfMessageCount int `json:"self_message_count"`

	LocationDetected bool   `json:"location_detected"`
	Location         string `json:"location,omitempty"`
	LocationAcked    bool   `json:"location_acked"`

	MeetupRequests   int  `json:"meetup_requests"`
	ExplicitRequests int  `json:"explicit_requests"`
	SexualTone       bool `json:"sexual_tone"`

	// RevealMentioned is monotonic: once a self-authored reply carries a
	// reveal marker it never resets.
	RevealMentioned    bool `json:"reveal_mentioned"`
	RevealMentionCount int  `json:"reveal_mention_count"`

	// PostRevealMessages counts peer messages since the reveal without a
	// conversion, driving the cold transition.
	PostRevealMessages int  `json:"post_reveal_messages"`
	Converted          bool `json:"converted"`
}

// NewState returns a fresh state in the opening phase.
func NewState() *State {
	return &State{Phase: Opening}
}
