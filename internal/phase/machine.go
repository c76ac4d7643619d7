package phase

import "strings"

// DefaultColdThreshold is how many peer messages may elapse after the reveal,
// without a conversion, before the conversation goes cold.
const DefaultColdThreshold = 4

// sexualToneMinPeerMessages gates the sexual-tone flag: early compliments are
// common and should not flip it, so the flag only sets once the peer has sent
// more than this many messages.
const sexualToneMinPeerMessages = 3

// Machine updates a State per turn and recomputes the phase from its
// counters. It holds no per-conversation data and is safe to share across
// conversations.
type Machine struct {
	coldThreshold int
}

// NewMachine builds a machine with the given cold threshold; values below one
// fall back to the default.
func NewMachine(coldThreshold int) *Machine {
	if coldThreshold < 1 {
		coldThreshold = DefaultColdThreshold
	}
	return &Machine{coldThreshold: coldThreshold}
}

// ProcessPeerMessage folds one inbound message into the state: bumps
// counters, runs the detectors, then recomputes the phase.
func (m *Machine) ProcessPeerMessage(s *State, message string) {
	msg := strings.ToLower(message)

	s.MessageCount++
	s.PeerMessageCount++

	if !s.LocationDetected {
		if loc := detectLocation(msg); loc != "" {
			s.LocationDetected = true
			s.Location = loc
		}
	}

	if anyMatch(meetupPatterns, msg) {
		s.MeetupRequests++
	}
	if anyMatch(explicitPatterns, msg) {
		s.ExplicitRequests++
	}
	if anyMatch(sexualPatterns, msg) && s.PeerMessageCount > sexualToneMinPeerMessages {
		s.SexualTone = true
	}
	if anyMatch(subscribedPatterns, msg) {
		s.Converted = true
	}

	if s.RevealMentioned && !s.Converted {
		s.PostRevealMessages++
	}

	m.Recompute(s)
}

// ProcessSelfReply folds one self-authored reply into the state. A reveal
// marker forces the phase to PostPitch immediately, superseding the
// counter-driven computation.
func (m *Machine) ProcessSelfReply(s *State, reply string) {
	msg := strings.ToLower(reply)

	s.MessageCount++
	s.SelfMessageCount++

	if anyMatch(revealPatterns, msg) {
		s.RevealMentioned = true
		s.RevealMentionCount++
		s.Phase = PostPitch
	}

	if s.LocationDetected && !s.LocationAcked && anyMatch(ackPatterns, msg) {
		s.LocationAcked = true
	}
}

// Recompute derives the phase from the current counters. It is pure given
// the counters, idempotent, and always yields exactly one phase.
func (m *Machine) Recompute(s *State) {
	// Cold only thaws on a conversion.
	if s.Phase == Cold {
		if s.Converted {
			s.Phase = PostPitch
		}
		return
	}

	// PostPitch either holds or goes cold.
	if s.Phase == PostPitch {
		if !s.Converted && s.PostRevealMessages >= m.coldThreshold {
			s.Phase = Cold
		}
		return
	}

	// Escalated pursuit before the reveal forces the pitch.
	if (s.MeetupRequests >= 2 || s.ExplicitRequests > 0 || s.SexualTone) && !s.RevealMentioned {
		s.Phase = Pitch
		return
	}

	// First meetup request gets a soft deflection.
	if s.MeetupRequests == 1 && !s.RevealMentioned {
		s.Phase = Deflection
		return
	}

	if s.LocationDetected && !s.LocationAcked {
		s.Phase = Location
		return
	}
	if s.LocationAcked {
		s.Phase = SmallTalk
		return
	}
	if s.PeerMessageCount <= 2 {
		s.Phase = Opening
		return
	}
	s.Phase = SmallTalk
}
