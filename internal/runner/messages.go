package runner

import "github.com/abhisek/lexdrill/internal/sequencer"

// stepMsg carries one sequencer step of the current presentation.
type stepMsg sequencer.Event

// presentedMsg is sent when a presentation's audio sequence ends.
type presentedMsg struct {
	token uint64
	err   error
}

// nextRoundMsg ends the pause after feedback. graded identifies the answer
// the pause followed.
type nextRoundMsg struct {
	graded int
}
