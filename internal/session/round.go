package session

import "time"

// Round is the state of one presentation and its answer.
type Round struct {
	Target *Target

	// Token is the sequencer token the round was started under.
	Token uint64

	ShownAt time.Time

	// GuardUntil rejects answers arriving before it.
	GuardUntil time.Time

	// CueStartedAt is when the context clip started; zero when no cue played.
	CueStartedAt time.Time

	// CuePending is set while a timed cue is scheduled but not yet started.
	CuePending bool

	IntroStartedAt time.Time
	IntroEndedAt   time.Time

	AnsweredAt time.Time

	// Locked is set once an answer has been graded.
	Locked bool
}

// NewRound starts a round for target shown at shownAt, ignoring answers for
// guard afterwards.
func NewRound(target *Target, token uint64, shownAt time.Time, guard time.Duration) *Round {
	r := &Round{Target: target, Token: token, ShownAt: shownAt}
	if guard > 0 {
		r.GuardUntil = shownAt.Add(guard)
	}
	return r
}
