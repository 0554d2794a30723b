package sequencer

import (
	"context"
	"time"

	"github.com/abhisek/lexdrill/internal/content"
)

// IntroRepetitions is how often each item's clip pair plays during an
// introduction.
const IntroRepetitions = 3

// CountdownFrom is the first countdown value before the cue.
const CountdownFrom = 3

// ClipKind names which recording of an item is played.
type ClipKind string

const (
	ClipIsolation ClipKind = "isolation"
	ClipContext   ClipKind = "context"
)

// Clip is one audio recording of an item.
type Clip struct {
	ItemID int
	Kind   ClipKind
	Ref    string
}

// IsolationClip returns the bare-word clip of item.
func IsolationClip(item content.Item) Clip {
	return Clip{ItemID: item.ID, Kind: ClipIsolation, Ref: item.Audio.Isolation}
}

// ContextClip returns the carrier-phrase clip of item.
func ContextClip(item content.Item) Clip {
	return Clip{ItemID: item.ID, Kind: ClipContext, Ref: item.Audio.Context}
}

// CueState is the progress of a round's timed cue.
type CueState int

const (
	// CueNone means the round has no timed cue.
	CueNone CueState = iota
	// CuePending means the cue is scheduled but has not started.
	CuePending
	// CueStarted means the context clip started playing.
	CueStarted
	// CueUnavailable means the context clip failed or was missing.
	CueUnavailable
)

func (c CueState) String() string {
	switch c {
	case CuePending:
		return "pending"
	case CueStarted:
		return "started"
	case CueUnavailable:
		return "unavailable"
	default:
		return "none"
	}
}

// EventKind names a step reported to a scope observer.
type EventKind string

const (
	EventClip           EventKind = "clip"
	EventCountdown      EventKind = "countdown"
	EventCue            EventKind = "cue"
	EventCueUnavailable EventKind = "cue_unavailable"
)

// Event is one step of a scope's sequence.
type Event struct {
	Token uint64
	Kind  EventKind
	// Clip is set for EventClip.
	Clip Clip
	// Count is set for EventCountdown.
	Count int
	At    time.Time
}

// Player plays audio clips.
type Player interface {
	// Start begins playing clip. The returned channel receives once when
	// playback ends; cancelling ctx stops playback.
	Start(ctx context.Context, clip Clip) (<-chan error, error)
}

// Introduce presents items in order: each item's isolation and context
// clips alternate IntroRepetitions times, then an inter-item gap follows.
func (sc *Scope) Introduce(items []content.Item) error {
	t := sc.seq.timing
	for _, it := range items {
		for i := 0; i < IntroRepetitions; i++ {
			if _, err := sc.Play(IsolationClip(it)); err != nil {
				return err
			}
			if err := sc.Sleep(t.InterClipGap); err != nil {
				return err
			}
			if _, err := sc.Play(ContextClip(it)); err != nil {
				return err
			}
			if err := sc.Sleep(t.InterClipGap); err != nil {
				return err
			}
		}
		if err := sc.Sleep(t.InterItemGap); err != nil {
			return err
		}
	}
	return nil
}

// TimedCue plays the isolation clip, counts down, then plays the context
// clip. The cue is pending until the context clip starts; if it never
// starts the cue becomes unavailable.
func (sc *Scope) TimedCue(item content.Item) error {
	t := sc.seq.timing
	sc.ExpectCue()
	if _, err := sc.Play(IsolationClip(item)); err != nil {
		return err
	}
	if err := sc.Sleep(t.PreCountdownPause); err != nil {
		return err
	}
	for n := CountdownFrom; n >= 1; n-- {
		sc.emit(Event{Kind: EventCountdown, Count: n, At: sc.seq.clock.Now()})
		if err := sc.Sleep(t.CountdownTick); err != nil {
			return err
		}
	}
	started, err := sc.play(ContextClip(item), func(at time.Time) {
		sc.setCueStart(at)
		sc.emit(Event{Kind: EventCue, At: at})
	})
	if err != nil || started {
		return err
	}
	sc.setCueUnavailable()
	sc.emit(Event{Kind: EventCueUnavailable, At: sc.seq.clock.Now()})
	return nil
}
