package sequencer

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Scope owns the timers and audio of one round.
type Scope struct {
	seq    *Sequencer
	token  uint64
	ctx    context.Context
	cancel context.CancelFunc

	mu           sync.Mutex
	timers       []Timer
	guardUntil   time.Time
	cue          CueState
	cueStartedAt time.Time
	observer     func(Event)
}

// Token returns the scope's sequence token.
func (sc *Scope) Token() uint64 { return sc.token }

// Context is cancelled when the scope is superseded.
func (sc *Scope) Context() context.Context { return sc.ctx }

// Valid reports whether the scope is still the current one.
func (sc *Scope) Valid() bool {
	return sc.ctx.Err() == nil && sc.seq.isCurrent(sc.token)
}

func (sc *Scope) check() error {
	if !sc.Valid() {
		return ErrSuperseded
	}
	return nil
}

func (sc *Scope) track(t Timer) {
	sc.mu.Lock()
	sc.timers = append(sc.timers, t)
	sc.mu.Unlock()
}

// close stops every timer and cancels the audio context.
func (sc *Scope) close() {
	sc.cancel()
	sc.mu.Lock()
	timers := sc.timers
	sc.timers = nil
	sc.mu.Unlock()
	for _, t := range timers {
		t.Stop()
	}
}

// Sleep waits for d on the sequencer clock.
func (sc *Scope) Sleep(d time.Duration) error {
	if err := sc.check(); err != nil {
		return err
	}
	if d <= 0 {
		return nil
	}
	done := make(chan struct{})
	var once sync.Once
	t := sc.seq.clock.AfterFunc(d, func() { once.Do(func() { close(done) }) })
	sc.track(t)
	select {
	case <-done:
	case <-sc.ctx.Done():
		t.Stop()
	}
	return sc.check()
}

// Play plays clip and waits for it to finish or time out. A clip that
// cannot be played is logged and skipped; started reports whether playback
// began.
func (sc *Scope) Play(clip Clip) (started bool, err error) {
	return sc.play(clip, nil)
}

func (sc *Scope) play(clip Clip, onStart func(time.Time)) (bool, error) {
	if err := sc.check(); err != nil {
		return false, err
	}
	log := sc.seq.logger.With(zap.Int("item_id", clip.ItemID), zap.String("clip", string(clip.Kind)))
	if clip.Ref == "" || sc.seq.player == nil {
		log.Debug("clip not available")
		return false, nil
	}

	playCtx, cancel := context.WithCancel(sc.ctx)
	defer cancel()

	done, err := sc.seq.player.Start(playCtx, clip)
	if err != nil {
		log.Warn("audio playback failed", zap.Error(err))
		return false, sc.check()
	}
	now := sc.seq.clock.Now()
	if onStart != nil {
		onStart(now)
	}
	sc.emit(Event{Kind: EventClip, Clip: clip, At: now})

	var timeout <-chan struct{}
	if d := sc.seq.timing.AudioTimeout; d > 0 {
		ch := make(chan struct{})
		var once sync.Once
		t := sc.seq.clock.AfterFunc(d, func() { once.Do(func() { close(ch) }) })
		sc.track(t)
		defer t.Stop()
		timeout = ch
	}

	select {
	case err := <-done:
		if err != nil {
			log.Warn("audio playback failed", zap.Error(err))
		}
	case <-timeout:
		log.Warn("audio playback timed out", zap.Duration("timeout", sc.seq.timing.AudioTimeout))
	case <-sc.ctx.Done():
	}
	return true, sc.check()
}

// Guard rejects input for d from now.
func (sc *Scope) Guard(d time.Duration) {
	sc.mu.Lock()
	sc.guardUntil = sc.seq.clock.Now().Add(d)
	sc.mu.Unlock()
}

// GuardUntil returns the end of the input guard window.
func (sc *Scope) GuardUntil() time.Time {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.guardUntil
}

// Accepts reports whether a tap at t should be handled.
func (sc *Scope) Accepts(t time.Time) bool {
	if !sc.Valid() {
		return false
	}
	return !t.Before(sc.GuardUntil())
}

// CueStartedAt returns when the context clip of a timed cue started, or
// the zero time if it has not.
func (sc *Scope) CueStartedAt() time.Time {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.cueStartedAt
}

// Cue returns the state of the round's timed cue and, once started, its
// start time.
func (sc *Scope) Cue() (CueState, time.Time) {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return sc.cue, sc.cueStartedAt
}

// ExpectCue marks a timed cue as pending before its sequence starts, so
// answers arriving first still count as early.
func (sc *Scope) ExpectCue() {
	sc.mu.Lock()
	if sc.cue == CueNone {
		sc.cue = CuePending
	}
	sc.mu.Unlock()
}

func (sc *Scope) setCueStart(t time.Time) {
	sc.mu.Lock()
	sc.cue = CueStarted
	sc.cueStartedAt = t
	sc.mu.Unlock()
}

func (sc *Scope) setCueUnavailable() {
	sc.mu.Lock()
	sc.cue = CueUnavailable
	sc.mu.Unlock()
}

// Observe registers f to receive the scope's events. Events are delivered
// on the goroutine running the steps.
func (sc *Scope) Observe(f func(Event)) {
	sc.mu.Lock()
	sc.observer = f
	sc.mu.Unlock()
}

func (sc *Scope) emit(ev Event) {
	sc.mu.Lock()
	f := sc.observer
	sc.mu.Unlock()
	if f == nil || !sc.Valid() {
		return
	}
	ev.Token = sc.token
	f(ev)
}
