// Package sequencer schedules the audio and timer steps of a drill round.
//
// Each round runs inside a Scope. Starting a new round supersedes the
// previous scope: its timers stop, its audio context is cancelled, and any
// step still running returns ErrSuperseded at its next suspension point.
package sequencer

import (
	"context"
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrSuperseded is returned by a scope step after a newer round began.
var ErrSuperseded = errors.New("sequencer: superseded")

// Clock abstracts time for the sequencer.
type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a pending AfterFunc call.
type Timer interface {
	Stop() bool
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

func (systemClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// SystemClock returns the wall clock.
func SystemClock() Clock { return systemClock{} }

// Timing holds the pauses used between sequencing steps.
type Timing struct {
	InterClipGap      time.Duration
	InterItemGap      time.Duration
	CountdownTick     time.Duration
	PreCountdownPause time.Duration
	// AudioTimeout bounds a single clip; zero waits for the player.
	AudioTimeout time.Duration
	InputGuard   time.Duration
}

// DefaultTiming returns the production pauses.
func DefaultTiming() Timing {
	return Timing{
		InterClipGap:      400 * time.Millisecond,
		InterItemGap:      900 * time.Millisecond,
		CountdownTick:     700 * time.Millisecond,
		PreCountdownPause: 500 * time.Millisecond,
		AudioTimeout:      8 * time.Second,
		InputGuard:        250 * time.Millisecond,
	}
}

// Sequencer hands out scopes with strictly increasing tokens.
type Sequencer struct {
	player Player
	clock  Clock
	timing Timing
	logger *zap.Logger

	mu      sync.Mutex
	token   uint64
	current *Scope
}

// New creates a sequencer. A nil clock uses the wall clock.
func New(player Player, clock Clock, timing Timing, logger *zap.Logger) *Sequencer {
	if clock == nil {
		clock = SystemClock()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Sequencer{player: player, clock: clock, timing: timing, logger: logger}
}

// Timing returns the configured pauses.
func (s *Sequencer) Timing() Timing { return s.timing }

// Clock returns the sequencer clock.
func (s *Sequencer) Clock() Clock { return s.clock }

// Begin tears down the current scope and starts a new one derived from ctx.
func (s *Sequencer) Begin(ctx context.Context) *Scope {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current != nil {
		s.current.close()
	}
	s.token++
	sc := &Scope{seq: s, token: s.token}
	sc.ctx, sc.cancel = context.WithCancel(ctx)
	s.current = sc
	return sc
}

// Stop tears down the current scope without starting a new one.
func (s *Sequencer) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil {
		s.current.close()
		s.current = nil
	}
	s.token++
}

// Token returns the token of the most recent scope.
func (s *Sequencer) Token() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token
}

func (s *Sequencer) isCurrent(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token == token
}
