package runner

import (
	"context"
	"time"

	"github.com/abhisek/lexdrill/internal/sequencer"
)

// SilentPlayer stands in for an audio device. Each clip "lasts" Delay; the
// drill view shows which clip is playing.
type SilentPlayer struct {
	Delay time.Duration
}

var _ sequencer.Player = (*SilentPlayer)(nil)

// Start implements sequencer.Player.
func (p *SilentPlayer) Start(ctx context.Context, clip sequencer.Clip) (<-chan error, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	done := make(chan error, 1)
	if p.Delay <= 0 {
		done <- nil
		return done, nil
	}
	go func() {
		t := time.NewTimer(p.Delay)
		defer t.Stop()
		select {
		case <-t.C:
			done <- nil
		case <-ctx.Done():
			done <- ctx.Err()
		}
	}()
	return done, nil
}
