// Package runner drives a drill session in a terminal. The session runs as
// a bubbletea program: sequencer steps and countdown ticks arrive as
// messages, answers come from key presses, and grading happens in Update.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	tea "charm.land/bubbletea/v2"
	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/config"
	"github.com/abhisek/lexdrill/internal/content"
	"github.com/abhisek/lexdrill/internal/eligibility"
	"github.com/abhisek/lexdrill/internal/metrics"
	"github.com/abhisek/lexdrill/internal/progress"
	"github.com/abhisek/lexdrill/internal/sequencer"
	"github.com/abhisek/lexdrill/internal/session"
)

// DefaultClipLength is how long a clip lasts when no audio device is
// configured.
const DefaultClipLength = 800 * time.Millisecond

// Options configures a Runner.
type Options struct {
	// In and Out default to the terminal.
	In  io.Reader
	Out io.Writer

	Store      progress.Store
	Events     session.EventSink
	Metrics    *metrics.Collector
	Normalizer *eligibility.Normalizer
	Planner    *session.Planner

	// Player plays clips; nil uses a SilentPlayer.
	Player sequencer.Player
	Clock  sequencer.Clock
	Timing sequencer.Timing

	Logger *zap.Logger
}

// Runner runs drill sessions against a terminal.
type Runner struct {
	in      io.Reader
	out     io.Writer
	store   progress.Store
	norm    *eligibility.Normalizer
	planner *session.Planner
	grader  *session.Grader
	seq     *sequencer.Sequencer
	metrics *metrics.Collector
	logger  *zap.Logger
}

// Outcome is the result of one Run.
type Outcome struct {
	State          *session.State
	Summary        *session.SessionSummary
	Recommendation *session.Recommendation

	// Completed is false when the learner quit early.
	Completed bool
}

// New creates a Runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	player := opts.Player
	if player == nil {
		player = &SilentPlayer{Delay: DefaultClipLength}
	}
	clock := opts.Clock
	if clock == nil {
		clock = sequencer.SystemClock()
	}

	grader := session.NewGrader(opts.Store, opts.Events, opts.Metrics, logger)
	if opts.Metrics == nil {
		// Avoid storing a typed nil in the interface.
		grader.Metrics = nil
	}
	grader.Now = clock.Now

	return &Runner{
		in:      opts.In,
		out:     opts.Out,
		store:   opts.Store,
		norm:    opts.Normalizer,
		planner: opts.Planner,
		grader:  grader,
		seq:     sequencer.New(player, clock, opts.Timing, logger),
		metrics: opts.Metrics,
		logger:  logger,
	}
}

// SequencerTiming converts configured timing to sequencer timing.
func SequencerTiming(t config.TimingConfig) sequencer.Timing {
	return sequencer.Timing{
		InterClipGap:      t.InterClipGap,
		InterItemGap:      t.InterItemGap,
		CountdownTick:     t.CountdownTick,
		PreCountdownPause: t.PreCountdownPause,
		AudioTimeout:      t.AudioTimeout,
		InputGuard:        t.InputGuard,
	}
}

// Run plans a session over eligible and drills it until the batch is
// exhausted or the learner quits, then prints the summary.
func (r *Runner) Run(ctx context.Context, eligible []content.Item, plan *session.Plan) (*Outcome, error) {
	state, err := r.planner.Start(ctx, eligible, plan)
	if err != nil {
		return nil, err
	}
	defer r.seq.Stop()

	m := newModel(ctx, r, state)
	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if r.in != nil {
		opts = append(opts, tea.WithInput(r.in))
	}
	if r.out != nil {
		opts = append(opts, tea.WithOutput(r.out))
	}

	_, err = tea.NewProgram(m, opts...).Run()
	switch {
	case errors.Is(err, tea.ErrInterrupted):
		return nil, fmt.Errorf("drill: %w", context.Canceled)
	case err != nil:
		return nil, err
	case m.err != nil:
		return nil, m.err
	}
	if m.phase != phaseDone {
		if err := r.finish(ctx, m.outcome); err != nil {
			return nil, err
		}
	}

	r.printOutcome(m.outcome)
	return m.outcome, nil
}

// finish builds the summary and, for completed sessions, the
// recommendation.
func (r *Runner) finish(ctx context.Context, out *Outcome) error {
	state := out.State
	sum, err := session.BuildSummary(ctx, state, r.store, r.seq.Clock().Now())
	if err != nil {
		return fmt.Errorf("build summary: %w", err)
	}
	out.Summary = sum

	if out.Completed {
		rec, err := session.Recommend(ctx, state, r.store, r.planner.BatchSize)
		if err != nil {
			return fmt.Errorf("recommend: %w", err)
		}
		out.Recommendation = rec
	}
	r.metrics.ObserveSession(sum, out.Recommendation)
	r.logger.Info("session finished",
		zap.String("session_id", state.ID),
		zap.Int("tier", int(state.Tier)),
		zap.Int("answers", sum.TotalAnswers),
		zap.Bool("completed", out.Completed))
	return nil
}

// roundSteps returns the audio sequence of one graded round. Tier 1 plays
// both clips, tier 2 runs the timed cue and tier 3 plays only the
// isolation clip.
func (r *Runner) roundSteps(scope *sequencer.Scope, tier progress.Tier, item content.Item) func() error {
	gap := r.seq.Timing().InterClipGap
	return func() error {
		switch tier {
		case progress.TierRecognition:
			if _, err := scope.Play(sequencer.IsolationClip(item)); err != nil {
				return err
			}
			if err := scope.Sleep(gap); err != nil {
				return err
			}
			_, err := scope.Play(sequencer.ContextClip(item))
			return err
		case progress.TierTimed:
			return scope.TimedCue(item)
		default:
			_, err := scope.Play(sequencer.IsolationClip(item))
			return err
		}
	}
}
