package session

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/mastery"
	"github.com/abhisek/lexdrill/internal/progress"
)

// Status reports whether an answer was graded.
type Status string

const (
	StatusGraded  Status = "graded"
	StatusIgnored Status = "ignored"
)

// Feedback is the kind of feedback to show after grading.
type Feedback string

const (
	FeedbackCorrect Feedback = "correct"
	FeedbackWrong   Feedback = "wrong"
	FeedbackReveal  Feedback = "reveal"
)

// Answer is a learner response to a round.
type Answer struct {
	ItemID     int
	Correct    bool
	DontKnow   bool
	AnsweredAt time.Time

	// CueStartedAt overrides the round's cue start when set.
	CueStartedAt time.Time

	// CuePending reports that the round's timed cue had not started yet
	// when the answer arrived.
	CuePending bool
}

// Result is the outcome of grading one answer.
type Result struct {
	Status       Status
	IgnoreReason string

	ItemID   int
	Correct  bool
	DontKnow bool
	Timing   mastery.Timing
	Feedback Feedback

	// Progress is the durable record after this answer.
	Progress progress.ItemProgress

	// Round is a copy of the item's session bookkeeping after this answer.
	Round ItemRoundState

	// Transition is the answered item's tier change, if any.
	Transition *mastery.Transition

	// DemotedCategory names the category demoted by this answer, if any.
	DemotedCategory string

	// CategoryTransitions lists the tier changes caused by the category
	// demotion.
	CategoryTransitions []*mastery.Transition
}

// Grader grades answers and is the only writer of durable progress.
type Grader struct {
	Store   progress.Store
	Events  EventSink
	Metrics Recorder
	Logger  *zap.Logger
	Now     func() time.Time
}

// NewGrader returns a grader writing to store.
func NewGrader(store progress.Store, events EventSink, metrics Recorder, logger *zap.Logger) *Grader {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Grader{
		Store:   store,
		Events:  events,
		Metrics: metrics,
		Logger:  logger,
		Now:     time.Now,
	}
}

func ignored(reason string) *Result {
	return &Result{Status: StatusIgnored, IgnoreReason: reason}
}

// Grade grades ans for round. Answers to a locked round, answers inside the
// input guard and answers for items other than the target are ignored
// without side effects.
func (g *Grader) Grade(ctx context.Context, state *State, round *Round, ans Answer) (*Result, error) {
	if round == nil || round.Locked {
		return ignored("round locked"), nil
	}
	if round.Target == nil || round.Target.Intro || !round.Target.Has(ans.ItemID) {
		return ignored("not the round target"), nil
	}
	if !round.GuardUntil.IsZero() && ans.AnsweredAt.Before(round.GuardUntil) {
		return ignored("input guard"), nil
	}
	item, ok := state.Item(ans.ItemID)
	if !ok || !state.IsActive(ans.ItemID) {
		return nil, fmt.Errorf("grade item %d: %w", ans.ItemID, ErrUnknownItem)
	}

	// Load before touching session state so a store failure leaves the
	// round open.
	p, err := g.Store.Get(ctx, state.Scope, item.ID)
	if err != nil {
		return nil, fmt.Errorf("load progress for item %d: %w", item.ID, err)
	}

	round.Locked = true
	round.AnsweredAt = ans.AnsweredAt
	if !ans.CueStartedAt.IsZero() {
		round.CueStartedAt = ans.CueStartedAt
	}
	if ans.CuePending {
		round.CuePending = true
	}

	correct := ans.Correct && !ans.DontKnow
	timing := classifyTiming(state.Tier, round, ans.AnsweredAt)
	rs := trackAnswer(state, item.ID, correct, ans.DontKnow)

	before := p.Tier
	p.SeenTotal++
	p.Introduced = true
	p.LastCategory = item.Category
	p.UpdatedAt = g.now().UnixMilli()
	counts := p.Counts(state.Tier)
	if correct {
		counts.Pass++
	} else {
		counts.Fail++
	}
	if ans.DontKnow {
		p.DontKnowCount++
	}

	tr := g.applyTierRules(state, item.ID, rs, &p, correct, timing)
	p.ClampConfidence()
	if err := g.Store.Set(ctx, state.Scope, item.ID, p); err != nil {
		return nil, fmt.Errorf("save progress for item %d: %w", item.ID, err)
	}
	if tr != nil {
		tr.From = before
		g.Logger.Info("tier transition",
			zap.Int("item_id", item.ID),
			zap.Int("from", int(tr.From)),
			zap.Int("to", int(tr.To)),
			zap.String("trigger", tr.Trigger))
	}
	resolveByTier(state, item.ID, p.Tier)

	res := &Result{
		Status:     StatusGraded,
		ItemID:     item.ID,
		Correct:    correct,
		DontKnow:   ans.DontKnow,
		Timing:     timing,
		Feedback:   feedbackFor(correct, ans.DontKnow),
		Progress:   p,
		Transition: tr,
	}

	demoted, trs, err := g.checkCategoryPressure(ctx, state, item.Category, item.ID, !correct, tr.Demoted())
	if err != nil {
		return nil, err
	}
	if demoted {
		res.DemotedCategory = item.Category
		res.CategoryTransitions = trs
		if latest, err := g.Store.Get(ctx, state.Scope, item.ID); err == nil {
			res.Progress = latest
		}
	}
	res.Round = *state.Rounds[item.ID]

	g.emit(ctx, state, res, ans.AnsweredAt)
	return res, nil
}

// applyTierRules applies the durable tier rule for the drilled tier and
// the repeated-miss demotion.
func (g *Grader) applyTierRules(state *State, id int, rs *ItemRoundState, p *progress.ItemProgress, correct bool, timing mastery.Timing) *mastery.Transition {
	var tr *mastery.Transition
	if state.Tier == progress.TierRecognition {
		if rs.Passed {
			tr = mastery.RecordRecognitionPass(id, p)
		}
	} else {
		tr = mastery.Apply(id, state.Tier, p, correct, timing)
	}

	// Wrong counts every miss; wrong answers and "don't know" answers
	// trigger the demotion separately.
	if !correct && !rs.ForcedDemotion && (rs.Wrong-rs.DontKnow >= 2 || rs.DontKnow >= 2) {
		rs.ForcedDemotion = true
		if !tr.Demoted() {
			if d := mastery.Demote(id, p, mastery.TriggerRepeatedMiss); d != nil {
				tr = d
			}
		}
	}
	return tr
}

// resolveByTier marks an item resolved in a tier 2 or 3 session once its
// stored tier has left the session tier.
func resolveByTier(state *State, id int, stored progress.Tier) {
	if state.Tier == progress.TierRecognition || stored == state.Tier {
		return
	}
	if rs := state.Rounds[id]; rs != nil {
		rs.Passed = true
	}
	state.removeReplay(id)
	delete(state.PendingReview, id)
}

func (g *Grader) emit(ctx context.Context, state *State, res *Result, at time.Time) {
	if g.Metrics != nil {
		g.Metrics.ObserveAnswer(state.Tier, res.Correct, res.Timing)
		if res.Transition != nil {
			g.Metrics.ObserveTransition(res.Transition)
		}
		for _, tr := range res.CategoryTransitions {
			g.Metrics.ObserveTransition(tr)
		}
		if res.DemotedCategory != "" {
			g.Metrics.ObserveCategoryDemotion(res.DemotedCategory)
		}
	}

	if g.Events == nil {
		return
	}
	if at.IsZero() {
		at = g.now()
	}
	ev := AnswerEvent{
		SessionID:          state.ID,
		Scope:              state.Scope,
		ItemID:             res.ItemID,
		DrilledTier:        state.Tier,
		TierSnapshot:       res.Progress.Tier,
		Confidence:         res.Progress.Confidence,
		QuickCorrectStreak: res.Progress.QuickCorrectStreak,
		SeenTotal:          res.Progress.SeenTotal,
		Timing:             res.Timing,
		Correct:            res.Correct,
		DontKnow:           res.DontKnow,
		At:                 at,
	}
	if err := g.Events.AppendAnswerEvent(ctx, ev); err != nil {
		g.Logger.Warn("failed to record answer event",
			zap.Int("item_id", res.ItemID),
			zap.Error(err))
	}
}

func (g *Grader) now() time.Time {
	if g.Now == nil {
		return time.Now()
	}
	return g.Now()
}

// classifyTiming compares the answer time to the round's cue. Only tier-2
// answers are timed: an answer while the cue is pending is early, one after
// it started is late, and a round whose cue never played is n/a.
func classifyTiming(tier progress.Tier, round *Round, answered time.Time) mastery.Timing {
	if tier != progress.TierTimed {
		return mastery.TimingNA
	}
	switch {
	case !round.CueStartedAt.IsZero():
		if answered.Before(round.CueStartedAt) {
			return mastery.TimingBeforeCue
		}
		return mastery.TimingAfterCue
	case round.CuePending:
		return mastery.TimingBeforeCue
	default:
		return mastery.TimingNA
	}
}

func feedbackFor(correct, dontKnow bool) Feedback {
	switch {
	case correct:
		return FeedbackCorrect
	case dontKnow:
		return FeedbackReveal
	default:
		return FeedbackWrong
	}
}
