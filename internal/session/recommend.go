package session

import (
	"context"
	"fmt"

	"github.com/abhisek/lexdrill/internal/content"
	"github.com/abhisek/lexdrill/internal/progress"
)

// FallbackWrongRate is the tier-2 session wrong rate at which the learner is
// sent back to tier 1.
const FallbackWrongRate = 0.5

// RecommendationKind classifies the primary recommendation.
type RecommendationKind string

const (
	KindAdvance  RecommendationKind = "advance"
	KindRepeat   RecommendationKind = "repeat"
	KindFallBack RecommendationKind = "fall_back"
)

// Action is a labelled plan the learner can launch next.
type Action struct {
	Label string `json:"label"`
	Plan  Plan   `json:"plan"`
}

// Recommendation is shown when the batch is exhausted.
type Recommendation struct {
	Kind      RecommendationKind `json:"kind"`
	Title     string             `json:"title"`
	Message   string             `json:"message"`
	Primary   Action             `json:"primary"`
	Secondary *Action            `json:"secondary,omitempty"`
}

// Recommend builds the next-session recommendation from the stored
// progress of the batch. The result is cached on state.
func Recommend(ctx context.Context, state *State, store progress.Store, batchSize int) (*Recommendation, error) {
	if state.Recommendation != nil {
		return state.Recommendation, nil
	}

	tiers := make(map[int]progress.Tier, len(state.Active))
	for _, id := range state.Active {
		p, err := store.Get(ctx, state.Scope, id)
		if err != nil {
			return nil, fmt.Errorf("load progress for item %d: %w", id, err)
		}
		tiers[id] = p.Tier
	}

	var rec *Recommendation
	switch state.Tier {
	case progress.TierRecognition:
		if allAtLeast(state.Active, tiers, progress.TierTimed) {
			rec = advance(state, progress.TierTimed)
		} else {
			rec = repeat(state, "Keep listening",
				"Some words still need work before timed practice.")
		}
	case progress.TierTimed:
		switch {
		case allAtLeast(state.Active, tiers, progress.TierIsolation):
			rec = advance(state, progress.TierIsolation)
		case wrongRate(state) >= FallbackWrongRate:
			rec = &Recommendation{
				Kind:    KindFallBack,
				Title:   "Back to basics",
				Message: "Too many misses this round. Review these words with full audio support first.",
				Primary: Action{
					Label: "Review tier 1",
					Plan:  TierPlan(state.Source, progress.TierRecognition, state.Active),
				},
			}
		default:
			rec = repeat(state, "Almost there",
				"Answer before the cue to build confidence.")
		}
	default:
		var fallen []int
		for _, id := range state.Active {
			if tiers[id] < progress.TierIsolation {
				fallen = append(fallen, id)
			}
		}
		if len(fallen) > 0 {
			rec = &Recommendation{
				Kind:    KindFallBack,
				Title:   "A few slipped",
				Message: fmt.Sprintf("%d of %d words need timed practice again.", len(fallen), len(state.Active)),
				Primary: Action{
					Label: "Practice tier 2",
					Plan:  TierPlan(state.Source, progress.TierTimed, fallen),
				},
			}
		} else {
			rec = repeat(state, "Solid", "Every word held up without the cue.")
		}
	}

	if state.Source == LaunchDashboard {
		rec.Secondary = nextBatch(state, batchSize)
	}
	state.Recommendation = rec
	return rec, nil
}

func advance(state *State, to progress.Tier) *Recommendation {
	return &Recommendation{
		Kind:    KindAdvance,
		Title:   "Level up",
		Message: fmt.Sprintf("All %d words reached tier %d.", len(state.Active), to),
		Primary: Action{
			Label: fmt.Sprintf("Start tier %d", to),
			Plan:  TierPlan(state.Source, to, state.Active),
		},
	}
}

func repeat(state *State, title, message string) *Recommendation {
	return &Recommendation{
		Kind:    KindRepeat,
		Title:   title,
		Message: message,
		Primary: Action{
			Label: fmt.Sprintf("Repeat tier %d", state.Tier),
			Plan:  TierPlan(state.Source, state.Tier, state.Active),
		},
	}
}

// nextBatch plans a follow-up batch from eligible items outside the current
// batch, or repeats the current batch when none are left.
func nextBatch(state *State, batchSize int) *Action {
	if batchSize <= 0 || batchSize > MaxBatchSize {
		batchSize = MaxBatchSize
	}
	var rest []content.Item
	seen := make(map[int]bool)
	for _, it := range state.Eligible {
		if state.IsActive(it.ID) || seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		rest = append(rest, it)
	}
	if len(rest) == 0 {
		return &Action{
			Label: "Repeat this batch",
			Plan:  TierPlan(LaunchDashboard, state.Tier, state.Active),
		}
	}

	var ids []int
	for _, it := range interleave(rest, batchSize) {
		ids = append(ids, it.ID)
	}
	return &Action{
		Label: "Next batch",
		Plan:  Plan{ItemIDs: ids, LaunchSource: LaunchDashboard},
	}
}

func allAtLeast(ids []int, tiers map[int]progress.Tier, floor progress.Tier) bool {
	for _, id := range ids {
		if tiers[id] < floor {
			return false
		}
	}
	return true
}

func wrongRate(state *State) float64 {
	if state.Answers == 0 {
		return 0
	}
	return float64(state.WrongAnswers) / float64(state.Answers)
}
