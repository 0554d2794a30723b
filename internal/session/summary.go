package session

import (
	"context"
	"fmt"
	"time"

	"github.com/abhisek/lexdrill/internal/progress"
)

// ItemResult is the per-item line of a session summary.
type ItemResult struct {
	ItemID     int
	Text       string
	TierBefore progress.Tier
	TierAfter  progress.Tier
	Answers    int
	Wrong      int
	Passed     bool
}

// SessionSummary holds the data displayed after a session.
type SessionSummary struct {
	SessionID    string
	Tier         progress.Tier
	Duration     time.Duration
	TotalAnswers int
	TotalCorrect int
	Accuracy     float64
	Items        []ItemResult
}

// BuildSummary creates a SessionSummary from the session state and the
// stored progress of the batch.
func BuildSummary(ctx context.Context, state *State, store progress.Store, now time.Time) (*SessionSummary, error) {
	sum := &SessionSummary{
		SessionID:    state.ID,
		Tier:         state.Tier,
		Duration:     now.Sub(state.StartedAt),
		TotalAnswers: state.Answers,
		TotalCorrect: state.Answers - state.WrongAnswers,
	}
	if state.Answers > 0 {
		sum.Accuracy = float64(sum.TotalCorrect) / float64(state.Answers)
	}

	for _, id := range state.Active {
		rs := state.Rounds[id]
		p, err := store.Get(ctx, state.Scope, id)
		if err != nil {
			return nil, fmt.Errorf("load progress for item %d: %w", id, err)
		}
		item, _ := state.Item(id)
		sum.Items = append(sum.Items, ItemResult{
			ItemID:     id,
			Text:       item.Text,
			TierBefore: rs.TierAtStart,
			TierAfter:  p.Tier,
			Answers:    rs.Answers,
			Wrong:      rs.Wrong,
			Passed:     rs.Passed,
		})
	}
	return sum, nil
}
