package session

import (
	"context"
	"time"

	"github.com/abhisek/lexdrill/internal/mastery"
	"github.com/abhisek/lexdrill/internal/progress"
)

// AnswerEvent is emitted once per graded answer.
type AnswerEvent struct {
	SessionID          string         `json:"sessionId"`
	Scope              string         `json:"scope"`
	ItemID             int            `json:"itemId"`
	DrilledTier        progress.Tier  `json:"drilledTier"`
	TierSnapshot       progress.Tier  `json:"tierSnapshot"`
	Confidence         int            `json:"confidence"`
	QuickCorrectStreak int            `json:"quickCorrectStreak"`
	SeenTotal          int            `json:"seenTotal"`
	Timing             mastery.Timing `json:"timing"`
	Correct            bool           `json:"correct"`
	DontKnow           bool           `json:"dontKnow"`
	At                 time.Time      `json:"at"`
}

// EventSink receives answer events.
type EventSink interface {
	AppendAnswerEvent(ctx context.Context, ev AnswerEvent) error
}

// Recorder receives per-answer metrics.
type Recorder interface {
	ObserveAnswer(tier progress.Tier, correct bool, timing mastery.Timing)
	ObserveTransition(tr *mastery.Transition)
	ObserveCategoryDemotion(category string)
}
