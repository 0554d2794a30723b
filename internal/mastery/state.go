package mastery

import "github.com/abhisek/lexdrill/internal/progress"

// Timing classifies a tier-2 answer relative to the contextual cue.
type Timing string

const (
	TimingBeforeCue Timing = "before_cue"
	TimingAfterCue  Timing = "after_cue"
	TimingNA        Timing = "n/a"
)

// Transition triggers.
const (
	TriggerTierPass         = "tier-pass"
	TriggerConfidenceRise   = "confidence-rise"
	TriggerConfidenceDrop   = "confidence-drop"
	TriggerRepeatedMiss     = "repeated-miss"
	TriggerCategoryPressure = "category-pressure"
)

// Transition records a tier change for feedback display and event logging.
type Transition struct {
	ItemID  int
	From    progress.Tier
	To      progress.Tier
	Trigger string
}

// Promoted reports whether the transition moved the item up a tier.
func (t *Transition) Promoted() bool {
	return t != nil && t.To > t.From
}

// Demoted reports whether the transition moved the item down a tier.
func (t *Transition) Demoted() bool {
	return t != nil && t.To < t.From
}
