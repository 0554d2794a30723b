package mastery

import "github.com/abhisek/lexdrill/internal/progress"

const (
	// Tier 2 scoring.
	TimedBeforeCueGain = 2
	TimedAfterCueGain  = 1
	TimedWrongLoss     = 2
	TimedPromoteAt     = 6  // confidence needed for tier 3
	TimedPromoteStreak = 2  // quick-correct streak needed for tier 3
	TimedDemoteAt      = -4 // confidence at or below which the item drops to tier 1

	// Tier 3 scoring.
	IsolationGain     = 1
	IsolationLoss     = 3
	IsolationKeepFrom = 2 // confidence below this after a miss drops the item to tier 2

	// Confidence an item is reset to when it enters a tier.
	TimedEntryConfidence        = 0
	RecognitionDemoteConfidence = -2
	TimedDemoteConfidence       = 2
)

// RecordRecognitionPass promotes an item that passed tier 1 to tier 2.
// Items already at tier 2 or above are left alone.
func RecordRecognitionPass(itemID int, p *progress.ItemProgress) *Transition {
	if p.Tier >= progress.TierTimed {
		return nil
	}
	from := p.Tier
	p.Tier = progress.TierTimed
	p.Confidence = TimedEntryConfidence
	p.QuickCorrectStreak = 0
	return &Transition{ItemID: itemID, From: from, To: p.Tier, Trigger: TriggerTierPass}
}

// ApplyTimed scores a tier-2 answer. Correct answers with no cue timestamp
// score as after-cue.
func ApplyTimed(itemID int, p *progress.ItemProgress, correct bool, timing Timing) *Transition {
	switch {
	case correct && timing == TimingBeforeCue:
		p.Confidence += TimedBeforeCueGain
		p.QuickCorrectStreak++
	case correct:
		p.Confidence += TimedAfterCueGain
		p.QuickCorrectStreak = 0
	default:
		p.Confidence -= TimedWrongLoss
		p.QuickCorrectStreak = 0
	}
	p.ClampConfidence()

	from := p.Tier
	if p.Confidence >= TimedPromoteAt && p.QuickCorrectStreak >= TimedPromoteStreak {
		if p.Tier < progress.TierIsolation {
			p.Tier = progress.TierIsolation
			return &Transition{ItemID: itemID, From: from, To: p.Tier, Trigger: TriggerConfidenceRise}
		}
		return nil
	}
	if p.Confidence <= TimedDemoteAt {
		p.Tier = progress.TierRecognition
		p.Confidence = RecognitionDemoteConfidence
		p.QuickCorrectStreak = 0
		if from != p.Tier {
			return &Transition{ItemID: itemID, From: from, To: p.Tier, Trigger: TriggerConfidenceDrop}
		}
	}
	return nil
}

// ApplyIsolation scores a tier-3 answer.
func ApplyIsolation(itemID int, p *progress.ItemProgress, correct bool) *Transition {
	if correct {
		p.Confidence += IsolationGain
		p.ClampConfidence()
		return nil
	}

	p.Confidence -= IsolationLoss
	p.ClampConfidence()
	if p.Confidence < IsolationKeepFrom && p.Tier == progress.TierIsolation {
		p.Tier = progress.TierTimed
		p.Confidence = TimedDemoteConfidence
		p.QuickCorrectStreak = 0
		return &Transition{ItemID: itemID, From: progress.TierIsolation, To: p.Tier, Trigger: TriggerConfidenceDrop}
	}
	return nil
}

// Demote moves an item down exactly one tier and resets its confidence to
// the entry value of the lower tier. Tier-1 items are unchanged.
func Demote(itemID int, p *progress.ItemProgress, trigger string) *Transition {
	from := p.Tier
	switch p.Tier {
	case progress.TierIsolation:
		p.Tier = progress.TierTimed
		p.Confidence = TimedDemoteConfidence
	case progress.TierTimed:
		p.Tier = progress.TierRecognition
		p.Confidence = RecognitionDemoteConfidence
	default:
		return nil
	}
	p.QuickCorrectStreak = 0
	return &Transition{ItemID: itemID, From: from, To: p.Tier, Trigger: trigger}
}

// Apply scores one answer for the tier the item was drilled at.
// dontKnow answers score as wrong. Tier 1 has no per-answer confidence
// change; its promotion is driven by the session tracker through
// RecordRecognitionPass.
func Apply(itemID int, drilled progress.Tier, p *progress.ItemProgress, correct bool, timing Timing) *Transition {
	switch drilled {
	case progress.TierTimed:
		return ApplyTimed(itemID, p, correct, timing)
	case progress.TierIsolation:
		return ApplyIsolation(itemID, p, correct)
	}
	p.ClampConfidence()
	return nil
}
