package progress

// Tier is an item's mastery stage.
type Tier int

const (
	TierRecognition Tier = 1 // introduction and recognition
	TierTimed       Tier = 2 // timed distinction against the contextual cue
	TierIsolation   Tier = 3 // isolation-only drill
)

// Valid reports whether t is one of the three known tiers.
func (t Tier) Valid() bool {
	return t >= TierRecognition && t <= TierIsolation
}

const (
	// MinConfidence and MaxConfidence bound ItemProgress.Confidence.
	MinConfidence = -8
	MaxConfidence = 12
)

// TierCounts holds pass/fail counters for one tier.
type TierCounts struct {
	Pass int `json:"pass"`
	Fail int `json:"fail"`
}

// ItemProgress is the durable mastery record for one study item within a
// study-set scope.
type ItemProgress struct {
	Tier               Tier          `json:"tier"`
	Confidence         int           `json:"confidence"`
	Introduced         bool          `json:"introduced"`
	QuickCorrectStreak int           `json:"quick_correct_streak"`
	Tiers              [3]TierCounts `json:"tiers"`
	DontKnowCount      int           `json:"dont_know_count"`
	SeenTotal          int           `json:"seen_total"`
	LastCategory       string        `json:"last_category"`
	UpdatedAt          int64         `json:"updated_at"` // Unix milliseconds
}

// Default returns the record used for items that have never been stored.
func Default() ItemProgress {
	return ItemProgress{Tier: TierRecognition}
}

// Counts returns the pass/fail counters for tier t.
func (p *ItemProgress) Counts(t Tier) *TierCounts {
	if !t.Valid() {
		t = TierRecognition
	}
	return &p.Tiers[t-1]
}

// WrongTotal is the number of failed answers across all tiers.
func (p *ItemProgress) WrongTotal() int {
	total := 0
	for _, c := range p.Tiers {
		total += c.Fail
	}
	return total
}

// Unseen reports whether the item has never been shown or answered.
func (p *ItemProgress) Unseen() bool {
	return p.SeenTotal == 0 && !p.Introduced
}

// ClampConfidence forces Confidence back into [MinConfidence, MaxConfidence].
func (p *ItemProgress) ClampConfidence() {
	p.Confidence = clampInt(p.Confidence, MinConfidence, MaxConfidence)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
