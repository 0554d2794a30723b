package session

import (
	"time"

	"github.com/abhisek/lexdrill/internal/content"
	"github.com/abhisek/lexdrill/internal/progress"
)

// Rand is the randomness source used for planning and selection.
// *math/rand.Rand satisfies it.
type Rand interface {
	Intn(n int) int
	Shuffle(n int, swap func(i, j int))
}

// ItemRoundState is the in-session bookkeeping for one batch item.
type ItemRoundState struct {
	// RequiredStreak is the number of consecutive correct answers needed
	// before the item may pass. It rises to 2 after a miss.
	RequiredStreak int

	// CorrectStreak counts consecutive correct answers.
	CorrectStreak int

	// CorrectTotal counts all correct answers this session.
	CorrectTotal int

	// Passed marks the item as done for this session.
	Passed bool

	Answers  int
	Wrong    int
	DontKnow int

	// ForcedDemotion is set once the repeated-miss demotion has been
	// considered for this item.
	ForcedDemotion bool

	// TierAtStart is the stored tier when the session began.
	TierAtStart progress.Tier
}

// CategoryStats tracks per-category answers for pressure demotion.
type CategoryStats struct {
	Seen       map[int]bool
	Challenged map[int]bool
	Demoted    bool
}

// State is the runtime state of one drill session. Every engine call takes
// it explicitly; it must only be used from one goroutine.
type State struct {
	// ID is the session id (uuid).
	ID string

	// Scope is the study-set id progress is keyed under.
	Scope string

	// Ready is false until a batch has been planned.
	Ready bool

	// Tier is the tier being drilled.
	Tier progress.Tier

	// Source is where the session was launched from.
	Source LaunchSource

	// Eligible is the full eligible pool, in pool order.
	Eligible []content.Item

	// Active holds the batch item ids in batch order.
	Active []int

	// Rounds holds per-item session bookkeeping for the batch.
	Rounds map[int]*ItemRoundState

	// Replay is the ordered queue of ids to revisit after a miss.
	Replay []int

	// Introduced is the set of ids already presented to the learner.
	Introduced map[int]bool

	// IntroOrder lists introduced ids in introduction order.
	IntroOrder []int

	// PendingReview holds tier-1 ids awaiting their first correct answer.
	PendingReview map[int]bool

	// PendingIntro is the forced introduction batch, served first.
	PendingIntro []int

	// Categories tracks pressure stats per category id.
	Categories map[string]*CategoryStats

	// Answers and WrongAnswers count graded answers this session.
	Answers      int
	WrongAnswers int

	// Recommendation caches the end-of-session recommendation.
	Recommendation *Recommendation

	// StartedAt is when the session was planned.
	StartedAt time.Time

	lastTarget    int
	hasLastTarget bool
	index         map[int]int
	active        map[int]bool
}

func newState(id, scope string, tier progress.Tier, source LaunchSource, eligible []content.Item, batch []content.Item, tiers map[int]progress.Tier, now time.Time) *State {
	s := &State{
		ID:            id,
		Scope:         scope,
		Ready:         true,
		Tier:          tier,
		Source:        source,
		Eligible:      eligible,
		Rounds:        make(map[int]*ItemRoundState, len(batch)),
		Introduced:    make(map[int]bool, len(batch)),
		PendingReview: make(map[int]bool),
		Categories:    make(map[string]*CategoryStats),
		StartedAt:     now,
		index:         make(map[int]int, len(eligible)),
		active:        make(map[int]bool, len(batch)),
	}
	for i, it := range eligible {
		if _, dup := s.index[it.ID]; !dup {
			s.index[it.ID] = i
		}
	}
	for _, it := range batch {
		s.Active = append(s.Active, it.ID)
		s.active[it.ID] = true
		s.Rounds[it.ID] = &ItemRoundState{RequiredStreak: 1, TierAtStart: tiers[it.ID]}
	}
	return s
}

// Item returns the eligible item with id.
func (s *State) Item(id int) (content.Item, bool) {
	i, ok := s.index[id]
	if !ok {
		return content.Item{}, false
	}
	return s.Eligible[i], true
}

// IsActive reports whether id is part of the batch.
func (s *State) IsActive(id int) bool {
	return s.active[id]
}

// LastTarget returns the previously selected item id, if any.
func (s *State) LastTarget() (int, bool) {
	return s.lastTarget, s.hasLastTarget
}

// ActiveItems returns the batch items in batch order.
func (s *State) ActiveItems() []content.Item {
	out := make([]content.Item, 0, len(s.Active))
	for _, id := range s.Active {
		if it, ok := s.Item(id); ok {
			out = append(out, it)
		}
	}
	return out
}

// CategorySize counts eligible items in category.
func (s *State) CategorySize(category string) int {
	n := 0
	for _, it := range s.Eligible {
		if it.Category == category {
			n++
		}
	}
	return n
}

func (s *State) category(id string) *CategoryStats {
	cs, ok := s.Categories[id]
	if !ok {
		cs = &CategoryStats{Seen: make(map[int]bool), Challenged: make(map[int]bool)}
		s.Categories[id] = cs
	}
	return cs
}

func (s *State) setLastTarget(id int) {
	s.lastTarget = id
	s.hasLastTarget = true
}

func (s *State) markIntroduced(id int) {
	if s.Introduced[id] {
		return
	}
	s.Introduced[id] = true
	s.IntroOrder = append(s.IntroOrder, id)
}

func (s *State) allIntroduced() bool {
	return len(s.Introduced) >= len(s.Active)
}

func (s *State) enqueueReplay(id int) {
	for _, q := range s.Replay {
		if q == id {
			return
		}
	}
	s.Replay = append(s.Replay, id)
}

func (s *State) removeReplay(id int) {
	for i, q := range s.Replay {
		if q == id {
			s.Replay = append(s.Replay[:i], s.Replay[i+1:]...)
			return
		}
	}
}
