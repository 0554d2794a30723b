package session

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/content"
	"github.com/abhisek/lexdrill/internal/progress"
)

// MaxBatchSize is the largest number of items drilled in one session.
const MaxBatchSize = 12

// Planner chooses the tier and batch for a new session.
type Planner struct {
	Store     progress.Store
	Scope     string
	BatchSize int
	Rand      Rand
	Logger    *zap.Logger
	Now       func() time.Time
	NewID     func() string
}

// NewPlanner creates a planner reading progress for scope from store.
// A nil rng is seeded from the clock.
func NewPlanner(store progress.Store, scope string, rng Rand, logger *zap.Logger) *Planner {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Planner{
		Store:     store,
		Scope:     scope,
		BatchSize: MaxBatchSize,
		Rand:      rng,
		Logger:    logger,
		Now:       time.Now,
		NewID:     uuid.NewString,
	}
}

// Start plans a session over the eligible items. A nil plan is a direct
// launch with no resume data.
func (p *Planner) Start(ctx context.Context, eligible []content.Item, plan *Plan) (*State, error) {
	if plan == nil {
		plan = &Plan{LaunchSource: LaunchDirect}
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, ErrNotReady
	}

	records := make(map[int]progress.ItemProgress, len(eligible))
	for _, it := range eligible {
		if _, ok := records[it.ID]; ok {
			continue
		}
		rec, err := p.Store.Get(ctx, p.Scope, it.ID)
		if err != nil {
			return nil, fmt.Errorf("load progress for item %d: %w", it.ID, err)
		}
		records[it.ID] = rec
	}

	var (
		tier  progress.Tier
		batch []content.Item
	)
	if len(plan.ItemIDs) > 0 {
		tier, batch = p.resumeBatch(eligible, records, plan)
	} else {
		tier, batch = p.freshBatch(eligible, records, plan)
	}
	if len(batch) == 0 {
		return nil, ErrNotReady
	}

	tiers := make(map[int]progress.Tier, len(batch))
	for _, it := range batch {
		tiers[it.ID] = records[it.ID].Tier
	}

	state := newState(p.newID(), p.Scope, tier, plan.LaunchSource, eligible, batch, tiers, p.now())
	if tier == progress.TierRecognition && forceIntro(plan, batch, records) {
		n := 2
		if len(batch) < n {
			n = len(batch)
		}
		for _, it := range batch[:n] {
			state.PendingIntro = append(state.PendingIntro, it.ID)
		}
	} else {
		for _, it := range batch {
			state.markIntroduced(it.ID)
		}
	}

	p.Logger.Info("session planned",
		zap.String("session_id", state.ID),
		zap.String("scope", p.Scope),
		zap.Int("tier", int(tier)),
		zap.Ints("items", state.Active),
		zap.Bool("forced_intro", len(state.PendingIntro) > 0),
		zap.String("source", string(plan.LaunchSource)))
	return state, nil
}

// resumeBatch keeps the requested ids present in the pool.
func (p *Planner) resumeBatch(eligible []content.Item, records map[int]progress.ItemProgress, plan *Plan) (progress.Tier, []content.Item) {
	byID := make(map[int]content.Item, len(eligible))
	for _, it := range eligible {
		if _, ok := byID[it.ID]; !ok {
			byID[it.ID] = it
		}
	}

	limit := p.batchSize()
	used := make(map[int]bool)
	var batch []content.Item
	for _, id := range plan.ItemIDs {
		it, ok := byID[id]
		if !ok || used[id] {
			continue
		}
		used[id] = true
		batch = append(batch, it)
		if len(batch) == limit {
			break
		}
	}

	if plan.Tier != nil {
		return *plan.Tier, batch
	}
	tier := progress.TierRecognition
	for i, it := range batch {
		t := records[it.ID].Tier
		if i == 0 || t < tier {
			tier = t
		}
	}
	return tier, batch
}

// freshBatch picks the weakest items of the target tier.
func (p *Planner) freshBatch(eligible []content.Item, records map[int]progress.ItemProgress, plan *Plan) (progress.Tier, []content.Item) {
	buckets := make(map[progress.Tier][]content.Item)
	seen := make(map[int]bool, len(eligible))
	for _, it := range eligible {
		if seen[it.ID] {
			continue
		}
		seen[it.ID] = true
		t := records[it.ID].Tier
		buckets[t] = append(buckets[t], it)
	}

	tier := progress.TierRecognition
	if plan.Tier != nil {
		tier = *plan.Tier
	} else {
		for _, t := range []progress.Tier{progress.TierRecognition, progress.TierTimed, progress.TierIsolation} {
			if len(buckets[t]) > 0 {
				tier = t
				break
			}
		}
	}

	candidates := append([]content.Item(nil), buckets[tier]...)
	p.Rand.Shuffle(len(candidates), func(i, j int) {
		candidates[i], candidates[j] = candidates[j], candidates[i]
	})
	sortCandidates(candidates, records, tier)

	limit := p.batchSize()
	if plan.LaunchSource == LaunchDashboard {
		return tier, interleave(candidates, limit)
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	return tier, candidates
}

// sortCandidates orders the weakest items first.
func sortCandidates(items []content.Item, records map[int]progress.ItemProgress, tier progress.Tier) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := records[items[i].ID], records[items[j].ID]
		if tier == progress.TierRecognition {
			return a.SeenTotal < b.SeenTotal
		}
		if a.Confidence != b.Confidence {
			return a.Confidence < b.Confidence
		}
		return a.WrongTotal() > b.WrongTotal()
	})
}

// interleave takes up to limit items round-robin across category buckets.
// Bucket order is the order each category first appears in items.
func interleave(items []content.Item, limit int) []content.Item {
	var order []string
	buckets := make(map[string][]content.Item)
	for _, it := range items {
		if _, ok := buckets[it.Category]; !ok {
			order = append(order, it.Category)
		}
		buckets[it.Category] = append(buckets[it.Category], it)
	}
	if len(order) <= 1 {
		if len(items) > limit {
			return items[:limit]
		}
		return items
	}

	var out []content.Item
	for len(out) < limit {
		progressed := false
		for _, cat := range order {
			if len(out) == limit {
				break
			}
			if b := buckets[cat]; len(b) > 0 {
				out = append(out, b[0])
				buckets[cat] = b[1:]
				progressed = true
			}
		}
		if !progressed {
			break
		}
	}
	return out
}

// forceIntro reports whether the session opens with an introduction batch.
func forceIntro(plan *Plan, batch []content.Item, records map[int]progress.ItemProgress) bool {
	if plan.ForceIntro != nil {
		return *plan.ForceIntro
	}
	category := batch[0].Category
	for _, it := range batch {
		r := records[it.ID]
		if !r.Unseen() || it.Category != category {
			return false
		}
	}
	return true
}

func (p *Planner) batchSize() int {
	if p.BatchSize <= 0 || p.BatchSize > MaxBatchSize {
		return MaxBatchSize
	}
	return p.BatchSize
}

func (p *Planner) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

func (p *Planner) newID() string {
	if p.NewID == nil {
		return uuid.NewString()
	}
	return p.NewID()
}
