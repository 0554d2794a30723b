package session

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/mastery"
)

// Category pressure thresholds.
const (
	PressureMinChallenged = 2
	PressureMinSeen       = 3
	PressureRatio         = 0.45
)

// checkCategoryPressure records the answer against its category and, when
// the category has been missed too often this session, demotes every
// eligible item in it by one tier. A category is demoted at most once per
// session. The answered item is skipped when its own tier rule already
// demoted it on this answer.
func (g *Grader) checkCategoryPressure(ctx context.Context, state *State, category string, id int, challenged, answeredDemoted bool) (bool, []*mastery.Transition, error) {
	cs := state.category(category)
	cs.Seen[id] = true
	if challenged {
		cs.Challenged[id] = true
	}
	if cs.Demoted {
		return false, nil, nil
	}

	minSeen := PressureMinSeen
	if size := state.CategorySize(category); size < minSeen {
		minSeen = size
	}
	seen, hit := len(cs.Seen), len(cs.Challenged)
	if hit < PressureMinChallenged || seen < minSeen || float64(hit)/float64(seen) < PressureRatio {
		return false, nil, nil
	}
	cs.Demoted = true

	var trs []*mastery.Transition
	for _, it := range state.Eligible {
		if it.Category != category || (it.ID == id && answeredDemoted) {
			continue
		}
		p, err := g.Store.Get(ctx, state.Scope, it.ID)
		if err != nil {
			return false, nil, fmt.Errorf("load progress for item %d: %w", it.ID, err)
		}
		tr := mastery.Demote(it.ID, &p, mastery.TriggerCategoryPressure)
		if tr == nil {
			continue
		}
		p.UpdatedAt = g.now().UnixMilli()
		if err := g.Store.Set(ctx, state.Scope, it.ID, p); err != nil {
			return false, nil, fmt.Errorf("save progress for item %d: %w", it.ID, err)
		}
		trs = append(trs, tr)
		if state.IsActive(it.ID) {
			resolveByTier(state, it.ID, p.Tier)
		}
	}

	g.Logger.Info("category demoted",
		zap.String("category", category),
		zap.Int("seen", seen),
		zap.Int("challenged", hit),
		zap.Int("demoted_items", len(trs)))
	return true, trs, nil
}
