package session

import "github.com/abhisek/lexdrill/internal/progress"

// IntroReadyCorrect is how many correct answers the newest introduced item
// needs before the next tier-1 item is introduced.
const IntroReadyCorrect = 2

// Target is the next thing to show the learner.
type Target struct {
	// ItemIDs holds one id, or up to two for a forced introduction.
	ItemIDs []int

	// Intro marks an introduction presentation, which is not graded.
	Intro bool

	// FromReplay marks a target taken from the replay queue.
	FromReplay bool
}

// ItemID returns the first target id.
func (t *Target) ItemID() int {
	return t.ItemIDs[0]
}

// Has reports whether id is one of the target ids.
func (t *Target) Has(id int) bool {
	for _, x := range t.ItemIDs {
		if x == id {
			return true
		}
	}
	return false
}

// Select picks the next target, or nil when nothing is left to show.
func Select(state *State, rng Rand) *Target {
	if state == nil || !state.Ready || len(state.Active) == 0 {
		return nil
	}

	// Forced introduction batch.
	if len(state.PendingIntro) > 0 {
		ids := state.PendingIntro
		state.PendingIntro = nil
		for _, id := range ids {
			state.markIntroduced(id)
			if state.Tier == progress.TierRecognition {
				state.PendingReview[id] = true
			}
		}
		state.setLastTarget(ids[len(ids)-1])
		return &Target{ItemIDs: ids, Intro: true}
	}

	// Gradual tier-1 introduction.
	if state.Tier == progress.TierRecognition && len(state.Replay) == 0 {
		if next, ok := nextUninitiated(state); ok && newestIntroReady(state) {
			state.markIntroduced(next)
			state.PendingReview[next] = true
			state.setLastTarget(next)
			return &Target{ItemIDs: []int{next}, Intro: true}
		}
	}

	// Replay queue.
	last, hasLast := state.LastTarget()
	fallback, hasFallback := 0, false
	for _, id := range state.Replay {
		if hasLast && id == last {
			fallback, hasFallback = id, true
			continue
		}
		state.removeReplay(id)
		state.setLastTarget(id)
		return &Target{ItemIDs: []int{id}, FromReplay: true}
	}

	pool := selectionPool(state)
	candidates := make([]int, 0, len(pool))
	for _, id := range pool {
		if hasLast && id == last {
			continue
		}
		candidates = append(candidates, id)
	}
	if len(candidates) == 0 && len(pool) == 1 {
		candidates = pool
	}
	if len(candidates) > 0 {
		id := candidates[rng.Intn(len(candidates))]
		state.setLastTarget(id)
		return &Target{ItemIDs: []int{id}}
	}

	if hasFallback {
		state.removeReplay(fallback)
		state.setLastTarget(fallback)
		return &Target{ItemIDs: []int{fallback}, FromReplay: true}
	}
	return nil
}

// Complete reports whether every batch item has passed.
func Complete(state *State) bool {
	if state == nil || !state.Ready {
		return false
	}
	for _, id := range state.Active {
		if rs := state.Rounds[id]; rs == nil || !rs.Passed {
			return false
		}
	}
	return true
}

// selectionPool returns candidate ids in a stable order.
func selectionPool(state *State) []int {
	if state.Tier == progress.TierRecognition && len(state.PendingReview) > 0 {
		var pending []int
		for _, id := range state.IntroOrder {
			if state.PendingReview[id] {
				pending = append(pending, id)
			}
		}
		if len(pending) != 1 {
			return pending
		}
		// A lone pending item is blended with the other introduced items.
		for _, id := range state.IntroOrder {
			if !state.PendingReview[id] {
				pending = append(pending, id)
			}
		}
		return pending
	}

	var pool []int
	for _, id := range state.IntroOrder {
		if rs := state.Rounds[id]; rs != nil && !rs.Passed {
			pool = append(pool, id)
		}
	}
	return pool
}

func nextUninitiated(state *State) (int, bool) {
	for _, id := range state.Active {
		if !state.Introduced[id] {
			return id, true
		}
	}
	return 0, false
}

func newestIntroReady(state *State) bool {
	if len(state.IntroOrder) == 0 {
		return true
	}
	newest := state.IntroOrder[len(state.IntroOrder)-1]
	rs := state.Rounds[newest]
	return rs != nil && rs.CorrectTotal >= IntroReadyCorrect
}
