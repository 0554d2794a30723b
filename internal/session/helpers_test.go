package session

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/abhisek/lexdrill/internal/content"
	"github.com/abhisek/lexdrill/internal/mastery"
	"github.com/abhisek/lexdrill/internal/progress"
)

var testNow = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)

func testItem(id int, category string) content.Item {
	return content.Item{
		ID:           id,
		Text:         "word",
		Attribute:    "masculine",
		Category:     category,
		PartOfSpeech: []string{"noun"},
		Audio:        content.Audio{Isolation: "iso.mp3", Context: "ctx.mp3"},
		HasAudio:     true,
	}
}

func testItems(category string, ids ...int) []content.Item {
	out := make([]content.Item, 0, len(ids))
	for _, id := range ids {
		out = append(out, testItem(id, category))
	}
	return out
}

// lastRand always picks the last index and never shuffles.
type lastRand struct{}

func (lastRand) Intn(n int) int { return n - 1 }
func (lastRand) Shuffle(int, func(i, j int)) {}

func seeded() *rand.Rand {
	return rand.New(rand.NewSource(7))
}

func newTestPlanner(store progress.Store) *Planner {
	p := NewPlanner(store, "deck", lastRand{}, nil)
	p.Now = func() time.Time { return testNow }
	p.NewID = func() string { return "session-1" }
	return p
}

// mockEvents records answer events.
type mockEvents struct {
	events []AnswerEvent
}

func (m *mockEvents) AppendAnswerEvent(_ context.Context, ev AnswerEvent) error {
	m.events = append(m.events, ev)
	return nil
}

// mockRecorder counts metric observations.
type mockRecorder struct {
	answers     int
	transitions []*mastery.Transition
	categories  []string
}

func (m *mockRecorder) ObserveAnswer(progress.Tier, bool, mastery.Timing) { m.answers++ }
func (m *mockRecorder) ObserveTransition(tr *mastery.Transition) {
	m.transitions = append(m.transitions, tr)
}
func (m *mockRecorder) ObserveCategoryDemotion(category string) {
	m.categories = append(m.categories, category)
}

func newTestGrader(store progress.Store) (*Grader, *mockEvents, *mockRecorder) {
	ev := &mockEvents{}
	rec := &mockRecorder{}
	g := NewGrader(store, ev, rec, nil)
	g.Now = func() time.Time { return testNow }
	return g, ev, rec
}

func setProgress(t *testing.T, store progress.Store, id int, p progress.ItemProgress) {
	t.Helper()
	if err := store.Set(context.Background(), "deck", id, p); err != nil {
		t.Fatalf("Set(%d): %v", id, err)
	}
}

func getProgress(t *testing.T, store progress.Store, id int) progress.ItemProgress {
	t.Helper()
	p, err := store.Get(context.Background(), "deck", id)
	if err != nil {
		t.Fatalf("Get(%d): %v", id, err)
	}
	return p
}

func atTier(tier progress.Tier, confidence int) progress.ItemProgress {
	p := progress.Default()
	p.Tier = tier
	p.Confidence = confidence
	p.Introduced = true
	p.SeenTotal = 1
	return p
}

// answer grades a single answer on a fresh round targeting id.
func answer(t *testing.T, g *Grader, state *State, id int, correct bool, at, cue time.Time) *Result {
	t.Helper()
	round := NewRound(&Target{ItemIDs: []int{id}}, 1, at.Add(-time.Second), 0)
	round.CueStartedAt = cue
	res, err := g.Grade(context.Background(), state, round, Answer{ItemID: id, Correct: correct, AnsweredAt: at})
	if err != nil {
		t.Fatalf("Grade(%d): %v", id, err)
	}
	if res.Status != StatusGraded {
		t.Fatalf("Grade(%d) status = %s (%s), want graded", id, res.Status, res.IgnoreReason)
	}
	return res
}

func tierPtr(t progress.Tier) *progress.Tier { return &t }
func boolPtr(b bool) *bool { return &b }
