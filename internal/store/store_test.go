package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/abhisek/lexdrill/internal/mastery"
	"github.com/abhisek/lexdrill/internal/progress"
	"github.com/abhisek/lexdrill/internal/session"
)

func openTestStore(t *testing.T, logger *zap.Logger) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "test.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestPragmasApplied(t *testing.T) {
	s := openTestStore(t, nil)
	db := s.DB()

	tests := []struct {
		pragma string
		want   string
	}{
		{"journal_mode", "wal"},
		{"foreign_keys", "1"},
		{"synchronous", "1"}, // NORMAL = 1
	}

	for _, tt := range tests {
		var got string
		require.NoError(t, db.QueryRow("PRAGMA "+tt.pragma).Scan(&got), tt.pragma)
		assert.Equal(t, tt.want, got, "PRAGMA %s", tt.pragma)
	}
}

func TestProgressRepo_DefaultAndRoundTrip(t *testing.T) {
	repo := openTestStore(t, nil).ProgressRepo()
	ctx := context.Background()

	got, err := repo.Get(ctx, "deck", 1)
	require.NoError(t, err)
	assert.Equal(t, progress.Default(), got)

	p := progress.Default()
	p.Tier = progress.TierTimed
	p.Confidence = 4
	p.QuickCorrectStreak = 1
	p.Introduced = true
	p.SeenTotal = 6
	p.Tiers[0] = progress.TierCounts{Pass: 3, Fail: 1}
	p.Tiers[1] = progress.TierCounts{Pass: 2}
	p.DontKnowCount = 1
	p.LastCategory = "animals"
	p.UpdatedAt = 1700000000000
	require.NoError(t, repo.Set(ctx, "deck", 1, p))

	got, err = repo.Get(ctx, "deck", 1)
	require.NoError(t, err)
	assert.Equal(t, p, got)

	// Upsert replaces the record.
	p.Tier = progress.TierIsolation
	require.NoError(t, repo.Set(ctx, "deck", 1, p))
	got, err = repo.Get(ctx, "deck", 1)
	require.NoError(t, err)
	assert.Equal(t, progress.TierIsolation, got.Tier)

	// Scopes are independent.
	other, err := repo.Get(ctx, "other", 1)
	require.NoError(t, err)
	assert.Equal(t, progress.TierRecognition, other.Tier)
}

func TestProgressRepo_CorruptFieldsDefault(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	repo := openTestStore(t, zap.New(core)).ProgressRepo()
	ctx := context.Background()

	require.NoError(t, repo.PutRaw(ctx, "deck", 9, []byte(`{"tier": 7, "confidence": 3, "seen_total": "many"}`)))

	got, err := repo.Get(ctx, "deck", 9)
	require.NoError(t, err)
	assert.Equal(t, progress.TierRecognition, got.Tier)
	assert.Equal(t, 3, got.Confidence)
	assert.Equal(t, 0, got.SeenTotal)
	assert.Equal(t, 2, logs.FilterMessage("progress field reset to default").Len())
}

func TestProgressRepo_TierCountsAndScopes(t *testing.T) {
	repo := openTestStore(t, nil).ProgressRepo()
	ctx := context.Background()

	for id, tier := range map[int]progress.Tier{1: 1, 2: 2, 3: 2, 4: 3} {
		p := progress.Default()
		p.Tier = tier
		require.NoError(t, repo.Set(ctx, "deck", id, p))
	}
	require.NoError(t, repo.Set(ctx, "spare", 1, progress.Default()))

	counts, err := repo.TierCounts(ctx, "deck")
	require.NoError(t, err)
	assert.Equal(t, map[progress.Tier]int{1: 1, 2: 2, 3: 1}, counts)

	scopes, err := repo.Scopes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"deck", "spare"}, scopes)
}

func TestProgressRepo_Reset(t *testing.T) {
	repo := openTestStore(t, nil).ProgressRepo()
	ctx := context.Background()

	p := progress.Default()
	p.Tier = progress.TierIsolation
	require.NoError(t, repo.Set(ctx, "deck", 1, p))
	require.NoError(t, repo.Set(ctx, "deck", 2, p))
	require.NoError(t, repo.Set(ctx, "spare", 1, p))

	n, err := repo.Reset(ctx, "deck")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	got, err := repo.Get(ctx, "deck", 1)
	require.NoError(t, err)
	assert.Equal(t, progress.Default(), got)

	kept, err := repo.Get(ctx, "spare", 1)
	require.NoError(t, err)
	assert.Equal(t, progress.TierIsolation, kept.Tier)
}

func TestEventRepo_AppendAndQuery(t *testing.T) {
	s := openTestStore(t, nil)
	events := s.EventRepo()
	ctx := context.Background()
	at := time.UnixMilli(1700000000123)

	for i, correct := range []bool{true, false, true} {
		require.NoError(t, events.AppendAnswerEvent(ctx, session.AnswerEvent{
			SessionID:    "s1",
			Scope:        "deck",
			ItemID:       10 + i,
			DrilledTier:  progress.TierTimed,
			TierSnapshot: progress.TierTimed,
			Confidence:   i,
			Timing:       mastery.TimingBeforeCue,
			Correct:      correct,
			DontKnow:     !correct,
			At:           at,
		}))
	}

	all, err := events.Answers(ctx, EventQuery{Scope: "deck"})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, int64(3), all[0].Sequence)
	assert.Equal(t, 12, all[0].ItemID)
	assert.True(t, all[0].At.Equal(at))
	assert.Equal(t, mastery.TimingBeforeCue, all[0].Timing)
	assert.True(t, all[1].DontKnow)

	after, err := events.Answers(ctx, EventQuery{Scope: "deck", After: 1, Limit: 1})
	require.NoError(t, err)
	require.Len(t, after, 1)
	assert.Equal(t, int64(3), after[0].Sequence)

	one, err := events.Answers(ctx, EventQuery{ItemID: 11})
	require.NoError(t, err)
	require.Len(t, one, 1)
	assert.False(t, one[0].Correct)

	total, correct, err := events.Accuracy(ctx, "deck")
	require.NoError(t, err)
	assert.Equal(t, 3, total)
	assert.Equal(t, 2, correct)
}

func TestSequenceCounter_Monotonic(t *testing.T) {
	s := openTestStore(t, nil)
	ctx := context.Background()

	var prev int64
	for i := 0; i < 5; i++ {
		n, err := s.seq.Next(ctx)
		require.NoError(t, err)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestDefaultDBPath(t *testing.T) {
	dir := t.TempDir()

	t.Setenv("LEXDRILL_DB", filepath.Join(dir, "explicit", "x.db"))
	p, err := DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "explicit", "x.db"), p)
	assert.DirExists(t, filepath.Join(dir, "explicit"))

	t.Setenv("LEXDRILL_DB", "")
	t.Setenv("XDG_DATA_HOME", dir)
	p, err = DefaultDBPath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "lexdrill", "lexdrill.db"), p)
}
