package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	entsql "entgo.io/ent/dialect/sql"

	"github.com/abhisek/lexdrill/internal/mastery"
	"github.com/abhisek/lexdrill/internal/progress"
	"github.com/abhisek/lexdrill/internal/session"
)

// EventRepo appends and queries per-answer events.
type EventRepo struct {
	db  *sql.DB
	seq *sequenceCounter
}

var _ session.EventSink = (*EventRepo)(nil)

// AnswerRecord is a stored answer event with its global sequence number.
type AnswerRecord struct {
	Sequence int64
	session.AnswerEvent
}

var eventColumns = []string{
	"sequence", "at_ms", "session_id", "scope", "item_id", "drilled_tier", "tier",
	"confidence", "quick_correct_streak", "seen_total", "timing", "correct", "dont_know",
}

// AppendAnswerEvent records ev under the next global sequence number.
func (r *EventRepo) AppendAnswerEvent(ctx context.Context, ev session.AnswerEvent) error {
	seqNum, err := r.seq.Next(ctx)
	if err != nil {
		return fmt.Errorf("next sequence: %w", err)
	}

	query, args := builder().
		Insert(eventsTable).
		Columns(eventColumns...).
		Values(
			seqNum, ev.At.UnixMilli(), ev.SessionID, ev.Scope, ev.ItemID,
			int(ev.DrilledTier), int(ev.TierSnapshot), ev.Confidence,
			ev.QuickCorrectStreak, ev.SeenTotal, string(ev.Timing),
			ev.Correct, ev.DontKnow,
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save answer event: %w", err)
	}
	return nil
}

// EventQuery filters answer event queries.
type EventQuery struct {
	Scope     string
	SessionID string
	ItemID    int   // 0 = any item
	After     int64 // sequence > After
	Limit     int   // max results (0 = unlimited)
}

// Answers returns matching events, newest first.
func (r *EventRepo) Answers(ctx context.Context, q EventQuery) ([]AnswerRecord, error) {
	var preds []*entsql.Predicate
	if q.Scope != "" {
		preds = append(preds, entsql.EQ("scope", q.Scope))
	}
	if q.SessionID != "" {
		preds = append(preds, entsql.EQ("session_id", q.SessionID))
	}
	if q.ItemID != 0 {
		preds = append(preds, entsql.EQ("item_id", q.ItemID))
	}
	if q.After > 0 {
		preds = append(preds, entsql.GT("sequence", q.After))
	}

	sel := builder().
		Select(eventColumns...).
		From(entsql.Table(eventsTable)).
		OrderBy(entsql.Desc("sequence"))
	if len(preds) > 0 {
		sel = sel.Where(entsql.And(preds...))
	}
	if q.Limit > 0 {
		sel = sel.Limit(q.Limit)
	}
	query, args := sel.Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query answer events: %w", err)
	}
	defer rows.Close()

	var out []AnswerRecord
	for rows.Next() {
		var (
			rec           AnswerRecord
			atMs          int64
			drilled, tier int
			timing        string
		)
		err := rows.Scan(&rec.Sequence, &atMs, &rec.SessionID, &rec.Scope, &rec.ItemID,
			&drilled, &tier, &rec.Confidence, &rec.QuickCorrectStreak, &rec.SeenTotal,
			&timing, &rec.Correct, &rec.DontKnow)
		if err != nil {
			return nil, fmt.Errorf("scan answer event: %w", err)
		}
		rec.At = time.UnixMilli(atMs)
		rec.DrilledTier = progress.Tier(drilled)
		rec.TierSnapshot = progress.Tier(tier)
		rec.Timing = mastery.Timing(timing)
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Accuracy returns the number of answers and correct answers in scope.
func (r *EventRepo) Accuracy(ctx context.Context, scope string) (total, correct int, err error) {
	query, args := builder().
		Select(entsql.Count("*"), "COALESCE(SUM(correct), 0)").
		From(entsql.Table(eventsTable)).
		Where(entsql.EQ("scope", scope)).
		Query()
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &correct); err != nil {
		return 0, 0, fmt.Errorf("query accuracy: %w", err)
	}
	return total, correct, nil
}

// sequenceCounter manages the global monotonic sequence number assigned to
// every stored event, giving a total order that survives row deletion and
// clock changes.
//
// Uses raw SQL outside the builder because SQLite needs the RETURNING
// clause to make the increment atomic. The mutex serializes within the
// process.
type sequenceCounter struct {
	mu sync.Mutex
	db *sql.DB
}

// newSequenceCounter creates a counter and ensures the tracking table exists.
func newSequenceCounter(db *sql.DB) (*sequenceCounter, error) {
	_, err := db.Exec(`CREATE TABLE IF NOT EXISTS global_sequence (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		next_val INTEGER NOT NULL DEFAULT 1
	)`)
	if err != nil {
		return nil, fmt.Errorf("create sequence table: %w", err)
	}

	_, err = db.Exec(`INSERT OR IGNORE INTO global_sequence (id, next_val) VALUES (1, 1)`)
	if err != nil {
		return nil, fmt.Errorf("seed sequence: %w", err)
	}

	return &sequenceCounter{db: db}, nil
}

// Next atomically returns the next sequence number and increments the counter.
func (sc *sequenceCounter) Next(ctx context.Context) (int64, error) {
	sc.mu.Lock()
	defer sc.mu.Unlock()

	var seq int64
	err := sc.db.QueryRowContext(ctx,
		`UPDATE global_sequence SET next_val = next_val + 1 WHERE id = 1 RETURNING next_val - 1`,
	).Scan(&seq)
	if err != nil {
		return 0, fmt.Errorf("next sequence: %w", err)
	}
	return seq, nil
}
