package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"go.uber.org/zap"

	"github.com/abhisek/lexdrill/internal/progress"
)

// ProgressRepo implements progress.Store on the item_progress table.
// Records are stored as encoded JSON and decoded field by field on read.
type ProgressRepo struct {
	db     *sql.DB
	logger *zap.Logger
}

var _ progress.Store = (*ProgressRepo)(nil)

func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// Get returns the stored record for itemID, or the default record.
func (r *ProgressRepo) Get(ctx context.Context, scope string, itemID int) (progress.ItemProgress, error) {
	query, args := builder().
		Select("data").
		From(entsql.Table(progressTable)).
		Where(entsql.And(
			entsql.EQ("scope", scope),
			entsql.EQ("item_id", itemID),
		)).
		Query()

	var data string
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return progress.Default(), nil
	}
	if err != nil {
		return progress.ItemProgress{}, fmt.Errorf("query progress %s/%d: %w", scope, itemID, err)
	}

	p, problems := progress.Decode([]byte(data))
	for _, fe := range problems {
		r.logger.Warn("progress field reset to default",
			zap.String("scope", scope),
			zap.Int("item_id", itemID),
			zap.String("field", fe.Field),
			zap.Error(fe.Err))
	}
	return p, nil
}

// Set writes p for itemID, replacing any previous record.
func (r *ProgressRepo) Set(ctx context.Context, scope string, itemID int, p progress.ItemProgress) error {
	data, err := progress.Encode(p)
	if err != nil {
		return fmt.Errorf("encode progress %s/%d: %w", scope, itemID, err)
	}
	return r.put(ctx, scope, itemID, int(p.Tier), p.UpdatedAt, string(data))
}

// PutRaw stores data verbatim. It exists for repair and import tooling.
func (r *ProgressRepo) PutRaw(ctx context.Context, scope string, itemID int, data []byte) error {
	return r.put(ctx, scope, itemID, int(progress.TierRecognition), 0, string(data))
}

func (r *ProgressRepo) put(ctx context.Context, scope string, itemID, tier int, updatedAt int64, data string) error {
	query, args := builder().
		Insert(progressTable).
		Columns("scope", "item_id", "tier", "updated_at", "data").
		Values(scope, itemID, tier, updatedAt, data).
		OnConflict(
			entsql.ConflictColumns("scope", "item_id"),
			entsql.ResolveWithNewValues(),
		).
		Query()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("save progress %s/%d: %w", scope, itemID, err)
	}
	return nil
}

// TierCounts returns how many stored items of scope sit at each tier.
func (r *ProgressRepo) TierCounts(ctx context.Context, scope string) (map[progress.Tier]int, error) {
	query, args := builder().
		Select("tier", entsql.As(entsql.Count("*"), "n")).
		From(entsql.Table(progressTable)).
		Where(entsql.EQ("scope", scope)).
		GroupBy("tier").
		OrderBy("tier").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query tier counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[progress.Tier]int)
	for rows.Next() {
		var tier, n int
		if err := rows.Scan(&tier, &n); err != nil {
			return nil, fmt.Errorf("scan tier counts: %w", err)
		}
		counts[progress.Tier(tier)] = n
	}
	return counts, rows.Err()
}

// Scopes lists every scope with stored progress.
func (r *ProgressRepo) Scopes(ctx context.Context) ([]string, error) {
	query, args := builder().
		Select("scope").
		Distinct().
		From(entsql.Table(progressTable)).
		OrderBy("scope").
		Query()

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query scopes: %w", err)
	}
	defer rows.Close()

	var scopes []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, fmt.Errorf("scan scope: %w", err)
		}
		scopes = append(scopes, s)
	}
	return scopes, rows.Err()
}

// Reset deletes every progress record in scope and returns how many were
// removed. Answer events are kept.
func (r *ProgressRepo) Reset(ctx context.Context, scope string) (int64, error) {
	query, args := builder().
		Delete(progressTable).
		Where(entsql.EQ("scope", scope)).
		Query()
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, fmt.Errorf("reset scope %q: %w", scope, err)
	}
	return res.RowsAffected()
}
