package store

import (
	"context"
	"fmt"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/scanner"
	"github.com/lib/pq"
)

// CounterStore gère les compteurs d'activité par bucket d'une minute
type CounterStore struct {
	db Querier
}

func NewCounterStore(db Querier) *CounterStore {
	return &CounterStore{db: db}
}

// Increment upsert une ligne: +1 si le couple (bucket, identité) existe,
// sinon insertion avec count = 1. Un upsert sans ligne affectée est un bug
// du store et remonte ErrNoRowsAffected.
func (s *CounterStore) Increment(ctx context.Context, table CounterTable, identity string, timestamp int64) error {
	if !table.valid() {
		return fmt.Errorf("invalid counter table %q", table)
	}

	bucket := FloorBucket(timestamp)

	tag, err := s.db.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s AS c (bucket_ts, identity, count)
		VALUES ($1, $2, 1)
		ON CONFLICT (bucket_ts, identity)
		DO UPDATE SET count = c.count + 1
	`, pq.QuoteIdentifier(string(table))), bucket, identity)
	if err != nil {
		return fmt.Errorf("could not increment counter: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("increment %s for %q: %w", table, identity, ErrNoRowsAffected)
	}

	return nil
}

// SumInRange agrège les counts par identité sur [floor(from), floor(to)].
// Une liste d'identités vide signifie aucune restriction.
func (s *CounterStore) SumInRange(ctx context.Context, table CounterTable, identities []string, from, to int64) ([]model.CounterSum, error) {
	if !table.valid() {
		return nil, fmt.Errorf("invalid counter table %q", table)
	}

	query := fmt.Sprintf(`
		SELECT identity, SUM(count) AS total
		FROM %s
		WHERE bucket_ts >= $1 AND bucket_ts <= $2
	`, pq.QuoteIdentifier(string(table)))
	args := []any{FloorBucket(from), FloorBucket(to)}

	if len(identities) > 0 {
		query += ` AND identity = ANY($3)`
		args = append(args, identities)
	}
	query += ` GROUP BY identity ORDER BY total DESC`

	rows, err := s.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("could not sum counters: %w", err)
	}
	defer rows.Close()

	var sums []model.CounterSum
	for rows.Next() {
		sum, err := scanner.ScanCounterSum(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan counter sum: %w", err)
		}
		sums = append(sums, *sum)
	}

	return sums, rows.Err()
}

// RowsInRange retourne les lignes brutes par bucket, triées par bucket
// croissant. Utilisé par le calcul de score à décroissance qui a besoin de
// la granularité par bucket.
func (s *CounterStore) RowsInRange(ctx context.Context, table CounterTable, from, to int64) ([]model.CounterRow, error) {
	if !table.valid() {
		return nil, fmt.Errorf("invalid counter table %q", table)
	}

	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT bucket_ts, identity, count
		FROM %s
		WHERE bucket_ts >= $1 AND bucket_ts <= $2
		ORDER BY bucket_ts ASC
	`, pq.QuoteIdentifier(string(table))), FloorBucket(from), FloorBucket(to))
	if err != nil {
		return nil, fmt.Errorf("could not query counter rows: %w", err)
	}
	defer rows.Close()

	var result []model.CounterRow
	for rows.Next() {
		row, err := scanner.ScanCounterRow(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan counter row: %w", err)
		}
		result = append(result, *row)
	}

	return result, rows.Err()
}

// DeleteBucketsThrough supprime les lignes dont le bucket est ≤ cutoff.
// Tourne dans la transaction fournie par le nettoyeur de rétention.
func (s *CounterStore) DeleteBucketsThrough(ctx context.Context, q Querier, table CounterTable, cutoff int64) (int64, error) {
	if !table.valid() {
		return 0, fmt.Errorf("invalid counter table %q", table)
	}

	tag, err := q.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE bucket_ts <= $1`,
		pq.QuoteIdentifier(string(table))), cutoff)
	if err != nil {
		return 0, fmt.Errorf("could not delete expired counters: %w", err)
	}

	return tag.RowsAffected(), nil
}

// RewriteIdentity réécrit les lignes de oldIdentifier vers newIdentifier pour
// les buckets strictement plus récents que cutoff, en fusionnant les counts
// quand la nouvelle identité possède déjà le bucket. Les totaux sont préservés.
func (s *CounterStore) RewriteIdentity(ctx context.Context, q Querier, table CounterTable, oldIdentifier, newIdentifier string, cutoff int64) (int64, error) {
	if !table.valid() {
		return 0, fmt.Errorf("invalid counter table %q", table)
	}

	name := pq.QuoteIdentifier(string(table))

	_, err := q.Exec(ctx, fmt.Sprintf(`
		INSERT INTO %s AS c (bucket_ts, identity, count)
		SELECT bucket_ts, $1, count FROM %s
		WHERE identity = $2 AND bucket_ts > $3
		ON CONFLICT (bucket_ts, identity)
		DO UPDATE SET count = c.count + EXCLUDED.count
	`, name, name), newIdentifier, oldIdentifier, cutoff)
	if err != nil {
		return 0, fmt.Errorf("could not copy counters to new identity: %w", err)
	}

	tag, err := q.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE identity = $1 AND bucket_ts > $2`, name),
		oldIdentifier, cutoff)
	if err != nil {
		return 0, fmt.Errorf("could not delete old identity counters: %w", err)
	}

	return tag.RowsAffected(), nil
}
