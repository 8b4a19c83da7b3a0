package store

import (
	"context"
	"fmt"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/scanner"
	"github.com/lib/pq"
)

// TimeframeStore gère les intervalles de présence et d'adhésion.
// Les observations arrivent comme des snapshots de polling qui se
// chevauchent; l'append consolide pour ne pas accumuler des milliers de
// micro-intervalles quasi identiques.
type TimeframeStore struct {
	db DB
}

func NewTimeframeStore(db DB) *TimeframeStore {
	return &TimeframeStore{db: db}
}

// ConsolidateAppend insère [from, to] en le fusionnant avec les intervalles
// existants qui le chevauchent ou dont une borne est à moins de
// leniencySeconds. La séquence lecture-puis-écriture est sérialisée par
// identité via un verrou consultatif transactionnel: deux appends
// concurrents pour la même identité ne peuvent pas lire tous deux l'état
// d'avant et insérer des lignes qui se chevauchent.
func (s *TimeframeStore) ConsolidateAppend(ctx context.Context, table TimeframeTable, identity string, from, to, leniencySeconds int64) error {
	if !table.valid() {
		return fmt.Errorf("invalid timeframe table %q", table)
	}
	if from > to {
		return fmt.Errorf("invalid timeframe: from %d after to %d", from, to)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`SELECT pg_advisory_xact_lock(hashtext($1))`,
		string(table)+":"+identity,
	); err != nil {
		return fmt.Errorf("could not acquire identity lock: %w", err)
	}

	name := pq.QuoteIdentifier(string(table))

	// Chevauchement direct ou borne dans la tolérance:
	// stored.from ≤ to + leniency ET stored.to ≥ from − leniency
	rows, err := tx.Query(ctx, fmt.Sprintf(`
		SELECT id, from_ts, to_ts FROM %s
		WHERE identity = $1 AND from_ts <= $2 AND to_ts >= $3
	`, name), identity, to+leniencySeconds, from-leniencySeconds)
	if err != nil {
		return fmt.Errorf("could not query overlapping timeframes: %w", err)
	}

	var ids []int64
	span := model.Timeframe{Identity: identity, FromTimestamp: from, ToTimestamp: to}
	for rows.Next() {
		var id, storedFrom, storedTo int64
		if err := rows.Scan(&id, &storedFrom, &storedTo); err != nil {
			rows.Close()
			return fmt.Errorf("could not scan timeframe: %w", err)
		}
		ids = append(ids, id)
		span = widenSpan(span, storedFrom, storedTo)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return fmt.Errorf("could not read overlapping timeframes: %w", err)
	}

	if len(ids) > 0 {
		if _, err := tx.Exec(ctx, fmt.Sprintf(
			`DELETE FROM %s WHERE id = ANY($1)`, name), ids); err != nil {
			return fmt.Errorf("could not delete merged timeframes: %w", err)
		}
	}

	if _, err := tx.Exec(ctx, fmt.Sprintf(
		`INSERT INTO %s (identity, from_ts, to_ts) VALUES ($1, $2, $3)`, name),
		identity, span.FromTimestamp, span.ToTimestamp); err != nil {
		return fmt.Errorf("could not insert timeframe: %w", err)
	}

	return tx.Commit(ctx)
}

// widenSpan étend l'intervalle courant pour couvrir [storedFrom, storedTo]
func widenSpan(span model.Timeframe, storedFrom, storedTo int64) model.Timeframe {
	if storedFrom < span.FromTimestamp {
		span.FromTimestamp = storedFrom
	}
	if storedTo > span.ToTimestamp {
		span.ToTimestamp = storedTo
	}
	return span
}

// RowsInRange retourne les intervalles intersectant [from, to], triés par
// from croissant. Utilisé par le score de présence.
func (s *TimeframeStore) RowsInRange(ctx context.Context, table TimeframeTable, from, to int64) ([]model.Timeframe, error) {
	if !table.valid() {
		return nil, fmt.Errorf("invalid timeframe table %q", table)
	}

	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT identity, from_ts, to_ts FROM %s
		WHERE from_ts <= $1 AND to_ts >= $2
		ORDER BY from_ts ASC
	`, pq.QuoteIdentifier(string(table))), to, from)
	if err != nil {
		return nil, fmt.Errorf("could not query timeframes: %w", err)
	}
	defer rows.Close()

	var frames []model.Timeframe
	for rows.Next() {
		frame, err := scanner.ScanTimeframe(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan timeframe: %w", err)
		}
		frames = append(frames, *frame)
	}

	return frames, rows.Err()
}

// SumDuration cumule, par identité, le recouvrement en secondes de chaque
// intervalle avec [from, to], identités exclues retirées. La jointure sur
// verified_links ne sert qu'à l'affichage de l'identité liée.
func (s *TimeframeStore) SumDuration(ctx context.Context, table TimeframeTable, excludedIdentities []string, from, to int64) ([]model.DurationSum, error) {
	if !table.valid() {
		return nil, fmt.Errorf("invalid timeframe table %q", table)
	}

	if excludedIdentities == nil {
		excludedIdentities = []string{}
	}

	rows, err := s.db.Query(ctx, fmt.Sprintf(`
		SELECT t.identity, l.discord_id,
			SUM(LEAST(t.to_ts, $2) - GREATEST(t.from_ts, $1)) AS total_seconds
		FROM %s t
		LEFT JOIN verified_links l ON l.minecraft_id = t.identity
		WHERE t.from_ts <= $2 AND t.to_ts >= $1
			AND NOT (t.identity = ANY($3))
		GROUP BY t.identity, l.discord_id
		ORDER BY total_seconds DESC
	`, pq.QuoteIdentifier(string(table))), from, to, excludedIdentities)
	if err != nil {
		return nil, fmt.Errorf("could not sum durations: %w", err)
	}
	defer rows.Close()

	var sums []model.DurationSum
	for rows.Next() {
		sum, err := scanner.ScanDurationSum(rows)
		if err != nil {
			return nil, fmt.Errorf("could not scan duration sum: %w", err)
		}
		sums = append(sums, *sum)
	}

	return sums, rows.Err()
}

// DeleteEndedThrough supprime les intervalles dont to_ts est ≤ cutoff.
// Tourne dans la transaction fournie par le nettoyeur de rétention.
func (s *TimeframeStore) DeleteEndedThrough(ctx context.Context, q Querier, table TimeframeTable, cutoff int64) (int64, error) {
	if !table.valid() {
		return 0, fmt.Errorf("invalid timeframe table %q", table)
	}

	tag, err := q.Exec(ctx, fmt.Sprintf(
		`DELETE FROM %s WHERE to_ts <= $1`,
		pq.QuoteIdentifier(string(table))), cutoff)
	if err != nil {
		return 0, fmt.Errorf("could not delete expired timeframes: %w", err)
	}

	return tag.RowsAffected(), nil
}
