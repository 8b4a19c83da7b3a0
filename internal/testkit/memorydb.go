// Package testkit fournit un double en mémoire du sous-ensemble de Postgres
// utilisé par les stores, pour tester les chemins transactionnels
// (consolidation, rétention, migration) sans base réelle.
package testkit

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// CounterKey identifie une ligne de compteur (bucket, identité)
type CounterKey struct {
	Bucket   int64
	Identity string
}

// FrameRow est une ligne d'intervalle avec son id auto-incrémenté
type FrameRow struct {
	ID       int64
	Identity string
	From     int64
	To       int64
}

// MemoryDB implémente store.DB sur des maps. Les requêtes sont reconnues
// par des fragments de SQL propres à chaque méthode du store; une requête
// inconnue retourne une erreur plutôt qu'un résultat vide silencieux.
type MemoryDB struct {
	Counters   map[string]map[CounterKey]int64
	Timeframes map[string][]FrameRow
	nextID     int64
}

func NewMemoryDB() *MemoryDB {
	return &MemoryDB{
		Counters:   map[string]map[CounterKey]int64{},
		Timeframes: map[string][]FrameRow{},
	}
}

// SeedCounter pose directement une ligne de compteur
func (m *MemoryDB) SeedCounter(table, identity string, bucket, count int64) {
	if m.Counters[table] == nil {
		m.Counters[table] = map[CounterKey]int64{}
	}
	m.Counters[table][CounterKey{Bucket: bucket, Identity: identity}] = count
}

// CounterCount retourne le count d'une ligne, 0 si absente
func (m *MemoryDB) CounterCount(table, identity string, bucket int64) int64 {
	return m.Counters[table][CounterKey{Bucket: bucket, Identity: identity}]
}

// CounterTotal cumule les counts d'une identité sur tous ses buckets
func (m *MemoryDB) CounterTotal(table, identity string) int64 {
	var total int64
	for key, count := range m.Counters[table] {
		if key.Identity == identity {
			total += count
		}
	}
	return total
}

// SeedFrame pose directement un intervalle
func (m *MemoryDB) SeedFrame(table, identity string, from, to int64) {
	m.nextID++
	m.Timeframes[table] = append(m.Timeframes[table], FrameRow{
		ID: m.nextID, Identity: identity, From: from, To: to,
	})
}

// Frames retourne les intervalles d'une table triés par from croissant
func (m *MemoryDB) Frames(table string) []FrameRow {
	frames := append([]FrameRow(nil), m.Timeframes[table]...)
	sort.Slice(frames, func(i, j int) bool { return frames[i].From < frames[j].From })
	return frames
}

var tableNamePattern = regexp.MustCompile(`(?:FROM|INTO)\s+"?([a-z_]+)"?`)

func tableName(sql string) string {
	match := tableNamePattern.FindStringSubmatch(sql)
	if match == nil {
		return ""
	}
	return match[1]
}

func (m *MemoryDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return &memTx{db: m}, nil
}

func (m *MemoryDB) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	table := tableName(sql)

	switch {
	case strings.Contains(sql, "pg_advisory_xact_lock"):
		return pgconn.NewCommandTag("SELECT 1"), nil

	// Increment: upsert +1
	case strings.Contains(sql, "VALUES ($1, $2, 1)"):
		bucket := args[0].(int64)
		identity := args[1].(string)
		if m.Counters[table] == nil {
			m.Counters[table] = map[CounterKey]int64{}
		}
		m.Counters[table][CounterKey{Bucket: bucket, Identity: identity}]++
		return pgconn.NewCommandTag("INSERT 0 1"), nil

	// RewriteIdentity: copie fusionnante vers la nouvelle identité
	case strings.Contains(sql, "EXCLUDED.count"):
		newIdentifier := args[0].(string)
		oldIdentifier := args[1].(string)
		cutoff := args[2].(int64)
		if m.Counters[table] == nil {
			m.Counters[table] = map[CounterKey]int64{}
		}
		for key, count := range m.Counters[table] {
			if key.Identity == oldIdentifier && key.Bucket > cutoff {
				m.Counters[table][CounterKey{Bucket: key.Bucket, Identity: newIdentifier}] += count
			}
		}
		return pgconn.NewCommandTag("INSERT 0 0"), nil

	// ConsolidateAppend: insertion de l'intervalle fusionné
	case strings.Contains(sql, "(identity, from_ts, to_ts)"):
		m.SeedFrame(table, args[0].(string), args[1].(int64), args[2].(int64))
		return pgconn.NewCommandTag("INSERT 0 1"), nil

	// ConsolidateAppend: suppression des intervalles absorbés
	case strings.Contains(sql, "WHERE id = ANY($1)"):
		ids := map[int64]bool{}
		for _, id := range args[0].([]int64) {
			ids[id] = true
		}
		var kept []FrameRow
		var removed int64
		for _, frame := range m.Timeframes[table] {
			if ids[frame.ID] {
				removed++
				continue
			}
			kept = append(kept, frame)
		}
		m.Timeframes[table] = kept
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", removed)), nil

	// Rétention compteurs
	case strings.Contains(sql, "WHERE bucket_ts <= $1"):
		cutoff := args[0].(int64)
		var removed int64
		for key := range m.Counters[table] {
			if key.Bucket <= cutoff {
				delete(m.Counters[table], key)
				removed++
			}
		}
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", removed)), nil

	// Rétention intervalles
	case strings.Contains(sql, "WHERE to_ts <= $1"):
		cutoff := args[0].(int64)
		var kept []FrameRow
		var removed int64
		for _, frame := range m.Timeframes[table] {
			if frame.To <= cutoff {
				removed++
				continue
			}
			kept = append(kept, frame)
		}
		m.Timeframes[table] = kept
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", removed)), nil

	// Migration: suppression des lignes de l'ancienne identité
	case strings.Contains(sql, "WHERE identity = $1 AND bucket_ts > $2"):
		oldIdentifier := args[0].(string)
		cutoff := args[1].(int64)
		var removed int64
		for key := range m.Counters[table] {
			if key.Identity == oldIdentifier && key.Bucket > cutoff {
				delete(m.Counters[table], key)
				removed++
			}
		}
		return pgconn.NewCommandTag(fmt.Sprintf("DELETE %d", removed)), nil
	}

	return pgconn.CommandTag{}, fmt.Errorf("testkit: unrecognized exec: %s", sql)
}

func (m *MemoryDB) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	table := tableName(sql)

	switch {
	// ConsolidateAppend: intervalles en chevauchement ou dans la tolérance
	case strings.Contains(sql, "SELECT id, from_ts, to_ts"):
		identity := args[0].(string)
		upper := args[1].(int64)
		lower := args[2].(int64)
		var rows [][]any
		for _, frame := range m.Frames(table) {
			if frame.Identity == identity && frame.From <= upper && frame.To >= lower {
				rows = append(rows, []any{frame.ID, frame.From, frame.To})
			}
		}
		return &sliceRows{rows: rows}, nil

	// TimeframeStore.RowsInRange
	case strings.Contains(sql, "SELECT identity, from_ts, to_ts"):
		upper := args[0].(int64)
		lower := args[1].(int64)
		var rows [][]any
		for _, frame := range m.Frames(table) {
			if frame.From <= upper && frame.To >= lower {
				rows = append(rows, []any{frame.Identity, frame.From, frame.To})
			}
		}
		return &sliceRows{rows: rows}, nil

	// CounterStore.RowsInRange
	case strings.Contains(sql, "SELECT bucket_ts, identity, count"):
		from := args[0].(int64)
		to := args[1].(int64)
		var keys []CounterKey
		for key := range m.Counters[table] {
			if key.Bucket >= from && key.Bucket <= to {
				keys = append(keys, key)
			}
		}
		sort.Slice(keys, func(i, j int) bool {
			if keys[i].Bucket != keys[j].Bucket {
				return keys[i].Bucket < keys[j].Bucket
			}
			return keys[i].Identity < keys[j].Identity
		})
		var rows [][]any
		for _, key := range keys {
			rows = append(rows, []any{key.Bucket, key.Identity, int(m.Counters[table][key])})
		}
		return &sliceRows{rows: rows}, nil

	// CounterStore.SumInRange
	case strings.Contains(sql, "SUM(count) AS total"):
		from := args[0].(int64)
		to := args[1].(int64)
		var allowed map[string]bool
		if len(args) > 2 {
			allowed = map[string]bool{}
			for _, identity := range args[2].([]string) {
				allowed[identity] = true
			}
		}
		totals := map[string]int64{}
		for key, count := range m.Counters[table] {
			if key.Bucket < from || key.Bucket > to {
				continue
			}
			if allowed != nil && !allowed[key.Identity] {
				continue
			}
			totals[key.Identity] += count
		}
		identities := make([]string, 0, len(totals))
		for identity := range totals {
			identities = append(identities, identity)
		}
		sort.Slice(identities, func(i, j int) bool {
			if totals[identities[i]] != totals[identities[j]] {
				return totals[identities[i]] > totals[identities[j]]
			}
			return identities[i] < identities[j]
		})
		var rows [][]any
		for _, identity := range identities {
			rows = append(rows, []any{identity, totals[identity]})
		}
		return &sliceRows{rows: rows}, nil
	}

	return nil, fmt.Errorf("testkit: unrecognized query: %s", sql)
}

func (m *MemoryDB) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return errRow{err: fmt.Errorf("testkit: unrecognized query row: %s", sql)}
}
