package retention

import (
	"context"
	"testing"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/store"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateNoPairsIsNoop(t *testing.T) {
	m := NewMigrator(nil, nil)

	changed, err := m.Migrate(context.Background(), 0, nil)

	require.NoError(t, err)
	assert.Zero(t, changed)
}

func TestMigrateRejectsInvalidPairs(t *testing.T) {
	m := NewMigrator(nil, nil)

	cases := []model.MigrationPair{
		{OldIdentifier: "", NewIdentifier: "uuid-1"},
		{OldIdentifier: "Steve", NewIdentifier: ""},
		{OldIdentifier: "Steve", NewIdentifier: "Steve"},
	}

	for _, pair := range cases {
		_, err := m.Migrate(context.Background(), 0, []model.MigrationPair{pair})
		assert.Error(t, err, "pair %q -> %q", pair.OldIdentifier, pair.NewIdentifier)
	}
}

func TestMigrateRewritesOnlyAfterCutoff(t *testing.T) {
	const cutoff int64 = 1_000_000

	db := testkit.NewMemoryDB()
	table := string(store.MessageCountersMinecraft)
	db.SeedCounter(table, "Steve", cutoff-60, 3)
	db.SeedCounter(table, "Steve", cutoff, 4)
	db.SeedCounter(table, "Steve", cutoff+60, 5)

	m := NewMigrator(db, store.NewCounterStore(db))

	changed, err := m.Migrate(context.Background(), cutoff, []model.MigrationPair{
		{OldIdentifier: "Steve", NewIdentifier: "uuid-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), changed)

	// Le pseudo a pu être réutilisé avant le cutoff: les buckets ≤ cutoff,
	// borne comprise, restent sous l'ancien identifiant
	assert.Equal(t, int64(3), db.CounterCount(table, "Steve", cutoff-60))
	assert.Equal(t, int64(4), db.CounterCount(table, "Steve", cutoff))
	assert.Equal(t, int64(0), db.CounterCount(table, "Steve", cutoff+60))
	assert.Equal(t, int64(5), db.CounterCount(table, "uuid-1", cutoff+60))
}

func TestMigrateMergesIntoExistingBuckets(t *testing.T) {
	db := testkit.NewMemoryDB()
	table := string(store.CommandCountersDiscord)
	db.SeedCounter(table, "Steve", 600, 3)
	db.SeedCounter(table, "uuid-1", 600, 2)

	before := db.CounterTotal(table, "Steve") + db.CounterTotal(table, "uuid-1")

	m := NewMigrator(db, store.NewCounterStore(db))

	_, err := m.Migrate(context.Background(), 0, []model.MigrationPair{
		{OldIdentifier: "Steve", NewIdentifier: "uuid-1"},
	})
	require.NoError(t, err)

	// Les totaux sont préservés, les counts du bucket commun fusionnent
	assert.Equal(t, int64(5), db.CounterCount(table, "uuid-1", 600))
	assert.Equal(t, int64(0), db.CounterTotal(table, "Steve"))
	assert.Equal(t, before, db.CounterTotal(table, "uuid-1"))
}

func TestMigrateSweepsAllCounterTables(t *testing.T) {
	db := testkit.NewMemoryDB()
	for _, table := range store.AllCounterTables {
		db.SeedCounter(string(table), "Steve", 600, 1)
	}

	m := NewMigrator(db, store.NewCounterStore(db))

	changed, err := m.Migrate(context.Background(), 0, []model.MigrationPair{
		{OldIdentifier: "Steve", NewIdentifier: "uuid-1"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(len(store.AllCounterTables)), changed)

	for _, table := range store.AllCounterTables {
		assert.Equal(t, int64(1), db.CounterTotal(string(table), "uuid-1"), string(table))
	}
}
