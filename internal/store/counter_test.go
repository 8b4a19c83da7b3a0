package store

import (
	"context"
	"testing"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIncrementUpsertsSameBucket(t *testing.T) {
	db := testkit.NewMemoryDB()
	counters := NewCounterStore(db)
	ctx := context.Background()

	// Deux événements dans la même minute s'additionnent sur une seule ligne
	require.NoError(t, counters.Increment(ctx, MessageCountersMinecraft, "steve", 125))
	require.NoError(t, counters.Increment(ctx, MessageCountersMinecraft, "steve", 179))

	assert.Equal(t, int64(2), db.CounterCount(string(MessageCountersMinecraft), "steve", 120))
}

func TestIncrementSeparatesBuckets(t *testing.T) {
	db := testkit.NewMemoryDB()
	counters := NewCounterStore(db)
	ctx := context.Background()

	require.NoError(t, counters.Increment(ctx, MessageCountersMinecraft, "steve", 119))
	require.NoError(t, counters.Increment(ctx, MessageCountersMinecraft, "steve", 120))

	assert.Equal(t, int64(1), db.CounterCount(string(MessageCountersMinecraft), "steve", 60))
	assert.Equal(t, int64(1), db.CounterCount(string(MessageCountersMinecraft), "steve", 120))
}

func TestIncrementRejectsUnknownTable(t *testing.T) {
	counters := NewCounterStore(testkit.NewMemoryDB())

	err := counters.Increment(context.Background(), CounterTable("players; DROP"), "steve", 125)
	assert.Error(t, err)
}

func TestSumInRangeAggregatesPerIdentity(t *testing.T) {
	db := testkit.NewMemoryDB()
	counters := NewCounterStore(db)

	db.SeedCounter(string(MessageCountersDiscord), "steve", 60, 3)
	db.SeedCounter(string(MessageCountersDiscord), "steve", 120, 2)
	db.SeedCounter(string(MessageCountersDiscord), "alex", 60, 4)
	db.SeedCounter(string(MessageCountersDiscord), "steve", 600, 9) // hors plage

	sums, err := counters.SumInRange(context.Background(), MessageCountersDiscord, nil, 60, 180)
	require.NoError(t, err)
	require.Len(t, sums, 2)

	// Trié par total décroissant
	assert.Equal(t, "steve", sums[0].Identity)
	assert.Equal(t, int64(5), sums[0].TotalCount)
	assert.Equal(t, "alex", sums[1].Identity)
	assert.Equal(t, int64(4), sums[1].TotalCount)
}

func TestSumInRangeFiltersIdentities(t *testing.T) {
	db := testkit.NewMemoryDB()
	counters := NewCounterStore(db)

	db.SeedCounter(string(MessageCountersDiscord), "steve", 60, 3)
	db.SeedCounter(string(MessageCountersDiscord), "alex", 60, 4)

	sums, err := counters.SumInRange(context.Background(), MessageCountersDiscord, []string{"alex"}, 60, 180)
	require.NoError(t, err)
	require.Len(t, sums, 1)
	assert.Equal(t, "alex", sums[0].Identity)
}

func TestCounterRowsInRangeOrdersByBucket(t *testing.T) {
	db := testkit.NewMemoryDB()
	counters := NewCounterStore(db)

	db.SeedCounter(string(CommandCountersMinecraft), "steve", 300, 1)
	db.SeedCounter(string(CommandCountersMinecraft), "steve", 60, 2)

	rows, err := counters.RowsInRange(context.Background(), CommandCountersMinecraft, 0, 600)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, int64(60), rows[0].BucketTimestamp)
	assert.Equal(t, int64(300), rows[1].BucketTimestamp)
}
