package store

import (
	"context"
	"testing"

	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/testkit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConsolidateAppendIdempotent(t *testing.T) {
	db := testkit.NewMemoryDB()
	timeframes := NewTimeframeStore(db)
	ctx := context.Background()

	// Le même snapshot rejoué ne doit pas créer de deuxième ligne
	require.NoError(t, timeframes.ConsolidateAppend(ctx, OnlineMembers, "steve", 1000, 1060, 30))
	require.NoError(t, timeframes.ConsolidateAppend(ctx, OnlineMembers, "steve", 1000, 1060, 30))

	frames := db.Frames(string(OnlineMembers))
	require.Len(t, frames, 1)
	assert.Equal(t, int64(1000), frames[0].From)
	assert.Equal(t, int64(1060), frames[0].To)
}

func TestConsolidateAppendMergesWithinLeniency(t *testing.T) {
	db := testkit.NewMemoryDB()
	timeframes := NewTimeframeStore(db)
	ctx := context.Background()

	require.NoError(t, timeframes.ConsolidateAppend(ctx, OnlineMembers, "steve", 1000, 1060, 30))
	// Écart de 30s exactement: la borne est dans la tolérance, fusion
	require.NoError(t, timeframes.ConsolidateAppend(ctx, OnlineMembers, "steve", 1090, 1150, 30))

	frames := db.Frames(string(OnlineMembers))
	require.Len(t, frames, 1)
	assert.Equal(t, int64(1000), frames[0].From)
	assert.Equal(t, int64(1150), frames[0].To)
}

func TestConsolidateAppendKeepsDistinctSessions(t *testing.T) {
	db := testkit.NewMemoryDB()
	timeframes := NewTimeframeStore(db)
	ctx := context.Background()

	require.NoError(t, timeframes.ConsolidateAppend(ctx, OnlineMembers, "steve", 1000, 1060, 30))
	// Écart de 31s: hors tolérance, nouvelle session
	require.NoError(t, timeframes.ConsolidateAppend(ctx, OnlineMembers, "steve", 1091, 1150, 30))

	frames := db.Frames(string(OnlineMembers))
	require.Len(t, frames, 2)
	assert.Equal(t, int64(1060), frames[0].To)
	assert.Equal(t, int64(1091), frames[1].From)
}

func TestConsolidateAppendAbsorbsSeveralRows(t *testing.T) {
	db := testkit.NewMemoryDB()
	timeframes := NewTimeframeStore(db)
	ctx := context.Background()

	require.NoError(t, timeframes.ConsolidateAppend(ctx, AllMembers, "steve", 1000, 1100, 0))
	require.NoError(t, timeframes.ConsolidateAppend(ctx, AllMembers, "steve", 1300, 1400, 0))

	// Couvre le trou entre les deux: tout fusionne en une seule ligne
	require.NoError(t, timeframes.ConsolidateAppend(ctx, AllMembers, "steve", 1050, 1350, 0))

	frames := db.Frames(string(AllMembers))
	require.Len(t, frames, 1)
	assert.Equal(t, int64(1000), frames[0].From)
	assert.Equal(t, int64(1400), frames[0].To)
}

func TestConsolidateAppendDoesNotCrossIdentities(t *testing.T) {
	db := testkit.NewMemoryDB()
	timeframes := NewTimeframeStore(db)
	ctx := context.Background()

	require.NoError(t, timeframes.ConsolidateAppend(ctx, OnlineMembers, "steve", 1000, 1060, 30))
	require.NoError(t, timeframes.ConsolidateAppend(ctx, OnlineMembers, "alex", 1010, 1070, 30))

	frames := db.Frames(string(OnlineMembers))
	require.Len(t, frames, 2)
}

func TestConsolidateAppendRejectsInvertedBounds(t *testing.T) {
	timeframes := NewTimeframeStore(testkit.NewMemoryDB())

	err := timeframes.ConsolidateAppend(context.Background(), OnlineMembers, "steve", 200, 100, 30)
	assert.Error(t, err)
}

func TestTimeframeRowsInRange(t *testing.T) {
	db := testkit.NewMemoryDB()
	timeframes := NewTimeframeStore(db)

	db.SeedFrame(string(OnlineMembers), "steve", 1000, 1100)
	db.SeedFrame(string(OnlineMembers), "alex", 2000, 2100)

	frames, err := timeframes.RowsInRange(context.Background(), OnlineMembers, 900, 1500)
	require.NoError(t, err)
	require.Len(t, frames, 1)
	assert.Equal(t, "steve", frames[0].Identity)
}
