package score

import (
	"testing"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecayingCountsSpreadMessages(t *testing.T) {
	// Trois messages à t=0, 60, 90 dans une fenêtre de 180s:
	// 30/1 + 30/2 + 30/3 = 55 exactement
	rows := []model.CounterRow{
		{BucketTimestamp: 0, Identity: "Steve", Count: 1},
		{BucketTimestamp: 60, Identity: "Steve", Count: 1},
		{BucketTimestamp: 90, Identity: "Steve", Count: 1},
	}

	points := DecayingCounts(rows, MessagePolicy)

	require.Len(t, points, 1)
	assert.Equal(t, 30.0+15.0+10.0, points["Steve"])
}

func TestDecayingCountsMonotoneIncrements(t *testing.T) {
	policy := DecayPolicy{BaseScore: 30, HistoryWindow: 3600}

	var rows []model.CounterRow
	total := 0.0
	previous := policy.BaseScore + 1
	for i := int64(0); i < 60; i++ {
		rows = append(rows, model.CounterRow{BucketTimestamp: i * 60, Identity: "Alex", Count: 1})

		points := DecayingCounts(rows, policy)
		increment := points["Alex"] - total
		total = points["Alex"]

		// Tolérance flottante: l'incrément est reconstruit par soustraction
		// sur un cumul float64, le bruit d'arrondi ne doit pas compter
		assert.LessOrEqual(t, increment, previous+1e-9, "increment %d should not grow", i)
		assert.GreaterOrEqual(t, increment, 1.0-1e-9, "increment %d should never drop below 1", i)
		previous = increment
	}
}

func TestDecayingCountsFloorOfOne(t *testing.T) {
	// 60 événements dans le même bucket: à partir du 31e, 30/N < 1 et le
	// plancher de 1 point par action s'applique
	rows := []model.CounterRow{{BucketTimestamp: 0, Identity: "Steve", Count: 60}}

	points := DecayingCounts(rows, DecayPolicy{BaseScore: 30, HistoryWindow: 180})

	// somme(30/n, n=1..30) + 30*1
	expected := 0.0
	for n := 1; n <= 30; n++ {
		expected += 30.0 / float64(n)
	}
	expected += 30.0

	assert.InEpsilon(t, expected, points["Steve"], 1e-9)
}

func TestDecayingCountsWindowExpiry(t *testing.T) {
	// Deux messages séparés de plus que la fenêtre: chacun vaut le score
	// de base entier
	rows := []model.CounterRow{
		{BucketTimestamp: 0, Identity: "Steve", Count: 1},
		{BucketTimestamp: 600, Identity: "Steve", Count: 1},
	}

	points := DecayingCounts(rows, MessagePolicy)

	assert.Equal(t, 60.0, points["Steve"])
}

func TestDecayingCountsIdentitiesIndependent(t *testing.T) {
	rows := []model.CounterRow{
		{BucketTimestamp: 0, Identity: "Steve", Count: 1},
		{BucketTimestamp: 0, Identity: "Alex", Count: 1},
	}

	points := DecayingCounts(rows, MessagePolicy)

	assert.Equal(t, 30.0, points["Steve"])
	assert.Equal(t, 30.0, points["Alex"])
}

func TestDecayingCountsCommandPolicy(t *testing.T) {
	rows := []model.CounterRow{
		{BucketTimestamp: 0, Identity: "Steve", Count: 2},
	}

	points := DecayingCounts(rows, CommandPolicy)

	assert.Equal(t, 15.0+7.5, points["Steve"])
}

func TestFloorTotals(t *testing.T) {
	points := map[string]float64{"Steve": 55.83, "Alex": 12.0}

	FloorTotals(points)

	assert.Equal(t, 55.0, points["Steve"])
	assert.Equal(t, 12.0, points["Alex"])
}
