package score

import (
	"cmp"
	"math"
	"slices"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
)

type unitEvent struct {
	timestamp int64
	identity  string
}

// DecayingCounts calcule les points par identité à partir de lignes de
// compteur brutes. Une ligne avec count = N est traitée comme N événements
// unitaires au timestamp de son bucket. Les événements sont rejoués
// globalement par timestamp croissant; chaque événement rapporte
// max(1, BaseScore / taille de l'historique glissant), ce qui récompense
// l'activité étalée plutôt que les rafales.
func DecayingCounts(rows []model.CounterRow, policy DecayPolicy) map[string]float64 {
	events := make([]unitEvent, 0, len(rows))
	for _, row := range rows {
		for i := 0; i < row.Count; i++ {
			events = append(events, unitEvent{timestamp: row.BucketTimestamp, identity: row.Identity})
		}
	}

	slices.SortStableFunc(events, func(a, b unitEvent) int {
		return cmp.Compare(a.timestamp, b.timestamp)
	})

	history := make(map[string][]int64)
	points := make(map[string]float64)

	for _, event := range events {
		recent := history[event.identity]

		// Retire les entrées plus vieilles que la fenêtre glissante
		cut := 0
		for cut < len(recent) && event.timestamp-recent[cut] > policy.HistoryWindow {
			cut++
		}
		recent = append(recent[cut:], event.timestamp)
		history[event.identity] = recent

		increment := policy.BaseScore / float64(len(recent))
		if increment < 1 {
			increment = 1
		}
		points[event.identity] += increment
	}

	return points
}

// FloorTotals arrondit chaque total par catégorie vers le bas, en place.
// Le plancher s'applique au total final, pas aux incréments intermédiaires.
func FloorTotals(points map[string]float64) map[string]float64 {
	for identity, total := range points {
		points[identity] = math.Floor(total)
	}
	return points
}
