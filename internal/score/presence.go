package score

import (
	"cmp"
	"slices"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
)

// PresenceCooldown calcule les points de présence par identité. Chaque
// identité maintient un curseur `reached`: le prochain instant éligible à
// des points. Une identité continuellement en ligne gagne BaseScore une
// fois par Cooldown, quelle que soit la manière dont la session est
// découpée en intervalles observés qui se chevauchent.
//
// Un intervalle qui reprend moins d'un cooldown après le curseur ne
// rapporte rien (traité comme une continuation). Ce comportement peut
// sous-compter une session qui redémarre juste avant la fin du cooldown;
// il est conservé tel quel car le changer altérerait les totaux
// historiques.
func PresenceCooldown(frames []model.Timeframe, policy PresencePolicy, from, to int64) map[string]float64 {
	clamped := make([]model.Timeframe, 0, len(frames))
	for _, frame := range frames {
		if frame.ToTimestamp < from || frame.FromTimestamp > to {
			continue
		}
		if frame.FromTimestamp < from {
			frame.FromTimestamp = from
		}
		if frame.ToTimestamp > to {
			frame.ToTimestamp = to
		}
		clamped = append(clamped, frame)
	}

	slices.SortStableFunc(clamped, func(a, b model.Timeframe) int {
		return cmp.Compare(a.FromTimestamp, b.FromTimestamp)
	})

	reached := make(map[string]int64)
	points := make(map[string]float64)

	for _, frame := range clamped {
		cursor, seen := reached[frame.Identity]

		// Déjà entièrement couvert par un intervalle antérieur qui finit
		// plus tard (les sessions peuvent revenir hors ordre de couverture)
		if seen && frame.ToTimestamp < cursor {
			continue
		}

		if !seen {
			cursor = frame.FromTimestamp
		} else if cursor < frame.FromTimestamp {
			gap := frame.FromTimestamp - cursor
			if gap < policy.Cooldown {
				// Reprise dans le cooldown: continuation, pas de points
				continue
			}
			cursor += policy.Cooldown
		}

		for cursor <= frame.ToTimestamp {
			points[frame.Identity] += policy.BaseScore
			cursor += policy.Cooldown
		}
		reached[frame.Identity] = cursor
	}

	return points
}
