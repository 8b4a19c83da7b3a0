package score

// DecayPolicy paramètre le score à rendements décroissants: la première
// action d'une fenêtre glissante vaut BaseScore, la N-ième vaut BaseScore/N
// avec un plancher de 1 point.
type DecayPolicy struct {
	BaseScore     float64
	HistoryWindow int64 // secondes
}

// PresencePolicy paramètre le score de présence: BaseScore gagné une fois
// par période de Cooldown tant que l'identité reste en ligne.
type PresencePolicy struct {
	BaseScore float64
	Cooldown  int64 // secondes
}

var (
	// MessagePolicy: un message vaut jusqu'à 30 points, fenêtre de 3 minutes
	MessagePolicy = DecayPolicy{BaseScore: 30, HistoryWindow: 3 * 60}

	// CommandPolicy: une commande vaut jusqu'à 15 points, fenêtre de 5 minutes
	CommandPolicy = DecayPolicy{BaseScore: 15, HistoryWindow: 5 * 60}

	// OnlinePolicy: 15 points par quart d'heure de présence continue
	OnlinePolicy = PresencePolicy{BaseScore: 15, Cooldown: 15 * 60}
)
