package model

// PointsBreakdown détaille les points d'une identité par catégorie
type PointsBreakdown struct {
	Identity       string  `json:"identity"`
	LinkedIdentity *string `json:"linkedIdentity,omitempty"`
	Total          float64 `json:"total"`
	Chat           float64 `json:"chat"`
	Commands       float64 `json:"commands"`
	Online         float64 `json:"online"`
}

type LeaderboardEntry struct {
	Rank           int     `json:"rank"`
	Identity       string  `json:"identity"`
	LinkedIdentity *string `json:"linkedIdentity,omitempty"`
	Total          float64 `json:"total"`
	Chat           float64 `json:"chat"`
	Commands       float64 `json:"commands"`
	Online         float64 `json:"online"`
}

type DurationEntry struct {
	Rank           int     `json:"rank"`
	Identity       string  `json:"identity"`
	LinkedIdentity *string `json:"linkedIdentity,omitempty"`
	TotalSeconds   int64   `json:"totalSeconds"`
}

// Leaderboard est le snapshot complet servi depuis le cache
type Leaderboard struct {
	Window     string             `json:"window"` // 30days, alltime
	ComputedAt int64              `json:"computedAt"`
	Entries    []LeaderboardEntry `json:"entries"`
}
