package model

// CounterRow est une ligne brute d'un compteur d'activité (bucket d'une minute)
type CounterRow struct {
	BucketTimestamp int64  `json:"bucketTimestamp"`
	Identity        string `json:"identity"`
	Count           int    `json:"count"`
}

// CounterSum est le total agrégé d'une identité sur une plage de buckets
type CounterSum struct {
	Identity   string `json:"identity"`
	TotalCount int64  `json:"totalCount"`
}

// Timeframe est un intervalle inclusif [from, to] pendant lequel une identité
// était membre ou en ligne
type Timeframe struct {
	Identity      string `json:"identity"`
	FromTimestamp int64  `json:"fromTimestamp"`
	ToTimestamp   int64  `json:"toTimestamp"`
}

// DurationSum est la durée cumulée d'une identité sur une plage, avec
// l'identité liée (si un lien vérifié existe) pour l'affichage
type DurationSum struct {
	Identity       string  `json:"identity"`
	LinkedIdentity *string `json:"linkedIdentity,omitempty"`
	TotalSeconds   int64   `json:"totalSeconds"`
}

// MigrationPair associe un ancien identifiant lisible à son identifiant canonique
type MigrationPair struct {
	OldIdentifier string `json:"old"`
	NewIdentifier string `json:"new"`
}
