package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNoRowsAffected signale un upsert qui n'a ni inséré ni mis à jour.
// C'est une violation d'invariant du store, pas une condition métier.
var ErrNoRowsAffected = errors.New("store: write affected no rows")

// Querier est satisfait par *pgxpool.Pool et par pgx.Tx, ce qui permet aux
// méthodes du store de tourner hors ou dans une transaction
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB ajoute l'ouverture de transaction au Querier. Satisfait par
// *pgxpool.Pool; les composants transactionnels (consolidation, rétention,
// migration) le prennent en dépendance plutôt que le pool concret
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// BucketSeconds est la taille fixe d'un bucket de compteur (une minute)
const BucketSeconds int64 = 60

// FloorBucket arrondit un timestamp au début de son bucket
func FloorBucket(ts int64) int64 {
	return ts - ts%BucketSeconds
}

// CounterTable identifie une table de compteurs (une par plateforme)
type CounterTable string

const (
	MessageCountersDiscord   CounterTable = "message_counters_discord"
	MessageCountersMinecraft CounterTable = "message_counters_minecraft"
	CommandCountersDiscord   CounterTable = "command_counters_discord"
	CommandCountersMinecraft CounterTable = "command_counters_minecraft"
)

// AllCounterTables liste les tables balayées par la rétention et la migration
var AllCounterTables = []CounterTable{
	MessageCountersDiscord,
	MessageCountersMinecraft,
	CommandCountersDiscord,
	CommandCountersMinecraft,
}

func (t CounterTable) valid() bool {
	switch t {
	case MessageCountersDiscord, MessageCountersMinecraft,
		CommandCountersDiscord, CommandCountersMinecraft:
		return true
	}
	return false
}

// MessageTableFor retourne la table de compteurs de messages d'une plateforme
func MessageTableFor(platform string) (CounterTable, error) {
	switch platform {
	case "discord":
		return MessageCountersDiscord, nil
	case "minecraft":
		return MessageCountersMinecraft, nil
	}
	return "", fmt.Errorf("unknown platform %q", platform)
}

// CommandTableFor retourne la table de compteurs de commandes d'une plateforme
func CommandTableFor(platform string) (CounterTable, error) {
	switch platform {
	case "discord":
		return CommandCountersDiscord, nil
	case "minecraft":
		return CommandCountersMinecraft, nil
	}
	return "", fmt.Errorf("unknown platform %q", platform)
}

// TimeframeTable identifie une table d'intervalles
type TimeframeTable string

const (
	AllMembers    TimeframeTable = "all_members"
	OnlineMembers TimeframeTable = "online_members"
)

var AllTimeframeTables = []TimeframeTable{AllMembers, OnlineMembers}

func (t TimeframeTable) valid() bool {
	return t == AllMembers || t == OnlineMembers
}
