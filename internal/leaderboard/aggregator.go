package leaderboard

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	model "github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/models"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/score"
	"github.com/beenycool/hypixel-guild-discord-bridge-sub000/internal/store"
)

// CounterSource fournit les lignes de compteur brutes
type CounterSource interface {
	RowsInRange(ctx context.Context, table store.CounterTable, from, to int64) ([]model.CounterRow, error)
}

// TimeframeSource fournit les intervalles de présence/adhésion
type TimeframeSource interface {
	RowsInRange(ctx context.Context, table store.TimeframeTable, from, to int64) ([]model.Timeframe, error)
	SumDuration(ctx context.Context, table store.TimeframeTable, excludedIdentities []string, from, to int64) ([]model.DurationSum, error)
}

// Linker résout les liens vérifiés entre comptes (nil = pas de lien)
type Linker interface {
	LookupByMinecraft(ctx context.Context, minecraftID string) (*string, error)
	LookupByDiscord(ctx context.Context, discordID string) (*string, error)
}

// BotRegistry liste les comptes d'automatisation connus
type BotRegistry interface {
	ListKnownAutomationIdentities(ctx context.Context) (map[string]struct{}, error)
}

// Aggregator fusionne les scores messages + commandes + présence par
// identité primaire et sert les classements depuis un cache court
type Aggregator struct {
	counters   CounterSource
	timeframes TimeframeSource
	links      Linker
	bots       BotRegistry

	now   func() time.Time
	cache *snapshotCache
}

func NewAggregator(counters CounterSource, timeframes TimeframeSource, links Linker, bots BotRegistry) *Aggregator {
	return &Aggregator{
		counters:   counters,
		timeframes: timeframes,
		links:      links,
		bots:       bots,
		now:        time.Now,
		cache:      newSnapshotCache(),
	}
}

// GetPoints calcule les trois catégories de score sur [from, to] et les
// replie par identité primaire. Les scores d'une identité discord liée sont
// repliés dans son identité minecraft; sans lien, l'identité discord reste
// sa propre entrée. Les comptes bots sont exclus.
func (a *Aggregator) GetPoints(ctx context.Context, from, to int64) (map[string]*model.PointsBreakdown, error) {
	chat, discordSeen, err := a.decayedCategory(ctx, from, to,
		store.MessageCountersDiscord, store.MessageCountersMinecraft, score.MessagePolicy)
	if err != nil {
		return nil, fmt.Errorf("could not compute chat points: %w", err)
	}

	commands, discordSeenCmd, err := a.decayedCategory(ctx, from, to,
		store.CommandCountersDiscord, store.CommandCountersMinecraft, score.CommandPolicy)
	if err != nil {
		return nil, fmt.Errorf("could not compute command points: %w", err)
	}
	for identity := range discordSeenCmd {
		discordSeen[identity] = struct{}{}
	}

	frames, err := a.timeframes.RowsInRange(ctx, store.OnlineMembers, from, to)
	if err != nil {
		return nil, fmt.Errorf("could not load online timeframes: %w", err)
	}
	online := score.FloorTotals(score.PresenceCooldown(frames, score.OnlinePolicy, from, to))

	bots, err := a.bots.ListKnownAutomationIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list bot accounts: %w", err)
	}

	combined := make(map[string]*model.PointsBreakdown)

	fold := func(category map[string]float64, add func(entry *model.PointsBreakdown, value float64)) error {
		for identity, value := range category {
			primary, linked, err := a.resolvePrimary(ctx, identity, discordSeen)
			if err != nil {
				return err
			}
			if _, isBot := bots[primary]; isBot {
				continue
			}
			if _, isBot := bots[identity]; isBot {
				continue
			}

			entry, ok := combined[primary]
			if !ok {
				entry = &model.PointsBreakdown{Identity: primary}
				combined[primary] = entry
			}
			if entry.LinkedIdentity == nil && linked != nil {
				entry.LinkedIdentity = linked
			}
			add(entry, value)
			entry.Total += value
		}
		return nil
	}

	if err := fold(chat, func(e *model.PointsBreakdown, v float64) { e.Chat += v }); err != nil {
		return nil, err
	}
	if err := fold(commands, func(e *model.PointsBreakdown, v float64) { e.Commands += v }); err != nil {
		return nil, err
	}
	if err := fold(online, func(e *model.PointsBreakdown, v float64) { e.Online += v }); err != nil {
		return nil, err
	}

	return combined, nil
}

// decayedCategory calcule un score à décroissance sur les deux tables d'une
// catégorie et mémorise quelles identités viennent de la table discord
func (a *Aggregator) decayedCategory(ctx context.Context, from, to int64, discordTable, minecraftTable store.CounterTable, policy score.DecayPolicy) (map[string]float64, map[string]struct{}, error) {
	discordRows, err := a.counters.RowsInRange(ctx, discordTable, from, to)
	if err != nil {
		return nil, nil, err
	}
	minecraftRows, err := a.counters.RowsInRange(ctx, minecraftTable, from, to)
	if err != nil {
		return nil, nil, err
	}

	discordSeen := make(map[string]struct{}, len(discordRows))
	for _, row := range discordRows {
		discordSeen[row.Identity] = struct{}{}
	}

	rows := append(discordRows, minecraftRows...)
	points := score.FloorTotals(score.DecayingCounts(rows, policy))

	return points, discordSeen, nil
}

// resolvePrimary replie une identité discord liée sur son identité
// minecraft; sinon l'identité reste primaire et on attache son lien éventuel
func (a *Aggregator) resolvePrimary(ctx context.Context, identity string, discordSeen map[string]struct{}) (primary string, linked *string, err error) {
	if _, isDiscord := discordSeen[identity]; isDiscord {
		minecraftID, err := a.links.LookupByDiscord(ctx, identity)
		if err != nil {
			return "", nil, fmt.Errorf("could not resolve link for %q: %w", identity, err)
		}
		if minecraftID != nil {
			return *minecraftID, &identity, nil
		}
		return identity, nil, nil
	}

	discordID, err := a.links.LookupByMinecraft(ctx, identity)
	if err != nil {
		return "", nil, fmt.Errorf("could not resolve link for %q: %w", identity, err)
	}
	return identity, discordID, nil
}

// GetDuration classe les identités par durée cumulée sur [from, to] dans la
// table demandée, bots exclus
func (a *Aggregator) GetDuration(ctx context.Context, table store.TimeframeTable, from, to int64) ([]model.DurationEntry, error) {
	bots, err := a.bots.ListKnownAutomationIdentities(ctx)
	if err != nil {
		return nil, fmt.Errorf("could not list bot accounts: %w", err)
	}

	excluded := make([]string, 0, len(bots))
	for identity := range bots {
		excluded = append(excluded, identity)
	}
	slices.Sort(excluded)

	sums, err := a.timeframes.SumDuration(ctx, table, excluded, from, to)
	if err != nil {
		return nil, fmt.Errorf("could not sum durations: %w", err)
	}

	entries := make([]model.DurationEntry, 0, len(sums))
	for i, sum := range sums {
		entries = append(entries, model.DurationEntry{
			Rank:           i + 1,
			Identity:       sum.Identity,
			LinkedIdentity: sum.LinkedIdentity,
			TotalSeconds:   sum.TotalSeconds,
		})
	}

	return entries, nil
}

// rankedEntries transforme le mapping de points en liste triée par total
// décroissant. Le pré-tri des clés rend l'ordre déterministe; les égalités
// ne sont pas départagées au-delà (tri stable).
func rankedEntries(points map[string]*model.PointsBreakdown) []model.LeaderboardEntry {
	identities := make([]string, 0, len(points))
	for identity := range points {
		identities = append(identities, identity)
	}
	slices.Sort(identities)

	entries := make([]model.LeaderboardEntry, 0, len(identities))
	for _, identity := range identities {
		b := points[identity]
		entries = append(entries, model.LeaderboardEntry{
			Identity:       b.Identity,
			LinkedIdentity: b.LinkedIdentity,
			Total:          b.Total,
			Chat:           b.Chat,
			Commands:       b.Commands,
			Online:         b.Online,
		})
	}

	slices.SortStableFunc(entries, func(a, b model.LeaderboardEntry) int {
		return cmp.Compare(b.Total, a.Total)
	})

	for i := range entries {
		entries[i].Rank = i + 1
	}

	return entries
}
