package store

import (
	"context"
	"fmt"
)

// BotStore lit le registre des comptes d'automatisation connus, exclus des
// classements. Le registre appartient à la couche modération; lecture seule.
type BotStore struct {
	db Querier
}

func NewBotStore(db Querier) *BotStore {
	return &BotStore{db: db}
}

func (s *BotStore) ListKnownAutomationIdentities(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.db.Query(ctx, `SELECT identity FROM bot_accounts`)
	if err != nil {
		return nil, fmt.Errorf("could not list bot accounts: %w", err)
	}
	defer rows.Close()

	bots := make(map[string]struct{})
	for rows.Next() {
		var identity string
		if err := rows.Scan(&identity); err != nil {
			return nil, fmt.Errorf("could not scan bot account: %w", err)
		}
		bots[identity] = struct{}{}
	}

	return bots, rows.Err()
}
