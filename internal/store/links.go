package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
)

// LinkStore lit les liens vérifiés minecraft ↔ discord. Le workflow de
// vérification appartient à un autre sous-système; lecture seule ici.
type LinkStore struct {
	db Querier
}

func NewLinkStore(db Querier) *LinkStore {
	return &LinkStore{db: db}
}

// LookupByMinecraft retourne l'identité discord liée, ou nil sans lien.
// L'absence de lien n'est pas une erreur.
func (s *LinkStore) LookupByMinecraft(ctx context.Context, minecraftID string) (*string, error) {
	var discordID string
	err := s.db.QueryRow(ctx,
		`SELECT discord_id FROM verified_links WHERE minecraft_id = $1`,
		minecraftID,
	).Scan(&discordID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not look up link by minecraft id: %w", err)
	}
	return &discordID, nil
}

// LookupByDiscord retourne l'identité minecraft liée, ou nil sans lien
func (s *LinkStore) LookupByDiscord(ctx context.Context, discordID string) (*string, error) {
	var minecraftID string
	err := s.db.QueryRow(ctx,
		`SELECT minecraft_id FROM verified_links WHERE discord_id = $1`,
		discordID,
	).Scan(&minecraftID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("could not look up link by discord id: %w", err)
	}
	return &minecraftID, nil
}
