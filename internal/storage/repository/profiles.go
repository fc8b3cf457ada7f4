package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/tradebio/profile-hub/internal/models"
)

// SaveProfile создаёт или обновляет публичный документ страницы аккаунта.
// Ссылки хранятся единым JSONB-полем: их состав задаёт владелец.
func (s *Storage) SaveProfile(ctx context.Context, p models.Profile) error {
	const op = "repository.SaveProfile"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	links, err := json.Marshal(p.Links)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	query := `INSERT INTO profiles (account_uid, display_name, headline, phone, links, updated_at)
			  VALUES ($1, $2, $3, $4, $5, now())
			  ON CONFLICT (account_uid) DO UPDATE SET
			      display_name = EXCLUDED.display_name,
			      headline = EXCLUDED.headline,
			      phone = EXCLUDED.phone,
			      links = EXCLUDED.links,
			      updated_at = now()`
	if _, err := s.DB.ExecContext(ctx, query,
		p.AccountUID, p.DisplayName, p.Headline, p.Phone, links); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetProfileByAccount возвращает документ страницы по UID аккаунта.
func (s *Storage) GetProfileByAccount(ctx context.Context, accountUID string) (*models.Profile, error) {
	const op = "repository.GetProfileByAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT p.account_uid, a.slug, p.display_name, p.headline, p.phone, p.links, p.updated_at
			  FROM profiles p
			  JOIN accounts a ON a.uid = p.account_uid
			  WHERE p.account_uid = $1`
	p := &models.Profile{}
	var links []byte
	row := s.DB.QueryRowContext(ctx, query, accountUID)
	if err := row.Scan(&p.AccountUID, &p.Slug, &p.DisplayName, &p.Headline,
		&p.Phone, &links, &p.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrProfileNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if len(links) > 0 {
		if err := json.Unmarshal(links, &p.Links); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return p, nil
}
