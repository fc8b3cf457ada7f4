package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/tradebio/profile-hub/internal/models"
)

// RegisterAccount сохраняет новый аккаунт и возвращает его UID.
// Slug хранится в нижнем регистре, уникальность обеспечивает индекс.
func (s *Storage) RegisterAccount(ctx context.Context, acc models.Account, passwordHash string) (string, error) {
	const op = "repository.RegisterAccount"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	var newUID string
	query := `INSERT INTO accounts (email, username, password_hash, slug, trial_start, trial_days)
			  VALUES ($1, $2, $3, lower($4), $5, $6)
			  RETURNING uid;`
	if err := s.DB.QueryRowContext(ctx, query,
		acc.Email, acc.Username, passwordHash, acc.Slug, acc.TrialStart,
		acc.TrialDays).Scan(&newUID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newUID, nil
}

// GetAccountByUsername возвращает аккаунт и хэш пароля по имени пользователя.
func (s *Storage) GetAccountByUsername(ctx context.Context, username string) (*models.Account, string, error) {
	const op = "repository.GetAccountByUsername"
	select {
	case <-ctx.Done():
		return nil, "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, password_hash, slug, trial_start, trial_days, created_at
			  FROM accounts
			  WHERE username = $1`
	acc := &models.Account{}
	var passwordHash string
	var trialStart sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, username)
	if err := row.Scan(&acc.UID, &acc.Email, &acc.Username, &passwordHash,
		&acc.Slug, &trialStart, &acc.TrialDays, &acc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, "", fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if trialStart.Valid {
		acc.TrialStart = trialStart.Time
	}
	return acc, passwordHash, nil
}

// GetAccountByUID возвращает аккаунт по его UID.
func (s *Storage) GetAccountByUID(ctx context.Context, uid string) (*models.Account, error) {
	const op = "repository.GetAccountByUID"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, slug, trial_start, trial_days, created_at
			  FROM accounts
			  WHERE uid = $1`
	return s.scanAccount(s.DB.QueryRowContext(ctx, query, uid), op)
}

// GetAccountBySlug возвращает аккаунт по публичному slug.
// Сравнение регистронезависимое: slug хранится в нижнем регистре.
func (s *Storage) GetAccountBySlug(ctx context.Context, slug string) (*models.Account, error) {
	const op = "repository.GetAccountBySlug"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT uid, email, username, slug, trial_start, trial_days, created_at
			  FROM accounts
			  WHERE slug = lower($1)`
	return s.scanAccount(s.DB.QueryRowContext(ctx, query, strings.TrimSpace(slug)), op)
}

func (s *Storage) scanAccount(row *sql.Row, op string) (*models.Account, error) {
	acc := &models.Account{}
	var trialStart sql.NullTime
	if err := row.Scan(&acc.UID, &acc.Email, &acc.Username, &acc.Slug,
		&trialStart, &acc.TrialDays, &acc.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrAccountNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if trialStart.Valid {
		acc.TrialStart = trialStart.Time
	}
	return acc, nil
}
