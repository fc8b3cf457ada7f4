package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/tradebio/profile-hub/internal/models"
)

// UpsertRecord создаёт или перезаписывает запись о подписке аккаунта.
// Ключ — account_uid: на аккаунт приходится не более одной записи.
// last_payment_at обновляется только когда событие его принесло,
// иначе сохраняется прежнее значение. Повторное применение того же
// события оставляет запись неизменной.
func (s *Storage) UpsertRecord(ctx context.Context, rec models.SubscriptionRecord) error {
	const op = "repository.UpsertRecord"
	select {
	case <-ctx.Done():
		return fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_records
			      (account_uid, provider, provider_subscription_id, status, last_payment_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, now())
			  ON CONFLICT (account_uid) DO UPDATE SET
			      status = EXCLUDED.status,
			      provider_subscription_id = COALESCE(NULLIF(EXCLUDED.provider_subscription_id, ''),
			          subscription_records.provider_subscription_id),
			      last_payment_at = COALESCE(EXCLUDED.last_payment_at, subscription_records.last_payment_at),
			      updated_at = now()`
	_, err := s.DB.ExecContext(ctx, query,
		rec.AccountUID, rec.Provider, rec.SubscriptionID, rec.Status, rec.LastPaymentAt)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// GetRecordByAccount возвращает запись о подписке аккаунта.
func (s *Storage) GetRecordByAccount(ctx context.Context, accountUID string) (*models.SubscriptionRecord, error) {
	const op = "repository.GetRecordByAccount"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT account_uid, provider, provider_subscription_id, status,
			      last_payment_at, cancelled_at, updated_at
			  FROM subscription_records
			  WHERE account_uid = $1`
	rec := &models.SubscriptionRecord{}
	var lastPaymentAt, cancelledAt sql.NullTime
	row := s.DB.QueryRowContext(ctx, query, accountUID)
	if err := row.Scan(&rec.AccountUID, &rec.Provider, &rec.SubscriptionID,
		&rec.Status, &lastPaymentAt, &cancelledAt, &rec.UpdatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if lastPaymentAt.Valid {
		rec.LastPaymentAt = &lastPaymentAt.Time
	}
	if cancelledAt.Valid {
		rec.CancelledAt = &cancelledAt.Time
	}
	return rec, nil
}

// AttachSubscription привязывает подписку провайдера к аккаунту, только если
// она ещё не привязана ни к одному аккаунту. Возвращает количество
// затронутых строк: 0 означает, что подписку уже забрал другой аккаунт.
// Гонку двух одновременных привязок разрешает уникальный индекс
// по provider_subscription_id: проигравшая вставка нарушает индекс
// и также считается нулевым результатом.
func (s *Storage) AttachSubscription(ctx context.Context, accountUID, provider, subscriptionID string) (int64, error) {
	const op = "repository.AttachSubscription"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO subscription_records
			      (account_uid, provider, provider_subscription_id, status, updated_at)
			  SELECT $1, $2, $3, $4, now()
			  WHERE NOT EXISTS (
			      SELECT 1 FROM subscription_records
			      WHERE provider_subscription_id = $3 AND account_uid <> $1)
			  ON CONFLICT (account_uid) DO UPDATE SET
			      provider = EXCLUDED.provider,
			      provider_subscription_id = EXCLUDED.provider_subscription_id,
			      status = EXCLUDED.status,
			      cancelled_at = NULL,
			      updated_at = now()`
	result, err := s.DB.ExecContext(ctx, query, accountUID, provider, subscriptionID, models.SubscriptionActive)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// CancelRecord помечает запись отменённой с отметкой времени.
// Область действия — пара аккаунт + подписка, чтобы нельзя было отменить
// чужую запись. Возвращает количество затронутых строк.
func (s *Storage) CancelRecord(ctx context.Context, accountUID, subscriptionID string) (int64, error) {
	const op = "repository.CancelRecord"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `UPDATE subscription_records
			  SET status = $1, cancelled_at = now(), updated_at = now()
			  WHERE account_uid = $2 AND provider_subscription_id = $3`
	result, err := s.DB.ExecContext(ctx, query, models.SubscriptionInactive, accountUID, subscriptionID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return rowsAffected, nil
}

// ListVisibleSlugs возвращает slug'и аккаунтов, видимых публично:
// активная подписка либо открытый пробный период.
func (s *Storage) ListVisibleSlugs(ctx context.Context) ([]string, error) {
	const op = "repository.ListVisibleSlugs"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT a.slug
			  FROM accounts a
			  LEFT JOIN subscription_records r ON r.account_uid = a.uid
			  WHERE r.status = $1
			     OR COALESCE(a.trial_start, a.created_at) + a.trial_days * INTERVAL '1 day' > now()
			  ORDER BY a.slug`
	rows, err := s.DB.QueryContext(ctx, query, models.SubscriptionActive)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// isUniqueViolation проверяет нарушение уникального индекса (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	type sqlState interface{ SQLState() string }
	var state sqlState
	if errors.As(err, &state) {
		return state.SQLState() == "23505"
	}
	return false
}
