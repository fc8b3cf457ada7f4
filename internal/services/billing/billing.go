// Package billing содержит бизнес-логику жизненного цикла подписки:
// применение нормализованных событий вебхуков к локальной записи,
// привязку и отмену подписок, вычисление состояния для биллинговой панели.
package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/tradebio/profile-hub/internal/lib/sl"
	"github.com/tradebio/profile-hub/internal/metrics"
	"github.com/tradebio/profile-hub/internal/models"
	"github.com/tradebio/profile-hub/internal/paypal"
	"github.com/tradebio/profile-hub/internal/storage/repository"
)

// SubscriptionRepository определяет методы хранилища, нужные биллингу.
type SubscriptionRepository interface {
	UpsertRecord(ctx context.Context, rec models.SubscriptionRecord) error
	GetRecordByAccount(ctx context.Context, accountUID string) (*models.SubscriptionRecord, error)
	AttachSubscription(ctx context.Context, accountUID, provider, subscriptionID string) (int64, error)
	CancelRecord(ctx context.Context, accountUID, subscriptionID string) (int64, error)
	GetAccountByUID(ctx context.Context, uid string) (*models.Account, error)
}

// ProviderClient описывает вызовы платёжного провайдера.
type ProviderClient interface {
	CancelSubscription(ctx context.Context, subscriptionID, reason string) error
}

// NoticePublisher публикует биллинговые уведомления для воркера рассылки.
type NoticePublisher interface {
	PublishNotice(notice models.BillingNotice) error
}

// Ошибки биллингового сервиса.
var (
	// ErrAlreadyAttached подписка уже привязана к другому аккаунту.
	ErrAlreadyAttached = errors.New("subscription already attached")
	// ErrProviderUnavailable провайдер отказал или не ответил вовремя.
	ErrProviderUnavailable = errors.New("payment provider unavailable")
)

// Service реализует жизненный цикл подписки.
type Service struct {
	repo      SubscriptionRepository
	provider  ProviderClient
	publisher NoticePublisher
	log       *slog.Logger
}

// New создает новый экземпляр Service. publisher может быть nil —
// тогда уведомления не рассылаются.
func New(repo SubscriptionRepository, provider ProviderClient, publisher NoticePublisher, log *slog.Logger) *Service {
	return &Service{
		repo:      repo,
		provider:  provider,
		publisher: publisher,
		log:       log,
	}
}

// ApplyEvent применяет нормализованное событие вебхука к записи о подписке.
// Порядок применения — порядок доставки: номер события не сравнивается,
// более позднее по времени событие перезаписывает более раннее по доставке.
// Событие, не сопоставимое с локальным аккаунтом, принимается без мутации.
// Ошибка возвращается только при недоступности хранилища — обработчик
// вебхука превращает её в не-2xx ответ, и провайдер повторит доставку.
func (s *Service) ApplyEvent(ctx context.Context, ev paypal.NormalizedEvent) error {
	const op = "billing.ApplyEvent"
	metrics.WebhookEvents.WithLabelValues(string(ev.Intent)).Inc()

	if ev.Intent == paypal.IntentIgnore {
		return nil
	}
	// Ключ сопоставления обязан быть uid локального аккаунта. Пустой ключ,
	// payer_id из запасного варианта и чужой custom_id под это не подходят:
	// такое событие подтверждается без мутации, иначе провайдер будет
	// повторять доставку бесконечно.
	if _, err := uuid.Parse(ev.CorrelationID); err != nil {
		s.acceptUnmapped(ev, "correlation key is not an account uid")
		return nil
	}
	if _, err := s.repo.GetAccountByUID(ctx, ev.CorrelationID); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			s.acceptUnmapped(ev, "correlation key matches no account")
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}

	rec := models.SubscriptionRecord{
		AccountUID:     ev.CorrelationID,
		Provider:       paypal.ProviderName,
		SubscriptionID: ev.SubscriptionID,
		Status:         ev.Status,
		LastPaymentAt:  ev.LastPaymentAt,
	}
	if err := s.repo.UpsertRecord(ctx, rec); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("subscription record updated",
		slog.String("account_uid", ev.CorrelationID),
		slog.String("status", ev.Status))

	switch ev.Intent {
	case paypal.IntentDeactivate:
		s.notify(ctx, ev.CorrelationID, models.NoticeCancelled)
	case paypal.IntentDegrade:
		s.notify(ctx, ev.CorrelationID, models.NoticePaymentFailed)
	}
	return nil
}

// Attach привязывает подписку к аккаунту вызывающего.
// Возвращает ErrAlreadyAttached, если подписку уже забрал другой аккаунт.
func (s *Service) Attach(ctx context.Context, accountUID, subscriptionID string) error {
	const op = "billing.Attach"

	rows, err := s.repo.AttachSubscription(ctx, accountUID, paypal.ProviderName, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return ErrAlreadyAttached
	}
	s.log.Info("subscription attached",
		slog.String("account_uid", accountUID),
		slog.String("subscription_id", subscriptionID))
	return nil
}

// Cancel отменяет подписку: сначала у провайдера, затем локально.
// Отказ провайдера не считается успехом и локальную запись не трогает.
func (s *Service) Cancel(ctx context.Context, accountUID, subscriptionID string) error {
	const op = "billing.Cancel"

	if err := s.provider.CancelSubscription(ctx, subscriptionID, "customer requested cancellation"); err != nil {
		s.log.Error("provider cancel failed", sl.Err(err),
			slog.String("subscription_id", subscriptionID))
		return fmt.Errorf("%s: %w", op, ErrProviderUnavailable)
	}

	rows, err := s.repo.CancelRecord(ctx, accountUID, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if rows == 0 {
		return fmt.Errorf("%s: %w", op, repository.ErrRecordNotFound)
	}

	s.log.Info("subscription cancelled",
		slog.String("account_uid", accountUID),
		slog.String("subscription_id", subscriptionID))
	s.notify(ctx, accountUID, models.NoticeCancelled)
	return nil
}

// Status возвращает полное производное состояние аккаунта для биллинговой
// панели, включая past_due и остаток пробных дней.
func (s *Service) Status(ctx context.Context, accountUID string, now time.Time) (models.StateInfo, error) {
	const op = "billing.Status"

	acc, err := s.repo.GetAccountByUID(ctx, accountUID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return models.StateInfo{State: models.StateNotFound}, nil
		}
		return models.StateInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := s.repo.GetRecordByAccount(ctx, accountUID)
	if err != nil {
		if !errors.Is(err, repository.ErrRecordNotFound) {
			return models.StateInfo{}, fmt.Errorf("%s: %w", op, err)
		}
		rec = nil
	}

	return DeriveState(now, acc, rec), nil
}

// acceptUnmapped фиксирует событие, принятое без мутации.
func (s *Service) acceptUnmapped(ev paypal.NormalizedEvent, reason string) {
	metrics.UnmappedWebhookEvents.Inc()
	s.log.Warn("webhook event accepted without mutation",
		slog.String("reason", reason),
		slog.String("intent", string(ev.Intent)),
		slog.String("subscription_id", ev.SubscriptionID))
}

// notify публикует уведомление для владельца аккаунта.
// Ошибки рассылки не влияют на результат операции.
func (s *Service) notify(ctx context.Context, accountUID, kind string) {
	if s.publisher == nil {
		return
	}
	acc, err := s.repo.GetAccountByUID(ctx, accountUID)
	if err != nil {
		s.log.Warn("failed to load account for notice", sl.Err(err),
			slog.String("account_uid", accountUID))
		return
	}
	notice := models.BillingNotice{
		Kind:     kind,
		Email:    acc.Email,
		Username: acc.Username,
		Slug:     acc.Slug,
	}
	if err := s.publisher.PublishNotice(notice); err != nil {
		s.log.Warn("failed to publish billing notice", sl.Err(err),
			slog.String("account_uid", accountUID))
	}
}
