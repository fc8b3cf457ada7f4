// Package profile содержит бизнес-логику публичной поверхности:
// вычисление состояния аккаунта по slug, выдачу и сохранение документа
// страницы, список видимых slug'ов для sitemap.
package profile

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/tradebio/profile-hub/internal/models"
	"github.com/tradebio/profile-hub/internal/services/billing"
	"github.com/tradebio/profile-hub/internal/storage/repository"
)

// Repository определяет методы хранилища, нужные публичной поверхности.
type Repository interface {
	GetAccountBySlug(ctx context.Context, slug string) (*models.Account, error)
	GetRecordByAccount(ctx context.Context, accountUID string) (*models.SubscriptionRecord, error)
	GetProfileByAccount(ctx context.Context, accountUID string) (*models.Profile, error)
	SaveProfile(ctx context.Context, p models.Profile) error
	ListVisibleSlugs(ctx context.Context) ([]string, error)
}

// Cache описывает методы кеширования документов страниц.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, key string) error
}

// Service реализует путь чтения состояния и работу с документом страницы.
type Service struct {
	repo  Repository
	cache Cache
	log   *slog.Logger
}

// New создает новый экземпляр Service. cache может быть nil.
func New(repo Repository, cache Cache, log *slog.Logger) *Service {
	return &Service{
		repo:  repo,
		cache: cache,
		log:   log,
	}
}

const profileCacheTTL = 5 * time.Minute

// Resolve вычисляет производное состояние аккаунта по slug.
// Неизвестный slug — это not_found, а не ошибка; ошибка возвращается
// только при недоступности хранилища, чтобы вызывающий мог отличить
// 404 от 5xx.
func (s *Service) Resolve(ctx context.Context, slug string, now time.Time) (models.StateInfo, error) {
	_, state, err := s.resolve(ctx, slug, now)
	return state, err
}

// resolve дополнительно возвращает найденный аккаунт, чтобы путь чтения
// страницы не ходил за ним повторно. Для not_found аккаунт равен nil.
func (s *Service) resolve(ctx context.Context, slug string, now time.Time) (*models.Account, models.StateInfo, error) {
	const op = "profile.Resolve"

	acc, err := s.repo.GetAccountBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return nil, models.StateInfo{State: models.StateNotFound}, nil
		}
		return nil, models.StateInfo{}, fmt.Errorf("%s: %w", op, err)
	}

	rec, err := s.repo.GetRecordByAccount(ctx, acc.UID)
	if err != nil {
		if !errors.Is(err, repository.ErrRecordNotFound) {
			return nil, models.StateInfo{}, fmt.Errorf("%s: %w", op, err)
		}
		rec = nil
	}

	return acc, billing.DeriveState(now, acc, rec), nil
}

// PublicProfile возвращает документ страницы по slug вместе с состоянием
// аккаунта. Документ кешируется; состояние пересчитывается всегда.
func (s *Service) PublicProfile(ctx context.Context, slug string, now time.Time) (*models.Profile, models.StateInfo, error) {
	const op = "profile.PublicProfile"

	acc, state, err := s.resolve(ctx, slug, now)
	if err != nil {
		return nil, models.StateInfo{}, err
	}
	if state.State == models.StateNotFound || state.State == models.StateExpired {
		return nil, state, nil
	}

	var doc *models.Profile
	cacheKey := "profile:" + acc.Slug
	if s.cache != nil {
		found, err := s.cache.Get(ctx, cacheKey, &doc)
		if err != nil {
			s.log.Warn("profile cache read failed", slog.String("key", cacheKey), slog.Any("err", err))
		} else if found {
			return doc, state, nil
		}
	}

	doc, err = s.repo.GetProfileByAccount(ctx, acc.UID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			// Аккаунт есть, страница ещё не заполнена.
			doc = &models.Profile{AccountUID: acc.UID, Slug: acc.Slug, DisplayName: acc.Username}
		} else {
			return nil, models.StateInfo{}, fmt.Errorf("%s: %w", op, err)
		}
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, doc, profileCacheTTL); err != nil {
			s.log.Warn("failed to cache profile", slog.String("key", cacheKey), slog.Any("err", err))
		}
	}
	return doc, state, nil
}

// Save сохраняет документ страницы владельца и инвалидирует кеш.
func (s *Service) Save(ctx context.Context, p models.Profile) error {
	const op = "profile.Save"

	if err := s.repo.SaveProfile(ctx, p); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if s.cache != nil && p.Slug != "" {
		if err := s.cache.Invalidate(ctx, "profile:"+p.Slug); err != nil {
			s.log.Warn("failed to invalidate profile cache", slog.String("slug", p.Slug), slog.Any("err", err))
		}
	}
	s.log.Info("profile saved", slog.String("account_uid", p.AccountUID))
	return nil
}

// VisibleSlugs возвращает slug'и для sitemap: открытый пробный период
// либо активная подписка, всё остальное опускается.
func (s *Service) VisibleSlugs(ctx context.Context) ([]string, error) {
	const op = "profile.VisibleSlugs"
	slugs, err := s.repo.ListVisibleSlugs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return slugs, nil
}
