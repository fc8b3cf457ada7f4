// Package auth содержит бизнес-логику регистрации, входа
// и проверки JWT токенов.
package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/tradebio/profile-hub/internal/lib/jwt"
	"github.com/tradebio/profile-hub/internal/lib/password"
	"github.com/tradebio/profile-hub/internal/models"
)

// AccountRepository описывает контракт для работы с аккаунтами в базе данных.
type AccountRepository interface {
	// RegisterAccount сохраняет новый аккаунт и возвращает его UID.
	RegisterAccount(ctx context.Context, acc models.Account, passwordHash string) (string, error)
	// GetAccountByUsername возвращает аккаунт и хэш пароля по имени.
	GetAccountByUsername(ctx context.Context, username string) (*models.Account, string, error)
}

// AuthService отвечает за регистрацию, авторизацию и валидацию JWT.
type AuthService struct {
	accounts  AccountRepository
	jwtMaker  jwt.Maker
	trialDays int
}

// ErrInvalidCredentials возвращается при неверной паре логин/пароль.
var ErrInvalidCredentials = errors.New("invalid credentials")

var slugPattern = regexp.MustCompile(`[^a-z0-9-]+`)

// NewAuthService создает новый экземпляр AuthService.
// trialDays задаёт длину пробного периода новых аккаунтов.
func NewAuthService(accounts AccountRepository, jwtMaker jwt.Maker, trialDays int) *AuthService {
	if trialDays <= 0 {
		trialDays = models.DefaultTrialDays
	}
	return &AuthService{
		accounts:  accounts,
		jwtMaker:  jwtMaker,
		trialDays: trialDays,
	}
}

// Register создаёт новый аккаунт: хэширует пароль, выводит slug из имени
// и открывает пробный период с текущего момента.
func (s *AuthService) Register(ctx context.Context, email, username, rawPassword string) (string, error) {
	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return "", err
	}
	acc := models.Account{
		Email:      email,
		Username:   username,
		Slug:       Slugify(username),
		TrialStart: time.Now().UTC(),
		TrialDays:  s.trialDays,
	}
	if acc.Slug == "" {
		return "", fmt.Errorf("cannot derive slug from username %q", username)
	}
	return s.accounts.RegisterAccount(ctx, acc, hashed)
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *AuthService) Login(ctx context.Context, username, rawPassword string) (string, error) {
	acc, passwordHash, err := s.accounts.GetAccountByUsername(ctx, username)
	if err != nil {
		return "", err
	}
	if err := password.CompareHash(passwordHash, rawPassword); err != nil {
		return "", ErrInvalidCredentials
	}
	return s.jwtMaker.GenerateToken(acc.Username, acc.UID)
}

// ValidateToken проверяет JWT и возвращает его claims.
func (s *AuthService) ValidateToken(_ context.Context, token string) (*jwt.CustomClaims, error) {
	return s.jwtMaker.ParseToken(token)
}

// Slugify приводит имя к виду публичного slug: нижний регистр,
// латиница/цифры/дефисы, без краевых дефисов.
func Slugify(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugPattern.ReplaceAllString(slug, "")
	return strings.Trim(slug, "-")
}
