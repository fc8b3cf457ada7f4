// Package repository реализует доступ к таблицам аккаунтов, подписок
// и профилей. Отсутствие строки всегда сводится к сентинельным ошибкам
// ErrAccountNotFound / ErrRecordNotFound / ErrProfileNotFound: вызывающий
// код обязан отличать "не найдено" от недоступности хранилища.
package repository

import (
	"errors"

	"github.com/tradebio/profile-hub/internal/storage"
)

// Сентинельные ошибки слоя хранения.
var (
	ErrAccountNotFound = errors.New("account not found")
	ErrRecordNotFound  = errors.New("subscription record not found")
	ErrProfileNotFound = errors.New("profile not found")
)

// Storage обёртка над storage.Storage с методами репозиториев.
type Storage struct {
	*storage.Storage
}

// New создаёт репозиторий поверх подключения к базе.
func New(s *storage.Storage) *Storage {
	return &Storage{Storage: s}
}
