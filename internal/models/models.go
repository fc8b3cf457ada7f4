// Package models содержит доменные структуры сервиса.
package models

import "time"

// Статусы записи подписки в хранилище.
const (
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionInactive = "inactive"
)

// Производные состояния аккаунта.
const (
	StateActive   = "active"
	StateTrial    = "trial"
	StatePastDue  = "past_due"
	StateExpired  = "expired"
	StateNotFound = "not_found"
)

// DefaultTrialDays длительность пробного периода по умолчанию.
const DefaultTrialDays = 14

// Виды биллинговых уведомлений.
const (
	NoticeCancelled     = "subscription_cancelled"
	NoticePaymentFailed = "payment_failed"
)

// Account аккаунт владельца страницы.
type Account struct {
	UID        string    `json:"uid"`
	Email      string    `json:"email"`
	Username   string    `json:"username"`
	Slug       string    `json:"slug"`
	TrialStart time.Time `json:"trial_start"`
	TrialDays  int       `json:"trial_days"`
	CreatedAt  time.Time `json:"created_at"`
}

// SubscriptionRecord локальная запись о подписке аккаунта.
// На аккаунт приходится не больше одной записи.
type SubscriptionRecord struct {
	AccountUID     string     `json:"account_uid"`
	Provider       string     `json:"provider"`
	SubscriptionID string     `json:"subscription_id"`
	Status         string     `json:"status"`
	LastPaymentAt  *time.Time `json:"last_payment_at,omitempty"`
	CancelledAt    *time.Time `json:"cancelled_at,omitempty"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// StateInfo производное состояние аккаунта с остатком пробных дней.
type StateInfo struct {
	State    string `json:"state"`
	DaysLeft int    `json:"days_left"`
}

// ProfileLink одна ссылка на странице.
type ProfileLink struct {
	Title string `json:"title"`
	URL   string `json:"url"`
}

// Profile документ публичной страницы.
type Profile struct {
	AccountUID  string        `json:"account_uid"`
	Slug        string        `json:"slug"`
	DisplayName string        `json:"display_name"`
	Headline    string        `json:"headline"`
	Phone       string        `json:"phone"`
	Links       []ProfileLink `json:"links"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// BillingNotice сообщение для воркера уведомлений.
type BillingNotice struct {
	Kind     string `json:"kind"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Slug     string `json:"slug"`
}
