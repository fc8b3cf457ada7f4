// Package paypal содержит типы событий вебхуков PayPal, нормализатор,
// переводящий их во внутренний словарь намерений, и REST-клиент
// для отмены подписок.
package paypal

import "time"

// ProviderName тег провайдера, записываемый в subscription record.
const ProviderName = "paypal"

// WebhookEvent конверт входящего вебхука. PayPal присылает event_type,
// часть интеграций шлёт eventType — принимаются оба написания.
type WebhookEvent struct {
	EventType    string   `json:"event_type"`
	EventTypeAlt string   `json:"eventType"`
	Resource     Resource `json:"resource"`
}

// Type возвращает тип события с учётом альтернативного написания ключа.
func (e WebhookEvent) Type() string {
	if e.EventType != "" {
		return e.EventType
	}
	return e.EventTypeAlt
}

// Resource вложенный объект события. Форма зависит от семейства события,
// поэтому здесь объединение полей подписки и платежа; дальше границы
// нормализатора этот тип не передаётся.
type Resource struct {
	ID          string      `json:"id"`
	CustomID    string      `json:"custom_id"`
	Custom      string      `json:"custom"`
	CreateTime  string      `json:"create_time"`
	BillingInfo BillingInfo `json:"billing_info"`
	Subscriber  Subscriber  `json:"subscriber"`
	// BillingAgreementID приходит в платёжных событиях (PAYMENT.SALE.*)
	// и ссылается на подписку, породившую платёж.
	BillingAgreementID string `json:"billing_agreement_id"`
}

// BillingInfo платёжная сводка подписки.
type BillingInfo struct {
	LastPayment LastPayment `json:"last_payment"`
}

// LastPayment время последнего платежа по подписке.
type LastPayment struct {
	Time string `json:"time"`
}

// Subscriber плательщик подписки.
type Subscriber struct {
	PayerID string `json:"payer_id"`
}

// Intent внутреннее намерение, к которому сводится событие провайдера.
type Intent string

// Замкнутый словарь намерений.
const (
	IntentActivate   Intent = "activate"
	IntentDeactivate Intent = "deactivate"
	IntentDegrade    Intent = "degrade"
	IntentIgnore     Intent = "ignore"
)

// NormalizedEvent результат нормализации вебхука.
// CorrelationID пуст, если событие не удалось сопоставить с аккаунтом.
type NormalizedEvent struct {
	Intent         Intent
	Status         string
	LastPaymentAt  *time.Time
	CorrelationID  string
	SubscriptionID string
}
