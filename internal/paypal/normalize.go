package paypal

import (
	"time"

	"github.com/tradebio/profile-hub/internal/models"
)

// Типы событий PayPal, которые сервис умеет обрабатывать.
const (
	EventSubscriptionActivated   = "BILLING.SUBSCRIPTION.ACTIVATED"
	EventSubscriptionReactivated = "BILLING.SUBSCRIPTION.RE-ACTIVATED"
	EventSubscriptionCancelled   = "BILLING.SUBSCRIPTION.CANCELLED"
	EventSubscriptionSuspended   = "BILLING.SUBSCRIPTION.SUSPENDED"
	EventSubscriptionExpired     = "BILLING.SUBSCRIPTION.EXPIRED"
	EventSaleCompleted           = "PAYMENT.SALE.COMPLETED"
	EventSaleDenied              = "PAYMENT.SALE.DENIED"
	EventSaleRefunded            = "PAYMENT.SALE.REFUNDED"
)

// Normalize сводит событие провайдера к внутреннему намерению.
// Неизвестные типы событий не являются ошибкой: возвращается IntentIgnore,
// чтобы обработчик вебхука мог подтвердить доставку и провайдер
// не устраивал повторные попытки.
func Normalize(ev WebhookEvent, now time.Time) NormalizedEvent {
	res := NormalizedEvent{
		CorrelationID:  correlationID(ev.Resource),
		SubscriptionID: subscriptionID(ev.Resource),
	}

	switch ev.Type() {
	case EventSubscriptionActivated, EventSubscriptionReactivated:
		res.Intent = IntentActivate
		res.Status = models.SubscriptionActive
		res.LastPaymentAt = parseTime(ev.Resource.BillingInfo.LastPayment.Time)
	case EventSaleCompleted:
		res.Intent = IntentActivate
		res.Status = models.SubscriptionActive
		if ts := parseTime(ev.Resource.CreateTime); ts != nil {
			res.LastPaymentAt = ts
		} else {
			res.LastPaymentAt = &now
		}
	case EventSubscriptionCancelled, EventSubscriptionSuspended, EventSubscriptionExpired:
		res.Intent = IntentDeactivate
		res.Status = models.SubscriptionInactive
	case EventSaleDenied, EventSaleRefunded:
		res.Intent = IntentDegrade
		res.Status = models.SubscriptionPastDue
	default:
		res.Intent = IntentIgnore
	}
	return res
}

// correlationID извлекает ключ сопоставления с аккаунтом:
// custom_id, выставленный при создании подписки, затем custom из платежа,
// затем payer_id. Пустой результат допустим — событие принимается без мутации.
func correlationID(r Resource) string {
	if r.CustomID != "" {
		return r.CustomID
	}
	if r.Custom != "" {
		return r.Custom
	}
	return r.Subscriber.PayerID
}

func subscriptionID(r Resource) string {
	if r.BillingAgreementID != "" {
		return r.BillingAgreementID
	}
	return r.ID
}

func parseTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil
	}
	return &ts
}
