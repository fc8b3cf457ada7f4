package rabbitmq

import (
	"encoding/json"
	"fmt"

	"github.com/streadway/amqp"

	"github.com/tradebio/profile-hub/internal/models"
)

// BillingPublisher публикует биллинговые уведомления в exchange уведомлений.
type BillingPublisher struct {
	ch *amqp.Channel
}

// NewBillingPublisher создает новый BillingPublisher.
func NewBillingPublisher(ch *amqp.Channel) *BillingPublisher {
	return &BillingPublisher{ch: ch}
}

// PublishNotice публикует уведомление с ключом маршрутизации биллинга.
// Сообщение помечается persistent и переживает перезапуск брокера.
func (p *BillingPublisher) PublishNotice(notice models.BillingNotice) error {
	const op = "rabbitmq.PublishNotice"

	body, err := json.Marshal(notice)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	err = p.ch.Publish(
		NotificationsExchange,
		BillingRoutingKey,
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			Body:         body,
			DeliveryMode: amqp.Persistent,
		},
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
