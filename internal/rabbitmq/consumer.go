package rabbitmq

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/streadway/amqp"

	"github.com/tradebio/profile-hub/internal/lib/sl"
)

// maxInFlight ограничивает число одновременно обрабатываемых уведомлений.
const maxInFlight = 10

// ConsumeNotices читает уведомления из очереди и передаёт их обработчику.
// Подтверждение ручное: ошибка обработчика возвращает сообщение в очередь.
// Чтение останавливается по отмене ctx.
func ConsumeNotices(ctx context.Context, log *slog.Logger, ch *amqp.Channel, queue string, handle func([]byte) error) error {
	const op = "rabbitmq.ConsumeNotices"

	deliveries, err := ch.Consume(
		queue,
		"",
		false,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	inFlight := make(chan struct{}, maxInFlight)
	go func() {
		for {
			select {
			case d, ok := <-deliveries:
				if !ok {
					return
				}
				inFlight <- struct{}{}
				go func(d amqp.Delivery) {
					defer func() { <-inFlight }()
					if err := handle(d.Body); err != nil {
						if nackErr := d.Nack(false, true); nackErr != nil {
							log.Error("failed to nack notice", sl.Err(nackErr))
						}
						return
					}
					if ackErr := d.Ack(false); ackErr != nil {
						log.Error("failed to ack notice", sl.Err(ackErr))
					}
				}(d)
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}
