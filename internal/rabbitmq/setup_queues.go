package rabbitmq

// NotificationsExchange exchange для уведомлений о биллинге.
const NotificationsExchange = "notifications"

// BillingRoutingKey ключ маршрутизации биллинговых уведомлений.
const BillingRoutingKey = "billing"

// BillingQueue очередь биллинговых уведомлений воркера рассылки.
const BillingQueue = "notifications.billing"

// QueueConfig описывает очередь и её ключ маршрутизации.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetNotificationQueues возвращает очереди воркера уведомлений.
func GetNotificationQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: BillingQueue, RoutingKey: BillingRoutingKey},
	}
}
