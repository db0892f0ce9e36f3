package rabbitmq

// Имя exchange и очереди оповещений оператора.
const (
	AlertsExchange  = "alerts"
	AlertsQueue     = "operator.alerts"
	AlertRoutingKey = "operator"
)

// QueueConfig описывает очередь и ключ маршрутизации для привязки.
type QueueConfig struct {
	QueueName  string
	RoutingKey string
}

// GetAlertQueues возвращает список очередей оповещений.
func GetAlertQueues() []QueueConfig {
	return []QueueConfig{
		{QueueName: AlertsQueue, RoutingKey: AlertRoutingKey},
	}
}
