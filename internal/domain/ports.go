package domain

// EventPublisher публикует события жизненного цикла заказов наружу.
// Публикация best-effort: сбой не откатывает уже применённую мутацию.
type EventPublisher interface {
	// PublishOrderEvent отправляет событие во внешнюю шину.
	PublishOrderEvent(eventType string, order Order) error
}

// TimelineRepository хранит события жизненного цикла заказа.
type TimelineRepository interface {
	Append(event TimelineEvent) error
	List(orderID string) ([]TimelineEvent, error)
}
