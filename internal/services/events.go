package services

// EventPublisher delivers product lifecycle events to interested consumers.
type EventPublisher interface {
	PublishEvent(routingKey string, payload interface{}) error
}

// NoopPublisher discards every event. It is used when no broker is configured.
type NoopPublisher struct{}

// PublishEvent implements EventPublisher.
func (NoopPublisher) PublishEvent(string, interface{}) error { return nil }
