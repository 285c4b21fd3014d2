package di

import (
	"shopgraph/internal/platform/config"
	"shopgraph/internal/platform/events"
)

// NewEventPublisher returns a Kafka publisher when brokers are configured, or a no-op publisher.
func NewEventPublisher(cfg config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		return events.NopPublisher{}
	}
	return events.NewKafkaPublisher(cfg.KafkaBrokers)
}
