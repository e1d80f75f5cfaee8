package app

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/messaging/kafka"
)

// initKafkaProducer создаёт producer событий заказов, если настроены брокеры.
// Недоступность Kafka не фатальна: сервис продолжает работу без событий.
func initKafkaProducer(cfg Config, logger *log.Entry) *kafka.Producer {
	brokersRaw := strings.TrimSpace(cfg.KafkaBrokers)
	if brokersRaw == "" {
		return nil
	}

	brokers := make([]string, 0)
	for _, broker := range strings.Split(brokersRaw, ",") {
		if broker = strings.TrimSpace(broker); broker != "" {
			brokers = append(brokers, broker)
		}
	}
	if len(brokers) == 0 {
		return nil
	}

	producer, err := kafka.NewProducer(brokers, cfg.KafkaTopic)
	if err != nil {
		logger.WithError(err).Warn("failed to create kafka producer, continuing without kafka")
		return nil
	}

	logger.WithField("brokers", brokers).Info("kafka producer initialized")
	return producer
}

// toPublisher избегает typed-nil интерфейса при отключённой Kafka.
func toPublisher(producer *kafka.Producer) domain.EventPublisher {
	if producer == nil {
		return nil
	}
	return producer
}
