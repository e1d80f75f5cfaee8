package kafka

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func testOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:          "order-123",
		UserID:      "user-1",
		OrderNumber: "ORD-0001",
		Status:      domain.OrderStatusCancelled,
		AmountMinor: 500,
		OrderDate:   now,
		UpdatedAt:   now,
	}
}

func TestProducer_PublishOrderEvent(t *testing.T) {
	// Создаем mock producer
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		topic:    TopicOrderEvents,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	// Проверяем содержимое сообщения, а не только факт отправки.
	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(value []byte) error {
		var event OrderEvent
		if err := json.Unmarshal(value, &event); err != nil {
			return err
		}
		if event.EventType != EventTypeOrderCancelled {
			t.Fatalf("expected %s, got %s", EventTypeOrderCancelled, event.EventType)
		}
		if event.OrderID != "order-123" || event.Status != "cancelled" {
			t.Fatalf("unexpected event payload: %+v", event)
		}
		return nil
	})

	if err := producer.PublishOrderEvent(string(EventTypeOrderCancelled), testOrder()); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	// Проверяем, что все ожидания выполнены
	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestProducer_PublishOrderEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)

	producer := &Producer{
		producer: mockProducer,
		topic:    TopicOrderEvents,
		logger:   log.WithField("component", "kafka-producer-test"),
	}

	// Настраиваем ожидание ошибки
	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	if err := producer.PublishOrderEvent(string(EventTypeOrderCreated), testOrder()); err == nil {
		t.Fatal("expected error from broker failure")
	}

	if err := mockProducer.Close(); err != nil {
		t.Fatal(err)
	}
}

func TestNewOrderEvent(t *testing.T) {
	order := testOrder()
	event := NewOrderEvent(EventTypeOrderCreated, order)

	if event.OrderID != order.ID {
		t.Fatalf("expected order id %s, got %s", order.ID, event.OrderID)
	}
	if event.UserID != order.UserID {
		t.Fatalf("expected user id %s, got %s", order.UserID, event.UserID)
	}
	if event.AmountMinor != order.AmountMinor {
		t.Fatalf("expected amount %d, got %d", order.AmountMinor, event.AmountMinor)
	}
	if event.Timestamp.IsZero() {
		t.Fatal("expected timestamp to be set")
	}
}
