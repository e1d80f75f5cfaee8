package orders

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
	"github.com/vladislavdragonenkov/storefront/internal/metrics"
)

const (
	timelineEventOrderCreated       = "OrderCreated"
	timelineEventOrderStatusChanged = "OrderStatusChanged"
	timelineEventOrderCancelled     = "OrderCancelled"

	eventOrderCreated       = "order.created"
	eventOrderStatusChanged = "order.status_changed"
	eventOrderCancelled     = "order.cancelled"
)

// Service реализует бизнес-правила жизненного цикла заказов поверх
// доменного репозитория.
type Service struct {
	repo      domain.OrderRepository
	timeline  domain.TimelineRepository
	publisher domain.EventPublisher
	metrics   *metrics.OrderMetrics
	logger    *log.Entry
}

// NewService конструирует сервис с зависимостями. Timeline, publisher и
// metrics опциональны: nil отключает соответствующий побочный эффект.
func NewService(
	repo domain.OrderRepository,
	timeline domain.TimelineRepository,
	publisher domain.EventPublisher,
	m *metrics.OrderMetrics,
	logger *log.Entry,
) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "order-service")
	}
	return &Service{
		repo:      repo,
		timeline:  timeline,
		publisher: publisher,
		metrics:   m,
		logger:    logger,
	}
}

// NewOrderItem описывает позицию создаваемого заказа.
type NewOrderItem struct {
	ProductID  string
	Qty        int32
	PriceMinor int64
}

// NewOrder описывает входные данные для создания заказа.
// Идентификатор, дата и начальный статус назначаются сервером.
type NewOrder struct {
	UserID      string
	OrderNumber string
	AmountMinor int64
	Items       []NewOrderItem
}

// Create создаёт заказ со статусом pending и серверной датой создания.
func (s *Service) Create(input NewOrder) (domain.Order, error) {
	now := time.Now().UTC()

	items := make([]domain.OrderItem, 0, len(input.Items))
	for _, item := range input.Items {
		items = append(items, domain.OrderItem{
			ID:         uuid.NewString(),
			ProductID:  item.ProductID,
			Qty:        item.Qty,
			PriceMinor: item.PriceMinor,
			CreatedAt:  now,
		})
	}

	order := domain.Order{
		ID:          uuid.NewString(),
		UserID:      input.UserID,
		OrderNumber: input.OrderNumber,
		Status:      domain.OrderStatusPending,
		AmountMinor: input.AmountMinor,
		Items:       items,
		OrderDate:   now,
		Version:     0,
		UpdatedAt:   now,
	}

	// Все нарушения обнаруживаются до обращения к хранилищу.
	if errs := order.ValidateInvariants(); len(errs) > 0 {
		return domain.Order{}, errs[0]
	}

	if err := s.repo.Create(order); err != nil {
		if domain.IsConflict(err) {
			return domain.Order{}, err
		}
		s.logger.WithError(err).Error("failed to create order")
		return domain.Order{}, fmt.Errorf("create order: %w", err)
	}

	s.metrics.OrderCreated()
	s.appendTimeline(order.ID, timelineEventOrderCreated, string(order.Status), order.OrderDate)
	s.publishEvent(eventOrderCreated, order)

	return order, nil
}

// Get возвращает заказ по идентификатору.
func (s *Service) Get(id string) (domain.Order, error) {
	return s.loadOrder(id, "Get")
}

// GetByNumber возвращает заказ по его уникальному номеру.
func (s *Service) GetByNumber(orderNumber string) (domain.Order, error) {
	order, err := s.repo.GetByNumber(orderNumber)
	if err != nil {
		return domain.Order{}, err
	}
	return order, nil
}

// List возвращает все заказы.
func (s *Service) List() ([]domain.Order, error) {
	return s.repo.List()
}

// ListByUser возвращает заказы пользователя, новые первыми.
func (s *Service) ListByUser(userID string) ([]domain.Order, error) {
	return s.repo.ListByUser(userID)
}

// ListByStatus возвращает заказы в указанном статусе.
func (s *Service) ListByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	return s.repo.ListByStatus(status)
}

// ListInDateRange возвращает заказы с датой в [from, to] включительно.
func (s *Service) ListInDateRange(from, to time.Time) ([]domain.Order, error) {
	if err := validateDateRange(from, to); err != nil {
		return nil, err
	}
	return s.repo.ListInDateRange(from, to)
}

// ListWithMinimumAmount возвращает заказы с суммой не меньше указанной.
func (s *Service) ListWithMinimumAmount(minMinor int64) ([]domain.Order, error) {
	return s.repo.ListWithMinimumAmount(minMinor)
}

// CountByUserAndStatus считает заказы пользователя в указанном статусе.
func (s *Service) CountByUserAndStatus(userID string, status domain.OrderStatus) (int64, error) {
	if userID == "" {
		return 0, domain.ErrOrderUserRequired
	}
	return s.repo.CountByUserAndStatus(userID, status)
}

// UpdateStatus безусловно перезаписывает статус заказа.
// Намеренно без guard-проверки перехода: административная операция
// сосуществует с защищённым Cancel, их поведение согласовано с
// задокументированным контрактом, а не друг с другом.
func (s *Service) UpdateStatus(orderID string, status domain.OrderStatus) (domain.Order, error) {
	order, err := s.loadOrder(orderID, "UpdateStatus")
	if err != nil {
		return domain.Order{}, err
	}

	order.Status = status
	order.UpdatedAt = time.Now().UTC()
	if err := s.saveOrder(order, "UpdateStatus"); err != nil {
		return domain.Order{}, err
	}

	s.metrics.StatusChanged(string(status))
	s.appendTimeline(order.ID, timelineEventOrderStatusChanged, string(status), order.UpdatedAt)

	updated, err := s.loadOrder(order.ID, "UpdateStatusReload")
	if err != nil {
		return domain.Order{}, err
	}
	s.publishEvent(eventOrderStatusChanged, updated)

	return updated, nil
}

// Cancel отменяет заказ, если он находится в отменяемом статусе.
// Повторная отмена невозможна: cancelled — терминальный статус.
func (s *Service) Cancel(orderID string) (domain.Order, error) {
	order, err := s.loadOrder(orderID, "Cancel")
	if err != nil {
		return domain.Order{}, err
	}

	if !order.Cancellable() {
		s.metrics.CancelRejected()
		s.logger.WithFields(log.Fields{
			"order_id": order.ID,
			"status":   order.Status,
		}).Warn("cancel rejected by lifecycle guard")
		return domain.Order{}, fmt.Errorf("%w: %s", domain.ErrOrderNotCancellable, order.Status)
	}

	order.Status = domain.OrderStatusCancelled
	order.UpdatedAt = time.Now().UTC()
	if err := s.saveOrder(order, "Cancel"); err != nil {
		return domain.Order{}, err
	}

	s.metrics.OrderCancelled()
	s.appendTimeline(order.ID, timelineEventOrderCancelled, string(order.Status), order.UpdatedAt)

	updated, err := s.loadOrder(order.ID, "CancelReload")
	if err != nil {
		return domain.Order{}, err
	}
	s.publishEvent(eventOrderCancelled, updated)

	return updated, nil
}

// RevenueInRange суммирует выручку доставленных заказов с датой в
// [from, to] включительно. Пустая выборка — ноль, не ошибка.
func (s *Service) RevenueInRange(from, to time.Time) (int64, error) {
	if err := validateDateRange(from, to); err != nil {
		return 0, err
	}

	started := time.Now()
	orders, err := s.repo.ListInDateRange(from, to)
	if err != nil {
		s.logger.WithError(err).Error("failed to list orders for revenue")
		return 0, fmt.Errorf("list orders in range: %w", err)
	}

	var total int64
	for _, order := range orders {
		if order.Status != domain.OrderStatusDelivered {
			continue
		}
		total += order.AmountMinor
	}

	s.metrics.ObserveRevenueQuery(time.Since(started))
	return total, nil
}

// RecentByUser возвращает не больше limit последних заказов пользователя.
// Репозиторий гарантирует порядок: OrderDate по убыванию, затем ID по
// убыванию, поэтому усечение детерминировано и при равных датах.
func (s *Service) RecentByUser(userID string, limit int) ([]domain.Order, error) {
	if userID == "" {
		return nil, domain.ErrOrderUserRequired
	}
	if limit <= 0 {
		return nil, domain.ErrLimitNotPositive
	}

	orders, err := s.repo.ListByUser(userID)
	if err != nil {
		return nil, fmt.Errorf("list orders by user: %w", err)
	}

	if len(orders) > limit {
		orders = orders[:limit]
	}
	return orders, nil
}

// Timeline возвращает историю событий заказа в хронологическом порядке.
func (s *Service) Timeline(orderID string) ([]domain.TimelineEvent, error) {
	if _, err := s.loadOrder(orderID, "Timeline"); err != nil {
		return nil, err
	}
	if s.timeline == nil {
		return nil, nil
	}
	return s.timeline.List(orderID)
}

func validateDateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return domain.ErrDateRangeRequired
	}
	if from.After(to) {
		return domain.ErrDateRangeInverted
	}
	return nil
}

func (s *Service) loadOrder(orderID, operation string) (domain.Order, error) {
	order, err := s.repo.Get(orderID)
	if err == nil {
		return order, nil
	}

	if !domain.IsNotFound(err) {
		s.logger.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"order_id":  orderID,
		}).Warn("failed to load order")
	}
	return domain.Order{}, err
}

func (s *Service) saveOrder(order domain.Order, operation string) error {
	if err := s.repo.Save(order); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"operation": operation,
			"order_id":  order.ID,
		}).Error("failed to save order")
		return err
	}
	return nil
}

func (s *Service) appendTimeline(orderID, eventType, reason string, occurred time.Time) {
	if s.timeline == nil {
		return
	}
	if occurred.IsZero() {
		occurred = time.Now().UTC()
	}
	event := domain.TimelineEvent{
		OrderID:  orderID,
		Type:     eventType,
		Reason:   reason,
		Occurred: occurred,
	}
	if err := s.timeline.Append(event); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": orderID,
			"event":    eventType,
		}).Warn("failed to append timeline event")
		return
	}
	s.metrics.TimelineEventRecorded()
}

// publishEvent отправляет событие best-effort: сбой публикации не
// откатывает уже применённую мутацию.
func (s *Service) publishEvent(eventType string, order domain.Order) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishOrderEvent(eventType, order); err != nil {
		s.logger.WithError(err).WithFields(log.Fields{
			"order_id": order.ID,
			"event":    eventType,
		}).Warn("failed to publish order event")
	}
}
