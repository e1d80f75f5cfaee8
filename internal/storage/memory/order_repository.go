package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// orderRepositoryInMemory — простая in-memory реализация OrderRepository.
type orderRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Order
}

// NewOrderRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewOrderRepository() domain.OrderRepository {
	return &orderRepositoryInMemory{
		items: make(map[string]domain.Order),
	}
}

// Create сохраняет новый заказ, проверяя уникальность номера.
func (r *orderRepositoryInMemory) Create(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.OrderNumber == order.OrderNumber {
			return domain.ErrOrderNumberTaken
		}
	}
	if _, exists := r.items[order.ID]; exists {
		return domain.ErrVersionConflict
	}
	// Сохраняем копию позиций, чтобы избежать непредсказуемых мутаций извне.
	order.Items = copyItems(order.Items)
	r.items[order.ID] = order
	return nil
}

// Get возвращает заказ или ErrOrderNotFound, если его нет.
func (r *orderRepositoryInMemory) Get(id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	order, ok := r.items[id]
	if !ok {
		return domain.Order{}, domain.ErrOrderNotFound
	}
	order.Items = copyItems(order.Items)
	return order, nil
}

func (r *orderRepositoryInMemory) GetByNumber(orderNumber string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, order := range r.items {
		if order.OrderNumber == orderNumber {
			order.Items = copyItems(order.Items)
			return order, nil
		}
	}
	return domain.Order{}, domain.ErrOrderNotFound
}

func (r *orderRepositoryInMemory) List() ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(domain.Order) bool { return true }), nil
}

// ListByUser возвращает заказы пользователя, новые первыми.
// Порядок детерминирован: OrderDate по убыванию, затем ID по убыванию.
func (r *orderRepositoryInMemory) ListByUser(userID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(o domain.Order) bool { return o.UserID == userID }), nil
}

func (r *orderRepositoryInMemory) ListByStatus(status domain.OrderStatus) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(o domain.Order) bool { return o.Status == status }), nil
}

// ListInDateRange возвращает заказы с OrderDate в [from, to] включительно.
func (r *orderRepositoryInMemory) ListInDateRange(from, to time.Time) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(o domain.Order) bool {
		return !o.OrderDate.Before(from) && !o.OrderDate.After(to)
	}), nil
}

func (r *orderRepositoryInMemory) ListWithMinimumAmount(minMinor int64) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(o domain.Order) bool { return o.AmountMinor >= minMinor }), nil
}

func (r *orderRepositoryInMemory) CountByUserAndStatus(userID string, status domain.OrderStatus) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var count int64
	for _, order := range r.items {
		if order.UserID == userID && order.Status == status {
			count++
		}
	}
	return count, nil
}

// Save перезаписывает заказ, проверяя версию (optimistic locking).
// Позиции заказа неизменяемы после создания.
func (r *orderRepositoryInMemory) Save(order domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[order.ID]
	if !ok {
		return domain.ErrOrderNotFound
	}
	if current.Version != order.Version {
		return domain.ErrVersionConflict
	}
	// Инкрементируем версию перед сохранением.
	order.Version++
	order.Items = current.Items
	r.items[order.ID] = order
	return nil
}

// collect вызывается под взятым read-lock.
func (r *orderRepositoryInMemory) collect(keep func(domain.Order) bool) []domain.Order {
	result := make([]domain.Order, 0, len(r.items))
	for _, order := range r.items {
		if keep(order) {
			order.Items = copyItems(order.Items)
			result = append(result, order)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].OrderDate.Equal(result[j].OrderDate) {
			return result[i].OrderDate.After(result[j].OrderDate)
		}
		return result[i].ID > result[j].ID
	})

	return result
}

func copyItems(items []domain.OrderItem) []domain.OrderItem {
	if len(items) == 0 {
		return nil
	}
	result := make([]domain.OrderItem, len(items))
	copy(result, items)
	return result
}

var _ domain.OrderRepository = (*orderRepositoryInMemory)(nil)
