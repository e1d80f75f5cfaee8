package postgres

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func newIntegrationOrder(userID, number string, status domain.OrderStatus, amount int64, date time.Time) domain.Order {
	return domain.Order{
		ID:          uuid.NewString(),
		UserID:      userID,
		OrderNumber: number,
		Status:      status,
		AmountMinor: amount,
		OrderDate:   date.UTC().Truncate(time.Microsecond),
		Version:     0,
		UpdatedAt:   date.UTC().Truncate(time.Microsecond),
	}
}

func TestOrderRepository_Integration_CreateWithItems(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := newIntegrationOrder("user-1", "ORD-1001", domain.OrderStatusPending, 15000, now)
	order.Items = []domain.OrderItem{
		{ID: uuid.NewString(), ProductID: "product-1", Qty: 2, PriceMinor: 7500, CreatedAt: now},
		{ID: uuid.NewString(), ProductID: "product-2", Qty: 1, PriceMinor: 0, CreatedAt: now.Add(time.Millisecond)},
	}

	if err := repo.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	got, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if got.Items[0].ProductID != "product-1" {
		t.Fatalf("expected items in creation order, got %+v", got.Items)
	}

	byNumber, err := repo.GetByNumber("ORD-1001")
	if err != nil || byNumber.ID != order.ID {
		t.Fatalf("get by number: %v, %+v", err, byNumber)
	}

	dup := newIntegrationOrder("user-2", "ORD-1001", domain.OrderStatusPending, 100, now)
	if err := repo.Create(dup); !errors.Is(err, domain.ErrOrderNumberTaken) {
		t.Fatalf("expected ErrOrderNumberTaken, got %v", err)
	}
}

func TestOrderRepository_Integration_SaveKeepsItems(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	now := time.Now().UTC().Truncate(time.Microsecond)
	order := newIntegrationOrder("user-1", "ORD-1", domain.OrderStatusPending, 100, now)
	order.Items = []domain.OrderItem{
		{ID: uuid.NewString(), ProductID: "product-1", Qty: 1, PriceMinor: 100, CreatedAt: now},
	}
	if err := repo.Create(order); err != nil {
		t.Fatalf("create order: %v", err)
	}

	stored, _ := repo.Get(order.ID)
	stored.Status = domain.OrderStatusCancelled
	stored.UpdatedAt = time.Now().UTC()
	if err := repo.Save(stored); err != nil {
		t.Fatalf("save order: %v", err)
	}

	updated, err := repo.Get(order.ID)
	if err != nil {
		t.Fatalf("get updated order: %v", err)
	}
	if updated.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", updated.Status)
	}
	if updated.Version != stored.Version+1 {
		t.Fatalf("expected version bump, got %d", updated.Version)
	}
	// Позиции неизменяемы после создания.
	if len(updated.Items) != 1 {
		t.Fatalf("expected items preserved, got %d", len(updated.Items))
	}

	stale := stored
	stale.Status = domain.OrderStatusShipped
	if err := repo.Save(stale); !errors.Is(err, domain.ErrVersionConflict) {
		t.Fatalf("expected ErrVersionConflict, got %v", err)
	}

	missing := newIntegrationOrder("user-1", "ORD-404", domain.OrderStatusPending, 100, now)
	if err := repo.Save(missing); !errors.Is(err, domain.ErrOrderNotFound) {
		t.Fatalf("expected ErrOrderNotFound, got %v", err)
	}
}

func TestOrderRepository_Integration_Queries(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	day1 := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	day3 := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)

	seed := []domain.Order{
		newIntegrationOrder("user-1", "ORD-1", domain.OrderStatusDelivered, 100, day1),
		newIntegrationOrder("user-1", "ORD-2", domain.OrderStatusDelivered, 50, day2),
		newIntegrationOrder("user-1", "ORD-3", domain.OrderStatusPending, 999, day3),
		newIntegrationOrder("user-2", "ORD-4", domain.OrderStatusPending, 20, day2),
	}
	for _, order := range seed {
		if err := repo.Create(order); err != nil {
			t.Fatalf("create order %s: %v", order.OrderNumber, err)
		}
	}

	byUser, err := repo.ListByUser("user-1")
	if err != nil || len(byUser) != 3 {
		t.Fatalf("expected 3 orders for user-1, got %d (%v)", len(byUser), err)
	}
	// Новые первыми.
	if byUser[0].OrderNumber != "ORD-3" || byUser[2].OrderNumber != "ORD-1" {
		t.Fatalf("unexpected order of results: %+v", byUser)
	}

	pending, err := repo.ListByStatus(domain.OrderStatusPending)
	if err != nil || len(pending) != 2 {
		t.Fatalf("expected 2 pending, got %d (%v)", len(pending), err)
	}

	// Обе границы включительно.
	inRange, err := repo.ListInDateRange(day1, day2)
	if err != nil || len(inRange) != 3 {
		t.Fatalf("expected 3 in range, got %d (%v)", len(inRange), err)
	}

	big, err := repo.ListWithMinimumAmount(100)
	if err != nil || len(big) != 2 {
		t.Fatalf("expected 2 with amount >= 100, got %d (%v)", len(big), err)
	}

	count, err := repo.CountByUserAndStatus("user-1", domain.OrderStatusDelivered)
	if err != nil || count != 2 {
		t.Fatalf("expected count 2, got %d (%v)", count, err)
	}
}

func TestOrderRepository_Integration_TieBreakByID(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewOrderRepository(store)

	date := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	first := newIntegrationOrder("user-1", "ORD-A", domain.OrderStatusPending, 100, date)
	first.ID = "aaaa"
	second := newIntegrationOrder("user-1", "ORD-B", domain.OrderStatusPending, 100, date)
	second.ID = "bbbb"

	if err := repo.Create(first); err != nil {
		t.Fatalf("create first: %v", err)
	}
	if err := repo.Create(second); err != nil {
		t.Fatalf("create second: %v", err)
	}

	orders, err := repo.ListByUser("user-1")
	if err != nil {
		t.Fatalf("list by user: %v", err)
	}
	// При равных датах — ID по убыванию.
	if orders[0].ID != "bbbb" || orders[1].ID != "aaaa" {
		t.Fatalf("unexpected tie-break order: %+v", orders)
	}
}

func TestTimelineRepository_Integration(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewTimelineRepository(store)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	events := []domain.TimelineEvent{
		{OrderID: "order-1", Type: "OrderCreated", Reason: "pending", Occurred: base},
		{OrderID: "order-1", Type: "OrderCancelled", Reason: "cancelled", Occurred: base.Add(time.Hour)},
		{OrderID: "order-2", Type: "OrderCreated", Reason: "pending", Occurred: base},
	}
	for _, event := range events {
		if err := repo.Append(event); err != nil {
			t.Fatalf("append event: %v", err)
		}
	}

	list, err := repo.List("order-1")
	if err != nil {
		t.Fatalf("list events: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("expected 2 events, got %d", len(list))
	}
	if list[0].Type != "OrderCreated" || list[1].Type != "OrderCancelled" {
		t.Fatalf("expected chronological order, got %+v", list)
	}

	empty, err := repo.List("missing")
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty list, got %v (%v)", empty, err)
	}
}
