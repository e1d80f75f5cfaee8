package domain_test

import (
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// helper для создания базового заказа с одной позицией.
func makeOrder() domain.Order {
	now := time.Now().UTC()
	return domain.Order{
		ID:          "order-1",
		UserID:      "user-1",
		OrderNumber: "ORD-0001",
		Status:      domain.OrderStatusPending,
		AmountMinor: 500,
		Items: []domain.OrderItem{
			{
				ID:         "item-1",
				ProductID:  "product-1",
				Qty:        5,
				PriceMinor: 100,
				CreatedAt:  now,
			},
		},
		OrderDate: now,
		Version:   0,
		UpdatedAt: now,
	}
}

func TestOrderValidateInvariants_Ok(t *testing.T) {
	order := makeOrder()
	if errs := order.ValidateInvariants(); len(errs) != 0 {
		t.Fatalf("expected no validation errors, got %v", errs)
	}
}

func TestOrderValidateInvariants_Errors(t *testing.T) {
	cases := []struct {
		name string
		mut  func(o *domain.Order)
	}{
		{
			name: "no user",
			mut: func(o *domain.Order) {
				o.UserID = ""
			},
		},
		{
			name: "no order number",
			mut: func(o *domain.Order) {
				o.OrderNumber = ""
			},
		},
		{
			name: "zero amount",
			mut: func(o *domain.Order) {
				o.AmountMinor = 0
			},
		},
		{
			name: "negative amount",
			mut: func(o *domain.Order) {
				o.AmountMinor = -1
			},
		},
		{
			name: "qty invalid",
			mut: func(o *domain.Order) {
				o.Items[0].Qty = 0
			},
		},
		{
			name: "item price invalid",
			mut: func(o *domain.Order) {
				o.Items[0].PriceMinor = -5
			},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			order := makeOrder()
			// Изменяем состояние согласно сценарию.
			mutOrder := order
			tc.mut(&mutOrder)

			if len(mutOrder.ValidateInvariants()) == 0 {
				t.Fatalf("expected validation errors for case %s", tc.name)
			}
		})
	}
}

func TestOrderCancellable(t *testing.T) {
	cases := []struct {
		status domain.OrderStatus
		want   bool
	}{
		{domain.OrderStatusPending, true},
		{domain.OrderStatusConfirmed, true},
		{domain.OrderStatusShipped, false},
		{domain.OrderStatusDelivered, false},
		{domain.OrderStatusCancelled, false},
	}

	for _, tc := range cases {
		order := makeOrder()
		order.Status = tc.status
		if got := order.Cancellable(); got != tc.want {
			t.Fatalf("status %s: expected cancellable=%v, got %v", tc.status, tc.want, got)
		}
	}
}

func TestOrderStatusTerminal(t *testing.T) {
	terminal := map[domain.OrderStatus]bool{
		domain.OrderStatusPending:   false,
		domain.OrderStatusConfirmed: false,
		domain.OrderStatusShipped:   false,
		domain.OrderStatusDelivered: true,
		domain.OrderStatusCancelled: true,
	}

	for status, want := range terminal {
		if got := status.Terminal(); got != want {
			t.Fatalf("status %s: expected terminal=%v, got %v", status, want, got)
		}
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, raw := range []string{"pending", "confirmed", "shipped", "delivered", "cancelled"} {
		status, err := domain.ParseOrderStatus(raw)
		if err != nil {
			t.Fatalf("parse %q: %v", raw, err)
		}
		if string(status) != raw {
			t.Fatalf("expected %q, got %q", raw, status)
		}
	}

	if _, err := domain.ParseOrderStatus("refunded"); err == nil {
		t.Fatal("expected error for unknown status")
	}
}
