package postgres

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

func newIntegrationProduct(name, category string, price int64, stock int32) domain.Product {
	now := time.Now().UTC().Truncate(time.Microsecond)
	return domain.Product{
		ID:            uuid.NewString(),
		Name:          name,
		PriceMinor:    price,
		StockQuantity: stock,
		Category:      category,
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func TestProductRepository_Integration_CRUD(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	product := newIntegrationProduct("Keyboard", "peripherals", 450000, 12)
	if err := repo.Create(product); err != nil {
		t.Fatalf("create product: %v", err)
	}

	got, err := repo.Get(product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if got.Name != "Keyboard" || got.PriceMinor != 450000 {
		t.Fatalf("unexpected product: %+v", got)
	}

	got.StockQuantity = 0
	got.UpdatedAt = time.Now().UTC()
	if err := repo.Save(got); err != nil {
		t.Fatalf("save product: %v", err)
	}

	updated, err := repo.Get(product.ID)
	if err != nil {
		t.Fatalf("get updated product: %v", err)
	}
	if updated.StockQuantity != 0 || updated.Version != got.Version+1 {
		t.Fatalf("unexpected updated product: %+v", updated)
	}

	if err := repo.Delete(product.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if _, err := repo.Get(product.ID); !errors.Is(err, domain.ErrProductNotFound) {
		t.Fatalf("expected ErrProductNotFound, got %v", err)
	}
}

func TestProductRepository_Integration_Queries(t *testing.T) {
	store := openPostgresStoreForIntegrationTest(t)
	repo := NewProductRepository(store)

	seed := []domain.Product{
		newIntegrationProduct("Keyboard Pro", "peripherals", 1000, 3),
		newIntegrationProduct("Keyboard Lite", "peripherals", 500, 0),
		newIntegrationProduct("Monitor", "displays", 5000, 1),
		newIntegrationProduct("Mystery box", "", 100, 7),
	}
	for _, product := range seed {
		if err := repo.Create(product); err != nil {
			t.Fatalf("create product %s: %v", product.Name, err)
		}
	}

	byCategory, err := repo.ListByCategory("peripherals")
	if err != nil || len(byCategory) != 2 {
		t.Fatalf("expected 2 peripherals, got %d (%v)", len(byCategory), err)
	}

	available, err := repo.ListAvailable()
	if err != nil || len(available) != 3 {
		t.Fatalf("expected 3 available, got %d (%v)", len(available), err)
	}

	// Порог строгий: остаток 3 не попадает.
	low, err := repo.ListLowStock(3)
	if err != nil || len(low) != 2 {
		t.Fatalf("expected 2 low stock, got %d (%v)", len(low), err)
	}

	// Границы диапазона включительно.
	inRange, err := repo.ListByPriceRange(500, 1000)
	if err != nil || len(inRange) != 2 {
		t.Fatalf("expected 2 in price range, got %d (%v)", len(inRange), err)
	}

	found, err := repo.SearchByName("keyboard")
	if err != nil || len(found) != 2 {
		t.Fatalf("expected 2 keyboards, got %d (%v)", len(found), err)
	}

	categories, err := repo.Categories()
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	// Пустая категория не попадает в список, порядок алфавитный.
	if !reflect.DeepEqual(categories, []string{"displays", "peripherals"}) {
		t.Fatalf("unexpected categories: %v", categories)
	}
}
