package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// productRepositoryInMemory — простая in-memory реализация ProductRepository.
type productRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.Product
}

// NewProductRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewProductRepository() domain.ProductRepository {
	return &productRepositoryInMemory{
		items: make(map[string]domain.Product),
	}
}

func (r *productRepositoryInMemory) Create(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[product.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[product.ID] = product
	return nil
}

// Get возвращает товар или ErrProductNotFound, если его нет.
func (r *productRepositoryInMemory) Get(id string) (domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.items[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return product, nil
}

func (r *productRepositoryInMemory) List() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(domain.Product) bool { return true }), nil
}

func (r *productRepositoryInMemory) ListByCategory(category string) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p domain.Product) bool { return p.Category == category }), nil
}

func (r *productRepositoryInMemory) ListAvailable() ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p domain.Product) bool { return p.StockQuantity > 0 }), nil
}

// ListLowStock возвращает товары с остатком строго меньше порога.
func (r *productRepositoryInMemory) ListLowStock(threshold int32) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p domain.Product) bool { return p.StockQuantity < threshold }), nil
}

// ListByPriceRange возвращает товары с ценой в [minMinor, maxMinor] включительно.
func (r *productRepositoryInMemory) ListByPriceRange(minMinor, maxMinor int64) ([]domain.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p domain.Product) bool {
		return p.PriceMinor >= minMinor && p.PriceMinor <= maxMinor
	}), nil
}

// SearchByName ищет по подстроке названия без учёта регистра.
func (r *productRepositoryInMemory) SearchByName(name string) ([]domain.Product, error) {
	needle := strings.ToLower(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(p domain.Product) bool {
		return strings.Contains(strings.ToLower(p.Name), needle)
	}), nil
}

// Categories возвращает отсортированный список непустых категорий без дублей.
func (r *productRepositoryInMemory) Categories() ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, product := range r.items {
		if product.Category == "" {
			continue
		}
		seen[product.Category] = struct{}{}
	}

	categories := make([]string, 0, len(seen))
	for category := range seen {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	return categories, nil
}

// Save перезаписывает товар, проверяя версию (optimistic locking).
func (r *productRepositoryInMemory) Save(product domain.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[product.ID]
	if !ok {
		return domain.ErrProductNotFound
	}
	if current.Version != product.Version {
		return domain.ErrVersionConflict
	}
	product.Version++
	r.items[product.ID] = product
	return nil
}

func (r *productRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrProductNotFound
	}
	delete(r.items, id)
	return nil
}

// collect вызывается под взятым read-lock.
func (r *productRepositoryInMemory) collect(keep func(domain.Product) bool) []domain.Product {
	result := make([]domain.Product, 0, len(r.items))
	for _, product := range r.items {
		if keep(product) {
			result = append(result, product)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		if !result[i].CreatedAt.Equal(result[j].CreatedAt) {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[i].ID < result[j].ID
	})

	return result
}

var _ domain.ProductRepository = (*productRepositoryInMemory)(nil)
