package products

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Service реализует правила управления каталогом товаров.
type Service struct {
	repo   domain.ProductRepository
	logger *log.Entry
}

// NewService конструирует сервис каталога.
func NewService(repo domain.ProductRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "product-service")
	}
	return &Service{repo: repo, logger: logger}
}

// NewProduct описывает входные данные создания товара.
type NewProduct struct {
	Name          string
	Description   string
	PriceMinor    int64
	StockQuantity int32
	Category      string
}

// ProductUpdate описывает изменяемые поля товара. Остаток меняется
// отдельной операцией UpdateStock.
type ProductUpdate struct {
	Name        string
	Description string
	PriceMinor  int64
	Category    string
}

// Create добавляет товар в каталог.
func (s *Service) Create(input NewProduct) (domain.Product, error) {
	now := time.Now().UTC()
	product := domain.Product{
		ID:            uuid.NewString(),
		Name:          input.Name,
		Description:   input.Description,
		PriceMinor:    input.PriceMinor,
		StockQuantity: input.StockQuantity,
		Category:      input.Category,
		Version:       0,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	if err := s.repo.Create(product); err != nil {
		s.logger.WithError(err).Error("failed to create product")
		return domain.Product{}, fmt.Errorf("create product: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"product_id": product.ID,
		"category":   product.Category,
	}).Info("product created")

	return product, nil
}

// Get возвращает товар по идентификатору.
func (s *Service) Get(id string) (domain.Product, error) {
	return s.repo.Get(id)
}

// List возвращает весь каталог.
func (s *Service) List() ([]domain.Product, error) {
	return s.repo.List()
}

// ListByCategory возвращает товары категории.
func (s *Service) ListByCategory(category string) ([]domain.Product, error) {
	return s.repo.ListByCategory(category)
}

// ListAvailable возвращает товары с положительным остатком.
func (s *Service) ListAvailable() ([]domain.Product, error) {
	return s.repo.ListAvailable()
}

// ListLowStock возвращает товары с остатком строго меньше порога.
func (s *Service) ListLowStock(threshold int32) ([]domain.Product, error) {
	return s.repo.ListLowStock(threshold)
}

// ListByPriceRange возвращает товары с ценой в [minMinor, maxMinor].
func (s *Service) ListByPriceRange(minMinor, maxMinor int64) ([]domain.Product, error) {
	switch {
	case minMinor < 0:
		return nil, domain.ErrMinPriceNegative
	case maxMinor < 0:
		return nil, domain.ErrMaxPriceNegative
	case minMinor > maxMinor:
		return nil, domain.ErrPriceRangeInverted
	}
	return s.repo.ListByPriceRange(minMinor, maxMinor)
}

// SearchByName ищет товары по подстроке названия без учёта регистра.
func (s *Service) SearchByName(query string) ([]domain.Product, error) {
	return s.repo.SearchByName(query)
}

// Categories возвращает список различных непустых категорий каталога.
func (s *Service) Categories() ([]string, error) {
	return s.repo.Categories()
}

// Update меняет описательные поля товара.
func (s *Service) Update(id string, input ProductUpdate) (domain.Product, error) {
	product, err := s.repo.Get(id)
	if err != nil {
		return domain.Product{}, err
	}

	product.Name = input.Name
	product.Description = input.Description
	product.PriceMinor = input.PriceMinor
	product.Category = input.Category
	product.UpdatedAt = time.Now().UTC()

	if errs := product.ValidateInvariants(); len(errs) > 0 {
		return domain.Product{}, errs[0]
	}

	if err := s.repo.Save(product); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Error("failed to save product")
		return domain.Product{}, err
	}

	return s.repo.Get(id)
}

// UpdateStock устанавливает остаток товара. Отрицательный остаток
// отклоняется до обращения к хранилищу.
func (s *Service) UpdateStock(id string, quantity int32) (domain.Product, error) {
	if quantity < 0 {
		return domain.Product{}, domain.ErrStockNegative
	}

	product, err := s.repo.Get(id)
	if err != nil {
		return domain.Product{}, err
	}

	product.StockQuantity = quantity
	product.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(product); err != nil {
		s.logger.WithError(err).WithField("product_id", id).Error("failed to update stock")
		return domain.Product{}, err
	}

	return s.repo.Get(id)
}

// Delete удаляет товар из каталога.
func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("product_id", id).Info("product deleted")
	return nil
}
