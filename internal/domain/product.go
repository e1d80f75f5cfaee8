package domain

import "time"

// Product описывает позицию каталога.
type Product struct {
	ID          string
	Name        string
	Description string
	// PriceMinor — цена в минимальных денежных единицах.
	PriceMinor int64
	// StockQuantity — текущий остаток на складе, не бывает отрицательным.
	StockQuantity int32
	Category      string
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// ValidateInvariants проверяет базовые инварианты товара.
func (p *Product) ValidateInvariants() []error {
	var errs []error

	if p.Name == "" {
		errs = append(errs, ErrProductNameRequired)
	}
	if p.PriceMinor < 0 {
		errs = append(errs, ErrPriceNegative)
	}
	if p.StockQuantity < 0 {
		errs = append(errs, ErrStockNegative)
	}

	return errs
}

// Available сообщает, есть ли товар в наличии.
func (p *Product) Available() bool {
	return p.StockQuantity > 0
}
