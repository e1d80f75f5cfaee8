package domain

import "time"

// UserRepository описывает требования к хранилищу пользователей.
type UserRepository interface {
	// Create сохраняет нового пользователя. Возвращает ErrUsernameTaken или
	// ErrEmailTaken при нарушении уникальности.
	Create(user User) error
	// Get возвращает пользователя по идентификатору или ErrUserNotFound.
	Get(id string) (User, error)
	// GetByUsername возвращает пользователя по имени или ErrUserNotFound.
	GetByUsername(username string) (User, error)
	// GetByEmail возвращает пользователя по email или ErrUserNotFound.
	GetByEmail(email string) (User, error)
	// List возвращает всех пользователей, отсортированных по дате создания.
	List() ([]User, error)
	// ListActive возвращает только активных пользователей.
	ListActive() ([]User, error)
	// SearchByName ищет по подстроке имени или фамилии без учёта регистра.
	SearchByName(name string) ([]User, error)
	// ExistsByUsername проверяет занятость имени пользователя.
	ExistsByUsername(username string) (bool, error)
	// ExistsByEmail проверяет занятость email.
	ExistsByEmail(email string) (bool, error)
	// Save применяет обновления к пользователю с учётом optimistic locking.
	Save(user User) error
	// Delete безусловно удаляет пользователя; отсутствие записи — ErrUserNotFound.
	Delete(id string) error
}

// ProductRepository описывает требования к хранилищу товаров.
type ProductRepository interface {
	Create(product Product) error
	Get(id string) (Product, error)
	List() ([]Product, error)
	// ListByCategory возвращает товары указанной категории.
	ListByCategory(category string) ([]Product, error)
	// ListAvailable возвращает товары с положительным остатком.
	ListAvailable() ([]Product, error)
	// ListLowStock возвращает товары с остатком строго меньше порога.
	ListLowStock(threshold int32) ([]Product, error)
	// ListByPriceRange возвращает товары с ценой в [minMinor, maxMinor].
	// Валидация диапазона выполняется на уровне сервиса.
	ListByPriceRange(minMinor, maxMinor int64) ([]Product, error)
	// SearchByName ищет по подстроке названия без учёта регистра.
	SearchByName(name string) ([]Product, error)
	// Categories возвращает отсортированный список непустых категорий без дублей.
	Categories() ([]string, error)
	Save(product Product) error
	Delete(id string) error
}

// OrderRepository описывает требования к хранилищу заказов.
type OrderRepository interface {
	// Create сохраняет новый заказ вместе с позициями.
	// Возвращает ErrOrderNumberTaken, если номер заказа уже занят.
	Create(order Order) error
	// Get возвращает заказ по идентификатору или ErrOrderNotFound.
	Get(id string) (Order, error)
	// GetByNumber возвращает заказ по номеру или ErrOrderNotFound.
	GetByNumber(orderNumber string) (Order, error)
	List() ([]Order, error)
	// ListByUser возвращает все заказы пользователя, новые первыми.
	// Порядок детерминирован: OrderDate по убыванию, затем ID по убыванию.
	ListByUser(userID string) ([]Order, error)
	// ListByStatus возвращает заказы в указанном статусе.
	ListByStatus(status OrderStatus) ([]Order, error)
	// ListInDateRange возвращает заказы с OrderDate в [from, to] включительно.
	ListInDateRange(from, to time.Time) ([]Order, error)
	// ListWithMinimumAmount возвращает заказы с суммой >= minMinor.
	ListWithMinimumAmount(minMinor int64) ([]Order, error)
	// CountByUserAndStatus считает заказы пользователя в указанном статусе.
	CountByUserAndStatus(userID string, status OrderStatus) (int64, error)
	// Save применяет обновления к заказу с учётом optimistic locking.
	// Позиции заказа неизменяемы после создания.
	Save(order Order) error
}
