package domain

import "errors"

var (
	// ErrUserNotFound возвращается, если пользователь не найден в репозитории.
	ErrUserNotFound = errors.New("user not found")
	// ErrProductNotFound возвращается, если товар не найден в репозитории.
	ErrProductNotFound = errors.New("product not found")
	// ErrOrderNotFound возвращается, если заказ не найден в репозитории.
	ErrOrderNotFound = errors.New("order not found")

	// Ошибка отсутствующего имени пользователя.
	ErrUsernameRequired = errors.New("username is required")
	// Ошибка слишком короткого имени пользователя (< 3 символов).
	ErrUsernameTooShort = errors.New("username must be at least 3 characters")
	// Ошибка пустого имени или фамилии.
	ErrNameRequired = errors.New("first name and last name are required")
	// Ошибка отсутствующего email.
	ErrEmailRequired = errors.New("email is required")
	// Ошибка email, не соответствующего формату localpart@domain.
	ErrEmailInvalid = errors.New("email format is invalid")
	// ErrEmailInUse — email уже закреплён за другим пользователем (при смене email).
	ErrEmailInUse = errors.New("email already in use")
	// ErrUserInactive — пользователь уже деактивирован.
	ErrUserInactive = errors.New("user is already inactive")

	// ErrUsernameTaken — имя пользователя занято (конфликт при создании).
	ErrUsernameTaken = errors.New("username already exists")
	// ErrEmailTaken — email занят (конфликт при создании).
	ErrEmailTaken = errors.New("email already exists")
	// ErrOrderNumberTaken — номер заказа занят (конфликт при создании).
	ErrOrderNumberTaken = errors.New("order number already exists")

	// Ошибка отрицательной цены товара.
	ErrPriceNegative = errors.New("price must be non-negative")
	// Ошибка отрицательного остатка на складе.
	ErrStockNegative = errors.New("stock quantity must be non-negative")
	// Ошибка отсутствующего названия товара.
	ErrProductNameRequired = errors.New("product name is required")

	// Ошибки валидации ценового диапазона: каждое правило сообщает о себе отдельно.
	ErrMinPriceNegative   = errors.New("min price must be non-negative")
	ErrMaxPriceNegative   = errors.New("max price must be non-negative")
	ErrPriceRangeInverted = errors.New("min price must not exceed max price")

	// Ошибки валидации диапазона дат.
	ErrDateRangeRequired = errors.New("start date and end date are required")
	ErrDateRangeInverted = errors.New("start date must not be after end date")

	// Ошибка отсутствующего идентификатора пользователя у заказа.
	ErrOrderUserRequired = errors.New("user_id is required")
	// Ошибка отсутствующего номера заказа.
	ErrOrderNumberRequired = errors.New("order number is required")
	// Ошибка неположительной суммы заказа.
	ErrAmountNotPositive = errors.New("total amount must be greater than zero")
	// Ошибка при некорректном количестве товара в позиции (<= 0).
	ErrItemQtyInvalid = errors.New("item qty must be greater than zero")
	// Ошибка отрицательной цены позиции.
	ErrItemPriceInvalid = errors.New("item price must be non-negative")
	// Ошибка неизвестного статуса заказа.
	ErrOrderStatusInvalid = errors.New("unknown order status")

	// ErrOrderNotCancellable — заказ нельзя отменить из текущего статуса.
	// Сервис оборачивает ошибку текущим статусом, см. orders.Service.Cancel.
	ErrOrderNotCancellable = errors.New("order cannot be cancelled in current state")

	// ErrLimitNotPositive — лимит выборки должен быть положительным.
	ErrLimitNotPositive = errors.New("limit must be positive")

	// ErrVersionConflict сигнализирует о конфликте версий при сохранении записи.
	ErrVersionConflict = errors.New("record version conflict")
)

// IsNotFound сообщает, относится ли ошибка к категории "запись отсутствует".
func IsNotFound(err error) bool {
	return errors.Is(err, ErrUserNotFound) ||
		errors.Is(err, ErrProductNotFound) ||
		errors.Is(err, ErrOrderNotFound)
}

// IsConflict сообщает о нарушении уникальности при создании записи.
func IsConflict(err error) bool {
	return errors.Is(err, ErrUsernameTaken) ||
		errors.Is(err, ErrEmailTaken) ||
		errors.Is(err, ErrOrderNumberTaken)
}

// IsInvalidState сообщает, что запрошенный переход невозможен из текущего состояния.
func IsInvalidState(err error) bool {
	return errors.Is(err, ErrOrderNotCancellable) ||
		errors.Is(err, ErrUserInactive)
}

// IsInvalidArgument сообщает о некорректных входных данных запроса.
// Все нарушения обнаруживаются до применения мутаций.
func IsInvalidArgument(err error) bool {
	switch {
	case errors.Is(err, ErrUsernameRequired),
		errors.Is(err, ErrUsernameTooShort),
		errors.Is(err, ErrNameRequired),
		errors.Is(err, ErrEmailRequired),
		errors.Is(err, ErrEmailInvalid),
		errors.Is(err, ErrEmailInUse),
		errors.Is(err, ErrPriceNegative),
		errors.Is(err, ErrStockNegative),
		errors.Is(err, ErrProductNameRequired),
		errors.Is(err, ErrMinPriceNegative),
		errors.Is(err, ErrMaxPriceNegative),
		errors.Is(err, ErrPriceRangeInverted),
		errors.Is(err, ErrDateRangeRequired),
		errors.Is(err, ErrDateRangeInverted),
		errors.Is(err, ErrOrderUserRequired),
		errors.Is(err, ErrOrderNumberRequired),
		errors.Is(err, ErrAmountNotPositive),
		errors.Is(err, ErrItemQtyInvalid),
		errors.Is(err, ErrItemPriceInvalid),
		errors.Is(err, ErrOrderStatusInvalid),
		errors.Is(err, ErrLimitNotPositive):
		return true
	}
	return false
}

// IsVersionConflict проверяет, является ли ошибка конфликтом версий.
func IsVersionConflict(err error) bool {
	return errors.Is(err, ErrVersionConflict)
}
