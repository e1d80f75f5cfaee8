package domain

import (
	"regexp"
	"time"
)

// Формат email повторяет правило исходной системы: localpart из
// [A-Za-z0-9+_.-], затем @ и непустой домен.
var emailPattern = regexp.MustCompile(`^[A-Za-z0-9+_.-]+@(.+)$`)

// ValidEmail проверяет email на соответствие формату localpart@domain.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

const minUsernameLength = 3

// User описывает учётную запись клиента магазина.
type User struct {
	ID        string
	Username  string
	Email     string
	FirstName string
	LastName  string
	Active    bool
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateInvariants проверяет локальные инварианты пользователя.
// Уникальность username/email требует обращения к хранилищу и проверяется
// на уровне сервиса.
func (u *User) ValidateInvariants() []error {
	var errs []error

	switch {
	case u.Username == "":
		errs = append(errs, ErrUsernameRequired)
	case len(u.Username) < minUsernameLength:
		errs = append(errs, ErrUsernameTooShort)
	}

	if u.FirstName == "" || u.LastName == "" {
		errs = append(errs, ErrNameRequired)
	}

	switch {
	case u.Email == "":
		errs = append(errs, ErrEmailRequired)
	case !ValidEmail(u.Email):
		errs = append(errs, ErrEmailInvalid)
	}

	return errs
}
