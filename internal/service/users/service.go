package users

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// Service реализует правила управления учётными записями.
type Service struct {
	repo   domain.UserRepository
	logger *log.Entry
}

// NewService конструирует сервис пользователей.
func NewService(repo domain.UserRepository, logger *log.Entry) *Service {
	if logger == nil {
		logger = log.New().WithField("component", "user-service")
	}
	return &Service{repo: repo, logger: logger}
}

// NewUser описывает входные данные регистрации.
type NewUser struct {
	Username  string
	Email     string
	FirstName string
	LastName  string
}

// UserUpdate описывает изменяемые поля профиля, включая флаг
// активности: это единственный путь вернуть деактивированного
// пользователя в строй. Username и email меняются отдельными
// операциями и здесь не участвуют.
type UserUpdate struct {
	FirstName string
	LastName  string
	Active    bool
}

// Create регистрирует пользователя. Новая учётная запись активна.
func (s *Service) Create(input NewUser) (domain.User, error) {
	now := time.Now().UTC()
	user := domain.User{
		ID:        uuid.NewString(),
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		Active:    true,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if errs := user.ValidateInvariants(); len(errs) > 0 {
		return domain.User{}, errs[0]
	}

	if err := s.repo.Create(user); err != nil {
		if domain.IsConflict(err) {
			return domain.User{}, err
		}
		s.logger.WithError(err).Error("failed to create user")
		return domain.User{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.WithFields(log.Fields{
		"user_id":  user.ID,
		"username": user.Username,
	}).Info("user registered")

	return user, nil
}

// Get возвращает пользователя по идентификатору.
func (s *Service) Get(id string) (domain.User, error) {
	return s.repo.Get(id)
}

// GetByUsername возвращает пользователя по имени учётной записи.
func (s *Service) GetByUsername(username string) (domain.User, error) {
	return s.repo.GetByUsername(username)
}

// List возвращает всех пользователей.
func (s *Service) List() ([]domain.User, error) {
	return s.repo.List()
}

// ListActive возвращает только активных пользователей.
func (s *Service) ListActive() ([]domain.User, error) {
	return s.repo.ListActive()
}

// SearchByName ищет пользователей по подстроке имени или фамилии
// без учёта регистра.
func (s *Service) SearchByName(query string) ([]domain.User, error) {
	return s.repo.SearchByName(query)
}

// Update перезаписывает имя, фамилию и флаг активности пользователя.
func (s *Service) Update(id string, input UserUpdate) (domain.User, error) {
	user, err := s.repo.Get(id)
	if err != nil {
		return domain.User{}, err
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	user.Active = input.Active
	user.UpdatedAt = time.Now().UTC()

	if errs := user.ValidateInvariants(); len(errs) > 0 {
		return domain.User{}, errs[0]
	}

	if err := s.repo.Save(user); err != nil {
		s.logger.WithError(err).WithField("user_id", id).Error("failed to save user")
		return domain.User{}, err
	}

	return s.repo.Get(id)
}

// Delete удаляет пользователя.
func (s *Service) Delete(id string) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.logger.WithField("user_id", id).Info("user deleted")
	return nil
}

// Validate агрегирует правила полей кандидата в один булев ответ:
// длина username, непустые имя и фамилия, формат email, незанятость
// username и email. Кандидат не сохраняется, нарушение — не ошибка,
// а отрицательный ответ.
func (s *Service) Validate(input NewUser) (bool, error) {
	candidate := domain.User{
		Username:  input.Username,
		Email:     input.Email,
		FirstName: input.FirstName,
		LastName:  input.LastName,
	}
	if len(candidate.ValidateInvariants()) > 0 {
		return false, nil
	}

	usernameTaken, err := s.repo.ExistsByUsername(input.Username)
	if err != nil {
		return false, fmt.Errorf("check username: %w", err)
	}
	if usernameTaken {
		return false, nil
	}

	emailTaken, err := s.repo.ExistsByEmail(input.Email)
	if err != nil {
		return false, fmt.Errorf("check email: %w", err)
	}
	return !emailTaken, nil
}

// Deactivate переводит пользователя в неактивное состояние.
// Повторная деактивация — ошибка состояния.
func (s *Service) Deactivate(id string) (domain.User, error) {
	user, err := s.repo.Get(id)
	if err != nil {
		return domain.User{}, err
	}

	if !user.Active {
		return domain.User{}, fmt.Errorf("%w: %s", domain.ErrUserInactive, user.ID)
	}

	user.Active = false
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(user); err != nil {
		s.logger.WithError(err).WithField("user_id", id).Error("failed to deactivate user")
		return domain.User{}, err
	}

	s.logger.WithField("user_id", id).Info("user deactivated")
	return s.repo.Get(id)
}

// UpdateEmail меняет email пользователя. Занятый другим пользователем
// адрес отклоняется, собственный текущий адрес принимается повторно.
func (s *Service) UpdateEmail(id, email string) (domain.User, error) {
	user, err := s.repo.Get(id)
	if err != nil {
		return domain.User{}, err
	}

	switch {
	case email == "":
		return domain.User{}, domain.ErrEmailRequired
	case !domain.ValidEmail(email):
		return domain.User{}, domain.ErrEmailInvalid
	}

	if email != user.Email {
		taken, err := s.repo.ExistsByEmail(email)
		if err != nil {
			return domain.User{}, fmt.Errorf("check email: %w", err)
		}
		if taken {
			return domain.User{}, fmt.Errorf("%w: %s", domain.ErrEmailInUse, email)
		}
	}

	user.Email = email
	user.UpdatedAt = time.Now().UTC()
	if err := s.repo.Save(user); err != nil {
		s.logger.WithError(err).WithField("user_id", id).Error("failed to update email")
		return domain.User{}, err
	}

	return s.repo.Get(id)
}
