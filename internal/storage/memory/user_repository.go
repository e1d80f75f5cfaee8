package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/vladislavdragonenkov/storefront/internal/domain"
)

// userRepositoryInMemory — простая in-memory реализация UserRepository.
type userRepositoryInMemory struct {
	mu    sync.RWMutex
	items map[string]domain.User
}

// NewUserRepository возвращает in-memory репозиторий для локальной разработки и тестов.
func NewUserRepository() domain.UserRepository {
	return &userRepositoryInMemory{
		items: make(map[string]domain.User),
	}
}

// Create сохраняет нового пользователя, проверяя уникальность username и email.
func (r *userRepositoryInMemory) Create(user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.items {
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	if _, exists := r.items[user.ID]; exists {
		return domain.ErrVersionConflict
	}
	r.items[user.ID] = user
	return nil
}

// Get возвращает пользователя или ErrUserNotFound, если его нет.
func (r *userRepositoryInMemory) Get(id string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.items[id]
	if !ok {
		return domain.User{}, domain.ErrUserNotFound
	}
	return user, nil
}

func (r *userRepositoryInMemory) GetByUsername(username string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.items {
		if user.Username == username {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

func (r *userRepositoryInMemory) GetByEmail(email string) (domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.items {
		if user.Email == email {
			return user, nil
		}
	}
	return domain.User{}, domain.ErrUserNotFound
}

// List возвращает всех пользователей, старые записи первыми.
func (r *userRepositoryInMemory) List() ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(domain.User) bool { return true }), nil
}

func (r *userRepositoryInMemory) ListActive() ([]domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(u domain.User) bool { return u.Active }), nil
}

// SearchByName ищет по подстроке имени или фамилии без учёта регистра.
func (r *userRepositoryInMemory) SearchByName(name string) ([]domain.User, error) {
	needle := strings.ToLower(name)

	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.collect(func(u domain.User) bool {
		return strings.Contains(strings.ToLower(u.FirstName), needle) ||
			strings.Contains(strings.ToLower(u.LastName), needle)
	}), nil
}

func (r *userRepositoryInMemory) ExistsByUsername(username string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.items {
		if user.Username == username {
			return true, nil
		}
	}
	return false, nil
}

func (r *userRepositoryInMemory) ExistsByEmail(email string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, user := range r.items {
		if user.Email == email {
			return true, nil
		}
	}
	return false, nil
}

// Save перезаписывает пользователя, проверяя версию (optimistic locking).
func (r *userRepositoryInMemory) Save(user domain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[user.ID]
	if !ok {
		return domain.ErrUserNotFound
	}
	if current.Version != user.Version {
		return domain.ErrVersionConflict
	}
	for _, existing := range r.items {
		if existing.ID == user.ID {
			continue
		}
		if existing.Username == user.Username {
			return domain.ErrUsernameTaken
		}
		if existing.Email == user.Email {
			return domain.ErrEmailTaken
		}
	}
	// Инкрементируем версию перед сохранением.
	user.Version++
	r.items[user.ID] = user
	return nil
}

// Delete удаляет пользователя без дополнительных проверок.
func (r *userRepositoryInMemory) Delete(id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.items[id]; !ok {
		return domain.ErrUserNotFound
	}
	delete(r.items, id)
	return nil
}

// collect вызывается под взятым read-lock.
func (r *userRepositoryInMemory) collect(keep func(domain.User) bool) []domain.User {
	result := make([]domain.User, 0, len(r.items))
	for _, user := range r.items {
		if keep(user) {
			result = append(result, user)
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

var _ domain.UserRepository = (*userRepositoryInMemory)(nil)
