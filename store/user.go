package store

import (
	"github.com/google/uuid"

	"github.com/huddleup-app/huddleup-api/models"
)

// UserStore contains the identity operations backed by the shared store
type UserStore interface {
	Insert(fullName, email string) (models.User, error)
	FindByCredentials(fullName, email string) (models.User, error)
	FindByFullName(fullName string) (models.User, error)
	FindByID(id string) (models.User, error)
}

type userStore struct {
	s *Store
}

// NewUserStore initializes a new instance of user store with the provided shared store
func NewUserStore(s *Store) UserStore {
	return &userStore{s: s}
}

// Insert registers a new user. Email is unique across users; the id is
// allocated here and never changes.
func (u *userStore) Insert(fullName, email string) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, existing := range u.s.users {
		if existing.Email == email {
			return models.User{}, ErrDuplicateEmail
		}
	}

	user := models.User{
		ID:       uuid.New().String(),
		FullName: fullName,
		Email:    email,
	}
	u.s.users = append(u.s.users, user)
	return user, nil
}

// FindByCredentials matches the exact (fullName, email) pair. There is no
// password in this trust model, the weak scheme is intentional.
func (u *userStore) FindByCredentials(fullName, email string) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, user := range u.s.users {
		if user.FullName == fullName && user.Email == email {
			return user, nil
		}
	}
	return models.User{}, ErrInvalidCredentials
}

func (u *userStore) FindByFullName(fullName string) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, user := range u.s.users {
		if user.FullName == fullName {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}

func (u *userStore) FindByID(id string) (models.User, error) {
	u.s.mu.Lock()
	defer u.s.mu.Unlock()

	for _, user := range u.s.users {
		if user.ID == id {
			return user, nil
		}
	}
	return models.User{}, ErrUserNotFound
}
