package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/lanchonete/internal/model"
)

// MemoryRepository хранит учётные записи в памяти процесса. Используется без DATABASE_URI.
type MemoryRepository struct {
	mu      sync.RWMutex
	byEmail map[string]model.User
}

// NewMemoryRepository создаёт пустое хранилище.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		byEmail: make(map[string]model.User),
	}
}

// Close ничего не освобождает.
func (r *MemoryRepository) Close() error {
	return nil
}

// CreateUser создаёт нового пользователя.
func (r *MemoryRepository) CreateUser(_ context.Context, email string, passwordHash []byte) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byEmail[email]; ok {
		return "", fmt.Errorf("%w: %s", ErrUserExists, email)
	}

	u := model.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: append([]byte(nil), passwordHash...),
		CreatedAt:    time.Now(),
	}
	r.byEmail[email] = u

	return u.ID, nil
}

// GetUserByEmail возвращает пользователя по email.
func (r *MemoryRepository) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	return &u, nil
}
