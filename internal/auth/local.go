package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmeshcher/lanchonete/internal/model"
	"github.com/mmeshcher/lanchonete/internal/repository"
)

// UserRepository описывает хранилище учётных записей.
type UserRepository interface {
	CreateUser(ctx context.Context, email string, passwordHash []byte) (string, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
}

// LocalProvider проверяет пароли по bcrypt-хешам из репозитория.
type LocalProvider struct {
	repo UserRepository
	cost int
}

// NewLocalProvider создаёт провайдер поверх репозитория учётных записей.
func NewLocalProvider(repo UserRepository) *LocalProvider {
	return &LocalProvider{
		repo: repo,
		cost: bcrypt.DefaultCost,
	}
}

// SignUp регистрирует пользователя.
func (p *LocalProvider) SignUp(ctx context.Context, email, password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), p.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	id, err := p.repo.CreateUser(ctx, email, hash)
	if err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return "", ErrUserExists
		}
		return "", err
	}
	return id, nil
}

// SignIn проверяет email и пароль и возвращает идентификатор пользователя.
func (p *LocalProvider) SignIn(ctx context.Context, email, password string) (string, error) {
	u, err := p.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	return u.ID, nil
}

// SignOut для локальных учётных записей ничего не делает.
func (p *LocalProvider) SignOut(context.Context, string) error {
	return nil
}
