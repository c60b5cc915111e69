// Package auth реализует вход, регистрацию и выход пользователей.
package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidCredentials возвращается при неверной паре email/пароль.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserExists возвращается при регистрации уже существующего email.
	ErrUserExists = errors.New("user already exists")
)

// Provider — внешний сервис аутентификации.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (string, error)
	SignUp(ctx context.Context, email, password string) (string, error)
	SignOut(ctx context.Context, userID string) error
}
