// Package service реализует бизнес-логику сервиса ланчонете.
package service

import (
	"context"
	"fmt"
	"io"

	"github.com/mmeshcher/lanchonete/internal/auth"
	"github.com/mmeshcher/lanchonete/internal/catalog"
	"github.com/mmeshcher/lanchonete/internal/ledger"
	"github.com/mmeshcher/lanchonete/internal/model"
	"github.com/mmeshcher/lanchonete/internal/session"
)

// Service связывает аутентификацию, меню, сессии с корзинами и журнал заказов.
type Service struct {
	auth     auth.Provider
	catalog  *catalog.Catalog
	ledger   *ledger.Ledger
	sessions *session.Manager
	closers  []io.Closer
}

// NewService создаёт сервис. Журнал и менеджер сессий принадлежат сервису.
func NewService(provider auth.Provider, menu *catalog.Catalog, orders *ledger.Ledger, closers ...io.Closer) *Service {
	return &Service{
		auth:     provider,
		catalog:  menu,
		ledger:   orders,
		sessions: session.NewManager(orders),
		closers:  closers,
	}
}

// Close закрывает ресурсы сервиса.
func (s *Service) Close() error {
	for _, c := range s.closers {
		if c == nil {
			continue
		}
		if err := c.Close(); err != nil {
			return err
		}
	}
	return nil
}

// Register регистрирует пользователя и открывает для него сессию.
func (s *Service) Register(ctx context.Context, email, password string) (string, error) {
	id, err := s.auth.SignUp(ctx, email, password)
	if err != nil {
		return "", err
	}
	s.sessions.Start(id)
	return id, nil
}

// Login выполняет вход и открывает сессию с пустой корзиной.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	id, err := s.auth.SignIn(ctx, email, password)
	if err != nil {
		return "", err
	}
	s.sessions.Start(id)
	return id, nil
}

// Logout закрывает сессию пользователя. Корзина сбрасывается даже при ошибке провайдера.
func (s *Service) Logout(ctx context.Context, userID string) error {
	s.sessions.End(userID)
	if err := s.auth.SignOut(ctx, userID); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Menu возвращает товары меню.
func (s *Service) Menu() []model.Product {
	return s.catalog.All()
}

// Cart возвращает корзину и шаг оформления.
func (s *Service) Cart(userID string) (session.View, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.View{}, err
	}
	return sess.View(), nil
}

// AddToCart кладёт товар меню в корзину.
func (s *Service) AddToCart(userID, productID string) (session.View, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.View{}, err
	}

	p, err := s.catalog.Find(productID)
	if err != nil {
		return session.View{}, err
	}

	return sess.AddItem(p), nil
}

// RemoveFromCart удаляет позицию корзины по индексу.
func (s *Service) RemoveFromCart(userID string, index int) (session.View, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.View{}, err
	}
	return sess.RemoveItem(index)
}

// ClearCart очищает корзину.
func (s *Service) ClearCart(userID string) (session.View, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.View{}, err
	}
	return sess.ClearCart(), nil
}

// Review переводит к итогам заказа.
func (s *Service) Review(userID string) (session.View, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.View{}, err
	}
	return sess.Review(), nil
}

// RequestPayment переводит к выбору способа оплаты.
func (s *Service) RequestPayment(userID string) (session.View, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return session.View{}, err
	}
	return sess.RequestPayment()
}

// Pay оформляет заказ выбранным способом оплаты.
func (s *Service) Pay(userID, method string) (model.Order, error) {
	sess, err := s.sessions.Get(userID)
	if err != nil {
		return model.Order{}, err
	}
	return sess.Pay(method)
}

// Orders возвращает историю заказов пользователя от старых к новым.
func (s *Service) Orders(userID string) ([]model.Order, error) {
	if _, err := s.sessions.Get(userID); err != nil {
		return nil, err
	}
	return s.ledger.ListByUser(userID), nil
}
