// Package session связывает корзину и оформление заказа с вошедшим пользователем.
package session

import (
	"errors"
	"fmt"
	"sync"

	"github.com/mmeshcher/lanchonete/internal/cart"
	"github.com/mmeshcher/lanchonete/internal/checkout"
	"github.com/mmeshcher/lanchonete/internal/model"
)

// ErrNoSession возвращается, если у пользователя нет активной сессии.
var ErrNoSession = errors.New("no active session")

// OrderLedger описывает журнал, в который сессия записывает оформленные заказы.
type OrderLedger interface {
	Append(userID string, items []model.LineItem, total int64, method model.PaymentMethod) (model.Order, error)
}

// View — состояние сессии для отображения: корзина и шаг оформления.
type View struct {
	Cart  model.CartState
	State checkout.State
}

// Session владеет единственной корзиной пользователя между входом и выходом.
type Session struct {
	UserID string

	mu     sync.Mutex
	cart   *cart.Store
	flow   *checkout.Flow
	ledger OrderLedger
}

func newSession(userID string, ledger OrderLedger) *Session {
	return &Session{
		UserID: userID,
		cart:   cart.New(),
		flow:   checkout.NewFlow(),
		ledger: ledger,
	}
}

func (s *Session) view() View {
	return View{
		Cart:  s.cart.Snapshot(),
		State: s.flow.State(),
	}
}

// View возвращает текущее состояние корзины и оформления.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.view()
}

// AddItem кладёт товар в корзину и возвращает пользователя к выбору товаров.
func (s *Session) AddItem(p model.Product) View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Add(p)
	s.flow.Browse()
	return s.view()
}

// RemoveItem удаляет позицию корзины по индексу.
func (s *Session) RemoveItem(index int) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.cart.Remove(index); err != nil {
		return s.view(), err
	}
	return s.view(), nil
}

// ClearCart очищает корзину.
func (s *Session) ClearCart() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart.Clear()
	s.flow.Browse()
	return s.view()
}

// Review переводит к просмотру итогов заказа.
func (s *Session) Review() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.flow.Proceed()
	return s.view()
}

// RequestPayment переводит к выбору способа оплаты. Пустая корзина блокирует переход.
func (s *Session) RequestPayment() (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.flow.RequestPayment(s.cart.Len()); err != nil {
		return s.view(), err
	}
	return s.view(), nil
}

// Pay оформляет заказ выбранным способом оплаты: записывает снимок корзины
// в журнал, очищает корзину и начинает новый цикл выбора.
func (s *Session) Pay(method string) (model.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.flow.State() != checkout.StatePayingSelecting {
		return model.Order{}, fmt.Errorf("%w: pay from %s", checkout.ErrInvalidTransition, s.flow.State())
	}

	pm, err := model.ParsePaymentMethod(method)
	if err != nil {
		return model.Order{}, err
	}

	if s.cart.Len() == 0 {
		s.flow.Proceed()
		return model.Order{}, checkout.ErrEmptyCart
	}

	snap := s.cart.Snapshot()
	order, err := s.ledger.Append(s.UserID, snap.Items, snap.Total, pm)
	if err != nil {
		return model.Order{}, fmt.Errorf("record order: %w", err)
	}

	if err := s.flow.Finalize(); err != nil {
		return model.Order{}, err
	}
	s.cart.Clear()
	s.flow.Reset()

	return order, nil
}

// Manager хранит активные сессии пользователей.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*Session
	ledger   OrderLedger
}

// NewManager создаёт менеджер сессий, записывающих заказы в ledger.
func NewManager(ledger OrderLedger) *Manager {
	return &Manager{
		sessions: make(map[string]*Session),
		ledger:   ledger,
	}
}

// Start открывает новую сессию с пустой корзиной, заменяя предыдущую.
func (m *Manager) Start(userID string) *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := newSession(userID, m.ledger)
	m.sessions[userID] = s
	return s
}

// Get возвращает активную сессию пользователя.
func (m *Manager) Get(userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[userID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// End закрывает сессию пользователя вместе с корзиной.
func (m *Manager) End(userID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, userID)
}

// Len возвращает количество активных сессий.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
