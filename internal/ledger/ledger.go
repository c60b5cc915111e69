// Package ledger хранит историю оформленных заказов в памяти процесса.
package ledger

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/mmeshcher/lanchonete/internal/model"
)

// Ledger — журнал заказов только на добавление. Безопасен для конкурентного использования.
type Ledger struct {
	mu     sync.RWMutex
	orders []model.Order
	now    func() time.Time
	newID  func() string
}

// Option настраивает Ledger.
type Option func(*Ledger)

// WithClock задаёт источник времени для CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) {
		l.now = now
	}
}

// WithIDGenerator задаёт генератор идентификаторов заказов.
func WithIDGenerator(gen func() string) Option {
	return func(l *Ledger) {
		l.newID = gen
	}
}

// New создаёт пустой журнал.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		now:   time.Now,
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Append записывает заказ из снимка корзины и возвращает его.
func (l *Ledger) Append(userID string, items []model.LineItem, total int64, method model.PaymentMethod) (model.Order, error) {
	if _, err := model.ParsePaymentMethod(string(method)); err != nil {
		return model.Order{}, fmt.Errorf("append order: %w", err)
	}

	order := model.Order{
		ID:            l.newID(),
		UserID:        userID,
		Items:         cloneItems(items),
		Total:         total,
		PaymentMethod: method,
	}

	l.mu.Lock()
	order.CreatedAt = l.now()
	l.orders = append(l.orders, order)
	l.mu.Unlock()

	return cloneOrder(order), nil
}

// List возвращает все заказы от старых к новым.
func (l *Ledger) List() []model.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	res := make([]model.Order, 0, len(l.orders))
	for _, o := range l.orders {
		res = append(res, cloneOrder(o))
	}
	return res
}

// ListByUser возвращает заказы пользователя от старых к новым.
func (l *Ledger) ListByUser(userID string) []model.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var res []model.Order
	for _, o := range l.orders {
		if o.UserID == userID {
			res = append(res, cloneOrder(o))
		}
	}
	return res
}

// Len возвращает количество заказов в журнале.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.orders)
}

func cloneOrder(o model.Order) model.Order {
	o.Items = cloneItems(o.Items)
	return o
}

func cloneItems(items []model.LineItem) []model.LineItem {
	res := make([]model.LineItem, len(items))
	copy(res, items)
	return res
}
