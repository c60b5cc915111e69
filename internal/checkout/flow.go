// Package checkout описывает конечный автомат оформления заказа.
package checkout

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyCart возвращается при попытке перейти к оплате с пустой корзиной.
	ErrEmptyCart = errors.New("cart is empty")
	// ErrInvalidTransition возвращается, если переход недопустим из текущего состояния.
	ErrInvalidTransition = errors.New("invalid checkout transition")
)

// State — состояние оформления заказа.
type State string

const (
	StateBrowsing        State = "BROWSING"
	StateReviewing       State = "REVIEWING"
	StatePayingSelecting State = "PAYING_SELECTING"
	StateFinalized       State = "FINALIZED"
)

// String возвращает строковое представление состояния.
func (s State) String() string {
	return string(s)
}

// Flow хранит текущее состояние оформления. Побочные эффекты переходов
// (запись заказа, очистка корзины) выполняет владелец Flow.
type Flow struct {
	state State
}

// NewFlow создаёт автомат в состоянии просмотра меню.
func NewFlow() *Flow {
	return &Flow{state: StateBrowsing}
}

// State возвращает текущее состояние.
func (f *Flow) State() State {
	return f.state
}

// Proceed переводит к просмотру итогов заказа.
func (f *Flow) Proceed() {
	f.state = StateReviewing
}

// Browse возвращает к выбору товаров.
func (f *Flow) Browse() {
	f.state = StateBrowsing
}

// RequestPayment переводит к выбору способа оплаты, если корзина не пуста.
func (f *Flow) RequestPayment(itemCount int) error {
	if f.state != StateReviewing {
		return fmt.Errorf("%w: request payment from %s", ErrInvalidTransition, f.state)
	}
	if itemCount == 0 {
		return ErrEmptyCart
	}
	f.state = StatePayingSelecting
	return nil
}

// Finalize фиксирует оформление после выбора способа оплаты.
func (f *Flow) Finalize() error {
	if f.state != StatePayingSelecting {
		return fmt.Errorf("%w: finalize from %s", ErrInvalidTransition, f.state)
	}
	f.state = StateFinalized
	return nil
}

// Reset начинает новый цикл после завершённого заказа.
func (f *Flow) Reset() {
	f.state = StateBrowsing
}
