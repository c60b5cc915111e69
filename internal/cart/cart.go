// Package cart реализует корзину текущей сессии пользователя.
package cart

import (
	"errors"
	"fmt"

	"github.com/mmeshcher/lanchonete/internal/model"
)

// ErrIndexOutOfRange возвращается при удалении позиции по несуществующему индексу.
var ErrIndexOutOfRange = errors.New("cart index out of range")

// Store хранит позиции корзины в порядке добавления и их сумму.
// Store не синхронизирован: доступ сериализует владеющая им сессия.
type Store struct {
	items []model.LineItem
	total int64
}

// New создаёт пустую корзину.
func New() *Store {
	return &Store{}
}

// Add добавляет копию товара в конец корзины. Дубликаты допускаются.
func (s *Store) Add(p model.Product) model.LineItem {
	item := model.NewLineItem(p)
	s.items = append(s.items, item)
	s.total += item.Price
	return item
}

// Remove удаляет позицию по индексу и вычитает её цену из суммы.
func (s *Store) Remove(index int) (model.LineItem, error) {
	if index < 0 || index >= len(s.items) {
		return model.LineItem{}, fmt.Errorf("%w: %d of %d", ErrIndexOutOfRange, index, len(s.items))
	}

	removed := s.items[index]
	s.items = append(s.items[:index], s.items[index+1:]...)
	// Вычитаем цену удалённой позиции, а не пересчитываем оставшиеся.
	s.total -= removed.Price

	return removed, nil
}

// Clear очищает корзину.
func (s *Store) Clear() {
	s.items = nil
	s.total = 0
}

// Len возвращает количество позиций.
func (s *Store) Len() int {
	return len(s.items)
}

// Total возвращает сумму корзины в сентаво.
func (s *Store) Total() int64 {
	return s.total
}

// Snapshot возвращает копию состояния, не зависящую от дальнейших изменений корзины.
func (s *Store) Snapshot() model.CartState {
	items := make([]model.LineItem, len(s.items))
	copy(items, s.items)
	return model.CartState{
		Items: items,
		Total: s.total,
	}
}
