// Package model содержит доменные сущности сервиса ланчонете.
package model

import (
	"errors"
	"time"
)

// ErrUnknownPaymentMethod возвращается для способа оплаты вне списка PaymentMethods.
var ErrUnknownPaymentMethod = errors.New("unknown payment method")

// User представляет зарегистрированную учётную запись.
type User struct {
	ID           string
	Email        string
	PasswordHash []byte
	CreatedAt    time.Time
}

// Product описывает позицию меню. Цена хранится в сентаво.
type Product struct {
	ID    string
	Name  string
	Price int64
}

// LineItem — копия товара, положенная в корзину в момент выбора.
type LineItem struct {
	ProductID string
	Name      string
	Price     int64
}

// NewLineItem копирует товар в позицию корзины.
func NewLineItem(p Product) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
	}
}

// CartState — снимок корзины: позиции в порядке добавления и их сумма.
type CartState struct {
	Items []LineItem
	Total int64
}

// PaymentMethod — метка способа оплаты. Расчёты не выполняются.
type PaymentMethod string

const (
	PaymentCreditCard PaymentMethod = "Credit Card"
	PaymentPIX        PaymentMethod = "PIX"
	PaymentCash       PaymentMethod = "Cash"
)

// PaymentMethods перечисляет допустимые способы оплаты в порядке показа.
var PaymentMethods = []PaymentMethod{PaymentCreditCard, PaymentPIX, PaymentCash}

// ParsePaymentMethod проверяет метку способа оплаты.
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	for _, m := range PaymentMethods {
		if string(m) == s {
			return m, nil
		}
	}
	return "", ErrUnknownPaymentMethod
}

// Order — неизменяемая запись о завершённом оформлении заказа.
type Order struct {
	ID            string
	UserID        string
	Items         []LineItem
	Total         int64
	PaymentMethod PaymentMethod
	CreatedAt     time.Time
}

// CentsToReais переводит сумму в сентаво в реалы для ответов API.
func CentsToReais(cents int64) float64 {
	return float64(cents) / 100
}

// ReaisToCents переводит сумму в реалах в сентаво с округлением.
func ReaisToCents(reais float64) int64 {
	if reais < 0 {
		return -int64(-reais*100 + 0.5)
	}
	return int64(reais*100 + 0.5)
}
