// Package catalog содержит неизменяемое меню ланчонете.
package catalog

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/mmeshcher/lanchonete/internal/model"
)

var (
	// ErrProductNotFound возвращается, если товара с таким идентификатором нет в меню.
	ErrProductNotFound = errors.New("product not found")
	// ErrInvalidCatalog возвращается для некорректного файла меню.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog — упорядоченный список товаров меню.
type Catalog struct {
	products []model.Product
	byID     map[string]int
}

// Default возвращает встроенное меню.
func Default() *Catalog {
	c, _ := New([]model.Product{
		{ID: "1", Name: "Coxinha", Price: 500},
		{ID: "2", Name: "Batatinha Frita", Price: 700},
		{ID: "3", Name: "Refrigerante", Price: 400},
	})
	return c
}

// New проверяет товары и строит меню в заданном порядке.
func New(products []model.Product) (*Catalog, error) {
	c := &Catalog{
		products: make([]model.Product, 0, len(products)),
		byID:     make(map[string]int, len(products)),
	}

	for _, p := range products {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("%w: product id and name are required", ErrInvalidCatalog)
		}
		if p.Price < 0 {
			return nil, fmt.Errorf("%w: negative price for %q", ErrInvalidCatalog, p.ID)
		}
		if _, dup := c.byID[p.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate product id %q", ErrInvalidCatalog, p.ID)
		}
		c.byID[p.ID] = len(c.products)
		c.products = append(c.products, p)
	}

	return c, nil
}

type fileProduct struct {
	ID    string  `yaml:"id"`
	Name  string  `yaml:"name"`
	Price float64 `yaml:"price"`
}

type fileCatalog struct {
	Products []fileProduct `yaml:"products"`
}

// Parse читает меню из YAML. Цены указываются в реалах.
func Parse(data []byte) (*Catalog, error) {
	var fc fileCatalog
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}

	products := make([]model.Product, 0, len(fc.Products))
	for _, p := range fc.Products {
		products = append(products, model.Product{
			ID:    p.ID,
			Name:  p.Name,
			Price: model.ReaisToCents(p.Price),
		})
	}

	return New(products)
}

// LoadFile читает меню из YAML-файла.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// All возвращает копию списка товаров в порядке меню.
func (c *Catalog) All() []model.Product {
	res := make([]model.Product, len(c.products))
	copy(res, c.products)
	return res
}

// Find ищет товар по идентификатору.
func (c *Catalog) Find(id string) (model.Product, error) {
	i, ok := c.byID[id]
	if !ok {
		return model.Product{}, fmt.Errorf("%w: %s", ErrProductNotFound, id)
	}
	return c.products[i], nil
}
