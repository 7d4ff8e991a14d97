package domain

import (
	"strings"
	"time"
)

// Product is an item in the catalogue.
type Product struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	Stock       int       `json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewProduct builds a Product ready for insertion. The ID is assigned by the store.
func NewProduct(name, description string, price float64, stock int) (*Product, error) {
	now := time.Now().UTC()
	p := &Product{
		Name:        strings.TrimSpace(name),
		Description: description,
		Price:       price,
		Stock:       stock,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// Validate checks the invariants a stored product must satisfy.
func (p *Product) Validate() error {
	if p.Name == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if p.Price < 0 {
		return NewValidationError("price", "cannot be negative", nil)
	}
	if p.Stock < 0 {
		return NewValidationError("stock", "cannot be negative", nil)
	}
	return nil
}

// ProductUpdate lists the product columns a partial update may touch.
type ProductUpdate struct {
	Name        *string
	Description *string
	Price       *float64
	Stock       *int
}

// IsEmpty reports whether the update changes nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.Stock == nil
}

// Validate rejects set fields that would leave the product violating
// Validate once applied.
func (u ProductUpdate) Validate() error {
	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return NewValidationError("name", "cannot be empty", nil)
	}
	if u.Price != nil && *u.Price < 0 {
		return NewValidationError("price", "cannot be negative", nil)
	}
	if u.Stock != nil && *u.Stock < 0 {
		return NewValidationError("stock", "cannot be negative", nil)
	}
	return nil
}

// Apply copies the set fields onto product and bumps UpdatedAt.
func (u ProductUpdate) Apply(p *Product, now time.Time) {
	if u.Name != nil {
		p.Name = strings.TrimSpace(*u.Name)
	}
	if u.Description != nil {
		p.Description = *u.Description
	}
	if u.Price != nil {
		p.Price = *u.Price
	}
	if u.Stock != nil {
		p.Stock = *u.Stock
	}
	p.UpdatedAt = now
}
