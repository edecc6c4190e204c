// Package entity contains the core business objects of the storefront.
package entity

import (
	"math"
	"time"
)

// Product is one purchasable catalog item. It is read-only for the lifetime of a session.
type Product struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Price       float64   `json:"price" yaml:"price"`       // List price in USD.
	Discount    int       `json:"discount" yaml:"discount"` // Percent off, 0-100.
	Platform    string    `json:"platform" yaml:"platform"`
	Category    string    `json:"category" yaml:"category"`
	Genres      []string  `json:"genres" yaml:"genres"`
	Publisher   string    `json:"publisher" yaml:"publisher"`
	ReleaseDate time.Time `json:"releaseDate" yaml:"releaseDate"`
	Rating      float64   `json:"rating" yaml:"rating"` // 0-5.
	Sales       int       `json:"sales" yaml:"sales"`
	Image       string    `json:"image" yaml:"image"`
	Images      []string  `json:"images" yaml:"images"`
	Features    []string  `json:"features" yaml:"features"`
}

// EffectivePrice returns the list price after the discount.
func (p *Product) EffectivePrice() float64 {
	return EffectivePrice(p.Price, p.Discount)
}

// IsUpcoming reports whether the product is released strictly after now.
func (p *Product) IsUpcoming(now time.Time) bool {
	return p.ReleaseDate.After(now)
}

// Publisher is a catalog publisher record.
type Publisher struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	Logo        string `json:"logo" yaml:"logo"`
}

// EffectivePrice applies a percentage discount to a list price.
func EffectivePrice(price float64, discount int) float64 {
	return price * (1 - float64(discount)/100)
}

// RoundCents rounds an amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}
