package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

type Category string

const (
	CategoryFoods    Category = "Foods"
	CategoryDrinks   Category = "Drinks"
	CategoryDesserts Category = "Desserts"
	CategoryExtras   Category = "Extras"
)

func (c Category) Valid() bool {
	switch c {
	case CategoryFoods, CategoryDrinks, CategoryDesserts, CategoryExtras:
		return true
	}
	return false
}

// HasPortionOption reports whether portion sizes apply to items of this category.
func (c Category) HasPortionOption() bool {
	return c == CategoryFoods
}

type PortionSize string

const (
	PortionNormal     PortionSize = "Normal"
	PortionOneAndHalf PortionSize = "OneAndHalf"
	PortionDouble     PortionSize = "Double"
)

var PortionSizes = []PortionSize{PortionNormal, PortionOneAndHalf, PortionDouble}

var portionMultipliers = map[PortionSize]decimal.Decimal{
	PortionNormal:     decimal.NewFromInt(1),
	PortionOneAndHalf: decimal.RequireFromString("1.5"),
	PortionDouble:     decimal.NewFromInt(2),
}

func (p PortionSize) Valid() bool {
	_, ok := portionMultipliers[p]
	return ok
}

// Multiplier returns the price factor for the portion. Unknown values count as Normal.
func (p PortionSize) Multiplier() decimal.Decimal {
	if m, ok := portionMultipliers[p]; ok {
		return m
	}
	return portionMultipliers[PortionNormal]
}

func ParsePortionSize(s string) (PortionSize, error) {
	p := PortionSize(s)
	if !p.Valid() {
		return "", fmt.Errorf("portion %q: %w", s, ErrInvalidPortion)
	}
	return p, nil
}

type MenuItem struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Category    Category        `json:"category"`
	ImageName   string          `json:"image_name"`
}

func (m MenuItem) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("menu item %q: missing id: %w", m.Name, ErrInvalidMenuItem)
	}
	if m.Name == "" {
		return fmt.Errorf("menu item %s: missing name: %w", m.ID, ErrInvalidMenuItem)
	}
	if m.Price.IsNegative() {
		return fmt.Errorf("menu item %s: negative price: %w", m.ID, ErrInvalidMenuItem)
	}
	if !m.Category.Valid() {
		return fmt.Errorf("menu item %s: category %q: %w", m.ID, m.Category, ErrInvalidMenuItem)
	}
	return nil
}

// FormatPrice rounds for display only; stored amounts keep full precision.
func FormatPrice(amount decimal.Decimal) string {
	return amount.StringFixedBank(2)
}
