package models

import (
	"github.com/shopspring/decimal"
)

// MenuItem represents a sellable item that can be added to a cart
type MenuItem struct {
	ID       string          `json:"id"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Image    string          `json:"image,omitempty"`
	Category string          `json:"category,omitempty"`
}

// Modifier represents an option applied to a menu item, e.g. "extra cheese"
type Modifier struct {
	ID    string          `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
}

// MenuCategory groups menu items on the ordering screen
type MenuCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
