package models

import (
	"strings"

	"gorm.io/gorm"
)

// Product represents a product in the catalog
type Product struct {
	BaseModel
	SKU         string  `gorm:"size:100;uniqueIndex;not null" json:"sku" validate:"required"`
	Name        string  `gorm:"size:255;not null;index" json:"name" validate:"required"`
	Description string  `gorm:"type:text" json:"description"`
	Price       float64 `gorm:"type:numeric(10,2);not null" json:"price" validate:"required,gt=0"`
	ImageURL    string  `json:"image_url" validate:"omitempty,url"`
	IsActive    bool    `gorm:"default:true;index" json:"is_active"`
}

// NormalizeSKU uppercases a SKU so that lookups and writes agree on case.
func NormalizeSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// BeforeSave keeps SKU uniqueness case-insensitive regardless of which
// write path produced the record.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.SKU = NormalizeSKU(p.SKU)
	return nil
}
