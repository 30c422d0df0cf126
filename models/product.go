package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID          uint                `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string              `gorm:"not null" json:"name"`
	Price       decimal.Decimal     `gorm:"type:numeric(10,2);not null" json:"price"`
	SlashPrice  decimal.NullDecimal `gorm:"type:numeric(10,2)" json:"slash_price"`
	CategoryID  uint                `gorm:"index" json:"category_id"`
	Category    Category            `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	InStock     int                 `gorm:"not null;default:0" json:"in_stock"`
	Description string              `json:"description"`
	IsActive    bool                `gorm:"default:true" json:"is_active"`
	Sizes       []Size              `gorm:"many2many:product_sizes" json:"sizes,omitempty"`
	Colors      []Color             `gorm:"many2many:product_colors" json:"colors,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

type Size struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"unique;not null" json:"name"` // e.g. S, M, L, XL
}

type Color struct {
	ID      uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name    string `gorm:"unique;not null" json:"name"`
	HexCode string `gorm:"size:7" json:"hex_code"` // e.g. #000000
}
