package models

import (
	"time"
)

const (
	StockInStock    = "in_stock"
	StockLowStock   = "low_stock"
	StockOutOfStock = "out_of_stock"
)

// LocalizedText maps a language code ("en", "kk", "ru") to a translation.
type LocalizedText map[string]string

// Get returns the translation for lang, falling back to "en", then to any
// available translation.
func (t LocalizedText) Get(lang string) string {
	if v, ok := t[lang]; ok {
		return v
	}
	if v, ok := t["en"]; ok {
		return v
	}
	for _, v := range t {
		return v
	}
	return ""
}

type Category struct {
	ID        string        `json:"id"`
	Slug      string        `json:"slug"`
	Name      LocalizedText `json:"name"`
	IsDeleted bool          `json:"-"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
}

type Product struct {
	ID                string        `json:"id"`
	CategoryID        string        `json:"category_id"`
	SKU               string        `json:"sku"`
	Name              LocalizedText `json:"name"`
	Description       LocalizedText `json:"description,omitempty"`
	Price             float64       `json:"price"`
	Quantity          int           `json:"quantity"`
	LowStockThreshold int           `json:"low_stock_threshold"`
	Tags              []string      `json:"tags,omitempty"`
	ImageURLs         []string      `json:"image_urls,omitempty"`
	VideoURLs         []string      `json:"video_urls,omitempty"`
	Rating            float64       `json:"rating"`
	ReviewCount       int           `json:"review_count"`
	IsActive          bool          `json:"is_active"`
	IsDeleted         bool          `json:"-"`
	CreatedAt         time.Time     `json:"created_at"`
	UpdatedAt         time.Time     `json:"updated_at"`
}

// StockStatus derives the display status from the current quantity.
func (p *Product) StockStatus() string {
	switch {
	case p.Quantity <= 0:
		return StockOutOfStock
	case p.Quantity <= p.LowStockThreshold:
		return StockLowStock
	default:
		return StockInStock
	}
}

type CreateCategoryRequest struct {
	Slug string        `json:"slug" validate:"required,min=2,max=100"`
	Name LocalizedText `json:"name" validate:"required,min=1"`
}

type UpdateCategoryRequest struct {
	Slug *string       `json:"slug,omitempty" validate:"omitempty,min=2,max=100"`
	Name LocalizedText `json:"name,omitempty"`
}

type CreateProductRequest struct {
	CategoryID        string        `json:"category_id" validate:"required,uuid4"`
	SKU               string        `json:"sku" validate:"required,min=2,max=64"`
	Name              LocalizedText `json:"name" validate:"required,min=1"`
	Description       LocalizedText `json:"description"`
	Price             float64       `json:"price" validate:"gte=0"`
	Quantity          int           `json:"quantity" validate:"gte=0"`
	LowStockThreshold int           `json:"low_stock_threshold" validate:"gte=0"`
	Tags              []string      `json:"tags"`
	ImageURLs         []string      `json:"image_urls" validate:"dive,url"`
	VideoURLs         []string      `json:"video_urls" validate:"dive,url"`
}

type UpdateProductRequest struct {
	CategoryID        *string       `json:"category_id,omitempty" validate:"omitempty,uuid4"`
	Name              LocalizedText `json:"name,omitempty"`
	Description       LocalizedText `json:"description,omitempty"`
	Price             *float64      `json:"price,omitempty" validate:"omitempty,gte=0"`
	LowStockThreshold *int          `json:"low_stock_threshold,omitempty" validate:"omitempty,gte=0"`
	Tags              []string      `json:"tags,omitempty"`
	ImageURLs         []string      `json:"image_urls,omitempty" validate:"omitempty,dive,url"`
	VideoURLs         []string      `json:"video_urls,omitempty" validate:"omitempty,dive,url"`
	IsActive          *bool         `json:"is_active,omitempty"`
}

// ProductFilter narrows product listings. Zero values mean no filter.
type ProductFilter struct {
	CategoryID  string
	Tag         string
	StockStatus string
	Page        int
	PageSize    int
}
