package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ItemKind - раздел каталога.
type ItemKind string

const (
	KindProduct   ItemKind = "product"
	KindFabric    ItemKind = "fabric"
	KindRental    ItemKind = "rental"
	KindAccessory ItemKind = "accessory"
	KindInnerwear ItemKind = "innerwear"
)

// ParseItemKind разбирает раздел каталога из пути запроса ("fabrics", "rentals", ...).
func ParseItemKind(s string) (ItemKind, bool) {
	switch s {
	case "product", "products":
		return KindProduct, true
	case "fabric", "fabrics":
		return KindFabric, true
	case "rental", "rentals":
		return KindRental, true
	case "accessory", "accessories":
		return KindAccessory, true
	case "innerwear":
		return KindInnerwear, true
	}
	return "", false
}

// Типы товаров раздела product.
const (
	ProductTypeCustom    = "custom"
	ProductTypeReadyMade = "readymade"
)

// CatalogItem - позиция каталога. Набор заполненных полей зависит от Kind:
// для ткани Price - цена за метр, для аренды используются PricePerDay, Deposit и BuyPrice.
type CatalogItem struct {
	ID          uuid.UUID           `db:"id" json:"id"`
	Kind        ItemKind            `db:"kind" json:"kind"`
	Name        string              `db:"name" json:"name"`
	Category    string              `db:"category" json:"category,omitempty"`
	ProductType string              `db:"product_type" json:"type,omitempty"`
	Description string              `db:"description" json:"description,omitempty"`
	Brand       string              `db:"brand" json:"brand,omitempty"`
	Color       string              `db:"color" json:"color,omitempty"`
	Material    string              `db:"material" json:"material,omitempty"`
	Price       decimal.Decimal     `db:"price" json:"price"`
	PricePerDay decimal.Decimal     `db:"price_per_day" json:"price_per_day"`
	Deposit     decimal.Decimal     `db:"deposit" json:"deposit_amount"`
	BuyPrice    decimal.NullDecimal `db:"buy_price" json:"buy_price"`
	Sizes       []string            `db:"sizes" json:"sizes"`
	BoxItems    []string            `db:"box_items" json:"box_items"`
	ImageURL    string              `db:"image_url" json:"image,omitempty"`
	IsActive    bool                `db:"is_active" json:"is_active"`
	CreatedAt   time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time           `db:"updated_at" json:"updated_at"`
}

// HasSize проверяет, что размер есть в сетке товара. Пустая сетка допускает любой размер.
func (c *CatalogItem) HasSize(size string) bool {
	if len(c.Sizes) == 0 {
		return true
	}
	for _, s := range c.Sizes {
		if s == size {
			return true
		}
	}
	return false
}
