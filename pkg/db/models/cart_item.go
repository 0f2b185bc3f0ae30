package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// CartItem persists one quoted cart line. LineKey is the deterministic
// identity derived from item id and sorted option ids, so identical
// configurations merge while distinct ones stay separate.
type CartItem struct {
	ID                uuid.UUID              `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID            uuid.UUID              `gorm:"column:cart_id;type:uuid;not null;index"`
	MenuItemID        *uuid.UUID             `gorm:"column:menu_item_id;type:uuid"`
	CategoryID        *uuid.UUID             `gorm:"column:category_id;type:uuid"`
	LineKey           string                 `gorm:"column:line_key;not null"`
	Name              string                 `gorm:"column:name;not null"`
	Quantity          int                    `gorm:"column:quantity;not null"`
	UnitPriceCents    int                    `gorm:"column:unit_price_cents;not null"`
	LineSubtotalCents int                    `gorm:"column:line_subtotal_cents;not null"`
	SelectedOptions   types.SelectedOptions  `gorm:"column:selected_options;type:jsonb;serializer:json"`
	BundleInfo        *types.BundleInfo      `gorm:"column:bundle_info;type:jsonb;serializer:json"`
	Warnings          types.CartItemWarnings `gorm:"column:warnings;type:jsonb;serializer:json"`
	Notes             *string                `gorm:"column:notes"`
	CreatedAt         time.Time              `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time              `gorm:"column:updated_at;autoUpdateTime"`
}
