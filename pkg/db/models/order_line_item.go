package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// OrderLineItem captures the immutable snapshot of one line on an order.
// MenuItemID is nil for synthetic bundle lines; BundleInfo carries their
// composition instead.
type OrderLineItem struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OrderID         uuid.UUID             `gorm:"column:order_id;type:uuid;not null;index"`
	MenuItemID      *uuid.UUID            `gorm:"column:menu_item_id;type:uuid"`
	CategoryID      *uuid.UUID            `gorm:"column:category_id;type:uuid"`
	LineKey         string                `gorm:"column:line_key;not null"`
	Name            string                `gorm:"column:name;not null"`
	Quantity        int                   `gorm:"column:quantity;not null"`
	UnitPriceCents  int                   `gorm:"column:unit_price_cents;not null"`
	LineTotalCents  int                   `gorm:"column:line_total_cents;not null"`
	SelectedOptions types.SelectedOptions `gorm:"column:selected_options;type:jsonb;serializer:json"`
	BundleInfo      *types.BundleInfo     `gorm:"column:bundle_info;type:jsonb;serializer:json"`
	Notes           *string               `gorm:"column:notes"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
