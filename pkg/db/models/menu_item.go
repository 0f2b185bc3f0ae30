package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// MenuItem represents a sellable item on a truck menu. Option overrides are
// per-item adjustments on top of the category option catalog.
type MenuItem struct {
	ID              uuid.UUID                  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TruckID         uuid.UUID                  `gorm:"column:truck_id;type:uuid;not null;index"`
	CategoryID      uuid.UUID                  `gorm:"column:category_id;type:uuid;not null;index"`
	Name            string                     `gorm:"column:name;not null"`
	Description     *string                    `gorm:"column:description"`
	BasePriceCents  int                        `gorm:"column:base_price_cents;not null"`
	IsAvailable     bool                       `gorm:"column:is_available;not null;default:true"`
	IsArchived      bool                       `gorm:"column:is_archived;not null;default:false"`
	IsDailySpecial  bool                       `gorm:"column:is_daily_special;not null;default:false"`
	Allergens       pq.StringArray             `gorm:"column:allergens;type:text[]"`
	DisabledOptions types.UUIDList             `gorm:"column:disabled_options;type:jsonb;serializer:json"`
	OptionPrices    types.OptionPriceOverrides `gorm:"column:option_prices;type:jsonb;serializer:json"`
	ImageURL        *string                    `gorm:"column:image_url"`
	DisplayOrder    int                        `gorm:"column:display_order;not null;default:0"`
	CreatedAt       time.Time                  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time                  `gorm:"column:updated_at;autoUpdateTime"`
}
