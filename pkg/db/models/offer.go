package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// Offer is a promotional construct scoped to one truck. Config carries the
// type-specific shape (bundle slots, buy-X-get-Y rules, discount terms).
type Offer struct {
	ID                 uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TruckID            uuid.UUID         `gorm:"column:truck_id;type:uuid;not null;index"`
	Name               string            `gorm:"column:name;not null"`
	Description        *string           `gorm:"column:description"`
	OfferType          enums.OfferType   `gorm:"column:offer_type;type:offer_type;not null"`
	StartsAt           *time.Time        `gorm:"column:starts_at"`
	EndsAt             *time.Time        `gorm:"column:ends_at"`
	DaysOfWeek         pq.Int64Array     `gorm:"column:days_of_week;type:int[]"`
	TimeStart          *string           `gorm:"column:time_start"`
	TimeEnd            *string           `gorm:"column:time_end"`
	MaxUses            *int              `gorm:"column:max_uses"`
	MaxUsesPerCustomer *int              `gorm:"column:max_uses_per_customer"`
	CurrentUses        int               `gorm:"column:current_uses;not null;default:0"`
	Stackable          bool              `gorm:"column:stackable;not null;default:true"`
	IsActive           bool              `gorm:"column:is_active;not null;default:true"`
	Config             types.OfferConfig `gorm:"column:config;type:jsonb;serializer:json;not null"`
	CreatedAt          time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// OfferRedemption records one application of an offer on a committed order,
// backing the max_uses and max_uses_per_customer caps.
type OfferRedemption struct {
	ID            uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OfferID       uuid.UUID  `gorm:"column:offer_id;type:uuid;not null;index"`
	OrderID       uuid.UUID  `gorm:"column:order_id;type:uuid;not null;index"`
	TruckID       uuid.UUID  `gorm:"column:truck_id;type:uuid;not null"`
	CustomerEmail *string    `gorm:"column:customer_email"`
	DiscountCents int        `gorm:"column:discount_cents;not null"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
}
