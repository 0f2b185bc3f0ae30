package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// FoodTruck represents the canonical tenant model.
type FoodTruck struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Name        string                `gorm:"column:name;not null"`
	Slug        string                `gorm:"column:slug;not null;uniqueIndex"`
	Description *string               `gorm:"column:description"`
	Phone       *string               `gorm:"column:phone"`
	Email       *string               `gorm:"column:email"`
	Address     *types.Address        `gorm:"column:address;type:address_t"`
	Location    *types.GeographyPoint `gorm:"column:location;type:geography(Point,4326)"`
	Social      *types.Social         `gorm:"column:social;type:social_t"`
	Ratings     types.Ratings         `gorm:"column:ratings;type:jsonb"`
	Currency    enums.Currency        `gorm:"column:currency;not null;default:'USD'"`
	BannerURL   *string               `gorm:"column:banner_url"`
	LogoURL     *string               `gorm:"column:logo_url"`
	IsActive    bool                  `gorm:"column:is_active;not null;default:true"`

	// Ordering settings read by the quote and checkout paths.
	PromoCodesStackable bool `gorm:"column:promo_codes_stackable;not null;default:false"`
	OffersStackable     bool `gorm:"column:offers_stackable;not null;default:true"`
	LoyaltyEnabled      bool `gorm:"column:loyalty_enabled;not null;default:false"`
	MinPrepTimeMinutes  int  `gorm:"column:min_prep_time_minutes;not null;default:15"`
	OrderingPaused      bool `gorm:"column:ordering_paused;not null;default:false"`

	OwnerID        uuid.UUID  `gorm:"column:owner;type:uuid;not null"`
	LastActiveAt   *time.Time `gorm:"column:last_active_at"`
	LastLoggedInAt *time.Time `gorm:"column:last_logged_in_at"`
	CreatedAt      time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
