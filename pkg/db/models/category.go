package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
)

// Category groups menu items and owns the option groups shared by them.
type Category struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TruckID      uuid.UUID             `gorm:"column:truck_id;type:uuid;not null;index"`
	Name         string                `gorm:"column:name;not null"`
	DisplayOrder int                   `gorm:"column:display_order;not null;default:0"`
	IsActive     bool                  `gorm:"column:is_active;not null;default:true"`
	OptionGroups []CategoryOptionGroup `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// CategoryOptionGroup is a set of options presented for items in a category.
// Role is assigned once at authoring/load time; at most one group per
// category carries the size role.
type CategoryOptionGroup struct {
	ID           uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CategoryID   uuid.UUID             `gorm:"column:category_id;type:uuid;not null;index"`
	Name         string                `gorm:"column:name;not null"`
	IsRequired   bool                  `gorm:"column:is_required;not null;default:false"`
	IsMultiple   bool                  `gorm:"column:is_multiple;not null;default:false"`
	DisplayOrder int                   `gorm:"column:display_order;not null;default:0"`
	Role         enums.OptionGroupRole `gorm:"column:role;type:option_role;not null;default:'supplement'"`
	Options      []CategoryOption      `gorm:"foreignKey:OptionGroupID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}

// CategoryOption is a single choice inside an option group. For a size
// group PriceModifierCents is the absolute item price at that size; for a
// supplement group it is an additive delta.
type CategoryOption struct {
	ID                 uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	OptionGroupID      uuid.UUID `gorm:"column:option_group_id;type:uuid;not null;index"`
	Name               string    `gorm:"column:name;not null"`
	PriceModifierCents int       `gorm:"column:price_modifier_cents;not null;default:0"`
	IsAvailable        bool      `gorm:"column:is_available;not null;default:true"`
	IsDefault          bool      `gorm:"column:is_default;not null;default:false"`
	DisplayOrder       int       `gorm:"column:display_order;not null;default:0"`
	CreatedAt          time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt          time.Time `gorm:"column:updated_at;autoUpdateTime"`
}
