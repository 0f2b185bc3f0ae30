package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// Order is the committed pickup order. The discount breakdown columns are
// written once at checkout and never recomputed.
type Order struct {
	ID                   uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TruckID              uuid.UUID                 `gorm:"column:truck_id;type:uuid;not null;index"`
	CartID               *uuid.UUID                `gorm:"column:cart_id;type:uuid"`
	CustomerName         string                    `gorm:"column:customer_name;not null"`
	CustomerEmail        *string                   `gorm:"column:customer_email;index"`
	CustomerPhone        *string                   `gorm:"column:customer_phone"`
	Status               enums.OrderStatus         `gorm:"column:status;type:order_status;not null;default:'pending'"`
	Currency             enums.Currency            `gorm:"column:currency;not null;default:'USD'"`
	SubtotalCents        int                       `gorm:"column:subtotal_cents;not null"`
	OfferDiscountCents   int                       `gorm:"column:offer_discount_cents;not null;default:0"`
	PromoDiscountCents   int                       `gorm:"column:promo_discount_cents;not null;default:0"`
	LoyaltyDiscountCents int                       `gorm:"column:loyalty_discount_cents;not null;default:0"`
	TotalCents           int                       `gorm:"column:total_cents;not null"`
	AppliedOffers        types.AppliedOfferDetails `gorm:"column:applied_offers;type:jsonb;serializer:json"`
	PromoCode            *string                   `gorm:"column:promo_code"`
	LoyaltyPointsSpent   int                       `gorm:"column:loyalty_points_spent;not null;default:0"`
	LoyaltyPointsEarned  int                       `gorm:"column:loyalty_points_earned;not null;default:0"`
	Notes                *string                   `gorm:"column:notes"`
	PickupAt             *time.Time                `gorm:"column:pickup_at"`
	Items                []OrderLineItem           `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	AcceptedAt           *time.Time                `gorm:"column:accepted_at"`
	ReadyAt              *time.Time                `gorm:"column:ready_at"`
	CompletedAt          *time.Time                `gorm:"column:completed_at"`
	CanceledAt           *time.Time                `gorm:"column:canceled_at"`
	CreatedAt            time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
