package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// CartRecord captures a quoted cart snapshot. Signature is the derived
// detection key; a quote is only reused while the incoming cart produces
// the same signature.
type CartRecord struct {
	ID                   uuid.UUID                 `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TruckID              uuid.UUID                 `gorm:"column:truck_id;type:uuid;not null;index"`
	SessionID            string                    `gorm:"column:session_id;not null;index:idx_cart_records_truck_session"`
	CustomerEmail        *string                   `gorm:"column:customer_email"`
	Status               enums.CartStatus          `gorm:"column:status;type:cart_status;not null;default:'active'"`
	Currency             enums.Currency            `gorm:"column:currency;not null;default:'USD'"`
	Signature            string                    `gorm:"column:signature;not null"`
	ValidUntil           time.Time                 `gorm:"column:valid_until;not null"`
	SubtotalCents        int                       `gorm:"column:subtotal_cents;not null;default:0"`
	OfferDiscountCents   int                       `gorm:"column:offer_discount_cents;not null;default:0"`
	PromoDiscountCents   int                       `gorm:"column:promo_discount_cents;not null;default:0"`
	LoyaltyDiscountCents int                       `gorm:"column:loyalty_discount_cents;not null;default:0"`
	TotalCents           int                       `gorm:"column:total_cents;not null;default:0"`
	AppliedOffers        types.AppliedOfferDetails `gorm:"column:applied_offers;type:jsonb;serializer:json"`
	PromoCode            *string                   `gorm:"column:promo_code"`
	PromoOfferID         *uuid.UUID                `gorm:"column:promo_offer_id;type:uuid"`
	ConvertedAt          *time.Time                `gorm:"column:converted_at"`
	Items                []CartItem                `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE"`
	CreatedAt            time.Time                 `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt            time.Time                 `gorm:"column:updated_at;autoUpdateTime"`
}
