package payloads

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// OrderCreatedEvent signals a committed checkout with its authoritative
// discount breakdown.
type OrderCreatedEvent struct {
	OrderID              uuid.UUID                 `json:"order_id"`
	TruckID              uuid.UUID                 `json:"truck_id"`
	CustomerEmail        *string                   `json:"customer_email,omitempty"`
	SubtotalCents        int                       `json:"subtotal_cents"`
	OfferDiscountCents   int                       `json:"offer_discount_cents"`
	PromoDiscountCents   int                       `json:"promo_discount_cents"`
	LoyaltyDiscountCents int                       `json:"loyalty_discount_cents"`
	TotalCents           int                       `json:"total_cents"`
	AppliedOffers        types.AppliedOfferDetails `json:"applied_offers,omitempty"`
	LineCount            int                       `json:"line_count"`
}

// OrderStatusChangedEvent is emitted on every merchant-driven transition.
type OrderStatusChangedEvent struct {
	OrderID    uuid.UUID         `json:"order_id"`
	TruckID    uuid.UUID         `json:"truck_id"`
	FromStatus enums.OrderStatus `json:"from_status"`
	ToStatus   enums.OrderStatus `json:"to_status"`
	ChangedAt  time.Time         `json:"changed_at"`
}

// OrderCanceledEvent is emitted when an order is canceled before completion.
type OrderCanceledEvent struct {
	OrderID    uuid.UUID `json:"order_id"`
	TruckID    uuid.UUID `json:"truck_id"`
	CanceledAt time.Time `json:"canceled_at"`
	Reason     string    `json:"reason,omitempty"`
}

// LoyaltyPointsEarnedEvent records accrual against an account.
type LoyaltyPointsEarnedEvent struct {
	AccountID     uuid.UUID `json:"account_id"`
	TruckID       uuid.UUID `json:"truck_id"`
	OrderID       uuid.UUID `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Points        int       `json:"points"`
	NewBalance    int       `json:"new_balance"`
}

// LoyaltyPointsSpentEvent records a redemption against an account.
type LoyaltyPointsSpentEvent struct {
	AccountID     uuid.UUID `json:"account_id"`
	TruckID       uuid.UUID `json:"truck_id"`
	OrderID       uuid.UUID `json:"order_id"`
	CustomerEmail string    `json:"customer_email"`
	Points        int       `json:"points"`
	DiscountCents int       `json:"discount_cents"`
	NewBalance    int       `json:"new_balance"`
}

// OfferRedeemedEvent is emitted once per offer application on an order.
type OfferRedeemedEvent struct {
	OfferID       uuid.UUID       `json:"offer_id"`
	OrderID       uuid.UUID       `json:"order_id"`
	TruckID       uuid.UUID       `json:"truck_id"`
	OfferType     enums.OfferType `json:"offer_type"`
	DiscountCents int             `json:"discount_cents"`
	TimesApplied  int             `json:"times_applied"`
}

// OfferExpiredEvent is emitted by the expiry sweep when an offer's window
// or usage cap closes it.
type OfferExpiredEvent struct {
	OfferID   uuid.UUID `json:"offer_id"`
	TruckID   uuid.UUID `json:"truck_id"`
	ExpiredAt time.Time `json:"expired_at"`
	Reason    string    `json:"reason"`
}
