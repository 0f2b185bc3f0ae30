package cartdto

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// CartQuoteItem is one priced line of the quote.
type CartQuoteItem struct {
	ID                uuid.UUID              `json:"id"`
	MenuItemID        *uuid.UUID             `json:"menu_item_id,omitempty"`
	Name              string                 `json:"name"`
	Quantity          int                    `json:"quantity"`
	UnitPriceCents    int                    `json:"unit_price_cents"`
	LineSubtotalCents int                    `json:"line_subtotal_cents"`
	SelectedOptions   types.SelectedOptions  `json:"selected_options,omitempty"`
	BundleInfo        *types.BundleInfo      `json:"bundle_info,omitempty"`
	Warnings          types.CartItemWarnings `json:"warnings,omitempty"`
	Notes             *string                `json:"notes,omitempty"`
}

// CartQuote is the priced cart returned to the ordering client.
type CartQuote struct {
	ID                   uuid.UUID                 `json:"id"`
	TruckID              uuid.UUID                 `json:"truck_id"`
	SessionID            string                    `json:"session_id"`
	Status               string                    `json:"status"`
	Currency             string                    `json:"currency"`
	ValidUntil           time.Time                 `json:"valid_until"`
	SubtotalCents        int                       `json:"subtotal_cents"`
	OfferDiscountCents   int                       `json:"offer_discount_cents"`
	PromoDiscountCents   int                       `json:"promo_discount_cents"`
	LoyaltyDiscountCents int                       `json:"loyalty_discount_cents"`
	TotalCents           int                       `json:"total_cents"`
	AppliedOffers        types.AppliedOfferDetails `json:"applied_offers,omitempty"`
	PromoCode            *string                   `json:"promo_code,omitempty"`
	Items                []CartQuoteItem           `json:"items"`
	ApplicableOffers     []types.ApplicableOffer   `json:"applicable_offers,omitempty"`
	PromoMessage         *string                   `json:"promo_message,omitempty"`
	CreatedAt            time.Time                 `json:"created_at"`
	UpdatedAt            time.Time                 `json:"updated_at"`
}
