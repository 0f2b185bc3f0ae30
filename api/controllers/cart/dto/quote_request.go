package cartdto

import "github.com/google/uuid"

// QuoteLine is one cart line as submitted by the ordering client.
type QuoteLine struct {
	ItemID    uuid.UUID   `json:"item_id" validate:"required"`
	Quantity  int         `json:"quantity" validate:"required,min=1"`
	OptionIDs []uuid.UUID `json:"option_ids,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

// QuoteRequest is the full cart snapshot to price. The truck comes from
// the URL, never the body.
type QuoteRequest struct {
	SessionID     string      `json:"session_id" validate:"required"`
	CustomerEmail *string     `json:"customer_email,omitempty" validate:"omitempty,email"`
	PromoCode     *string     `json:"promo_code,omitempty"`
	RedeemPoints  int         `json:"redeem_points,omitempty" validate:"omitempty,min=0"`
	Lines         []QuoteLine `json:"lines" validate:"required,min=1,dive"`
}
