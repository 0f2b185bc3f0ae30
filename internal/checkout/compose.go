package checkout

import (
	"github.com/curbsidehq/curbside-backend/internal/offers"
	"github.com/curbsidehq/curbside-backend/internal/pricing"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// TotalsInput is the composer's view of a resolved cart. Discount order
// is fixed: offers already resolved, promo evaluated here against the
// post-offer subtotal, loyalty last.
type TotalsInput struct {
	SubtotalCents        int
	Applied              types.AppliedOfferDetails
	Promo                *offers.PromoResult
	LoyaltyDiscountCents int
}

// Totals is the final, deterministic money breakdown persisted verbatim
// on the order record.
type Totals struct {
	SubtotalCents        int
	OfferDiscountCents   int
	PromoDiscountCents   int
	LoyaltyDiscountCents int
	TotalCents           int
}

// ComposeTotals applies the discount sequence. The order matters: a
// percentage promo code is computed on the post-offer subtotal, not the
// raw cart total, and the final total is floored at zero. Hitting that
// floor with room to spare indicates an upstream bug, not a valid state,
// but the clamp is the last line of defense either way.
func ComposeTotals(input TotalsInput) Totals {
	totals := Totals{
		SubtotalCents:        input.SubtotalCents,
		OfferDiscountCents:   input.Applied.TotalCents(),
		LoyaltyDiscountCents: input.LoyaltyDiscountCents,
	}

	postOffer := totals.SubtotalCents - totals.OfferDiscountCents
	if postOffer < 0 {
		postOffer = 0
	}

	if input.Promo != nil {
		switch input.Promo.DiscountType {
		case enums.DiscountTypePercentage:
			totals.PromoDiscountCents = pricing.PercentOf(postOffer, input.Promo.Value)
		case enums.DiscountTypeFixed:
			totals.PromoDiscountCents = input.Promo.Value
		}
		if totals.PromoDiscountCents > postOffer {
			totals.PromoDiscountCents = postOffer
		}
	}

	totals.TotalCents = postOffer - totals.PromoDiscountCents - totals.LoyaltyDiscountCents
	if totals.TotalCents < 0 {
		totals.TotalCents = 0
	}
	return totals
}
