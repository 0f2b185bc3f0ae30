package cart

import (
	cartdto "github.com/curbsidehq/curbside-backend/api/controllers/cart/dto"
	cartsvc "github.com/curbsidehq/curbside-backend/internal/cart"
)

func newCartQuote(result *cartsvc.QuoteResult) cartdto.CartQuote {
	if result == nil || result.Cart == nil {
		return cartdto.CartQuote{}
	}
	record := result.Cart

	items := make([]cartdto.CartQuoteItem, 0, len(record.Items))
	for _, item := range record.Items {
		items = append(items, cartdto.CartQuoteItem{
			ID:                item.ID,
			MenuItemID:        item.MenuItemID,
			Name:              item.Name,
			Quantity:          item.Quantity,
			UnitPriceCents:    item.UnitPriceCents,
			LineSubtotalCents: item.LineSubtotalCents,
			SelectedOptions:   item.SelectedOptions,
			BundleInfo:        item.BundleInfo,
			Warnings:          item.Warnings,
			Notes:             item.Notes,
		})
	}

	return cartdto.CartQuote{
		ID:                   record.ID,
		TruckID:              record.TruckID,
		SessionID:            record.SessionID,
		Status:               string(record.Status),
		Currency:             string(record.Currency),
		ValidUntil:           record.ValidUntil,
		SubtotalCents:        record.SubtotalCents,
		OfferDiscountCents:   record.OfferDiscountCents,
		PromoDiscountCents:   record.PromoDiscountCents,
		LoyaltyDiscountCents: record.LoyaltyDiscountCents,
		TotalCents:           record.TotalCents,
		AppliedOffers:        record.AppliedOffers,
		PromoCode:            record.PromoCode,
		Items:                items,
		ApplicableOffers:     result.Applicable,
		PromoMessage:         result.PromoMessage,
		CreatedAt:            record.CreatedAt,
		UpdatedAt:            record.UpdatedAt,
	}
}
