package cart

import (
	"github.com/google/uuid"

	cartdto "github.com/curbsidehq/curbside-backend/api/controllers/cart/dto"
	cartsvc "github.com/curbsidehq/curbside-backend/internal/cart"
)

func toQuoteInput(truckID uuid.UUID, payload cartdto.QuoteRequest) cartsvc.QuoteInput {
	lines := make([]cartsvc.QuoteLine, 0, len(payload.Lines))
	for _, line := range payload.Lines {
		lines = append(lines, cartsvc.QuoteLine{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			OptionIDs: line.OptionIDs,
			Notes:     line.Notes,
		})
	}

	return cartsvc.QuoteInput{
		TruckID:       truckID,
		SessionID:     payload.SessionID,
		CustomerEmail: payload.CustomerEmail,
		PromoCode:     payload.PromoCode,
		RedeemPoints:  payload.RedeemPoints,
		Lines:         lines,
	}
}
