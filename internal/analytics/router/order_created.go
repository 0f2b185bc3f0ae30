package router

import (
	"context"
	"fmt"

	"github.com/curbsidehq/curbside-backend/internal/analytics/types"
	analyticswriter "github.com/curbsidehq/curbside-backend/internal/analytics/writer"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/outbox/payloads"
)

type orderCreatedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderCreatedHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderCreatedHandler{writer: writer, logg: logg}
}

func (h *orderCreatedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OrderCreatedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_created")
	}

	fields := map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"truck_id":   event.TruckID,
	}
	logCtx := h.logg.WithFields(ctx, fields)

	row, err := buildOrderCreatedRow(envelope, event)
	if err != nil {
		h.logg.Error(logCtx, "failed to build order event row", err)
		return err
	}

	if err := h.writer.InsertOrderEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert order event row", err)
		return err
	}

	h.logg.Info(logCtx, "order_created handler inserted order event row")
	return nil
}

func buildOrderCreatedRow(envelope types.Envelope, event *payloads.OrderCreatedEvent) (types.OrderEventRow, error) {
	offersJSON, err := analyticswriter.EncodeJSON(event.AppliedOffers)
	if err != nil {
		return types.OrderEventRow{}, fmt.Errorf("encode applied offers json: %w", err)
	}
	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		return types.OrderEventRow{}, fmt.Errorf("encode payload json: %w", err)
	}

	var customerEmail *string
	if event.CustomerEmail != nil {
		customerEmail = stringPtr(*event.CustomerEmail)
	}

	return types.OrderEventRow{
		EventID:              envelope.EventID,
		EventType:            string(envelope.EventType),
		OccurredAt:           envelope.OccurredAt,
		OrderID:              stringPtr(event.OrderID.String()),
		TruckID:              stringPtr(event.TruckID.String()),
		CustomerEmail:        customerEmail,
		SubtotalCents:        int64Ptr(event.SubtotalCents),
		OfferDiscountCents:   int64Ptr(event.OfferDiscountCents),
		PromoDiscountCents:   int64Ptr(event.PromoDiscountCents),
		LoyaltyDiscountCents: int64Ptr(event.LoyaltyDiscountCents),
		TotalCents:           int64Ptr(event.TotalCents),
		LineCount:            int64Ptr(event.LineCount),
		AppliedOffers:        offersJSON,
		Payload:              payloadJSON,
	}, nil
}
