package router

import (
	"context"
	"fmt"

	"github.com/curbsidehq/curbside-backend/internal/analytics"
	"github.com/curbsidehq/curbside-backend/internal/analytics/types"
	analyticswriter "github.com/curbsidehq/curbside-backend/internal/analytics/writer"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/outbox/payloads"
)

type offerRedeemedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOfferRedeemedHandler(writer Writer, logg *logger.Logger) Handler {
	return &offerRedeemedHandler{writer: writer, logg: logg}
}

func (h *offerRedeemedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OfferRedeemedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for offer_redeemed")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"offer_id":   event.OfferID,
		"order_id":   event.OrderID,
	})

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode offer payload", err)
		return err
	}

	row := types.OfferEventRow{
		EventID:       envelope.EventID,
		EventType:     string(envelope.EventType),
		OccurredAt:    envelope.OccurredAt,
		OfferID:       event.OfferID.String(),
		TruckID:       stringPtr(event.TruckID.String()),
		OrderID:       stringPtr(event.OrderID.String()),
		OfferType:     stringPtr(string(event.OfferType)),
		DiscountCents: int64Ptr(event.DiscountCents),
		TimesApplied:  int64Ptr(event.TimesApplied),
		Payload:       payloadJSON,
	}

	if err := h.writer.InsertOfferEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert offer event row", err)
		return err
	}

	h.logg.Info(logCtx, "offer_redeemed handler inserted offer event row")
	return nil
}

type offerExpiredHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOfferExpiredHandler(writer Writer, logg *logger.Logger) Handler {
	return &offerExpiredHandler{writer: writer, logg: logg}
}

func (h *offerExpiredHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OfferExpiredEvent)
	if !ok {
		return fmt.Errorf("invalid payload for offer_expired")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"offer_id":   event.OfferID,
	})

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode offer payload", err)
		return err
	}

	row := types.OfferEventRow{
		EventID:      envelope.EventID,
		EventType:    string(envelope.EventType),
		OccurredAt:   analytics.EventTimestamp(event.ExpiredAt, envelope.OccurredAt),
		OfferID:      event.OfferID.String(),
		TruckID:      stringPtr(event.TruckID.String()),
		ExpiryReason: stringPtr(event.Reason),
		Payload:      payloadJSON,
	}

	if err := h.writer.InsertOfferEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert offer event row", err)
		return err
	}

	h.logg.Info(logCtx, "offer_expired handler inserted offer event row")
	return nil
}
