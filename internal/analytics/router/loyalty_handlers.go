package router

import (
	"context"
	"fmt"

	"github.com/curbsidehq/curbside-backend/internal/analytics/types"
	analyticswriter "github.com/curbsidehq/curbside-backend/internal/analytics/writer"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/outbox/payloads"
)

type loyaltyEarnedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newLoyaltyEarnedHandler(writer Writer, logg *logger.Logger) Handler {
	return &loyaltyEarnedHandler{writer: writer, logg: logg}
}

func (h *loyaltyEarnedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.LoyaltyPointsEarnedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for loyalty_points_earned")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"account_id": event.AccountID,
		"order_id":   event.OrderID,
	})

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode loyalty payload", err)
		return err
	}

	row := types.LoyaltyEventRow{
		EventID:       envelope.EventID,
		EventType:     string(envelope.EventType),
		OccurredAt:    envelope.OccurredAt,
		AccountID:     event.AccountID.String(),
		TruckID:       stringPtr(event.TruckID.String()),
		OrderID:       stringPtr(event.OrderID.String()),
		CustomerEmail: stringPtr(event.CustomerEmail),
		Points:        int64(event.Points),
		NewBalance:    int64(event.NewBalance),
		Payload:       payloadJSON,
	}

	if err := h.writer.InsertLoyaltyEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert loyalty event row", err)
		return err
	}

	h.logg.Info(logCtx, "loyalty_points_earned handler inserted loyalty event row")
	return nil
}

type loyaltySpentHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newLoyaltySpentHandler(writer Writer, logg *logger.Logger) Handler {
	return &loyaltySpentHandler{writer: writer, logg: logg}
}

func (h *loyaltySpentHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.LoyaltyPointsSpentEvent)
	if !ok {
		return fmt.Errorf("invalid payload for loyalty_points_spent")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"account_id": event.AccountID,
		"order_id":   event.OrderID,
	})

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode loyalty payload", err)
		return err
	}

	row := types.LoyaltyEventRow{
		EventID:       envelope.EventID,
		EventType:     string(envelope.EventType),
		OccurredAt:    envelope.OccurredAt,
		AccountID:     event.AccountID.String(),
		TruckID:       stringPtr(event.TruckID.String()),
		OrderID:       stringPtr(event.OrderID.String()),
		CustomerEmail: stringPtr(event.CustomerEmail),
		Points:        int64(event.Points),
		NewBalance:    int64(event.NewBalance),
		ValueCents:    int64Ptr(event.DiscountCents),
		Payload:       payloadJSON,
	}

	if err := h.writer.InsertLoyaltyEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert loyalty event row", err)
		return err
	}

	h.logg.Info(logCtx, "loyalty_points_spent handler inserted loyalty event row")
	return nil
}
