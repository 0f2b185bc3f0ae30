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

type orderStatusChangedHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderStatusChangedHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderStatusChangedHandler{writer: writer, logg: logg}
}

func (h *orderStatusChangedHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OrderStatusChangedEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_status_changed")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
		"to_status":  event.ToStatus,
	})

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode status payload", err)
		return err
	}

	row := types.OrderEventRow{
		EventID:    envelope.EventID,
		EventType:  string(envelope.EventType),
		OccurredAt: analytics.EventTimestamp(event.ChangedAt, envelope.OccurredAt),
		OrderID:    stringPtr(event.OrderID.String()),
		TruckID:    stringPtr(event.TruckID.String()),
		FromStatus: stringPtr(string(event.FromStatus)),
		ToStatus:   stringPtr(string(event.ToStatus)),
		Payload:    payloadJSON,
	}

	if err := h.writer.InsertOrderEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert order event row", err)
		return err
	}

	h.logg.Info(logCtx, "order_status_changed handler inserted order event row")
	return nil
}

type orderCanceledHandler struct {
	writer Writer
	logg   *logger.Logger
}

func newOrderCanceledHandler(writer Writer, logg *logger.Logger) Handler {
	return &orderCanceledHandler{writer: writer, logg: logg}
}

func (h *orderCanceledHandler) Handle(ctx context.Context, envelope types.Envelope, payload any) error {
	event, ok := payload.(*payloads.OrderCanceledEvent)
	if !ok {
		return fmt.Errorf("invalid payload for order_canceled")
	}

	logCtx := h.logg.WithFields(ctx, map[string]any{
		"event_type": envelope.EventType,
		"order_id":   event.OrderID,
	})

	payloadJSON, err := analyticswriter.EncodeJSON(event)
	if err != nil {
		h.logg.Error(logCtx, "failed to encode cancel payload", err)
		return err
	}

	row := types.OrderEventRow{
		EventID:      envelope.EventID,
		EventType:    string(envelope.EventType),
		OccurredAt:   analytics.EventTimestamp(event.CanceledAt, envelope.OccurredAt),
		OrderID:      stringPtr(event.OrderID.String()),
		TruckID:      stringPtr(event.TruckID.String()),
		CancelReason: stringPtr(event.Reason),
		Payload:      payloadJSON,
	}

	if err := h.writer.InsertOrderEvent(logCtx, row); err != nil {
		h.logg.Error(logCtx, "failed to insert order event row", err)
		return err
	}

	h.logg.Info(logCtx, "order_canceled handler inserted order event row")
	return nil
}
