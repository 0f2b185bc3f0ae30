package orders

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/outbox"
	"github.com/curbsidehq/curbside-backend/pkg/outbox/payloads"
	"github.com/curbsidehq/curbside-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// TransitionInput moves an order through the merchant lifecycle.
type TransitionInput struct {
	OrderID     uuid.UUID
	TruckID     uuid.UUID
	Target      enums.OrderStatus
	Reason      *string
	ActorUserID uuid.UUID
	ActorRole   string
}

// Service defines merchant-facing order operations.
type Service interface {
	Get(ctx context.Context, truckID, orderID uuid.UUID) (*models.Order, error)
	List(ctx context.Context, truckID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error)
	Transition(ctx context.Context, input TransitionInput) (*models.Order, error)
}

type service struct {
	repo   Repository
	tx     txRunner
	outbox outboxPublisher
	now    func() time.Time
}

// NewService builds the merchant order service.
func NewService(repo Repository, tx txRunner, events outboxPublisher) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{repo: repo, tx: tx, outbox: events, now: time.Now}, nil
}

func (s *service) Get(ctx context.Context, truckID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
	}
	if order.TruckID != truckID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to truck")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, truckID uuid.UUID, params pagination.Params, filters ListFilters) (*OrderList, error) {
	if truckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "truck id is required")
	}
	list, err := s.repo.ListByTruck(ctx, truckID, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

// Transition applies one lifecycle step. Repeating the current status is
// a no-op; anything outside the transition table is a state conflict.
func (s *service) Transition(ctx context.Context, input TransitionInput) (*models.Order, error) {
	if input.OrderID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id required")
	}
	if !input.Target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "unknown order status")
	}
	if input.ActorUserID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	if input.TruckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "truck context missing")
	}

	var result *models.Order
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		order, err := repo.FindByID(ctx, input.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load order")
		}
		if order.TruckID != input.TruckID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "order does not belong to truck")
		}
		if order.Status == input.Target {
			result = order
			return nil
		}
		if !order.Status.CanTransitionTo(input.Target) {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed in current state").WithDetails(map[string]any{
				"from": order.Status,
				"to":   input.Target,
			})
		}

		now := s.now()
		updates := map[string]any{"status": input.Target}
		if column := statusTimestampColumn(input.Target); column != "" {
			updates[column] = now
		}
		if err := repo.UpdateStatus(ctx, order.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
		}

		fromStatus := order.Status
		order.Status = input.Target
		applyStatusTimestamp(order, input.Target, now)
		result = order

		return s.outbox.Emit(ctx, tx, s.statusEvent(order, fromStatus, input, now))
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) statusEvent(order *models.Order, from enums.OrderStatus, input TransitionInput, at time.Time) outbox.DomainEvent {
	actor := &outbox.ActorRef{UserID: input.ActorUserID, Role: input.ActorRole}
	truckID := input.TruckID
	actor.TruckID = &truckID

	if input.Target == enums.OrderStatusCanceled {
		var reason string
		if input.Reason != nil {
			reason = *input.Reason
		}
		return outbox.DomainEvent{
			EventType:     enums.EventOrderCanceled,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Actor:         actor,
			Version:       1,
			Data: payloads.OrderCanceledEvent{
				OrderID:    order.ID,
				TruckID:    order.TruckID,
				CanceledAt: at,
				Reason:     reason,
			},
		}
	}
	return outbox.DomainEvent{
		EventType:     enums.EventOrderStatusChanged,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         actor,
		Version:       1,
		Data: payloads.OrderStatusChangedEvent{
			OrderID:    order.ID,
			TruckID:    order.TruckID,
			FromStatus: from,
			ToStatus:   input.Target,
			ChangedAt:  at,
		},
	}
}

func statusTimestampColumn(status enums.OrderStatus) string {
	switch status {
	case enums.OrderStatusAccepted:
		return "accepted_at"
	case enums.OrderStatusReady:
		return "ready_at"
	case enums.OrderStatusCompleted:
		return "completed_at"
	case enums.OrderStatusCanceled:
		return "canceled_at"
	}
	return ""
}

func applyStatusTimestamp(order *models.Order, status enums.OrderStatus, at time.Time) {
	switch status {
	case enums.OrderStatusAccepted:
		order.AcceptedAt = &at
	case enums.OrderStatusReady:
		order.ReadyAt = &at
	case enums.OrderStatusCompleted:
		order.CompletedAt = &at
	case enums.OrderStatusCanceled:
		order.CanceledAt = &at
	}
}
