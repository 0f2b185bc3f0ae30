package cron

import (
	"context"
	"fmt"
	"time"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/outbox"
	"github.com/curbsidehq/curbside-backend/pkg/outbox/payloads"
	"gorm.io/gorm"
)

const offerExpiredReason = "window_closed"

type offerExpiryRepo interface {
	ExpireEnded(ctx context.Context, now time.Time) ([]models.Offer, error)
}

type offerEventEmitter interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

type OfferExpiryJobParams struct {
	Logger     *logger.Logger
	DB         txRunner
	Repository offerExpiryRepo
	Events     offerEventEmitter
}

// NewOfferExpiryJob builds the sweep that deactivates offers whose end
// date has passed and records an expiry event for each one.
func NewOfferExpiryJob(params OfferExpiryJobParams) (Job, error) {
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}
	if params.DB == nil {
		return nil, fmt.Errorf("db runner required")
	}
	if params.Repository == nil {
		return nil, fmt.Errorf("offers repository required")
	}
	if params.Events == nil {
		return nil, fmt.Errorf("event publisher required")
	}
	return &offerExpiryJob{
		logg:   params.Logger,
		db:     params.DB,
		repo:   params.Repository,
		events: params.Events,
		now:    time.Now,
	}, nil
}

type offerExpiryJob struct {
	logg   *logger.Logger
	db     txRunner
	repo   offerExpiryRepo
	events offerEventEmitter
	now    func() time.Time
}

func (j *offerExpiryJob) Name() string { return "offer-expiry" }

func (j *offerExpiryJob) Run(ctx context.Context) error {
	now := j.now().UTC()
	expired, err := j.repo.ExpireEnded(ctx, now)
	if err != nil {
		return fmt.Errorf("expire offers: %w", err)
	}
	if len(expired) == 0 {
		return nil
	}
	err = j.db.WithTx(ctx, func(tx *gorm.DB) error {
		for _, offer := range expired {
			event := outbox.DomainEvent{
				EventType:     enums.EventOfferExpired,
				AggregateType: enums.AggregateOffer,
				AggregateID:   offer.ID,
				Data: payloads.OfferExpiredEvent{
					OfferID:   offer.ID,
					TruckID:   offer.TruckID,
					ExpiredAt: now,
					Reason:    offerExpiredReason,
				},
				Version:    1,
				OccurredAt: now,
			}
			if err := j.events.Emit(ctx, tx, event); err != nil {
				return fmt.Errorf("emit expiry for offer %s: %w", offer.ID, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("offer expiry events: %w", err)
	}
	logCtx := j.logg.WithField(ctx, "offers_expired", len(expired))
	j.logg.Info(logCtx, "offer expiry sweep complete")
	return nil
}
