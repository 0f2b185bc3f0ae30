package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/outbox"
	"github.com/curbsidehq/curbside-backend/pkg/outbox/payloads"
	"gorm.io/gorm"
)

func TestOfferExpiryJobEmitsEventPerOffer(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	offers := []models.Offer{
		{ID: uuid.New(), TruckID: uuid.New()},
		{ID: uuid.New(), TruckID: uuid.New()},
	}
	repo := &fakeOfferExpiryRepo{expired: offers}
	events := &fakeOfferEventEmitter{}
	job := newOfferExpiryJob(t, repo, events)
	job.now = func() time.Time { return now }

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !repo.lastNow.Equal(now) {
		t.Fatalf("expected sweep time %s, got %s", now, repo.lastNow)
	}
	if len(events.emitted) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events.emitted))
	}
	first := events.emitted[0]
	if first.EventType != enums.EventOfferExpired {
		t.Fatalf("expected event type %s, got %s", enums.EventOfferExpired, first.EventType)
	}
	if first.AggregateID != offers[0].ID {
		t.Fatalf("expected aggregate %s, got %s", offers[0].ID, first.AggregateID)
	}
	data, ok := first.Data.(payloads.OfferExpiredEvent)
	if !ok {
		t.Fatalf("expected OfferExpiredEvent payload, got %T", first.Data)
	}
	if data.TruckID != offers[0].TruckID {
		t.Fatalf("expected truck %s, got %s", offers[0].TruckID, data.TruckID)
	}
	if data.Reason != offerExpiredReason {
		t.Fatalf("expected reason %q, got %q", offerExpiredReason, data.Reason)
	}
}

func TestOfferExpiryJobSkipsEmitWhenNothingExpired(t *testing.T) {
	repo := &fakeOfferExpiryRepo{}
	events := &fakeOfferEventEmitter{}
	job := newOfferExpiryJob(t, repo, events)

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(events.emitted) != 0 {
		t.Fatalf("expected no events, got %d", len(events.emitted))
	}
}

func TestOfferExpiryJobPropagatesRepoError(t *testing.T) {
	repo := &fakeOfferExpiryRepo{err: errors.New("boom")}
	events := &fakeOfferEventEmitter{}
	job := newOfferExpiryJob(t, repo, events)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if len(events.emitted) != 0 {
		t.Fatalf("expected no events on repo failure, got %d", len(events.emitted))
	}
}

func TestOfferExpiryJobPropagatesEmitError(t *testing.T) {
	repo := &fakeOfferExpiryRepo{expired: []models.Offer{{ID: uuid.New()}}}
	events := &fakeOfferEventEmitter{err: errors.New("outbox down")}
	job := newOfferExpiryJob(t, repo, events)

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error")
	}
}

func newOfferExpiryJob(t *testing.T, repo *fakeOfferExpiryRepo, events *fakeOfferEventEmitter) *offerExpiryJob {
	t.Helper()
	jobIface, err := NewOfferExpiryJob(OfferExpiryJobParams{
		Logger:     logger.New(logger.Options{ServiceName: "test"}),
		DB:         outboxRetentionTxRunner{},
		Repository: repo,
		Events:     events,
	})
	if err != nil {
		t.Fatalf("NewOfferExpiryJob: %v", err)
	}
	job, ok := jobIface.(*offerExpiryJob)
	if !ok {
		t.Fatalf("expected offerExpiryJob, got %T", jobIface)
	}
	return job
}

type fakeOfferExpiryRepo struct {
	expired []models.Offer
	lastNow time.Time
	err     error
}

func (f *fakeOfferExpiryRepo) ExpireEnded(ctx context.Context, now time.Time) ([]models.Offer, error) {
	f.lastNow = now
	if f.err != nil {
		return nil, f.err
	}
	return f.expired, nil
}

type fakeOfferEventEmitter struct {
	emitted []outbox.DomainEvent
	err     error
}

func (f *fakeOfferEventEmitter) Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error {
	if f.err != nil {
		return f.err
	}
	f.emitted = append(f.emitted, event)
	return nil
}
