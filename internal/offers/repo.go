package offers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

// Repository exposes offer persistence for the aggregator and checkout.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	ListActive(ctx context.Context, truckID uuid.UUID, now time.Time) ([]models.Offer, error)
	ListByTruck(ctx context.Context, truckID uuid.UUID) ([]models.Offer, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error)
	CountCustomerUses(ctx context.Context, truckID uuid.UUID, customerEmail string) (map[uuid.UUID]int, error)
	IncrementUsage(ctx context.Context, offerID uuid.UUID) error
	RecordRedemption(ctx context.Context, redemption *models.OfferRedemption) error
	ExpireEnded(ctx context.Context, now time.Time) ([]models.Offer, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an offers repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// ListActive returns the truck's offers that are active and inside their
// date window. Day-of-week and time-of-day fields are left for the
// aggregator to evaluate.
func (r *repository) ListActive(ctx context.Context, truckID uuid.UUID, now time.Time) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Where("truck_id = ?", truckID).
		Where("is_active = ?", true).
		Where("starts_at IS NULL OR starts_at <= ?", now).
		Where("ends_at IS NULL OR ends_at >= ?", now).
		Order("created_at ASC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repository) ListByTruck(ctx context.Context, truckID uuid.UUID) ([]models.Offer, error) {
	var offers []models.Offer
	err := r.db.WithContext(ctx).
		Where("truck_id = ?", truckID).
		Order("created_at DESC").
		Find(&offers).Error
	if err != nil {
		return nil, err
	}
	return offers, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Offer, error) {
	var offer models.Offer
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&offer).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "offer not found")
		}
		return nil, err
	}
	return &offer, nil
}

// CountCustomerUses loads per-offer redemption counts for one customer,
// used against max_uses_per_customer.
func (r *repository) CountCustomerUses(ctx context.Context, truckID uuid.UUID, customerEmail string) (map[uuid.UUID]int, error) {
	if customerEmail == "" {
		return map[uuid.UUID]int{}, nil
	}
	var rows []struct {
		OfferID uuid.UUID
		Uses    int
	}
	err := r.db.WithContext(ctx).
		Model(&models.OfferRedemption{}).
		Select("offer_id, COUNT(*) AS uses").
		Where("truck_id = ? AND customer_email = ?", truckID, customerEmail).
		Group("offer_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	uses := make(map[uuid.UUID]int, len(rows))
	for _, row := range rows {
		uses[row.OfferID] = row.Uses
	}
	return uses, nil
}

func (r *repository) IncrementUsage(ctx context.Context, offerID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id = ?", offerID).
		UpdateColumn("current_uses", gorm.Expr("current_uses + 1")).Error
}

func (r *repository) RecordRedemption(ctx context.Context, redemption *models.OfferRedemption) error {
	return r.db.WithContext(ctx).Create(redemption).Error
}

// ExpireEnded deactivates offers whose end date has passed and returns
// the records it touched so the caller can emit expiry events.
func (r *repository) ExpireEnded(ctx context.Context, now time.Time) ([]models.Offer, error) {
	var expired []models.Offer
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Where("ends_at IS NOT NULL AND ends_at < ?", now).
		Find(&expired).Error
	if err != nil {
		return nil, err
	}
	if len(expired) == 0 {
		return nil, nil
	}
	ids := make([]uuid.UUID, 0, len(expired))
	for _, offer := range expired {
		ids = append(ids, offer.ID)
	}
	err = r.db.WithContext(ctx).
		Model(&models.Offer{}).
		Where("id IN ?", ids).
		UpdateColumn("is_active", false).Error
	if err != nil {
		return nil, err
	}
	return expired, nil
}
