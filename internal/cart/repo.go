package cart

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
)

// Repository defines the persistence surface required by the quote service.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindActive(ctx context.Context, truckID uuid.UUID, sessionID string) (*models.CartRecord, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, record *models.CartRecord) error
	Update(ctx context.Context, record *models.CartRecord) error
	ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error
	MarkConverted(ctx context.Context, id uuid.UUID, at time.Time) error
	ExpireStale(ctx context.Context, olderThan time.Time) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to cart persistence.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindActive returns the latest active quote for the session at the truck.
func (r *repository) FindActive(ctx context.Context, truckID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("truck_id = ? AND session_id = ? AND status = ?", truckID, sessionID, enums.CartStatusActive).
		Order("created_at DESC").
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.CartRecord, error) {
	var record models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("id = ?", id).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *repository) Create(ctx context.Context, record *models.CartRecord) error {
	if record.Status == "" {
		record.Status = enums.CartStatusActive
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) Update(ctx context.Context, record *models.CartRecord) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// ReplaceItems swaps the persisted lines for the cart in one shot.
func (r *repository) ReplaceItems(ctx context.Context, cartID uuid.UUID, items []models.CartItem) error {
	if err := r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&models.CartItem{}).Error; err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}
	for i := range items {
		items[i].CartID = cartID
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// MarkConverted flips the quote to converted when its order is committed.
func (r *repository) MarkConverted(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":       enums.CartStatusConverted,
			"converted_at": at,
		}).Error
}

// ExpireStale flips abandoned active quotes to expired and reports how
// many rows changed. Used by the cleanup cron.
func (r *repository) ExpireStale(ctx context.Context, olderThan time.Time) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&models.CartRecord{}).
		Where("status = ? AND updated_at < ?", enums.CartStatusActive, olderThan).
		Update("status", enums.CartStatusExpired)
	return result.RowsAffected, result.Error
}
