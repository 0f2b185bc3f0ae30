package trucks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
)

// Repository handles truck persistence.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to truck operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// Create persists a new truck row.
func (r *Repository) Create(ctx context.Context, dto CreateTruckDTO) (*models.FoodTruck, error) {
	truck := dto.ToModel()
	if err := r.db.WithContext(ctx).Create(truck).Error; err != nil {
		return nil, err
	}
	return truck, nil
}

// FindByID loads a truck by its UUID.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error) {
	var truck models.FoodTruck
	if err := r.db.WithContext(ctx).
		Omit("location").
		Where("id = ?", id).
		First(&truck).Error; err != nil {
		return nil, err
	}
	return &truck, nil
}

// FindBySlug loads a truck by its public slug.
func (r *Repository) FindBySlug(ctx context.Context, slug string) (*models.FoodTruck, error) {
	var truck models.FoodTruck
	if err := r.db.WithContext(ctx).
		Omit("location").
		Where("slug = ?", slug).
		First(&truck).Error; err != nil {
		return nil, err
	}
	return &truck, nil
}

// FindByOwner returns all trucks owned by the provided user.
func (r *Repository) FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FoodTruck, error) {
	var trucks []models.FoodTruck
	if err := r.db.WithContext(ctx).
		Omit("location").
		Where("owner = ?", ownerID).
		Find(&trucks).Error; err != nil {
		return nil, err
	}
	return trucks, nil
}

// Update saves the provided truck.
func (r *Repository) Update(ctx context.Context, truck *models.FoodTruck) error {
	if truck == nil {
		return fmt.Errorf("truck is required")
	}
	// Location is loaded with Omit; keep Save from nulling it.
	return r.db.WithContext(ctx).Omit("location").Save(truck).Error
}

// TouchLastActive stamps the truck's last activity time.
func (r *Repository) TouchLastActive(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.FoodTruck{}).
		Where("id = ?", id).
		UpdateColumn("last_active_at", at).Error
}

// UpdateLastLoggedInAt records when a merchant last opened this truck's
// dashboard.
func (r *Repository) UpdateLastLoggedInAt(ctx context.Context, id uuid.UUID, at time.Time) error {
	return r.db.WithContext(ctx).
		Model(&models.FoodTruck{}).
		Where("id = ?", id).
		UpdateColumn("last_logged_in_at", at).Error
}
