package trucks

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

type truckRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error)
	FindBySlug(ctx context.Context, slug string) (*models.FoodTruck, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.FoodTruck, error)
	Update(ctx context.Context, truck *models.FoodTruck) error
}

type userDirectory interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// OrderingSettings is the slice of truck state the quote and checkout
// paths read on every request.
type OrderingSettings struct {
	PromoCodesStackable bool
	OffersStackable     bool
	LoyaltyEnabled      bool
	OrderingPaused      bool
	MinPrepTimeMinutes  int
}

// UpdateTruckInput captures the allowed truck fields for mutation. Nil
// pointers leave the stored value untouched.
type UpdateTruckInput struct {
	Name                *string
	Description         *string
	Phone               *string
	Email               *string
	Social              *types.Social
	BannerURL           *string
	LogoURL             *string
	PromoCodesStackable *bool
	OffersStackable     *bool
	LoyaltyEnabled      *bool
	OrderingPaused      *bool
	MinPrepTimeMinutes  *int
}

// Service exposes truck operations.
type Service interface {
	GetByID(ctx context.Context, id uuid.UUID) (*TruckDTO, error)
	GetBySlug(ctx context.Context, slug string) (*TruckDTO, error)
	ListForUser(ctx context.Context, userID uuid.UUID) ([]TruckDTO, error)
	Update(ctx context.Context, userID, truckID uuid.UUID, input UpdateTruckInput) (*TruckDTO, error)
	OrderingSettings(ctx context.Context, truckID uuid.UUID) (OrderingSettings, error)
}

type service struct {
	repo  truckRepository
	users userDirectory
}

// NewService builds a truck service with the provided repositories.
func NewService(repo truckRepository, users userDirectory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("truck repository required")
	}
	if users == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo, users: users}, nil
}

func (s *service) GetByID(ctx context.Context, id uuid.UUID) (*TruckDTO, error) {
	truck, err := s.loadTruck(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromModel(truck), nil
}

func (s *service) GetBySlug(ctx context.Context, slug string) (*TruckDTO, error) {
	truck, err := s.repo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "truck not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load truck")
	}
	return FromModel(truck), nil
}

func (s *service) ListForUser(ctx context.Context, userID uuid.UUID) ([]TruckDTO, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}

	owned, err := s.repo.FindByOwner(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list owned trucks")
	}

	seen := make(map[uuid.UUID]bool, len(owned))
	dtos := make([]TruckDTO, 0, len(owned)+len(user.TruckIDs))
	for i := range owned {
		seen[owned[i].ID] = true
		dtos = append(dtos, *FromModel(&owned[i]))
	}
	for _, truckID := range user.TruckIDs {
		if seen[truckID] {
			continue
		}
		truck, err := s.repo.FindByID(ctx, truckID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load truck")
		}
		dtos = append(dtos, *FromModel(truck))
	}
	return dtos, nil
}

func (s *service) Update(ctx context.Context, userID, truckID uuid.UUID, input UpdateTruckInput) (*TruckDTO, error) {
	truck, err := s.loadTruck(ctx, truckID)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, userID, truck); err != nil {
		return nil, err
	}

	if input.Name != nil {
		truck.Name = *input.Name
	}
	if input.Description != nil {
		truck.Description = cloneStringPtr(input.Description)
	}
	if input.Phone != nil {
		truck.Phone = cloneStringPtr(input.Phone)
	}
	if input.Email != nil {
		truck.Email = cloneStringPtr(input.Email)
	}
	if input.Social != nil {
		cpy := *input.Social
		truck.Social = &cpy
	}
	if input.BannerURL != nil {
		truck.BannerURL = cloneStringPtr(input.BannerURL)
	}
	if input.LogoURL != nil {
		truck.LogoURL = cloneStringPtr(input.LogoURL)
	}
	if input.PromoCodesStackable != nil {
		truck.PromoCodesStackable = *input.PromoCodesStackable
	}
	if input.OffersStackable != nil {
		truck.OffersStackable = *input.OffersStackable
	}
	if input.LoyaltyEnabled != nil {
		truck.LoyaltyEnabled = *input.LoyaltyEnabled
	}
	if input.OrderingPaused != nil {
		truck.OrderingPaused = *input.OrderingPaused
	}
	if input.MinPrepTimeMinutes != nil {
		if *input.MinPrepTimeMinutes < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min prep time cannot be negative")
		}
		truck.MinPrepTimeMinutes = *input.MinPrepTimeMinutes
	}

	if err := s.repo.Update(ctx, truck); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update truck")
	}
	return FromModel(truck), nil
}

func (s *service) OrderingSettings(ctx context.Context, truckID uuid.UUID) (OrderingSettings, error) {
	truck, err := s.loadTruck(ctx, truckID)
	if err != nil {
		return OrderingSettings{}, err
	}
	return OrderingSettings{
		PromoCodesStackable: truck.PromoCodesStackable,
		OffersStackable:     truck.OffersStackable,
		LoyaltyEnabled:      truck.LoyaltyEnabled,
		OrderingPaused:      truck.OrderingPaused || !truck.IsActive,
		MinPrepTimeMinutes:  truck.MinPrepTimeMinutes,
	}, nil
}

func (s *service) loadTruck(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error) {
	truck, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "truck not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load truck")
	}
	return truck, nil
}

func (s *service) authorize(ctx context.Context, userID uuid.UUID, truck *models.FoodTruck) error {
	if truck.OwnerID == userID {
		return nil
	}
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeForbidden, "user cannot operate this truck")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if !user.TruckIDs.Contains(truck.ID) {
		return pkgerrors.New(pkgerrors.CodeForbidden, "user cannot operate this truck")
	}
	return nil
}

func cloneStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	cpy := *value
	return &cpy
}
