package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/internal/trucks"
	"github.com/curbsidehq/curbside-backend/internal/users"
	"github.com/curbsidehq/curbside-backend/pkg/config"
	"github.com/curbsidehq/curbside-backend/pkg/db"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/security"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// RegisterRequest contains the payload required to onboard a merchant
// and their first truck.
type RegisterRequest struct {
	FirstName string          `json:"first_name" validate:"required"`
	LastName  string          `json:"last_name" validate:"required"`
	Email     string          `json:"email" validate:"required,email"`
	Password  string          `json:"password" validate:"required"`
	Phone     *string         `json:"phone,omitempty"`
	TruckName string          `json:"truck_name" validate:"required"`
	TruckSlug string          `json:"truck_slug" validate:"required"`
	Address   *types.Address  `json:"address,omitempty"`
	Currency  *enums.Currency `json:"currency,omitempty"`
	AcceptTOS bool            `json:"accept_tos"`
}

// RegisterService handles the onboarding transaction.
type RegisterService interface {
	Register(ctx context.Context, req RegisterRequest) error
}

// RegisterServiceParams packages the dependencies for the registration flow.
type RegisterServiceParams struct {
	DB             *db.Client
	PasswordConfig config.PasswordConfig
}

type registerService struct {
	db          *db.Client
	passwordCfg config.PasswordConfig
}

// NewRegisterService builds a registration service with the provided dependencies.
func NewRegisterService(params RegisterServiceParams) (RegisterService, error) {
	if params.DB == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "database client required")
	}
	return &registerService{
		db:          params.DB,
		passwordCfg: params.PasswordConfig,
	}, nil
}

func (s *registerService) Register(ctx context.Context, req RegisterRequest) error {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	if !req.AcceptTOS {
		return pkgerrors.New(pkgerrors.CodeValidation, "accept_tos must be true")
	}
	slug := strings.ToLower(strings.TrimSpace(req.TruckSlug))
	if slug == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "truck slug is required")
	}

	passwordHash, err := security.HashPassword(req.Password, s.passwordCfg)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	return s.db.WithTx(ctx, func(tx *gorm.DB) error {
		userRepo := users.NewRepository(tx)
		truckRepo := trucks.NewRepository(tx)

		if _, err := userRepo.FindByEmail(ctx, email); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "email already registered")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check user email")
		}
		if _, err := truckRepo.FindBySlug(ctx, slug); err == nil {
			return pkgerrors.New(pkgerrors.CodeConflict, "truck slug already taken")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "check truck slug")
		}

		user, err := userRepo.Create(ctx, users.CreateUserDTO{
			Email:        email,
			PasswordHash: passwordHash,
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create user")
		}

		var location *types.GeographyPoint
		if req.Address != nil {
			location = &types.GeographyPoint{Lat: req.Address.Lat, Lng: req.Address.Lng}
		}
		truck, err := truckRepo.Create(ctx, trucks.CreateTruckDTO{
			Name:     req.TruckName,
			Slug:     slug,
			Phone:    req.Phone,
			Email:    &email,
			Address:  req.Address,
			Location: location,
			Currency: req.Currency,
			OwnerID:  user.ID,
		})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create truck")
		}

		if err := userRepo.UpdateTruckIDs(ctx, user.ID, []uuid.UUID{truck.ID}); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "associate truck with user")
		}
		return nil
	})
}
