package auth

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	pkgAuth "github.com/curbsidehq/curbside-backend/pkg/auth"
	"github.com/curbsidehq/curbside-backend/pkg/auth/session"
	"github.com/curbsidehq/curbside-backend/pkg/config"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

// SwitchTruckInput captures the data required to change the active truck.
type SwitchTruckInput struct {
	UserID        uuid.UUID
	TruckID       uuid.UUID
	AccessTokenID string
	RefreshToken  string
}

// SwitchTruckResult returns the tokens issued after switching trucks.
type SwitchTruckResult struct {
	AccessToken  string
	RefreshToken string
	Truck        TruckSummary
}

type switchUserLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type switchTruckLoader interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.FoodTruck, error)
	UpdateLastLoggedInAt(ctx context.Context, id uuid.UUID, at time.Time) error
}

type switchSessionRotator interface {
	Rotate(ctx context.Context, oldAccessID, provided string) (string, string, error)
}

// SwitchTruckService is the interface exposed to the controller.
type SwitchTruckService interface {
	Switch(ctx context.Context, input SwitchTruckInput) (*SwitchTruckResult, error)
}

// SwitchTruckServiceParams bundles dependencies for the switch flow.
type SwitchTruckServiceParams struct {
	UserRepo       switchUserLoader
	TruckRepo      switchTruckLoader
	SessionManager switchSessionRotator
	JWTConfig      config.JWTConfig
}

type switchTruckService struct {
	users   switchUserLoader
	trucks  switchTruckLoader
	session switchSessionRotator
	jwtCfg  config.JWTConfig
}

// NewSwitchTruckService constructs the service.
func NewSwitchTruckService(params SwitchTruckServiceParams) (SwitchTruckService, error) {
	if params.UserRepo == nil {
		return nil, errors.New("user repository required")
	}
	if params.TruckRepo == nil {
		return nil, errors.New("truck repository required")
	}
	if params.SessionManager == nil {
		return nil, errors.New("session manager required")
	}
	return &switchTruckService{
		users:   params.UserRepo,
		trucks:  params.TruckRepo,
		session: params.SessionManager,
		jwtCfg:  params.JWTConfig,
	}, nil
}

func (s *switchTruckService) Switch(ctx context.Context, input SwitchTruckInput) (*SwitchTruckResult, error) {
	user, err := s.users.FindByID(ctx, input.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup user")
	}

	truck, err := s.trucks.FindByID(ctx, input.TruckID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "truck access required")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup truck")
	}

	role := enums.MemberRoleStaff
	switch {
	case truck.OwnerID == user.ID:
		role = enums.MemberRoleOwner
	case user.TruckIDs.Contains(truck.ID):
	default:
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "truck access required")
	}

	if err := s.trucks.UpdateLastLoggedInAt(ctx, truck.ID, time.Now().UTC()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "update truck last login")
	}

	newAccessID, newRefreshToken, err := s.session.Rotate(ctx, input.AccessTokenID, input.RefreshToken)
	if err != nil {
		if errors.Is(err, session.ErrInvalidRefreshToken) {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid refresh token")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "rotate session")
	}

	truckID := truck.ID
	accessToken, err := pkgAuth.MintAccessToken(s.jwtCfg, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:        user.ID,
		ActiveTruckID: &truckID,
		Role:          role,
		JTI:           newAccessID,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}

	return &SwitchTruckResult{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
		Truck: TruckSummary{
			ID:      truck.ID,
			Name:    truck.Name,
			Slug:    truck.Slug,
			LogoURL: truck.LogoURL,
		},
	}, nil
}
