package trucks

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	dbtypes "github.com/curbsidehq/curbside-backend/pkg/db/types"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

type stubTruckRepo struct {
	truck   *models.FoodTruck
	err     error
	updated *models.FoodTruck
}

func (s *stubTruckRepo) FindByID(_ context.Context, _ uuid.UUID) (*models.FoodTruck, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.truck, nil
}

func (s *stubTruckRepo) FindBySlug(_ context.Context, _ string) (*models.FoodTruck, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.truck, nil
}

func (s *stubTruckRepo) FindByOwner(_ context.Context, ownerID uuid.UUID) ([]models.FoodTruck, error) {
	if s.truck != nil && s.truck.OwnerID == ownerID {
		return []models.FoodTruck{*s.truck}, nil
	}
	return nil, nil
}

func (s *stubTruckRepo) Update(_ context.Context, truck *models.FoodTruck) error {
	s.updated = truck
	return nil
}

type stubUserDirectory struct {
	user *models.User
	err  error
}

func (s stubUserDirectory) FindByID(_ context.Context, _ uuid.UUID) (*models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.user, nil
}

func baseTruck() *models.FoodTruck {
	phone := "+1-555-0100"
	return &models.FoodTruck{
		ID:                 uuid.New(),
		Name:               "El Fuego",
		Slug:               "el-fuego",
		Phone:              &phone,
		IsActive:           true,
		OffersStackable:    true,
		MinPrepTimeMinutes: 15,
		OwnerID:            uuid.New(),
	}
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(nil, stubUserDirectory{})
	if err == nil {
		t.Fatal("expected error creating service without repo")
	}
}

func TestNewServiceRequiresUsers(t *testing.T) {
	_, err := NewService(&stubTruckRepo{}, nil)
	if err == nil {
		t.Fatal("expected error creating service without users repo")
	}
}

func TestServiceGetByIDSuccess(t *testing.T) {
	truck := baseTruck()
	svc, err := NewService(&stubTruckRepo{truck: truck}, stubUserDirectory{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), truck.ID)
	if err != nil {
		t.Fatalf("get truck: %v", err)
	}
	if dto.ID != truck.ID {
		t.Fatalf("expected id %s got %s", truck.ID, dto.ID)
	}
	if dto.Name != truck.Name {
		t.Fatalf("expected name %s got %s", truck.Name, dto.Name)
	}
	if dto.Phone == nil || *dto.Phone != *truck.Phone {
		t.Fatalf("expected phone %q got %v", *truck.Phone, dto.Phone)
	}
}

func TestServiceGetByIDNotFound(t *testing.T) {
	svc, err := NewService(&stubTruckRepo{err: gorm.ErrRecordNotFound}, stubUserDirectory{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if gotErr == nil {
		t.Fatal("expected error")
	}
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found code, got %v", gotErr)
	}
}

func TestServiceUpdateRequiresOperator(t *testing.T) {
	truck := baseTruck()
	repo := &stubTruckRepo{truck: truck}
	outsider := &models.User{ID: uuid.New(), TruckIDs: dbtypes.UUIDArray{}}
	svc, err := NewService(repo, stubUserDirectory{user: outsider})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	name := "Renamed"
	_, gotErr := svc.Update(context.Background(), outsider.ID, truck.ID, UpdateTruckInput{Name: &name})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", gotErr)
	}
	if repo.updated != nil {
		t.Fatal("update must not reach the repository")
	}
}

func TestServiceUpdateAllowsOperatorFromTruckList(t *testing.T) {
	truck := baseTruck()
	repo := &stubTruckRepo{truck: truck}
	operator := &models.User{ID: uuid.New(), TruckIDs: dbtypes.UUIDArray{truck.ID}}
	svc, err := NewService(repo, stubUserDirectory{user: operator})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	paused := true
	dto, err := svc.Update(context.Background(), operator.ID, truck.ID, UpdateTruckInput{OrderingPaused: &paused})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !dto.OrderingPaused {
		t.Fatal("expected ordering to be paused")
	}
	if repo.updated == nil || !repo.updated.OrderingPaused {
		t.Fatal("expected the pause flag to persist")
	}
}

func TestServiceUpdateRejectsNegativePrepTime(t *testing.T) {
	truck := baseTruck()
	svc, err := NewService(&stubTruckRepo{truck: truck}, stubUserDirectory{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	negative := -5
	_, gotErr := svc.Update(context.Background(), truck.OwnerID, truck.ID, UpdateTruckInput{MinPrepTimeMinutes: &negative})
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", gotErr)
	}
}

func TestOrderingSettingsPausesInactiveTruck(t *testing.T) {
	truck := baseTruck()
	truck.IsActive = false
	truck.LoyaltyEnabled = true
	svc, err := NewService(&stubTruckRepo{truck: truck}, stubUserDirectory{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	settings, err := svc.OrderingSettings(context.Background(), truck.ID)
	if err != nil {
		t.Fatalf("ordering settings: %v", err)
	}
	if !settings.OrderingPaused {
		t.Fatal("inactive truck must report ordering paused")
	}
	if !settings.LoyaltyEnabled {
		t.Fatal("loyalty flag should pass through")
	}
	if !settings.OffersStackable {
		t.Fatal("offers stackable flag should pass through")
	}
}

func TestListForUserMergesOwnedAndOperated(t *testing.T) {
	truck := baseTruck()
	repo := &stubTruckRepo{truck: truck}
	owner := &models.User{ID: truck.OwnerID, TruckIDs: dbtypes.UUIDArray{truck.ID}}
	svc, err := NewService(repo, stubUserDirectory{user: owner})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dtos, err := svc.ListForUser(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("list for user: %v", err)
	}
	if len(dtos) != 1 {
		t.Fatalf("owned truck must not be listed twice, got %d entries", len(dtos))
	}
}

func TestServiceUpdateDependencyError(t *testing.T) {
	svc, err := NewService(&stubTruckRepo{err: errors.New("boom")}, stubUserDirectory{})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.GetByID(context.Background(), uuid.New())
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", gotErr)
	}
}
