package loyalty

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/config"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

type stubLoyaltyRepo struct {
	account *models.LoyaltyAccount
	findErr error
	entries []*models.LoyaltyTransaction
}

func (s *stubLoyaltyRepo) FindAccount(_ context.Context, _ uuid.UUID, _ string) (*models.LoyaltyAccount, error) {
	if s.findErr != nil {
		return nil, s.findErr
	}
	return s.account, nil
}

func (s *stubLoyaltyRepo) GetOrCreateAccountTx(_ *gorm.DB, truckID uuid.UUID, email string) (*models.LoyaltyAccount, error) {
	if s.account == nil {
		s.account = &models.LoyaltyAccount{ID: uuid.New(), TruckID: truckID, CustomerEmail: email}
	}
	return s.account, nil
}

func (s *stubLoyaltyRepo) ApplyTransactionTx(_ *gorm.DB, account *models.LoyaltyAccount, entry *models.LoyaltyTransaction) error {
	entry.AccountID = account.ID
	account.PointsBalance += entry.Points
	if entry.Points > 0 {
		account.LifetimePoints += entry.Points
	}
	s.entries = append(s.entries, entry)
	return nil
}

func testConfig() config.LoyaltyConfig {
	return config.LoyaltyConfig{PointsPerDollar: 1, PointValueCents: 5, MinRedeemPoints: 100}
}

// The stubbed tx methods never touch the handle, so a nil *gorm.DB keeps
// these tests free of a database.
var noTx *gorm.DB

func TestBalanceForUnknownCustomer(t *testing.T) {
	repo := &stubLoyaltyRepo{findErr: gorm.ErrRecordNotFound}
	svc, err := NewService(repo, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Balance(context.Background(), uuid.New(), "new@example.com")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if dto.PointsBalance != 0 || dto.RedeemableCents != 0 {
		t.Fatalf("unknown customer should see an empty balance, got %+v", dto)
	}
	if dto.MinRedeemPoints != 100 {
		t.Fatalf("expected min redeem threshold in the view, got %d", dto.MinRedeemPoints)
	}
}

func TestBalanceReportsRedeemableValue(t *testing.T) {
	repo := &stubLoyaltyRepo{account: &models.LoyaltyAccount{PointsBalance: 240, LifetimePoints: 900}}
	svc, err := NewService(repo, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	dto, err := svc.Balance(context.Background(), uuid.New(), "regular@example.com")
	if err != nil {
		t.Fatalf("balance: %v", err)
	}
	if dto.RedeemableCents != 1200 {
		t.Fatalf("240 points at 5c should be 1200, got %d", dto.RedeemableCents)
	}
}

func TestPointsForSpendFloorsPartialDollars(t *testing.T) {
	svc, err := NewService(&stubLoyaltyRepo{}, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	if got := svc.PointsForSpend(1999); got != 19 {
		t.Fatalf("expected 19 points on $19.99, got %d", got)
	}
	if got := svc.PointsForSpend(99); got != 0 {
		t.Fatalf("partial dollar must not earn, got %d", got)
	}
	if got := svc.PointsForSpend(-100); got != 0 {
		t.Fatalf("negative totals must not earn, got %d", got)
	}
}

func TestRedeemBelowMinimumRejected(t *testing.T) {
	repo := &stubLoyaltyRepo{account: &models.LoyaltyAccount{ID: uuid.New(), PointsBalance: 500}}
	svc, err := NewService(repo, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.RedeemTx(noTx, uuid.New(), "a@example.com", uuid.New(), 50)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error below minimum, got %v", gotErr)
	}
	if len(repo.entries) != 0 {
		t.Fatal("no ledger entry may be written on rejection")
	}
}

func TestRedeemInsufficientBalance(t *testing.T) {
	repo := &stubLoyaltyRepo{account: &models.LoyaltyAccount{ID: uuid.New(), PointsBalance: 80}}
	svc, err := NewService(repo, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	_, gotErr := svc.RedeemTx(noTx, uuid.New(), "a@example.com", uuid.New(), 120)
	if typed := pkgerrors.As(gotErr); typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict on insufficient balance, got %v", gotErr)
	}
}

func TestRedeemBurnsPointsAndReturnsCents(t *testing.T) {
	repo := &stubLoyaltyRepo{account: &models.LoyaltyAccount{ID: uuid.New(), PointsBalance: 300}}
	svc, err := NewService(repo, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	orderID := uuid.New()
	entry, err := svc.RedeemTx(noTx, uuid.New(), "a@example.com", orderID, 200)
	if err != nil {
		t.Fatalf("redeem: %v", err)
	}
	if entry.ValueCents != 1000 {
		t.Fatalf("200 points at 5c should discount 1000, got %d", entry.ValueCents)
	}
	if entry.NewBalance != 100 || repo.account.PointsBalance != 100 {
		t.Fatalf("expected balance 100 after burn, got %d", repo.account.PointsBalance)
	}
	if len(repo.entries) != 1 || repo.entries[0].Type != enums.LoyaltyTransactionRedeem || repo.entries[0].Points != -200 {
		t.Fatalf("unexpected ledger entry %+v", repo.entries)
	}
	if repo.entries[0].OrderID == nil || *repo.entries[0].OrderID != orderID {
		t.Fatal("ledger entry must reference the order")
	}
}

func TestEarnCreditsWholeDollars(t *testing.T) {
	repo := &stubLoyaltyRepo{}
	svc, err := NewService(repo, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	entry, err := svc.EarnTx(noTx, uuid.New(), "a@example.com", uuid.New(), 2350)
	if err != nil {
		t.Fatalf("earn: %v", err)
	}
	if entry == nil || entry.Points != 23 {
		t.Fatalf("expected 23 points on $23.50, got %+v", entry)
	}
	if repo.account == nil || repo.account.LifetimePoints != 23 {
		t.Fatalf("lifetime points should track earn, got %+v", repo.account)
	}
}

func TestEarnZeroWritesNothing(t *testing.T) {
	repo := &stubLoyaltyRepo{}
	svc, err := NewService(repo, testConfig())
	if err != nil {
		t.Fatalf("new service: %v", err)
	}

	entry, err := svc.EarnTx(noTx, uuid.New(), "a@example.com", uuid.New(), 40)
	if err != nil {
		t.Fatalf("earn: %v", err)
	}
	if entry != nil {
		t.Fatalf("expected no ledger entry, got %+v", entry)
	}
	if len(repo.entries) != 0 {
		t.Fatal("zero earn must not write a ledger entry")
	}
}
