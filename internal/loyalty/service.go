package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/config"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

type loyaltyRepository interface {
	FindAccount(ctx context.Context, truckID uuid.UUID, email string) (*models.LoyaltyAccount, error)
	GetOrCreateAccountTx(tx *gorm.DB, truckID uuid.UUID, email string) (*models.LoyaltyAccount, error)
	ApplyTransactionTx(tx *gorm.DB, account *models.LoyaltyAccount, entry *models.LoyaltyTransaction) error
}

// BalanceDTO is the customer-facing view of a loyalty account.
type BalanceDTO struct {
	PointsBalance   int `json:"points_balance"`
	LifetimePoints  int `json:"lifetime_points"`
	RedeemableCents int `json:"redeemable_cents"`
	MinRedeemPoints int `json:"min_redeem_points"`
	PointValueCents int `json:"point_value_cents"`
}

// LedgerEntry reports the outcome of an order-time earn or redeem, with
// the post-write balance for event emission.
type LedgerEntry struct {
	AccountID  uuid.UUID
	Points     int
	NewBalance int
	ValueCents int
}

// Service exposes loyalty balances and the order-time earn/redeem hooks.
type Service interface {
	Balance(ctx context.Context, truckID uuid.UUID, email string) (*BalanceDTO, error)
	RedeemValueCents(points int) int
	PointsForSpend(totalCents int) int
	RedeemTx(tx *gorm.DB, truckID uuid.UUID, email string, orderID uuid.UUID, points int) (*LedgerEntry, error)
	EarnTx(tx *gorm.DB, truckID uuid.UUID, email string, orderID uuid.UUID, totalCents int) (*LedgerEntry, error)
}

type service struct {
	repo loyaltyRepository
	cfg  config.LoyaltyConfig
}

// NewService builds the loyalty service.
func NewService(repo loyaltyRepository, cfg config.LoyaltyConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if cfg.PointValueCents <= 0 {
		return nil, fmt.Errorf("point value must be positive")
	}
	return &service{repo: repo, cfg: cfg}, nil
}

// Balance returns the account view. A customer with no account yet gets
// an empty balance rather than a not-found error.
func (s *service) Balance(ctx context.Context, truckID uuid.UUID, email string) (*BalanceDTO, error) {
	dto := &BalanceDTO{
		MinRedeemPoints: s.cfg.MinRedeemPoints,
		PointValueCents: s.cfg.PointValueCents,
	}
	account, err := s.repo.FindAccount(ctx, truckID, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return dto, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}
	dto.PointsBalance = account.PointsBalance
	dto.LifetimePoints = account.LifetimePoints
	dto.RedeemableCents = s.RedeemValueCents(account.PointsBalance)
	return dto, nil
}

// RedeemValueCents converts a point count to its cent value.
func (s *service) RedeemValueCents(points int) int {
	if points <= 0 {
		return 0
	}
	return points * s.cfg.PointValueCents
}

// PointsForSpend computes points earned on an order total. Earn rate is
// per whole dollar spent; partial dollars do not earn.
func (s *service) PointsForSpend(totalCents int) int {
	if totalCents <= 0 {
		return 0
	}
	return (totalCents / 100) * s.cfg.PointsPerDollar
}

// RedeemTx burns points inside the order transaction and returns the cent
// discount. The caller decides whether loyalty is enabled for the truck.
func (s *service) RedeemTx(tx *gorm.DB, truckID uuid.UUID, email string, orderID uuid.UUID, points int) (*LedgerEntry, error) {
	if points <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points to redeem must be positive")
	}
	if points < s.cfg.MinRedeemPoints {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "below minimum redeemable points").WithDetails(map[string]any{
			"min_redeem_points": s.cfg.MinRedeemPoints,
		})
	}

	account, err := s.repo.GetOrCreateAccountTx(tx, truckID, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}
	if account.PointsBalance < points {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "insufficient loyalty points").WithDetails(map[string]any{
			"points_balance": account.PointsBalance,
			"requested":      points,
		})
	}

	entry := &models.LoyaltyTransaction{
		OrderID: &orderID,
		Type:    enums.LoyaltyTransactionRedeem,
		Points:  -points,
	}
	if err := s.repo.ApplyTransactionTx(tx, account, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply redemption")
	}
	return &LedgerEntry{
		AccountID:  account.ID,
		Points:     points,
		NewBalance: account.PointsBalance,
		ValueCents: s.RedeemValueCents(points),
	}, nil
}

// EarnTx credits points for a paid order total and returns the points
// earned. A zero earn writes no ledger entry.
func (s *service) EarnTx(tx *gorm.DB, truckID uuid.UUID, email string, orderID uuid.UUID, totalCents int) (*LedgerEntry, error) {
	points := s.PointsForSpend(totalCents)
	if points <= 0 {
		return nil, nil
	}

	account, err := s.repo.GetOrCreateAccountTx(tx, truckID, email)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load loyalty account")
	}
	entry := &models.LoyaltyTransaction{
		OrderID: &orderID,
		Type:    enums.LoyaltyTransactionEarn,
		Points:  points,
	}
	if err := s.repo.ApplyTransactionTx(tx, account, entry); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "apply earn")
	}
	return &LedgerEntry{
		AccountID:  account.ID,
		Points:     points,
		NewBalance: account.PointsBalance,
	}, nil
}
