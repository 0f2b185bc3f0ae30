package loyalty

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
)

// Repository handles loyalty persistence. The balance-mutating calls run
// on a caller-provided transaction so checkout can commit them atomically
// with the order.
type Repository struct {
	db *gorm.DB
}

// NewRepository binds a GORM DB to loyalty operations.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// NormalizeEmail canonicalizes a customer email for account lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// FindAccount loads the account for one customer at one truck.
func (r *Repository) FindAccount(ctx context.Context, truckID uuid.UUID, email string) (*models.LoyaltyAccount, error) {
	var account models.LoyaltyAccount
	err := r.db.WithContext(ctx).
		Where("truck_id = ? AND customer_email = ?", truckID, NormalizeEmail(email)).
		First(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetOrCreateAccountTx loads the account inside the transaction, creating
// an empty one on first contact.
func (r *Repository) GetOrCreateAccountTx(tx *gorm.DB, truckID uuid.UUID, email string) (*models.LoyaltyAccount, error) {
	if tx == nil {
		return nil, gorm.ErrInvalidTransaction
	}
	account := models.LoyaltyAccount{
		TruckID:       truckID,
		CustomerEmail: NormalizeEmail(email),
	}
	err := tx.
		Where("truck_id = ? AND customer_email = ?", truckID, account.CustomerEmail).
		FirstOrCreate(&account).Error
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ApplyTransactionTx appends a ledger entry and moves the balance in one
// step. Points are positive for earn and negative for redeem; lifetime
// points only ever grow.
func (r *Repository) ApplyTransactionTx(tx *gorm.DB, account *models.LoyaltyAccount, entry *models.LoyaltyTransaction) error {
	if tx == nil {
		return gorm.ErrInvalidTransaction
	}
	entry.AccountID = account.ID
	if err := tx.Create(entry).Error; err != nil {
		return err
	}

	account.PointsBalance += entry.Points
	if entry.Points > 0 {
		account.LifetimePoints += entry.Points
	}
	return tx.Model(&models.LoyaltyAccount{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{
			"points_balance":  account.PointsBalance,
			"lifetime_points": account.LifetimePoints,
		}).Error
}

// ListTransactions returns the ledger for an account, newest first.
func (r *Repository) ListTransactions(ctx context.Context, accountID uuid.UUID, limit int) ([]models.LoyaltyTransaction, error) {
	if limit <= 0 {
		limit = 50
	}
	var entries []models.LoyaltyTransaction
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at DESC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
