package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
)

// LoyaltyAccount holds the point balance for one customer at one truck.
type LoyaltyAccount struct {
	ID             uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	TruckID        uuid.UUID `gorm:"column:truck_id;type:uuid;not null;uniqueIndex:idx_loyalty_truck_email"`
	CustomerEmail  string    `gorm:"column:customer_email;not null;uniqueIndex:idx_loyalty_truck_email"`
	PointsBalance  int       `gorm:"column:points_balance;not null;default:0"`
	LifetimePoints int       `gorm:"column:lifetime_points;not null;default:0"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

// LoyaltyTransaction is an append-only ledger entry against an account.
// Points are positive for earn and negative for redeem.
type LoyaltyTransaction struct {
	ID        uuid.UUID                    `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	AccountID uuid.UUID                    `gorm:"column:account_id;type:uuid;not null;index"`
	OrderID   *uuid.UUID                   `gorm:"column:order_id;type:uuid"`
	Type      enums.LoyaltyTransactionType `gorm:"column:type;type:loyalty_transaction_type;not null"`
	Points    int                          `gorm:"column:points;not null"`
	CreatedAt time.Time                    `gorm:"column:created_at;autoCreateTime"`
}
