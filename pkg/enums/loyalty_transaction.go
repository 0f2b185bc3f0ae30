package enums

import "fmt"

// LoyaltyTransactionType classifies a ledger entry on a loyalty account.
type LoyaltyTransactionType string

const (
	LoyaltyTransactionEarn   LoyaltyTransactionType = "earn"
	LoyaltyTransactionRedeem LoyaltyTransactionType = "redeem"
	LoyaltyTransactionAdjust LoyaltyTransactionType = "adjust"
)

var validLoyaltyTransactionTypes = []LoyaltyTransactionType{
	LoyaltyTransactionEarn,
	LoyaltyTransactionRedeem,
	LoyaltyTransactionAdjust,
}

// String implements fmt.Stringer.
func (l LoyaltyTransactionType) String() string {
	return string(l)
}

// IsValid reports whether the value is a known transaction type.
func (l LoyaltyTransactionType) IsValid() bool {
	for _, candidate := range validLoyaltyTransactionTypes {
		if candidate == l {
			return true
		}
	}
	return false
}

// ParseLoyaltyTransactionType converts raw input into a LoyaltyTransactionType.
func ParseLoyaltyTransactionType(value string) (LoyaltyTransactionType, error) {
	for _, candidate := range validLoyaltyTransactionTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid loyalty transaction type %q", value)
}
