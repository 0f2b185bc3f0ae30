package enums

import "fmt"

// RewardType describes how buy-x-get-y reward items are priced.
type RewardType string

const (
	RewardTypeFree     RewardType = "free"
	RewardTypeDiscount RewardType = "discount"
)

var validRewardTypes = []RewardType{
	RewardTypeFree,
	RewardTypeDiscount,
}

// String implements fmt.Stringer.
func (r RewardType) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RewardType.
func (r RewardType) IsValid() bool {
	for _, candidate := range validRewardTypes {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRewardType converts raw input into a RewardType.
func ParseRewardType(value string) (RewardType, error) {
	for _, candidate := range validRewardTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid reward type %q", value)
}
