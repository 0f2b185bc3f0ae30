package enums

import "fmt"

// CartItemWarningType classifies non-blocking problems attached to a cart
// line during quoting.
type CartItemWarningType string

const (
	CartItemWarningItemUnavailable   CartItemWarningType = "item_unavailable"
	CartItemWarningItemArchived      CartItemWarningType = "item_archived"
	CartItemWarningOptionUnavailable CartItemWarningType = "option_unavailable"
	CartItemWarningPriceChanged      CartItemWarningType = "price_changed"
	CartItemWarningOfferExpired      CartItemWarningType = "offer_expired"
)

var validCartItemWarningTypes = []CartItemWarningType{
	CartItemWarningItemUnavailable,
	CartItemWarningItemArchived,
	CartItemWarningOptionUnavailable,
	CartItemWarningPriceChanged,
	CartItemWarningOfferExpired,
}

// String implements fmt.Stringer.
func (c CartItemWarningType) String() string {
	return string(c)
}

// IsValid reports whether the warning type is recognized.
func (c CartItemWarningType) IsValid() bool {
	for _, candidate := range validCartItemWarningTypes {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseCartItemWarningType converts a raw string into a CartItemWarningType.
func ParseCartItemWarningType(value string) (CartItemWarningType, error) {
	for _, candidate := range validCartItemWarningTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid cart item warning type %q", value)
}
