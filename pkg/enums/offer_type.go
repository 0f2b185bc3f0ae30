package enums

import "fmt"

// OfferType maps to the offer_type enum in Postgres.
type OfferType string

const (
	OfferTypeBundle           OfferType = "bundle"
	OfferTypeBuyXGetY         OfferType = "buy_x_get_y"
	OfferTypeCategoryDiscount OfferType = "category_discount"
	OfferTypeCartDiscount     OfferType = "cart_discount"
	OfferTypePromoCode        OfferType = "promo_code"
)

var validOfferTypes = []OfferType{
	OfferTypeBundle,
	OfferTypeBuyXGetY,
	OfferTypeCategoryDiscount,
	OfferTypeCartDiscount,
	OfferTypePromoCode,
}

// String implements fmt.Stringer.
func (o OfferType) String() string {
	return string(o)
}

// IsValid reports whether the value is a known OfferType.
func (o OfferType) IsValid() bool {
	for _, candidate := range validOfferTypes {
		if candidate == o {
			return true
		}
	}
	return false
}

// ParseOfferType converts raw input into an OfferType.
func ParseOfferType(value string) (OfferType, error) {
	for _, candidate := range validOfferTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid offer type %q", value)
}
