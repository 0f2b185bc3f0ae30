package enums

import "fmt"

// BundleType distinguishes category-choice bundles from fixed item lists.
type BundleType string

const (
	BundleTypeCategoryChoice BundleType = "category_choice"
	BundleTypeSpecificItems  BundleType = "specific_items"
)

var validBundleTypes = []BundleType{
	BundleTypeCategoryChoice,
	BundleTypeSpecificItems,
}

// String implements fmt.Stringer.
func (b BundleType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BundleType.
func (b BundleType) IsValid() bool {
	for _, candidate := range validBundleTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBundleType converts raw input into a BundleType.
func ParseBundleType(value string) (BundleType, error) {
	for _, candidate := range validBundleTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid bundle type %q", value)
}
