package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// OptionPriceOverride pins an absolute price for a catalog option on a
// specific menu item. When SizeID is set the override only applies while
// that size is selected on the line.
type OptionPriceOverride struct {
	OptionID   uuid.UUID  `json:"option_id"`
	SizeID     *uuid.UUID `json:"size_id,omitempty"`
	PriceCents int        `json:"price_cents"`
}

// OptionPriceOverrides persists per-item option overrides as JSONB.
type OptionPriceOverrides []OptionPriceOverride

// Resolve walks the override chain for an option, most specific first:
// item-and-size, then item-only. The catalog default is the caller's
// fallback when no override matches.
func (o OptionPriceOverrides) Resolve(optionID uuid.UUID, sizeID *uuid.UUID) (int, bool) {
	if sizeID != nil {
		for _, override := range o {
			if override.OptionID == optionID && override.SizeID != nil && *override.SizeID == *sizeID {
				return override.PriceCents, true
			}
		}
	}
	for _, override := range o {
		if override.OptionID == optionID && override.SizeID == nil {
			return override.PriceCents, true
		}
	}
	return 0, false
}

// Value serializes the overrides to JSON.
func (o OptionPriceOverrides) Value() (driver.Value, error) {
	if o == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(o)
}

// Scan decodes JSONB into the override slice.
func (o *OptionPriceOverrides) Scan(value interface{}) error {
	if value == nil {
		*o = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded OptionPriceOverrides
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*o = decoded
	return nil
}
