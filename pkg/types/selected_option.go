package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// SelectedOption is the immutable snapshot of a catalog option chosen on a
// cart line. PriceModifierCents is the absolute resolved price when IsSize
// is true, and an additive delta otherwise.
type SelectedOption struct {
	OptionID           uuid.UUID `json:"option_id"`
	OptionGroupID      uuid.UUID `json:"option_group_id"`
	Name               string    `json:"name"`
	GroupName          string    `json:"group_name"`
	PriceModifierCents int       `json:"price_modifier_cents"`
	IsSize             bool      `json:"is_size"`
}

// SelectedOptions persists line option snapshots as JSONB.
type SelectedOptions []SelectedOption

// Size returns the size selection when one is present.
func (s SelectedOptions) Size() (SelectedOption, bool) {
	for _, option := range s {
		if option.IsSize {
			return option, true
		}
	}
	return SelectedOption{}, false
}

// Value serializes the options to JSON.
func (s SelectedOptions) Value() (driver.Value, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(s)
}

// Scan decodes JSONB into the option slice.
func (s *SelectedOptions) Scan(value interface{}) error {
	if value == nil {
		*s = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded SelectedOptions
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*s = decoded
	return nil
}
