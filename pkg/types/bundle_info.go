package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"
)

// BundleSelection is the snapshot of one slot choice inside a committed
// bundle line.
type BundleSelection struct {
	ItemID          uuid.UUID       `json:"item_id"`
	Name            string          `json:"name"`
	SelectedOptions SelectedOptions `json:"selected_options,omitempty"`
	SupplementCents int             `json:"supplement_cents,omitempty"`
}

// BundleInfo marks a cart line as a committed bundle and carries the data
// needed to reprice it without re-running detection.
type BundleInfo struct {
	BundleID        uuid.UUID         `json:"bundle_id"`
	Name            string            `json:"name"`
	FixedPriceCents int               `json:"fixed_price_cents"`
	FreeOptions     bool              `json:"free_options"`
	Selections      []BundleSelection `json:"selections"`
}

// Value serializes the bundle info to JSON.
func (b *BundleInfo) Value() (driver.Value, error) {
	if b == nil {
		return nil, nil
	}
	return json.Marshal(b)
}

// Scan decodes JSONB into the bundle info struct.
func (b *BundleInfo) Scan(value interface{}) error {
	if value == nil {
		*b = BundleInfo{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, b)
}
