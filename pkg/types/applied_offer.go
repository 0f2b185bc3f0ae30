package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
)

// ApplicableOffer is the evaluated state of one candidate offer against
// the current cart. It exists for progress display only; discount totals
// always come from the applied list.
type ApplicableOffer struct {
	OfferID        uuid.UUID       `json:"offer_id"`
	Name           string          `json:"name"`
	OfferType      enums.OfferType `json:"offer_type"`
	Applicable     bool            `json:"applicable"`
	Progress       int             `json:"progress"`
	ProgressTarget int             `json:"progress_target"`
	DiscountCents  int             `json:"discount_cents"`
}

// AppliedOfferDetail records one discount inside a quote. The slice on the
// order record is the authoritative, immutable breakdown.
type AppliedOfferDetail struct {
	OfferID       uuid.UUID       `json:"offer_id"`
	Name          string          `json:"name"`
	OfferType     enums.OfferType `json:"offer_type"`
	DiscountCents int             `json:"discount_cents"`
	TimesApplied  int             `json:"times_applied"`
	LinesConsumed []string        `json:"lines_consumed,omitempty"`
}

// AppliedOfferDetails persists the discount breakdown as JSONB.
type AppliedOfferDetails []AppliedOfferDetail

// TotalCents sums the discount across all applied offers.
func (a AppliedOfferDetails) TotalCents() int {
	total := 0
	for _, applied := range a {
		total += applied.DiscountCents
	}
	return total
}

// Value serializes the breakdown to JSON.
func (a AppliedOfferDetails) Value() (driver.Value, error) {
	if a == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(a)
}

// Scan decodes JSONB into the breakdown slice.
func (a *AppliedOfferDetails) Scan(value interface{}) error {
	if value == nil {
		*a = nil
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	var decoded AppliedOfferDetails
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*a = decoded
	return nil
}
