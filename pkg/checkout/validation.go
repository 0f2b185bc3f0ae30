package checkout

import (
	"fmt"

	"github.com/google/uuid"

	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

// MaxLineQuantity caps how many units of a single line a customer can order.
const MaxLineQuantity = 50

// LineValidationInput describes the data required to verify a single cart line.
type LineValidationInput struct {
	MenuItemID  uuid.UUID
	ItemName    string
	Quantity    int
	IsAvailable bool
	IsArchived  bool
}

// LineViolationDetail exposes the data returned to callers when a validation fails.
type LineViolationDetail struct {
	MenuItemID   uuid.UUID `json:"menu_item_id"`
	ItemName     string    `json:"item_name,omitempty"`
	Reason       string    `json:"reason"`
	RequestedQty int       `json:"requested_qty,omitempty"`
}

// ValidateLines ensures every provided line references an orderable item with a sane quantity.
func ValidateLines(items []LineValidationInput) error {
	var violations []LineViolationDetail
	for _, item := range items {
		switch {
		case item.IsArchived:
			violations = append(violations, LineViolationDetail{
				MenuItemID: item.MenuItemID,
				ItemName:   item.ItemName,
				Reason:     "item_archived",
			})
		case !item.IsAvailable:
			violations = append(violations, LineViolationDetail{
				MenuItemID: item.MenuItemID,
				ItemName:   item.ItemName,
				Reason:     "item_unavailable",
			})
		case item.Quantity < 1:
			violations = append(violations, LineViolationDetail{
				MenuItemID:   item.MenuItemID,
				ItemName:     item.ItemName,
				Reason:       "quantity_below_minimum",
				RequestedQty: item.Quantity,
			})
		case item.Quantity > MaxLineQuantity:
			violations = append(violations, LineViolationDetail{
				MenuItemID:   item.MenuItemID,
				ItemName:     item.ItemName,
				Reason:       "quantity_above_maximum",
				RequestedQty: item.Quantity,
			})
		}
	}
	if len(violations) == 0 {
		return nil
	}
	return pkgerrors.New(pkgerrors.CodeStateConflict, fmt.Sprintf("checkout validation failed for %d line(s)", len(violations))).WithDetails(map[string]any{
		"violations": violations,
	})
}
