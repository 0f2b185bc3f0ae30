package pricing

import (
	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// ItemSnapshot carries the catalog fields pricing needs from a menu item.
// Cart lines hold a copy of this at add time so later menu edits do not
// reprice committed lines.
type ItemSnapshot struct {
	ID              uuid.UUID
	CategoryID      uuid.UUID
	Name            string
	BasePriceCents  int
	DisabledOptions types.UUIDList
	OptionPrices    types.OptionPriceOverrides
}

// ResolveOptionPrice resolves the price of a catalog option for a given
// item, walking the override chain most specific first: item-and-size
// override, item-only override, then the option's own catalog price.
func ResolveOptionPrice(item ItemSnapshot, optionID uuid.UUID, sizeID *uuid.UUID, catalogPriceCents int) int {
	if price, ok := item.OptionPrices.Resolve(optionID, sizeID); ok {
		return price
	}
	return catalogPriceCents
}

// UnitPrice computes a single unit's price for a line. A selected size
// option carries the absolute price for that size and replaces the base
// price entirely; every non-size option adds its delta on top.
func UnitPrice(basePriceCents int, options types.SelectedOptions) int {
	base := basePriceCents
	if size, ok := options.Size(); ok {
		base = size.PriceModifierCents
	}
	total := base
	for _, option := range options {
		if option.IsSize {
			continue
		}
		total += option.PriceModifierCents
	}
	if total < 0 {
		total = 0
	}
	return total
}

// LineTotal extends the unit price by quantity. Callers enforce qty > 0;
// a requested quantity of zero or below removes the line upstream.
func LineTotal(basePriceCents int, options types.SelectedOptions, quantity int) int {
	if quantity <= 0 {
		return 0
	}
	return UnitPrice(basePriceCents, options) * quantity
}

// OptionDeltaTotal sums the additive (non-size) option deltas on a line.
// Bundle pricing uses this when free_options is off.
func OptionDeltaTotal(options types.SelectedOptions) int {
	total := 0
	for _, option := range options {
		if option.IsSize {
			continue
		}
		total += option.PriceModifierCents
	}
	return total
}
