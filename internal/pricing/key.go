package pricing

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// CartKey derives a line's identity from its item and option selection.
// The option ids are sorted first, so two lines with the same options
// chosen in a different order collapse into one key and merge quantities.
// Bundle lines additionally fold in the bundle id so a bundle containing
// an item never merges with a plain line for that item.
func CartKey(itemID uuid.UUID, options types.SelectedOptions, bundleID *uuid.UUID) string {
	optionIDs := make([]string, 0, len(options))
	for _, option := range options {
		optionIDs = append(optionIDs, option.OptionID.String())
	}
	sort.Strings(optionIDs)

	parts := make([]string, 0, len(optionIDs)+2)
	parts = append(parts, itemID.String())
	parts = append(parts, optionIDs...)
	if bundleID != nil {
		parts = append(parts, "bundle:"+bundleID.String())
	}
	return strings.Join(parts, "|")
}

// SignatureLine is the subset of a cart line that matters for deciding
// whether bundle and offer detection needs to rerun.
type SignatureLine struct {
	ItemID     uuid.UUID
	CategoryID uuid.UUID
	Quantity   int
	SizeID     *uuid.UUID
	BundleID   *uuid.UUID
}

// Signature builds a stable digest of the cart's discount-relevant shape:
// item id, quantity, category and selected size per regular line, bundle
// id and quantity per bundle line. In-place edits that do not change any
// of those fields produce the same signature and skip recomputation.
func Signature(lines []SignatureLine) string {
	entries := make([]string, 0, len(lines))
	for _, line := range lines {
		var sb strings.Builder
		if line.BundleID != nil {
			sb.WriteString("b:")
			sb.WriteString(line.BundleID.String())
		} else {
			sb.WriteString(line.ItemID.String())
			sb.WriteString(":")
			sb.WriteString(line.CategoryID.String())
			if line.SizeID != nil {
				sb.WriteString(":")
				sb.WriteString(line.SizeID.String())
			}
		}
		sb.WriteString("x")
		sb.WriteString(strconv.Itoa(line.Quantity))
		entries = append(entries, sb.String())
	}
	sort.Strings(entries)

	sum := sha256.Sum256([]byte(strings.Join(entries, ";")))
	return hex.EncodeToString(sum[:])
}
