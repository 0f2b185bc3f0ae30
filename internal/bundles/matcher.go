package bundles

import (
	"sort"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/internal/pricing"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// Line is the matcher's view of one cart line. Bundle lines (BundleID set)
// never donate to another bundle.
type Line struct {
	Key      string
	Item     pricing.ItemSnapshot
	Quantity int
	Options  types.SelectedOptions
	BundleID *uuid.UUID
}

// sizeID returns the selected size's option id, when one is selected.
func (l Line) sizeID() *uuid.UUID {
	if size, ok := l.Options.Size(); ok {
		id := size.OptionID
		return &id
	}
	return nil
}

// Candidate pairs a bundle offer with its config for detection.
type Candidate struct {
	OfferID uuid.UUID
	Name    string
	Config  types.BundleConfig
}

// Match is a successful all-slots-filled bundle match against the cart.
type Match struct {
	OfferID            uuid.UUID
	Name               string
	Config             types.BundleConfig
	ConsumedKeys       []string
	Selections         []types.BundleSelection
	BundlePriceCents   int
	OriginalPriceCents int
	SavingsCents       int
}

// MatchBundle runs greedy slot assignment: for each slot in config order,
// the first not-yet-consumed eligible line is taken, with no backtracking.
// An unfillable slot fails the whole match. Matches whose savings are not
// strictly positive are suppressed, never surfaced as a discount.
func MatchBundle(candidate Candidate, lines []Line) (Match, bool) {
	switch candidate.Config.Type {
	case enums.BundleTypeSpecificItems:
		return matchSpecificItems(candidate, lines)
	default:
		return matchCategoryChoice(candidate, lines)
	}
}

func matchCategoryChoice(candidate Candidate, lines []Line) (Match, bool) {
	cfg := candidate.Config
	if len(cfg.Slots) == 0 {
		return Match{}, false
	}

	consumed := make(map[string]bool, len(cfg.Slots))
	match := Match{
		OfferID: candidate.OfferID,
		Name:    candidate.Name,
		Config:  cfg,
	}
	match.BundlePriceCents = cfg.FixedPriceCents

	for _, slot := range cfg.Slots {
		line, ok := firstEligible(slot, lines, consumed)
		if !ok {
			return Match{}, false
		}
		consumed[line.Key] = true

		supplement := slot.SupplementFor(line.Item.ID, line.sizeID())
		match.ConsumedKeys = append(match.ConsumedKeys, line.Key)
		match.Selections = append(match.Selections, types.BundleSelection{
			ItemID:          line.Item.ID,
			Name:            line.Item.Name,
			SelectedOptions: line.Options,
			SupplementCents: supplement,
		})
		match.BundlePriceCents += supplement
		if !cfg.FreeOptions {
			match.BundlePriceCents += pricing.OptionDeltaTotal(line.Options)
		}
		match.OriginalPriceCents += pricing.LineTotal(line.Item.BasePriceCents, line.Options, line.Quantity)
	}

	match.SavingsCents = match.OriginalPriceCents - match.BundlePriceCents
	if match.SavingsCents <= 0 {
		return Match{}, false
	}
	return match, true
}

func firstEligible(slot types.BundleSlot, lines []Line, consumed map[string]bool) (Line, bool) {
	for _, line := range lines {
		if line.BundleID != nil || consumed[line.Key] {
			continue
		}
		if !slot.CategoryIDs.Contains(line.Item.CategoryID) {
			continue
		}
		if slot.ExcludedItems.Contains(line.Item.ID) {
			continue
		}
		if sizeID := line.sizeID(); sizeID != nil && slot.SizeExcluded(line.Item.ID, *sizeID) {
			continue
		}
		return line, true
	}
	return Line{}, false
}

func matchSpecificItems(candidate Candidate, lines []Line) (Match, bool) {
	cfg := candidate.Config
	if len(cfg.Items) == 0 {
		return Match{}, false
	}

	consumed := make(map[string]bool)
	match := Match{
		OfferID: candidate.OfferID,
		Name:    candidate.Name,
		Config:  cfg,
	}
	match.BundlePriceCents = cfg.FixedPriceCents

	for _, required := range cfg.Items {
		needed := required.Quantity
		if needed <= 0 {
			needed = 1
		}
		for _, line := range lines {
			if needed == 0 {
				break
			}
			if line.BundleID != nil || consumed[line.Key] || line.Item.ID != required.ItemID {
				continue
			}
			take := line.Quantity
			if take > needed {
				take = needed
			}
			consumed[line.Key] = true
			needed -= take

			match.ConsumedKeys = append(match.ConsumedKeys, line.Key)
			match.Selections = append(match.Selections, types.BundleSelection{
				ItemID:          line.Item.ID,
				Name:            line.Item.Name,
				SelectedOptions: line.Options,
			})
			if !cfg.FreeOptions {
				match.BundlePriceCents += pricing.OptionDeltaTotal(line.Options)
			}
			match.OriginalPriceCents += pricing.LineTotal(line.Item.BasePriceCents, line.Options, take)
		}
		if needed > 0 {
			return Match{}, false
		}
	}

	match.SavingsCents = match.OriginalPriceCents - match.BundlePriceCents
	if match.SavingsCents <= 0 {
		return Match{}, false
	}
	return match, true
}

// DetectAll evaluates every candidate bundle independently against the
// full cart and returns the matches sorted by descending savings. The
// first entry is the suggested best bundle. Candidates do not consume
// lines from each other here; committing a match is the cart's job.
func DetectAll(candidates []Candidate, lines []Line) []Match {
	var matches []Match
	for _, candidate := range candidates {
		if match, ok := MatchBundle(candidate, lines); ok {
			matches = append(matches, match)
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].SavingsCents > matches[j].SavingsCents
	})
	return matches
}
