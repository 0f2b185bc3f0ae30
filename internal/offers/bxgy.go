package offers

import (
	"github.com/curbsidehq/curbside-backend/internal/bundles"
	"github.com/curbsidehq/curbside-backend/internal/pricing"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// bxgyMatch is a resolved buy-X-get-Y application against the cart.
type bxgyMatch struct {
	triggerKeys      []string
	rewardKeys       []string
	rewardTotalCents int
	discountCents    int
}

func selectedSize(line bundles.Line) *types.SelectedOption {
	if size, ok := line.Options.Size(); ok {
		return &size
	}
	return nil
}

// eligibleForSlot applies the shared category/excluded-item/excluded-size
// rules used by bundle slots to a buy-X-get-Y trigger or reward side.
func eligibleForSlot(line bundles.Line, categories types.UUIDList, excludedItems types.UUIDList, excludedSizes []types.ExcludedSizes) bool {
	if line.BundleID != nil {
		return false
	}
	if !categories.Contains(line.Item.CategoryID) {
		return false
	}
	if excludedItems.Contains(line.Item.ID) {
		return false
	}
	if size := selectedSize(line); size != nil {
		for _, excluded := range excludedSizes {
			if excluded.ItemID == line.Item.ID && excluded.SizeIDs.Contains(size.OptionID) {
				return false
			}
		}
	}
	return true
}

// resolveBuyXGetY finds trigger_quantity eligible trigger units and
// reward_quantity eligible reward units in the cart, scanning lines in
// order the same way bundle slots do. A line never serves both sides.
// The discount is the full reward price when the reward is free, and
// min(reward value x reward qty, reward total) otherwise.
func resolveBuyXGetY(cfg types.BuyXGetYConfig, lines []bundles.Line) (bxgyMatch, bool) {
	if cfg.TriggerQuantity <= 0 || cfg.RewardQuantity <= 0 {
		return bxgyMatch{}, false
	}

	consumed := make(map[string]bool)
	match := bxgyMatch{}

	needed := cfg.TriggerQuantity
	for _, line := range lines {
		if needed == 0 {
			break
		}
		if consumed[line.Key] || !eligibleForSlot(line, cfg.TriggerCategoryIDs, cfg.TriggerExcludedItems, cfg.TriggerExcludedSizes) {
			continue
		}
		take := line.Quantity
		if take > needed {
			take = needed
		}
		consumed[line.Key] = true
		needed -= take
		match.triggerKeys = append(match.triggerKeys, line.Key)
	}
	if needed > 0 {
		return bxgyMatch{}, false
	}

	needed = cfg.RewardQuantity
	for _, line := range lines {
		if needed == 0 {
			break
		}
		if consumed[line.Key] || !eligibleForSlot(line, cfg.RewardCategoryIDs, cfg.RewardExcludedItems, cfg.RewardExcludedSizes) {
			continue
		}
		take := line.Quantity
		if take > needed {
			take = needed
		}
		consumed[line.Key] = true
		needed -= take
		match.rewardKeys = append(match.rewardKeys, line.Key)
		match.rewardTotalCents += pricing.UnitPrice(line.Item.BasePriceCents, line.Options) * take
	}
	if needed > 0 {
		return bxgyMatch{}, false
	}

	switch cfg.RewardType {
	case enums.RewardTypeFree:
		match.discountCents = match.rewardTotalCents
	case enums.RewardTypeDiscount:
		match.discountCents = cfg.RewardValueCents * cfg.RewardQuantity
		if match.discountCents > match.rewardTotalCents {
			match.discountCents = match.rewardTotalCents
		}
	default:
		return bxgyMatch{}, false
	}
	if match.discountCents <= 0 {
		return bxgyMatch{}, false
	}
	return match, true
}
