package types

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/enums"
)

// ExcludedSizes lists the size options of one menu item that a slot or
// eligibility rule refuses to accept.
type ExcludedSizes struct {
	ItemID  uuid.UUID `json:"item_id"`
	SizeIDs UUIDList  `json:"size_ids"`
}

// SlotSupplement is a bundle surcharge for picking a particular item,
// optionally scoped to a single size of that item.
type SlotSupplement struct {
	ItemID      uuid.UUID  `json:"item_id"`
	SizeID      *uuid.UUID `json:"size_id,omitempty"`
	AmountCents int        `json:"amount_cents"`
}

// BundleSlot is one category requirement inside a category-choice bundle.
// A bundle that needs two items from the same category carries two slots
// with identical category lists.
type BundleSlot struct {
	CategoryIDs   UUIDList         `json:"category_ids"`
	ExcludedItems UUIDList         `json:"excluded_items,omitempty"`
	ExcludedSizes []ExcludedSizes  `json:"excluded_sizes,omitempty"`
	Supplements   []SlotSupplement `json:"supplements,omitempty"`
}

// UnmarshalJSON absorbs legacy slot configs that carry a single
// category_id instead of a category_ids list.
func (s *BundleSlot) UnmarshalJSON(data []byte) error {
	type slotAlias BundleSlot
	var decoded struct {
		slotAlias
		LegacyCategoryID *uuid.UUID `json:"category_id"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		return err
	}
	*s = BundleSlot(decoded.slotAlias)
	if len(s.CategoryIDs) == 0 && decoded.LegacyCategoryID != nil {
		s.CategoryIDs = UUIDList{*decoded.LegacyCategoryID}
	}
	return nil
}

// SupplementFor resolves the surcharge for a matched item, preferring the
// item-and-size entry over the item-only entry.
func (s BundleSlot) SupplementFor(itemID uuid.UUID, sizeID *uuid.UUID) int {
	if sizeID != nil {
		for _, supplement := range s.Supplements {
			if supplement.ItemID == itemID && supplement.SizeID != nil && *supplement.SizeID == *sizeID {
				return supplement.AmountCents
			}
		}
	}
	for _, supplement := range s.Supplements {
		if supplement.ItemID == itemID && supplement.SizeID == nil {
			return supplement.AmountCents
		}
	}
	return 0
}

// SizeExcluded reports whether the given item/size pair is barred from
// filling the slot.
func (s BundleSlot) SizeExcluded(itemID uuid.UUID, sizeID uuid.UUID) bool {
	for _, excluded := range s.ExcludedSizes {
		if excluded.ItemID == itemID && excluded.SizeIDs.Contains(sizeID) {
			return true
		}
	}
	return false
}

// BundleItem is one required entry of a specific-items bundle.
type BundleItem struct {
	ItemID   uuid.UUID `json:"item_id"`
	Quantity int       `json:"quantity"`
}

// BundleConfig describes a fixed-price bundle offer. Slots is populated
// for category-choice bundles, Items for specific-items bundles.
type BundleConfig struct {
	Type            enums.BundleType `json:"type"`
	FixedPriceCents int              `json:"fixed_price_cents"`
	FreeOptions     bool             `json:"free_options"`
	Slots           []BundleSlot     `json:"slots,omitempty"`
	Items           []BundleItem     `json:"items,omitempty"`
}

// BuyXGetYConfig describes a guided buy-X-get-Y offer. Trigger and reward
// eligibility use the same category and exclusion rules as bundle slots.
type BuyXGetYConfig struct {
	TriggerCategoryIDs   UUIDList         `json:"trigger_category_ids"`
	TriggerExcludedItems UUIDList         `json:"trigger_excluded_items,omitempty"`
	TriggerExcludedSizes []ExcludedSizes  `json:"trigger_excluded_sizes,omitempty"`
	TriggerQuantity      int              `json:"trigger_quantity"`
	RewardCategoryIDs    UUIDList         `json:"reward_category_ids"`
	RewardExcludedItems  UUIDList         `json:"reward_excluded_items,omitempty"`
	RewardExcludedSizes  []ExcludedSizes  `json:"reward_excluded_sizes,omitempty"`
	RewardQuantity       int              `json:"reward_quantity"`
	RewardType           enums.RewardType `json:"reward_type"`
	RewardValueCents     int              `json:"reward_value_cents,omitempty"`
}

// DiscountConfig describes a threshold or category discount offer. Empty
// CategoryIDs means the discount evaluates against the whole cart.
type DiscountConfig struct {
	DiscountType     enums.DiscountType `json:"discount_type"`
	Value            int                `json:"value"`
	CategoryIDs      UUIDList           `json:"category_ids,omitempty"`
	MinSubtotalCents int                `json:"min_subtotal_cents,omitempty"`
	MinQuantity      int                `json:"min_quantity,omitempty"`
}

// PromoCodeConfig describes a customer-entered promo code offer.
type PromoCodeConfig struct {
	Code             string             `json:"code"`
	DiscountType     enums.DiscountType `json:"discount_type"`
	Value            int                `json:"value"`
	MinSubtotalCents int                `json:"min_subtotal_cents,omitempty"`
}

// OfferConfig is the JSONB payload on an offer record. Exactly one field
// is set, matching the offer's type.
type OfferConfig struct {
	Bundle    *BundleConfig    `json:"bundle,omitempty"`
	BuyXGetY  *BuyXGetYConfig  `json:"buy_x_get_y,omitempty"`
	Discount  *DiscountConfig  `json:"discount,omitempty"`
	PromoCode *PromoCodeConfig `json:"promo_code,omitempty"`
}

// Value serializes the config to JSON.
func (c OfferConfig) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan decodes JSONB into the config.
func (c *OfferConfig) Scan(value interface{}) error {
	if value == nil {
		*c = OfferConfig{}
		return nil
	}
	raw, err := asJSON(value)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, c)
}
