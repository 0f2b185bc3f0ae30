package offers

import (
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/internal/bundles"
	"github.com/curbsidehq/curbside-backend/internal/pricing"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// Settings is the slice of truck configuration the aggregator reads.
type Settings struct {
	OffersStackable     bool
	PromoCodesStackable bool
}

// PromoResult is a validated promo code. The discount amount is computed
// later by the checkout composer against the post-offer subtotal.
type PromoResult struct {
	OfferID      uuid.UUID
	Code         string
	DiscountType enums.DiscountType
	Value        int
}

// Input is everything the aggregator needs to resolve a cart's discounts.
// Offers must already be filtered to active records inside their date
// window; intra-week schedule fields are checked here.
type Input struct {
	Lines        []bundles.Line
	Offers       []models.Offer
	Settings     Settings
	PromoCode    *string
	CustomerUses map[uuid.UUID]int
	Now          time.Time
}

// Resolution is the authoritative discount state for a cart. Applied is
// the only list that contributes to totals; Applicable exists for
// progress display and must never be summed.
type Resolution struct {
	Applied            types.AppliedOfferDetails
	Applicable         []types.ApplicableOffer
	OfferDiscountCents int
	Promo              *PromoResult
	PromoError         error
}

// Subtotal sums the full undiscounted price of every line.
func Subtotal(lines []bundles.Line) int {
	total := 0
	for _, line := range lines {
		total += pricing.LineTotal(line.Item.BasePriceCents, line.Options, line.Quantity)
	}
	return total
}

type candidate struct {
	offer         models.Offer
	order         int
	discountCents int
	consumes      bool
}

// Resolve evaluates every active offer against the cart, commits the
// winning set under the stacking rules, and validates any promo code
// against the truck's gating policy. It is a pure function of its input;
// rerunning it with the same snapshot yields the same breakdown.
func Resolve(input Input) Resolution {
	resolution := Resolution{}
	subtotal := Subtotal(input.Lines)

	var candidates []candidate
	for i, offer := range input.Offers {
		if offer.OfferType == enums.OfferTypePromoCode {
			continue
		}
		applicable := evaluateOffer(offer, input)
		resolution.Applicable = append(resolution.Applicable, applicable)
		if !applicable.Applicable || applicable.DiscountCents <= 0 {
			continue
		}
		candidates = append(candidates, candidate{
			offer:         offer,
			order:         i,
			discountCents: applicable.DiscountCents,
			consumes:      offer.OfferType == enums.OfferTypeBundle || offer.OfferType == enums.OfferTypeBuyXGetY,
		})
	}

	// Highest discount first; input order breaks ties so resolution is
	// deterministic for equal discounts.
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].discountCents != candidates[j].discountCents {
			return candidates[i].discountCents > candidates[j].discountCents
		}
		return candidates[i].order < candidates[j].order
	})

	consumed := make(map[string]bool)
	for _, cand := range candidates {
		if len(resolution.Applied) > 0 {
			if !input.Settings.OffersStackable {
				break
			}
			if !cand.offer.Stackable {
				continue
			}
		}
		detail, ok := commitOffer(cand.offer, input, consumed)
		if !ok {
			continue
		}
		resolution.Applied = append(resolution.Applied, detail)
	}
	resolution.OfferDiscountCents = resolution.Applied.TotalCents()

	if input.PromoCode != nil && *input.PromoCode != "" {
		promo, err := validatePromo(*input.PromoCode, input, subtotal, resolution.OfferDiscountCents)
		if err != nil {
			resolution.PromoError = err
		} else {
			resolution.Promo = promo
		}
	}

	return resolution
}

// evaluateOffer produces the progress-display view of one offer against
// the untouched cart, with no line consumption.
func evaluateOffer(offer models.Offer, input Input) types.ApplicableOffer {
	result := types.ApplicableOffer{
		OfferID:   offer.ID,
		Name:      offer.Name,
		OfferType: offer.OfferType,
	}
	if !withinSchedule(offer, input.Now) || !underUsageCaps(offer, input.CustomerUses[offer.ID]) {
		return result
	}

	switch offer.OfferType {
	case enums.OfferTypeBundle:
		if offer.Config.Bundle == nil {
			return result
		}
		cfg := *offer.Config.Bundle
		result.ProgressTarget = len(cfg.Slots)
		if cfg.Type == enums.BundleTypeSpecificItems {
			result.ProgressTarget = len(cfg.Items)
		}
		match, ok := bundles.MatchBundle(bundles.Candidate{OfferID: offer.ID, Name: offer.Name, Config: cfg}, input.Lines)
		if ok {
			result.Applicable = true
			result.Progress = result.ProgressTarget
			result.DiscountCents = match.SavingsCents
		} else {
			result.Progress = filledSlots(cfg, input.Lines)
		}

	case enums.OfferTypeBuyXGetY:
		if offer.Config.BuyXGetY == nil {
			return result
		}
		cfg := *offer.Config.BuyXGetY
		result.ProgressTarget = cfg.TriggerQuantity
		result.Progress = countEligible(cfg.TriggerCategoryIDs, cfg.TriggerExcludedItems, cfg.TriggerExcludedSizes, input.Lines, cfg.TriggerQuantity)
		if match, ok := resolveBuyXGetY(cfg, input.Lines); ok {
			result.Applicable = true
			result.DiscountCents = match.discountCents
		}

	case enums.OfferTypeCategoryDiscount, enums.OfferTypeCartDiscount:
		if offer.Config.Discount == nil {
			return result
		}
		cfg := *offer.Config.Discount
		eligible, quantity := eligibleSubtotal(cfg.CategoryIDs, input.Lines)
		switch {
		case cfg.MinSubtotalCents > 0:
			result.ProgressTarget = cfg.MinSubtotalCents
			result.Progress = eligible
		case cfg.MinQuantity > 0:
			result.ProgressTarget = cfg.MinQuantity
			result.Progress = quantity
		}
		if eligible == 0 {
			return result
		}
		if cfg.MinSubtotalCents > 0 && eligible < cfg.MinSubtotalCents {
			return result
		}
		if cfg.MinQuantity > 0 && quantity < cfg.MinQuantity {
			return result
		}
		result.Applicable = true
		result.DiscountCents = discountAmount(cfg, eligible)
	}

	return result
}

// commitOffer re-resolves an offer against the lines not yet consumed by
// a previously committed offer and returns the applied detail.
func commitOffer(offer models.Offer, input Input, consumed map[string]bool) (types.AppliedOfferDetail, bool) {
	remaining := make([]bundles.Line, 0, len(input.Lines))
	for _, line := range input.Lines {
		if !consumed[line.Key] {
			remaining = append(remaining, line)
		}
	}

	detail := types.AppliedOfferDetail{
		OfferID:      offer.ID,
		Name:         offer.Name,
		OfferType:    offer.OfferType,
		TimesApplied: 1,
	}

	switch offer.OfferType {
	case enums.OfferTypeBundle:
		if offer.Config.Bundle == nil {
			return detail, false
		}
		match, ok := bundles.MatchBundle(bundles.Candidate{OfferID: offer.ID, Name: offer.Name, Config: *offer.Config.Bundle}, remaining)
		if !ok {
			return detail, false
		}
		for _, key := range match.ConsumedKeys {
			consumed[key] = true
		}
		detail.DiscountCents = match.SavingsCents
		detail.LinesConsumed = match.ConsumedKeys
		return detail, true

	case enums.OfferTypeBuyXGetY:
		if offer.Config.BuyXGetY == nil {
			return detail, false
		}
		match, ok := resolveBuyXGetY(*offer.Config.BuyXGetY, remaining)
		if !ok {
			return detail, false
		}
		keys := append(append([]string{}, match.triggerKeys...), match.rewardKeys...)
		for _, key := range keys {
			consumed[key] = true
		}
		detail.DiscountCents = match.discountCents
		detail.LinesConsumed = keys
		return detail, true

	case enums.OfferTypeCategoryDiscount, enums.OfferTypeCartDiscount:
		if offer.Config.Discount == nil {
			return detail, false
		}
		cfg := *offer.Config.Discount
		eligible, quantity := eligibleSubtotal(cfg.CategoryIDs, input.Lines)
		if eligible == 0 {
			return detail, false
		}
		if cfg.MinSubtotalCents > 0 && eligible < cfg.MinSubtotalCents {
			return detail, false
		}
		if cfg.MinQuantity > 0 && quantity < cfg.MinQuantity {
			return detail, false
		}
		detail.DiscountCents = discountAmount(cfg, eligible)
		return detail, detail.DiscountCents > 0
	}

	return detail, false
}

// validatePromo locates the promo-code offer matching the entered code
// and applies schedule, cap, threshold and stacking checks. The error is
// user-facing and never blocks checkout.
func validatePromo(code string, input Input, subtotal int, offerDiscount int) (*PromoResult, error) {
	if !input.Settings.PromoCodesStackable && offerDiscount > 0 {
		return nil, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo codes cannot be combined with other offers")
	}

	for _, offer := range input.Offers {
		if offer.OfferType != enums.OfferTypePromoCode || offer.Config.PromoCode == nil {
			continue
		}
		cfg := *offer.Config.PromoCode
		if !equalFoldCode(cfg.Code, code) {
			continue
		}
		if !withinSchedule(offer, input.Now) {
			return nil, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code is not active right now")
		}
		if !underUsageCaps(offer, input.CustomerUses[offer.ID]) {
			return nil, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code usage limit reached")
		}
		if cfg.MinSubtotalCents > 0 && subtotal < cfg.MinSubtotalCents {
			return nil, pkgerrors.New(pkgerrors.CodePromoInvalid, "order does not meet the promo code minimum").WithDetails(map[string]any{
				"min_subtotal_cents": cfg.MinSubtotalCents,
			})
		}
		return &PromoResult{
			OfferID:      offer.ID,
			Code:         cfg.Code,
			DiscountType: cfg.DiscountType,
			Value:        cfg.Value,
		}, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodePromoInvalid, "promo code not recognized")
}

// ValidateCode checks a promo code outside a cart quote. Stacking cannot
// be evaluated without a resolved cart, so only schedule, usage caps and
// the minimum-subtotal threshold apply here.
func ValidateCode(code string, activeOffers []models.Offer, customerUses map[uuid.UUID]int, subtotalCents int, now time.Time) (*PromoResult, error) {
	input := Input{
		Offers:       activeOffers,
		Settings:     Settings{PromoCodesStackable: true},
		CustomerUses: customerUses,
		Now:          now,
	}
	return validatePromo(code, input, subtotalCents, 0)
}

func discountAmount(cfg types.DiscountConfig, eligibleCents int) int {
	switch cfg.DiscountType {
	case enums.DiscountTypePercentage:
		return pricing.PercentOf(eligibleCents, cfg.Value)
	case enums.DiscountTypeFixed:
		if cfg.Value > eligibleCents {
			return eligibleCents
		}
		return cfg.Value
	}
	return 0
}

// eligibleSubtotal totals the lines inside the category scope. An empty
// category list means the whole cart.
func eligibleSubtotal(categories types.UUIDList, lines []bundles.Line) (int, int) {
	total := 0
	quantity := 0
	for _, line := range lines {
		if len(categories) > 0 && !categories.Contains(line.Item.CategoryID) {
			continue
		}
		total += pricing.LineTotal(line.Item.BasePriceCents, line.Options, line.Quantity)
		quantity += line.Quantity
	}
	return total, quantity
}

func filledSlots(cfg types.BundleConfig, lines []bundles.Line) int {
	probe := bundles.Candidate{OfferID: uuid.Nil, Config: cfg}
	filled := 0
	for i := range cfg.Slots {
		partial := cfg
		partial.Slots = cfg.Slots[:i+1]
		partial.FixedPriceCents = 0
		probe.Config = partial
		if _, ok := bundles.MatchBundle(probe, lines); ok {
			filled = i + 1
		}
	}
	return filled
}

func countEligible(categories types.UUIDList, excludedItems types.UUIDList, excludedSizes []types.ExcludedSizes, lines []bundles.Line, cap int) int {
	count := 0
	for _, line := range lines {
		if !eligibleForSlot(line, categories, excludedItems, excludedSizes) {
			continue
		}
		count += line.Quantity
		if count >= cap {
			return cap
		}
	}
	return count
}

func equalFoldCode(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
