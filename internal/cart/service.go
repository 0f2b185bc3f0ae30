package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/internal/bundles"
	"github.com/curbsidehq/curbside-backend/internal/catalog"
	"github.com/curbsidehq/curbside-backend/internal/checkout"
	"github.com/curbsidehq/curbside-backend/internal/loyalty"
	"github.com/curbsidehq/curbside-backend/internal/offers"
	"github.com/curbsidehq/curbside-backend/internal/pricing"
	"github.com/curbsidehq/curbside-backend/internal/trucks"
	pkgcheckout "github.com/curbsidehq/curbside-backend/pkg/checkout"
	"github.com/curbsidehq/curbside-backend/pkg/config"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type menuLoader interface {
	GetMenu(ctx context.Context, truckID uuid.UUID) (*catalog.Menu, error)
}

type settingsLoader interface {
	OrderingSettings(ctx context.Context, truckID uuid.UUID) (trucks.OrderingSettings, error)
}

type offerCatalog interface {
	ListActive(ctx context.Context, truckID uuid.UUID, now time.Time) ([]models.Offer, error)
	CountCustomerUses(ctx context.Context, truckID uuid.UUID, customerEmail string) (map[uuid.UUID]int, error)
}

type loyaltyReader interface {
	Balance(ctx context.Context, truckID uuid.UUID, email string) (*loyalty.BalanceDTO, error)
	RedeemValueCents(points int) int
}

// QuoteLine is one posted cart line. Bundle is set when the client added
// a guided-build bundle; such lines carry their own computed price and
// never donate to further bundle detection.
type QuoteLine struct {
	ItemID    uuid.UUID         `json:"item_id"`
	Quantity  int               `json:"quantity"`
	OptionIDs []uuid.UUID       `json:"option_ids,omitempty"`
	Notes     *string           `json:"notes,omitempty"`
	Bundle    *types.BundleInfo `json:"bundle,omitempty"`
}

// QuoteInput is a full cart snapshot to price.
type QuoteInput struct {
	TruckID       uuid.UUID
	SessionID     string
	CustomerEmail *string
	PromoCode     *string
	RedeemPoints  int
	Lines         []QuoteLine
}

// QuoteResult is the priced cart. PromoMessage carries the user-facing
// reason when the submitted code did not apply; it never blocks the quote.
type QuoteResult struct {
	Cart         *models.CartRecord      `json:"cart"`
	Applicable   []types.ApplicableOffer `json:"applicable_offers"`
	PromoMessage *string                 `json:"promo_message,omitempty"`
	Reused       bool                    `json:"-"`
}

// Service prices cart snapshots and persists the latest quote per
// (truck, session).
type Service interface {
	Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error)
	GetActive(ctx context.Context, truckID uuid.UUID, sessionID string) (*models.CartRecord, error)
}

type service struct {
	repo     Repository
	tx       txRunner
	menus    menuLoader
	settings settingsLoader
	offers   offerCatalog
	loyalty  loyaltyReader
	cfg      config.CartConfig
	logg     *logger.Logger
}

// NewService builds the quote service.
func NewService(repo Repository, tx txRunner, menus menuLoader, settings settingsLoader, offerRepo offerCatalog, loyaltySvc loyaltyReader, cfg config.CartConfig, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if menus == nil {
		return nil, fmt.Errorf("menu loader required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings loader required")
	}
	if offerRepo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if loyaltySvc == nil {
		return nil, fmt.Errorf("loyalty service required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:     repo,
		tx:       tx,
		menus:    menus,
		settings: settings,
		offers:   offerRepo,
		loyalty:  loyaltySvc,
		cfg:      cfg,
		logg:     logg,
	}, nil
}

// Quote validates, prices, and persists the cart snapshot. When the
// incoming cart produces the same signature as the stored active quote
// and nothing else changed, the stored quote is returned as-is.
func (s *service) Quote(ctx context.Context, input QuoteInput) (*QuoteResult, error) {
	if input.TruckID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "truck id is required")
	}
	if input.SessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	}
	if len(input.Lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart must contain at least one line")
	}
	for _, line := range input.Lines {
		if line.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity must be positive")
		}
		if line.Quantity > pkgcheckout.MaxLineQuantity {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "line quantity exceeds limit").WithDetails(map[string]any{
				"max_quantity": pkgcheckout.MaxLineQuantity,
			})
		}
	}

	settings, err := s.settings.OrderingSettings(ctx, input.TruckID)
	if err != nil {
		return nil, err
	}

	menu, err := s.menus.GetMenu(ctx, input.TruckID)
	if err != nil {
		return nil, err
	}

	resolved, detectionLines, err := s.resolveLines(menu, input.Lines)
	if err != nil {
		return nil, err
	}

	signature := cartSignature(resolved)
	now := time.Now()

	existing, err := s.repo.FindActive(ctx, input.TruckID, input.SessionID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	if existing != nil && s.reusable(existing, signature, input, now) {
		return &QuoteResult{Cart: existing, Reused: true}, nil
	}

	activeOffers, customerUses := s.discountInputs(ctx, input, now)

	resolution := offers.Resolve(offers.Input{
		Lines:  detectionLines,
		Offers: activeOffers,
		Settings: offers.Settings{
			OffersStackable:     settings.OffersStackable,
			PromoCodesStackable: settings.PromoCodesStackable,
		},
		PromoCode:    input.PromoCode,
		CustomerUses: customerUses,
		Now:          now,
	})

	loyaltyCents := s.loyaltyPreview(ctx, input, settings)

	totals := checkout.ComposeTotals(checkout.TotalsInput{
		SubtotalCents:        offers.Subtotal(detectionLines),
		Applied:              resolution.Applied,
		Promo:                resolution.Promo,
		LoyaltyDiscountCents: loyaltyCents,
	})

	record := &models.CartRecord{
		TruckID:              input.TruckID,
		SessionID:            input.SessionID,
		CustomerEmail:        input.CustomerEmail,
		Signature:            signature,
		ValidUntil:           now.Add(s.quoteTTL()),
		SubtotalCents:        totals.SubtotalCents,
		OfferDiscountCents:   totals.OfferDiscountCents,
		PromoDiscountCents:   totals.PromoDiscountCents,
		LoyaltyDiscountCents: totals.LoyaltyDiscountCents,
		TotalCents:           totals.TotalCents,
		AppliedOffers:        resolution.Applied,
	}
	if resolution.Promo != nil {
		code := resolution.Promo.Code
		offerID := resolution.Promo.OfferID
		record.PromoCode = &code
		record.PromoOfferID = &offerID
	}

	items := buildCartItems(resolved)

	if err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)
		if existing != nil {
			record.ID = existing.ID
			record.CreatedAt = existing.CreatedAt
			if err := txRepo.Update(ctx, record); err != nil {
				return err
			}
		} else if err := txRepo.Create(ctx, record); err != nil {
			return err
		}
		return txRepo.ReplaceItems(ctx, record.ID, items)
	}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist quote")
	}
	record.Items = items

	result := &QuoteResult{
		Cart:       record,
		Applicable: resolution.Applicable,
	}
	if resolution.PromoError != nil {
		if typed := pkgerrors.As(resolution.PromoError); typed != nil {
			msg := typed.Message()
			result.PromoMessage = &msg
		}
	}
	return result, nil
}

// GetActive returns the stored quote for the session, or not-found.
func (s *service) GetActive(ctx context.Context, truckID uuid.UUID, sessionID string) (*models.CartRecord, error) {
	if truckID == uuid.Nil || sessionID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "truck id and session id are required")
	}
	record, err := s.repo.FindActive(ctx, truckID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "active cart not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load active cart")
	}
	return record, nil
}

// resolvedQuoteLine pairs the catalog resolution with the posted line.
type resolvedQuoteLine struct {
	key      string
	line     QuoteLine
	resolved catalog.ResolvedLine
	unit     int
}

func (s *service) resolveLines(menu *catalog.Menu, lines []QuoteLine) ([]resolvedQuoteLine, []bundles.Line, error) {
	merged := make([]resolvedQuoteLine, 0, len(lines))
	index := make(map[string]int, len(lines))

	for _, line := range lines {
		if line.Bundle != nil {
			entry := resolveBundleLine(line)
			if prev, ok := index[entry.key]; ok {
				merged[prev].line.Quantity += line.Quantity
				continue
			}
			index[entry.key] = len(merged)
			merged = append(merged, entry)
			continue
		}

		resolved, err := menu.ResolveLine(catalog.LineInput{
			ItemID:    line.ItemID,
			Quantity:  line.Quantity,
			OptionIDs: line.OptionIDs,
			Notes:     line.Notes,
		})
		if err != nil {
			return nil, nil, err
		}
		key := pricing.CartKey(line.ItemID, resolved.Options, nil)
		if prev, ok := index[key]; ok {
			merged[prev].line.Quantity += line.Quantity
			continue
		}
		index[key] = len(merged)
		merged = append(merged, resolvedQuoteLine{
			key:      key,
			line:     line,
			resolved: resolved,
			unit:     pricing.UnitPrice(resolved.Item.BasePriceCents, resolved.Options),
		})
	}

	detection := make([]bundles.Line, 0, len(merged))
	for _, entry := range merged {
		detection = append(detection, bundles.Line{
			Key:      entry.key,
			Item:     entry.resolved.Item,
			Quantity: entry.line.Quantity,
			Options:  entry.resolved.Options,
			BundleID: bundleID(entry.line.Bundle),
		})
	}
	return merged, detection, nil
}

// resolveBundleLine prices a guided-build bundle line from its snapshot:
// the fixed price, plus slot supplements, plus option deltas unless the
// bundle absorbs them.
func resolveBundleLine(line QuoteLine) resolvedQuoteLine {
	bundle := line.Bundle
	unit := bundle.FixedPriceCents
	for _, selection := range bundle.Selections {
		unit += selection.SupplementCents
		if !bundle.FreeOptions {
			unit += pricing.OptionDeltaTotal(selection.SelectedOptions)
		}
	}
	if unit < 0 {
		unit = 0
	}

	return resolvedQuoteLine{
		key:  pricing.CartKey(uuid.Nil, nil, &bundle.BundleID),
		line: line,
		resolved: catalog.ResolvedLine{
			Item: pricing.ItemSnapshot{
				ID:             bundle.BundleID,
				Name:           bundle.Name,
				BasePriceCents: unit,
			},
			Quantity: line.Quantity,
			Notes:    line.Notes,
		},
		unit: unit,
	}
}

func cartSignature(lines []resolvedQuoteLine) string {
	sigLines := make([]pricing.SignatureLine, 0, len(lines))
	for _, entry := range lines {
		sig := pricing.SignatureLine{
			ItemID:   entry.resolved.Item.ID,
			Quantity: entry.line.Quantity,
			BundleID: bundleID(entry.line.Bundle),
		}
		if entry.line.Bundle == nil {
			sig.CategoryID = entry.resolved.Item.CategoryID
			if size, ok := entry.resolved.Options.Size(); ok {
				id := size.OptionID
				sig.SizeID = &id
			}
		}
		sigLines = append(sigLines, sig)
	}
	return pricing.Signature(sigLines)
}

// reusable reports whether the stored quote can stand in for this request.
func (s *service) reusable(existing *models.CartRecord, signature string, input QuoteInput, now time.Time) bool {
	if existing.Signature != signature {
		return false
	}
	if existing.ValidUntil.Before(now) {
		return false
	}
	if !equalStringPtr(existing.PromoCode, input.PromoCode) {
		return false
	}
	// A changed loyalty preview always reprices.
	if input.RedeemPoints > 0 != (existing.LoyaltyDiscountCents > 0) {
		return false
	}
	if input.RedeemPoints > 0 && s.loyalty.RedeemValueCents(input.RedeemPoints) != existing.LoyaltyDiscountCents {
		return false
	}
	return true
}

// discountInputs fetches the promotion catalog and usage counts. Failures
// degrade to an empty discount set; quotes never fail on offer lookup.
func (s *service) discountInputs(ctx context.Context, input QuoteInput, now time.Time) ([]models.Offer, map[uuid.UUID]int) {
	activeOffers, err := s.offers.ListActive(ctx, input.TruckID, now)
	if err != nil {
		ctx = s.logg.WithTruckID(ctx, input.TruckID.String())
		s.logg.Error(ctx, "offer lookup failed, quoting without discounts", err)
		return nil, nil
	}

	if input.CustomerEmail == nil || *input.CustomerEmail == "" {
		return activeOffers, nil
	}
	uses, err := s.offers.CountCustomerUses(ctx, input.TruckID, *input.CustomerEmail)
	if err != nil {
		s.logg.Error(ctx, "customer usage lookup failed, ignoring per-customer caps", err)
		return activeOffers, nil
	}
	return activeOffers, uses
}

// loyaltyPreview computes the opt-in loyalty discount for the quote.
// Balance problems zero the preview instead of failing the quote; the
// hard checks run again at checkout where points are actually burned.
func (s *service) loyaltyPreview(ctx context.Context, input QuoteInput, settings trucks.OrderingSettings) int {
	if input.RedeemPoints <= 0 || !settings.LoyaltyEnabled {
		return 0
	}
	if input.CustomerEmail == nil || *input.CustomerEmail == "" {
		return 0
	}
	balance, err := s.loyalty.Balance(ctx, input.TruckID, *input.CustomerEmail)
	if err != nil {
		s.logg.Error(ctx, "loyalty balance lookup failed, quoting without loyalty", err)
		return 0
	}
	if input.RedeemPoints < balance.MinRedeemPoints || input.RedeemPoints > balance.PointsBalance {
		return 0
	}
	return s.loyalty.RedeemValueCents(input.RedeemPoints)
}

func buildCartItems(lines []resolvedQuoteLine) []models.CartItem {
	items := make([]models.CartItem, 0, len(lines))
	for _, entry := range lines {
		item := models.CartItem{
			LineKey:           entry.key,
			Name:              entry.resolved.Item.Name,
			Quantity:          entry.line.Quantity,
			UnitPriceCents:    entry.unit,
			LineSubtotalCents: entry.unit * entry.line.Quantity,
			SelectedOptions:   entry.resolved.Options,
			BundleInfo:        entry.line.Bundle,
			Warnings:          entry.resolved.Warnings,
			Notes:             entry.line.Notes,
		}
		if entry.line.Bundle == nil {
			id := entry.resolved.Item.ID
			category := entry.resolved.Item.CategoryID
			item.MenuItemID = &id
			item.CategoryID = &category
		}
		items = append(items, item)
	}
	return items
}

func (s *service) quoteTTL() time.Duration {
	if s.cfg.QuoteTTL > 0 {
		return s.cfg.QuoteTTL
	}
	return 30 * time.Minute
}

func bundleID(info *types.BundleInfo) *uuid.UUID {
	if info == nil {
		return nil
	}
	id := info.BundleID
	return &id
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
