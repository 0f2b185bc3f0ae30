package checkout

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/curbsidehq/curbside-backend/internal/catalog"
	"github.com/curbsidehq/curbside-backend/internal/loyalty"
	"github.com/curbsidehq/curbside-backend/internal/offers"
	"github.com/curbsidehq/curbside-backend/internal/trucks"
	pkgcheckout "github.com/curbsidehq/curbside-backend/pkg/checkout"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/logger"
	"github.com/curbsidehq/curbside-backend/pkg/outbox"
	"github.com/curbsidehq/curbside-backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// cartSource is satisfied by the cart repository without naming it; the
// cart package depends on this one for totals composition.
type cartSource interface {
	FindActive(ctx context.Context, truckID uuid.UUID, sessionID string) (*models.CartRecord, error)
	MarkConverted(ctx context.Context, id uuid.UUID, at time.Time) error
}

type orderStore interface {
	CreateTx(tx *gorm.DB, order *models.Order) error
}

type menuLoader interface {
	GetMenu(ctx context.Context, truckID uuid.UUID) (*catalog.Menu, error)
}

type settingsLoader interface {
	OrderingSettings(ctx context.Context, truckID uuid.UUID) (trucks.OrderingSettings, error)
}

// Input commits the session's active quote as an order. RedeemPoints
// must restate the loyalty opt-in the quote was priced with.
type Input struct {
	TruckID       uuid.UUID  `json:"truck_id"`
	SessionID     string     `json:"session_id"`
	CustomerName  string     `json:"customer_name"`
	CustomerEmail *string    `json:"customer_email,omitempty"`
	CustomerPhone *string    `json:"customer_phone,omitempty"`
	Notes         *string    `json:"notes,omitempty"`
	PickupAt      *time.Time `json:"pickup_at,omitempty"`
	RedeemPoints  int        `json:"redeem_points,omitempty"`
}

// Service converts a priced cart into a committed order. The quote's
// discount breakdown is persisted verbatim; nothing is repriced here.
type Service interface {
	Execute(ctx context.Context, input Input) (*models.Order, error)
}

type service struct {
	tx       txRunner
	carts    cartSource
	orders   orderStore
	offers   offers.Repository
	loyalty  loyalty.Service
	menus    menuLoader
	settings settingsLoader
	events   outboxPublisher
	logg     *logger.Logger
	now      func() time.Time
}

// NewService builds the checkout service.
func NewService(tx txRunner, carts cartSource, orderRepo orderStore, offerRepo offers.Repository, loyaltySvc loyalty.Service, menus menuLoader, settings settingsLoader, events outboxPublisher, logg *logger.Logger) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart source required")
	}
	if orderRepo == nil {
		return nil, fmt.Errorf("order store required")
	}
	if offerRepo == nil {
		return nil, fmt.Errorf("offer repository required")
	}
	if loyaltySvc == nil {
		return nil, fmt.Errorf("loyalty service required")
	}
	if menus == nil {
		return nil, fmt.Errorf("menu loader required")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings loader required")
	}
	if events == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		tx:       tx,
		carts:    carts,
		orders:   orderRepo,
		offers:   offerRepo,
		loyalty:  loyaltySvc,
		menus:    menus,
		settings: settings,
		events:   events,
		logg:     logg,
		now:      time.Now,
	}, nil
}

// Execute commits the session's active quote. The cart is flipped to
// converted after the order transaction lands; a failure there only
// leaves a stale active quote that the next Quote call replaces.
func (s *service) Execute(ctx context.Context, input Input) (*models.Order, error) {
	if err := s.validateInput(input); err != nil {
		return nil, err
	}
	ctx = s.logg.WithTruckID(ctx, input.TruckID.String())

	record, err := s.carts.FindActive(ctx, input.TruckID, input.SessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart for session")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	now := s.now()
	if record.Status != enums.CartStatusActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "cart already processed")
	}
	if record.ValidUntil.Before(now) {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quote expired, request a new one")
	}
	if len(record.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	truckSettings, err := s.settings.OrderingSettings(ctx, input.TruckID)
	if err != nil {
		return nil, err
	}
	if truckSettings.OrderingPaused {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "ordering is paused for this truck")
	}
	if err := s.checkLoyaltySelection(record, input); err != nil {
		return nil, err
	}
	if err := s.revalidateLines(ctx, record); err != nil {
		return nil, err
	}

	order := s.buildOrder(record, input, truckSettings.LoyaltyEnabled)
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		if err := s.orders.CreateTx(tx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create order")
		}
		if err := s.settleLoyalty(ctx, tx, record, input, order, truckSettings.LoyaltyEnabled); err != nil {
			return err
		}
		if err := s.settleOffers(ctx, tx, record, order); err != nil {
			return err
		}
		return s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOrderCreated,
			AggregateType: enums.AggregateOrder,
			AggregateID:   order.ID,
			Data: payloads.OrderCreatedEvent{
				OrderID:              order.ID,
				TruckID:              order.TruckID,
				CustomerEmail:        order.CustomerEmail,
				SubtotalCents:        order.SubtotalCents,
				OfferDiscountCents:   order.OfferDiscountCents,
				PromoDiscountCents:   order.PromoDiscountCents,
				LoyaltyDiscountCents: order.LoyaltyDiscountCents,
				TotalCents:           order.TotalCents,
				AppliedOffers:        order.AppliedOffers,
				LineCount:            len(order.Items),
			},
			Version: 1,
		})
	})
	if err != nil {
		return nil, err
	}

	if err := s.carts.MarkConverted(ctx, record.ID, now); err != nil {
		ctx = s.logg.WithOrderID(ctx, order.ID.String())
		s.logg.Error(ctx, "mark cart converted", err)
	}
	ctx = s.logg.WithOrderID(ctx, order.ID.String())
	s.logg.Info(ctx, "order created")
	return order, nil
}

func (s *service) validateInput(input Input) error {
	switch {
	case input.TruckID == uuid.Nil:
		return pkgerrors.New(pkgerrors.CodeValidation, "truck id is required")
	case input.SessionID == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "session id is required")
	case input.CustomerName == "":
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	case input.RedeemPoints < 0:
		return pkgerrors.New(pkgerrors.CodeValidation, "redeem points cannot be negative")
	}
	return nil
}

// checkLoyaltySelection rejects a commit whose loyalty opt-in no longer
// matches what the quote was priced with, instead of silently shifting
// the total.
func (s *service) checkLoyaltySelection(record *models.CartRecord, input Input) error {
	if record.LoyaltyDiscountCents == 0 {
		if input.RedeemPoints > 0 {
			return pkgerrors.New(pkgerrors.CodeConflict, "quote was priced without loyalty redemption, request a new quote")
		}
		return nil
	}
	if input.CustomerEmail == nil || *input.CustomerEmail == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is required to redeem points")
	}
	if s.loyalty.RedeemValueCents(input.RedeemPoints) != record.LoyaltyDiscountCents {
		return pkgerrors.New(pkgerrors.CodeConflict, "loyalty selection changed since the quote, request a new one").WithDetails(map[string]any{
			"quoted_discount_cents": record.LoyaltyDiscountCents,
		})
	}
	return nil
}

// revalidateLines re-checks availability against the live menu right
// before commit. The quote only warned; checkout is the hard gate.
func (s *service) revalidateLines(ctx context.Context, record *models.CartRecord) error {
	menu, err := s.menus.GetMenu(ctx, record.TruckID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load menu")
	}

	inputs := make([]pkgcheckout.LineValidationInput, 0, len(record.Items))
	for _, item := range record.Items {
		line := pkgcheckout.LineValidationInput{
			ItemName:    item.Name,
			Quantity:    item.Quantity,
			IsAvailable: true,
		}
		if item.MenuItemID != nil {
			line.MenuItemID = *item.MenuItemID
			view, ok := menu.Items[*item.MenuItemID]
			if !ok {
				line.IsArchived = true
			} else {
				line.IsAvailable = view.IsAvailable
				line.IsArchived = view.IsArchived
			}
		}
		inputs = append(inputs, line)
	}
	return pkgcheckout.ValidateLines(inputs)
}

// buildOrder snapshots the quote into an order. The loyalty point
// columns are computed here so the inserted row already carries them;
// the ledger writes in settleLoyalty must land the same numbers.
func (s *service) buildOrder(record *models.CartRecord, input Input, earnEnabled bool) *models.Order {
	order := &models.Order{
		ID:                   uuid.New(),
		TruckID:              record.TruckID,
		CartID:               &record.ID,
		CustomerName:         input.CustomerName,
		CustomerEmail:        input.CustomerEmail,
		CustomerPhone:        input.CustomerPhone,
		Status:               enums.OrderStatusPending,
		Currency:             record.Currency,
		SubtotalCents:        record.SubtotalCents,
		OfferDiscountCents:   record.OfferDiscountCents,
		PromoDiscountCents:   record.PromoDiscountCents,
		LoyaltyDiscountCents: record.LoyaltyDiscountCents,
		TotalCents:           record.TotalCents,
		AppliedOffers:        record.AppliedOffers,
		PromoCode:            record.PromoCode,
		Notes:                input.Notes,
		PickupAt:             input.PickupAt,
	}
	if record.LoyaltyDiscountCents > 0 {
		order.LoyaltyPointsSpent = input.RedeemPoints
	}
	if earnEnabled && input.CustomerEmail != nil && *input.CustomerEmail != "" {
		order.LoyaltyPointsEarned = s.loyalty.PointsForSpend(record.TotalCents)
	}
	order.Items = make([]models.OrderLineItem, 0, len(record.Items))
	for _, item := range record.Items {
		order.Items = append(order.Items, models.OrderLineItem{
			OrderID:         order.ID,
			MenuItemID:      item.MenuItemID,
			CategoryID:      item.CategoryID,
			LineKey:         item.LineKey,
			Name:            item.Name,
			Quantity:        item.Quantity,
			UnitPriceCents:  item.UnitPriceCents,
			LineTotalCents:  item.LineSubtotalCents,
			SelectedOptions: item.SelectedOptions,
			BundleInfo:      item.BundleInfo,
			Notes:           item.Notes,
		})
	}
	return order
}

func (s *service) settleLoyalty(ctx context.Context, tx *gorm.DB, record *models.CartRecord, input Input, order *models.Order, earnEnabled bool) error {
	var email string
	if input.CustomerEmail != nil {
		email = *input.CustomerEmail
	}

	if record.LoyaltyDiscountCents > 0 {
		entry, err := s.loyalty.RedeemTx(tx, record.TruckID, email, order.ID, input.RedeemPoints)
		if err != nil {
			return err
		}
		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventLoyaltyPointsSpent,
			AggregateType: enums.AggregateLoyaltyAccount,
			AggregateID:   entry.AccountID,
			Data: payloads.LoyaltyPointsSpentEvent{
				AccountID:     entry.AccountID,
				TruckID:       record.TruckID,
				OrderID:       order.ID,
				CustomerEmail: email,
				Points:        entry.Points,
				DiscountCents: entry.ValueCents,
				NewBalance:    entry.NewBalance,
			},
			Version: 1,
		}); err != nil {
			return err
		}
	}

	if !earnEnabled || email == "" {
		return nil
	}
	entry, err := s.loyalty.EarnTx(tx, record.TruckID, email, order.ID, order.TotalCents)
	if err != nil {
		return err
	}
	if entry == nil {
		return nil
	}
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventLoyaltyPointsEarned,
		AggregateType: enums.AggregateLoyaltyAccount,
		AggregateID:   entry.AccountID,
		Data: payloads.LoyaltyPointsEarnedEvent{
			AccountID:     entry.AccountID,
			TruckID:       record.TruckID,
			OrderID:       order.ID,
			CustomerEmail: email,
			Points:        entry.Points,
			NewBalance:    entry.NewBalance,
		},
		Version: 1,
	})
}

// settleOffers records usage for every discount the quote applied,
// including the promo-code offer, which lives outside AppliedOffers.
// Usage caps on promo offers only bind if their redemptions land here.
func (s *service) settleOffers(ctx context.Context, tx *gorm.DB, record *models.CartRecord, order *models.Order) error {
	if len(record.AppliedOffers) == 0 && record.PromoOfferID == nil {
		return nil
	}
	offersTx := s.offers.WithTx(tx)
	for _, applied := range record.AppliedOffers {
		if err := offersTx.IncrementUsage(ctx, applied.OfferID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment offer usage")
		}
		redemption := &models.OfferRedemption{
			OfferID:       applied.OfferID,
			OrderID:       order.ID,
			TruckID:       record.TruckID,
			CustomerEmail: order.CustomerEmail,
			DiscountCents: applied.DiscountCents,
		}
		if err := offersTx.RecordRedemption(ctx, redemption); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record offer redemption")
		}
		if err := s.events.Emit(ctx, tx, outbox.DomainEvent{
			EventType:     enums.EventOfferRedeemed,
			AggregateType: enums.AggregateOffer,
			AggregateID:   applied.OfferID,
			Data: payloads.OfferRedeemedEvent{
				OfferID:       applied.OfferID,
				OrderID:       order.ID,
				TruckID:       record.TruckID,
				OfferType:     applied.OfferType,
				DiscountCents: applied.DiscountCents,
				TimesApplied:  applied.TimesApplied,
			},
			Version: 1,
		}); err != nil {
			return err
		}
	}
	if record.PromoOfferID == nil {
		return nil
	}
	promoID := *record.PromoOfferID
	if err := offersTx.IncrementUsage(ctx, promoID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment promo usage")
	}
	redemption := &models.OfferRedemption{
		OfferID:       promoID,
		OrderID:       order.ID,
		TruckID:       record.TruckID,
		CustomerEmail: order.CustomerEmail,
		DiscountCents: record.PromoDiscountCents,
	}
	if err := offersTx.RecordRedemption(ctx, redemption); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record promo redemption")
	}
	return s.events.Emit(ctx, tx, outbox.DomainEvent{
		EventType:     enums.EventOfferRedeemed,
		AggregateType: enums.AggregateOffer,
		AggregateID:   promoID,
		Data: payloads.OfferRedeemedEvent{
			OfferID:       promoID,
			OrderID:       order.ID,
			TruckID:       record.TruckID,
			OfferType:     enums.OfferTypePromoCode,
			DiscountCents: record.PromoDiscountCents,
			TimesApplied:  1,
		},
		Version: 1,
	})
}
