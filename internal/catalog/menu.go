package catalog

import (
	"sort"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/internal/pricing"
	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

// OptionView is a catalog option inside a loaded menu snapshot.
type OptionView struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	PriceCents  int       `json:"price_cents"`
	IsAvailable bool      `json:"is_available"`
	IsDefault   bool      `json:"is_default"`
}

// OptionGroupView is a catalog option group with its role resolved.
type OptionGroupView struct {
	ID         uuid.UUID             `json:"id"`
	Name       string                `json:"name"`
	Role       enums.OptionGroupRole `json:"role"`
	IsRequired bool                  `json:"is_required"`
	IsMultiple bool                  `json:"is_multiple"`
	Options    []OptionView          `json:"options"`
}

// CategoryView groups a category's option structure.
type CategoryView struct {
	ID     uuid.UUID         `json:"id"`
	Name   string            `json:"name"`
	Groups []OptionGroupView `json:"groups"`
}

// ItemView is a menu item inside the snapshot.
type ItemView struct {
	ID              uuid.UUID                  `json:"id"`
	CategoryID      uuid.UUID                  `json:"category_id"`
	Name            string                     `json:"name"`
	BasePriceCents  int                        `json:"base_price_cents"`
	IsAvailable     bool                       `json:"is_available"`
	IsArchived      bool                       `json:"is_archived"`
	IsDailySpecial  bool                       `json:"is_daily_special"`
	Allergens       []string                   `json:"allergens,omitempty"`
	DisabledOptions types.UUIDList             `json:"disabled_options,omitempty"`
	OptionPrices    types.OptionPriceOverrides `json:"option_prices,omitempty"`
}

// Snapshot returns the item as the pricing package sees it.
func (i ItemView) Snapshot() pricing.ItemSnapshot {
	return pricing.ItemSnapshot{
		ID:              i.ID,
		CategoryID:      i.CategoryID,
		Name:            i.Name,
		BasePriceCents:  i.BasePriceCents,
		DisabledOptions: i.DisabledOptions,
		OptionPrices:    i.OptionPrices,
	}
}

// Menu is the full catalog snapshot for one truck. It is built once per
// load, cached, and treated as immutable by readers.
type Menu struct {
	TruckID    uuid.UUID                  `json:"truck_id"`
	Categories map[uuid.UUID]CategoryView `json:"categories"`
	Items      map[uuid.UUID]ItemView     `json:"items"`
}

// BuildMenu assembles the snapshot from loaded records. The size group
// per category is resolved exactly once here: an explicitly tagged group
// wins; otherwise the first required single-select group by display
// order inherits the role, covering legacy data written before roles
// existed. Every consumer reads the resolved role off the snapshot.
func BuildMenu(truckID uuid.UUID, categories []models.Category, items []models.MenuItem) *Menu {
	menu := &Menu{
		TruckID:    truckID,
		Categories: make(map[uuid.UUID]CategoryView, len(categories)),
		Items:      make(map[uuid.UUID]ItemView, len(items)),
	}

	for _, category := range categories {
		view := CategoryView{ID: category.ID, Name: category.Name}

		groups := make([]models.CategoryOptionGroup, len(category.OptionGroups))
		copy(groups, category.OptionGroups)
		sort.SliceStable(groups, func(i, j int) bool {
			return groups[i].DisplayOrder < groups[j].DisplayOrder
		})

		sizeResolved := false
		for _, group := range groups {
			if group.Role == enums.OptionGroupRoleSize {
				sizeResolved = true
				break
			}
		}

		for _, group := range groups {
			role := group.Role
			if !sizeResolved && role != enums.OptionGroupRoleSize && group.IsRequired && !group.IsMultiple {
				role = enums.OptionGroupRoleSize
				sizeResolved = true
			}

			groupView := OptionGroupView{
				ID:         group.ID,
				Name:       group.Name,
				Role:       role,
				IsRequired: group.IsRequired,
				IsMultiple: group.IsMultiple,
			}
			options := make([]models.CategoryOption, len(group.Options))
			copy(options, group.Options)
			sort.SliceStable(options, func(i, j int) bool {
				return options[i].DisplayOrder < options[j].DisplayOrder
			})
			for _, option := range options {
				groupView.Options = append(groupView.Options, OptionView{
					ID:          option.ID,
					Name:        option.Name,
					PriceCents:  option.PriceModifierCents,
					IsAvailable: option.IsAvailable,
					IsDefault:   option.IsDefault,
				})
			}
			view.Groups = append(view.Groups, groupView)
		}

		menu.Categories[category.ID] = view
	}

	for _, item := range items {
		menu.Items[item.ID] = ItemView{
			ID:              item.ID,
			CategoryID:      item.CategoryID,
			Name:            item.Name,
			BasePriceCents:  item.BasePriceCents,
			IsAvailable:     item.IsAvailable,
			IsArchived:      item.IsArchived,
			IsDailySpecial:  item.IsDailySpecial,
			Allergens:       item.Allergens,
			DisabledOptions: item.DisabledOptions,
			OptionPrices:    item.OptionPrices,
		}
	}

	return menu
}

// LineInput is a raw cart line as posted by the client.
type LineInput struct {
	ItemID    uuid.UUID   `json:"item_id"`
	Quantity  int         `json:"quantity"`
	OptionIDs []uuid.UUID `json:"option_ids,omitempty"`
	Notes     *string     `json:"notes,omitempty"`
}

// ResolvedLine is a priced, validated cart line with its warnings.
type ResolvedLine struct {
	Item     pricing.ItemSnapshot
	Quantity int
	Options  types.SelectedOptions
	Warnings types.CartItemWarnings
	Notes    *string
}

// ResolveLine validates a posted line against the snapshot and builds
// its option selection with resolved prices. Availability problems
// become warnings rather than failures; the quote stays best-effort and
// checkout enforces the hard rules separately. An unknown item is the
// one unrecoverable case.
func (m *Menu) ResolveLine(input LineInput) (ResolvedLine, error) {
	item, ok := m.Items[input.ItemID]
	if !ok {
		return ResolvedLine{}, pkgerrors.New(pkgerrors.CodeNotFound, "menu item not found").WithDetails(map[string]any{
			"item_id": input.ItemID,
		})
	}

	resolved := ResolvedLine{
		Item:     item.Snapshot(),
		Quantity: input.Quantity,
		Notes:    input.Notes,
	}
	if item.IsArchived {
		resolved.Warnings = append(resolved.Warnings, types.CartItemWarning{
			Type:    enums.CartItemWarningItemArchived,
			Message: item.Name + " is no longer on the menu",
		})
	} else if !item.IsAvailable {
		resolved.Warnings = append(resolved.Warnings, types.CartItemWarning{
			Type:    enums.CartItemWarningItemUnavailable,
			Message: item.Name + " is currently unavailable",
		})
	}

	category, ok := m.Categories[item.CategoryID]
	if !ok {
		return resolved, nil
	}

	// The size selection must resolve first so non-size option overrides
	// can key off it.
	sizeID := m.findSizeSelection(category, input.OptionIDs)

	for _, optionID := range input.OptionIDs {
		group, option, found := category.lookupOption(optionID)
		if !found {
			resolved.Warnings = append(resolved.Warnings, types.CartItemWarning{
				Type:    enums.CartItemWarningOptionUnavailable,
				Message: "an option is no longer offered",
			})
			continue
		}
		if item.DisabledOptions.Contains(optionID) || !option.IsAvailable {
			resolved.Warnings = append(resolved.Warnings, types.CartItemWarning{
				Type:    enums.CartItemWarningOptionUnavailable,
				Message: option.Name + " is unavailable for " + item.Name,
			})
			continue
		}

		isSize := group.Role == enums.OptionGroupRoleSize
		var overrideSize *uuid.UUID
		if !isSize {
			overrideSize = sizeID
		}
		price := pricing.ResolveOptionPrice(item.Snapshot(), optionID, overrideSize, option.PriceCents)

		resolved.Options = append(resolved.Options, types.SelectedOption{
			OptionID:           option.ID,
			OptionGroupID:      group.ID,
			Name:               option.Name,
			GroupName:          group.Name,
			PriceModifierCents: price,
			IsSize:             isSize,
		})
	}

	return resolved, nil
}

func (m *Menu) findSizeSelection(category CategoryView, optionIDs []uuid.UUID) *uuid.UUID {
	for _, optionID := range optionIDs {
		group, _, found := category.lookupOption(optionID)
		if found && group.Role == enums.OptionGroupRoleSize {
			id := optionID
			return &id
		}
	}
	return nil
}

func (c CategoryView) lookupOption(optionID uuid.UUID) (OptionGroupView, OptionView, bool) {
	for _, group := range c.Groups {
		for _, option := range group.Options {
			if option.ID == optionID {
				return group, option, true
			}
		}
	}
	return OptionGroupView{}, OptionView{}, false
}
