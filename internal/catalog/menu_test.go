package catalog

import (
	"testing"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/pkg/db/models"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

func buildTestCategory(truckID uuid.UUID) models.Category {
	category := models.Category{
		ID:      uuid.New(),
		TruckID: truckID,
		Name:    "Tacos",
	}
	sizeGroup := models.CategoryOptionGroup{
		ID:           uuid.New(),
		CategoryID:   category.ID,
		Name:         "Size",
		IsRequired:   true,
		IsMultiple:   false,
		DisplayOrder: 0,
		Role:         enums.OptionGroupRoleSize,
		Options: []models.CategoryOption{
			{ID: uuid.New(), Name: "Regular", PriceModifierCents: 1000, IsAvailable: true, IsDefault: true, DisplayOrder: 0},
			{ID: uuid.New(), Name: "Large", PriceModifierCents: 1500, IsAvailable: true, DisplayOrder: 1},
		},
	}
	toppingGroup := models.CategoryOptionGroup{
		ID:           uuid.New(),
		CategoryID:   category.ID,
		Name:         "Toppings",
		IsMultiple:   true,
		DisplayOrder: 1,
		Role:         enums.OptionGroupRoleSupplement,
		Options: []models.CategoryOption{
			{ID: uuid.New(), Name: "Guacamole", PriceModifierCents: 200, IsAvailable: true, DisplayOrder: 0},
			{ID: uuid.New(), Name: "Cheese", PriceModifierCents: 100, IsAvailable: false, DisplayOrder: 1},
		},
	}
	category.OptionGroups = []models.CategoryOptionGroup{sizeGroup, toppingGroup}
	return category
}

func TestBuildMenuExplicitSizeRoleWins(t *testing.T) {
	truckID := uuid.New()
	category := models.Category{ID: uuid.New(), TruckID: truckID, Name: "Burritos"}
	category.OptionGroups = []models.CategoryOptionGroup{
		{
			ID:           uuid.New(),
			CategoryID:   category.ID,
			Name:         "Protein",
			IsRequired:   true,
			IsMultiple:   false,
			DisplayOrder: 0,
			Role:         enums.OptionGroupRoleSupplement,
		},
		{
			ID:           uuid.New(),
			CategoryID:   category.ID,
			Name:         "Size",
			IsRequired:   true,
			IsMultiple:   false,
			DisplayOrder: 1,
			Role:         enums.OptionGroupRoleSize,
		},
	}

	menu := BuildMenu(truckID, []models.Category{category}, nil)

	view := menu.Categories[category.ID]
	if len(view.Groups) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(view.Groups))
	}
	if view.Groups[0].Role != enums.OptionGroupRoleSupplement {
		t.Fatalf("protein group should stay supplement, got %s", view.Groups[0].Role)
	}
	if view.Groups[1].Role != enums.OptionGroupRoleSize {
		t.Fatalf("size group should keep its explicit role, got %s", view.Groups[1].Role)
	}
}

func TestBuildMenuLegacyRoleFallback(t *testing.T) {
	truckID := uuid.New()
	category := models.Category{ID: uuid.New(), TruckID: truckID, Name: "Bowls"}
	category.OptionGroups = []models.CategoryOptionGroup{
		{
			ID:           uuid.New(),
			CategoryID:   category.ID,
			Name:         "Extras",
			IsMultiple:   true,
			DisplayOrder: 0,
			Role:         enums.OptionGroupRoleSupplement,
		},
		{
			ID:           uuid.New(),
			CategoryID:   category.ID,
			Name:         "Portion",
			IsRequired:   true,
			IsMultiple:   false,
			DisplayOrder: 1,
			Role:         enums.OptionGroupRoleSupplement,
		},
		{
			ID:           uuid.New(),
			CategoryID:   category.ID,
			Name:         "Sauce",
			IsRequired:   true,
			IsMultiple:   false,
			DisplayOrder: 2,
			Role:         enums.OptionGroupRoleSupplement,
		},
	}

	menu := BuildMenu(truckID, []models.Category{category}, nil)

	view := menu.Categories[category.ID]
	if view.Groups[1].Role != enums.OptionGroupRoleSize {
		t.Fatalf("first required single-select group should inherit the size role, got %s", view.Groups[1].Role)
	}
	if view.Groups[2].Role != enums.OptionGroupRoleSupplement {
		t.Fatalf("only one group per category may carry the size role, got %s", view.Groups[2].Role)
	}
	if view.Groups[0].Role != enums.OptionGroupRoleSupplement {
		t.Fatalf("multi-select group must never inherit the size role")
	}
}

func TestResolveLineSizeAndSupplementPricing(t *testing.T) {
	truckID := uuid.New()
	category := buildTestCategory(truckID)
	large := category.OptionGroups[0].Options[1]
	guac := category.OptionGroups[1].Options[0]

	item := models.MenuItem{
		ID:             uuid.New(),
		TruckID:        truckID,
		CategoryID:     category.ID,
		Name:           "Carnitas Taco",
		BasePriceCents: 900,
		IsAvailable:    true,
		OptionPrices: types.OptionPriceOverrides{
			{OptionID: guac.ID, SizeID: &large.ID, PriceCents: 300},
		},
	}

	menu := BuildMenu(truckID, []models.Category{category}, []models.MenuItem{item})

	line, err := menu.ResolveLine(LineInput{
		ItemID:    item.ID,
		Quantity:  2,
		OptionIDs: []uuid.UUID{guac.ID, large.ID},
	})
	if err != nil {
		t.Fatalf("resolve line: %v", err)
	}
	if len(line.Warnings) != 0 {
		t.Fatalf("expected no warnings, got %v", line.Warnings)
	}
	if len(line.Options) != 2 {
		t.Fatalf("expected 2 options, got %d", len(line.Options))
	}

	var sizePrice, guacPrice int
	for _, option := range line.Options {
		if option.IsSize {
			sizePrice = option.PriceModifierCents
		} else {
			guacPrice = option.PriceModifierCents
		}
	}
	if sizePrice != 1500 {
		t.Fatalf("size option should carry the absolute large price, got %d", sizePrice)
	}
	if guacPrice != 300 {
		t.Fatalf("guacamole should use the item+size override, got %d", guacPrice)
	}
}

func TestResolveLineWarnings(t *testing.T) {
	truckID := uuid.New()
	category := buildTestCategory(truckID)
	cheese := category.OptionGroups[1].Options[1]

	item := models.MenuItem{
		ID:             uuid.New(),
		TruckID:        truckID,
		CategoryID:     category.ID,
		Name:           "Al Pastor Taco",
		BasePriceCents: 950,
		IsAvailable:    false,
	}
	menu := BuildMenu(truckID, []models.Category{category}, []models.MenuItem{item})

	line, err := menu.ResolveLine(LineInput{
		ItemID:    item.ID,
		Quantity:  1,
		OptionIDs: []uuid.UUID{cheese.ID, uuid.New()},
	})
	if err != nil {
		t.Fatalf("resolve line: %v", err)
	}
	if len(line.Warnings) != 3 {
		t.Fatalf("expected 3 warnings, got %d: %v", len(line.Warnings), line.Warnings)
	}
	if line.Warnings[0].Type != enums.CartItemWarningItemUnavailable {
		t.Fatalf("first warning should flag the unavailable item, got %s", line.Warnings[0].Type)
	}
	for _, warning := range line.Warnings[1:] {
		if warning.Type != enums.CartItemWarningOptionUnavailable {
			t.Fatalf("option problems should warn as option_unavailable, got %s", warning.Type)
		}
	}
	if len(line.Options) != 0 {
		t.Fatalf("unavailable options must not join the selection, got %d", len(line.Options))
	}
}

func TestResolveLineArchivedItem(t *testing.T) {
	truckID := uuid.New()
	category := buildTestCategory(truckID)
	item := models.MenuItem{
		ID:             uuid.New(),
		TruckID:        truckID,
		CategoryID:     category.ID,
		Name:           "Retired Special",
		BasePriceCents: 1200,
		IsAvailable:    true,
		IsArchived:     true,
	}
	menu := BuildMenu(truckID, []models.Category{category}, []models.MenuItem{item})

	line, err := menu.ResolveLine(LineInput{ItemID: item.ID, Quantity: 1})
	if err != nil {
		t.Fatalf("resolve line: %v", err)
	}
	if len(line.Warnings) != 1 || line.Warnings[0].Type != enums.CartItemWarningItemArchived {
		t.Fatalf("expected a single archived warning, got %v", line.Warnings)
	}
}

func TestResolveLineDisabledOption(t *testing.T) {
	truckID := uuid.New()
	category := buildTestCategory(truckID)
	guac := category.OptionGroups[1].Options[0]

	item := models.MenuItem{
		ID:              uuid.New(),
		TruckID:         truckID,
		CategoryID:      category.ID,
		Name:            "Plain Taco",
		BasePriceCents:  800,
		IsAvailable:     true,
		DisabledOptions: types.UUIDList{guac.ID},
	}
	menu := BuildMenu(truckID, []models.Category{category}, []models.MenuItem{item})

	line, err := menu.ResolveLine(LineInput{ItemID: item.ID, Quantity: 1, OptionIDs: []uuid.UUID{guac.ID}})
	if err != nil {
		t.Fatalf("resolve line: %v", err)
	}
	if len(line.Warnings) != 1 || line.Warnings[0].Type != enums.CartItemWarningOptionUnavailable {
		t.Fatalf("disabled option should warn, got %v", line.Warnings)
	}
	if len(line.Options) != 0 {
		t.Fatalf("disabled option must not be selected")
	}
}

func TestResolveLineUnknownItem(t *testing.T) {
	menu := BuildMenu(uuid.New(), nil, nil)

	_, err := menu.ResolveLine(LineInput{ItemID: uuid.New(), Quantity: 1})
	if err == nil {
		t.Fatalf("expected an error for an unknown item")
	}
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
}
