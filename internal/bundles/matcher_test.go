package bundles

import (
	"testing"

	"github.com/google/uuid"

	"github.com/curbsidehq/curbside-backend/internal/pricing"
	"github.com/curbsidehq/curbside-backend/pkg/enums"
	"github.com/curbsidehq/curbside-backend/pkg/types"
)

var (
	pizzaCategory = uuid.New()
	drinkCategory = uuid.New()
)

func pizzaLine(price int, options ...types.SelectedOption) Line {
	item := pricing.ItemSnapshot{ID: uuid.New(), CategoryID: pizzaCategory, Name: "Margherita", BasePriceCents: price}
	return Line{
		Key:      pricing.CartKey(item.ID, options, nil),
		Item:     item,
		Quantity: 1,
		Options:  options,
	}
}

func drinkLine(price int) Line {
	item := pricing.ItemSnapshot{ID: uuid.New(), CategoryID: drinkCategory, Name: "Lemonade", BasePriceCents: price}
	return Line{
		Key:      pricing.CartKey(item.ID, nil, nil),
		Item:     item,
		Quantity: 1,
	}
}

func pizzaDrinkBundle(fixedPrice int) Candidate {
	return Candidate{
		OfferID: uuid.New(),
		Name:    "Lunch Combo",
		Config: types.BundleConfig{
			Type:            enums.BundleTypeCategoryChoice,
			FixedPriceCents: fixedPrice,
			Slots: []types.BundleSlot{
				{CategoryIDs: types.UUIDList{pizzaCategory}},
				{CategoryIDs: types.UUIDList{drinkCategory}},
			},
		},
	}
}

func TestMatchBundle_PizzaDrinkCombo(t *testing.T) {
	lines := []Line{pizzaLine(1200), drinkLine(500)}

	match, ok := MatchBundle(pizzaDrinkBundle(1500), lines)
	if !ok {
		t.Fatal("expected bundle to match")
	}
	if match.OriginalPriceCents != 1700 {
		t.Fatalf("expected original price 1700, got %d", match.OriginalPriceCents)
	}
	if match.BundlePriceCents != 1500 {
		t.Fatalf("expected bundle price 1500, got %d", match.BundlePriceCents)
	}
	if match.SavingsCents != 200 {
		t.Fatalf("expected savings 200, got %d", match.SavingsCents)
	}
	if len(match.ConsumedKeys) != 2 {
		t.Fatalf("expected 2 consumed lines, got %d", len(match.ConsumedKeys))
	}
}

func TestMatchBundle_NegativeSavingsSuppressed(t *testing.T) {
	lines := []Line{pizzaLine(1200), drinkLine(500)}

	if _, ok := MatchBundle(pizzaDrinkBundle(2000), lines); ok {
		t.Fatal("expected no match when bundle costs more than the items")
	}
}

func TestMatchBundle_UnfillableSlotFailsWhole(t *testing.T) {
	lines := []Line{pizzaLine(1200)}

	if _, ok := MatchBundle(pizzaDrinkBundle(1000), lines); ok {
		t.Fatal("expected match to fail with the drink slot unfillable")
	}
}

func TestMatchBundle_TwoIdenticalSlotsConsumeDistinctLines(t *testing.T) {
	first := pizzaLine(1200)
	second := pizzaLine(1100)
	candidate := Candidate{
		OfferID: uuid.New(),
		Name:    "Two Pizzas",
		Config: types.BundleConfig{
			Type:            enums.BundleTypeCategoryChoice,
			FixedPriceCents: 2000,
			Slots: []types.BundleSlot{
				{CategoryIDs: types.UUIDList{pizzaCategory}},
				{CategoryIDs: types.UUIDList{pizzaCategory}},
			},
		},
	}

	match, ok := MatchBundle(candidate, []Line{first, second})
	if !ok {
		t.Fatal("expected match")
	}
	if len(match.ConsumedKeys) != 2 {
		t.Fatalf("expected both slots filled, got %d", len(match.ConsumedKeys))
	}
	if match.ConsumedKeys[0] == match.ConsumedKeys[1] {
		t.Fatal("expected distinct donor lines per slot")
	}
}

func TestMatchBundle_ExcludedSizeFailsMatch(t *testing.T) {
	largeID := uuid.New()
	line := pizzaLine(1200, types.SelectedOption{OptionID: largeID, Name: "Large", PriceModifierCents: 1600, IsSize: true})

	candidate := pizzaDrinkBundle(1000)
	candidate.Config.Slots[0].ExcludedSizes = []types.ExcludedSizes{
		{ItemID: line.Item.ID, SizeIDs: types.UUIDList{largeID}},
	}

	if _, ok := MatchBundle(candidate, []Line{line, drinkLine(500)}); ok {
		t.Fatal("expected match to fail when the only qualifying line carries an excluded size")
	}
}

func TestMatchBundle_PerSizeSupplement(t *testing.T) {
	largeID := uuid.New()
	line := pizzaLine(1200, types.SelectedOption{OptionID: largeID, Name: "Large", PriceModifierCents: 1600, IsSize: true})

	candidate := Candidate{
		OfferID: uuid.New(),
		Name:    "Pizza Deal",
		Config: types.BundleConfig{
			Type:            enums.BundleTypeCategoryChoice,
			FixedPriceCents: 1200,
			Slots: []types.BundleSlot{
				{
					CategoryIDs: types.UUIDList{pizzaCategory},
					Supplements: []types.SlotSupplement{
						{ItemID: line.Item.ID, SizeID: &largeID, AmountCents: 200},
					},
				},
			},
		},
	}

	match, ok := MatchBundle(candidate, []Line{line})
	if !ok {
		t.Fatal("expected match")
	}
	if match.BundlePriceCents != 1400 {
		t.Fatalf("expected bundle price 1200+200=1400, got %d", match.BundlePriceCents)
	}
	if match.OriginalPriceCents != 1600 {
		t.Fatalf("expected original price 1600, got %d", match.OriginalPriceCents)
	}
	if match.SavingsCents != 200 {
		t.Fatalf("expected savings 200, got %d", match.SavingsCents)
	}
}

func TestMatchBundle_FreeOptionsAbsorbsDeltas(t *testing.T) {
	cheese := types.SelectedOption{OptionID: uuid.New(), Name: "Extra Cheese", PriceModifierCents: 200}
	line := pizzaLine(1200, cheese)
	drink := drinkLine(500)

	paid := pizzaDrinkBundle(1500)
	match, ok := MatchBundle(paid, []Line{line, drink})
	if !ok {
		t.Fatal("expected match")
	}
	if match.BundlePriceCents != 1700 {
		t.Fatalf("expected option delta added to bundle price, got %d", match.BundlePriceCents)
	}

	free := pizzaDrinkBundle(1500)
	free.Config.FreeOptions = true
	match, ok = MatchBundle(free, []Line{line, drink})
	if !ok {
		t.Fatal("expected match with free options")
	}
	if match.BundlePriceCents != 1500 {
		t.Fatalf("expected options absorbed into fixed price, got %d", match.BundlePriceCents)
	}
}

func TestMatchBundle_BundleLinesNeverDonate(t *testing.T) {
	bundleID := uuid.New()
	bundled := pizzaLine(1200)
	bundled.BundleID = &bundleID

	if _, ok := MatchBundle(pizzaDrinkBundle(1000), []Line{bundled, drinkLine(500)}); ok {
		t.Fatal("expected bundle line to be ineligible as a donor")
	}
}

func TestMatchBundle_SpecificItems(t *testing.T) {
	taco := pricing.ItemSnapshot{ID: uuid.New(), CategoryID: pizzaCategory, Name: "Taco", BasePriceCents: 400}
	line := Line{Key: "taco", Item: taco, Quantity: 3}

	candidate := Candidate{
		OfferID: uuid.New(),
		Name:    "Taco Trio",
		Config: types.BundleConfig{
			Type:            enums.BundleTypeSpecificItems,
			FixedPriceCents: 1000,
			Items:           []types.BundleItem{{ItemID: taco.ID, Quantity: 3}},
		},
	}

	match, ok := MatchBundle(candidate, []Line{line})
	if !ok {
		t.Fatal("expected specific-items match")
	}
	if match.OriginalPriceCents != 1200 {
		t.Fatalf("expected original 400*3=1200, got %d", match.OriginalPriceCents)
	}
	if match.SavingsCents != 200 {
		t.Fatalf("expected savings 200, got %d", match.SavingsCents)
	}

	short := Line{Key: "taco", Item: taco, Quantity: 2}
	if _, ok := MatchBundle(candidate, []Line{short}); ok {
		t.Fatal("expected failure when required quantity is not in the cart")
	}
}

func TestDetectAll_SortedByDescendingSavings(t *testing.T) {
	lines := []Line{pizzaLine(1200), drinkLine(500)}

	small := pizzaDrinkBundle(1600)
	big := pizzaDrinkBundle(1400)
	losing := pizzaDrinkBundle(2500)

	matches := DetectAll([]Candidate{small, losing, big}, lines)
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].SavingsCents != 300 || matches[1].SavingsCents != 100 {
		t.Fatalf("expected savings sorted 300,100 got %d,%d", matches[0].SavingsCents, matches[1].SavingsCents)
	}
	if matches[0].OfferID != big.OfferID {
		t.Fatal("expected the highest-savings bundle first")
	}
}
