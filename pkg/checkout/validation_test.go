package checkout

import (
	"testing"

	"github.com/google/uuid"

	pkgerrors "github.com/curbsidehq/curbside-backend/pkg/errors"
)

func TestValidateLines_NoViolations(t *testing.T) {
	items := []LineValidationInput{
		{
			MenuItemID:  uuid.New(),
			ItemName:    "Carne Asada Taco",
			Quantity:    2,
			IsAvailable: true,
		},
		{
			MenuItemID:  uuid.New(),
			ItemName:    "Horchata",
			Quantity:    MaxLineQuantity,
			IsAvailable: true,
		},
	}
	if err := ValidateLines(items); err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
}

func TestValidateLines_Violations(t *testing.T) {
	items := []LineValidationInput{
		{
			MenuItemID:  uuid.New(),
			ItemName:    "Retired Special",
			Quantity:    1,
			IsAvailable: true,
			IsArchived:  true,
		},
		{
			MenuItemID: uuid.New(),
			ItemName:   "Sold Out Burrito",
			Quantity:   1,
		},
		{
			MenuItemID:  uuid.New(),
			ItemName:    "Zero Quantity Taco",
			Quantity:    0,
			IsAvailable: true,
		},
		{
			MenuItemID:  uuid.New(),
			ItemName:    "Party Order",
			Quantity:    MaxLineQuantity + 1,
			IsAvailable: true,
		},
	}
	err := ValidateLines(items)
	if err == nil {
		t.Fatal("expected error for invalid lines")
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected coded error, got %T", err)
	}
	if typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected code %s, got %s", pkgerrors.CodeStateConflict, typed.Code())
	}
	details, ok := typed.Details().(map[string]any)
	if !ok {
		t.Fatalf("expected detail map, got %#v", typed.Details())
	}
	violations, ok := details["violations"].([]LineViolationDetail)
	if !ok {
		t.Fatalf("expected violation details, got %#v", details["violations"])
	}
	if len(violations) != 4 {
		t.Fatalf("expected 4 violations, got %d", len(violations))
	}
	wantReasons := []string{"item_archived", "item_unavailable", "quantity_below_minimum", "quantity_above_maximum"}
	for i, want := range wantReasons {
		if violations[i].Reason != want {
			t.Fatalf("violation %d: expected reason %q, got %q", i, want, violations[i].Reason)
		}
	}
}

func TestValidateLines_Empty(t *testing.T) {
	if err := ValidateLines(nil); err != nil {
		t.Fatalf("expected nil for empty input, got %v", err)
	}
}
