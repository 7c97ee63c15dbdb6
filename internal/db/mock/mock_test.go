package mock

import (
	"context"
	"testing"

	"foodprint/models"
)

func TestNewSeedsExpectedRecords(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	database, err := New(ctx)
	if err != nil {
		t.Fatalf("mock database initialization failed: %v", err)
	}

	var foods []models.ReferenceFood
	if err := database.WithContext(ctx).Find(&foods).Error; err != nil {
		t.Fatalf("query reference foods: %v", err)
	}
	if len(foods) == 0 {
		t.Fatal("expected seeded reference foods")
	}

	var mappings []models.IngredientMapping
	if err := database.WithContext(ctx).Where("namespace = ?", Namespace).Find(&mappings).Error; err != nil {
		t.Fatalf("query mappings: %v", err)
	}
	if len(mappings) == 0 {
		t.Fatal("expected seeded mappings")
	}
	for _, mapping := range mappings {
		if !mapping.Active {
			t.Fatalf("expected seeded mapping %q to be active", mapping.IngredientCore)
		}
	}

	var dish models.Dish
	if err := database.WithContext(ctx).Preload("Components.Ingredients").First(&dish).Error; err != nil {
		t.Fatalf("query dish: %v", err)
	}
	if len(dish.Components) != 3 {
		t.Fatalf("expected 3 components, got %d", len(dish.Components))
	}

	var donations []models.Donation
	if err := database.WithContext(ctx).Find(&donations).Error; err != nil {
		t.Fatalf("query donations: %v", err)
	}
	if len(donations) != 2 {
		t.Fatalf("expected 2 seeded donations, got %d", len(donations))
	}
	for _, donation := range donations {
		if donation.WeightKg <= 0 {
			t.Fatalf("expected positive donated weight, got %f", donation.WeightKg)
		}
		if (donation.DishID == nil) == (donation.ComponentID == nil) {
			t.Fatalf("donation %d must target exactly one of dish or component", donation.ID)
		}
	}
}
