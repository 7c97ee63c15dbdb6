package mock

import (
	"context"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	applog "foodprint/internal/log"
	"foodprint/models"
)

// Namespace is the mapping namespace the seeded rows live in.
const Namespace = "default"

// New returns an in-memory sqlite database seeded with a small kitchen's
// worth of dishes, mappings and donations for local runs and tests.
func New(ctx context.Context) (*gorm.DB, error) {
	applog.Debug(ctx, "initialising mock database")

	database, err := gorm.Open(sqlite.Open("file:foodprint-mock?mode=memory&cache=shared"), &gorm.Config{
		Logger:                                   logger.Default.LogMode(logger.Silent),
		PrepareStmt:                              true,
		SkipDefaultTransaction:                   true,
		DisableForeignKeyConstraintWhenMigrating: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, err
	}

	if err := database.AutoMigrate(
		&models.ReferenceFood{},
		&models.IngredientMapping{},
		&models.Dish{},
		&models.DishComponent{},
		&models.ComponentIngredient{},
		&models.Donation{},
		&models.DonationResult{},
	); err != nil {
		return nil, err
	}

	if err := seed(ctx, database); err != nil {
		return nil, err
	}

	applog.Debug(ctx, "mock database ready")
	return database, nil
}

func ptr[T any](v T) *T {
	return &v
}

func seed(ctx context.Context, database *gorm.DB) error {
	applog.Debug(ctx, "seeding mock database")

	rice := models.ReferenceFood{Name: "Rice, dry", CO2ePerKg: ptr(1.6)}
	chicken := models.ReferenceFood{Name: "Chicken meat", CO2ePerKg: ptr(6.9)}
	tomato := models.ReferenceFood{Name: "Tomato", CO2ePer100g: ptr(0.08)}
	salad := models.ReferenceFood{Name: "Mixed salad", CO2ePerKg: ptr(0.5)}
	for _, food := range []*models.ReferenceFood{&rice, &chicken, &tomato, &salad} {
		if err := database.WithContext(ctx).Create(food).Error; err != nil {
			return err
		}
	}

	mappings := []models.IngredientMapping{
		{
			Namespace:         Namespace,
			IngredientCore:    "rice",
			ReferenceFoodID:   &rice.ID,
			WeightState:       models.WeightStateRaw,
			YieldCookedPerRaw: ptr(2.8),
			Active:            true,
		},
		{
			Namespace:       Namespace,
			IngredientCore:  "chicken",
			ReferenceFoodID: &chicken.ID,
			WeightState:     models.WeightStateCooked,
			Active:          true,
		},
		{
			Namespace:       Namespace,
			IngredientCore:  "tomato",
			ReferenceFoodID: &tomato.ID,
			WeightState:     models.WeightStateCooked,
			Active:          true,
		},
		{
			Namespace:      Namespace,
			IngredientCore: "water",
			WeightState:    models.WeightStateIgnore,
			Active:         true,
		},
		{
			Namespace:       Namespace,
			IngredientCore:  "side salad",
			ReferenceFoodID: &salad.ID,
			WeightState:     models.WeightStateCooked,
			Active:          true,
		},
	}
	for i := range mappings {
		if err := database.WithContext(ctx).Create(&mappings[i]).Error; err != nil {
			return err
		}
	}

	dish := models.Dish{Name: "Chicken curry with rice", Notes: "Tuesday lunch service."}
	if err := database.WithContext(ctx).Create(&dish).Error; err != nil {
		return err
	}

	riceSide := models.DishComponent{DishID: dish.ID, Name: "Basmati rice", Position: 1, PlateShare: ptr(0.35)}
	curry := models.DishComponent{DishID: dish.ID, Name: "Chicken curry", Position: 2, PlateShare: ptr(0.45)}
	sideSalad := models.DishComponent{DishID: dish.ID, Name: "Side salad", Position: 3, PlateShare: ptr(0.20)}
	for _, component := range []*models.DishComponent{&riceSide, &curry, &sideSalad} {
		if err := database.WithContext(ctx).Create(component).Error; err != nil {
			return err
		}
	}

	ingredients := []models.ComponentIngredient{
		{ComponentID: riceSide.ID, Name: "Rice", IngredientCore: "rice", Position: 1, ShareOfComponent: ptr(95.0)},
		{ComponentID: riceSide.ID, Name: "Water", IngredientCore: "water", Position: 2, ShareOfComponent: ptr(5.0), IsWater: true},
		{ComponentID: curry.ID, Name: "Chicken breast", IngredientCore: "chicken", Position: 1, ShareOfComponent: ptr(50.0)},
		{ComponentID: curry.ID, Name: "Tomato (crushed)", IngredientCore: "tomato", Position: 2, ShareOfComponent: ptr(30.0)},
		{ComponentID: curry.ID, Name: "Onion", IngredientCore: "onion", Position: 3, ShareOfComponent: ptr(20.0)},
	}
	for i := range ingredients {
		if err := database.WithContext(ctx).Create(&ingredients[i]).Error; err != nil {
			return err
		}
	}

	donations := []models.Donation{
		{WeightKg: 12, DishID: &dish.ID},
		{WeightKg: 3, ComponentID: &curry.ID},
	}
	for i := range donations {
		if err := database.WithContext(ctx).Create(&donations[i]).Error; err != nil {
			return err
		}
	}

	return nil
}
