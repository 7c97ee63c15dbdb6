package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"foodprint/internal/config"
	"foodprint/internal/db"
	"foodprint/internal/footprint"
	"foodprint/models"
)

// factorRecord is one parsed CSV row: a reference food with its factors
// plus the mapping metadata for one ingredient core.
type factorRecord struct {
	Core              string
	FoodName          string
	CO2ePerKg         *float64
	CO2ePer100g       *float64
	WeightState       string
	YieldCookedPerRaw *float64
	CO2OverridePerKg  *float64
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_factors <factors.csv> [namespace]")
		os.Exit(2)
	}
	csvPath := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
	namespace := cfg.Mapping.DefaultNamespace
	if len(os.Args) > 2 {
		namespace = os.Args[2]
	}

	if err := run(cfg, csvPath, namespace); err != nil {
		fmt.Fprintf(os.Stderr, "import failed: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg config.Config, csvPath, namespace string) error {
	if strings.TrimSpace(csvPath) == "" {
		return fmt.Errorf("csv path must not be empty")
	}
	if strings.TrimSpace(namespace) == "" {
		return fmt.Errorf("namespace must not be empty")
	}

	if _, err := os.Stat(csvPath); err != nil {
		return fmt.Errorf("locate csv: %w", err)
	}

	database, err := db.Configure(cfg.Database)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}

	records, err := readFactorCSV(csvPath)
	if err != nil {
		return fmt.Errorf("read csv: %w", err)
	}

	imported, updated := 0, 0
	for idx, record := range records {
		created, err := upsertRecord(database, namespace, record)
		if err != nil {
			return fmt.Errorf("row %d (%s): %w", idx+2, record.Core, err)
		}
		if created {
			imported++
		} else {
			updated++
		}
	}

	fmt.Printf("imported %d and updated %d mappings in namespace %q\n", imported, updated, namespace)
	return nil
}

func readFactorCSV(path string) ([]factorRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, errors.New("csv must contain a header row and at least one record")
	}

	columns := map[string]int{}
	for i, name := range rows[0] {
		columns[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"core", "food_name", "weight_state"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("csv is missing required column %q", required)
		}
	}

	records := make([]factorRecord, 0, len(rows)-1)
	for idx, row := range rows[1:] {
		record, err := parseFactorRow(columns, row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", idx+2, err)
		}
		if record.Core == "" {
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

func parseFactorRow(columns map[string]int, row []string) (factorRecord, error) {
	field := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	record := factorRecord{
		Core:     footprint.NormalizeCore(field("core")),
		FoodName: field("food_name"),
	}

	state := strings.ToLower(field("weight_state"))
	switch state {
	case models.WeightStateIgnore, models.WeightStateCooked, models.WeightStateRaw:
		record.WeightState = state
	case "":
		record.WeightState = models.WeightStateCooked
	default:
		return factorRecord{}, fmt.Errorf("unknown weight state %q", state)
	}

	var err error
	if record.CO2ePerKg, err = parseOptionalFloat(field("co2e_per_kg")); err != nil {
		return factorRecord{}, fmt.Errorf("co2e_per_kg: %w", err)
	}
	if record.CO2ePer100g, err = parseOptionalFloat(field("co2e_per_100g")); err != nil {
		return factorRecord{}, fmt.Errorf("co2e_per_100g: %w", err)
	}
	if record.YieldCookedPerRaw, err = parseOptionalFloat(field("yield_cooked_per_raw")); err != nil {
		return factorRecord{}, fmt.Errorf("yield_cooked_per_raw: %w", err)
	}
	if record.CO2OverridePerKg, err = parseOptionalFloat(field("co2_override_per_kg")); err != nil {
		return factorRecord{}, fmt.Errorf("co2_override_per_kg: %w", err)
	}

	return record, nil
}

func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	parsed, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	if math.IsNaN(parsed) || math.IsInf(parsed, 0) {
		return nil, fmt.Errorf("value %q is not finite", value)
	}
	return &parsed, nil
}

// upsertRecord writes one reference food and its active mapping inside a
// transaction. Returns true when a new mapping was created.
func upsertRecord(database *gorm.DB, namespace string, record factorRecord) (bool, error) {
	created := false
	err := database.Transaction(func(tx *gorm.DB) error {
		var foodID *uint
		if record.FoodName != "" {
			var food models.ReferenceFood
			err := tx.Where("name = ?", record.FoodName).First(&food).Error
			switch {
			case err == nil:
				food.CO2ePerKg = record.CO2ePerKg
				food.CO2ePer100g = record.CO2ePer100g
				if err := tx.Save(&food).Error; err != nil {
					return fmt.Errorf("update reference food %q: %w", record.FoodName, err)
				}
			case errors.Is(err, gorm.ErrRecordNotFound):
				food = models.ReferenceFood{
					Name:        record.FoodName,
					CO2ePerKg:   record.CO2ePerKg,
					CO2ePer100g: record.CO2ePer100g,
				}
				if err := tx.Create(&food).Error; err != nil {
					return fmt.Errorf("create reference food %q: %w", record.FoodName, err)
				}
			default:
				return fmt.Errorf("find reference food %q: %w", record.FoodName, err)
			}
			foodID = &food.ID
		}

		var mapping models.IngredientMapping
		err := tx.Where("namespace = ? AND ingredient_core = ? AND active = ?", namespace, record.Core, true).
			First(&mapping).Error
		switch {
		case err == nil:
			mapping.ReferenceFoodID = foodID
			mapping.WeightState = record.WeightState
			mapping.YieldCookedPerRaw = record.YieldCookedPerRaw
			mapping.CO2OverridePerKg = record.CO2OverridePerKg
			if err := tx.Save(&mapping).Error; err != nil {
				return fmt.Errorf("update mapping: %w", err)
			}
		case errors.Is(err, gorm.ErrRecordNotFound):
			mapping = models.IngredientMapping{
				Namespace:         namespace,
				IngredientCore:    record.Core,
				ReferenceFoodID:   foodID,
				WeightState:       record.WeightState,
				YieldCookedPerRaw: record.YieldCookedPerRaw,
				CO2OverridePerKg:  record.CO2OverridePerKg,
				Active:            true,
			}
			if err := tx.Create(&mapping).Error; err != nil {
				return fmt.Errorf("create mapping: %w", err)
			}
			created = true
		default:
			return fmt.Errorf("find mapping: %w", err)
		}
		return nil
	})
	return created, err
}
