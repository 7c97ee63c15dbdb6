package footprint

import (
	"math"

	"foodprint/models"
)

// FactorSource records where a resolved emission factor came from.
type FactorSource string

const (
	FactorSourceOverride FactorSource = "mapping override"
	FactorSourcePerKg    FactorSource = "reference per kg"
	FactorSourcePer100g  FactorSource = "reference per 100g"
	FactorSourceNone     FactorSource = ""
)

// resolveFactor returns a single CO2e factor per kg for a mapping and its
// reference food, following a fixed priority: the mapping's direct
// override, then the reference per-kg factor, then the per-100g factor
// converted to per-kg. The boolean is false when no usable factor exists;
// callers must treat that as unmapped, never as zero emissions.
func resolveFactor(mapping *models.IngredientMapping, ref *models.ReferenceFood) (float64, FactorSource, bool) {
	if mapping != nil && usableFactor(mapping.CO2OverridePerKg) {
		return *mapping.CO2OverridePerKg, FactorSourceOverride, true
	}
	if ref != nil {
		if usableFactor(ref.CO2ePerKg) {
			return *ref.CO2ePerKg, FactorSourcePerKg, true
		}
		if usableFactor(ref.CO2ePer100g) {
			return *ref.CO2ePer100g * 0.01, FactorSourcePer100g, true
		}
	}
	return 0, FactorSourceNone, false
}

func usableFactor(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// convertMass returns the mass the emission factor applies to. Cooked
// factors apply to the cooked mass directly; raw factors apply to the
// raw-equivalent mass derived through the yield ratio. The boolean is
// false when a raw conversion is required but the yield is missing or
// non-positive, which downgrades the leaf to unmapped.
func convertMass(cookedKg float64, weightState string, yield *float64) (float64, bool) {
	switch weightState {
	case models.WeightStateRaw:
		if yield == nil || *yield <= 0 || math.IsNaN(*yield) || math.IsInf(*yield, 0) {
			return 0, false
		}
		return cookedKg / *yield, true
	default:
		// Unrecognized states behave as cooked; the ignore state never
		// reaches conversion.
		return cookedKg, true
	}
}
