package footprint

import (
	"context"

	"foodprint/models"
)

// leafInput carries one sized mass fragment into classification. Share is
// the fraction of the enclosing component this fragment represents.
type leafInput struct {
	componentID   uint
	componentName string
	ingredientID  uint
	core          string
	share         float64
	massKg        float64
	isWater       bool
	isSalt        bool

	// fallback marks the component-identity leaf used when a component
	// has no structured breakdown; the significance threshold does not
	// apply to it.
	fallback bool
}

// classifyLeaf assigns one fragment its status and, when mapped, its CO2e
// contribution. Rules apply in a fixed order: excluded substances, the
// significance threshold, mapping lookup, factor resolution, weight-state
// conversion. Resolution gaps degrade the leaf to unmapped and never
// abort the computation; store failures are real errors.
func (e *Engine) classifyLeaf(ctx context.Context, namespace string, in leafInput) (Leaf, error) {
	leaf := Leaf{
		ComponentID:   in.componentID,
		ComponentName: in.componentName,
		IngredientID:  in.ingredientID,
		Core:          in.core,
		Share:         in.share,
		MassKg:        in.massKg,
	}

	if in.isWater || in.isSalt {
		leaf.Status = StatusIgnored
		leaf.Reason = ReasonExcludedSubstance
		return leaf, nil
	}

	if !in.fallback && in.share < e.tol.Significance {
		leaf.Status = StatusIgnored
		leaf.Reason = ReasonBelowThreshold
		return leaf, nil
	}

	mapping, err := e.store.ActiveMapping(ctx, namespace, in.core)
	if err != nil {
		return Leaf{}, err
	}
	if mapping == nil {
		leaf.Status = StatusUnmapped
		leaf.Reason = ReasonNoMapping
		return leaf, nil
	}

	if mapping.WeightState == models.WeightStateIgnore {
		leaf.Status = StatusIgnored
		leaf.Reason = ReasonMappingIgnore
		return leaf, nil
	}

	ref := mapping.ReferenceFood
	if ref == nil && mapping.ReferenceFoodID != nil {
		ref, err = e.store.ReferenceFood(ctx, *mapping.ReferenceFoodID)
		if err != nil {
			return Leaf{}, err
		}
	}

	factor, source, ok := resolveFactor(mapping, ref)
	if !ok {
		leaf.Status = StatusUnmapped
		leaf.Reason = ReasonNoFactor
		return leaf, nil
	}

	factorMass, ok := convertMass(in.massKg, mapping.WeightState, mapping.YieldCookedPerRaw)
	if !ok {
		// The mapping exists but cannot be applied; reporting the mass
		// mapped with a wrong basis would be silently wrong.
		leaf.Status = StatusUnmapped
		leaf.Reason = ReasonRawYieldMissing
		return leaf, nil
	}

	leaf.Status = StatusMapped
	leaf.FactorMassKg = factorMass
	leaf.FactorPerKg = factor
	leaf.FactorSource = source
	leaf.CO2eKg = factorMass * factor
	return leaf, nil
}
