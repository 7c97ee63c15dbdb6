package footprint

import (
	"fmt"
)

// floatTolerance bounds the rounding error accepted when comparing share
// sums and masses.
const floatTolerance = 1e-9

// SharePolicy selects how missing sibling shares are treated while
// normalizing one group of proportions.
type SharePolicy int

const (
	// PlateShares is the dish-level policy: entirely missing shares fall
	// back to an equal split, and a positive remainder is divided across
	// the missing siblings.
	PlateShares SharePolicy = iota

	// IngredientShares is the component-level policy: a missing share
	// stays unsized and the uncovered portion of the mass is surfaced as
	// an explicit unallocated remainder, never borrowed or invented.
	IngredientShares
)

// Tolerances holds the share-sum policy knobs.
type Tolerances struct {
	// Close is the relative band around the target within which a fully
	// declared group is rescaled to sum exactly to the target.
	Close float64

	// HardOver is the relative excess over the target beyond which the
	// group is rejected as corrupted data.
	HardOver float64

	// Significance is the minimum fraction of a component's mass an
	// ingredient must hold to be worth mapping.
	Significance float64
}

// DefaultTolerances returns the tolerances the behavioral contract is
// written against: 5% close band, 0.5% hard overflow, 10% significance.
func DefaultTolerances() Tolerances {
	return Tolerances{Close: 0.05, HardOver: 0.005, Significance: 0.10}
}

// normalizedShares is the outcome of normalizing one sibling group.
// Fractions are expressed against the whole (0..1), regardless of whether
// the inputs were plate fractions or percentages.
type normalizedShares struct {
	Fractions []float64
	Known     []bool
	// Covered is the fraction of the whole accounted for by sized
	// entries; anything below 1 is the group's unallocated remainder.
	Covered  float64
	Rescaled bool
}

// errShareOverflow is wrapped into the data-integrity error raised when a
// sibling group's shares overflow the target beyond the hard tolerance.
var errShareOverflow = fmt.Errorf("shares exceed target beyond tolerance")

// normalizeShares resolves a group of sibling proportions against a
// target sum (1.0 for plate shares, 100 for ingredient shares).
//
// Individual values are clamped into [0, target] first; the group is then
// rejected when the clamped sum still overflows target*(1+HardOver).
// Sums inside (target, target*(1+HardOver)] are scaled down to exactly
// the target so allocated mass can never exceed the donated mass.
func normalizeShares(values []*float64, target float64, policy SharePolicy, tol Tolerances) (normalizedShares, error) {
	n := len(values)
	out := normalizedShares{
		Fractions: make([]float64, n),
		Known:     make([]bool, n),
	}
	if n == 0 {
		return out, nil
	}

	knownSum := 0.0
	missing := 0
	for i, v := range values {
		if v == nil {
			missing++
			continue
		}
		share := *v
		if share < 0 {
			share = 0
		}
		if share > target {
			share = target
		}
		out.Fractions[i] = share / target
		out.Known[i] = true
		knownSum += share
	}

	if knownSum > target*(1+tol.HardOver)+floatTolerance {
		return normalizedShares{}, fmt.Errorf("%w: sum %.4f against target %.4f", errShareOverflow, knownSum, target)
	}

	covered := knownSum / target

	if policy == PlateShares {
		if knownSum <= 0 {
			// Nothing declared: optimistic equal split across siblings.
			for i := range out.Fractions {
				out.Fractions[i] = 1.0 / float64(n)
				out.Known[i] = true
			}
			out.Covered = 1
			return out, nil
		}
		if missing > 0 {
			remainder := 1 - covered
			if remainder > 0 {
				// Divide the positive remainder across the unsized
				// siblings so the dish is fully covered.
				slice := remainder / float64(missing)
				for i, known := range out.Known {
					if !known {
						out.Fractions[i] = slice
						out.Known[i] = true
					}
				}
				out.Covered = 1
				return out, nil
			}
			// Declared shares already meet or slightly exceed the dish;
			// unsized siblings receive nothing and the excess is scaled
			// away below.
			for i := range out.Known {
				out.Known[i] = true
			}
		}
	}

	// Scale fully sized groups that land close to the target, and any
	// group that slightly overshoots it, onto the target exactly.
	closeToTarget := covered >= 1-tol.Close-floatTolerance
	fullyKnown := missing == 0 || policy == PlateShares
	if covered > 1+floatTolerance || (closeToTarget && fullyKnown && covered < 1-floatTolerance) {
		scale := 1 / covered
		for i := range out.Fractions {
			out.Fractions[i] *= scale
		}
		out.Covered = 1
		out.Rescaled = true
		return out, nil
	}

	out.Covered = covered
	return out, nil
}
