package footprint

import (
	"errors"
	"math"
	"testing"
)

func sharePtr(v float64) *float64 {
	return &v
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9
}

func TestNormalizeSharesRescalesCloseIngredientSums(t *testing.T) {
	t.Parallel()

	// 48 + 48 = 96, inside the 5% close band around 100.
	shares, err := normalizeShares([]*float64{sharePtr(48), sharePtr(48)}, 100, IngredientShares, DefaultTolerances())
	if err != nil {
		t.Fatalf("normalizeShares returned error: %v", err)
	}
	if !shares.Rescaled {
		t.Fatal("expected shares to be rescaled")
	}
	for i, fraction := range shares.Fractions {
		if !almostEqual(fraction, 0.5) {
			t.Fatalf("expected fraction %d to be 0.5, got %f", i, fraction)
		}
	}
	if !almostEqual(shares.Covered, 1) {
		t.Fatalf("expected full coverage after rescale, got %f", shares.Covered)
	}
}

func TestNormalizeSharesLeavesDistantSumsAlone(t *testing.T) {
	t.Parallel()

	// 30 + 30 + 30 = 90, outside the close band: genuinely incomplete
	// data must not be inflated to look complete.
	shares, err := normalizeShares([]*float64{sharePtr(30), sharePtr(30), sharePtr(30)}, 100, IngredientShares, DefaultTolerances())
	if err != nil {
		t.Fatalf("normalizeShares returned error: %v", err)
	}
	if shares.Rescaled {
		t.Fatal("expected no rescale for sum far from target")
	}
	for i, fraction := range shares.Fractions {
		if !almostEqual(fraction, 0.3) {
			t.Fatalf("expected fraction %d to stay 0.3, got %f", i, fraction)
		}
	}
	if !almostEqual(shares.Covered, 0.9) {
		t.Fatalf("expected coverage 0.9, got %f", shares.Covered)
	}
}

func TestNormalizeSharesRejectsHardOverflow(t *testing.T) {
	t.Parallel()

	_, err := normalizeShares([]*float64{sharePtr(60), sharePtr(60)}, 100, IngredientShares, DefaultTolerances())
	if err == nil {
		t.Fatal("expected hard overflow error")
	}
	if !errors.Is(err, errShareOverflow) {
		t.Fatalf("expected errShareOverflow, got %v", err)
	}
}

func TestNormalizeSharesEqualSplitForMissingPlateShares(t *testing.T) {
	t.Parallel()

	shares, err := normalizeShares([]*float64{nil, nil, nil, nil}, 1.0, PlateShares, DefaultTolerances())
	if err != nil {
		t.Fatalf("normalizeShares returned error: %v", err)
	}
	for i, fraction := range shares.Fractions {
		if !almostEqual(fraction, 0.25) {
			t.Fatalf("expected equal split 0.25 at %d, got %f", i, fraction)
		}
	}
	if !almostEqual(shares.Covered, 1) {
		t.Fatalf("expected full coverage, got %f", shares.Covered)
	}
}

func TestNormalizeSharesSplitsPlateRemainderAcrossMissing(t *testing.T) {
	t.Parallel()

	shares, err := normalizeShares([]*float64{sharePtr(0.6), nil, nil}, 1.0, PlateShares, DefaultTolerances())
	if err != nil {
		t.Fatalf("normalizeShares returned error: %v", err)
	}
	want := []float64{0.6, 0.2, 0.2}
	for i, fraction := range shares.Fractions {
		if !almostEqual(fraction, want[i]) {
			t.Fatalf("expected fraction %d to be %f, got %f", i, want[i], fraction)
		}
	}
	if !almostEqual(shares.Covered, 1) {
		t.Fatalf("expected full coverage, got %f", shares.Covered)
	}
}

func TestNormalizeSharesIngredientMissingStaysUnsized(t *testing.T) {
	t.Parallel()

	// Unlike the dish level, a missing ingredient share never borrows
	// mass; the gap stays visible as uncovered mass.
	shares, err := normalizeShares([]*float64{sharePtr(70), nil}, 100, IngredientShares, DefaultTolerances())
	if err != nil {
		t.Fatalf("normalizeShares returned error: %v", err)
	}
	if !shares.Known[0] || shares.Known[1] {
		t.Fatalf("expected known flags [true false], got %v", shares.Known)
	}
	if !almostEqual(shares.Fractions[0], 0.7) || !almostEqual(shares.Fractions[1], 0) {
		t.Fatalf("unexpected fractions %v", shares.Fractions)
	}
	if !almostEqual(shares.Covered, 0.7) {
		t.Fatalf("expected coverage 0.7, got %f", shares.Covered)
	}
}

func TestNormalizeSharesScalesSlightOvershootDown(t *testing.T) {
	t.Parallel()

	// 0.7 + 0.302 = 1.002, inside the 0.5% hard band: scaled down so
	// allocated mass can never exceed the donated mass.
	shares, err := normalizeShares([]*float64{sharePtr(0.7), sharePtr(0.302)}, 1.0, PlateShares, DefaultTolerances())
	if err != nil {
		t.Fatalf("normalizeShares returned error: %v", err)
	}
	sum := shares.Fractions[0] + shares.Fractions[1]
	if !almostEqual(sum, 1) {
		t.Fatalf("expected fractions to sum to 1, got %f", sum)
	}
	if !shares.Rescaled {
		t.Fatal("expected rescale for slight overshoot")
	}
}

func TestNormalizeSharesClampsNegativeValues(t *testing.T) {
	t.Parallel()

	shares, err := normalizeShares([]*float64{sharePtr(-10), sharePtr(100)}, 100, IngredientShares, DefaultTolerances())
	if err != nil {
		t.Fatalf("normalizeShares returned error: %v", err)
	}
	if !almostEqual(shares.Fractions[0], 0) {
		t.Fatalf("expected negative share clamped to 0, got %f", shares.Fractions[0])
	}
	if !almostEqual(shares.Covered, 1) {
		t.Fatalf("expected coverage 1, got %f", shares.Covered)
	}
}

func TestNormalizeSharesEmptyGroup(t *testing.T) {
	t.Parallel()

	shares, err := normalizeShares(nil, 100, IngredientShares, DefaultTolerances())
	if err != nil {
		t.Fatalf("normalizeShares returned error: %v", err)
	}
	if len(shares.Fractions) != 0 || shares.Covered != 0 {
		t.Fatalf("expected empty outcome, got %+v", shares)
	}
}
