package footprint

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	applog "foodprint/internal/log"
	"foodprint/models"
)

// Store supplies the read-only rows the engine consumes and persists the
// result cache. Lookup methods return nil without error when the row does
// not exist.
type Store interface {
	Donation(ctx context.Context, id uint) (*models.Donation, error)
	Component(ctx context.Context, id uint) (*models.DishComponent, error)
	DishComponents(ctx context.Context, dishID uint) ([]models.DishComponent, error)
	ComponentIngredients(ctx context.Context, componentID uint) ([]models.ComponentIngredient, error)
	ActiveMapping(ctx context.Context, namespace, core string) (*models.IngredientMapping, error)
	ReferenceFood(ctx context.Context, id uint) (*models.ReferenceFood, error)
	SaveResult(ctx context.Context, result *models.DonationResult) error
}

// Engine allocates donated mass down the dish → component → ingredient
// tree and resolves every fragment to an emission factor. It holds no
// mutable state between computations; donations may be computed
// concurrently without coordination.
type Engine struct {
	store Store
	tol   Tolerances
	now   func() time.Time
}

// Option adjusts engine construction.
type Option func(*Engine)

// WithTolerances overrides the default share tolerances.
func WithTolerances(tol Tolerances) Option {
	return func(e *Engine) { e.tol = tol }
}

// New builds an Engine over the given store.
func New(store Store, opts ...Option) *Engine {
	e := &Engine{
		store: store,
		tol:   DefaultTolerances(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Request identifies one computation. The mapping namespace is always
// explicit so one engine can serve several namespaces concurrently.
type Request struct {
	DonationID uint
	Namespace  string

	// Trace retains the full per-leaf breakdown on the result.
	Trace bool
}

// Compute resolves a donation's footprint and overwrites its cached
// result. A failed cache write is logged and does not invalidate the
// returned result. Recomputing with unchanged inputs yields identical
// totals.
func (e *Engine) Compute(ctx context.Context, req Request) (*Result, error) {
	donation, err := e.store.Donation(ctx, req.DonationID)
	if err != nil {
		return nil, err
	}
	if donation == nil {
		return nil, ErrDonationNotFound
	}

	if donation.WeightKg <= 0 {
		return nil, integrityErrorf(donation.ID, "donated weight %.4f kg is not positive", donation.WeightKg)
	}
	if (donation.DishID == nil) == (donation.ComponentID == nil) {
		return nil, integrityErrorf(donation.ID, "donation must target exactly one of a dish or a component")
	}

	result := &Result{
		DonationID: donation.ID,
		Namespace:  req.Namespace,
		DonatedKg:  donation.WeightKg,
		ComputedAt: e.now().UTC(),
	}

	if donation.ComponentID != nil {
		err = e.walkDirectComponent(ctx, req, donation, result)
	} else {
		err = e.walkDish(ctx, req, donation, result)
	}
	if err != nil {
		return nil, err
	}

	result.CO2ePerKg = result.TotalCO2eKg / result.DonatedKg

	cache := &models.DonationResult{
		DonationID:     donation.ID,
		Namespace:      req.Namespace,
		TotalCO2eKg:    result.TotalCO2eKg,
		TotalMassKg:    result.DonatedKg,
		UnmappedMassKg: result.UnmappedKg,
		ComputedAt:     result.ComputedAt,
	}
	if err := e.store.SaveResult(ctx, cache); err != nil {
		// The cache is an optimization, not a dependency.
		applog.Error(ctx, "failed to cache donation result", "error", err, "donationID", donation.ID)
	}

	return result, nil
}

// walkDirectComponent handles a donation weighed against one component:
// the component receives the full donated mass.
func (e *Engine) walkDirectComponent(ctx context.Context, req Request, donation *models.Donation, result *Result) error {
	component, err := e.store.Component(ctx, *donation.ComponentID)
	if err != nil {
		return err
	}
	if component == nil {
		return integrityErrorf(donation.ID, "target component %d does not exist", *donation.ComponentID)
	}
	return e.walkComponent(ctx, req, donation.ID, component, donation.WeightKg, result)
}

// walkDish divides the donated mass across the dish's components by
// normalized plate share, then classifies each component independently.
func (e *Engine) walkDish(ctx context.Context, req Request, donation *models.Donation, result *Result) error {
	components, err := e.store.DishComponents(ctx, *donation.DishID)
	if err != nil {
		return err
	}
	if len(components) == 0 {
		result.add(Leaf{
			Status: StatusUnmapped,
			Reason: ReasonNoComponents,
			Share:  1,
			MassKg: donation.WeightKg,
		}, req.Trace)
		return nil
	}

	values := make([]*float64, len(components))
	for i := range components {
		values[i] = components[i].PlateShare
	}
	shares, err := normalizeShares(values, 1.0, PlateShares, e.tol)
	if err != nil {
		if errors.Is(err, errShareOverflow) {
			return integrityErrorf(donation.ID, "dish %d plate shares: %v", *donation.DishID, err)
		}
		return err
	}

	for i := range components {
		mass := donation.WeightKg * shares.Fractions[i]
		if mass <= 0 {
			continue
		}
		if err := e.walkComponent(ctx, req, donation.ID, &components[i], mass, result); err != nil {
			return err
		}
	}

	// Plate shares that neither normalize nor cover the dish leave an
	// explicit gap at the dish level.
	if remainder := 1 - shares.Covered; remainder > floatTolerance {
		result.add(Leaf{
			Status: StatusUnmapped,
			Reason: ReasonUnallocated,
			Share:  remainder,
			MassKg: donation.WeightKg * remainder,
		}, req.Trace)
	}
	return nil
}

// walkComponent classifies one component's mass. With a structured
// breakdown the mass is divided by normalized ingredient share; without
// one the component's own name is treated as a single leaf.
func (e *Engine) walkComponent(ctx context.Context, req Request, donationID uint, component *models.DishComponent, massKg float64, result *Result) error {
	ingredients, err := e.store.ComponentIngredients(ctx, component.ID)
	if err != nil {
		return err
	}

	if len(ingredients) == 0 {
		// No breakdown is not evidence of insignificance: the whole mass
		// rides on the component's own name.
		leaf, err := e.classifyLeaf(ctx, req.Namespace, leafInput{
			componentID:   component.ID,
			componentName: component.Name,
			core:          NormalizeCore(component.Name),
			share:         1,
			massKg:        massKg,
			fallback:      true,
		})
		if err != nil {
			return err
		}
		result.add(leaf, req.Trace)
		return nil
	}

	values := make([]*float64, len(ingredients))
	for i := range ingredients {
		values[i] = ingredients[i].ShareOfComponent
	}
	shares, err := normalizeShares(values, 100, IngredientShares, e.tol)
	if err != nil {
		if errors.Is(err, errShareOverflow) {
			return integrityErrorf(donationID, "component %d ingredient shares: %v", component.ID, err)
		}
		return err
	}

	for i := range ingredients {
		ingredient := &ingredients[i]
		if !shares.Known[i] {
			// Unknown is not zero: the leaf is reported without a
			// directly computed mass and the gap shows up in the
			// component's unallocated remainder below.
			result.add(Leaf{
				ComponentID:   component.ID,
				ComponentName: component.Name,
				IngredientID:  ingredient.ID,
				Core:          ingredient.IngredientCore,
				Status:        StatusUnmapped,
				Reason:        ReasonShareUnknown,
			}, req.Trace)
			continue
		}
		leaf, err := e.classifyLeaf(ctx, req.Namespace, leafInput{
			componentID:   component.ID,
			componentName: component.Name,
			ingredientID:  ingredient.ID,
			core:          ingredient.IngredientCore,
			share:         shares.Fractions[i],
			massKg:        massKg * shares.Fractions[i],
			isWater:       ingredient.IsWater,
			isSalt:        ingredient.IsSalt,
		})
		if err != nil {
			return err
		}
		result.add(leaf, req.Trace)
	}

	if remainder := 1 - shares.Covered; remainder > floatTolerance {
		result.add(Leaf{
			ComponentID:   component.ID,
			ComponentName: component.Name,
			Status:        StatusUnmapped,
			Reason:        ReasonUnallocated,
			Share:         remainder,
			MassKg:        massKg * remainder,
		}, req.Trace)
	}
	return nil
}

// BatchOutcome reports one donation's computation inside a batch.
type BatchOutcome struct {
	DonationID uint    `json:"donation_id"`
	Result     *Result `json:"result,omitempty"`
	Err        error   `json:"-"`
}

// ComputeAll recomputes many donations concurrently. Donations are
// independent, so no coordination is needed; one donation's failure never
// affects another's outcome. limit caps the number of in-flight
// computations; values below 1 mean unbounded.
func (e *Engine) ComputeAll(ctx context.Context, donationIDs []uint, namespace string, limit int) []BatchOutcome {
	outcomes := make([]BatchOutcome, len(donationIDs))

	var group errgroup.Group
	if limit > 0 {
		group.SetLimit(limit)
	}
	for i, id := range donationIDs {
		i, id := i, id
		group.Go(func() error {
			result, err := e.Compute(ctx, Request{DonationID: id, Namespace: namespace})
			outcomes[i] = BatchOutcome{DonationID: id, Result: result, Err: err}
			return nil
		})
	}
	// Worker closures never return an error; failures land in outcomes.
	_ = group.Wait()

	return outcomes
}
