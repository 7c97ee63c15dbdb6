package footprint

import (
	"time"
)

// LeafStatus classifies one mass fragment of a donation. Every fragment
// receives exactly one status.
type LeafStatus string

const (
	StatusMapped   LeafStatus = "mapped"
	StatusUnmapped LeafStatus = "unmapped"
	StatusIgnored  LeafStatus = "ignored"
)

// Reasons attached to unmapped and ignored leaves.
const (
	ReasonExcludedSubstance = "excluded substance"
	ReasonBelowThreshold    = "below significance threshold"
	ReasonMappingIgnore     = "mapping marks ignore"
	ReasonNoMapping         = "no mapping"
	ReasonNoFactor          = "no factor"
	ReasonRawYieldMissing   = "raw conversion unavailable"
	ReasonShareUnknown      = "share not specified"
	ReasonUnallocated       = "unallocated remainder"
	ReasonNoComponents      = "dish has no components"
)

// Leaf is one classified mass fragment with full provenance.
type Leaf struct {
	ComponentID   uint       `json:"component_id,omitempty"`
	ComponentName string     `json:"component_name,omitempty"`
	IngredientID  uint       `json:"ingredient_id,omitempty"`
	Core          string     `json:"core,omitempty"`
	Status        LeafStatus `json:"status"`
	Reason        string     `json:"reason,omitempty"`

	// Share is the fraction of the enclosing mass this leaf represents:
	// of the component for ingredient leaves, of the donation for
	// dish-level leaves.
	Share  float64 `json:"share"`
	MassKg float64 `json:"mass_kg"`

	// FactorMassKg is the mass the factor was applied to; it differs
	// from MassKg only when a raw conversion took place.
	FactorMassKg float64      `json:"factor_mass_kg,omitempty"`
	FactorPerKg  float64      `json:"factor_per_kg,omitempty"`
	FactorSource FactorSource `json:"factor_source,omitempty"`
	CO2eKg       float64      `json:"co2e_kg"`
}

// Result aggregates a donation's classified leaves. MappedKg, UnmappedKg
// and IgnoredKg always sum to DonatedKg within floating tolerance.
type Result struct {
	DonationID uint   `json:"donation_id"`
	Namespace  string `json:"namespace"`

	DonatedKg   float64 `json:"donated_kg"`
	MappedKg    float64 `json:"mapped_kg"`
	UnmappedKg  float64 `json:"unmapped_kg"`
	IgnoredKg   float64 `json:"ignored_kg"`
	TotalCO2eKg float64 `json:"total_co2e_kg"`
	CO2ePerKg   float64 `json:"co2e_per_kg"`

	// Leaves is populated only when the computation was requested with a
	// trace; totals are identical either way.
	Leaves []Leaf `json:"leaves,omitempty"`

	ComputedAt time.Time `json:"computed_at"`
}

func (r *Result) add(leaf Leaf, trace bool) {
	switch leaf.Status {
	case StatusMapped:
		r.MappedKg += leaf.MassKg
		r.TotalCO2eKg += leaf.CO2eKg
	case StatusIgnored:
		r.IgnoredKg += leaf.MassKg
	default:
		r.UnmappedKg += leaf.MassKg
	}
	if trace {
		r.Leaves = append(r.Leaves, leaf)
	}
}
