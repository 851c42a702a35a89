package pricing

import (
	"fmt"
	"maps"
	"slices"
)

const (
	DefaultMaterialName = "MDF 15mm"
	DefaultTierName     = "standard"
	DefaultPriceSource  = "Léo Madeiras - 30/06/2025"
)

// Material is the price entry for one sheet material.
type Material struct {
	Name          string  `json:"name"`
	Description   string  `json:"description,omitempty"`
	PricePerM2    float64 `json:"price_per_m2"`
	WasteFraction float64 `json:"waste_fraction"`
}

// HardwareTier maps a hardware kind to its unit price.
type HardwareTier map[string]float64

// CuttingPolicy holds the machining rates used by the cutting cost formula.
type CuttingPolicy struct {
	RatePerMeter  float64  `json:"rate_per_meter"`
	HoleFee       float64  `json:"hole_fee"`
	MinimumFee    float64  `json:"minimum_fee"`
	DrillingKinds []string `json:"drilling_kinds"`
}

// Drills reports whether a hardware kind needs a drilled hole.
func (p CuttingPolicy) Drills(kind string) bool {
	return slices.Contains(p.DrillingKinds, kind)
}

// Catalog is the read-only reference data every estimate is priced against.
type Catalog struct {
	Materials         map[string]Material     `json:"materials"`
	HardwareTiers     map[string]HardwareTier `json:"hardware_tiers"`
	LaborRates        map[Complexity]float64  `json:"labor_rates"`
	Cutting           CuttingPolicy           `json:"cutting"`
	DefaultMaterial   string                  `json:"default_material"`
	DefaultTier       string                  `json:"default_tier"`
	DefaultComplexity Complexity              `json:"default_complexity"`
	Source            string                  `json:"source,omitempty"`
}

// DefaultCatalog returns the reference price list shipped with the application.
func DefaultCatalog() *Catalog {
	return &Catalog{
		Materials: map[string]Material{
			"MDF 15mm":        {Name: "MDF 15mm", Description: "MDF Cru 15mm", PricePerM2: 69.15, WasteFraction: 0.15},
			"MDF 18mm":        {Name: "MDF 18mm", Description: "MDF Cru 18mm", PricePerM2: 82.50, WasteFraction: 0.15},
			"Compensado 15mm": {Name: "Compensado 15mm", Description: "Compensado Naval 15mm", PricePerM2: 64.00, WasteFraction: 0.12},
			"Melamina 15mm":   {Name: "Melamina 15mm", Description: "Melamina Branca 15mm", PricePerM2: 89.50, WasteFraction: 0.10},
		},
		HardwareTiers: map[string]HardwareTier{
			"standard": {"hinge": 12.50, "slide": 25.00, "handle": 8.00, "lock": 15.00, "screw": 0.50},
			"premium":  {"hinge": 28.00, "slide": 65.00, "handle": 25.00, "lock": 45.00, "screw": 1.20},
		},
		LaborRates: map[Complexity]float64{
			ComplexitySimple:  0.20,
			ComplexityMedium:  0.35,
			ComplexityComplex: 0.50,
			ComplexityPremium: 0.70,
		},
		Cutting: CuttingPolicy{
			RatePerMeter:  2.50,
			HoleFee:       1.50,
			MinimumFee:    15.00,
			DrillingKinds: []string{"hinge", "lock"},
		},
		DefaultMaterial:   DefaultMaterialName,
		DefaultTier:       DefaultTierName,
		DefaultComplexity: ComplexityMedium,
		Source:            DefaultPriceSource,
	}
}

// Clone returns a deep copy so callers can hand out independent snapshots.
func (c *Catalog) Clone() *Catalog {
	out := *c
	out.Materials = maps.Clone(c.Materials)
	out.LaborRates = maps.Clone(c.LaborRates)
	out.HardwareTiers = make(map[string]HardwareTier, len(c.HardwareTiers))
	for name, tier := range c.HardwareTiers {
		out.HardwareTiers[name] = maps.Clone(tier)
	}
	out.Cutting.DrillingKinds = slices.Clone(c.Cutting.DrillingKinds)
	return &out
}

// MaterialNames returns the material keys in sorted order.
func (c *Catalog) MaterialNames() []string {
	return slices.Sorted(maps.Keys(c.Materials))
}

// TierNames returns the hardware tier keys in sorted order.
func (c *Catalog) TierNames() []string {
	return slices.Sorted(maps.Keys(c.HardwareTiers))
}

// Validate checks that the catalog can resolve its own fallbacks.
func (c *Catalog) Validate() error {
	if c == nil {
		return fmt.Errorf("%w: catalog is nil", ErrInvalidCatalog)
	}
	if _, ok := c.Materials[c.DefaultMaterial]; !ok {
		return fmt.Errorf("%w: default material %q not in price table", ErrInvalidCatalog, c.DefaultMaterial)
	}
	if _, ok := c.HardwareTiers[c.DefaultTier]; !ok {
		return fmt.Errorf("%w: default hardware tier %q not in price table", ErrInvalidCatalog, c.DefaultTier)
	}
	if _, ok := c.LaborRates[c.DefaultComplexity]; !ok {
		return fmt.Errorf("%w: default complexity %q has no labor rate", ErrInvalidCatalog, c.DefaultComplexity)
	}
	for name, m := range c.Materials {
		if m.WasteFraction < 0 || m.WasteFraction >= 1 {
			return fmt.Errorf("%w: material %q waste fraction %v outside [0,1)", ErrInvalidCatalog, name, m.WasteFraction)
		}
		if checkNonNegative(m.PricePerM2) != "" || checkNonNegative(m.WasteFraction) != "" {
			return fmt.Errorf("%w: material %q price %v waste %v", ErrInvalidCatalog, name, m.PricePerM2, m.WasteFraction)
		}
	}
	for tier, prices := range c.HardwareTiers {
		for kind, price := range prices {
			if reason := checkNonNegative(price); reason != "" {
				return fmt.Errorf("%w: hardware %s/%s price %s", ErrInvalidCatalog, tier, kind, reason)
			}
		}
	}
	for level, rate := range c.LaborRates {
		if reason := checkNonNegative(rate); reason != "" {
			return fmt.Errorf("%w: labor rate %q %s", ErrInvalidCatalog, level, reason)
		}
	}
	for field, v := range map[string]float64{
		"rate per meter": c.Cutting.RatePerMeter,
		"hole fee":       c.Cutting.HoleFee,
		"minimum fee":    c.Cutting.MinimumFee,
	} {
		if reason := checkNonNegative(v); reason != "" {
			return fmt.Errorf("%w: cutting %s %s", ErrInvalidCatalog, field, reason)
		}
	}
	return nil
}

func (c *Catalog) material(name string) (Material, *Substitution) {
	if m, ok := c.Materials[name]; ok {
		return m, nil
	}
	return c.Materials[c.DefaultMaterial], &Substitution{
		Kind:      SubstitutionMaterial,
		Requested: name,
		Applied:   c.DefaultMaterial,
	}
}

func (c *Catalog) tier(name string) (HardwareTier, *Substitution) {
	if t, ok := c.HardwareTiers[name]; ok {
		return t, nil
	}
	return c.HardwareTiers[c.DefaultTier], &Substitution{
		Kind:      SubstitutionHardwareTier,
		Requested: name,
		Applied:   c.DefaultTier,
	}
}

func (c *Catalog) laborRate(level Complexity) (float64, *Substitution) {
	if r, ok := c.LaborRates[level]; ok {
		return r, nil
	}
	return c.LaborRates[c.DefaultComplexity], &Substitution{
		Kind:      SubstitutionComplexity,
		Requested: string(level),
		Applied:   string(c.DefaultComplexity),
	}
}
