// Package pricing computes cabinetry quotes from component lists and a price catalog.
//
// Every function here is a pure transform over its arguments: catalogs are read, never
// written, so one catalog value may be shared by concurrent estimates.
package pricing

import (
	"fmt"
	"math"
	"time"
)

var now = func() time.Time { return time.Now().UTC() }

// EstimateComponent prices a single component against the catalog.
// Unknown material, tier or hardware kinds fall back to catalog defaults and are
// reported in the returned substitutions.
func EstimateComponent(c Component, cfg Config, cat *Catalog) (ComponentEstimate, []Substitution, error) {
	if err := cat.Validate(); err != nil {
		return ComponentEstimate{}, nil, err
	}
	if err := ValidateComponents([]Component{c}); err != nil {
		return ComponentEstimate{}, nil, err
	}

	var subs []Substitution
	material, sub := cat.material(cfg.Material)
	if sub != nil {
		subs = append(subs, *sub)
	}
	tier, sub := cat.tier(cfg.HardwareTier)
	if sub != nil {
		subs = append(subs, *sub)
	}

	est, hwSubs := estimate(c, material, tier, cat.Cutting)
	subs = append(subs, hwSubs...)
	if err := checkEstimate(est); err != nil {
		return ComponentEstimate{}, nil, err
	}
	return est, subs, nil
}

// BuildQuote prices every component and aggregates the project totals.
// An empty component list yields an empty quote rather than an error. Any failure
// aborts the whole quote; no partial result is returned.
func BuildQuote(components []Component, cfg Config, cat *Catalog) (Quote, error) {
	if err := cat.Validate(); err != nil {
		return Quote{}, err
	}
	if err := validateConfig(cfg); err != nil {
		return Quote{}, err
	}
	if err := ValidateComponents(components); err != nil {
		return Quote{}, err
	}

	q := Quote{
		ComponentEstimates: make([]ComponentEstimate, 0, len(components)),
		Config:             cfg,
		PriceSource:        cat.Source,
		Substitutions:      []Substitution{},
		GeneratedAt:        now(),
	}
	if len(components) == 0 {
		return q, nil
	}

	material, sub := cat.material(cfg.Material)
	if sub != nil {
		q.Substitutions = append(q.Substitutions, *sub)
	}
	tier, sub := cat.tier(cfg.HardwareTier)
	if sub != nil {
		q.Substitutions = append(q.Substitutions, *sub)
	}
	laborRate, sub := cat.laborRate(cfg.Complexity)
	if sub != nil {
		q.Substitutions = append(q.Substitutions, *sub)
	}

	for _, c := range components {
		est, hwSubs := estimate(c, material, tier, cat.Cutting)
		if err := checkEstimate(est); err != nil {
			return Quote{}, err
		}
		q.ComponentEstimates = append(q.ComponentEstimates, est)
		q.Substitutions = append(q.Substitutions, hwSubs...)

		q.TotalAreaM2 += c.AreaM2
		q.TotalMaterialCost += est.MaterialCost
		q.TotalHardwareCost += est.HardwareCost
		q.TotalCuttingCost += est.CuttingCost
	}

	q.ComponentCount = len(q.ComponentEstimates)
	q.Subtotal = q.TotalMaterialCost + q.TotalHardwareCost + q.TotalCuttingCost
	q.LaborRate = laborRate
	q.LaborCost = q.Subtotal * laborRate
	q.MarginAmount = q.Subtotal * (cfg.ProfitMarginPct / 100)
	q.GrandTotal = q.Subtotal + q.LaborCost + q.MarginAmount
	q.PricePerM2 = ratio(q.GrandTotal, q.TotalAreaM2)

	if !finite(q.GrandTotal) || !finite(q.PricePerM2) {
		return Quote{}, fmt.Errorf("%w: grand total is %v", ErrComputation, q.GrandTotal)
	}
	return q, nil
}

func estimate(c Component, material Material, tier HardwareTier, policy CuttingPolicy) (ComponentEstimate, []Substitution) {
	est := ComponentEstimate{
		ID:                c.ID,
		Name:              c.Name,
		Category:          c.Category,
		Material:          material.Name,
		NominalAreaM2:     c.AreaM2,
		HardwareBreakdown: make(map[string]HardwareLine),
	}

	est.AreaWithWasteM2 = c.AreaM2 * (1 + material.WasteFraction)
	est.MaterialCost = est.AreaWithWasteM2 * material.PricePerM2

	var (
		subs  []Substitution
		kinds []string
	)
	for _, kind := range c.HardwareItems {
		line, seen := est.HardwareBreakdown[kind]
		if !seen {
			kinds = append(kinds, kind)
			price, known := tier[kind]
			if !known {
				subs = append(subs, Substitution{
					Kind:        SubstitutionHardwareKind,
					Requested:   kind,
					Applied:     "0",
					ComponentID: c.ID,
				})
			}
			line.UnitPrice = price
		}
		line.Quantity++
		line.LineTotal = float64(line.Quantity) * line.UnitPrice
		est.HardwareBreakdown[kind] = line
	}
	// Sum in first-seen order; map iteration order is random.
	for _, kind := range kinds {
		est.HardwareCost += est.HardwareBreakdown[kind].LineTotal
	}

	est.CuttingCost = cuttingCost(c, policy)
	est.TotalCost = est.MaterialCost + est.HardwareCost + est.CuttingCost
	est.CostPerM2 = ratio(est.TotalCost, c.AreaM2)
	return est, subs
}

// cuttingCost approximates the linear cut length from the bounding box, adds a fee per
// drilled hole and applies the per-piece minimum.
func cuttingCost(c Component, policy CuttingPolicy) float64 {
	w := c.WidthCM / 100
	h := c.HeightCM / 100
	d := c.DepthCM / 100
	perimeter := 2*(w+d) + 2*(h+d)

	holes := 0
	for _, kind := range c.HardwareItems {
		if policy.Drills(kind) {
			holes++
		}
	}

	computed := perimeter*policy.RatePerMeter + float64(holes)*policy.HoleFee
	return math.Max(computed, policy.MinimumFee)
}

func checkEstimate(est ComponentEstimate) error {
	if !finite(est.TotalCost) || !finite(est.CostPerM2) {
		return fmt.Errorf("%w: component %q total is %v", ErrComputation, est.ID, est.TotalCost)
	}
	return nil
}

// ratio divides and defines a zero denominator as a zero rate.
func ratio(num, den float64) float64 {
	if den > 0 {
		return num / den
	}
	return 0
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
