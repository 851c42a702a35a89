package pricing

import "time"

// Component is one physical piece of cabinetry to be priced.
type Component struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Category          string   `json:"category"`
	WidthCM           float64  `json:"width_cm"`
	HeightCM          float64  `json:"height_cm"`
	DepthCM           float64  `json:"depth_cm"`
	AreaM2            float64  `json:"area_m2"`
	SuggestedMaterial string   `json:"suggested_material,omitempty"`
	HardwareItems     []string `json:"hardware_items"`
}

// Complexity is the coarse labor-intensity class of a project.
type Complexity string

const (
	ComplexitySimple  Complexity = "simple"
	ComplexityMedium  Complexity = "medium"
	ComplexityComplex Complexity = "complex"
	ComplexityPremium Complexity = "premium"
)

// Complexities lists the supported complexity levels from lightest to heaviest.
func Complexities() []Complexity {
	return []Complexity{ComplexitySimple, ComplexityMedium, ComplexityComplex, ComplexityPremium}
}

// Config is the per-estimate pricing configuration chosen by the user.
type Config struct {
	Material        string     `json:"material"`
	HardwareTier    string     `json:"hardware_tier"`
	Complexity      Complexity `json:"complexity"`
	ProfitMarginPct float64    `json:"profit_margin_pct"`
}

// HardwareLine is the grouped cost of one hardware kind within a component.
type HardwareLine struct {
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
	LineTotal float64 `json:"line_total"`
}

// ComponentEstimate is the itemized cost of a single component.
type ComponentEstimate struct {
	ID                string                  `json:"id"`
	Name              string                  `json:"name"`
	Category          string                  `json:"category"`
	Material          string                  `json:"material"`
	NominalAreaM2     float64                 `json:"nominal_area_m2"`
	AreaWithWasteM2   float64                 `json:"area_with_waste_m2"`
	MaterialCost      float64                 `json:"material_cost"`
	HardwareCost      float64                 `json:"hardware_cost"`
	CuttingCost       float64                 `json:"cutting_cost"`
	TotalCost         float64                 `json:"total_cost"`
	HardwareBreakdown map[string]HardwareLine `json:"hardware_breakdown"`
	CostPerM2         float64                 `json:"cost_per_m2"`
}

// Quote is the complete priced output for one project.
type Quote struct {
	ComponentEstimates []ComponentEstimate `json:"component_estimates"`
	ComponentCount     int                 `json:"component_count"`
	TotalAreaM2        float64             `json:"total_area_m2"`
	TotalMaterialCost  float64             `json:"total_material_cost"`
	TotalHardwareCost  float64             `json:"total_hardware_cost"`
	TotalCuttingCost   float64             `json:"total_cutting_cost"`
	Subtotal           float64             `json:"subtotal"`
	LaborRate          float64             `json:"labor_rate"`
	LaborCost          float64             `json:"labor_cost"`
	MarginAmount       float64             `json:"margin_amount"`
	GrandTotal         float64             `json:"grand_total"`
	PricePerM2         float64             `json:"price_per_m2"`
	Config             Config              `json:"config"`
	PriceSource        string              `json:"price_source,omitempty"`
	Substitutions      []Substitution      `json:"substitutions"`
	GeneratedAt        time.Time           `json:"generated_at"`
}

// Empty reports whether the quote priced no components.
func (q Quote) Empty() bool {
	return len(q.ComponentEstimates) == 0
}
