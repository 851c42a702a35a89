package pricing

// CostCategory is one slice of the cost distribution.
type CostCategory struct {
	Key     string  `json:"key"`
	Label   string  `json:"label"`
	Value   float64 `json:"value"`
	Percent float64 `json:"percent"`
}

// Distribution splits the grand total into material, hardware, cutting, labor and margin.
// Percentages are relative to the grand total and zero when the total is zero.
func Distribution(q Quote) []CostCategory {
	cats := []CostCategory{
		{Key: "material", Label: "Material", Value: q.TotalMaterialCost},
		{Key: "hardware", Label: "Acessórios", Value: q.TotalHardwareCost},
		{Key: "cutting", Label: "Corte/Usinagem", Value: q.TotalCuttingCost},
		{Key: "labor", Label: "Mão de Obra", Value: q.LaborCost},
		{Key: "margin", Label: "Margem", Value: q.MarginAmount},
	}
	for i := range cats {
		cats[i].Percent = Percent(cats[i].Value, q.GrandTotal)
	}
	return cats
}

// Percent returns part as a percentage of whole, or 0 when whole is zero.
func Percent(part, whole float64) float64 {
	if whole == 0 {
		return 0
	}
	return part / whole * 100
}

// ComponentCost is a (name, total) pair for per-component bar charts.
type ComponentCost struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	TotalCost float64 `json:"total_cost"`
}

// Ranking lists component totals in input order; consumers sort if they need to.
func Ranking(q Quote) []ComponentCost {
	out := make([]ComponentCost, 0, len(q.ComponentEstimates))
	for _, est := range q.ComponentEstimates {
		out = append(out, ComponentCost{ID: est.ID, Name: est.Name, TotalCost: est.TotalCost})
	}
	return out
}

// ScatterPoint relates a component's area to its unit price.
type ScatterPoint struct {
	Name      string  `json:"name"`
	AreaM2    float64 `json:"area_m2"`
	CostPerM2 float64 `json:"cost_per_m2"`
	TotalCost float64 `json:"total_cost"`
}

// Scatter returns the area vs unit price basis, one point per component.
func Scatter(q Quote) []ScatterPoint {
	out := make([]ScatterPoint, 0, len(q.ComponentEstimates))
	for _, est := range q.ComponentEstimates {
		out = append(out, ScatterPoint{
			Name:      est.Name,
			AreaM2:    est.NominalAreaM2,
			CostPerM2: est.CostPerM2,
			TotalCost: est.TotalCost,
		})
	}
	return out
}
