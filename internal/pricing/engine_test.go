package pricing

import (
	"errors"
	"math"
	"reflect"
	"testing"
	"time"
)

func nearlyEqual(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("%s = %v, want %v", name, got, want)
	}
}

func kitchenComponents() []Component {
	return []Component{
		{ID: "upper_1", Name: "Upper Cabinet Left", Category: "upper_cabinet", WidthCM: 80, HeightCM: 70, DepthCM: 35, AreaM2: 1.89, HardwareItems: []string{"hinge", "hinge", "handle"}},
		{ID: "upper_2", Name: "Upper Cabinet Center", Category: "upper_cabinet", WidthCM: 120, HeightCM: 70, DepthCM: 35, AreaM2: 2.73, HardwareItems: []string{"hinge", "hinge", "hinge", "hinge", "handle", "handle"}},
		{ID: "lower_1", Name: "Drawer Base", Category: "lower_cabinet", WidthCM: 60, HeightCM: 85, DepthCM: 55, AreaM2: 2.15, HardwareItems: []string{"slide", "slide", "slide", "handle", "handle", "handle"}},
		{ID: "counter", Name: "Countertop", Category: "countertop", WidthCM: 240, HeightCM: 4, DepthCM: 60, AreaM2: 1.44},
	}
}

func defaultConfig() Config {
	return Config{Material: "MDF 15mm", HardwareTier: "standard", Complexity: ComplexityMedium, ProfitMarginPct: 30}
}

func TestEstimateComponent_MaterialWithWasteAndCuttingFloor(t *testing.T) {
	c := Component{ID: "shelf", Name: "Shelf", WidthCM: 100, HeightCM: 2, DepthCM: 50, AreaM2: 2.0}

	est, subs, err := EstimateComponent(c, defaultConfig(), DefaultCatalog())
	if err != nil {
		t.Fatalf("EstimateComponent: %v", err)
	}
	if len(subs) != 0 {
		t.Fatalf("expected no substitutions, got %v", subs)
	}

	nearlyEqual(t, "areaWithWaste", est.AreaWithWasteM2, 2.3)
	nearlyEqual(t, "materialCost", est.MaterialCost, 159.045)
	// 2*(1.0+0.5) + 2*(0.02+0.5) = 4.04 m at 2.50 is 10.10, below the 15.00 floor.
	nearlyEqual(t, "cuttingCost", est.CuttingCost, 15)
	nearlyEqual(t, "hardwareCost", est.HardwareCost, 0)
	nearlyEqual(t, "totalCost", est.TotalCost, 174.045)
	nearlyEqual(t, "costPerM2", est.CostPerM2, 87.0225)
	if len(est.HardwareBreakdown) != 0 {
		t.Fatalf("expected empty hardware breakdown, got %v", est.HardwareBreakdown)
	}
	if est.Material != "MDF 15mm" {
		t.Fatalf("material = %q, want MDF 15mm", est.Material)
	}
}

func TestEstimateComponent_GroupsRepeatedHardware(t *testing.T) {
	c := Component{
		ID: "upper", Name: "Upper", WidthCM: 80, HeightCM: 70, DepthCM: 35, AreaM2: 1.89,
		HardwareItems: []string{"hinge", "handle", "hinge", "hinge", "hinge"},
	}
	cfg := defaultConfig()
	cfg.HardwareTier = "premium"

	est, _, err := EstimateComponent(c, cfg, DefaultCatalog())
	if err != nil {
		t.Fatalf("EstimateComponent: %v", err)
	}

	hinge := est.HardwareBreakdown["hinge"]
	if hinge.Quantity != 4 {
		t.Fatalf("hinge quantity = %d, want 4", hinge.Quantity)
	}
	nearlyEqual(t, "hinge unit", hinge.UnitPrice, 28)
	nearlyEqual(t, "hinge line", hinge.LineTotal, 112)
	nearlyEqual(t, "handle line", est.HardwareBreakdown["handle"].LineTotal, 25)
	nearlyEqual(t, "hardwareCost", est.HardwareCost, 137)

	// 2*(0.8+0.35) + 2*(0.7+0.35) = 4.4 m at 2.50 plus 4 drilled hinges at 1.50.
	nearlyEqual(t, "cuttingCost", est.CuttingCost, 17)
}

func TestEstimateComponent_ZeroAreaHasZeroUnitCost(t *testing.T) {
	c := Component{ID: "flat", Name: "Flat", WidthCM: 10, DepthCM: 10}

	est, _, err := EstimateComponent(c, defaultConfig(), DefaultCatalog())
	if err != nil {
		t.Fatalf("EstimateComponent: %v", err)
	}
	if est.CostPerM2 != 0 {
		t.Fatalf("costPerM2 = %v, want 0", est.CostPerM2)
	}
	nearlyEqual(t, "totalCost", est.TotalCost, 15)
}

func TestEstimateComponent_TotalIsExactSumOfParts(t *testing.T) {
	for _, c := range kitchenComponents() {
		est, _, err := EstimateComponent(c, defaultConfig(), DefaultCatalog())
		if err != nil {
			t.Fatalf("EstimateComponent(%s): %v", c.ID, err)
		}
		if est.TotalCost != est.MaterialCost+est.HardwareCost+est.CuttingCost {
			t.Fatalf("%s: total %v != parts sum", c.ID, est.TotalCost)
		}
	}
}

func TestEstimateComponent_Fallbacks(t *testing.T) {
	c := Component{ID: "x", Name: "X", WidthCM: 50, HeightCM: 50, DepthCM: 50, AreaM2: 1, HardwareItems: []string{"magnet", "magnet", "hinge"}}
	cfg := Config{Material: "Oak 20mm", HardwareTier: "gold", Complexity: ComplexityMedium}

	est, subs, err := EstimateComponent(c, cfg, DefaultCatalog())
	if err != nil {
		t.Fatalf("EstimateComponent: %v", err)
	}

	if est.Material != DefaultMaterialName {
		t.Fatalf("material = %q, want default", est.Material)
	}
	magnet := est.HardwareBreakdown["magnet"]
	if magnet.Quantity != 2 || magnet.UnitPrice != 0 || magnet.LineTotal != 0 {
		t.Fatalf("unknown kind line = %+v, want quantity 2 at zero", magnet)
	}
	nearlyEqual(t, "standard hinge", est.HardwareBreakdown["hinge"].UnitPrice, 12.5)

	want := []Substitution{
		{Kind: SubstitutionMaterial, Requested: "Oak 20mm", Applied: DefaultMaterialName},
		{Kind: SubstitutionHardwareTier, Requested: "gold", Applied: DefaultTierName},
		{Kind: SubstitutionHardwareKind, Requested: "magnet", Applied: "0", ComponentID: "x"},
	}
	if !reflect.DeepEqual(subs, want) {
		t.Fatalf("substitutions = %+v, want %+v", subs, want)
	}
}

func TestBuildQuote_LaborAndMargin(t *testing.T) {
	cat := DefaultCatalog()
	cat.Materials["Flat 100"] = Material{Name: "Flat 100", PricePerM2: 100}
	cat.Cutting = CuttingPolicy{}

	components := []Component{{ID: "a", Name: "A", AreaM2: 10}}
	cfg := Config{Material: "Flat 100", HardwareTier: "standard", Complexity: ComplexityMedium, ProfitMarginPct: 30}

	q, err := BuildQuote(components, cfg, cat)
	if err != nil {
		t.Fatalf("BuildQuote: %v", err)
	}

	nearlyEqual(t, "subtotal", q.Subtotal, 1000)
	nearlyEqual(t, "laborCost", q.LaborCost, 350)
	nearlyEqual(t, "marginAmount", q.MarginAmount, 300)
	nearlyEqual(t, "grandTotal", q.GrandTotal, 1650)
	nearlyEqual(t, "pricePerM2", q.PricePerM2, 165)
	if q.GrandTotal != q.Subtotal+q.LaborCost+q.MarginAmount {
		t.Fatalf("grand total %v is not the exact sum of its parts", q.GrandTotal)
	}
}

func TestBuildQuote_ComplexityRates(t *testing.T) {
	cat := DefaultCatalog()
	cat.Materials["Flat 100"] = Material{Name: "Flat 100", PricePerM2: 100}
	cat.Cutting = CuttingPolicy{}
	components := []Component{{ID: "a", Name: "A", AreaM2: 1}}

	tests := []struct {
		name       string
		complexity Complexity
		wantLabor  float64
		wantSubs   int
	}{
		{"simple", ComplexitySimple, 20, 0},
		{"medium", ComplexityMedium, 35, 0},
		{"complex", ComplexityComplex, 50, 0},
		{"premium", ComplexityPremium, 70, 0},
		{"unknown falls back to medium", Complexity("extreme"), 35, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{Material: "Flat 100", HardwareTier: "standard", Complexity: tt.complexity}
			q, err := BuildQuote(components, cfg, cat)
			if err != nil {
				t.Fatalf("BuildQuote: %v", err)
			}
			nearlyEqual(t, "laborCost", q.LaborCost, tt.wantLabor)
			if len(q.Substitutions) != tt.wantSubs {
				t.Fatalf("substitutions = %v, want %d", q.Substitutions, tt.wantSubs)
			}
		})
	}
}

func TestBuildQuote_EmptyComponentList(t *testing.T) {
	q, err := BuildQuote(nil, defaultConfig(), DefaultCatalog())
	if err != nil {
		t.Fatalf("BuildQuote: %v", err)
	}
	if q.GrandTotal != 0 || q.PricePerM2 != 0 {
		t.Fatalf("expected zero totals, got %+v", q)
	}
	if q.ComponentEstimates == nil || len(q.ComponentEstimates) != 0 {
		t.Fatalf("expected empty non-nil estimates, got %#v", q.ComponentEstimates)
	}
	if !q.Empty() {
		t.Fatal("expected Empty() to be true")
	}
}

func TestBuildQuote_AggregatesComponentTotals(t *testing.T) {
	components := kitchenComponents()
	q, err := BuildQuote(components, defaultConfig(), DefaultCatalog())
	if err != nil {
		t.Fatalf("BuildQuote: %v", err)
	}

	if q.ComponentCount != len(components) {
		t.Fatalf("component count = %d, want %d", q.ComponentCount, len(components))
	}
	var sum, area float64
	for i, est := range q.ComponentEstimates {
		if est.ID != components[i].ID {
			t.Fatalf("estimate %d is %s, want input order %s", i, est.ID, components[i].ID)
		}
		sum += est.TotalCost
		area += components[i].AreaM2
	}
	nearlyEqual(t, "sum of totals", sum, q.Subtotal)
	nearlyEqual(t, "totalArea", q.TotalAreaM2, area)
	nearlyEqual(t, "pricePerM2", q.PricePerM2, q.GrandTotal/area)
	if q.PriceSource != DefaultPriceSource {
		t.Fatalf("price source = %q", q.PriceSource)
	}
}

func TestBuildQuote_IsDeterministic(t *testing.T) {
	cat := DefaultCatalog()
	first, err := BuildQuote(kitchenComponents(), defaultConfig(), cat)
	if err != nil {
		t.Fatalf("first BuildQuote: %v", err)
	}
	second, err := BuildQuote(kitchenComponents(), defaultConfig(), cat)
	if err != nil {
		t.Fatalf("second BuildQuote: %v", err)
	}

	first.GeneratedAt = time.Time{}
	second.GeneratedAt = time.Time{}
	if !reflect.DeepEqual(first, second) {
		t.Fatalf("quotes differ:\n%+v\n%+v", first, second)
	}
}

func TestBuildQuote_DoesNotMutateCatalog(t *testing.T) {
	cat := DefaultCatalog()
	before := cat.Clone()

	cfg := Config{Material: "unknown", HardwareTier: "unknown", Complexity: "unknown", ProfitMarginPct: 25}
	if _, err := BuildQuote(kitchenComponents(), cfg, cat); err != nil {
		t.Fatalf("BuildQuote: %v", err)
	}
	if !reflect.DeepEqual(cat, before) {
		t.Fatal("catalog was modified by BuildQuote")
	}
}

func TestBuildQuote_RejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name       string
		components []Component
		cfg        Config
		wantField  string
	}{
		{"missing id", []Component{{Name: "A", AreaM2: 1}}, defaultConfig(), "id"},
		{"duplicate id", []Component{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}, defaultConfig(), "id"},
		{"missing name", []Component{{ID: "a", AreaM2: 1}}, defaultConfig(), "name"},
		{"negative area", []Component{{ID: "a", Name: "A", AreaM2: -1}}, defaultConfig(), "area_m2"},
		{"NaN width", []Component{{ID: "a", Name: "A", WidthCM: math.NaN()}}, defaultConfig(), "width_cm"},
		{"negative margin", []Component{{ID: "a", Name: "A"}}, Config{ProfitMarginPct: -5}, "profit_margin_pct"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildQuote(tt.components, tt.cfg, DefaultCatalog())
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("err = %v, want ErrInvalidInput", err)
			}
			var vErr *ValidationError
			if !errors.As(err, &vErr) || vErr.Field != tt.wantField {
				t.Fatalf("err = %v, want field %q", err, tt.wantField)
			}
		})
	}
}

func TestBuildQuote_NonFiniteAmountAbortsQuote(t *testing.T) {
	cat := DefaultCatalog()
	cat.Materials["Broken"] = Material{Name: "Broken", PricePerM2: math.MaxFloat64}

	cfg := defaultConfig()
	cfg.Material = "Broken"
	q, err := BuildQuote(kitchenComponents(), cfg, cat)
	if !errors.Is(err, ErrComputation) {
		t.Fatalf("err = %v, want ErrComputation", err)
	}
	if !q.Empty() {
		t.Fatalf("expected no partial quote, got %d estimates", len(q.ComponentEstimates))
	}
}

func TestBuildQuote_RejectsCatalogWithoutDefaults(t *testing.T) {
	cat := DefaultCatalog()
	delete(cat.Materials, DefaultMaterialName)

	if _, err := BuildQuote(kitchenComponents(), defaultConfig(), cat); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("err = %v, want ErrInvalidCatalog", err)
	}
	if _, err := BuildQuote(nil, defaultConfig(), nil); !errors.Is(err, ErrInvalidCatalog) {
		t.Fatalf("nil catalog err = %v, want ErrInvalidCatalog", err)
	}
}

func TestCuttingPolicy_DrillingKindsAreConfigurable(t *testing.T) {
	cat := DefaultCatalog()
	cat.Cutting.MinimumFee = 0
	cat.Cutting.DrillingKinds = []string{"handle"}

	c := Component{ID: "a", Name: "A", AreaM2: 1, HardwareItems: []string{"hinge", "handle", "handle"}}
	est, _, err := EstimateComponent(c, defaultConfig(), cat)
	if err != nil {
		t.Fatalf("EstimateComponent: %v", err)
	}
	nearlyEqual(t, "cuttingCost", est.CuttingCost, 3)
}
