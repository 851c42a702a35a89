package analysis

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Simplici0/orca/internal/pricing"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		sizeMB   float64
		want     ProjectKind
	}{
		{"english keyword", "Kitchen_v2.obj", 30, KindKitchen},
		{"portuguese keyword", "projeto_cozinha.stl", 0.1, KindKitchen},
		{"bathroom", "banheiro-suite.dae", 2, KindBathroom},
		{"bedroom", "QUARTO.ply", 2, KindBedroom},
		{"office", "home_office.obj", 2, KindOffice},
		{"small by size", "projeto.obj", 0.5, KindSmall},
		{"medium by size", "projeto.obj", 1, KindMedium},
		{"large by size", "projeto.obj", 5, KindLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.filename, tt.sizeMB))
		})
	}
}

func TestAnalyze_KitchenFile(t *testing.T) {
	a, err := Analyze("cozinha_planejada.OBJ", 3*mb, 500*mb)
	require.NoError(t, err)

	assert.Equal(t, "OBJ", a.Format)
	assert.Equal(t, KindKitchen, a.Kind)
	assert.Equal(t, 3.0, a.SizeMB)
	require.Len(t, a.Components, 4)
	assert.InDelta(t, 1.89+2.73+2.15+1.44, a.TotalAreaM2, 1e-9)
	assert.Equal(t, []string{"hinge", "hinge", "hinge", "hinge", "handle", "handle"}, a.Components[1].HardwareItems)
}

func TestAnalyze_RoundsSize(t *testing.T) {
	a, err := Analyze("x.stl", 1234567, 0)
	require.NoError(t, err)
	assert.Equal(t, 1.18, a.SizeMB)
	assert.Equal(t, KindMedium, a.Kind)
}

func TestAnalyze_RejectsUnsupportedFormat(t *testing.T) {
	for _, name := range []string{"plan.pdf", "noextension", "model.obj.zip"} {
		_, err := Analyze(name, 10, 0)
		assert.Truef(t, errors.Is(err, ErrUnsupportedFormat), "%s: err = %v", name, err)
	}
}

func TestAnalyze_RejectsOversizedFile(t *testing.T) {
	_, err := Analyze("kitchen.obj", 500*mb+1, 500*mb)
	assert.ErrorIs(t, err, ErrFileTooLarge)

	_, err = Analyze("kitchen.obj", 500*mb, 500*mb)
	assert.NoError(t, err)
}

func TestEveryKindPricesCleanly(t *testing.T) {
	cfg := pricing.Config{Material: "MDF 15mm", HardwareTier: "standard", Complexity: pricing.ComplexityMedium, ProfitMarginPct: 30}
	for _, kind := range []ProjectKind{KindKitchen, KindBathroom, KindBedroom, KindOffice, KindSmall, KindMedium, KindLarge} {
		t.Run(string(kind), func(t *testing.T) {
			components := componentsFor(kind)
			require.NoError(t, pricing.ValidateComponents(components))

			q, err := pricing.BuildQuote(components, cfg, pricing.DefaultCatalog())
			require.NoError(t, err)
			assert.Empty(t, q.Substitutions, "canned hardware kinds must exist in the default tiers")
			assert.Greater(t, q.GrandTotal, 0.0)
		})
	}
}

func TestComponentsFor_ReturnsFreshSlices(t *testing.T) {
	first := componentsFor(KindKitchen)
	first[0].HardwareItems[0] = "lock"

	second := componentsFor(KindKitchen)
	assert.Equal(t, "hinge", second[0].HardwareItems[0])
}
