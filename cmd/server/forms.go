package main

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/Simplici0/orca/internal/pricing"
)

const (
	minMarginPct     = 10
	maxMarginPct     = 50
	marginStepPct    = 5
	defaultMarginPct = 30
)

type estimateForm struct {
	Client string
	Room   string
	Config pricing.Config
}

// parseEstimateForm reads the pricing choices of an upload. Blank selections take the
// catalog defaults.
func parseEstimateForm(r *http.Request, cat *pricing.Catalog) (estimateForm, error) {
	form := estimateForm{
		Client: strings.TrimSpace(r.FormValue("client")),
		Room:   strings.TrimSpace(r.FormValue("room")),
		Config: pricing.Config{
			Material:     strings.TrimSpace(r.FormValue("material")),
			HardwareTier: strings.TrimSpace(r.FormValue("hardware_tier")),
			Complexity:   pricing.Complexity(strings.TrimSpace(r.FormValue("complexity"))),
		},
	}

	if form.Client == "" {
		return form, fmt.Errorf("client é obrigatório")
	}
	if form.Room == "" {
		return form, fmt.Errorf("room é obrigatório")
	}
	if form.Config.Material == "" {
		form.Config.Material = cat.DefaultMaterial
	}
	if form.Config.HardwareTier == "" {
		form.Config.HardwareTier = cat.DefaultTier
	}
	if form.Config.Complexity == "" {
		form.Config.Complexity = cat.DefaultComplexity
	}

	margin, err := parseMargin(r.FormValue("profit_margin_pct"))
	if err != nil {
		return form, err
	}
	form.Config.ProfitMarginPct = margin

	return form, nil
}

// parseMargin accepts 10 to 50 in steps of 5; blank means the default of 30.
func parseMargin(raw string) (float64, error) {
	if strings.TrimSpace(raw) == "" {
		return defaultMarginPct, nil
	}
	value, err := parsePercent(raw, "profit_margin_pct")
	if err != nil {
		return 0, err
	}
	if value < minMarginPct || value > maxMarginPct || math.Mod(value, marginStepPct) != 0 {
		return 0, fmt.Errorf("profit_margin_pct deve estar entre %d e %d, em passos de %d", minMarginPct, maxMarginPct, marginStepPct)
	}
	return value, nil
}

func parseNonNegativeFloat(raw, field string) (float64, error) {
	value, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil || math.IsNaN(value) || math.IsInf(value, 0) {
		return 0, fmt.Errorf("%s deve ser numérico", field)
	}
	if value < 0 {
		return 0, fmt.Errorf("%s deve ser maior ou igual a 0", field)
	}
	return value, nil
}

func parsePercent(raw, field string) (float64, error) {
	value, err := parseNonNegativeFloat(raw, field)
	if err != nil {
		return 0, err
	}
	if value > 100 {
		return 0, fmt.Errorf("%s deve estar entre 0 e 100", field)
	}
	return value, nil
}
