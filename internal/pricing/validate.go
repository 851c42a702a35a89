package pricing

import (
	"math"
	"strconv"
	"strings"
)

// ValidateComponents checks the component list handed over by the file resolver.
// It reports the first problem found.
func ValidateComponents(components []Component) error {
	seen := make(map[string]int, len(components))
	for i, c := range components {
		id := strings.TrimSpace(c.ID)
		if id == "" {
			return &ValidationError{Index: i, Field: "id", Reason: "is required"}
		}
		if prev, ok := seen[id]; ok {
			return &ValidationError{Index: i, Field: "id", Reason: "duplicates component " + strconv.Itoa(prev)}
		}
		seen[id] = i

		if strings.TrimSpace(c.Name) == "" {
			return &ValidationError{Index: i, Field: "name", Reason: "is required"}
		}

		for _, f := range []struct {
			name  string
			value float64
		}{
			{"width_cm", c.WidthCM},
			{"height_cm", c.HeightCM},
			{"depth_cm", c.DepthCM},
			{"area_m2", c.AreaM2},
		} {
			if reason := checkNonNegative(f.value); reason != "" {
				return &ValidationError{Index: i, Field: f.name, Reason: reason}
			}
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if reason := checkNonNegative(cfg.ProfitMarginPct); reason != "" {
		return &ValidationError{Index: -1, Field: "profit_margin_pct", Reason: reason}
	}
	return nil
}

func checkNonNegative(v float64) string {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return "must be a finite number"
	case v < 0:
		return "must not be negative"
	}
	return ""
}
