package pricing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when the component list or configuration is malformed.
	ErrInvalidInput = errors.New("invalid estimate input")
	// ErrComputation is returned when an estimate produces a non-finite amount.
	ErrComputation = errors.New("estimate computation failed")
	// ErrInvalidCatalog is returned when reference data cannot resolve its own defaults.
	ErrInvalidCatalog = errors.New("invalid price catalog")
)

// ValidationError describes one rejected input field.
type ValidationError struct {
	Index  int // component position, -1 for configuration fields
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Index < 0 {
		return fmt.Sprintf("%s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("component %d: %s: %s", e.Index, e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// SubstitutionKind names which reference lookup fell back to a default.
type SubstitutionKind string

const (
	SubstitutionMaterial     SubstitutionKind = "material"
	SubstitutionHardwareTier SubstitutionKind = "hardware_tier"
	SubstitutionComplexity   SubstitutionKind = "complexity"
	SubstitutionHardwareKind SubstitutionKind = "hardware_kind"
)

// Substitution records a lenient fallback applied while pricing.
// ComponentID is set only for hardware kinds, which are resolved per component.
type Substitution struct {
	Kind        SubstitutionKind `json:"kind"`
	Requested   string           `json:"requested"`
	Applied     string           `json:"applied"`
	ComponentID string           `json:"component_id,omitempty"`
}

func (s Substitution) String() string {
	if s.ComponentID != "" {
		return fmt.Sprintf("%s %q in %s priced as %s", s.Kind, s.Requested, s.ComponentID, s.Applied)
	}
	return fmt.Sprintf("%s %q replaced by %q", s.Kind, s.Requested, s.Applied)
}
