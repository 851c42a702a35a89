// Package analysis turns an uploaded 3D project file into the component list the pricing
// engine consumes.
//
// Geometry is not parsed. The project kind is inferred from the file name, or from the file
// size when the name carries no hint, and a canned component list is returned for that kind.
package analysis

import (
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Simplici0/orca/internal/pricing"
)

var (
	// ErrUnsupportedFormat is returned for file extensions outside SupportedFormats.
	ErrUnsupportedFormat = errors.New("unsupported file format")
	// ErrFileTooLarge is returned when the upload exceeds the configured limit.
	ErrFileTooLarge = errors.New("file too large")
)

// SupportedFormats lists the accepted extensions, lower case and without the dot.
var SupportedFormats = []string{"obj", "dae", "stl", "ply"}

// ProjectKind is the coarse project classification used to pick components.
type ProjectKind string

const (
	KindKitchen  ProjectKind = "kitchen"
	KindBathroom ProjectKind = "bathroom"
	KindBedroom  ProjectKind = "bedroom"
	KindOffice   ProjectKind = "office"
	KindSmall    ProjectKind = "small"
	KindMedium   ProjectKind = "medium"
	KindLarge    ProjectKind = "large"
)

const mb = 1 << 20

// Analysis is the resolver output for one file.
type Analysis struct {
	FileName    string              `json:"file_name"`
	SizeMB      float64             `json:"size_mb"`
	Format      string              `json:"format"`
	Kind        ProjectKind         `json:"kind"`
	Components  []pricing.Component `json:"components"`
	TotalAreaM2 float64             `json:"total_area_m2"`
}

// Analyze resolves a file into its component list. maxBytes <= 0 disables the size check.
func Analyze(filename string, sizeBytes, maxBytes int64) (Analysis, error) {
	format := Format(filename)
	if !slices.Contains(SupportedFormats, format) {
		return Analysis{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if sizeBytes < 0 {
		return Analysis{}, fmt.Errorf("negative file size %d", sizeBytes)
	}
	if maxBytes > 0 && sizeBytes > maxBytes {
		return Analysis{}, fmt.Errorf("%w: %d bytes exceeds %d", ErrFileTooLarge, sizeBytes, maxBytes)
	}

	sizeMB := float64(sizeBytes) / mb
	kind := Classify(filename, sizeMB)
	components := componentsFor(kind)

	a := Analysis{
		FileName:   filepath.Base(filename),
		SizeMB:     decimal.NewFromFloat(sizeMB).Round(2).InexactFloat64(),
		Format:     strings.ToUpper(format),
		Kind:       kind,
		Components: components,
	}
	for _, c := range components {
		a.TotalAreaM2 += c.AreaM2
	}

	if err := pricing.ValidateComponents(a.Components); err != nil {
		return Analysis{}, fmt.Errorf("resolve components: %w", err)
	}
	return a, nil
}

// Format returns the lower-case extension of filename without the dot.
func Format(filename string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(filename), "."))
}

var keywords = []struct {
	kind  ProjectKind
	words []string
}{
	{KindKitchen, []string{"kitchen", "cozinha"}},
	{KindBathroom, []string{"bathroom", "banheiro"}},
	{KindBedroom, []string{"bedroom", "quarto"}},
	{KindOffice, []string{"office", "escritorio"}},
}

// Classify picks the project kind from name keywords, falling back to file size.
func Classify(filename string, sizeMB float64) ProjectKind {
	name := strings.ToLower(filename)
	for _, k := range keywords {
		for _, w := range k.words {
			if strings.Contains(name, w) {
				return k.kind
			}
		}
	}

	switch {
	case sizeMB < 1:
		return KindSmall
	case sizeMB < 5:
		return KindMedium
	default:
		return KindLarge
	}
}
