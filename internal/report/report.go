// Package report renders saved quotes for people: a markdown report, chart series and
// downloadable JSON, Excel and PDF documents.
package report

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/Simplici0/orca/internal/analysis"
	"github.com/Simplici0/orca/internal/pricing"
)

const appName = "Orça Interiores"

// ValidityDays is how long a quote is honoured.
const ValidityDays = 30

// Bundle is the serializable snapshot of one quote: who it is for, what was analyzed and
// how it was priced.
type Bundle struct {
	ID        string            `json:"id,omitempty"`
	Client    string            `json:"client"`
	Room      string            `json:"room"`
	Analysis  analysis.Analysis `json:"analysis"`
	Quote     pricing.Quote     `json:"quote"`
	CreatedAt time.Time         `json:"created_at"`
}

func (b Bundle) date() time.Time {
	if !b.CreatedAt.IsZero() {
		return b.CreatedAt
	}
	return b.Quote.GeneratedAt
}

// JSON encodes the bundle for download.
func JSON(b Bundle) ([]byte, error) {
	body, err := json.MarshalIndent(b, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode quote bundle: %w", err)
	}
	return body, nil
}

// FileName builds the download name, e.g. orcamento_Ana_Souza_Cozinha.json.
func FileName(client, room, ext string) string {
	return fmt.Sprintf("orcamento_%s_%s.%s", slug(client), slug(room), strings.TrimPrefix(ext, "."))
}

func slug(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "sem_nome"
	}
	return strings.Map(func(r rune) rune {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r) || r == '-':
			return r
		case unicode.IsSpace(r) || r == '_':
			return '_'
		}
		return -1
	}, s)
}

var (
	printer = message.NewPrinter(language.BrazilianPortuguese)
	titler  = cases.Title(language.BrazilianPortuguese)
)

// Money formats an amount in reais rounded half away from zero to cents.
func Money(v float64) string {
	return printer.Sprintf("R$ %.2f", round2(v))
}

// Number formats a plain quantity with two decimals.
func Number(v float64) string {
	return printer.Sprintf("%.2f", round2(v))
}

// Pct formats a percentage with one decimal.
func Pct(v float64) string {
	return printer.Sprintf("%.1f%%", decimalRound(v, 1))
}

func round2(v float64) float64 {
	return decimalRound(v, 2)
}

func decimalRound(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// Humanize turns an identifier such as upper_cabinet into "Upper Cabinet".
func Humanize(id string) string {
	return titler.String(strings.ReplaceAll(id, "_", " "))
}

var tierLabels = map[string]string{
	"standard": "Comum",
	"premium":  "Premium",
}

var complexityLabels = map[pricing.Complexity]string{
	pricing.ComplexitySimple:  "Simples",
	pricing.ComplexityMedium:  "Média",
	pricing.ComplexityComplex: "Complexa",
	pricing.ComplexityPremium: "Premium",
}

// TierLabel returns the display name of a hardware tier.
func TierLabel(tier string) string {
	if l, ok := tierLabels[tier]; ok {
		return l
	}
	return Humanize(tier)
}

// ComplexityLabel returns the display name of a complexity level.
func ComplexityLabel(c pricing.Complexity) string {
	if l, ok := complexityLabels[c]; ok {
		return l
	}
	return Humanize(string(c))
}

// ChartSet holds the series behind the three standard charts.
type ChartSet struct {
	Distribution []pricing.CostCategory  `json:"distribution"`
	Ranking      []pricing.ComponentCost `json:"ranking"`
	Scatter      []pricing.ScatterPoint  `json:"scatter"`
}

// Charts projects a quote into chart series. An empty quote yields empty series.
func Charts(q pricing.Quote) ChartSet {
	c := ChartSet{
		Distribution: pricing.Distribution(q),
		Ranking:      pricing.Ranking(q),
		Scatter:      pricing.Scatter(q),
	}
	if q.Empty() {
		c.Distribution = []pricing.CostCategory{}
	}
	return c
}
