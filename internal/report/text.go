package report

import (
	"strings"

	"github.com/Simplici0/orca/internal/pricing"
)

// Text renders the detailed markdown report of a quote.
func Text(b Bundle) string {
	q := b.Quote
	var sb strings.Builder
	w := func(format string, args ...any) {
		sb.WriteString(printer.Sprintf(format, args...))
	}

	w("# Orçamento Detalhado - %s\n\n", appName)
	w("**Data:** %s\n", b.date().Format("02/01/2006 15:04"))
	w("**Cliente:** %s\n", b.Client)
	w("**Ambiente:** %s\n\n", b.Room)

	w("## Resumo\n\n")
	w("- **Área Total:** %s m²\n", Number(q.TotalAreaM2))
	w("- **Total de Componentes:** %d\n", q.ComponentCount)
	w("- **Valor Total:** %s\n", Money(q.GrandTotal))
	w("- **Preço por m²:** %s\n\n", Money(q.PricePerM2))

	w("## Composição de Custos\n\n")
	w("| Item | Valor | Percentual |\n")
	w("|------|-------|------------|\n")
	for _, c := range pricing.Distribution(q) {
		w("| %s | %s | %s |\n", c.Label, Money(c.Value), Pct(c.Percent))
	}
	w("\n**Subtotal:** %s\n", Money(q.Subtotal))
	w("**TOTAL:** %s\n\n", Money(q.GrandTotal))

	w("## Detalhamento por Componente\n")
	for _, est := range q.ComponentEstimates {
		w("\n### %s\n\n", est.Name)
		w("- **Tipo:** %s\n", Humanize(est.Category))
		w("- **Área:** %s m² (%s m² com perda)\n", Number(est.NominalAreaM2), Number(est.AreaWithWasteM2))
		w("- **Material:** %s\n", est.Material)
		w("- **Custo Total:** %s\n\n", Money(est.TotalCost))
		w("Material: %s | Acessórios: %s | Corte: %s\n", Money(est.MaterialCost), Money(est.HardwareCost), Money(est.CuttingCost))

		if len(est.HardwareBreakdown) > 0 {
			w("\n**Acessórios:**\n")
			for _, kind := range sortedKinds(est.HardwareBreakdown) {
				line := est.HardwareBreakdown[kind]
				w("- %dx %s @ %s = %s\n", line.Quantity, Humanize(kind), Money(line.UnitPrice), Money(line.LineTotal))
			}
		}
	}

	cfg := q.Config
	w("\n## Configurações Utilizadas\n\n")
	w("- **Material Principal:** %s\n", cfg.Material)
	w("- **Tipo de Acessórios:** %s\n", TierLabel(cfg.HardwareTier))
	w("- **Complexidade:** %s\n", ComplexityLabel(cfg.Complexity))
	w("- **Margem de Lucro:** %s\n", Pct(cfg.ProfitMarginPct))

	if len(q.Substitutions) > 0 {
		w("\n## Substituições Aplicadas\n\n")
		for _, s := range q.Substitutions {
			w("- %s\n", s.String())
		}
	}

	w("\n## Observações\n\n")
	if q.PriceSource != "" {
		w("- Preços baseados na tabela %s\n", q.PriceSource)
	}
	w("- Valores incluem desperdício de material conforme padrão da indústria\n")
	w("- Mão de obra calculada com base na complexidade do projeto\n")
	w("- Orçamento válido por %d dias\n", ValidityDays)
	w("- Não inclui entrega e instalação\n")

	return sb.String()
}
