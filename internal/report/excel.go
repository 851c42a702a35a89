package report

import (
	"bytes"
	"fmt"
	"maps"
	"slices"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/orca/internal/pricing"
)

const (
	componentsSheet = "Componentes"
	summarySheet    = "Resumo"
)

// Excel builds an xlsx workbook with a component sheet and a summary sheet.
func Excel(b Bundle) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), componentsSheet); err != nil {
		return nil, fmt.Errorf("set sheet name: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#333333"}, Pattern: 1},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
		Border: thinBorders(),
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	// 4 = "#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4, Border: thinBorders()})
	if err != nil {
		return nil, fmt.Errorf("create money style: %w", err)
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, fmt.Errorf("create bold style: %w", err)
	}

	if err := writeComponents(f, b.Quote, headerStyle, moneyStyle); err != nil {
		return nil, err
	}
	if err := writeSummary(f, b, headerStyle, moneyStyle, boldStyle); err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write excel: %w", err)
	}
	return buf.Bytes(), nil
}

func writeComponents(f *excelize.File, q pricing.Quote, headerStyle, moneyStyle int) error {
	headers := []string{"ID", "Componente", "Categoria", "Material", "Área (m²)", "Área c/ perda (m²)", "Material (R$)", "Acessórios (R$)", "Corte (R$)", "Total (R$)", "R$/m²"}
	widths := []float64{18, 32, 18, 18, 12, 16, 14, 16, 12, 14, 12}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(componentsSheet, cell, h)
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(componentsSheet, col, col, widths[i]); err != nil {
			return fmt.Errorf("set col width %s: %w", col, err)
		}
	}
	lastCol, _ := excelize.ColumnNumberToName(len(headers))
	f.SetCellStyle(componentsSheet, "A1", lastCol+"1", headerStyle)

	for i, est := range q.ComponentEstimates {
		row := i + 2
		values := []any{
			sanitizeExcelCell(est.ID),
			sanitizeExcelCell(est.Name),
			sanitizeExcelCell(Humanize(est.Category)),
			sanitizeExcelCell(est.Material),
			est.NominalAreaM2,
			est.AreaWithWasteM2,
			round2(est.MaterialCost),
			round2(est.HardwareCost),
			round2(est.CuttingCost),
			round2(est.TotalCost),
			round2(est.CostPerM2),
		}
		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(componentsSheet, start, &values); err != nil {
			return fmt.Errorf("write component row %d: %w", row, err)
		}
		first, _ := excelize.CoordinatesToCellName(5, row)
		last, _ := excelize.CoordinatesToCellName(len(headers), row)
		f.SetCellStyle(componentsSheet, first, last, moneyStyle)
	}
	return nil
}

func writeSummary(f *excelize.File, b Bundle, headerStyle, moneyStyle, boldStyle int) error {
	q := b.Quote
	info := [][]any{
		{"Cliente", sanitizeExcelCell(b.Client)},
		{"Ambiente", sanitizeExcelCell(b.Room)},
		{"Data", b.date().Format("02/01/2006 15:04")},
		{"Arquivo", sanitizeExcelCell(b.Analysis.FileName)},
		{"Material", sanitizeExcelCell(q.Config.Material)},
		{"Acessórios", TierLabel(q.Config.HardwareTier)},
		{"Complexidade", ComplexityLabel(q.Config.Complexity)},
		{"Margem de lucro (%)", q.Config.ProfitMarginPct},
		{"Área total (m²)", round2(q.TotalAreaM2)},
		{"Componentes", q.ComponentCount},
	}
	for i, row := range info {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			return fmt.Errorf("write summary row: %w", err)
		}
		f.SetCellStyle(summarySheet, cell, cell, boldStyle)
	}

	top := len(info) + 2
	header := []any{"Item", "Valor (R$)", "Percentual (%)"}
	start, _ := excelize.CoordinatesToCellName(1, top)
	if err := f.SetSheetRow(summarySheet, start, &header); err != nil {
		return fmt.Errorf("write distribution header: %w", err)
	}
	end, _ := excelize.CoordinatesToCellName(3, top)
	f.SetCellStyle(summarySheet, start, end, headerStyle)

	row := top + 1
	for _, c := range pricing.Distribution(q) {
		values := []any{c.Label, round2(c.Value), decimalRound(c.Percent, 1)}
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(summarySheet, cell, &values); err != nil {
			return fmt.Errorf("write distribution row: %w", err)
		}
		f.SetCellStyle(summarySheet, "B"+fmt.Sprint(row), "B"+fmt.Sprint(row), moneyStyle)
		row++
	}

	totals := [][]any{
		{"Subtotal", round2(q.Subtotal)},
		{"Total", round2(q.GrandTotal)},
		{"Preço por m²", round2(q.PricePerM2)},
	}
	for _, t := range totals {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(summarySheet, cell, &t); err != nil {
			return fmt.Errorf("write total row: %w", err)
		}
		f.SetCellStyle(summarySheet, cell, cell, boldStyle)
		f.SetCellStyle(summarySheet, "B"+fmt.Sprint(row), "B"+fmt.Sprint(row), moneyStyle)
		row++
	}

	if err := f.SetColWidth(summarySheet, "A", "A", 24); err != nil {
		return fmt.Errorf("set summary width: %w", err)
	}
	return f.SetColWidth(summarySheet, "B", "C", 18)
}

func sortedKinds(m map[string]pricing.HardwareLine) []string {
	return slices.Sorted(maps.Keys(m))
}

// sanitizeExcelCell prevents formula injection by prefixing dangerous leading
// characters with a single quote.
func sanitizeExcelCell(s string) string {
	if len(s) == 0 {
		return s
	}
	switch s[0] {
	case '=', '+', '-', '@', '\t', '\r', '|':
		return "'" + s
	}
	return s
}

func thinBorders() []excelize.Border {
	sides := []string{"left", "top", "bottom", "right"}
	borders := make([]excelize.Border, len(sides))
	for i, side := range sides {
		borders[i] = excelize.Border{Type: side, Color: "#000000", Style: 1}
	}
	return borders
}
