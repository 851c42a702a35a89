package report

import (
	"fmt"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/Simplici0/orca/internal/pricing"
)

var (
	grey      = &props.Color{Red: 80, Green: 80, Blue: 80}
	headerBg  = &props.Color{Red: 33, Green: 37, Blue: 41}
	summaryBg = &props.Color{Red: 240, Green: 240, Blue: 240}
)

// PDF renders the quote as an A4 document.
func PDF(b Bundle) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(12).
		WithTopMargin(12).
		WithRightMargin(12).
		WithPageNumber(props.PageNumber{
			Pattern: "Página {current} de {total}",
			Place:   props.RightBottom,
			Size:    7,
			Color:   &props.Color{Red: 120, Green: 120, Blue: 120},
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, b)
	addComponentTable(m, b.Quote)
	addDistribution(m, b.Quote)
	addNotes(m, b.Quote)

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("failed to generate PDF: %w", err)
	}
	return doc.GetBytes(), nil
}

func addHeader(m core.Maroto, b Bundle) {
	m.AddRows(
		row.New(12).Add(
			col.New(12).Add(
				text.New("Orçamento - "+appName, props.Text{Size: 16, Style: fontstyle.Bold, Align: align.Center}),
			),
		),
		row.New(7).Add(
			col.New(6).Add(text.New("Cliente: "+b.Client, props.Text{Size: 9, Color: grey})),
			col.New(6).Add(text.New("Data: "+b.date().Format("02/01/2006 15:04"), props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
		row.New(7).Add(
			col.New(6).Add(text.New("Ambiente: "+b.Room, props.Text{Size: 9, Color: grey})),
			col.New(6).Add(text.New("Arquivo: "+b.Analysis.FileName, props.Text{Size: 9, Align: align.Right, Color: grey})),
		),
		row.New(4),
	)
}

func addComponentTable(m core.Maroto, q pricing.Quote) {
	head := props.Text{Size: 8, Style: fontstyle.Bold, Align: align.Center, Color: &props.Color{Red: 255, Green: 255, Blue: 255}}
	cell := &props.Cell{BackgroundColor: headerBg}
	m.AddRows(
		row.New(8).Add(
			col.New(4).Add(text.New("Componente", head)).WithStyle(cell),
			col.New(2).Add(text.New("Área (m²)", head)).WithStyle(cell),
			col.New(2).Add(text.New("Material", head)).WithStyle(cell),
			col.New(2).Add(text.New("Acessórios", head)).WithStyle(cell),
			col.New(2).Add(text.New("Total", head)).WithStyle(cell),
		),
	)

	left := props.Text{Size: 8, Align: align.Left}
	right := props.Text{Size: 8, Align: align.Right}
	for _, est := range q.ComponentEstimates {
		m.AddRows(
			row.New(7).Add(
				col.New(4).Add(text.New(est.Name, left)),
				col.New(2).Add(text.New(Number(est.NominalAreaM2), right)),
				col.New(2).Add(text.New(Money(est.MaterialCost), right)),
				col.New(2).Add(text.New(Money(est.HardwareCost), right)),
				col.New(2).Add(text.New(Money(est.TotalCost), right)),
			),
		)
	}
	m.AddRows(row.New(6))
}

func addDistribution(m core.Maroto, q pricing.Quote) {
	label := props.Text{Size: 9, Align: align.Left}
	value := props.Text{Size: 9, Align: align.Right}
	for _, c := range pricing.Distribution(q) {
		m.AddRows(
			row.New(7).Add(
				col.New(6).Add(text.New(c.Label, label)),
				col.New(3).Add(text.New(Money(c.Value), value)),
				col.New(3).Add(text.New(Pct(c.Percent), value)),
			),
		)
	}

	bold := props.Text{Size: 10, Style: fontstyle.Bold, Align: align.Right}
	summary := &props.Cell{BackgroundColor: summaryBg}
	m.AddRows(
		row.New(8).Add(
			col.New(8).Add(text.New("Total", bold)).WithStyle(summary),
			col.New(4).Add(text.New(Money(q.GrandTotal), bold)).WithStyle(summary),
		),
		row.New(8).Add(
			col.New(8).Add(text.New("Preço por m²", bold)).WithStyle(summary),
			col.New(4).Add(text.New(Money(q.PricePerM2), bold)).WithStyle(summary),
		),
	)
}

func addNotes(m core.Maroto, q pricing.Quote) {
	note := props.Text{Size: 8, Color: grey}
	m.AddRows(row.New(6))
	if q.PriceSource != "" {
		m.AddRows(row.New(5).Add(col.New(12).Add(text.New("Preços baseados na tabela "+q.PriceSource, note))))
	}
	m.AddRows(
		row.New(5).Add(col.New(12).Add(text.New(fmt.Sprintf("Orçamento válido por %d dias. Não inclui entrega e instalação.", ValidityDays), note))),
	)
}
