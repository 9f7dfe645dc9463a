package label

import (
	"fmt"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/linestyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/core/entity"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

// labelsPerRow is the number of labels placed side by side on a sheet.
const labelsPerRow = 3

var (
	colorText = &props.Color{Red: 34, Green: 34, Blue: 34}
	colorGray = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// PDF renders a single large label on an A4 page.
func PDF(l Label) ([]byte, error) {
	m := maroto.New(pageConfig(l.Name))

	m.AddRows(row.New(14).Add(col.New(12).Add(
		text.New(l.Name, props.Text{
			Style: fontstyle.Bold, Size: 20, Align: align.Center, Color: colorText, Top: 2,
		}),
	)))
	if l.Description != "" {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New(l.Description, props.Text{Size: 10, Align: align.Center, Color: colorGray}),
		)))
	}
	m.AddRows(row.New(110).Add(
		col.New(2),
		col.New(8).Add(code.NewQr(l.Payload, props.Rect{Percent: 95, Center: true})),
		col.New(2),
	))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New("ID: "+l.ContainerID, props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 2}),
	)))
	m.AddRows(row.New(10).Add(col.New(12).Add(
		text.New(Instructions, props.Text{Size: 9, Align: align.Center, Color: colorGray, Top: 2}),
	)))

	return generate(m)
}

// Sheet renders labels in a grid, labelsPerRow to a row, for cutting out.
func Sheet(labels []Label) ([]byte, error) {
	if len(labels) == 0 {
		return nil, fmt.Errorf("no labels to print")
	}

	m := maroto.New(pageConfig("Container labels"))
	for start := 0; start < len(labels); start += labelsPerRow {
		end := min(start+labelsPerRow, len(labels))
		m.AddRows(sheetRows(labels[start:end])...)
	}
	return generate(m)
}

// sheetRows lays out up to labelsPerRow labels: codes, names, then IDs.
func sheetRows(labels []Label) []core.Row {
	width := 12 / labelsPerRow
	codes := make([]core.Col, 0, labelsPerRow)
	names := make([]core.Col, 0, labelsPerRow)
	ids := make([]core.Col, 0, labelsPerRow)
	for _, l := range labels {
		codes = append(codes, col.New(width).Add(code.NewQr(l.Payload, props.Rect{Percent: 90, Center: true})))
		names = append(names, col.New(width).Add(text.New(l.Name, props.Text{
			Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorText, Top: 1,
		})))
		ids = append(ids, col.New(width).Add(text.New(l.ContainerID, props.Text{
			Size: 6, Align: align.Center, Color: colorGray,
		})))
	}
	// Pad short rows so the grid stays aligned.
	for range labelsPerRow - len(labels) {
		codes = append(codes, col.New(width))
		names = append(names, col.New(width))
		ids = append(ids, col.New(width))
	}

	return []core.Row{
		row.New(55).Add(codes...),
		row.New(7).Add(names...),
		row.New(5).Add(ids...),
		line.NewRow(4, props.Line{Color: colorGray, Thickness: 0.2, Style: linestyle.Dashed}),
	}
}

func pageConfig(title string) *entity.Config {
	return config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(title, true).
		WithCreator("skrinja", true).
		Build()
}

func generate(m core.Maroto) ([]byte, error) {
	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("generating PDF: %w", err)
	}
	return doc.GetBytes(), nil
}
