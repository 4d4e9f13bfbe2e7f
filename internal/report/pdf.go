package report

import (
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

// column widths on maroto's 12 unit grid, per report
var widths = map[Kind][]int{
	KindInventory:      {1, 3, 2, 1, 2, 2, 1},
	KindBotPerformance: {2, 2, 1, 2, 2, 3},
}

// PDF renders t as an A4 document.
func PDF(kind Kind, t Table, generatedAt time.Time) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle(kind.Title()+" Report", true).
		WithAuthor("AI Warehouse", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(row.New(14).Add(
		col.New(8).Add(text.New(kind.Title()+" Report", props.Text{
			Style: fontstyle.Bold, Size: 14, Color: colorPrimary, Top: 2,
		})),
		col.New(4).Add(text.New("Generated "+generatedAt.Format("2006-01-02 15:04 MST"), props.Text{
			Size: 8, Align: align.Right, Color: colorGray, Top: 5,
		})),
	))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	w := widths[kind]
	m.AddRows(tableRow(t.Headers, w, true))
	for _, r := range t.Rows {
		m.AddRows(tableRow(r, w, false))
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(row.New(6).Add(col.New(12).Add(text.New(fmt.Sprintf("%d rows", len(t.Rows)), props.Text{
		Size: 7, Color: colorGray, Align: align.Right,
	}))))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generate %s report: %w", kind, err)
	}
	return doc.GetBytes(), nil
}

func tableRow(cells []string, w []int, header bool) core.Row {
	style := fontstyle.Normal
	if header {
		style = fontstyle.Bold
	}
	cols := make([]core.Col, 0, len(cells))
	for i, c := range cells {
		size := 12 / len(cells)
		if i < len(w) {
			size = w[i]
		}
		cols = append(cols, col.New(size).Add(text.New(c, props.Text{
			Style: style, Size: 8, Top: 1, Left: 1, Right: 1,
		})))
	}
	return row.New(7).Add(cols...)
}
