package position

import (
	"fmt"

	"github.com/jedib0t/go-pretty/v6/table"
)

// Table renders records as a text table, one row per record.
func Table(records []Record) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"#", "Source", "Name", "Confidence", "Center", "Box", "Size", "Area"})
	for i, r := range records {
		conf := ""
		if r.Source == SourceDetection {
			conf = fmt.Sprintf("%.2f", r.Confidence)
		}
		b := r.BoundingBox
		t.AppendRow([]interface{}{
			fmt.Sprintf("%d", i+1),
			r.Source.String(),
			r.Name(),
			conf,
			fmt.Sprintf("(%g, %g)", r.Center.X, r.Center.Y),
			fmt.Sprintf("[%d, %d, %d, %d]", b.Min.X, b.Min.Y, b.Max.X, b.Max.Y),
			fmt.Sprintf("%dx%d", r.Width, r.Height),
			r.Area,
		})
	}
	t.AppendFooter(table.Row{"", "Total", len(records)})
	return t.Render()
}
