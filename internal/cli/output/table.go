package output

import (
	"github.com/jedib0t/go-pretty/v6/table"
)

// Table writes rows under header: a box-drawn table on terminals, an ASCII
// one in plain text and a pipe table in Markdown.
func (r *Renderer) Table(header table.Row, rows []table.Row) {
	t := table.NewWriter()
	t.SetOutputMirror(r.w)
	t.AppendHeader(header)
	t.AppendRows(rows)

	if r.EffectiveMode() == ModeMarkdown {
		t.RenderMarkdown()
		return
	}
	if r.isTTY {
		t.SetStyle(table.StyleLight)
	} else {
		t.SetStyle(table.StyleDefault)
	}
	t.Render()
}
