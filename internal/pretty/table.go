package pretty

import (
	"strings"

	"github.com/chriserin/ftfmt/internal/event"
	"github.com/chriserin/ftfmt/internal/text"
	"github.com/chriserin/ftfmt/internal/ui"
)

// tableView is the table currently being rendered, from the table-begins
// event to the matching table-ends event.
type tableView struct {
	table   *event.Table
	escaper text.Escaper
	outline bool

	widths []int
	col    int
	line   strings.Builder
}

func newTableView(t *event.Table, escaper text.Escaper, outline bool) *tableView {
	return &tableView{table: t, escaper: escaper, outline: outline}
}

// colWidth is the widest escaped value of column i across the header and
// every body row, in code points.
func (tv *tableView) colWidth(i int) int {
	if tv.widths == nil {
		tv.widths = columnWidths(tv.table, tv.escaper)
	}
	if i < 0 || i >= len(tv.widths) {
		return 0
	}
	return tv.widths[i]
}

func columnWidths(t *event.Table, escaper text.Escaper) []int {
	widths := []int{}
	if t == nil {
		return widths
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			for len(widths) <= i {
				widths = append(widths, 0)
			}
			if w := text.Width(escaper.EscapeCell(cell)); w > widths[i] {
				widths[i] = w
			}
		}
	}
	return widths
}

func (f *Formatter) tableInactive(name string) bool {
	if f.table == nil {
		f.log.Debug().Str("event", name).Msg("no active table")
		return true
	}
	return f.hidden
}

// BeforeMultilineArg activates a step argument table.
func (f *Formatter) BeforeMultilineArg(t *event.Table) {
	if f.opts.NoMultiline || f.hidden {
		return
	}
	f.table = newTableView(t, f.escaper, false)
}

func (f *Formatter) AfterMultilineArg() {
	f.table = nil
}

// BeforeOutlineTable activates an examples table.
func (f *Formatter) BeforeOutlineTable(t *event.Table) {
	f.table = newTableView(t, f.escaper, true)
}

func (f *Formatter) AfterOutlineTable() {
	f.table = nil
	f.indent.Set(4)
}

func (f *Formatter) BeforeTableRow(row *event.TableRow) {
	if f.tableInactive("before_table_row") {
		return
	}
	f.table.col = 0
	f.table.line.Reset()
	f.table.line.WriteString(text.Indent("  |", f.indent.Current()-2))
}

// TableCellValue renders the next cell of the current row. A cell without
// its own status takes the last step status, or passed.
func (f *Formatter) TableCellValue(value string, status event.MaybeStatus) {
	if f.table == nil {
		f.log.Debug().Str("event", "table_cell_value").Msg("no active table")
		return
	}
	col := f.table.col
	f.table.col++
	if f.hidden {
		return
	}

	st := status.Or(f.status.Or(event.Passed))
	padded := text.Pad(f.escaper.EscapeCell(value), f.table.colWidth(col))
	f.table.line.WriteString(" ")
	f.table.line.WriteString(f.paint.Paint(f.opts.Prefixes.For(st)+padded, ui.ForStatus(st)))
	f.table.line.WriteString(f.paint.Reset(" |"))
}

func (f *Formatter) AfterTableRow(row *event.TableRow) {
	if f.tableInactive("after_table_row") {
		return
	}
	if len(f.delayed) > 0 {
		msg := strings.Join(f.delayed, ", ")
		f.table.line.WriteString(text.Indent(f.paint.Paint(msg, ui.Tag), 2))
		f.delayed = nil
	}
	f.puts(f.table.line.String())
	f.table.line.Reset()
	f.flush()

	if row != nil && f.exceptions.RecordAndShouldPrint(row.Exception) {
		f.printException(row.Exception, row.Status.Or(f.status.Or(event.Failed)), f.indent.Current())
		f.flush()
	}
}
