// Package tablewriter renders rows of strings as bordered ASCII tables.
// Column widths follow display width, so ANSI color codes and East Asian
// wide characters do not break alignment.
package tablewriter

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/mattn/go-runewidth"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// displayWidth returns the printed width of s. ANSI escape sequences count
// as zero columns and wide characters count as two.
func displayWidth(s string) int {
	return runewidth.StringWidth(ansiRegex.ReplaceAllString(s, ""))
}

// Writer accumulates a header and rows and renders them as an ASCII table.
type Writer struct {
	out     io.Writer
	headers []string
	rows    [][]string
}

// NewWriter creates a table writer that renders to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{out: w}
}

// Header sets the column headers. A header fixes the column count: longer
// rows are truncated and shorter rows are padded with empty cells.
func (t *Writer) Header(headers []string) {
	t.headers = headers
}

// Append adds a row to the table.
func (t *Writer) Append(row []string) {
	t.rows = append(t.rows, row)
}

// Render writes the table to the underlying writer. A table with no header
// and no rows renders nothing.
func (t *Writer) Render() {
	widths := t.columnWidths()
	if len(widths) == 0 {
		return
	}
	border := renderBorder(widths)
	fmt.Fprintln(t.out, border)
	if len(t.headers) > 0 {
		fmt.Fprintln(t.out, renderRow(t.headers, widths))
		fmt.Fprintln(t.out, border)
	}
	for _, row := range t.rows {
		fmt.Fprintln(t.out, renderRow(row, widths))
	}
	fmt.Fprintln(t.out, border)
}

// columnWidths computes the display width of every column. The header fixes
// the column count when present; otherwise the widest row does.
func (t *Writer) columnWidths() []int {
	columns := len(t.headers)
	if columns == 0 {
		for _, row := range t.rows {
			if len(row) > columns {
				columns = len(row)
			}
		}
	}
	widths := make([]int, columns)
	measure := func(row []string) {
		for i := 0; i < columns && i < len(row); i++ {
			if w := displayWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	measure(t.headers)
	for _, row := range t.rows {
		measure(row)
	}
	return widths
}

func renderBorder(widths []int) string {
	var b strings.Builder
	b.WriteByte('+')
	for _, width := range widths {
		b.WriteString(strings.Repeat("-", width+2))
		b.WriteByte('+')
	}
	return b.String()
}

func renderRow(row []string, widths []int) string {
	var b strings.Builder
	b.WriteByte('|')
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		padding := width - displayWidth(cell)
		b.WriteString(" ")
		b.WriteString(cell)
		b.WriteString(strings.Repeat(" ", padding))
		b.WriteString(" |")
	}
	return b.String()
}
