// Package table renders query results for the terminal.
package table

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	ltable "github.com/charmbracelet/lipgloss/table"
	"github.com/mattn/go-runewidth"

	"github.com/eduardofuncao/pamdb/internal/db"
	"github.com/eduardofuncao/pamdb/internal/styles"
)

const nullText = "NULL"

// DefaultColumnWidth caps cells so wide text does not wrap the table.
const DefaultColumnWidth = 40

// FormatValue turns a driver value into display text.
func FormatValue(v any) string {
	switch v := v.(type) {
	case nil:
		return nullText
	case time.Time:
		return v.Format(time.RFC3339)
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(v)
	}
}

// Cells formats rows for rendering or export.
func Cells(rows []db.Row) [][]string {
	out := make([][]string, len(rows))
	for i, row := range rows {
		cells := make([]string, row.Len())
		for j, v := range row.Values() {
			cells[j] = FormatValue(v)
		}
		out[i] = cells
	}
	return out
}

func truncate(s string, width int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if width <= 0 || runewidth.StringWidth(s) <= width {
		return s
	}
	return runewidth.Truncate(s, width, "…")
}

// Render draws a bordered table with one header row.
func Render(columns []string, data [][]string, columnWidth int) string {
	rows := make([][]string, len(data))
	for i, r := range data {
		rows[i] = make([]string, len(r))
		for j, c := range r {
			rows[i][j] = truncate(c, columnWidth)
		}
	}

	t := ltable.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(styles.TableBorder).
		Headers(columns...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == ltable.HeaderRow {
				return styles.TableHeader
			}
			if row >= 0 && row < len(data) && col < len(data[row]) && data[row][col] == nullText {
				return styles.TableNull
			}
			return styles.TableCell
		})
	return t.String()
}

// Footer summarizes a result set.
func Footer(rows, cols int, elapsed time.Duration) string {
	noun := "rows"
	if rows == 1 {
		noun = "row"
	}
	return styles.Faint.Render(fmt.Sprintf("%d %s, %d columns in %.2fs", rows, noun, cols, elapsed.Seconds()))
}

// TSV renders the result as tab separated values for the clipboard.
func TSV(columns []string, data [][]string) string {
	var b strings.Builder
	b.WriteString(strings.Join(columns, "\t"))
	for _, row := range data {
		b.WriteString("\n")
		b.WriteString(strings.Join(row, "\t"))
	}
	return b.String()
}
