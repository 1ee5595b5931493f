// Package run executes statements against a connection and prints the
// outcome.
package run

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/atotto/clipboard"

	"github.com/eduardofuncao/pamdb/internal/db"
	"github.com/eduardofuncao/pamdb/internal/parser"
	"github.com/eduardofuncao/pamdb/internal/spinner"
	"github.com/eduardofuncao/pamdb/internal/styles"
	"github.com/eduardofuncao/pamdb/internal/table"
)

// Mode selects how a select result is printed.
type Mode int

const (
	ModeTable Mode = iota
	ModeOne
	ModeValue
	ModeColumn
)

type Options struct {
	Mode        Mode
	Column      int
	Copy        bool
	ColumnWidth int
	// Spinner is where the progress timer is drawn, nil to disable it.
	Spinner io.Writer
}

// Execute runs sql with named values on conn and writes the result to out.
func Execute(ctx context.Context, conn *db.Connection, sql string, values map[string]any, out io.Writer, opts Options) error {
	stop := func() {}
	if opts.Spinner != nil {
		stop = spinner.Start(opts.Spinner)
	}

	if !IsSelectQuery(sql) {
		start := time.Now()
		res, err := conn.ExecNamed(ctx, sql, values)
		stop()
		if err != nil {
			return err
		}
		affected, err := res.RowsAffected()
		msg := fmt.Sprintf("✓ Statement executed in %.2fs", time.Since(start).Seconds())
		if err == nil {
			msg = fmt.Sprintf("✓ %d rows affected in %.2fs", affected, time.Since(start).Seconds())
		}
		fmt.Fprintln(out, styles.Success.Render(msg))
		return nil
	}

	start := time.Now()
	res, err := conn.QueryNamed(ctx, sql, values)
	if err != nil {
		stop()
		return err
	}
	text, plain, err := render(res, opts, start)
	stop()
	if err != nil {
		return err
	}

	fmt.Fprintln(out, text)
	if opts.Copy {
		if err := clipboard.WriteAll(plain); err != nil {
			return fmt.Errorf("copy to clipboard: %w", err)
		}
		fmt.Fprintln(out, styles.Faint.Render("copied to clipboard"))
	}
	return nil
}

// render returns the text to print and a plain version for the clipboard.
func render(res *db.QueryResult, opts Options, start time.Time) (string, string, error) {
	switch opts.Mode {
	case ModeValue:
		v, err := res.FetchValue()
		if err != nil {
			return "", "", err
		}
		text := table.FormatValue(v)
		return text, text, nil

	case ModeColumn:
		values, err := res.FetchColumn(opts.Column)
		if err != nil {
			return "", "", err
		}
		lines := make([]string, len(values))
		for i, v := range values {
			lines[i] = table.FormatValue(v)
		}
		text := strings.Join(lines, "\n")
		return text, text, nil

	case ModeOne:
		row, err := res.FetchOne()
		if err != nil {
			return "", "", err
		}
		cells := table.Cells([]db.Row{row})
		return table.Render(row.Columns(), cells, opts.ColumnWidth), table.TSV(row.Columns(), cells), nil
	}

	rows, err := res.FetchAll()
	if err != nil {
		return "", "", err
	}
	columns := res.Columns()
	if len(rows) == 0 {
		return styles.Faint.Render("No results found"), strings.Join(columns, "\t"), nil
	}
	cells := table.Cells(rows)
	text := table.Render(columns, cells, opts.ColumnWidth) + "\n" + table.Footer(len(rows), len(columns), time.Since(start))
	return text, table.TSV(columns, cells), nil
}

// PrintQuery shows a saved query with syntax highlighting.
func PrintQuery(out io.Writer, id int, name, sql string) {
	fmt.Fprintln(out, styles.Title.Render(fmt.Sprintf("◆ %d/%s", id, name)))
	fmt.Fprintln(out, parser.HighlightSQL(parser.FormatSQLWithLineBreaks(sql)))
}
