package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/services/export"
)

const (
	exportPageSize = 100
	maxExportPages = 500 // upper bound of pages fetched by an export
)

// rower is any model able to render itself as a table row.
type rower interface {
	Row() []string
}

func newTabWriter(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printTable[T rower](w io.Writer, headers []string, items []T) {
	tw := newTabWriter(w)
	fmt.Fprintln(tw, strings.Join(headers, "\t"))
	for _, item := range items {
		fmt.Fprintln(tw, strings.Join(item.Row(), "\t"))
	}
	_ = tw.Flush()
}

// printPage prints the page's items followed by the pagination footer.
func printPage[T rower](w io.Writer, headers []string, page core.Page[T]) {
	if len(page.Items) == 0 {
		fmt.Fprintln(w, "no results")
		return
	}
	printTable(w, headers, page.Items)
	fmt.Fprintln(w, pageFooter(page.Page, page.TotalPages(), page.Total))
}

func pageFooter(page, pages, total int) string {
	if pages < 1 {
		pages = 1
	}
	return fmt.Sprintf("page %d/%d · %d total", page, pages, total)
}

// printRecord prints one object as "HEADER  value" lines.
func printRecord[T rower](w io.Writer, headers []string, obj T) {
	tw := newTabWriter(w)
	row := obj.Row()
	for i, h := range headers {
		var val string
		if i < len(row) {
			val = row[i]
		}
		fmt.Fprintf(tw, "%s\t%s\n", h, val)
	}
	_ = tw.Flush()
}

// fetchAll walks a list endpoint page by page.
func fetchAll[T any](ctx context.Context, fetch func(ctx context.Context, page int) (core.Page[T], error)) ([]T, error) {
	var all []T
	for p := 1; p <= maxExportPages; p++ {
		page, err := fetch(ctx, p)
		if err != nil {
			return nil, err
		}
		all = append(all, page.Items...)
		if len(page.Items) == 0 || !page.HasNext() {
			break
		}
	}
	return all, nil
}

// celler is implemented by models with numeric columns, which spreadsheets keep as numbers.
type celler interface {
	Cells() []interface{}
}

func sheetOf[T rower](name string, headers []string, items []T) export.Sheet {
	rows := make([][]interface{}, 0, len(items))
	for _, item := range items {
		if c, ok := any(item).(celler); ok {
			rows = append(rows, c.Cells())
			continue
		}
		rows = append(rows, core.Cells(item.Row()))
	}
	return export.Sheet{Name: name, Headers: headers, Rows: rows}
}

// exportPath resolves the output file of an export: relative paths land in the export dir.
func (cli *commandLine) exportPath(out, prefix string) string {
	if out = core.CleanString(out); out == "" {
		out = fmt.Sprintf("%s-%s.xlsx", prefix, nowFunc().Format("20060102-150405"))
	}
	if !strings.HasSuffix(strings.ToLower(out), ".xlsx") {
		out += ".xlsx"
	}
	if !filepath.IsAbs(out) {
		out = filepath.Join(cli.conf.Export.Dir, out)
	}
	return out
}

func exportItems[T rower](cli *commandLine, path, name string, headers []string, items []T) error {
	if err := export.SaveXLSX(path, sheetOf(name, headers, items)); err != nil {
		return err
	}
	fmt.Fprintf(cli.out, "exported %d %s to %s\n", len(items), strings.ToLower(name), path)
	return nil
}
