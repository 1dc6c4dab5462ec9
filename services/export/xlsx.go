// Package export writes console tables to xlsx workbooks.
package export

import (
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// Sheet is one table of a workbook.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]interface{}
}

// WriteXLSX writes the sheets as one workbook to w.
func WriteXLSX(w io.Writer, sheets ...Sheet) error {
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = f.Write(w); err != nil {
		return errors.Wrap(err, "writing workbook")
	}
	return nil
}

// SaveXLSX writes the sheets as one workbook to path, creating its directory if needed.
func SaveXLSX(path string, sheets ...Sheet) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrap(err, "creating export directory")
		}
	}
	f, err := build(sheets)
	if err != nil {
		return err
	}
	defer f.Close()

	if err = f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "saving %s", path)
	}
	return nil
}

func build(sheets []Sheet) (*excelize.File, error) {
	if len(sheets) == 0 {
		return nil, errors.New("nothing to export")
	}

	f := excelize.NewFile()
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, errors.Wrap(err, "creating header style")
	}

	for i, sh := range sheets {
		name := sh.Name
		if name == "" {
			name = defaultSheet
		}
		if i == 0 {
			if name != defaultSheet {
				if err = f.SetSheetName(defaultSheet, name); err != nil {
					_ = f.Close()
					return nil, errors.Wrapf(err, "naming sheet %q", name)
				}
			}
		} else if _, err = f.NewSheet(name); err != nil {
			_ = f.Close()
			return nil, errors.Wrapf(err, "creating sheet %q", name)
		}

		if err = writeSheet(f, name, sh, bold); err != nil {
			_ = f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)
	return f, nil
}

func writeSheet(f *excelize.File, name string, sh Sheet, headerStyle int) error {
	row := 1
	if len(sh.Headers) > 0 {
		headers := make([]interface{}, len(sh.Headers))
		for i, h := range sh.Headers {
			headers[i] = h
		}
		if err := f.SetSheetRow(name, "A1", &headers); err != nil {
			return errors.Wrapf(err, "%s: writing headers", name)
		}
		last, _ := excelize.ColumnNumberToName(len(sh.Headers))
		if err := f.SetCellStyle(name, "A1", last+"1", headerStyle); err != nil {
			return errors.Wrapf(err, "%s: styling headers", name)
		}
		_ = f.SetColWidth(name, "A", last, 18)
		row++
	}

	for _, values := range sh.Rows {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return errors.Wrapf(err, "%s: row %d", name, row)
		}
		vals := values
		if err = f.SetSheetRow(name, cell, &vals); err != nil {
			return errors.Wrapf(err, "%s: writing row %d", name, row)
		}
		row++
	}
	return nil
}

// ReadRows returns the raw cell values of the first sheet of the workbook read from r.
// Number formats are not applied: dates come back as serial numbers, see CellDate.
func ReadRows(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Wrap(err, "opening workbook")
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook does not contain any sheets")
	}
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %s", sheet)
	}
	return rows, nil
}

// CellDate reads a date cell, either an Excel date serial or a YYYY-MM-DD text.
// A blank cell is the zero time.
func CellDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, nil
	}
	if serial, err := strconv.ParseFloat(value, 64); err == nil {
		t, err := excelize.ExcelDateToTime(serial, false)
		if err != nil {
			return time.Time{}, errors.Wrapf(err, "date serial %s", value)
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
	}
	return time.ParseInLocation("2006-01-02", value, time.UTC)
}
