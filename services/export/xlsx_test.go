package export

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf,
		Sheet{
			Name:    "Invoices",
			Headers: []string{"Number", "Room", "Total"},
			Rows: [][]interface{}{
				{"INV-001", "A101", 1250000},
				{"INV-002", "A102", 980000},
			},
		},
		Sheet{Name: "Summary", Headers: []string{"Count"}, Rows: [][]interface{}{{2}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Invoices", "Summary"}, f.GetSheetList())

	rows, err := f.GetRows("Invoices")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"Number", "Room", "Total"},
		{"INV-001", "A101", "1250000"},
		{"INV-002", "A102", "980000"},
	}, rows)

	styleID, err := f.GetCellStyle("Invoices", "A1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	if assert.NotNil(t, style.Font) {
		assert.True(t, style.Font.Bold)
	}
}

func TestWriteXLSX_noSheets(t *testing.T) {
	var buf bytes.Buffer
	assert.EqualError(t, WriteXLSX(&buf), "nothing to export")
}

func TestSaveXLSX_ReadRows(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "readings.xlsx")
	require.NoError(t, SaveXLSX(path, Sheet{
		Headers: []string{"room", "month"},
		Rows:    [][]interface{}{{"r1", 5}},
	}))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Sheet1"}, f.GetSheetList())

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	rows, err := ReadRows(&buf)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"room", "month"}, {"r1", "5"}}, rows)
}

func TestReadRows_rawValues(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"r1", 1234567.5, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)}))
	thousands, err := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle("Sheet1", "B1", "B1", thousands))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	rows, err := ReadRows(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "r1", rows[0][0])
	assert.Equal(t, "1234567.5", rows[0][1])

	date, err := CellDate(rows[0][2])
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC), date)
}

func TestCellDate(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    time.Time
		wantErr bool
	}{
		{name: "blank", value: " "},
		{name: "serial", value: "45382", want: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{name: "serial with time", value: "45382.75", want: time.Date(2024, 3, 31, 0, 0, 0, 0, time.UTC)},
		{name: "text", value: "2024-03-30", want: time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)},
		{name: "other layout", value: "30/03/2024", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CellDate(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
