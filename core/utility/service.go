package utility

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/dormadmin/core"
	"github.com/trezcool/dormadmin/services/export"
)

const basePath = "/api/utilities"

var nowFunc = time.Now // mockable

type Service struct {
	res      core.Resource[Reading]
	validate *core.Validator
}

func NewService(req core.Requester, v *core.Validator) *Service {
	if v == nil {
		v = core.NewValidator()
	}
	return &Service{res: core.NewResource[Reading](req, basePath), validate: v}
}

func (svc *Service) List(ctx context.Context, filter QueryFilter) (core.Page[Reading], error) {
	return svc.res.List(ctx, filter.Values())
}

func (svc *Service) Get(ctx context.Context, id string) (Reading, error) {
	return svc.res.Get(ctx, id)
}

// Latest returns the most recent reading of a room; core.ErrNotFound if there is none.
func (svc *Service) Latest(ctx context.Context, roomID string) (Reading, error) {
	if roomID = core.CleanString(roomID); roomID == "" {
		return Reading{}, core.ErrNotFound
	}
	r, err := svc.res.Fetch(ctx, core.Request{Path: svc.res.Path("latest", roomID)})
	if err == nil && r.ID == "" && r.Room.IsZero() {
		// null data: the room was never read
		return r, core.ErrNotFound
	}
	return r, err
}

// Create sends a reading as is.
func (svc *Service) Create(ctx context.Context, nr NewReading) (Reading, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Reading{}, err
	}
	return svc.res.Create(ctx, nr)
}

// Record checks a new reading against the room's latest one before creating it.
func (svc *Service) Record(ctx context.Context, nr NewReading) (Reading, error) {
	if err := nr.Validate(svc.validate); err != nil {
		return Reading{}, err
	}

	latest, err := svc.Latest(ctx, nr.RoomID)
	switch {
	case core.IsNotFound(err):
		// first reading of the room
	case err != nil:
		return Reading{}, errors.Wrap(err, "fetching latest reading")
	default:
		if latest.Month == nr.Month && latest.Year == nr.Year {
			return Reading{}, core.NewValidationError(nil, core.FieldError{
				Field: "month",
				Error: "a reading already exists for this period",
			})
		}
		if err = nr.checkAgainst(latest); err != nil {
			return Reading{}, err
		}
	}
	return svc.res.Create(ctx, nr)
}

func (svc *Service) Update(ctx context.Context, id string, ur UpdateReading) (Reading, error) {
	if err := svc.validate.Struct(ur); err != nil {
		return Reading{}, err
	}
	return svc.res.Update(ctx, id, ur)
}

func (svc *Service) Delete(ctx context.Context, id string) error {
	return svc.res.Delete(ctx, id)
}

type (
	// RowError is a spreadsheet row that could not be recorded.
	RowError struct {
		Row int // 1-based, as shown by spreadsheet programs
		Err error
	}

	ImportResult struct {
		Recorded []Reading
		Errors   []RowError
	}
)

func (e RowError) Error() string {
	return "row " + strconv.Itoa(e.Row) + ": " + e.Err.Error()
}

// ImportColumns are the expected columns of an import sheet, in order.
var ImportColumns = []string{"room", "month", "year", "electricity", "water", "readingDate"}

// Import records every row of the first sheet of an xlsx workbook. The first row is a header.
// Failing rows are collected without aborting the import.
func (svc *Service) Import(ctx context.Context, r io.Reader) (ImportResult, error) {
	var res ImportResult
	rows, err := export.ReadRows(r)
	if err != nil {
		return res, err
	}

	for i, row := range rows {
		if i == 0 || blankRow(row) {
			continue
		}
		if err = ctx.Err(); err != nil {
			return res, err
		}

		nr, err := parseRow(row)
		if err == nil {
			var rd Reading
			if rd, err = svc.Record(ctx, nr); err == nil {
				res.Recorded = append(res.Recorded, rd)
				continue
			}
		}
		if core.IsUnauthorized(err) {
			return res, err
		}
		res.Errors = append(res.Errors, RowError{Row: i + 1, Err: err})
	}
	return res, nil
}

func parseRow(row []string) (NewReading, error) {
	var nr NewReading
	cell := func(i int) string {
		if i < len(row) {
			return strings.TrimSpace(row[i])
		}
		return ""
	}

	var err error
	nr.RoomID = cell(0)
	if nr.Month, err = strconv.Atoi(cell(1)); err != nil {
		return nr, errors.Errorf("invalid month %q", cell(1))
	}
	if nr.Year, err = strconv.Atoi(cell(2)); err != nil {
		return nr, errors.Errorf("invalid year %q", cell(2))
	}
	if nr.Electricity, err = strconv.ParseFloat(cell(3), 64); err != nil {
		return nr, errors.Errorf("invalid electricity index %q", cell(3))
	}
	if nr.Water, err = strconv.ParseFloat(cell(4), 64); err != nil {
		return nr, errors.Errorf("invalid water index %q", cell(4))
	}
	if nr.ReadingDate, err = export.CellDate(cell(5)); err != nil {
		return nr, errors.Errorf("invalid reading date %q", cell(5))
	}
	return nr, nil
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
