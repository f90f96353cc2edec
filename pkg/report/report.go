// Package report exports floor status as an Excel workbook.
//
// The workbook opens on a Summary sheet with one row per floor and carries one
// sheet per floor listing every room with its status, request count and
// geometry. Status cells are filled with the map colors.
package report

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/matzehuels/facilitymap/pkg/floor"
	"github.com/matzehuels/facilitymap/pkg/reconcile"
	"github.com/matzehuels/facilitymap/pkg/render/blueprint"
)

// SummarySheet is the name of the first sheet.
const SummarySheet = "Summary"

// Excel limits sheet names to 31 characters.
const maxSheetName = 31

// Floor is one floor in the report.
type Floor struct {
	Layout floor.Layout
	// Live marks floors whose statuses came from the backend.
	Live bool
}

// Source describes where the statuses came from.
func (f Floor) Source() string {
	if f.Live {
		return "live"
	}
	return "default"
}

// SummaryHeader is the header row of the Summary sheet.
var SummaryHeader = []string{
	"Building",
	"Floor",
	"Total",
	"Pending",
	"In Progress",
	"Completed",
	"No Request",
	"Source",
}

// RoomHeader is the header row of each floor sheet.
var RoomHeader = []string{
	"ID",
	"Number",
	"Name",
	"Kind",
	"Status",
	"Requests",
	"X",
	"Y",
	"Width",
	"Height",
}

// Workbook builds the XLSX for floors, in the given order.
func Workbook(floors ...Floor) ([]byte, error) {
	f := excelize.NewFile()
	// WriteTo needs the file open, so Close is called on each return path.

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	w := &writer{f: f}
	if err := w.styles(); err != nil {
		f.Close()
		return nil, err
	}
	if err := w.summary(floors); err != nil {
		f.Close()
		return nil, err
	}

	used := map[string]bool{SummarySheet: true}
	for _, fl := range floors {
		name := SheetName(fl.Layout.Building, fl.Layout.Floor, used)
		used[name] = true
		if err := w.floorSheet(name, fl.Layout); err != nil {
			f.Close()
			return nil, err
		}
	}
	f.SetActiveSheet(0)

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		f.Close()
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("close workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// SheetName derives a unique, Excel-safe sheet name for a floor.
func SheetName(building, fl string, used map[string]bool) string {
	base := strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return '-'
		}
		return r
	}, strings.TrimSpace(building+" "+fl))
	if base == "" {
		base = "Floor"
	}
	base = truncate(base, maxSheetName)

	name := base
	for i := 2; used[name]; i++ {
		suffix := fmt.Sprintf(" (%d)", i)
		name = truncate(base, maxSheetName-len(suffix)) + suffix
	}
	return name
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n]))
}

type writer struct {
	f      *excelize.File
	header int
	status map[floor.Status]int
}

func (w *writer) styles() error {
	var err error
	w.header, err = w.f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#DBEAFE"},
			Pattern: 1,
		},
		Border: []excelize.Border{
			{Type: "bottom", Color: "1E3A8A", Style: 1},
		},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	w.status = make(map[floor.Status]int, len(floor.Statuses))
	for _, st := range floor.Statuses {
		id, err := w.f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{
				Type:    "pattern",
				Color:   []string{blueprint.StatusColor(st)},
				Pattern: 1,
			},
		})
		if err != nil {
			return fmt.Errorf("create %s style: %w", st, err)
		}
		w.status[st] = id
	}
	return nil
}

func (w *writer) summary(floors []Floor) error {
	if err := w.headerRow(SummarySheet, SummaryHeader, []float64{18, 16, 8, 10, 12, 12, 12, 10}); err != nil {
		return err
	}
	for i, fl := range floors {
		s := reconcile.Compute(fl.Layout.Rooms)
		row := []any{
			fl.Layout.Building, fl.Layout.Floor,
			s.Total, s.Pending, s.InProgress, s.Completed, s.NoRequest,
			fl.Source(),
		}
		if err := w.row(SummarySheet, i+2, row); err != nil {
			return err
		}
	}
	return w.freeze(SummarySheet)
}

func (w *writer) floorSheet(name string, l floor.Layout) error {
	if _, err := w.f.NewSheet(name); err != nil {
		return fmt.Errorf("create sheet %q: %w", name, err)
	}
	if err := w.headerRow(name, RoomHeader, []float64{20, 12, 28, 10, 14, 10, 8, 8, 8, 8}); err != nil {
		return err
	}

	row := 2
	for _, r := range l.Rooms {
		if r.Kind.Decorative() {
			continue
		}
		values := []any{
			r.ID, r.Number, r.Name, string(r.Kind), string(r.Status), r.RequestCount,
			r.X, r.Y, r.Width, r.Height,
		}
		if err := w.row(name, row, values); err != nil {
			return err
		}
		if style, ok := w.status[r.Status]; ok {
			cell, _ := excelize.CoordinatesToCellName(5, row)
			if err := w.f.SetCellStyle(name, cell, cell, style); err != nil {
				return fmt.Errorf("style %s!%s: %w", name, cell, err)
			}
		}
		row++
	}
	return w.freeze(name)
}

func (w *writer) headerRow(sheet string, header []string, widths []float64) error {
	for col, h := range header {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := w.f.SetCellValue(sheet, cell, h); err != nil {
			return fmt.Errorf("set header %s!%s: %w", sheet, cell, err)
		}
		if err := w.f.SetCellStyle(sheet, cell, cell, w.header); err != nil {
			return fmt.Errorf("style header %s!%s: %w", sheet, cell, err)
		}
	}
	for i, width := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := w.f.SetColWidth(sheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func (w *writer) row(sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := w.f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func (w *writer) freeze(sheet string) error {
	if err := w.f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze header of %s: %w", sheet, err)
	}
	return nil
}
