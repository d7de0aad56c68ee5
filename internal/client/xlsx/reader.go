// Package xlsx reads schedules from local Excel workbooks.
package xlsx

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// DateLayout is how date-formatted cells are rendered, whatever their number format in Excel.
const DateLayout = "1/2/2006"

// built-in number formats showing a date
var dateNumFmts = map[int]bool{14: true, 15: true, 16: true, 17: true, 22: true}

// ReadRows returns the formatted cell values of worksheet, row by row. An empty worksheet
// name reads the first one. cells is an optional A1 range to crop to, such as "A1:D20",
// "A:Z" or "2:40".
func ReadRows(path, worksheet, cells string) ([][]string, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("file not found: %s: %w", path, err)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %w", path, err)
	}
	defer f.Close()

	if worksheet == "" {
		worksheet = f.GetSheetName(0)
	}
	if idx, err := f.GetSheetIndex(worksheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("sheet %q not found in %s, available sheets: %v", worksheet, path, f.GetSheetList())
	}

	rows, err := f.GetRows(worksheet)
	if err != nil {
		return nil, fmt.Errorf("could not read sheet %q: %w", worksheet, err)
	}
	if err := renderDates(f, worksheet, rows); err != nil {
		return nil, err
	}

	if cells == "" {
		return rows, nil
	}
	return crop(rows, cells)
}

// renderDates rewrites date-formatted cells as DateLayout. GetRows applies the cell's number
// format, and the built-in short date comes out as "01-01-24".
func renderDates(f *excelize.File, worksheet string, rows [][]string) error {
	date1904 := false
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		date1904 = *props.Date1904
	}

	isDate := map[int]bool{}
	for r, row := range rows {
		for c, value := range row {
			if value == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				return err
			}
			styleID, err := f.GetCellStyle(worksheet, cell)
			if err != nil || styleID == 0 {
				continue
			}
			date, ok := isDate[styleID]
			if !ok {
				date = isDateStyle(f, styleID)
				isDate[styleID] = date
			}
			if !date {
				continue
			}

			raw, err := f.GetCellValue(worksheet, cell, excelize.Options{RawCellValue: true})
			if err != nil {
				return fmt.Errorf("could not read cell %s: %w", cell, err)
			}
			serial, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				// a date format on a text cell
				continue
			}
			t, err := excelize.ExcelDateToTime(serial, date1904)
			if err != nil {
				continue
			}
			row[c] = t.Format(DateLayout)
		}
	}
	return nil
}

func isDateStyle(f *excelize.File, styleID int) bool {
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return false
	}
	if dateNumFmts[style.NumFmt] {
		return true
	}
	if style.CustomNumFmt != nil {
		custom := strings.ToLower(*style.CustomNumFmt)
		return strings.Contains(custom, "d") && strings.Contains(custom, "y")
	}
	return false
}

// crop keeps the cells inside an A1 range such as "B2:F30". Either end may leave out its
// column or its row, as in "A:C" or "2:10", which leaves that side unbounded.
func crop(rows [][]string, cells string) ([][]string, error) {
	from, to, ok := strings.Cut(cells, ":")
	if !ok {
		to = from
	}
	col1, row1, err := parseRef(from)
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", cells, err)
	}
	col2, row2, err := parseRef(to)
	if err != nil {
		return nil, fmt.Errorf("invalid range %q: %w", cells, err)
	}
	col1, row1 = max(col1, 1), max(row1, 1)
	if col2 == 0 {
		col2 = math.MaxInt
	}
	if row2 == 0 {
		row2 = math.MaxInt
	}

	var out [][]string
	for r := row1 - 1; r < row2 && r < len(rows); r++ {
		row := rows[r]
		var kept []string
		for c := col1 - 1; c < col2 && c < len(row); c++ {
			kept = append(kept, row[c])
		}
		out = append(out, kept)
	}
	return out, nil
}

// parseRef reads one end of an A1 range. A missing column or row is returned as 0.
func parseRef(ref string) (col, row int, err error) {
	ref = strings.ToUpper(strings.ReplaceAll(strings.TrimSpace(ref), "$", ""))
	letters := strings.TrimRight(ref, "0123456789")
	digits := ref[len(letters):]
	if letters == "" && digits == "" {
		return 0, 0, fmt.Errorf("empty cell reference")
	}

	if letters != "" {
		if col, err = excelize.ColumnNameToNumber(letters); err != nil {
			return 0, 0, err
		}
	}
	if digits != "" {
		if row, err = strconv.Atoi(digits); err != nil || row < 1 {
			return 0, 0, fmt.Errorf("invalid row in %q", ref)
		}
	}
	return col, row, nil
}
