// Package sheet turns a spreadsheet grid into group creation requests.
//
// A grid is read column by column. A "Key"/"Value" column pair holds metadata shared by every
// group, a "Name"/"Phone" pair holds the contact roster, and every column headed by a date
// (month/day/year) describes one group: its second row is the time and each non-empty cell
// below marks the contact on that row as a member.
package sheet

import "strings"

// Grid is a spreadsheet range stored column by column.
type Grid []Column

// Column is one spreadsheet column. Row 0 is the header.
type Column []string

// FromRows transposes row-major cells into a Grid. Short rows are padded with empty cells so
// every column has the same length.
func FromRows(rows [][]string) Grid {
	if len(rows) == 0 {
		return Grid{}
	}

	width := 0
	for _, row := range rows {
		width = max(width, len(row))
	}

	grid := make(Grid, width)
	for i := range grid {
		grid[i] = make(Column, len(rows))
		for j, row := range rows {
			if i < len(row) {
				grid[i][j] = row[i]
			}
		}
	}
	return grid
}

// Column returns column i, or nil when i is out of range.
func (g Grid) Column(i int) Column {
	if i < 0 || i >= len(g) {
		return nil
	}
	return g[i]
}

// Cell returns the cell on row, or "" when the column is shorter.
func (c Column) Cell(row int) string {
	if row < 0 || row >= len(c) {
		return ""
	}
	return c[row]
}

// Header returns the normalized header cell.
func (c Column) Header() string {
	return strings.ToLower(strings.TrimSpace(c.Cell(0)))
}
