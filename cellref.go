package xloffer

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// CellRef points at a single cell of a workbook.
type CellRef struct {
	Sheet string // sheet name (empty = unspecified)
	Row   int    // 0-based row index
	Col   int    // 0-based column index
}

// NewCellRef creates a CellRef with explicit sheet, row, col.
func NewCellRef(sheet string, row, col int) CellRef {
	return CellRef{Sheet: sheet, Row: row, Col: col}
}

// ParseCellRef parses "A1", "$B$5" or "Oferta!C3" (quoted sheet names allowed).
func ParseCellRef(s string) (CellRef, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return CellRef{}, fmt.Errorf("empty cell reference")
	}

	var sheet string
	cellPart := s
	if idx := strings.LastIndex(s, "!"); idx >= 0 {
		sheet = strings.Trim(s[:idx], "'")
		cellPart = s[idx+1:]
	}

	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(cellPart, "$", ""))
	if err != nil {
		return CellRef{}, fmt.Errorf("invalid cell reference %q: %w", s, err)
	}
	return CellRef{Sheet: sheet, Row: row - 1, Col: col - 1}, nil
}

// String formats the reference as "Sheet!A1", or "A1" without a sheet.
func (c CellRef) String() string {
	if c.Sheet != "" {
		return c.Sheet + "!" + c.CellName()
	}
	return c.CellName()
}

// CellName returns the A1-style name without the sheet.
func (c CellRef) CellName() string {
	name, err := excelize.CoordinatesToCellName(c.Col+1, c.Row+1)
	if err != nil {
		return fmt.Sprintf("R%dC%d", c.Row+1, c.Col+1)
	}
	return name
}

// Right returns the cell immediately to the right.
func (c CellRef) Right() CellRef {
	return CellRef{Sheet: c.Sheet, Row: c.Row, Col: c.Col + 1}
}

// RowNumber returns the 1-based row number shown by spreadsheet applications.
func (c CellRef) RowNumber() int {
	return c.Row + 1
}

// ColToName converts a 0-based column index to a column name.
// 0→"A", 25→"Z", 26→"AA"
func ColToName(col int) string {
	name, err := excelize.ColumnNumberToName(col + 1)
	if err != nil {
		return ""
	}
	return name
}
