package xloffer

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Cell is a populated cell with its formatted text.
type Cell struct {
	Ref  CellRef
	Text string
}

// Sheet is the cell-level view the rewrite rules work against.
// Rows and columns are 0-based throughout.
type Sheet interface {
	// Name returns the worksheet name.
	Name() string

	// Cells returns every populated cell in row-major order.
	Cells() []Cell

	// FindFirst returns the first populated cell, in row-major order, accepted by match.
	FindFirst(match func(Cell) bool) (Cell, bool)

	// Text returns the raw stored text of a cell ("" for blank cells).
	Text(ref CellRef) string

	// DisplayText returns the cell text rendered with its number format.
	DisplayText(ref CellRef) string

	// Number returns the stored value of a numeric cell. It reports false
	// for text, formula-string, boolean and blank cells.
	Number(ref CellRef) (decimal.Decimal, bool)

	// WriteText stores a string, keeping the cell style.
	WriteText(ref CellRef, value string) error

	// WriteDate stores a date-only value, keeping the cell style when it
	// already carries a date number format.
	WriteDate(ref CellRef, value time.Time) error

	// WriteNumber stores a numeric value, keeping the cell style (and so its number format).
	WriteNumber(ref CellRef, value float64) error
}

// ContainsFold reports whether substr is within s, ignoring case.
func ContainsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

// labelMatcher returns a FindFirst predicate matching cells that contain label.
func labelMatcher(label string) func(Cell) bool {
	return func(c Cell) bool {
		return ContainsFold(c.Text, label)
	}
}

// findFirst scans cells in order; shared by Sheet implementations.
func findFirst(cells []Cell, match func(Cell) bool) (Cell, bool) {
	for _, c := range cells {
		if match(c) {
			return c, true
		}
	}
	return Cell{}, false
}

// DocumentFormatError reports that the input bytes are not a readable workbook.
type DocumentFormatError struct {
	Err error
}

func (e *DocumentFormatError) Error() string {
	return fmt.Sprintf("invalid offer document: %v", e.Err)
}

func (e *DocumentFormatError) Unwrap() error { return e.Err }
