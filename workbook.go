package xloffer

import (
	"bytes"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// workbook wraps an excelize file and hands out Sheet views over it.
type workbook struct {
	file       *excelize.File
	dateFormat string

	mu         sync.Mutex
	dateStyles map[int]int // source style ID → style ID carrying a date format
}

// openWorkbook reads an xlsx document from memory.
func openWorkbook(doc []byte, dateFormat string) (*workbook, error) {
	f, err := excelize.OpenReader(bytes.NewReader(doc))
	if err != nil {
		return nil, &DocumentFormatError{Err: err}
	}
	if len(f.GetSheetList()) == 0 {
		f.Close()
		return nil, &DocumentFormatError{Err: fmt.Errorf("workbook has no worksheets")}
	}
	return &workbook{
		file:       f,
		dateFormat: dateFormat,
		dateStyles: make(map[int]int),
	}, nil
}

// Sheets returns one view per worksheet, in workbook order.
func (wb *workbook) Sheets() []Sheet {
	names := wb.file.GetSheetList()
	sheets := make([]Sheet, 0, len(names))
	for _, name := range names {
		sheets = append(sheets, &excelSheet{wb: wb, name: name})
	}
	return sheets
}

// Bytes serializes the workbook.
func (wb *workbook) Bytes() ([]byte, error) {
	buf, err := wb.file.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// Close releases the underlying excelize file.
func (wb *workbook) Close() error {
	return wb.file.Close()
}

// dateStyle returns a style ID equivalent to styleID that renders dates.
// Styles that already carry a date (or any custom) number format are returned unchanged.
func (wb *workbook) dateStyle(styleID int) (int, error) {
	wb.mu.Lock()
	defer wb.mu.Unlock()

	if id, ok := wb.dateStyles[styleID]; ok {
		return id, nil
	}
	style, err := wb.file.GetStyle(styleID)
	if err != nil {
		return 0, fmt.Errorf("read style %d: %w", styleID, err)
	}
	if hasDateFormat(style) {
		wb.dateStyles[styleID] = styleID
		return styleID, nil
	}

	format := wb.dateFormat
	style.NumFmt = 0
	style.CustomNumFmt = &format
	id, err := wb.file.NewStyle(style)
	if err != nil {
		return 0, fmt.Errorf("derive date style from %d: %w", styleID, err)
	}
	wb.dateStyles[styleID] = id
	return id, nil
}

// hasDateFormat reports whether a style renders its value as a date.
// Custom formats are trusted as-is.
func hasDateFormat(style *excelize.Style) bool {
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return true
	}
	n := style.NumFmt
	return (n >= 14 && n <= 22) || (n >= 27 && n <= 36) || (n >= 45 && n <= 47) || (n >= 50 && n <= 58)
}

// excelSheet implements Sheet on top of a workbook.
type excelSheet struct {
	wb   *workbook
	name string
}

func (s *excelSheet) Name() string { return s.name }

func (s *excelSheet) Cells() []Cell {
	rows, err := s.wb.file.GetRows(s.name)
	if err != nil {
		return nil
	}
	var cells []Cell
	for rowIdx, row := range rows {
		for colIdx, val := range row {
			if val == "" {
				continue
			}
			cells = append(cells, Cell{Ref: NewCellRef(s.name, rowIdx, colIdx), Text: val})
		}
	}
	return cells
}

func (s *excelSheet) FindFirst(match func(Cell) bool) (Cell, bool) {
	return findFirst(s.Cells(), match)
}

func (s *excelSheet) Text(ref CellRef) string {
	v, err := s.wb.file.GetCellValue(s.name, ref.CellName(), excelize.Options{RawCellValue: true})
	if err != nil {
		return ""
	}
	return v
}

func (s *excelSheet) DisplayText(ref CellRef) string {
	v, err := s.wb.file.GetCellValue(s.name, ref.CellName())
	if err != nil {
		return ""
	}
	return v
}

// Number treats untyped cells as numbers, as spreadsheet applications do; the
// stored value must still parse.
func (s *excelSheet) Number(ref CellRef) (decimal.Decimal, bool) {
	typ, err := s.wb.file.GetCellType(s.name, ref.CellName())
	if err != nil || (typ != excelize.CellTypeNumber && typ != excelize.CellTypeUnset) {
		return decimal.Zero, false
	}
	raw := strings.TrimSpace(s.Text(ref))
	if raw == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

func (s *excelSheet) WriteText(ref CellRef, value string) error {
	return s.write(ref, func(cell string, styleID int) (int, error) {
		return styleID, s.wb.file.SetCellStr(s.name, cell, value)
	})
}

func (s *excelSheet) WriteNumber(ref CellRef, value float64) error {
	return s.write(ref, func(cell string, styleID int) (int, error) {
		return styleID, s.wb.file.SetCellFloat(s.name, cell, value, -1, 64)
	})
}

func (s *excelSheet) WriteDate(ref CellRef, value time.Time) error {
	day := time.Date(value.Year(), value.Month(), value.Day(), 0, 0, 0, 0, time.UTC)
	return s.write(ref, func(cell string, styleID int) (int, error) {
		target, err := s.wb.dateStyle(styleID)
		if err != nil {
			return 0, err
		}
		// excelize swaps in a default date style on time writes; target is re-applied after.
		return target, s.wb.file.SetCellValue(s.name, cell, day)
	})
}

// write runs set with the cell's current style ID and re-applies the style it returns.
func (s *excelSheet) write(ref CellRef, set func(cell string, styleID int) (int, error)) error {
	cell := ref.CellName()
	styleID, err := s.wb.file.GetCellStyle(s.name, cell)
	if err != nil {
		return fmt.Errorf("read style of %s!%s: %w", s.name, cell, err)
	}
	target, err := set(cell, styleID)
	if err != nil {
		return fmt.Errorf("write %s!%s: %w", s.name, cell, err)
	}
	if target > 0 {
		if err := s.wb.file.SetCellStyle(s.name, cell, cell, target); err != nil {
			return fmt.Errorf("restore style of %s!%s: %w", s.name, cell, err)
		}
	}
	return nil
}
