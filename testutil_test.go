package xloffer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const offerSheet = "Oferta"

var refDate = time.Date(2025, time.January, 15, 0, 0, 0, 0, time.UTC)

// createOfferWorkbook builds a typical offer document.
// Layout (sheet "Oferta"):
//
//	B3: "Nº de Oferta"   C3: "LH-20240101-03"
//	B4: "F. Ppto."       C4: 2024-01-01 (mm-dd-yy)
//	B5: "Validez"        C5: "pendiente" (bold, no number format)
//	F19: 401 (above the price block, never touched)
//	D22: "Vigencia: 01-01-2024 al 31-12-2024"
//	E24: "LICENCIAS"
//	F25: 401 (#,##0.00)  F26: "Licencia Pro"  F27: "999,99 €"
func createOfferWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", offerSheet))

	dateStyle, err := f.NewStyle(&excelize.Style{NumFmt: 14})
	require.NoError(t, err)
	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	require.NoError(t, err)
	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	require.NoError(t, err)

	set := func(cell string, v any) {
		require.NoError(t, f.SetCellValue(offerSheet, cell, v))
	}
	set("B3", "Nº de Oferta")
	set("C3", "LH-20240101-03")
	set("B4", "F. Ppto.")
	set("C4", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, f.SetCellStyle(offerSheet, "C4", "C4", dateStyle))
	set("B5", "Validez")
	set("C5", "pendiente")
	require.NoError(t, f.SetCellStyle(offerSheet, "C5", "C5", boldStyle))

	set("F19", 401)
	set("D22", "Vigencia: 01-01-2024 al 31-12-2024")
	set("E24", "LICENCIAS")
	set("F25", 401)
	require.NoError(t, f.SetCellStyle(offerSheet, "F25", "F25", moneyStyle))
	set("F26", "Licencia Pro")
	set("F27", "999,99 €")

	return workbookBytes(t, f)
}

// offerProfile matches F25 and F26 of createOfferWorkbook.
func offerProfile() *PriceProfile {
	return &PriceProfile{
		ID:   "3f2c1b0a9e8d4c7b8a6f5e4d3c2b1a09",
		Name: "Renovación 2025",
		Prices: PriceList{
			{Code: "401,00 €", Value: "412,50"},
			{Code: "Licencia Pro", Value: "Premium"},
		},
	}
}

// newWorkbook creates a single-sheet workbook and hands it to fill.
func newWorkbook(t *testing.T, sheet string, fill func(f *excelize.File)) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	if sheet != "Sheet1" {
		require.NoError(t, f.SetSheetName("Sheet1", sheet))
	}
	fill(f)
	return workbookBytes(t, f)
}

func workbookBytes(t *testing.T, f *excelize.File) []byte {
	t.Helper()
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf.Bytes()
}

// openOutput reopens transformed bytes for assertions.
func openOutput(t *testing.T, doc []byte) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(doc))
	require.NoError(t, err)
	t.Cleanup(func() { f.Close() })
	return f
}

func rawValue(t *testing.T, f *excelize.File, sheet, cell string) string {
	t.Helper()
	v, err := f.GetCellValue(sheet, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func cellStyle(t *testing.T, f *excelize.File, sheet, cell string) *excelize.Style {
	t.Helper()
	id, err := f.GetCellStyle(sheet, cell)
	require.NoError(t, err)
	st, err := f.GetStyle(id)
	require.NoError(t, err)
	return st
}
