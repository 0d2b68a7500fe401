package xloffer

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestValidate_CleanOffer(t *testing.T) {
	profile := offerProfile()
	profile.Prices.Set("999,99", "1.050,00")

	issues, err := Validate(createOfferWorkbook(t), profile)
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestValidate_UnmatchedPrice(t *testing.T) {
	issues, err := Validate(createOfferWorkbook(t), offerProfile())
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "Oferta!F27", issues[0].CellRef.String())
	assert.Equal(t, `[WARN] Oferta!F27: price "999,99 €" has no entry in the profile`, issues[0].String())
}

func TestValidate_MissingOfferLabel(t *testing.T) {
	doc := newWorkbook(t, "Hoja1", func(f *excelize.File) {})
	issues, err := Validate(doc, nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Contains(t, issues[0].Message, "no \"Nº de Oferta\" label")
	assert.Equal(t, "Hoja1!A1", issues[0].CellRef.String())
}

func TestValidate_OfferLabelWithoutLetters(t *testing.T) {
	doc := newWorkbook(t, "Sheet1", func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Nº de Oferta")
		f.SetCellValue("Sheet1", "B1", "2024-01")
	})
	issues, err := Validate(doc, nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, "Sheet1!B1", issues[0].CellRef.String())
}

func TestValidate_Vigencia(t *testing.T) {
	doc := newWorkbook(t, "Sheet1", func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Nº de Oferta")
		f.SetCellValue("Sheet1", "B1", "LH")
		f.SetCellValue("Sheet1", "D20", "Vigencia anual")
		f.SetCellValue("Sheet1", "D21", "Vigencia 30-02-2024 al 01-03-2025")
		f.SetCellValue("Sheet1", "D22", "Vigencia 01-03-2024 al 28-02-2025")
	})
	issues, err := Validate(doc, nil)
	require.NoError(t, err)
	require.Len(t, issues, 2)

	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, "Sheet1!D20", issues[0].CellRef.String())
	assert.Equal(t, SeverityError, issues[1].Severity)
	assert.Equal(t, "Sheet1!D21", issues[1].CellRef.String())
	assert.True(t, strings.HasPrefix(issues[1].String(), "[ERROR] Sheet1!D21: range"))
}

func TestValidate_VigenciaMixedSeparators(t *testing.T) {
	doc := newWorkbook(t, "Sheet1", func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Nº de Oferta")
		f.SetCellValue("Sheet1", "B1", "LH")
		f.SetCellValue("Sheet1", "D25", "Vigencia 01-01-2024 al 31/12/2024")
	})
	issues, err := Validate(doc, nil)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, SeverityWarning, issues[0].Severity)
	assert.Equal(t, `[WARN] Sheet1!D25: range "01-01-2024 al 31/12/2024" mixes date separators`, issues[0].String())
}

func TestValidate_ProfileIssues(t *testing.T) {
	doc := newWorkbook(t, "Sheet1", func(f *excelize.File) {
		f.SetCellValue("Sheet1", "A1", "Nº de Oferta")
		f.SetCellValue("Sheet1", "B1", "LH")
	})
	profile := &PriceProfile{Prices: PriceList{
		{Code: "401", Value: "410"},
		{Code: "401,00 €", Value: "420"},
		{Code: "Basic", Value: " "},
	}}
	issues, err := Validate(doc, profile)
	require.NoError(t, err)
	require.Len(t, issues, 2)
	assert.Equal(t, `[WARN] profile: code "401,00 €" overrides "401" (both normalize to "401")`, issues[0].String())
	assert.Contains(t, issues[1].Message, `code "Basic" has an empty price`)
}

func TestValidate_BadDocument(t *testing.T) {
	issues, err := Validate([]byte("nope"), nil)
	assert.Error(t, err)
	assert.Nil(t, issues)
}
