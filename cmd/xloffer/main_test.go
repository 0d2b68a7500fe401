package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// run executes the root command in a fresh working directory so the
// default profile store lands under the test's temp dir.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeOffer(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Nº de Oferta")
	f.SetCellValue("Sheet1", "B1", "LH-20240101-03")
	f.SetCellValue("Sheet1", "E20", "LICENCIAS")
	f.SetCellValue("Sheet1", "F21", "401")
	require.NoError(t, f.SaveAs(path))
}

func TestTransformCommand(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := filepath.Join(dir, "LH-20240101-03 ACME.xlsx")
	writeOffer(t, in)
	require.NoError(t, os.WriteFile("profile.json", []byte(`{"name":"Base","prices":{"401":"450,00 €"}}`), 0o644))

	id, err := run(t, "profile", "import", "profile.json")
	require.NoError(t, err)
	id = strings.TrimSpace(id)

	out, err := run(t, "transform", in, "--profile", id, "--sequence", "7", "--date", "2025-01-15", "--out", "renewed")
	require.NoError(t, err)
	want := filepath.Join("renewed", "LH-20250115-07 ACME.xlsx")
	assert.Equal(t, "LH-20250115-07\t"+want+"\n", out)

	f, err := excelize.OpenFile(want)
	require.NoError(t, err)
	defer f.Close()
	v, err := f.GetCellValue("Sheet1", "B1")
	require.NoError(t, err)
	assert.Equal(t, "LH-20250115-07", v)
	v, err = f.GetCellValue("Sheet1", "F21", excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	assert.Equal(t, "450", v)
}

func TestTransformCommand_BadDate(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := filepath.Join(dir, "a.xlsx")
	writeOffer(t, in)

	_, err := run(t, "transform", in, "--profile", "", "--sequence", "1", "--date", "15/01/2025")
	assert.ErrorContains(t, err, "invalid --date")
}

func TestDescribeCommand_YAML(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := filepath.Join(dir, "a.xlsx")
	writeOffer(t, in)

	out, err := run(t, "describe", in, "--yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "prefix: LH")
	assert.Contains(t, out, "licenses: E20")
}

func TestProfileCloneAdjust(t *testing.T) {
	t.Chdir(t.TempDir())
	require.NoError(t, os.WriteFile("p.json", []byte(`{"name":"Base","prices":{"401":"100","402":"a consultar"}}`), 0o644))
	id, err := run(t, "profile", "import", "p.json")
	require.NoError(t, err)

	cloneID, err := run(t, "profile", "clone", strings.TrimSpace(id), "Subida", "--adjust", "price * 1.03")
	require.NoError(t, err)

	out, err := run(t, "profile", "show", strings.TrimSpace(cloneID), "--output", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "name: Subida")
	assert.Contains(t, out, `"401": "103.00"`)
	assert.Contains(t, out, `"402": "a consultar"`)
}

func TestVersionCommand(t *testing.T) {
	out, err := run(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "xloffer "))
}

func TestDescribeCommand_Cells(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	in := filepath.Join(dir, "a.xlsx")
	writeOffer(t, in)

	out, err := run(t, "describe", in, "B1", "Sheet1!F21", "--yaml=false")
	require.NoError(t, err)
	assert.Contains(t, out, `Sheet1!B1 raw="LH-20240101-03"`)
	assert.Contains(t, out, "offer number (label at A1)")
	assert.Contains(t, out, "LICENCIAS price (column F below row 20)")
}
