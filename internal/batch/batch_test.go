package batch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap/zaptest"

	"github.com/javajack/xloffer"
	"github.com/javajack/xloffer/internal/sequence"
)

var refDate = time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

func writeOffer(t *testing.T, dir, name, prefix string) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	f.SetCellValue("Sheet1", "A1", "Nº de Oferta")
	f.SetCellValue("Sheet1", "B1", prefix)
	require.NoError(t, f.SaveAs(filepath.Join(dir, name)))
}

func TestRun(t *testing.T) {
	in, out := t.TempDir(), filepath.Join(t.TempDir(), "out")
	writeOffer(t, in, "b.xlsx", "LH")
	writeOffer(t, in, "LH-20240101-03 ACME.xlsx", "LH")
	writeOffer(t, in, "c.XLSX", "RC")
	require.NoError(t, os.WriteFile(filepath.Join(in, "broken.xlsx"), []byte("nope"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "notes.txt"), []byte("skip"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(in, "~$b.xlsx"), []byte("lock"), 0o644))

	results, err := Run(context.Background(), xloffer.New(), Options{
		InputDir:      in,
		OutputDir:     out,
		ReferenceDate: refDate,
		FirstSequence: 5,
		Concurrency:   2,
		Logger:        zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	require.Len(t, results, 4)

	// sorted by name: "LH-..." < "b.xlsx" < "broken.xlsx" < "c.XLSX"
	assert.Equal(t, "LH-20250115-05", results[0].OfferNumber)
	assert.Equal(t, filepath.Join(out, "LH-20250115-05 ACME.xlsx"), results[0].Output)
	assert.Equal(t, "LH-20250115-06", results[1].OfferNumber)
	assert.Equal(t, filepath.Join(out, "LH-20250115-06 - b.xlsx"), results[1].Output)
	assert.Error(t, results[2].Err)
	assert.Equal(t, 7, results[2].Sequence)
	assert.Equal(t, "RC-20250115-08", results[3].OfferNumber)

	for _, r := range []FileResult{results[0], results[1], results[3]} {
		assert.NoError(t, r.Err)
		assert.FileExists(t, r.Output)
	}
}

func TestRun_WithSequencer(t *testing.T) {
	in, out := t.TempDir(), t.TempDir()
	writeOffer(t, in, "a.xlsx", "LH")
	writeOffer(t, in, "b.xlsx", "LH")

	seq := sequence.NewMemory()
	_, err := seq.Next(context.Background(), refDate)
	require.NoError(t, err)

	results, err := Run(context.Background(), xloffer.New(), Options{
		InputDir:      in,
		OutputDir:     out,
		ReferenceDate: refDate,
		Sequencer:     seq,
	})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "LH-20250115-02", results[0].OfferNumber)
	assert.Equal(t, "LH-20250115-03", results[1].OfferNumber)
}

func TestRun_Cancelled(t *testing.T) {
	in := t.TempDir()
	writeOffer(t, in, "a.xlsx", "LH")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Run(ctx, xloffer.New(), Options{InputDir: in, OutputDir: t.TempDir(), ReferenceDate: refDate})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_MissingInputDir(t *testing.T) {
	_, err := Run(context.Background(), xloffer.New(), Options{InputDir: filepath.Join(t.TempDir(), "nope"), OutputDir: t.TempDir()})
	assert.Error(t, err)
}
