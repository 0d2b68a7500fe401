// Package batch renews every offer workbook in a directory.
package batch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/javajack/xloffer"
	"github.com/javajack/xloffer/internal/sequence"
)

// Options controls a batch run.
type Options struct {
	InputDir      string
	OutputDir     string
	Profile       *xloffer.PriceProfile
	ReferenceDate time.Time
	// Sequencer allocates sequences when set; otherwise files are numbered
	// FirstSequence, FirstSequence+1, ... in file name order.
	Sequencer     sequence.Sequencer
	FirstSequence int
	Concurrency   int
	Logger        *zap.Logger
}

// FileResult is the outcome for one input file.
type FileResult struct {
	Input       string
	Output      string
	OfferNumber string
	Sequence    int
	Err         error
}

// Run transforms every .xlsx file of InputDir into OutputDir. Per-file
// failures are recorded in the results and do not stop the run; the
// returned error covers setup problems and cancellation only.
func Run(ctx context.Context, tx *xloffer.Transformer, opts Options) ([]FileResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	inputs, err := listWorkbooks(opts.InputDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(opts.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	refDate := opts.ReferenceDate
	if refDate.IsZero() {
		refDate = time.Now()
	}

	// sequences are handed out up front so numbering follows file order
	results := make([]FileResult, len(inputs))
	next := opts.FirstSequence
	if next < 1 {
		next = 1
	}
	for i, in := range inputs {
		results[i].Input = in
		if opts.Sequencer != nil {
			n, err := opts.Sequencer.Next(ctx, refDate)
			if err != nil {
				return nil, fmt.Errorf("allocate sequence for %s: %w", filepath.Base(in), err)
			}
			results[i].Sequence = n
			continue
		}
		results[i].Sequence = next
		next++
	}

	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}
	for i := range results {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			r := &results[i]
			r.Err = processFile(tx, opts, refDate, r)
			if r.Err != nil {
				logger.Warn("offer failed", zap.String("file", r.Input), zap.Error(r.Err))
			} else {
				logger.Info("offer written", zap.String("file", r.Output), zap.String("offer_number", r.OfferNumber))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return results, err
	}
	return results, nil
}

func processFile(tx *xloffer.Transformer, opts Options, refDate time.Time, r *FileResult) error {
	doc, err := os.ReadFile(r.Input)
	if err != nil {
		return fmt.Errorf("read %s: %w", r.Input, err)
	}
	res, err := tx.Transform(xloffer.Request{
		Document:      doc,
		Profile:       opts.Profile,
		ReferenceDate: refDate,
		FileName:      filepath.Base(r.Input),
		Sequence:      r.Sequence,
	})
	if err != nil {
		return err
	}
	r.OfferNumber = res.OfferNumber
	r.Output = filepath.Join(opts.OutputDir, res.FileName)
	if err := os.WriteFile(r.Output, res.Document, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", r.Output, err)
	}
	return nil
}

// listWorkbooks returns the .xlsx files of dir sorted by name, skipping
// Excel lock files ("~$...").
func listWorkbooks(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir: %w", err)
	}
	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, "~$") || !strings.EqualFold(filepath.Ext(name), ".xlsx") {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}
	sort.Strings(files)
	return files, nil
}
