package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javajack/xloffer/internal/batch"
	"github.com/javajack/xloffer/internal/sequence"
)

var (
	batchProfile       string
	batchFirstSequence int
	batchDate          string
	batchConcurrency   int
)

var batchCmd = &cobra.Command{
	Use:   "batch INPUT_DIR OUTPUT_DIR",
	Short: "Renew every .xlsx offer in a directory",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile, err := loadProfile(batchProfile)
		if err != nil {
			return err
		}
		refDate, err := parseDate(batchDate)
		if err != nil {
			return err
		}

		opts := batch.Options{
			InputDir:      args[0],
			OutputDir:     args[1],
			Profile:       profile,
			ReferenceDate: refDate,
			FirstSequence: batchFirstSequence,
			Concurrency:   cfg.Batch.Concurrency,
			Logger:        log,
		}
		if batchConcurrency > 0 {
			opts.Concurrency = batchConcurrency
		}
		if batchFirstSequence == 0 {
			if opts.Sequencer, err = sequence.New(cmd.Context(), cfg.Sequence); err != nil {
				return err
			}
		}

		results, err := batch.Run(cmd.Context(), newTransformer(), opts)
		if err != nil {
			return err
		}
		failed := 0
		for _, r := range results {
			if r.Err != nil {
				failed++
				fmt.Fprintf(cmd.OutOrStdout(), "FAIL\t%s\t%v\n", filepath.Base(r.Input), r.Err)
				continue
			}
			fmt.Fprintf(cmd.OutOrStdout(), "OK\t%s\t%s\n", r.OfferNumber, r.Output)
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d offers failed", failed, len(results))
		}
		return nil
	},
}

func init() {
	batchCmd.Flags().StringVarP(&batchProfile, "profile", "p", "", "price profile id")
	batchCmd.Flags().IntVar(&batchFirstSequence, "first-sequence", 0, "number files from this sequence (default: sequence backend)")
	batchCmd.Flags().StringVar(&batchDate, "date", "", "reference date yyyy-mm-dd (default: today)")
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "parallel workers (default: batch.concurrency)")
}
