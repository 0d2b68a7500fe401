package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/javajack/xloffer"
	"github.com/javajack/xloffer/internal/sequence"
)

var (
	transformProfile  string
	transformSequence int
	transformDate     string
	transformOut      string
)

var transformCmd = &cobra.Command{
	Use:   "transform FILE",
	Short: "Renew a single offer workbook",
	Example: `  xloffer transform "LH-20240101-03 ACME.xlsx" --profile 3f2c... --sequence 4
  xloffer transform oferta.xlsx --date 2025-01-15 --out renewed/`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		profile, err := loadProfile(transformProfile)
		if err != nil {
			return err
		}
		refDate, err := parseDate(transformDate)
		if err != nil {
			return err
		}

		seq := transformSequence
		if seq == 0 {
			seqr, err := sequence.New(cmd.Context(), cfg.Sequence)
			if err != nil {
				return err
			}
			if seq, err = seqr.Next(cmd.Context(), refDate); err != nil {
				return err
			}
		}

		res, err := newTransformer().Transform(xloffer.Request{
			Document:      doc,
			Profile:       profile,
			ReferenceDate: refDate,
			FileName:      filepath.Base(args[0]),
			Sequence:      seq,
		})
		if err != nil {
			return err
		}

		outDir := transformOut
		if outDir == "" {
			outDir = filepath.Dir(args[0])
		}
		if err := os.MkdirAll(outDir, 0o755); err != nil {
			return err
		}
		outPath := filepath.Join(outDir, res.FileName)
		if err := os.WriteFile(outPath, res.Document, 0o644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", res.OfferNumber, outPath)
		return nil
	},
}

func init() {
	transformCmd.Flags().StringVarP(&transformProfile, "profile", "p", "", "price profile id")
	transformCmd.Flags().IntVarP(&transformSequence, "sequence", "s", 0, "daily sequence (default: next from the sequence backend)")
	transformCmd.Flags().StringVar(&transformDate, "date", "", "reference date yyyy-mm-dd (default: today)")
	transformCmd.Flags().StringVarP(&transformOut, "out", "o", "", "output directory (default: next to the input)")
}
