package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javajack/xloffer"
)

var (
	describeYAML bool
	checkProfile string
)

var describeCmd = &cobra.Command{
	Use:   "describe FILE [CELL...]",
	Short: "Show the cells a transform would touch",
	Long: `Without cells, describe lists every label, Vigencia cell and LICENCIAS
price the rules would act on. With cells ("C3", "Oferta!F25"), it shows each
cell's raw and displayed value and the rules that would rewrite it.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		tx := newTransformer()

		if len(args) > 1 {
			infos, err := tx.Inspect(doc, args[1:])
			if err != nil {
				return err
			}
			if describeYAML {
				return printYAML(cmd, infos)
			}
			for _, info := range infos {
				fmt.Fprintln(cmd.OutOrStdout(), info.String())
			}
			return nil
		}

		report, err := tx.Describe(doc, filepath.Base(args[0]))
		if err != nil {
			return err
		}
		if describeYAML {
			return printYAML(cmd, report)
		}
		fmt.Fprint(cmd.OutOrStdout(), report.String())
		return nil
	},
}

var checkCmd = &cobra.Command{
	Use:   "check FILE",
	Short: "Report problems that would make a transform incomplete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		doc, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		profile, err := loadProfile(checkProfile)
		if err != nil {
			return err
		}
		issues, err := newTransformer().Validate(doc, profile)
		if err != nil {
			return err
		}
		errs := 0
		for _, is := range issues {
			fmt.Fprintln(cmd.OutOrStdout(), is.String())
			if is.Severity == xloffer.SeverityError {
				errs++
			}
		}
		if errs > 0 {
			return fmt.Errorf("%d error(s)", errs)
		}
		if len(issues) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
		}
		return nil
	},
}

func init() {
	describeCmd.Flags().BoolVar(&describeYAML, "yaml", false, "print the report as YAML")
	checkCmd.Flags().StringVarP(&checkProfile, "profile", "p", "", "also check prices against this profile")
}

func printYAML(cmd *cobra.Command, v any) error {
	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(v)
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
