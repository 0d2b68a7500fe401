package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/javajack/xloffer"
	"github.com/javajack/xloffer/internal/profilestore"
)

var (
	profileOutput string
	cloneAdjust   string
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Manage price profiles",
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		list, err := store.List()
		if err != nil {
			return err
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tNAME\tPRICES\tUPDATED")
		for _, p := range list {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", p.ID, p.Name, len(p.Prices), p.UpdatedAt.Format("2006-01-02 15:04"))
		}
		return tw.Flush()
	},
}

var profileShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Print a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, err := loadProfile(args[0])
		if err != nil {
			return err
		}
		switch profileOutput {
		case "json":
			return printJSON(cmd, p)
		case "yaml":
			return printProfileYAML(cmd, p)
		default:
			return fmt.Errorf("unknown output %q (json|yaml)", profileOutput)
		}
	},
}

var profileImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import a profile from a JSON document",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		f, err := os.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()
		p, err := store.Import(f)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), p.ID)
		return nil
	},
}

var profileCloneCmd = &cobra.Command{
	Use:   "clone ID NAME",
	Short: "Copy a profile, optionally adjusting every price",
	Example: `  xloffer profile clone 3f2c... "Tarifa 2026" --adjust "price * 1.03"`,
	Args:    cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		if cloneAdjust == "" {
			p, err := store.Clone(args[0], args[1])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		}

		src, err := store.Get(args[0])
		if err != nil {
			return err
		}
		adjusted, err := profilestore.NewAdjuster().Adjust(src, cloneAdjust)
		if err != nil {
			return err
		}
		adjusted.ID = ""
		adjusted.Name = args[1]
		if err := store.Save(adjusted); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), adjusted.ID)
		return nil
	},
}

var profileDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore()
		if err != nil {
			return err
		}
		return store.Delete(args[0])
	},
}

// printProfileYAML keeps the price order of the profile, which a plain map
// would lose.
func printProfileYAML(cmd *cobra.Command, p *xloffer.PriceProfile) error {
	prices := &yaml.Node{Kind: yaml.MappingNode}
	for _, pr := range p.Prices {
		prices.Content = append(prices.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: pr.Code, Style: yaml.DoubleQuotedStyle},
			&yaml.Node{Kind: yaml.ScalarNode, Value: pr.Value, Style: yaml.DoubleQuotedStyle},
		)
	}
	doc := struct {
		ID        string     `yaml:"id"`
		Name      string     `yaml:"name"`
		UpdatedAt string     `yaml:"updatedAtUtc"`
		Prices    *yaml.Node `yaml:"prices"`
	}{p.ID, p.Name, p.UpdatedAt.UTC().Format("2006-01-02T15:04:05Z"), prices}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(doc)
}

func init() {
	profileShowCmd.Flags().StringVarP(&profileOutput, "output", "o", "json", "json or yaml")
	profileCloneCmd.Flags().StringVar(&cloneAdjust, "adjust", "", `price expression applied to every numeric price, e.g. "price * 1.03"`)

	profileCmd.AddCommand(profileListCmd, profileShowCmd, profileImportCmd, profileCloneCmd, profileDeleteCmd)
}
