package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/xloffer"
	"github.com/javajack/xloffer/internal/config"
	"github.com/javajack/xloffer/internal/logger"
	"github.com/javajack/xloffer/internal/profilestore"
)

var (
	cfgFile string
	verbose bool

	cfg *config.Config
	log *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "xloffer",
	Short: "Renew offer spreadsheets",
	Long: `xloffer rewrites an offer workbook for a new period: it assigns a new
offer number, refreshes the budget and validity dates, moves the Vigencia
range forward one year and applies a price profile to the LICENCIAS block.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(cfgFile); err != nil {
			return err
		}
		level := cfg.Log.Level
		if verbose {
			level = "debug"
		}
		if log, err = logger.New(level, cfg.Log.Format); err != nil {
			return fmt.Errorf("build logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ./config.yaml or ./configs/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	rootCmd.AddCommand(transformCmd, batchCmd, describeCmd, checkCmd, serveCmd, profileCmd, versionCmd)
}

func newTransformer() *xloffer.Transformer {
	return xloffer.New(
		xloffer.WithLogger(log),
		xloffer.WithDateFormat(cfg.Transform.DateFormat),
	)
}

func openStore() (*profilestore.FileStore, error) {
	return profilestore.NewFileStore(cfg.Store.Dir)
}

// loadProfile resolves --profile; an empty id means no price substitution.
func loadProfile(id string) (*xloffer.PriceProfile, error) {
	if id == "" {
		return nil, nil
	}
	store, err := openStore()
	if err != nil {
		return nil, err
	}
	return xloffer.ResolveProfile(store, id)
}

// parseDate reads --date (yyyy-mm-dd); empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q (want yyyy-mm-dd)", s)
	}
	return d, nil
}
