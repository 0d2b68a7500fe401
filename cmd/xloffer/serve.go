package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/javajack/xloffer/internal/sequence"
	"github.com/javajack/xloffer/internal/server"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		store, err := openStore()
		if err != nil {
			return err
		}
		seq, err := sequence.New(ctx, cfg.Sequence)
		if err != nil {
			return err
		}
		if c, ok := seq.(io.Closer); ok {
			defer c.Close()
		}

		addr := cfg.Server.Addr
		if serveAddr != "" {
			addr = serveAddr
		}
		log.Info("starting",
			zap.String("store", cfg.Store.Dir),
			zap.String("sequence", cfg.Sequence.Backend))
		return server.New(newTransformer(), store, seq, log, cfg.Server.MaxUploadMB).Run(ctx, addr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default: server.addr)")
}
