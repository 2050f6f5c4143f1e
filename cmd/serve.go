package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sells-group/lead-signals/internal/metrics"
	"github.com/sells-group/lead-signals/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:         "serve",
	Short:       "Start the lead signals HTTP API",
	Annotations: map[string]string{modeAnnotation: "serve"},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		sc := cfg.Server
		if servePort > 0 {
			sc.Port = servePort
		}

		srv := server.New(sc, cfg.Batch.MaxConcurrent, cat, metrics.New())
		return srv.ListenAndServe(ctx)
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
