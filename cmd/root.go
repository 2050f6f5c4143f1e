package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/lead-signals/internal/catalog"
	"github.com/sells-group/lead-signals/internal/config"
)

// modeAnnotation selects which config checks a command needs (see config.Validate).
const modeAnnotation = "mode"

var (
	cfg *config.Config
	cat *catalog.Catalog
)

var rootCmd = &cobra.Command{
	Use:   "lead-signals",
	Short: "Lead qualification signals for local businesses",
	Long:  "Detects AI receptionists and online booking systems on business websites and estimates call volume and missed-call revenue loss from review counts.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		mode := cmd.Annotations[modeAnnotation]
		if mode == "" {
			mode = "cli"
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		cat, err = loadCatalog(cfg.Catalog.Path)
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// loadCatalog returns the built-in catalog unless path names a replacement.
func loadCatalog(path string) (*catalog.Catalog, error) {
	if path == "" {
		return catalog.Default(), nil
	}
	c, err := catalog.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	zap.L().Info("loaded catalog",
		zap.String("path", path),
		zap.Int("version", c.Version),
		zap.Int("ai_providers", len(c.AIProviders)),
		zap.Int("booking_providers", len(c.BookingProviders)),
	)
	return c, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
