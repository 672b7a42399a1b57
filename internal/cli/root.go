package cli

import (
	"fmt"

	"github.com/TristoneFM/material-request-mes/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// NewRootCmd creates the top-level "tmes" command and registers all
// subcommands.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tmes",
		Short: "Material request board for the shop floor",
	}

	root.AddCommand(
		newServeCmd(),
		newBoardCmd(),
	)

	return root
}

// newLogger builds the process logger from config. Format "console" is the
// development encoder; anything else gets production JSON.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	var zcfg zap.Config
	if cfg.Format == "console" {
		zcfg = zap.NewDevelopmentConfig()
	} else {
		zcfg = zap.NewProductionConfig()
	}
	zcfg.Level = zap.NewAtomicLevelAt(level)

	return zcfg.Build()
}
