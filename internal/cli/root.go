// Package cli implements the operator commands of meetmatch-admin.
package cli

import (
	"fmt"
	"os"

	"github.com/gdugdh24/meetmatch-backend/internal/config"
	"github.com/gdugdh24/meetmatch-backend/internal/infrastructure/logger"
	"github.com/spf13/cobra"
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:           "meetmatch-admin",
	Short:         "Operator tooling for the meetmatch backend",
	SilenceUsage:  true,
}

// loadConfig is replaced in tests.
var loadConfig = config.Load

func newLogger(cfg *config.Config) *logger.Logger {
	log, err := logger.New(cfg.Server.Env, cfg.Logging.Level)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: %v, logging disabled\n", err)
		return logger.Nop()
	}
	return log
}
