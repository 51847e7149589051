// Package cli holds the aletheia command tree.
package cli

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-aletheia/internal/config"
)

// NewRootCommand creates the root command. Configuration comes from the
// environment.
func NewRootCommand() *cobra.Command {
	cfg := config.New()

	cmd := &cobra.Command{
		Use:           "aletheia",
		Short:         "Aletheia - a small truth service",
		Long:          "Evaluates simple statements against known facts and guards content behind clearance levels.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setupLogging(cfg)
		},
	}

	cmd.AddCommand(NewServeCommand(cfg))
	cmd.AddCommand(NewConsoleCommand(cfg))
	cmd.AddCommand(NewIssueCommand(cfg))
	cmd.AddCommand(NewRevokeCommand(cfg))
	cmd.AddCommand(NewPublishCommand(cfg))

	return cmd
}

func setupLogging(cfg config.Config) error {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.GetLogLevel()))
	if err != nil {
		return fmt.Errorf("invalid LOG_LEVEL %q: %w", cfg.GetLogLevel(), err)
	}
	zerolog.SetGlobalLevel(level)

	if cfg.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
