package cli

import (
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-aletheia/console"
	"github.com/jrsteele09/go-aletheia/internal/config"
)

func NewConsoleCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "console",
		Short: "Run the interactive command interface on stdin/stdout",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			displayAppname(cfg.GetAppName())

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			if err := a.bootstrap(cmd.OutOrStdout()); err != nil {
				return err
			}

			return console.New(a.service, cmd.InOrStdin(), cmd.OutOrStdout()).Run(cmd.Context())
		},
	}
}
