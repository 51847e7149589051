package cli

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/jrsteele09/go-aletheia/internal/config"
)

// Administrative commands work on the persisted state. A running server only
// sees their changes after a restart.

func NewIssueCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "issue <user_id> <clearance>",
		Short: "Issue or rotate a credential and print its secret",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			clearance, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("clearance %q is not a number", args[1])
			}

			a, err := newPersistentApp(cfg)
			if err != nil {
				return err
			}

			secret, err := a.auth.Issue(args[0], clearance)
			if err != nil {
				return err
			}
			level, _ := a.auth.Clearance(args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "issued credential: user=%s clearance=%d secret=%s\n", args[0], level, secret)
			return nil
		},
	}
}

func NewRevokeCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "revoke <user_id>",
		Short: "Deactivate a credential",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newPersistentApp(cfg)
			if err != nil {
				return err
			}
			if err := a.auth.Revoke(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "revoked credential: user=%s\n", args[0])
			return nil
		},
	}
}

func NewPublishCommand(cfg config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "publish <id> <required_level> <payload>",
		Short: "Publish or replace a content item",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("required level %q is not a number", args[1])
			}

			a, err := newPersistentApp(cfg)
			if err != nil {
				return err
			}
			if err := a.gate.Publish(args[0], args[2], level); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "published content: id=%s\n", args[0])
			return nil
		},
	}
}

func newPersistentApp(cfg config.Config) (*app, error) {
	if !cfg.GetPersist() {
		return nil, errors.New("administrative commands need PERSIST=true")
	}
	return newApp(cfg)
}
