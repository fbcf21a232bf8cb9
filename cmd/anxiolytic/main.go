package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/terraincognita07/anxiolytic/internal/cli"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:           "anxiolytic",
		Short:         "Anxiety attack tracker backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		newServeCommand(&configPath),
		newResetPasswordCommand(&configPath),
		newCalendarCommand(&configPath),
	)
	return root
}

func newServeCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and the reminder worker",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), *configPath)
		},
	}
}

func newResetPasswordCommand(configPath *string) *cobra.Command {
	var (
		email  string
		prompt bool
	)

	command := &cobra.Command{
		Use:   "reset-password",
		Short: "Reset a user's password and force a change on next login",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(*configPath)
			if err != nil {
				return err
			}
			return cli.RunResetPasswordCommand(cfg.DBPath, email, cli.ResetPasswordOptions{
				Prompt: prompt,
				Output: cmd.OutOrStdout(),
			})
		},
	}
	command.Flags().StringVar(&email, "email", "", "account email")
	command.Flags().BoolVar(&prompt, "prompt", false, "type the new password instead of generating one")
	_ = command.MarkFlagRequired("email")
	return command
}
