package main

import (
	"github.com/spf13/cobra"
)

var configFile string

// NewRootCmd creates the root command for the auth service CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "AIDRAMS authentication service",
		Long: `Account registration, cookie-based sessions, profile updates and
password recovery for the AI Disaster Management and Response System.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (YAML)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())

	return cmd
}
