// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package main

import (
	"github.com/spf13/cobra"

	"github.com/ciphergate/ciphergate/internal/config"
)

// Global flags available to all subcommands.
var configFile string

// NewRootCmd creates the root command for the CipherGate CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ciphergate",
		Short: "CipherGate - CipherNet analyst authentication and message analysis",
		Long: `CipherGate is the CipherNet authentication service. Analysts register
and re-authenticate on every protected call; authenticated analysts submit
integer messages that are classified as legit or trap.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&configFile, "config", "", "config file path (default: XDG_CONFIG_HOME/ciphergate/config.yaml)")

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewConfigCmd())

	return cmd
}

// loadConfig resolves configuration for cmd, applying any flags the user set.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	return config.Load(config.Options{File: configFile, Flags: cmd.Flags()})
}
