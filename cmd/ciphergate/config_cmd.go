// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 CipherGate Contributors

package main

import (
	"os"
	"path/filepath"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/ciphergate/ciphergate/internal/config"
	"github.com/ciphergate/ciphergate/internal/xdg"
)

// NewConfigCmd creates the config subcommand.
func NewConfigCmd() *cobra.Command {
	var initFile bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the effective configuration as YAML after applying defaults, the
config file, and CIPHERGATE_* environment variables. The database password
is redacted. With --init, writes the defaults to the XDG config file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if initFile {
				return writeDefaultConfig(cmd)
			}
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			out, err := config.Dump(cfg)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	cmd.Flags().BoolVar(&initFile, "init", false, "write a default config file if none exists")
	return cmd
}

func writeDefaultConfig(cmd *cobra.Command) error {
	path := configFile
	if path == "" {
		var err error
		if path, err = xdg.ConfigFile(); err != nil {
			return err
		}
	}
	if _, err := os.Stat(path); err == nil {
		return oops.Code("CONFIG_EXISTS").With("path", path).Errorf("config file already exists: %s", path)
	}
	if err := xdg.EnsureDir(filepath.Dir(path)); err != nil {
		return err
	}

	defaults := config.Defaults()
	out, err := config.Dump(&defaults)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, out, 0o600); err != nil {
		return oops.With("path", path).Wrapf(err, "write config file")
	}
	cmd.Printf("Wrote %s\n", path)
	return nil
}
