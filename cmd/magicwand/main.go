// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Command magicwand selects connected regions of similar color in an image.
//
// Usage:
//
//	magicwand select photo.jpg --x 120 --y 80 --tolerance 40
//	magicwand view photo.jpg
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gogpu/magicwand"
	"github.com/gogpu/magicwand/internal/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// globalFlags are shared by every subcommand.
type globalFlags struct {
	configPath string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	root := &cobra.Command{
		Use:          "magicwand",
		Short:        "Select connected regions of similar color",
		Version:      magicwand.Version,
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&g.configPath, "config", "", "JSON config file")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn or error")

	root.AddCommand(newSelectCmd(g), newViewCmd(g))
	return root
}

// configure loads the config file, applies the global flags and installs
// the logger.
func (g *globalFlags) configure(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(g.configPath)
	if err != nil {
		return nil, err
	}
	if cmd.Flags().Changed("log-level") {
		cfg.LogLevel = g.logLevel
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("--log-level: %w", err)
		}
	}
	magicwand.SetLogger(NewLogger(cmd.ErrOrStderr(), cfg.Level()))
	return cfg, nil
}
