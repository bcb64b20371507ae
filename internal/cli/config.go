// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"

	"github.com/jeranaias/cerebrum-tui/internal/config"
)

func newConfigCmd(f *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the cerebrum configuration",
		Long:  "View and change the configuration stored in ~/.cerebrum/config.toml.",
		Example: `  cerebrum config show
  cerebrum config get backend.base_url
  cerebrum config set files.poll_interval_secs 10`,
		GroupID: "advanced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, f)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runConfigShow(cmd, f)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show the path of the config file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := f.configFile()
			if err != nil {
				return err
			}
			NewPrinter(cmd.OutOrStdout()).Println(path)
			return nil
		},
	})
	cmd.AddCommand(newConfigInitCmd(f))
	cmd.AddCommand(&cobra.Command{
		Use:   "get [key]",
		Short: "Print one value, or every key without arguments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigGet(cmd, f, args)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Change one value and save the config file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConfigSet(cmd, f, args[0], args[1])
		},
	})
	return cmd
}

// configFile is the file config commands read and write.
func (f *rootFlags) configFile() (string, error) {
	if f.configPath != "" {
		return f.configPath, nil
	}
	return config.ConfigPathTOML()
}

func runConfigShow(cmd *cobra.Command, f *rootFlags) error {
	if f.jsonOutput {
		return outputJSON(cmd.OutOrStdout(), "config show", func() (any, error) {
			return f.cfg, nil
		})
	}
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(f.cfg); err != nil {
		return fmt.Errorf("failed to format config: %w", err)
	}
	NewPrinter(cmd.OutOrStdout()).Printf("%s", buf.String())
	return nil
}

func runConfigGet(cmd *cobra.Command, f *rootFlags, args []string) error {
	p := NewPrinter(cmd.OutOrStdout())
	if len(args) == 0 {
		for _, key := range config.GetAllKeys() {
			value, err := f.cfg.Get(key)
			if err != nil {
				return err
			}
			p.Printf("%s = %v\n", key, value)
		}
		return nil
	}

	value, err := f.cfg.Get(args[0])
	if err != nil {
		return err
	}
	p.Println(value)
	return nil
}

func runConfigSet(cmd *cobra.Command, f *rootFlags, key, value string) error {
	path, err := f.configFile()
	if err != nil {
		return err
	}

	// Start from the file, not the effective config, so --url and
	// --debug are not written back.
	cfg := config.Default()
	if fileExists(path) {
		if cfg, err = config.LoadFromPath(path); err != nil {
			return err
		}
	}
	if err := cfg.Set(key, value); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := save(cfg, path); err != nil {
		return err
	}
	NewPrinter(cmd.OutOrStdout()).Success("%s = %v", key, value)
	return nil
}

func newConfigInitCmd(f *rootFlags) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a config file with default values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := f.configFile()
			if err != nil {
				return err
			}
			if fileExists(path) && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := save(config.Default(), path); err != nil {
				return err
			}
			NewPrinter(cmd.OutOrStdout()).Success("Wrote %s", path)
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}

func save(cfg *config.Config, path string) error {
	if strings.HasSuffix(path, ".json") {
		return config.SaveJSON(cfg, path)
	}
	return config.SaveTOML(cfg, path)
}
