// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"runtime"

	"github.com/spf13/cobra"
)

// VersionInfo is the --json shape of the version command.
type VersionInfo struct {
	Version   string `json:"version"`
	GitCommit string `json:"git_commit"`
	BuildDate string `json:"build_date"`
	GoVersion string `json:"go_version"`
	Platform  string `json:"platform"`
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := VersionInfo{
				Version:   Version,
				GitCommit: GitCommit,
				BuildDate: BuildDate,
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				return outputJSON(cmd.OutOrStdout(), "version", func() (any, error) {
					return info, nil
				})
			}
			NewPrinter(cmd.OutOrStdout()).Printf("cerebrum version %s (commit %s, built %s)\n", info.Version, info.GitCommit, info.BuildDate)
			return nil
		},
	}
}
