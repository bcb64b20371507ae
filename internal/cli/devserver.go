// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jeranaias/cerebrum-tui/internal/devserver"
)

func newDevServerCmd(f *rootFlags) *cobra.Command {
	var (
		addr    string
		dataDir string
		auto    bool
		delay   time.Duration
	)
	cmd := &cobra.Command{
		Use:   "dev-server",
		Short: "Run a local backend for development",
		Long: `Run a self-contained backend on this machine. Notes are stored as
markdown files, the file registry in SQLite, and chat replies are echoed.
Conversion and embedding are simulated with a fixed delay.`,
		Example: `  cerebrum dev-server
  cerebrum dev-server --addr 127.0.0.1:9000 --auto`,
		GroupID: "advanced",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr == "" {
				addr = f.cfg.DevServer.Addr
			}
			if dataDir == "" {
				dataDir = f.cfg.DevServer.DataDir
			}

			srv, err := devserver.New(devserver.Options{
				DataDir:      dataDir,
				ProcessDelay: delay,
				AutoProcess:  auto,
				Logger:       f.logger,
			})
			if err != nil {
				return err
			}

			p := NewPrinter(cmd.OutOrStdout())
			p.Field("Listening", "http://"+addr)
			p.Field("Data", dataDir)
			p.Println(DimStyle.Render("Press Ctrl+C to stop."))

			errCh := make(chan error, 1)
			go func() {
				errCh <- srv.Listen(addr)
			}()

			select {
			case err := <-errCh:
				_ = srv.Close()
				return err
			case <-cmd.Context().Done():
			}

			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := srv.Shutdown(ctx); err != nil {
				f.logger.Warn("dev server shutdown", zap.Error(err))
			}
			p.Println("Stopped.")
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default: dev_server.addr)")
	cmd.Flags().StringVar(&dataDir, "data", "", "Data directory (default: dev_server.data_dir)")
	cmd.Flags().BoolVar(&auto, "auto", false, "Convert and embed uploads automatically")
	cmd.Flags().DurationVar(&delay, "delay", 2*time.Second, "Simulated duration of each processing step")
	return cmd
}
