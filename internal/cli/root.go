// Package cli implements the reconciler command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"

	"shipment-reconciler/internal/app"
	"shipment-reconciler/internal/core/config"
	"shipment-reconciler/internal/core/logger"
	"shipment-reconciler/internal/features/reconciliation/report"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigDir string
	Format    string // "json" | "text"

	cfg *config.AppConfig
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the reconciler CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "reconciler",
		Short: "Shipment status reconciler",
		Long:  "Reconciles outstanding shipments against carrier tracking and loads shipment batches.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}

			cfg, err := config.Load(opts.ConfigDir)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
				return fmt.Errorf("failed to init logger: %w", err)
			}
			opts.cfg = cfg
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			logger.Sync()
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.ConfigDir, "config-dir", ".", "directory holding the .env file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	cmd.AddCommand(NewRunCommand(opts))
	cmd.AddCommand(NewIngestCommand(opts))
	cmd.AddCommand(NewInvokeCommand(opts))

	return cmd
}

// trigger wires the application for one invocation and passes payload to it.
func trigger(ctx context.Context, opts *RootOptions, payload []byte) (*app.TriggerResult, error) {
	a, err := app.New(ctx, opts.cfg)
	if err != nil {
		return nil, err
	}
	defer a.Close()

	return a.Trigger(ctx, payload)
}

func writeResult(w io.Writer, format string, res *app.TriggerResult) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}

	switch {
	case res.Summary != nil:
		_, err := io.WriteString(w, report.Text(res.Summary))
		return err
	case res.Ingest != nil:
		r := res.Ingest
		_, err := fmt.Fprintf(w, "Received %d: %d inserted, %d updated, %d unchanged, %d failed\n",
			r.Received, r.Inserted, r.Updated, r.Unchanged, r.Failed)
		for _, e := range r.Errors {
			fmt.Fprintf(w, "  %s\n", e)
		}
		return err
	}
	return nil
}

func readPayload(path string, stdin io.Reader) ([]byte, error) {
	if path == "" {
		return nil, nil
	}
	if path == "-" {
		return io.ReadAll(stdin)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload: %w", err)
	}
	return data, nil
}
