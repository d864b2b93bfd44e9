package cli

import (
	"errors"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
)

// IngestOptions holds flags for the ingest command.
type IngestOptions struct {
	*RootOptions
	File string
}

// NewIngestCommand creates the ingest command.
func NewIngestCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &IngestOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Load a shipment batch",
		Long: `Load a shipment batch of the form {"database_entries": [...]}.

Entries are upserted by order number; an entry whose tracking number matches the
stored one is left unchanged.

Example:
  reconciler ingest --file batch.json
  cat batch.json | reconciler ingest --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(opts.File, cmd.InOrStdin())
			if err != nil {
				return err
			}
			if !gjson.GetBytes(payload, "database_entries").Exists() {
				return errors.New("payload has no database_entries")
			}

			res, err := trigger(cmd.Context(), rootOpts, payload)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, res)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "batch file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}
