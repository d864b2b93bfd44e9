package cli

import (
	"github.com/spf13/cobra"
)

// InvokeOptions holds flags for the invoke command.
type InvokeOptions struct {
	*RootOptions
	File string
}

// NewInvokeCommand creates the invoke command.
func NewInvokeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &InvokeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "invoke",
		Short: "Handle one scheduled invocation",
		Long: `Handle one scheduled invocation the way the scheduler does: a payload carrying
database_entries is ingested, any other payload (or none) runs a reconciliation pass.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			payload, err := readPayload(opts.File, cmd.InOrStdin())
			if err != nil {
				return err
			}

			res, err := trigger(cmd.Context(), rootOpts, payload)
			if err != nil {
				return err
			}
			return writeResult(cmd.OutOrStdout(), rootOpts.Format, res)
		},
	}

	cmd.Flags().StringVar(&opts.File, "file", "", "event payload file, or - for stdin")

	return cmd
}
