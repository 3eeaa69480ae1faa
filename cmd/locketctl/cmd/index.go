package cmd

import (
	"fmt"

	"github.com/locketmemories/locket/internal/app"

	"github.com/spf13/cobra"
)

func IndexCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "index",
		Short: "Metadata index maintenance",
	}

	cmd.AddCommand(indexRebuildCmd())
	return cmd
}

func indexRebuildCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rebuild",
		Short: "Re-create index records for remote objects missing from the index",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				added, err := a.ImageService.Reindex(cmd.Context())
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added %d record(s)\n", added)
				return nil
			})
		},
	}
}
