package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/locketmemories/locket/internal/app"
	"github.com/locketmemories/locket/internal/model"

	"github.com/spf13/cobra"
)

func ImagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "images",
		Short: "Inspect and manage stored images",
	}

	cmd.AddCommand(imagesListCmd())
	cmd.AddCommand(imagesDeleteCmd())
	return cmd
}

func imagesListCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List images, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				images, err := a.ImageService.List(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					return writeImagesJSON(cmd.OutOrStdout(), images)
				}
				return writeImagesTable(cmd.OutOrStdout(), images)
			})
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print records as JSON")
	return cmd
}

func imagesDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an image and its stored bytes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd.Context(), func(a *app.App) error {
				err := a.ImageService.Delete(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("delete %s: %w", args[0], err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}
}

func writeImagesJSON(w io.Writer, images []*model.Image) error {
	if images == nil {
		images = []*model.Image{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(images)
}

func writeImagesTable(w io.Writer, images []*model.Image) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTORAGE\tUPLOADED\tFILENAME\tCAPTION")
	for _, img := range images {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			img.ID, img.Storage, img.UploadedAt.Format(time.RFC3339), img.Filename, img.Caption)
	}
	fmt.Fprintf(tw, "\n%d image(s)\n", len(images))
	return tw.Flush()
}
