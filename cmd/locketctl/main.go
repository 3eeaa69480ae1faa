package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/locketmemories/locket/cmd/locketctl/cmd"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "locketctl",
		Short:        "Admin tools for the Locket image store",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.ImagesCmd())
	rootCmd.AddCommand(cmd.IndexCmd())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
