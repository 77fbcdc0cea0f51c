package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

func main() {
	_ = godotenv.Load() // .env opcional

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "rentalsctl",
		Short:         "Cliente de línea de comandos del backend de arriendos",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	rootCmd.PersistentFlags().String("token", "", "id token (por defecto IDENTITY_ID_TOKEN)")

	rootCmd.AddCommand(
		meCmd(),
		propertiesCmd(),
		favoritesCmd(),
		leasesCmd(),
		paymentsCmd(),
	)
	return rootCmd
}
