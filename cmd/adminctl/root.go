package main

import (
	"github.com/spf13/cobra"
)

// rootOptions flags globales.
type rootOptions struct {
	Verbose bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "adminctl",
		Short:         "Operaciones del panel de facturas",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "salida detallada")

	cmd.AddCommand(newHashPasswordCommand())
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newSearchCommand(opts))
	return cmd
}
