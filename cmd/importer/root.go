package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "importer",
		Short:         "Import official unit-cost catalogs (SINAPI, SICRO) into the reference database",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newSinapiCmd())
	cmd.AddCommand(newSicroCmd())
	cmd.AddCommand(newSicroAnalyticCmd())
	return cmd
}

func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}
