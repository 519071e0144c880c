package main

import (
	"github.com/spf13/cobra"
	"github.com/wb-go/wbf/zlog"
)

func newRootCmd() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:          "imagen",
		Short:        "Load pictures within a display budget, stamp and save them",
		SilenceUsage: true,
		PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
			if verbose {
				return zlog.SetLevel("debug")
			}
			return nil
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(newStampCmd())
	return root
}
