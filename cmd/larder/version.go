package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/larder"
)

const modulePath = "github.com/mesh-intelligence/larder"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the larder version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "larder v%s\nmodule: %s\n", larder.Version, modulePath)
	},
}
