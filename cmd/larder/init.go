package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize larder storage",
	Long:  "Create the configuration and data directories, then initialize the store.",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		// PersistentPreRunE has already written config.yaml.
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.close()

		dataDir, _ := resolveDataDir()
		fmt.Fprintf(cmd.OutOrStdout(), "larder initialized in %s (%d resources)\n", dataDir, sess.lib.Len())
		return nil
	},
}
