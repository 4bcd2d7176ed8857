package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var importCmd = &cobra.Command{
	Use:   "import <path>...",
	Short: "Load resource files into the store",
	Long: `Import loads each file, or every file with a registered extension in each
directory, and stores the resulting resources. The file extension selects
the resource type; .yaml files name their type in a header.

Example:
  larder import walk.path stance.stance scene.world
  larder import ./resources`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.close()

		var loaded []types.Resource
		for _, path := range args {
			info, err := os.Stat(path)
			if err != nil {
				return err
			}
			if info.IsDir() {
				rs, err := sess.lib.LoadDir(path)
				if err != nil {
					return err
				}
				loaded = append(loaded, rs...)
				continue
			}
			r, err := sess.lib.LoadFile(path)
			if err != nil {
				return err
			}
			loaded = append(loaded, r)
		}

		if err := sess.save(cmd.OutOrStdout(), loaded); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "imported %d resources\n", len(loaded))
		return nil
	},
}
