package main

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/types"
)

var flagShowFormat string

var showCmd = &cobra.Command{
	Use:   "show <type> <name>",
	Short: "Print a stored resource",
	Long: `Show prints one stored resource. By default it uses the resource's
preferred format; --format selects text, document or markup.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.close()

		r, err := sess.lib.Lookup(args[0], args[1])
		if err != nil {
			return err
		}
		if flagShowFormat == "" {
			return printResources(cmd.OutOrStdout(), []types.Resource{r})
		}
		return r.Save(types.Format(flagShowFormat), cmd.OutOrStdout())
	},
}

func init() {
	showCmd.Flags().StringVar(&flagShowFormat, "format", "", "output format: text, document or markup")
}
