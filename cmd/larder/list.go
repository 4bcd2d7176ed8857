package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [type]",
	Short: "List stored resources, optionally of one type",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tag := ""
		if len(args) == 1 {
			tag = args[0]
		}

		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.close()

		if tag != "" {
			if _, err := sess.lib.Make(tag); err != nil {
				return err
			}
		}
		entries, err := sess.store.Entries(tag)
		if err != nil {
			return err
		}

		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tTYPE\tNAME\tFORMAT\tCREATED")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", e.ID, e.Type, e.Name, e.Format, e.CreatedAt.Format(time.DateTime))
		}
		return tw.Flush()
	},
}
