package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/internal/library"
	"github.com/mesh-intelligence/larder/internal/resource"
	"github.com/mesh-intelligence/larder/pkg/convert"
)

// typeInfo is the --json rendering of one registered type. Capabilities are
// those of a blank instance; some types widen them once populated.
type typeInfo struct {
	Type         string   `json:"type"`
	Extensions   []string `json:"extensions"`
	Formats      []string `json:"formats"`
	CastTypes    []string `json:"cast_types"`
	ExtractTypes []string `json:"extract_types,omitempty"`
}

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List the registered resource types and their conversions",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib := library.New()
		if err := resource.Register(lib); err != nil {
			return err
		}

		var infos []typeInfo
		for _, tag := range lib.Types() {
			r, err := lib.Make(tag)
			if err != nil {
				return err
			}
			info := typeInfo{Type: tag, CastTypes: convert.CastResourceTypes(r)}
			for _, e := range lib.Extensions(tag) {
				info.Extensions = append(info.Extensions, e.Ext)
			}
			for _, f := range r.Formats() {
				info.Formats = append(info.Formats, string(f))
			}
			if ex, err := convert.ExtractResourceTypes(r); err == nil {
				info.ExtractTypes = ex
			}
			infos = append(infos, info)
		}

		if flagJSON {
			return writeJSON(cmd.OutOrStdout(), infos)
		}
		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "TYPE\tEXTENSIONS\tFORMATS\tCAST\tEXTRACT")
		for _, info := range infos {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", info.Type,
				dash(info.Extensions), dash(info.Formats), dash(info.CastTypes), dash(info.ExtractTypes))
		}
		return tw.Flush()
	},
}

func dash(xs []string) string {
	if len(xs) == 0 {
		return "-"
	}
	return strings.Join(xs, ",")
}
