package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/larder/pkg/convert"
	"github.com/mesh-intelligence/larder/pkg/types"
)

// flagSave stores conversion output. Shared by the conversion commands.
var flagSave bool

var castCmd = &cobra.Command{
	Use:   "cast <type> <name> <target>",
	Short: "Reinterpret a stored resource as another type",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withResource(args[0], args[1], func(sess *session, r types.Resource) error {
			out, err := convert.CastResource(r, args[2])
			if err != nil {
				return fmt.Errorf("%w (can cast to %v)", err, convert.CastResourceTypes(r))
			}
			return emit(cmd, sess, types.Result{Status: types.StatusSuccess, Resources: []types.Resource{out}})
		})
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract <type> <name> <target>",
	Short: "Decompose a stored resource into resources of one type",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withResource(args[0], args[1], func(sess *session, r types.Resource) error {
			return emit(cmd, sess, convert.ExtractResources(r, args[2]))
		})
	},
}

var unpackCmd = &cobra.Command{
	Use:   "unpack <type> <name>",
	Short: "Decompose a stored resource into its parts",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withResource(args[0], args[1], func(sess *session, r types.Resource) error {
			return emit(cmd, sess, convert.UnpackResource(r))
		})
	},
}

var (
	flagPackFrom []string
	flagPackName string
)

var packCmd = &cobra.Command{
	Use:   "pack <target>",
	Short: "Build a resource from stored parts",
	Long: `Pack builds a resource of the target type. With --from, the listed
resources are the parts, in order; otherwise every stored resource of each
part type is used.

Example:
  larder pack LinearPath --from Vector:walk.times --from Config:q0 --from Config:q1`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sess, err := openSession()
		if err != nil {
			return err
		}
		defer sess.close()

		var out types.Resource
		if len(flagPackFrom) == 0 {
			out, err = convert.PackLibraryResources(sess.lib, args[0])
		} else {
			var subs []types.Resource
			for _, ref := range flagPackFrom {
				tag, name, err := parseRef(ref)
				if err != nil {
					return err
				}
				r, err := sess.lib.Lookup(tag, name)
				if err != nil {
					return err
				}
				subs = append(subs, r)
			}
			var template types.Resource
			template, err = sess.lib.Make(args[0])
			if err != nil {
				return err
			}
			out, err = convert.PackResources(subs, template)
		}
		if err != nil {
			return err
		}
		out.SetName(flagPackName)
		return emit(cmd, sess, types.Result{Status: types.StatusSuccess, Resources: []types.Resource{out}})
	},
}

func init() {
	for _, c := range []*cobra.Command{castCmd, extractCmd, unpackCmd, packCmd} {
		c.Flags().BoolVar(&flagSave, "save", false, "store the result")
	}
	packCmd.Flags().StringArrayVar(&flagPackFrom, "from", nil, "part as Type:name (repeatable, in order)")
	packCmd.Flags().StringVar(&flagPackName, "name", "packed", "name of the packed resource")
}

// withResource opens a session, looks up tag/name and calls fn.
func withResource(tag, name string, fn func(*session, types.Resource) error) error {
	sess, err := openSession()
	if err != nil {
		return err
	}
	defer sess.close()

	r, err := sess.lib.Lookup(tag, name)
	if err != nil {
		return err
	}
	return fn(sess, r)
}

// emit prints res and, with --save, stores its resources.
func emit(cmd *cobra.Command, sess *session, res types.Result) error {
	if !res.Successful() {
		return res.Err
	}
	if err := printResult(cmd.OutOrStdout(), res); err != nil {
		return err
	}
	if flagSave {
		return sess.save(cmd.ErrOrStderr(), res.Resources)
	}
	return nil
}
