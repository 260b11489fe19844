package main

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vitrio/internal/demo"
	"github.com/vango-dev/vitrio/pkg/router"
	"github.com/vango-dev/vitrio/pkg/routepath"
)

func routesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "routes",
		Short: "Print the compiled route table",
		Long: `Print the compiled route table in matching order: parents before
children, table order among routes of equal depth, the catch-all last.

Examples:
  vitrio routes`,
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := router.New(demo.Routes())
			if err != nil {
				return err
			}
			return printRoutes(cmd.OutOrStdout(), rt)
		},
	}
}

// printRoutes writes one row per compiled route.
func printRoutes(w io.Writer, rt *router.Router) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "PATTERN\tSEGMENTS\tPREFIX\tHOOKS")
	for _, ri := range rt.Routes() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			ri.Pattern.Raw,
			describeSegments(ri.Pattern),
			yesNo(ri.Pattern.IsPrefix),
			describeHooks(ri.Route),
		)
	}
	return tw.Flush()
}

func describeSegments(p routepath.Pattern) string {
	if p.IsCatchAll() {
		return "*"
	}
	if len(p.Segments) == 0 {
		return "-"
	}
	parts := make([]string, len(p.Segments))
	for i, seg := range p.Segments {
		parts[i] = seg.Kind.String() + ":" + seg.Value
	}
	return strings.Join(parts, " ")
}

func describeHooks(r *router.Route) string {
	var hooks []string
	if r.Loader != nil {
		hooks = append(hooks, "loader")
	}
	if r.Action != nil {
		hooks = append(hooks, "action")
	}
	if r.Client {
		hooks = append(hooks, "client")
	}
	if len(hooks) == 0 {
		return "-"
	}
	return strings.Join(hooks, ",")
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
