package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/pacdump/pacdump/pkg/errors"
	"github.com/pacdump/pacdump/pkg/graphout"
	"github.com/pacdump/pacdump/pkg/query"
)

// graphOpts holds the command-line flags for the graph command.
type graphOpts struct {
	recurse  string // root package of the closure (required)
	optional bool   // include optional dependency edges
	detailed bool   // detailed node labels
	sync     bool   // resolve against the sync databases
	format   string // dot or svg
	backend  string // database backend override
	noCache  bool   // disable the reverse-index cache
	output   string // output file path (stdout if empty)
}

// graphCommand creates the graph command, rendering a resolved dependency
// closure as Graphviz output.
func (c *CLI) graphCommand() *cobra.Command {
	opts := graphOpts{format: "dot"}

	cmd := &cobra.Command{
		Use:   "graph",
		Short: "Render a dependency closure as a Graphviz graph",
		Long: `Resolve the dependency closure of a package and render it as a
Graphviz graph. Edges point from a package to the satisfier of each of its
dependency specifications.

Examples:
  pacdump graph --recurse firefox                     # DOT to stdout
  pacdump graph --recurse firefox --format svg -o deps.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filters := query.Filters{
				Sync:     opts.sync,
				Recurse:  opts.recurse,
				Optional: opts.optional,
			}
			res, err := c.runQuery(cmd.Context(), filters, opts.backend, opts.noCache)
			if err != nil {
				return err
			}

			dot := graphout.ToDOT(res.Resolution, graphout.Options{
				Detailed: opts.detailed,
				Optional: opts.optional,
			})

			var data []byte
			switch opts.format {
			case "dot":
				data = []byte(dot)
			case "svg":
				if data, err = graphout.RenderSVG(dot); err != nil {
					return err
				}
			default:
				return errors.New(errors.ErrCodeInvalidFormat, "unknown graph format %q (want dot or svg)", opts.format)
			}

			if opts.output == "" || opts.output == "-" {
				_, err = os.Stdout.Write(data)
				return err
			}
			if err := os.WriteFile(opts.output, data, 0o644); err != nil {
				return err
			}
			printSuccess("Rendered %d packages", len(res.Resolution.Visited))
			printFile(opts.output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.recurse, "recurse", "r", "", "root package of the closure")
	cmd.Flags().BoolVar(&opts.optional, "optional", false, "include optional dependency edges")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "detailed node labels (repository and description)")
	cmd.Flags().BoolVarP(&opts.sync, "sync", "s", false, "resolve against the sync databases")
	cmd.Flags().StringVarP(&opts.format, "format", "f", opts.format, "output format: dot or svg")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "database backend: alpm or files (default alpm)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the reverse-dependency index cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")
	_ = cmd.MarkFlagRequired("recurse")

	return cmd
}
