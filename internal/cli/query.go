package cli

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pacdump/pacdump/pkg/pgp"
	"github.com/pacdump/pacdump/pkg/query"
)

// queryOpts holds the command-line flags for the query command.
type queryOpts struct {
	sync     bool   // query sync databases instead of the local one
	all      bool   // include non-explicitly installed packages
	plain    bool   // disable local/sync reconciliation
	recurse  string // resolve the dependency closure of this package
	optional bool   // recurse into optional dependencies too
	summary  bool   // emit only name=version identifiers
	backend  string // database backend override
	noCache  bool   // disable the reverse-index cache
	output   string // output file path (stdout if empty)
}

func (o *queryOpts) filters() query.Filters {
	return query.Filters{
		Sync:     o.sync,
		All:      o.all,
		Plain:    o.plain,
		Recurse:  o.recurse,
		Optional: o.optional,
		Summary:  o.summary,
	}
}

// queryCommand creates the query command, the main entrypoint for dumping
// package records.
func (c *CLI) queryCommand() *cobra.Command {
	opts := queryOpts{}

	cmd := &cobra.Command{
		Use:   "query",
		Short: "Dump enriched package records as JSON",
		Long: `Dump pacman package records as a JSON array.

By default the local database is queried and only explicitly installed
packages are emitted, each reconciled against its sync counterpart and
enriched with reverse dependencies and signing key IDs.

Examples:
  pacdump query                      # explicitly installed packages
  pacdump query --all                # every installed package
  pacdump query --sync               # sync databases instead
  pacdump query --recurse firefox    # firefox and its dependency closure
  pacdump query --recurse firefox --summary   # closure members only`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := c.runQuery(cmd.Context(), opts.filters(), opts.backend, opts.noCache)
			if err != nil {
				return err
			}
			return c.emit(res, opts.summary, opts.output)
		},
	}

	cmd.Flags().BoolVarP(&opts.sync, "sync", "s", false, "query the sync databases instead of the local one")
	cmd.Flags().BoolVarP(&opts.all, "all", "a", false, "include packages installed as dependencies")
	cmd.Flags().BoolVar(&opts.plain, "plain", false, "skip local/sync reconciliation")
	cmd.Flags().StringVarP(&opts.recurse, "recurse", "r", "", "resolve the dependency closure of a package (implies --all)")
	cmd.Flags().BoolVar(&opts.optional, "optional", false, "recurse into optional dependencies (with --recurse)")
	cmd.Flags().BoolVar(&opts.summary, "summary", false, "emit only name=version identifiers")
	cmd.Flags().StringVar(&opts.backend, "backend", "", "database backend: alpm or files (default alpm)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "skip the reverse-dependency index cache")
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (stdout if empty)")

	return cmd
}

// runQuery opens the database backend, builds (or loads) the reverse
// index, and executes the query. Shared by the query and graph commands.
func (c *CLI) runQuery(ctx context.Context, filters query.Filters, backend string, noCache bool) (*query.Result, error) {
	logger := loggerFromContext(ctx)
	opts := c.storeOpts(backend, noCache)

	sp := newSpinnerWithContext(ctx, "loading package databases")
	sp.Start()
	store, dbPaths, err := c.openStore(opts, logger)
	if err != nil {
		sp.StopWithError("Failed to load package databases")
		return nil, err
	}
	sp.Stop()
	if sp.Cancelled() {
		return nil, ctx.Err()
	}
	defer store.Close()

	cch := c.newCache(opts.noCache)
	defer cch.Close()
	rev := c.reverseIndex(ctx, store, cch, dbPaths, logger)

	q := query.New(store, filters, rev, pgp.NewDecoder(), logger)
	return q.Run()
}

// emit writes the result as indented JSON to the output file, or stdout
// when none is given. Summary mode emits the bare name=version list.
func (c *CLI) emit(res *query.Result, summary bool, output string) error {
	var w io.Writer = os.Stdout
	if output != "" && output != "-" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	var err error
	var count int
	if summary {
		names := summaryNames(res)
		count = len(names)
		err = enc.Encode(names)
	} else {
		pkgs := res.Packages
		if pkgs == nil {
			pkgs = []*query.PackageInfo{}
		}
		count = len(pkgs)
		err = enc.Encode(pkgs)
	}
	if err != nil {
		return err
	}

	if output != "" && output != "-" {
		printSuccess("Dumped %d package records", count)
		printFile(output)
	} else {
		printDetail("%d package records", count)
	}
	return nil
}

// summaryNames returns the name=version identifiers of the result: the
// closure members in resolution order when recursing, otherwise the keys
// of the flat record list.
func summaryNames(res *query.Result) []string {
	if res.Resolution != nil {
		return res.Resolution.Summary()
	}
	names := make([]string, 0, len(res.Packages))
	for _, info := range res.Packages {
		names = append(names, info.Key())
	}
	return names
}
