package query

import (
	charmlog "github.com/charmbracelet/log"

	"github.com/pacdump/pacdump/pkg/db"
	"github.com/pacdump/pacdump/pkg/errors"
)

// Filters is the fixed per-run configuration of the query driver, mapped
// one-to-one from the command line.
type Filters struct {
	// Sync queries the sync databases instead of the local one.
	Sync bool
	// All includes packages that were not explicitly installed.
	All bool
	// Plain disables local/sync reconciliation.
	Plain bool
	// Recurse names a root package whose dependency closure is resolved.
	// Implies All.
	Recurse string
	// Optional also recurses into optional dependencies.
	Optional bool
	// Summary reports only the name=version closure, no detailed records.
	Summary bool
}

// WithDefaults returns a copy with implied flags applied.
func (f Filters) WithDefaults() Filters {
	out := f
	if out.Recurse != "" {
		out.All = true
	}
	return out
}

// Query drives record generation: filtering, reconciliation, reverse-dep
// attachment, key-ID enrichment, and closure resolution. It holds only
// read-only state and per-run configuration.
type Query struct {
	Store   db.Store
	Filters Filters
	Reverse *ReverseDeps
	Keys    KeyDecoder
	Logger  *charmlog.Logger
}

// New assembles a Query. The reverse index is expected to be prebuilt (and
// possibly cache-loaded) by the caller; pass nil to skip reverse-dep
// attachment.
func New(store db.Store, filters Filters, reverse *ReverseDeps, keys KeyDecoder, logger *charmlog.Logger) *Query {
	return &Query{
		Store:   store,
		Filters: filters.WithDefaults(),
		Reverse: reverse,
		Keys:    keys,
		Logger:  logger,
	}
}

func (q *Query) logger() *charmlog.Logger {
	if q.Logger != nil {
		return q.Logger
	}
	return charmlog.Default()
}

// scopeDBs returns the databases selected by the sync/local scope.
func (q *Query) scopeDBs() []db.DB {
	if q.Filters.Sync {
		return q.Store.SyncDBs()
	}
	return []db.DB{q.Store.LocalDB()}
}

// complementaryDBs returns the other side, used for reconciliation.
func (q *Query) complementaryDBs() []db.DB {
	if q.Filters.Sync {
		return []db.DB{q.Store.LocalDB()}
	}
	return q.Store.SyncDBs()
}

// searchDBs returns the databases satisfier lookups run against.
func (q *Query) searchDBs() []db.DB {
	return q.scopeDBs()
}

// Generate produces the enriched record for one database package, applying
// the configured filters. A NOT_EXPLICIT error is a filtering decision,
// not a defect; callers skip and continue.
func (q *Query) Generate(pkg *db.Package) (*PackageInfo, error) {
	if q.Filters.Recurse == "" && !q.Filters.All && pkg.Reason == db.ReasonDependency {
		return nil, errors.New(errors.ErrCodeNotExplicit, "%q not explicitly installed, skipped", pkg.Name)
	}
	info := NewPackageInfo(pkg)
	if !q.Filters.Plain {
		info = q.enrich(info)
	}
	info = q.decodeKeys(info)
	if q.Reverse != nil {
		info = q.Reverse.Attach(info)
	}
	return info, nil
}

// enrich reconciles a record against the complementary database. A missing
// counterpart is informational, never an error.
func (q *Query) enrich(info *PackageInfo) *PackageInfo {
	comp, ok := db.FindInDBs(q.complementaryDBs(), info.Name)
	if !ok {
		q.logger().Debug("no counterpart in complementary databases", "package", info.Name)
		return info
	}
	return Reconcile(info, NewPackageInfo(comp), q.Filters.Sync)
}

// decodeKeys runs best-effort key-ID extraction on whichever side of the
// record carries a signature.
func (q *Query) decodeKeys(info *PackageInfo) *PackageInfo {
	if q.Keys == nil {
		return info
	}
	info = DecodeKeyID(info, q.Keys)
	if info.SyncInfo != nil {
		info.SyncInfo = DecodeKeyID(info.SyncInfo, q.Keys)
	}
	return info
}

// Result is what one driver run produces: either a flat record list, or a
// closure resolution when recurse mode is active.
type Result struct {
	Packages   []*PackageInfo
	Resolution *Resolution
}

// Run executes the query. Per-package failures are logged and skipped; the
// only returned errors are an invalid or missing recursion root.
func (q *Query) Run() (*Result, error) {
	if q.Filters.Recurse != "" {
		return q.runRecurse()
	}

	res := &Result{}
	for _, d := range q.scopeDBs() {
		for _, pkg := range d.Pkgs() {
			info, err := q.Generate(pkg)
			if err != nil {
				if errors.Is(err, errors.ErrCodeNotExplicit) {
					q.logger().Debug(errors.UserMessage(err))
				} else {
					q.logger().Warn("skipping package", "package", pkg.Name, "err", err)
				}
				continue
			}
			res.Packages = append(res.Packages, info)
		}
	}
	return res, nil
}

func (q *Query) runRecurse() (*Result, error) {
	name := q.Filters.Recurse
	if err := errors.ValidatePackageName(name); err != nil {
		return nil, err
	}
	pkg, ok := db.FindInDBs(q.scopeDBs(), name)
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "%q not found in the searched databases", name)
	}
	root, err := q.Generate(pkg)
	if err != nil {
		q.logger().Debug("root enrichment failed, using bare record", "package", name, "err", err)
		root = NewPackageInfo(pkg)
	}
	resolution := q.Recurse(root)
	return &Result{Packages: resolution.Packages, Resolution: resolution}, nil
}
