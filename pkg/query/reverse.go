package query

import (
	"slices"

	"github.com/pacdump/pacdump/pkg/db"
)

// ReverseDepsMap maps a package name to the sorted set of names of packages
// that declare a dependency on it. Names with no dependents are absent;
// lookups on them return an empty set.
type ReverseDepsMap map[string][]string

// Get returns the sorted dependent names for a package, or nil.
func (m ReverseDepsMap) Get(name string) []string {
	return m[name]
}

// BuildReverseDepsMap scans every package in the given databases once and
// inverts the selected dependency kind into a name→dependents map. Keys are
// the bare dependency names; version constraints do not participate in
// reverse membership.
//
// This deliberately enumerates the whole universe instead of asking the
// database for per-package reverse dependencies: libalpm computes
// required-by lists with a full database walk per call, which turns a
// whole-database dump quadratic. One scan here buys O(1) lookups for every
// record emitted afterwards.
func BuildReverseDepsMap(dbs []db.DB, select_ func(*db.Package) []db.Depend) ReverseDepsMap {
	sets := make(map[string]map[string]struct{})
	for _, d := range dbs {
		for _, pkg := range d.Pkgs() {
			for _, dep := range select_(pkg) {
				set, ok := sets[dep.Name]
				if !ok {
					set = make(map[string]struct{})
					sets[dep.Name] = set
				}
				set[pkg.Name] = struct{}{}
			}
		}
	}

	out := make(ReverseDepsMap, len(sets))
	for name, set := range sets {
		names := make([]string, 0, len(set))
		for n := range set {
			names = append(names, n)
		}
		slices.Sort(names)
		out[name] = names
	}
	return out
}

// ReverseDeps bundles the four reverse-dependency maps, one per dependency
// kind. It is built once per run and read-only afterwards.
type ReverseDeps struct {
	RequiredBy      ReverseDepsMap
	OptionalFor     ReverseDepsMap
	RequiredByMake  ReverseDepsMap
	RequiredByCheck ReverseDepsMap
}

// NewReverseDeps builds the full index from the store's sync databases.
// When no sync database is registered (a bare local tree opened with the
// files backend) the local database is scanned instead, so required-by
// data is still available.
func NewReverseDeps(store db.Store) *ReverseDeps {
	dbs := store.SyncDBs()
	if len(dbs) == 0 {
		dbs = []db.DB{store.LocalDB()}
	}
	return &ReverseDeps{
		RequiredBy:      BuildReverseDepsMap(dbs, func(p *db.Package) []db.Depend { return p.Depends }),
		OptionalFor:     BuildReverseDepsMap(dbs, func(p *db.Package) []db.Depend { return p.OptDepends }),
		RequiredByMake:  BuildReverseDepsMap(dbs, func(p *db.Package) []db.Depend { return p.MakeDepends }),
		RequiredByCheck: BuildReverseDepsMap(dbs, func(p *db.Package) []db.Depend { return p.CheckDepends }),
	}
}

// Attach fills the record's reverse-dependency fields from the index.
func (r *ReverseDeps) Attach(info *PackageInfo) *PackageInfo {
	info.RequiredBy = r.RequiredBy.Get(info.Name)
	info.OptionalFor = r.OptionalFor.Get(info.Name)
	info.RequiredByMake = r.RequiredByMake.Get(info.Name)
	info.RequiredByCheck = r.RequiredByCheck.Get(info.Name)
	return info
}
