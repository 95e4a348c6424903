package query

import (
	"github.com/pacdump/pacdump/pkg/db"
)

// visitedSet is an insertion-ordered set of "name=version" keys. It mirrors
// the discovery order of the closure walk: a key is added the moment its
// package is first entered.
type visitedSet struct {
	index map[string]struct{}
	order []string
}

func newVisitedSet() *visitedSet {
	return &visitedSet{index: make(map[string]struct{})}
}

func (s *visitedSet) Has(key string) bool {
	_, ok := s.index[key]
	return ok
}

func (s *visitedSet) Add(key string) {
	if !s.Has(key) {
		s.index[key] = struct{}{}
		s.order = append(s.order, key)
	}
}

// Resolution is the outcome of one closure computation. It is created
// fresh per root and never shared.
type Resolution struct {
	// Visited lists every "name=version" key in discovery order.
	Visited []string
	// Packages lists the fully processed records such that a package's
	// dependencies appear before the package itself. Empty in summary
	// mode.
	Packages []*PackageInfo
}

// Summary returns the visited keys with the discovery order reversed, so
// dependencies are listed before the packages that pulled them in.
func (r *Resolution) Summary() []string {
	out := make([]string, len(r.Visited))
	for i, k := range r.Visited {
		out[len(out)-1-i] = k
	}
	return out
}

// frame is one package being expanded: its record and a cursor over the
// dependency specifications still to process.
type frame struct {
	info *PackageInfo
	deps []*DepInfo
	next int
}

// specCursor collects pointers into the record's own (cloned) dependency
// slices, so satisfier keys recorded during the walk land directly in the
// emitted record.
func specCursor(info *PackageInfo, includeOptional bool) []*DepInfo {
	n := len(info.DependsOn)
	if includeOptional {
		n += len(info.OptionalDeps)
	}
	deps := make([]*DepInfo, 0, n)
	for i := range info.DependsOn {
		deps = append(deps, &info.DependsOn[i])
	}
	if includeOptional {
		for i := range info.OptionalDeps {
			deps = append(deps, &info.OptionalDeps[i])
		}
	}
	return deps
}

// Recurse resolves the transitive dependency closure of root.
//
// The walk is depth-first with an explicit frame stack rather than call
// recursion, so pathological dependency chains cannot exhaust the call
// stack. Each package is entered at most once: the visited set is keyed on
// "name=version" and checked before a satisfier is expanded, which breaks
// cycles and collapses diamond sharing. Satisfier keys are recorded on the
// dependency specifications either way.
//
// Unsatisfiable specifications are not fatal; they are logged and left
// with an empty satisfier while sibling specifications proceed. A failure
// to enrich a newly discovered package degrades to its bare record.
func (q *Query) Recurse(root *PackageInfo) *Resolution {
	visited := newVisitedSet()
	res := &Resolution{}
	dbs := q.searchDBs()

	push := func(info *PackageInfo) frame {
		info = info.clone()
		visited.Add(info.Key())
		return frame{info: info, deps: specCursor(info, q.Filters.Optional)}
	}

	stack := []frame{push(root)}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next < len(top.deps) {
			spec := top.deps[top.next]
			top.next++

			pkg, ok := db.FindSatisfier(dbs, spec.Spec())
			if !ok {
				q.logger().Debug("no satisfier found",
					"package", top.info.Name, "dependency", spec.Spec().String())
				continue
			}
			key := pkg.Key()
			spec.Satisfier = key
			if visited.Has(key) {
				q.logger().Debug("dependency already resolved",
					"satisfier", key, "dependency", spec.Spec().String())
				continue
			}

			info, err := q.Generate(pkg)
			if err != nil {
				// Enrichment failures fall back to the bare record; the
				// closure keeps going.
				q.logger().Debug("enrichment failed, using bare record",
					"package", pkg.Name, "err", err)
				info = NewPackageInfo(pkg)
			}
			stack = append(stack, push(info))
			continue
		}

		// All specifications at this level are processed.
		if !q.Filters.Summary {
			res.Packages = append(res.Packages, top.info)
		}
		stack = stack[:len(stack)-1]
	}

	res.Visited = visited.order
	return res
}
