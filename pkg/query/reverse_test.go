package query

import (
	"reflect"
	"testing"

	"github.com/pacdump/pacdump/pkg/db"
	"github.com/pacdump/pacdump/pkg/db/memory"
)

func TestBuildReverseDepsMap(t *testing.T) {
	store := memory.NewStore()
	core := store.AddSync("core")
	core.Add(&db.Package{Name: "glibc", Version: "2.39-1"})
	core.Add(&db.Package{
		Name: "zlib", Version: "1.3-1",
		Depends: []db.Depend{{Name: "glibc"}},
	})
	core.Add(&db.Package{
		Name: "openssl", Version: "3.3-1",
		Depends: []db.Depend{{Name: "glibc", Mod: db.DepModGE, Version: "2.0"}, {Name: "zlib"}},
	})

	m := BuildReverseDepsMap(store.SyncDBs(), func(p *db.Package) []db.Depend { return p.Depends })

	if got, want := m.Get("glibc"), []string{"openssl", "zlib"}; !reflect.DeepEqual(got, want) {
		t.Errorf("glibc dependents = %v, want %v (sorted)", got, want)
	}
	if got := m.Get("zlib"); !reflect.DeepEqual(got, []string{"openssl"}) {
		t.Errorf("zlib dependents = %v, want [openssl]", got)
	}
	if got := m.Get("openssl"); got != nil {
		t.Errorf("openssl dependents = %v, want none", got)
	}
	if got := m.Get("no-such-package"); got != nil {
		t.Errorf("unknown name should return nil, got %v", got)
	}
}

func TestBuildReverseDepsMapDeduplicates(t *testing.T) {
	// The same dependent appearing in two databases must count once.
	store := memory.NewStore()
	for _, repo := range []string{"core", "extra"} {
		store.AddSync(repo).Add(&db.Package{
			Name: "app", Version: "1-1",
			Depends: []db.Depend{{Name: "glibc"}},
		})
	}

	m := BuildReverseDepsMap(store.SyncDBs(), func(p *db.Package) []db.Depend { return p.Depends })
	if got := m.Get("glibc"); !reflect.DeepEqual(got, []string{"app"}) {
		t.Errorf("glibc dependents = %v, want [app]", got)
	}
}

func TestNewReverseDepsLocalFallback(t *testing.T) {
	// Without sync databases the local database is indexed, so required-by
	// data survives on a bare local tree.
	store := memory.NewStore()
	store.Local().Add(&db.Package{Name: "glibc", Version: "2.39-1"})
	store.Local().Add(&db.Package{
		Name: "zlib", Version: "1.3-1",
		Depends:    []db.Depend{{Name: "glibc"}},
		OptDepends: []db.Depend{{Name: "attr", Description: "xattr support"}},
	})

	rev := NewReverseDeps(store)
	if got := rev.RequiredBy.Get("glibc"); !reflect.DeepEqual(got, []string{"zlib"}) {
		t.Errorf("RequiredBy[glibc] = %v, want [zlib]", got)
	}
	if got := rev.OptionalFor.Get("attr"); !reflect.DeepEqual(got, []string{"zlib"}) {
		t.Errorf("OptionalFor[attr] = %v, want [zlib]", got)
	}
}

func TestReverseDepsAttach(t *testing.T) {
	rev := &ReverseDeps{
		RequiredBy:      ReverseDepsMap{"glibc": {"zlib"}},
		OptionalFor:     ReverseDepsMap{"glibc": {"tools"}},
		RequiredByMake:  ReverseDepsMap{},
		RequiredByCheck: ReverseDepsMap{"glibc": {"testsuite"}},
	}

	info := rev.Attach(&PackageInfo{Name: "glibc", Version: "2.39-1"})
	if !reflect.DeepEqual(info.RequiredBy, []string{"zlib"}) {
		t.Errorf("RequiredBy = %v", info.RequiredBy)
	}
	if !reflect.DeepEqual(info.OptionalFor, []string{"tools"}) {
		t.Errorf("OptionalFor = %v", info.OptionalFor)
	}
	if info.RequiredByMake != nil {
		t.Errorf("RequiredByMake = %v, want none", info.RequiredByMake)
	}
	if !reflect.DeepEqual(info.RequiredByCheck, []string{"testsuite"}) {
		t.Errorf("RequiredByCheck = %v", info.RequiredByCheck)
	}
}
