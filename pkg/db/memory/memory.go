// Package memory provides an in-memory db.Store. It backs the test suites;
// nothing about it is pacman-specific beyond the record shape it stores.
package memory

import (
	"sort"

	"github.com/pacdump/pacdump/pkg/db"
)

// DB is one in-memory database.
type DB struct {
	name  string
	local bool
	pkgs  map[string]*db.Package
	order []string
}

// NewDB creates an empty database with the given name. local marks it as
// the installed-packages database.
func NewDB(name string, local bool) *DB {
	return &DB{name: name, local: local, pkgs: make(map[string]*db.Package)}
}

// Add inserts or replaces a package. The record's Repository and FromSync
// fields are stamped from the database identity.
func (d *DB) Add(p *db.Package) {
	p.Repository = d.name
	p.FromSync = !d.local
	if _, ok := d.pkgs[p.Name]; !ok {
		d.order = append(d.order, p.Name)
	}
	d.pkgs[p.Name] = p
}

func (d *DB) Name() string { return d.name }
func (d *DB) Local() bool  { return d.local }

func (d *DB) Pkg(name string) (*db.Package, bool) {
	p, ok := d.pkgs[name]
	return p, ok
}

func (d *DB) Pkgs() []*db.Package {
	out := make([]*db.Package, 0, len(d.order))
	for _, name := range d.order {
		out = append(out, d.pkgs[name])
	}
	return out
}

// Store is an in-memory db.Store: one local database plus sync databases
// in registration order.
type Store struct {
	local *DB
	syncs []*DB
}

// NewStore creates a store with an empty local database.
func NewStore() *Store {
	return &Store{local: NewDB("local", true)}
}

// Local returns the local database for population.
func (s *Store) Local() *DB { return s.local }

// AddSync registers and returns a new sync database.
func (s *Store) AddSync(name string) *DB {
	d := NewDB(name, false)
	s.syncs = append(s.syncs, d)
	return d
}

func (s *Store) LocalDB() db.DB { return s.local }

func (s *Store) SyncDBs() []db.DB {
	out := make([]db.DB, len(s.syncs))
	for i, d := range s.syncs {
		out[i] = d
	}
	return out
}

func (s *Store) Close() error { return nil }

// SortedNames returns every package name in the store, deduplicated and
// sorted. Handy for test assertions.
func (s *Store) SortedNames() []string {
	seen := map[string]struct{}{}
	for _, p := range s.local.Pkgs() {
		seen[p.Name] = struct{}{}
	}
	for _, d := range s.syncs {
		for _, p := range d.Pkgs() {
			seen[p.Name] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for n := range seen {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
