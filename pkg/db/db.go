// Package db defines the narrow database surface pacdump consumes: an owned
// package record, dependency specifications, and read-only database handles.
//
// Three backends implement these interfaces: the cgo libalpm binding
// (pkg/db/alpm), a pure-Go reader of pacman's on-disk database files
// (pkg/db/files), and an in-memory store used by tests (pkg/db/memory).
package db

import "time"

// InstallReason records why a package is present in the local database.
type InstallReason int

const (
	// ReasonUnknown is used for sync packages, which carry no install metadata.
	ReasonUnknown InstallReason = iota
	// ReasonExplicit marks a package the user asked for by name.
	ReasonExplicit
	// ReasonDependency marks a package pulled in to satisfy another package.
	ReasonDependency
)

// String returns the reason in pacman's vocabulary.
func (r InstallReason) String() string {
	switch r {
	case ReasonExplicit:
		return "explicit"
	case ReasonDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Validation is a bitmask of the methods that validated a package on install.
type Validation int

const (
	ValidationNone Validation = 1 << iota
	ValidationMD5
	ValidationSHA256
	ValidationSignature
)

// Methods lists the set bits in pacman's vocabulary. An empty slice means
// the package predates validation tracking.
func (v Validation) Methods() []string {
	var out []string
	if v&ValidationNone != 0 {
		out = append(out, "none")
	}
	if v&ValidationMD5 != 0 {
		out = append(out, "md5")
	}
	if v&ValidationSHA256 != 0 {
		out = append(out, "sha256")
	}
	if v&ValidationSignature != 0 {
		out = append(out, "signature")
	}
	return out
}

// Package is one owned database record. Every backend converts into this
// shape eagerly; fields that the source database does not carry are left at
// their zero value rather than signalled as errors.
type Package struct {
	Name         string
	Version      string
	Description  string
	Architecture string
	URL          string
	Packager     string

	// Repository is the name of the database the record came from
	// ("local", "core", "extra", ...).
	Repository string
	// FromSync is true when the record came from a sync database.
	FromSync bool

	Licenses []string
	Groups   []string

	Depends      []Depend
	OptDepends   []Depend
	MakeDepends  []Depend
	CheckDepends []Depend
	Provides     []Depend
	Conflicts    []Depend
	Replaces     []Depend

	// DownloadSize is the compressed package size; InstalledSize is the
	// on-disk footprint after install.
	DownloadSize  int64
	InstalledSize int64

	BuildDate   time.Time
	InstallDate time.Time

	Reason        InstallReason
	InstallScript bool

	MD5Sum    string
	SHA256Sum string
	// SignatureB64 is the detached PGP signature, base64-encoded, as sync
	// databases ship it. Empty for local records.
	SignatureB64 string
	Validation   Validation
}

// Key returns the "name=version" identity used by the closure resolver.
func (p *Package) Key() string {
	return p.Name + "=" + p.Version
}

// DB is one registered database: either the local database of installed
// packages or a single sync repository.
type DB interface {
	// Name is the database name, e.g. "local" or "extra".
	Name() string
	// Local reports whether this is the local (installed-packages) database.
	Local() bool
	// Pkg returns the package with the given name, if present.
	Pkg(name string) (*Package, bool)
	// Pkgs returns every package in the database.
	Pkgs() []*Package
}

// Store is an opened pacman database handle: one local database plus zero
// or more sync databases in configured order.
type Store interface {
	LocalDB() DB
	SyncDBs() []DB
	// Close releases the handle. Safe to call once; records obtained
	// earlier stay valid (they are owned copies).
	Close() error
}

// FindInDBs locates a package by name across databases in order. The first
// database containing the name wins, matching pacman's repository priority.
func FindInDBs(dbs []DB, name string) (*Package, bool) {
	for _, d := range dbs {
		if p, ok := d.Pkg(name); ok {
			return p, true
		}
	}
	return nil, false
}

// FindSatisfier locates a package satisfying the dependency specification
// across databases in order. Within one database a direct name match is
// preferred; provides are consulted only when no named package satisfies,
// matching libalpm's resolution order.
func FindSatisfier(dbs []DB, dep Depend) (*Package, bool) {
	for _, d := range dbs {
		if p, ok := d.Pkg(dep.Name); ok && dep.SatisfiedBy(p) {
			return p, true
		}
	}
	for _, d := range dbs {
		for _, p := range d.Pkgs() {
			if dep.SatisfiedBy(p) {
				return p, true
			}
		}
	}
	return nil, false
}
