// Package query is the core of pacdump: it projects database packages into
// serializable records, reconciles local and sync views of the same
// package, indexes reverse dependencies over the repository universe, and
// resolves transitive dependency closures.
package query

import (
	"github.com/pacdump/pacdump/pkg/db"
)

// DepInfo is the serializable view of one dependency specification. The
// Satisfier field starts empty and is filled by the closure resolver once a
// concrete package has been matched.
type DepInfo struct {
	Name        string `json:"name"`
	Depmod      string `json:"depmod,omitempty"`
	Version     string `json:"version,omitempty"`
	Description string `json:"description,omitempty"`
	Satisfier   string `json:"satisfier,omitempty"`
}

// Spec returns the underlying dependency specification for lookups.
func (d DepInfo) Spec() db.Depend {
	var mod db.DepMod
	switch d.Depmod {
	case "=":
		mod = db.DepModEq
	case ">=":
		mod = db.DepModGE
	case "<=":
		mod = db.DepModLE
	case ">":
		mod = db.DepModGT
	case "<":
		mod = db.DepModLT
	}
	return db.Depend{Name: d.Name, Mod: mod, Version: d.Version, Description: d.Description}
}

// PackageInfo is the serializable record emitted for each package. Fields
// are copied from the database record at construction; the key-ID list and
// the companion records are filled lazily by the enrichment steps.
type PackageInfo struct {
	Repository   string   `json:"repository,omitempty"`
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Description  string   `json:"description,omitempty"`
	Architecture string   `json:"architecture,omitempty"`
	URL          string   `json:"url,omitempty"`
	Licenses     []string `json:"licenses,omitempty"`
	Groups       []string `json:"groups,omitempty"`

	Provides     []DepInfo `json:"provides,omitempty"`
	DependsOn    []DepInfo `json:"depends_on,omitempty"`
	OptionalDeps []DepInfo `json:"optional_deps,omitempty"`
	MakeDeps     []DepInfo `json:"make_deps,omitempty"`
	CheckDeps    []DepInfo `json:"check_deps,omitempty"`

	RequiredBy      []string `json:"required_by,omitempty"`
	OptionalFor     []string `json:"optional_for,omitempty"`
	RequiredByMake  []string `json:"required_by_make,omitempty"`
	RequiredByCheck []string `json:"required_by_check,omitempty"`

	ConflictsWith []DepInfo `json:"conflicts_with,omitempty"`
	Replaces      []DepInfo `json:"replaces,omitempty"`

	DownloadSize  int64 `json:"download_size"`
	InstalledSize int64 `json:"installed_size"`

	Packager  string `json:"packager,omitempty"`
	BuildDate int64  `json:"build_date,omitempty"`

	InstallDate   int64  `json:"install_date,omitempty"`
	InstallReason string `json:"install_reason,omitempty"`
	InstallScript bool   `json:"install_script"`

	MD5Sum      string   `json:"md5_sum,omitempty"`
	SHA256Sum   string   `json:"sha_256_sum,omitempty"`
	Signature   string   `json:"signature,omitempty"`
	ValidatedBy []string `json:"validated_by,omitempty"`

	// KeyID is filled by DecodeKeyID; on decode failure it carries a
	// single diagnostic string instead.
	KeyID []string `json:"key_id,omitempty"`

	// LocalInfo and SyncInfo hold the companion record attached during
	// reconciliation. At most one of them is set, and never nested.
	LocalInfo *PackageInfo `json:"local_info,omitempty"`
	SyncInfo  *PackageInfo `json:"sync_info,omitempty"`
}

// Key returns the "name=version" identity used by the closure resolver.
func (p *PackageInfo) Key() string {
	return p.Name + "=" + p.Version
}

// NewPackageInfo projects a database record into a PackageInfo. The
// projection is pure: no lookups, no validation, absent fields stay empty.
func NewPackageInfo(pkg *db.Package) *PackageInfo {
	info := &PackageInfo{
		Repository:    pkg.Repository,
		Name:          pkg.Name,
		Version:       pkg.Version,
		Description:   pkg.Description,
		Architecture:  pkg.Architecture,
		URL:           pkg.URL,
		Licenses:      pkg.Licenses,
		Groups:        pkg.Groups,
		Provides:      depInfos(pkg.Provides),
		DependsOn:     depInfos(pkg.Depends),
		OptionalDeps:  depInfos(pkg.OptDepends),
		MakeDeps:      depInfos(pkg.MakeDepends),
		CheckDeps:     depInfos(pkg.CheckDepends),
		ConflictsWith: depInfos(pkg.Conflicts),
		Replaces:      depInfos(pkg.Replaces),
		DownloadSize:  pkg.DownloadSize,
		InstalledSize: pkg.InstalledSize,
		Packager:      pkg.Packager,
		InstallScript: pkg.InstallScript,
		MD5Sum:        pkg.MD5Sum,
		SHA256Sum:     pkg.SHA256Sum,
		Signature:     pkg.SignatureB64,
		ValidatedBy:   pkg.Validation.Methods(),
	}
	if !pkg.BuildDate.IsZero() {
		info.BuildDate = pkg.BuildDate.Unix()
	}
	if !pkg.InstallDate.IsZero() {
		info.InstallDate = pkg.InstallDate.Unix()
	}
	if pkg.Reason != db.ReasonUnknown {
		info.InstallReason = pkg.Reason.String()
	}
	return info
}

func depInfos(deps []db.Depend) []DepInfo {
	if len(deps) == 0 {
		return nil
	}
	out := make([]DepInfo, len(deps))
	for i, d := range deps {
		out[i] = DepInfo{
			Name:        d.Name,
			Depmod:      d.Mod.String(),
			Version:     d.Version,
			Description: d.Description,
		}
	}
	return out
}

// clone returns a shallow copy with its own dependency slices, so satisfier
// recording on one resolution never leaks into another.
func (p *PackageInfo) clone() *PackageInfo {
	out := *p
	out.DependsOn = append([]DepInfo(nil), p.DependsOn...)
	out.OptionalDeps = append([]DepInfo(nil), p.OptionalDeps...)
	return &out
}
