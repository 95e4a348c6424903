// Package alpm backs db.Store with libalpm through the go-alpm cgo
// binding. Records are converted into owned db.Package values while the
// handle is open, so the store survives Release and needs no lock
// coordination with pacman afterwards.
package alpm

import (
	alpm "github.com/Jguer/go-alpm/v2"

	"github.com/pacdump/pacdump/pkg/db"
	"github.com/pacdump/pacdump/pkg/errors"
	"github.com/pacdump/pacdump/pkg/siglevel"
)

// Repo names a sync repository and the signature level to register it with.
type Repo struct {
	Name     string
	SigLevel siglevel.SigLevel
}

type database struct {
	name  string
	local bool
	pkgs  map[string]*db.Package
	names []string
}

func (d *database) Name() string { return d.name }
func (d *database) Local() bool  { return d.local }

func (d *database) Pkg(name string) (*db.Package, bool) {
	p, ok := d.pkgs[name]
	return p, ok
}

func (d *database) Pkgs() []*db.Package {
	out := make([]*db.Package, 0, len(d.names))
	for _, n := range d.names {
		out = append(out, d.pkgs[n])
	}
	return out
}

// Store implements db.Store over a released libalpm handle.
type Store struct {
	local *database
	syncs []db.DB
}

// Open initializes libalpm at root/dbpath, registers the given sync
// repositories, converts every record, and releases the handle before
// returning. Registration failures are fatal per policy.
func Open(root, dbpath string, repos []Repo) (*Store, error) {
	handle, err := alpm.Initialize(root, dbpath)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDBRegistration, err, "initialize alpm at %s", dbpath)
	}
	defer handle.Release()

	s := &Store{}

	localdb, err := handle.LocalDB()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDBRegistration, err, "open local database")
	}
	s.local = convertDB(localdb, true)

	for _, repo := range repos {
		sync, err := handle.RegisterSyncDB(repo.Name, convertSigLevel(repo.SigLevel))
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDBRegistration, err, "register sync database %q", repo.Name)
		}
		s.syncs = append(s.syncs, convertDB(sync, false))
	}
	return s, nil
}

func (s *Store) LocalDB() db.DB   { return s.local }
func (s *Store) SyncDBs() []db.DB { return s.syncs }
func (s *Store) Close() error     { return nil }

func convertDB(src alpm.IDB, local bool) *database {
	d := &database{name: src.Name(), local: local, pkgs: make(map[string]*db.Package)}
	_ = src.PkgCache().ForEach(func(pkg alpm.IPackage) error {
		p := convertPackage(pkg, d.name, local)
		if _, ok := d.pkgs[p.Name]; !ok {
			d.names = append(d.names, p.Name)
		}
		d.pkgs[p.Name] = p
		return nil
	})
	return d
}

func convertPackage(pkg alpm.IPackage, repo string, local bool) *db.Package {
	p := &db.Package{
		Name:          pkg.Name(),
		Version:       pkg.Version(),
		Description:   pkg.Description(),
		Architecture:  pkg.Architecture(),
		URL:           pkg.URL(),
		Packager:      pkg.Packager(),
		Repository:    repo,
		FromSync:      !local,
		Licenses:      pkg.Licenses().Slice(),
		Groups:        pkg.Groups().Slice(),
		Depends:       convertDeps(pkg.Depends()),
		OptDepends:    convertDeps(pkg.OptionalDepends()),
		MakeDepends:   convertDeps(pkg.MakeDepends()),
		CheckDepends:  convertDeps(pkg.CheckDepends()),
		Provides:      convertDeps(pkg.Provides()),
		Conflicts:     convertDeps(pkg.Conflicts()),
		Replaces:      convertDeps(pkg.Replaces()),
		DownloadSize:  pkg.Size(),
		InstalledSize: pkg.ISize(),
		BuildDate:     pkg.BuildDate(),
		MD5Sum:        pkg.MD5Sum(),
		SHA256Sum:     pkg.SHA256Sum(),
		SignatureB64:  pkg.Base64Signature(),
		InstallScript: pkg.ScriptLet(),
	}
	if local {
		p.InstallDate = pkg.InstallDate()
		switch pkg.Reason() {
		case alpm.PkgReasonExplicit:
			p.Reason = db.ReasonExplicit
		case alpm.PkgReasonDepend:
			p.Reason = db.ReasonDependency
		}
	}
	v := pkg.Validation()
	if v&alpm.ValidationNone != 0 {
		p.Validation |= db.ValidationNone
	}
	if v&alpm.ValidationMD5Sum != 0 {
		p.Validation |= db.ValidationMD5
	}
	if v&alpm.ValidationSHA256Sum != 0 {
		p.Validation |= db.ValidationSHA256
	}
	if v&alpm.ValidationSignature != 0 {
		p.Validation |= db.ValidationSignature
	}
	return p
}

func convertDeps(list alpm.IDependList) []db.Depend {
	var out []db.Depend
	list.ForEach(func(dep *alpm.Depend) error {
		out = append(out, db.Depend{
			Name:        dep.Name,
			Mod:         convertDepMod(dep.Mod),
			Version:     dep.Version,
			Description: dep.Description,
		})
		return nil
	})
	return out
}

func convertDepMod(mod alpm.DepMod) db.DepMod {
	switch mod {
	case alpm.DepModEq:
		return db.DepModEq
	case alpm.DepModGE:
		return db.DepModGE
	case alpm.DepModLE:
		return db.DepModLE
	case alpm.DepModGT:
		return db.DepModGT
	case alpm.DepModLT:
		return db.DepModLT
	default:
		return db.DepModAny
	}
}

func convertSigLevel(level siglevel.SigLevel) alpm.SigLevel {
	if level&siglevel.UseDefault != 0 {
		return alpm.SigUseDefault
	}
	var out alpm.SigLevel
	for _, m := range []struct {
		ours   siglevel.SigLevel
		theirs alpm.SigLevel
	}{
		{siglevel.Package, alpm.SigPackage},
		{siglevel.PackageOptional, alpm.SigPackageOptional},
		{siglevel.PackageMarginalOk, alpm.SigPackageMarginalOk},
		{siglevel.PackageUnknownOk, alpm.SigPackageUnknownOk},
		{siglevel.Database, alpm.SigDatabase},
		{siglevel.DatabaseOptional, alpm.SigDatabaseOptional},
		{siglevel.DatabaseMarginalOk, alpm.SigDatabaseMarginalOk},
		{siglevel.DatabaseUnknownOk, alpm.SigDatabaseUnknownOk},
	} {
		if level&m.ours != 0 {
			out |= m.theirs
		}
	}
	return out
}
