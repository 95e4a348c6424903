// Package files reads pacman databases straight from disk, without libalpm.
//
// The local database is a directory tree (dbpath/local/<name>-<version>/desc)
// and each sync database is a tar archive (dbpath/sync/<repo>.db), usually
// gzip- or zstd-compressed. Records are converted eagerly into owned
// db.Package values, so the store holds no file handles after Open returns.
package files

import (
	"archive/tar"
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"

	"github.com/pacdump/pacdump/pkg/db"
	"github.com/pacdump/pacdump/pkg/errors"
)

// DB is one loaded database.
type DB struct {
	name  string
	local bool
	pkgs  map[string]*db.Package
	names []string
}

func (d *DB) Name() string { return d.name }
func (d *DB) Local() bool  { return d.local }

func (d *DB) Pkg(name string) (*db.Package, bool) {
	p, ok := d.pkgs[name]
	return p, ok
}

func (d *DB) Pkgs() []*db.Package {
	out := make([]*db.Package, 0, len(d.names))
	for _, n := range d.names {
		out = append(out, d.pkgs[n])
	}
	return out
}

// Store implements db.Store over an on-disk pacman db tree.
type Store struct {
	local *DB
	syncs []db.DB
}

// Open loads the local database under dbpath and the named sync databases
// from dbpath/sync. A missing sync file is a registration failure; a
// missing local tree yields an empty local database, matching libalpm's
// behavior on fresh systems.
func Open(dbpath string, repos []string) (*Store, error) {
	local, err := loadLocal(filepath.Join(dbpath, "local"))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeDBRegistration, err, "load local database under %s", dbpath)
	}
	s := &Store{local: local}
	for _, repo := range repos {
		path := filepath.Join(dbpath, "sync", repo+".db")
		sync, err := loadSync(repo, path)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeDBRegistration, err, "register sync database %q", repo)
		}
		s.syncs = append(s.syncs, sync)
	}
	return s, nil
}

func (s *Store) LocalDB() db.DB    { return s.local }
func (s *Store) SyncDBs() []db.DB  { return s.syncs }
func (s *Store) Close() error      { return nil }

func newDB(name string, local bool) *DB {
	return &DB{name: name, local: local, pkgs: make(map[string]*db.Package)}
}

func (d *DB) add(p *db.Package) {
	p.Repository = d.name
	p.FromSync = !d.local
	if _, ok := d.pkgs[p.Name]; !ok {
		d.names = append(d.names, p.Name)
	}
	d.pkgs[p.Name] = p
}

func loadLocal(dir string) (*DB, error) {
	d := newDB("local", true)
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return d, nil
	}
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if !e.IsDir() {
			continue // ALPM_DB_VERSION and friends
		}
		descPath := filepath.Join(dir, e.Name(), "desc")
		f, err := os.Open(descPath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return nil, err
		}
		fields, err := parseDesc(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", descPath, err)
		}
		p := packageFromDesc(fields, true)
		if p.Name == "" {
			continue
		}
		if _, err := os.Stat(filepath.Join(dir, e.Name(), "install")); err == nil {
			p.InstallScript = true
		}
		d.add(p)
	}
	sort.Strings(d.names)
	return d, nil
}

func loadSync(repo, path string) (*DB, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	r, err := decompress(raw)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}

	d := newDB(repo, false)
	// depends used to be a separate file in old databases and is folded
	// into desc today. repo-add wrote it in no fixed order relative to
	// desc, so split entries are buffered and merged after the scan.
	split := make(map[string]map[string][]string)
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		// Entries are <name>-<version>/{desc,files}.
		base := filepath.Base(hdr.Name)
		if hdr.Typeflag != tar.TypeReg || (base != "desc" && base != "depends") {
			continue
		}
		fields, err := parseDesc(tr)
		if err != nil {
			return nil, fmt.Errorf("parse %s in %s: %w", hdr.Name, path, err)
		}
		if base == "depends" {
			split[nameFromEntry(hdr.Name)] = fields
			continue
		}
		p := packageFromDesc(fields, false)
		if p.Name != "" {
			d.add(p)
		}
	}
	for name, fields := range split {
		p, ok := d.pkgs[name]
		if !ok {
			continue
		}
		p.Depends = append(p.Depends, depends(fields, "DEPENDS")...)
		p.OptDepends = append(p.OptDepends, depends(fields, "OPTDEPENDS")...)
	}
	sort.Strings(d.names)
	return d, nil
}

// nameFromEntry strips "<dir>/desc" to "<name>" by dropping the trailing
// "-pkgver-pkgrel" from the directory component.
func nameFromEntry(entry string) string {
	dir := filepath.Dir(entry)
	parts := strings.Split(dir, "-")
	if len(parts) < 3 {
		return dir
	}
	return strings.Join(parts[:len(parts)-2], "-")
}

// decompress detects the archive compression by magic bytes. Sync databases
// are commonly gzip (repo-add default) or zstd; uncompressed tar also
// appears in the wild.
func decompress(raw []byte) (io.Reader, error) {
	switch {
	case len(raw) >= 2 && raw[0] == 0x1f && raw[1] == 0x8b:
		return gzip.NewReader(bytes.NewReader(raw))
	case len(raw) >= 4 && raw[0] == 0x28 && raw[1] == 0xb5 && raw[2] == 0x2f && raw[3] == 0xfd:
		zr, err := zstd.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, err
		}
		return zr.IOReadCloser(), nil
	default:
		return bytes.NewReader(raw), nil
	}
}
