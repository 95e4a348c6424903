package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pacdump/pacdump/pkg/cache"
	"github.com/pacdump/pacdump/pkg/db"
	"github.com/pacdump/pacdump/pkg/db/alpm"
	"github.com/pacdump/pacdump/pkg/db/files"
	"github.com/pacdump/pacdump/pkg/errors"
	"github.com/pacdump/pacdump/pkg/pacconf"
	"github.com/pacdump/pacdump/pkg/query"
)

// Fallback paths when neither the config file nor pacman-conf provides
// values. These match pacman's compiled-in defaults.
const (
	defaultRoot   = "/"
	defaultDBPath = "/var/lib/pacman"
)

// indexTTL bounds how long a cached reverse-dependency index is kept. The
// cache key already covers database sizes and mtimes, so the TTL only
// reclaims entries for databases that no longer exist.
const indexTTL = 7 * 24 * time.Hour

// storeOpts is the resolved database configuration for one run: flags win
// over the config file, the config file wins over pacman-conf discovery.
type storeOpts struct {
	backend string
	root    string
	dbpath  string
	repos   []string
	noCache bool
}

// storeOpts merges the command-line backend selection with the config file.
func (c *CLI) storeOpts(backend string, noCache bool) storeOpts {
	opts := storeOpts{
		backend: backend,
		root:    c.Config.Root,
		dbpath:  c.Config.DBPath,
		repos:   c.Config.Repos,
		noCache: noCache || c.Config.NoCache,
	}
	if opts.backend == "" {
		opts.backend = c.Config.Backend
	}
	if opts.backend == "" {
		opts.backend = "alpm"
	}
	return opts
}

// discover fills unset paths and repositories from pacman-conf. Discovery
// failures fall back to pacman's defaults so the files backend still works
// on a tree without pacman installed; the alpm backend will surface a real
// problem when the handle is initialized.
func (o *storeOpts) discover(logger *log.Logger) {
	if o.root == "" {
		root, err := pacconf.RootDir()
		if err != nil {
			logger.Debug("pacman-conf RootDir failed, using default", "err", err)
			root = defaultRoot
		}
		o.root = root
	}
	if o.dbpath == "" {
		dbpath, err := pacconf.DBPath()
		if err != nil {
			logger.Debug("pacman-conf DBPath failed, using default", "err", err)
			dbpath = defaultDBPath
		}
		o.dbpath = dbpath
	}
	if o.repos == nil {
		repos, err := pacconf.RepoList()
		if err != nil {
			logger.Warn("pacman-conf repo list failed, no sync databases registered", "err", err)
			repos = nil
		}
		o.repos = repos
	}
}

// reverseIndex returns the reverse-dependency index for the store, loading
// it from cache when the database files are unchanged and rebuilding (and
// re-caching) it otherwise. Cache failures never fail the run.
func (c *CLI) reverseIndex(ctx context.Context, store db.Store, cch cache.Cache, dbPaths []string, logger *log.Logger) *query.ReverseDeps {
	key := cache.IndexKey(dbPaths)
	if data, ok, err := cch.Get(ctx, key); err == nil && ok {
		var rev query.ReverseDeps
		if err := json.Unmarshal(data, &rev); err != nil {
			logger.Debug("discarding corrupt cached index", "err", err)
		} else {
			logger.Debug("reverse-dependency index loaded from cache")
			return &rev
		}
	}

	p := newProgress(logger)
	rev := query.NewReverseDeps(store)
	p.done(fmt.Sprintf("Built reverse-dependency index (%d packages required by others)", len(rev.RequiredBy)))

	if data, err := json.Marshal(rev); err == nil {
		if err := cch.Set(ctx, key, data, indexTTL); err != nil {
			logger.Debug("caching reverse-dependency index failed", "err", err)
		}
	}
	return rev
}

// openStore opens the selected database backend and returns the store plus
// the on-disk files the reverse-index cache key is derived from.
func (c *CLI) openStore(opts storeOpts, logger *log.Logger) (db.Store, []string, error) {
	if err := errors.ValidateBackend(opts.backend); err != nil {
		return nil, nil, err
	}
	opts.discover(logger)

	paths := []string{filepath.Join(opts.dbpath, "local")}
	for _, repo := range opts.repos {
		paths = append(paths, filepath.Join(opts.dbpath, "sync", repo+".db"))
	}

	switch opts.backend {
	case "files":
		store, err := files.Open(opts.dbpath, opts.repos)
		return store, paths, err
	default:
		def := pacconf.DefaultSigLevel()
		repos := make([]alpm.Repo, 0, len(opts.repos))
		for _, name := range opts.repos {
			repos = append(repos, alpm.Repo{
				Name:     name,
				SigLevel: pacconf.RepoSigLevel(name, def),
			})
		}
		store, err := alpm.Open(opts.root, opts.dbpath, repos)
		return store, paths, err
	}
}
