// Package pacconf discovers the pacman configuration by shelling out to
// pacman-conf, the same way pacman's own tooling does. Values come back
// one per line; the trailing newline is stripped.
package pacconf

import (
	"os/exec"
	"strings"

	"github.com/pacdump/pacdump/pkg/errors"
	"github.com/pacdump/pacdump/pkg/siglevel"
)

// Read invokes pacman-conf with the given arguments and returns its
// trimmed stdout. The locale is pinned so user settings cannot change the
// output format.
func Read(args ...string) (string, error) {
	cmd := exec.Command("pacman-conf", args...)
	cmd.Env = append(cmd.Environ(), "LC_ALL=C.UTF-8", "LANGUAGE=C.UTF-8")
	out, err := cmd.Output()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfig, err, "pacman-conf %s", strings.Join(args, " "))
	}
	return strings.TrimSuffix(string(out), "\n"), nil
}

// RootDir returns pacman's configured filesystem root.
func RootDir() (string, error) { return Read("RootDir") }

// DBPath returns pacman's database directory.
func DBPath() (string, error) { return Read("DBPath") }

// RepoList returns the configured sync repositories in order.
func RepoList() ([]string, error) {
	out, err := Read("--repo-list")
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// DefaultSigLevel folds the global SigLevel lines onto UseDefault. A
// missing pacman-conf degrades to UseDefault rather than failing: the
// files backend works without pacman installed at all.
func DefaultSigLevel() siglevel.SigLevel {
	out, err := Read("SigLevel")
	if err != nil {
		return siglevel.UseDefault
	}
	level, err := siglevel.Fold(siglevel.UseDefault, out)
	if err != nil {
		return siglevel.UseDefault
	}
	return level
}

// RepoSigLevel folds a repository's SigLevel lines onto the given default.
func RepoSigLevel(repo string, def siglevel.SigLevel) siglevel.SigLevel {
	out, err := Read("--repo="+repo, "SigLevel")
	if err != nil {
		return def
	}
	level, err := siglevel.Fold(def, out)
	if err != nil {
		return def
	}
	return level
}
