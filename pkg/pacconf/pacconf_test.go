package pacconf

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/pacdump/pacdump/pkg/errors"
	"github.com/pacdump/pacdump/pkg/siglevel"
)

// fakePacmanConf installs a shell script named pacman-conf at the front of
// PATH for the duration of the test.
func fakePacmanConf(t *testing.T, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script fake requires a POSIX shell")
	}
	dir := t.TempDir()
	path := filepath.Join(dir, "pacman-conf")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	t.Setenv("PATH", dir+string(os.PathListSeparator)+os.Getenv("PATH"))
}

func TestReadTrimsTrailingNewline(t *testing.T) {
	fakePacmanConf(t, `echo "/var/lib/pacman"`)
	got, err := Read("DBPath")
	if err != nil {
		t.Fatalf("Read error: %v", err)
	}
	if got != "/var/lib/pacman" {
		t.Errorf("Read = %q", got)
	}
}

func TestReadFailure(t *testing.T) {
	fakePacmanConf(t, "exit 1")
	_, err := Read("DBPath")
	if !errors.Is(err, errors.ErrCodeConfig) {
		t.Fatalf("error = %v, want CONFIG_ERROR", err)
	}
}

func TestRepoList(t *testing.T) {
	fakePacmanConf(t, `printf 'core\nextra\nmultilib\n'`)
	got, err := RepoList()
	if err != nil {
		t.Fatalf("RepoList error: %v", err)
	}
	if len(got) != 3 || got[0] != "core" || got[2] != "multilib" {
		t.Errorf("RepoList = %v", got)
	}
}

func TestRepoListEmpty(t *testing.T) {
	fakePacmanConf(t, "true")
	got, err := RepoList()
	if err != nil {
		t.Fatalf("RepoList error: %v", err)
	}
	if got != nil {
		t.Errorf("RepoList = %v, want nil with no repositories", got)
	}
}

func TestDefaultSigLevel(t *testing.T) {
	fakePacmanConf(t, `printf 'PackageRequired\nPackageTrustedOnly\nDatabaseOptional\nDatabaseTrustedOnly\n'`)
	got := DefaultSigLevel()
	want := siglevel.Package | siglevel.Database | siglevel.DatabaseOptional
	if got != want {
		t.Errorf("DefaultSigLevel = %v, want %v", got, want)
	}
}

func TestDefaultSigLevelDegrades(t *testing.T) {
	// Without a working pacman-conf the default must fall back, not fail.
	fakePacmanConf(t, "exit 1")
	if got := DefaultSigLevel(); got != siglevel.UseDefault {
		t.Errorf("DefaultSigLevel = %v, want UseDefault", got)
	}
}

func TestRepoSigLevelDegrades(t *testing.T) {
	fakePacmanConf(t, "exit 1")
	def := siglevel.Package
	if got := RepoSigLevel("core", def); got != def {
		t.Errorf("RepoSigLevel = %v, want the passed default", got)
	}
}
