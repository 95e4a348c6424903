// Package siglevel models pacman's signature-check levels as bitflags and
// parses the fine-grained SigLevel lines that pacman-conf prints. Only the
// resolved form is accepted: pacman-conf expands `SigLevel = Required` into
// `PackageRequired` plus `DatabaseRequired`, so the coarse spellings never
// reach us.
package siglevel

import (
	"strings"

	"github.com/pacdump/pacdump/pkg/errors"
)

// SigLevel is a bitmask of signature requirements for packages and
// databases.
type SigLevel int

const (
	Package SigLevel = 1 << iota
	PackageOptional
	PackageMarginalOk
	PackageUnknownOk

	Database
	DatabaseOptional
	DatabaseMarginalOk
	DatabaseUnknownOk

	// UseDefault defers to libalpm's compiled-in default.
	UseDefault SigLevel = 1 << 30
)

const (
	packageTrustAll  = PackageMarginalOk | PackageUnknownOk
	databaseTrustAll = DatabaseMarginalOk | DatabaseUnknownOk
)

// Parse applies a single SigLevel line on top of a default level. Unknown
// or coarse-grained spellings are an error; empty lines leave the default
// untouched.
func Parse(def SigLevel, line string) (SigLevel, error) {
	set := func(sl SigLevel) SigLevel { return (def | sl) &^ UseDefault }
	unset := func(sl SigLevel) SigLevel { return (def &^ sl) &^ UseDefault }

	switch strings.TrimSpace(line) {
	case "PackageNever":
		return unset(Package), nil
	case "PackageOptional":
		return set(Package | PackageOptional), nil
	case "PackageRequired":
		return set(Package) &^ PackageOptional, nil
	case "PackageTrustedOnly":
		return unset(packageTrustAll), nil
	case "PackageTrustAll":
		return set(packageTrustAll), nil
	case "DatabaseNever":
		return unset(Database), nil
	case "DatabaseOptional":
		return set(Database | DatabaseOptional), nil
	case "DatabaseRequired":
		return set(Database) &^ DatabaseOptional, nil
	case "DatabaseTrustedOnly":
		return unset(databaseTrustAll), nil
	case "DatabaseTrustAll":
		return set(databaseTrustAll), nil
	case "":
		return def, nil
	default:
		return def, errors.New(errors.ErrCodeConfig, "unrecognized signature level %q", strings.TrimSpace(line))
	}
}

// Fold stacks multiline SigLevel output onto a default, line by line.
// Blank lines are ignored; the first unparsable line aborts.
func Fold(def SigLevel, lines string) (SigLevel, error) {
	level := def
	for _, line := range strings.Split(lines, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		var err error
		if level, err = Parse(level, line); err != nil {
			return def, err
		}
	}
	return level, nil
}
