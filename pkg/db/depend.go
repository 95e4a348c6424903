package db

import "strings"

// DepMod is the comparison operator of a dependency specification.
type DepMod int

const (
	DepModAny DepMod = iota // no version constraint
	DepModEq
	DepModGE
	DepModLE
	DepModGT
	DepModLT
)

// String returns the operator as written in a depend string.
func (m DepMod) String() string {
	switch m {
	case DepModEq:
		return "="
	case DepModGE:
		return ">="
	case DepModLE:
		return "<="
	case DepModGT:
		return ">"
	case DepModLT:
		return "<"
	default:
		return ""
	}
}

// Depend is a dependency specification: a package name, an optional version
// constraint, and an optional free-form description ("foo>=1.2: for bar").
type Depend struct {
	Name        string
	Mod         DepMod
	Version     string
	Description string
}

// ParseDepend parses a depend string as found in database files. The
// description suffix (": ...") used by optional dependencies is split off
// first; the remainder is name plus at most one comparison.
func ParseDepend(s string) Depend {
	var d Depend
	if i := strings.Index(s, ": "); i >= 0 {
		d.Description = strings.TrimSpace(s[i+2:])
		s = s[:i]
	}
	s = strings.TrimSpace(s)

	// Two-character operators first so ">=" does not parse as ">".
	for _, op := range []struct {
		tok string
		mod DepMod
	}{
		{">=", DepModGE},
		{"<=", DepModLE},
		{"=", DepModEq},
		{">", DepModGT},
		{"<", DepModLT},
	} {
		if i := strings.Index(s, op.tok); i >= 0 {
			d.Name = s[:i]
			d.Mod = op.mod
			d.Version = s[i+len(op.tok):]
			return d
		}
	}
	d.Name = s
	return d
}

// String renders the specification back to depend-string form, without the
// description.
func (d Depend) String() string {
	if d.Mod == DepModAny {
		return d.Name
	}
	return d.Name + d.Mod.String() + d.Version
}

// SatisfiedBy reports whether pkg fulfills the specification, either under
// its own name and version or through one of its provides.
//
// Provide matching follows libalpm: an unversioned provide satisfies only
// unversioned dependencies, a versioned provide is compared like a real
// version.
func (d Depend) SatisfiedBy(pkg *Package) bool {
	if pkg.Name == d.Name && d.versionOK(pkg.Version) {
		return true
	}
	for _, prov := range pkg.Provides {
		if prov.Name != d.Name {
			continue
		}
		if prov.Mod == DepModAny {
			if d.Mod == DepModAny {
				return true
			}
			continue
		}
		if d.versionOK(prov.Version) {
			return true
		}
	}
	return false
}

func (d Depend) versionOK(have string) bool {
	if d.Mod == DepModAny {
		return true
	}
	cmp := VerCmp(have, d.Version)
	switch d.Mod {
	case DepModEq:
		return cmp == 0
	case DepModGE:
		return cmp >= 0
	case DepModLE:
		return cmp <= 0
	case DepModGT:
		return cmp > 0
	case DepModLT:
		return cmp < 0
	}
	return false
}
