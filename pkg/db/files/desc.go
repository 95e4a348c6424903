package files

import (
	"bufio"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/pacdump/pacdump/pkg/db"
)

// parseDesc reads one desc file: %FIELD% headers followed by value lines,
// records separated by blank lines. Unknown fields are kept so callers can
// ignore them without erroring.
func parseDesc(r io.Reader) (map[string][]string, error) {
	fields := make(map[string][]string)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var current string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case line == "":
			current = ""
		case strings.HasPrefix(line, "%") && strings.HasSuffix(line, "%") && len(line) > 2:
			current = line[1 : len(line)-1]
		case current != "":
			fields[current] = append(fields[current], line)
		}
	}
	return fields, sc.Err()
}

func first(fields map[string][]string, key string) string {
	if v := fields[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func firstInt(fields map[string][]string, key string) int64 {
	n, _ := strconv.ParseInt(first(fields, key), 10, 64)
	return n
}

func unixTime(fields map[string][]string, key string) time.Time {
	n := firstInt(fields, key)
	if n == 0 {
		return time.Time{}
	}
	return time.Unix(n, 0).UTC()
}

func depends(fields map[string][]string, key string) []db.Depend {
	lines := fields[key]
	if len(lines) == 0 {
		return nil
	}
	out := make([]db.Depend, 0, len(lines))
	for _, l := range lines {
		out = append(out, db.ParseDepend(l))
	}
	return out
}

// packageFromDesc converts parsed desc fields into a record. local selects
// between the local-database field set (INSTALLDATE, SIZE, REASON,
// VALIDATION) and the sync one (CSIZE, ISIZE, checksums, PGPSIG).
func packageFromDesc(fields map[string][]string, local bool) *db.Package {
	p := &db.Package{
		Name:         first(fields, "NAME"),
		Version:      first(fields, "VERSION"),
		Description:  first(fields, "DESC"),
		Architecture: first(fields, "ARCH"),
		URL:          first(fields, "URL"),
		Packager:     first(fields, "PACKAGER"),
		Licenses:     fields["LICENSE"],
		Groups:       fields["GROUPS"],
		Depends:      depends(fields, "DEPENDS"),
		OptDepends:   depends(fields, "OPTDEPENDS"),
		MakeDepends:  depends(fields, "MAKEDEPENDS"),
		CheckDepends: depends(fields, "CHECKDEPENDS"),
		Provides:     depends(fields, "PROVIDES"),
		Conflicts:    depends(fields, "CONFLICTS"),
		Replaces:     depends(fields, "REPLACES"),
		BuildDate:    unixTime(fields, "BUILDDATE"),
	}

	if local {
		p.InstalledSize = firstInt(fields, "SIZE")
		p.InstallDate = unixTime(fields, "INSTALLDATE")
		// REASON is only written for dependency installs.
		if first(fields, "REASON") == "1" {
			p.Reason = db.ReasonDependency
		} else {
			p.Reason = db.ReasonExplicit
		}
		for _, v := range fields["VALIDATION"] {
			switch v {
			case "none":
				p.Validation |= db.ValidationNone
			case "md5":
				p.Validation |= db.ValidationMD5
			case "sha256":
				p.Validation |= db.ValidationSHA256
			case "pgp":
				p.Validation |= db.ValidationSignature
			}
		}
		return p
	}

	p.DownloadSize = firstInt(fields, "CSIZE")
	p.InstalledSize = firstInt(fields, "ISIZE")
	p.MD5Sum = first(fields, "MD5SUM")
	p.SHA256Sum = first(fields, "SHA256SUM")
	p.SignatureB64 = first(fields, "PGPSIG")
	return p
}
