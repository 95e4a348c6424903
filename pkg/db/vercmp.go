package db

import "strings"

// VerCmp compares two package versions according to pacman's rules.
// The result is <0, 0, or >0 when a is older than, equal to, or newer
// than b.
//
// Versions have the form [epoch:]pkgver[-pkgrel]. Epochs compare first,
// then pkgver segment by segment (numeric segments numerically, alphabetic
// segments lexically, numeric beats alphabetic), then pkgrel. A missing
// pkgrel matches any pkgrel. This is a transcription of libalpm's
// alpm_pkg_vercmp / rpmvercmp.
func VerCmp(a, b string) int {
	if a == b {
		return 0
	}
	ae, av, ar := splitVersion(a)
	be, bv, br := splitVersion(b)

	if c := rpmVerCmp(ae, be); c != 0 {
		return c
	}
	if c := rpmVerCmp(av, bv); c != 0 {
		return c
	}
	// Only compare pkgrel when both carry one.
	if ar != "" && br != "" {
		return rpmVerCmp(ar, br)
	}
	return 0
}

// splitVersion breaks [epoch:]pkgver[-pkgrel] apart. A missing epoch is "0".
func splitVersion(v string) (epoch, pkgver, pkgrel string) {
	epoch = "0"
	if i := strings.IndexByte(v, ':'); i >= 0 {
		if e := v[:i]; isDigits(e) && e != "" {
			epoch = e
		}
		v = v[i+1:]
	}
	if i := strings.LastIndexByte(v, '-'); i >= 0 {
		return epoch, v[:i], v[i+1:]
	}
	return epoch, v, ""
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// rpmVerCmp compares two version fragments with rpm's segment rules.
func rpmVerCmp(a, b string) int {
	if a == b {
		return 0
	}
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		// Skip separators (anything non-alphanumeric).
		for i < len(a) && !isAlpha(a[i]) && !isDigit(a[i]) {
			i++
		}
		for j < len(b) && !isAlpha(b[j]) && !isDigit(b[j]) {
			j++
		}
		if i >= len(a) || j >= len(b) {
			break
		}

		// Grab the next segment from each: a run of digits or a run of
		// letters.
		si, sj := i, j
		numeric := isDigit(a[i])
		if numeric {
			for i < len(a) && isDigit(a[i]) {
				i++
			}
			if !isDigit(b[j]) {
				// Numeric segments always sort newer than alphabetic ones.
				return 1
			}
			for j < len(b) && isDigit(b[j]) {
				j++
			}
		} else {
			for i < len(a) && isAlpha(a[i]) {
				i++
			}
			if isDigit(b[j]) {
				return -1
			}
			for j < len(b) && isAlpha(b[j]) {
				j++
			}
		}

		segA, segB := a[si:i], b[sj:j]
		if numeric {
			segA = strings.TrimLeft(segA, "0")
			segB = strings.TrimLeft(segB, "0")
			if len(segA) != len(segB) {
				if len(segA) > len(segB) {
					return 1
				}
				return -1
			}
		}
		if c := strings.Compare(segA, segB); c != 0 {
			if c > 0 {
				return 1
			}
			return -1
		}
	}

	// One fragment ran out. An alphabetic tail sorts older ("1.0a" < "1.0"),
	// a numeric tail sorts newer ("1.0.1" > "1.0").
	if i >= len(a) && j >= len(b) {
		return 0
	}
	if i >= len(a) {
		if j < len(b) && isAlpha(b[j]) {
			return 1
		}
		return -1
	}
	if isAlpha(a[i]) {
		return -1
	}
	return 1
}
