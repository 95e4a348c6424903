package db

import "testing"

func TestVerCmp(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		// Plain numeric ordering
		{"1.0", "1.0", 0},
		{"1.0", "1.0.1", -1},
		{"1.0.1", "1.0", 1},
		{"1.5.1", "1.5.0", 1},
		{"2.0", "10.0", -1},

		// Alphabetic suffixes sort older than the bare version
		{"1.0a", "1.0", -1},
		{"1.0", "1.0a", 1},
		{"1.0rc", "1.0", -1},
		{"1.0pre", "1.0rc", -1},
		{"1.0a", "1.0b", -1},
		{"1.0b", "1.0beta", -1},

		// A segment after a separator sorts newer than a bare alpha tail
		{"1.0", "1.0.a", -1},
		{"1.0.a", "1.0.1", -1},

		// Numeric segments beat alphabetic ones
		{"1.1", "1.a", 1},
		{"1.a", "1.1", -1},

		// Leading zeros are insignificant
		{"1.001", "1.1", 0},
		{"1.010", "1.10", 0},

		// Separators only delimit, their spelling is irrelevant
		{"1_0", "1.0", 0},
		{"1.0", "1+0", 0},

		// Epoch dominates everything after it
		{"1:1.0", "2.0", 1},
		{"1:1.0", "1:1.1", -1},
		{"0:2.0", "2.0", 0},
		{"2.0", "1:1.0", -1},

		// pkgrel breaks ties, but only when both sides carry one
		{"1.0-1", "1.0-2", -1},
		{"1.0-2", "1.0-1", 1},
		{"1.0-1", "1.0", 0},
		{"1.0", "1.0-5", 0},
		{"1.0-1", "1.0.1-1", -1},
	}

	for _, tt := range tests {
		got := VerCmp(tt.a, tt.b)
		if sign(got) != tt.want {
			t.Errorf("VerCmp(%q, %q) = %d, want sign %d", tt.a, tt.b, got, tt.want)
		}
		// Comparison must be antisymmetric.
		if rev := VerCmp(tt.b, tt.a); sign(rev) != -tt.want {
			t.Errorf("VerCmp(%q, %q) = %d, want sign %d", tt.b, tt.a, rev, -tt.want)
		}
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}

func TestSplitVersion(t *testing.T) {
	tests := []struct {
		in                   string
		epoch, pkgver, pkgrel string
	}{
		{"1.0", "0", "1.0", ""},
		{"1.0-1", "0", "1.0", "1"},
		{"2:1.0-1", "2", "1.0", "1"},
		{"2:1.0", "2", "1.0", ""},
		{"1.0-rc1-2", "0", "1.0-rc1", "2"},
	}

	for _, tt := range tests {
		e, v, r := splitVersion(tt.in)
		if e != tt.epoch || v != tt.pkgver || r != tt.pkgrel {
			t.Errorf("splitVersion(%q) = (%q, %q, %q), want (%q, %q, %q)",
				tt.in, e, v, r, tt.epoch, tt.pkgver, tt.pkgrel)
		}
	}
}
