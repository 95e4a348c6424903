package query

import (
	"reflect"
	"testing"
	"time"

	"github.com/pacdump/pacdump/pkg/db"
)

func TestNewPackageInfo(t *testing.T) {
	pkg := &db.Package{
		Name: "zlib", Version: "1:1.3.1-2",
		Description:  "Compression library",
		Architecture: "x86_64",
		Repository:   "core",
		Licenses:     []string{"custom:zlib"},
		Depends:      []db.Depend{{Name: "glibc"}},
		OptDepends:   []db.Depend{{Name: "minizip", Description: "unzipping support"}},
		Provides:     []db.Depend{{Name: "libz.so", Mod: db.DepModEq, Version: "1-64"}},
		DownloadSize: 120000, InstalledSize: 406952,
		BuildDate:   time.Unix(1714521600, 0),
		InstallDate: time.Unix(1714608000, 0),
		Reason:      db.ReasonDependency,
		SHA256Sum:   "bbbb", SignatureB64: "c2ln",
		Validation: db.ValidationSHA256 | db.ValidationSignature,
	}
	info := NewPackageInfo(pkg)

	if info.Key() != "zlib=1:1.3.1-2" {
		t.Errorf("Key = %q", info.Key())
	}
	if info.BuildDate != 1714521600 || info.InstallDate != 1714608000 {
		t.Errorf("dates = %d/%d", info.BuildDate, info.InstallDate)
	}
	if info.InstallReason != "dependency" {
		t.Errorf("InstallReason = %q", info.InstallReason)
	}
	if want := []string{"sha256", "signature"}; !reflect.DeepEqual(info.ValidatedBy, want) {
		t.Errorf("ValidatedBy = %v, want %v", info.ValidatedBy, want)
	}
	if got := info.OptionalDeps[0]; got.Description != "unzipping support" || got.Satisfier != "" {
		t.Errorf("OptionalDeps[0] = %+v", got)
	}
	if got := info.Provides[0]; got.Depmod != "=" || got.Version != "1-64" {
		t.Errorf("Provides[0] = %+v", got)
	}
}

func TestNewPackageInfoZeroValues(t *testing.T) {
	info := NewPackageInfo(&db.Package{Name: "bare", Version: "1-1"})

	// Absent source fields must stay absent, not become zero timestamps
	// or "unknown" strings.
	if info.BuildDate != 0 || info.InstallDate != 0 {
		t.Errorf("dates = %d/%d, want 0/0", info.BuildDate, info.InstallDate)
	}
	if info.InstallReason != "" {
		t.Errorf("InstallReason = %q, want empty for sync records", info.InstallReason)
	}
	if info.DependsOn != nil {
		t.Errorf("DependsOn = %v, want nil", info.DependsOn)
	}
}

func TestDepInfoSpecRoundTrip(t *testing.T) {
	deps := []db.Depend{
		{Name: "glibc"},
		{Name: "glibc", Mod: db.DepModGE, Version: "2.39"},
		{Name: "cups", Mod: db.DepModLT, Version: "3", Description: "printing"},
	}
	for _, want := range deps {
		got := depInfos([]db.Depend{want})[0].Spec()
		if got != want {
			t.Errorf("round trip = %+v, want %+v", got, want)
		}
	}
}

func TestCloneIsolatesDependencySlices(t *testing.T) {
	orig := &PackageInfo{
		Name: "a", Version: "1-1",
		DependsOn:    []DepInfo{{Name: "b"}},
		OptionalDeps: []DepInfo{{Name: "c"}},
	}
	cp := orig.clone()
	cp.DependsOn[0].Satisfier = "b=1-1"
	cp.OptionalDeps[0].Satisfier = "c=1-1"

	if orig.DependsOn[0].Satisfier != "" || orig.OptionalDeps[0].Satisfier != "" {
		t.Error("satisfier recording leaked into the original record")
	}
}
