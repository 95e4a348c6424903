package query

import (
	"reflect"
	"strings"
	"testing"

	"github.com/pacdump/pacdump/pkg/errors"
)

// fakeDecoder returns canned key IDs, or an error when ids is nil.
type fakeDecoder struct {
	ids   []string
	calls int
}

func (d *fakeDecoder) KeyIDs(name, sigB64 string) ([]string, error) {
	d.calls++
	if d.ids == nil {
		return nil, errors.New(errors.ErrCodeSignatureDecode, "decode signature of %q", name)
	}
	return d.ids, nil
}

func TestDecodeKeyID(t *testing.T) {
	dec := &fakeDecoder{ids: []string{"ABCDEF0123456789"}}
	info := DecodeKeyID(&PackageInfo{Name: "zlib", Signature: "c2ln"}, dec)

	if !reflect.DeepEqual(info.KeyID, []string{"ABCDEF0123456789"}) {
		t.Errorf("KeyID = %v", info.KeyID)
	}
}

func TestDecodeKeyIDNoSignature(t *testing.T) {
	dec := &fakeDecoder{ids: []string{"unused"}}
	info := DecodeKeyID(&PackageInfo{Name: "zlib"}, dec)

	if info.KeyID != nil {
		t.Errorf("KeyID = %v, want none without a signature", info.KeyID)
	}
	if dec.calls != 0 {
		t.Error("decoder must not be consulted without a signature")
	}
}

func TestDecodeKeyIDFailureIsDiagnostic(t *testing.T) {
	dec := &fakeDecoder{} // errors on every call
	info := DecodeKeyID(&PackageInfo{Name: "zlib", Signature: "!!!"}, dec)

	// A decode failure never propagates; it lands in the record itself.
	if len(info.KeyID) != 1 || !strings.Contains(info.KeyID[0], "zlib") {
		t.Errorf("KeyID = %v, want a single diagnostic naming the package", info.KeyID)
	}
}

func TestDecodeKeyIDNilDecoder(t *testing.T) {
	info := DecodeKeyID(&PackageInfo{Name: "zlib", Signature: "c2ln"}, nil)
	if info.KeyID != nil {
		t.Errorf("KeyID = %v, want none with no decoder", info.KeyID)
	}
}
