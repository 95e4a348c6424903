package query

import (
	"fmt"
)

// KeyDecoder extracts signing key identifiers from a package's detached
// signature. Implementations live outside the core (pkg/pgp); tests use
// fakes.
type KeyDecoder interface {
	// KeyIDs returns the key identifiers of the signature packets in sig
	// (raw signature bytes, already base64-decoded by the caller's
	// collaborator or passed through as stored).
	KeyIDs(name string, sigB64 string) ([]string, error)
}

// DecodeKeyID fills the record's key-ID list from its signature. Key-ID
// extraction is best-effort enrichment: a record without a signature is
// returned unchanged, and any decode or extraction failure is downgraded
// to a single diagnostic entry instead of an error.
func DecodeKeyID(info *PackageInfo, dec KeyDecoder) *PackageInfo {
	if info.Signature == "" || dec == nil {
		return info
	}
	ids, err := dec.KeyIDs(info.Name, info.Signature)
	if err != nil {
		info.KeyID = []string{fmt.Sprintf("error decoding signature of %q: %v", info.Name, err)}
		return info
	}
	info.KeyID = ids
	return info
}
