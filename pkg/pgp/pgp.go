// Package pgp decodes the detached PGP signatures shipped in sync
// databases and extracts the issuer key IDs. It performs no verification;
// pacdump only surfaces who signed a package, not whether the signature
// holds.
package pgp

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"

	"github.com/ProtonMail/go-crypto/openpgp/packet"

	"github.com/pacdump/pacdump/pkg/errors"
)

// Decoder implements query.KeyDecoder over OpenPGP packet parsing.
type Decoder struct{}

// NewDecoder returns a ready Decoder.
func NewDecoder() *Decoder { return &Decoder{} }

// KeyIDs parses the base64-encoded signature and returns the issuer key ID
// of every signature packet, formatted as upper-case hex.
func (d *Decoder) KeyIDs(name string, sigB64 string) ([]string, error) {
	raw, err := base64.StdEncoding.DecodeString(sigB64)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeSignatureDecode, err, "decode signature of %q", name)
	}

	var ids []string
	reader := packet.NewReader(bytes.NewReader(raw))
	for {
		p, err := reader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeSignatureDecode, err, "parse signature packet of %q", name)
		}
		sig, ok := p.(*packet.Signature)
		if !ok {
			continue
		}
		if sig.IssuerKeyId != nil {
			ids = append(ids, fmt.Sprintf("%016X", *sig.IssuerKeyId))
		}
	}
	if len(ids) == 0 {
		return nil, errors.New(errors.ErrCodeKeyExtraction, "no signature packet with an issuer key in %q", name)
	}
	return ids, nil
}
