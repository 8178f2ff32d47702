package transfer

import (
	"fmt"

	"github.com/secstash/secstash/internal/digest"
	serrors "github.com/secstash/secstash/internal/errors"
)

// The plaintext digest travels inside the ciphertext as a one-line hex
// header before the plaintext bytes. It is computed before encryption
// and is recoverable only by decrypting, so an importer can prove the
// recovered plaintext matches what was originally exported.

// wrapPayload prefixes plaintext with its digest header.
func wrapPayload(d digest.Value, plaintext []byte) []byte {
	payload := make([]byte, 0, digest.HexLen+1+len(plaintext))
	payload = append(payload, d.Hex()...)
	payload = append(payload, '\n')
	return append(payload, plaintext...)
}

// unwrapPayload splits a decrypted payload into the embedded digest and
// the plaintext. A malformed header means the ciphertext did not come
// from an export, or was corrupted in a way the cipher couldn't catch.
func unwrapPayload(payload []byte) (digest.Value, []byte, error) {
	if len(payload) < digest.HexLen+1 || payload[digest.HexLen] != '\n' {
		return digest.Value{}, nil, fmt.Errorf("%w: payload has no digest header", serrors.ErrIntegrity)
	}
	d, err := digest.Parse(string(payload[:digest.HexLen]))
	if err != nil {
		return digest.Value{}, nil, fmt.Errorf("%w: payload digest header: %v", serrors.ErrIntegrity, err)
	}
	return d, payload[digest.HexLen+1:], nil
}

// verifyPayload unwraps a payload and checks the plaintext against the
// embedded digest.
func verifyPayload(payload []byte) ([]byte, error) {
	embedded, plaintext, err := unwrapPayload(payload)
	if err != nil {
		return nil, err
	}
	if !digest.Equal(embedded, digest.Sum(plaintext)) {
		return nil, fmt.Errorf("%w: plaintext does not match its embedded digest", serrors.ErrIntegrity)
	}
	return plaintext, nil
}
