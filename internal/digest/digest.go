package digest

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// HexLen is the length of a digest in lowercase hex encoding.
const HexLen = sha256.Size * 2

// Value is a SHA-256 digest over a byte stream.
type Value [sha256.Size]byte

// Sum computes the digest of data.
func Sum(data []byte) Value {
	return sha256.Sum256(data)
}

// SumFile computes the digest of the file's content.
func SumFile(path string) (Value, error) {
	f, err := os.Open(path)
	if err != nil {
		return Value{}, err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return Value{}, fmt.Errorf("hashing %s: %w", path, err)
	}

	var v Value
	copy(v[:], h.Sum(nil))
	return v, nil
}

// Hex returns the lowercase hex encoding of the digest, as used in
// sha256sums.txt manifests.
func (v Value) Hex() string {
	return hex.EncodeToString(v[:])
}

// Parse decodes a digest from its hex encoding.
func Parse(s string) (Value, error) {
	var v Value
	if len(s) != HexLen {
		return v, fmt.Errorf("digest must be %d hex characters, got %d", HexLen, len(s))
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return v, fmt.Errorf("invalid digest encoding: %w", err)
	}
	copy(v[:], b)
	return v, nil
}

// Equal reports whether two digests match, in constant time.
func Equal(a, b Value) bool {
	return subtle.ConstantTimeCompare(a[:], b[:]) == 1
}
