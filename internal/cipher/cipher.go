package cipher

import (
	"bytes"
	"fmt"
	"io"

	"filippo.io/age"

	serrors "github.com/secstash/secstash/internal/errors"
)

// Cipher encrypts and decrypts byte streams under a passphrase using the
// age format with scrypt-derived keys. The zero value is not usable; use
// New or NewWithWorkFactor.
type Cipher struct {
	workFactor int
}

// New returns a Cipher with age's default scrypt work factor.
func New() *Cipher {
	return &Cipher{}
}

// NewWithWorkFactor returns a Cipher with a custom scrypt work factor
// (log2 of the iteration count). Lower factors weaken the passphrase
// stretching and are meant for tests only.
func NewWithWorkFactor(logN int) *Cipher {
	return &Cipher{workFactor: logN}
}

// Encrypt encrypts plaintext under the passphrase and returns the age
// ciphertext.
func (c *Cipher) Encrypt(plaintext []byte, passphrase string) ([]byte, error) {
	recipient, err := age.NewScryptRecipient(passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrCipher, err)
	}
	if c.workFactor > 0 {
		recipient.SetWorkFactor(c.workFactor)
	}

	var out bytes.Buffer
	w, err := age.Encrypt(&out, recipient)
	if err != nil {
		return nil, fmt.Errorf("%w: creating encryptor: %v", serrors.ErrCipher, err)
	}
	if _, err := w.Write(plaintext); err != nil {
		return nil, fmt.Errorf("%w: writing plaintext: %v", serrors.ErrCipher, err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("%w: finalizing ciphertext: %v", serrors.ErrCipher, err)
	}
	return out.Bytes(), nil
}

// Decrypt decrypts age ciphertext with the passphrase. A wrong
// passphrase or corrupt ciphertext yields an error matching ErrCipher.
func (c *Cipher) Decrypt(ciphertext []byte, passphrase string) ([]byte, error) {
	identity, err := age.NewScryptIdentity(passphrase)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrCipher, err)
	}

	r, err := age.Decrypt(bytes.NewReader(ciphertext), identity)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", serrors.ErrCipher, err)
	}
	plaintext, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: reading plaintext: %v", serrors.ErrCipher, err)
	}
	return plaintext, nil
}
