package cipher

import (
	"bytes"
	"errors"
	"testing"

	serrors "github.com/secstash/secstash/internal/errors"
)

// testWorkFactor keeps scrypt cheap in tests. Production uses age's default.
const testWorkFactor = 10

func TestEncryptDecryptRoundTrip(t *testing.T) {
	c := NewWithWorkFactor(testWorkFactor)

	plaintexts := [][]byte{
		[]byte("API_KEY=hunter2\n"),
		{},
		bytes.Repeat([]byte{0x00, 0xff}, 4096),
	}
	for _, plaintext := range plaintexts {
		ciphertext, err := c.Encrypt(plaintext, "correct horse battery staple")
		if err != nil {
			t.Fatalf("Encrypt failed: %v", err)
		}
		if bytes.Contains(ciphertext, plaintext) && len(plaintext) > 0 {
			t.Error("Ciphertext contains the plaintext")
		}

		recovered, err := c.Decrypt(ciphertext, "correct horse battery staple")
		if err != nil {
			t.Fatalf("Decrypt failed: %v", err)
		}
		if !bytes.Equal(recovered, plaintext) {
			t.Errorf("Round trip mismatch: got %d bytes, want %d bytes", len(recovered), len(plaintext))
		}
	}
}

func TestDecryptWrongPassphrase(t *testing.T) {
	c := NewWithWorkFactor(testWorkFactor)

	ciphertext, err := c.Encrypt([]byte("secret"), "right")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}

	_, err = c.Decrypt(ciphertext, "wrong")
	if !errors.Is(err, serrors.ErrCipher) {
		t.Errorf("Decrypt with wrong passphrase = %v, want ErrCipher", err)
	}
}

func TestDecryptCorruptCiphertext(t *testing.T) {
	c := NewWithWorkFactor(testWorkFactor)

	_, err := c.Decrypt([]byte("this is not an age file"), "whatever")
	if !errors.Is(err, serrors.ErrCipher) {
		t.Errorf("Decrypt of garbage = %v, want ErrCipher", err)
	}
}

func TestCiphertextIsNotDeterministic(t *testing.T) {
	c := NewWithWorkFactor(testWorkFactor)

	first, err := c.Encrypt([]byte("same input"), "pass")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	second, err := c.Encrypt([]byte("same input"), "pass")
	if err != nil {
		t.Fatalf("Encrypt failed: %v", err)
	}
	if bytes.Equal(first, second) {
		t.Error("Two encryptions of the same input produced identical ciphertext")
	}
}
