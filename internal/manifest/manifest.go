package manifest

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/secstash/secstash/internal/digest"
	serrors "github.com/secstash/secstash/internal/errors"
)

// FileName is the manifest file written to every export directory.
// The format is line-compatible with coreutils sha256sum.
const FileName = "sha256sums.txt"

var lineRe = regexp.MustCompile(`^([0-9a-fA-F]{64})  (.+)$`)

// Entry records the digest of one file, identified by its path relative
// to the manifest's directory.
type Entry struct {
	Digest digest.Value
	Path   string
}

// Manifest is an ordered ledger of checksum entries for one directory.
type Manifest struct {
	entries []Entry
}

// New returns an empty manifest.
func New() *Manifest {
	return &Manifest{}
}

// Parse decodes manifest content. Every line must match the sha256sum
// format `<64 hex>  <path>`.
func Parse(data []byte) (*Manifest, error) {
	m := New()
	for _, line := range strings.Split(strings.TrimRight(string(data), "\n"), "\n") {
		if line == "" {
			continue
		}
		caps := lineRe.FindStringSubmatch(line)
		if caps == nil {
			return nil, fmt.Errorf("%w: bad line %q", serrors.ErrManifestFormat, line)
		}
		d, err := digest.Parse(strings.ToLower(caps[1]))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", serrors.ErrManifestFormat, err)
		}
		m.Append(caps[2], d)
	}
	return m, nil
}

// Load reads the manifest of dir. Returns ErrManifestMissing if the
// directory has no sha256sums.txt.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", serrors.ErrManifestMissing, path)
	}
	if err != nil {
		return nil, fmt.Errorf("reading manifest %s: %w", path, err)
	}
	m, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// Entries returns the entries in order.
func (m *Manifest) Entries() []Entry {
	return m.entries
}

// Len returns the number of entries.
func (m *Manifest) Len() int {
	return len(m.entries)
}

// Lookup returns the recorded digest for a relative path.
func (m *Manifest) Lookup(path string) (digest.Value, bool) {
	for _, e := range m.entries {
		if e.Path == path {
			return e.Digest, true
		}
	}
	return digest.Value{}, false
}

// Append records a digest for a relative path. Re-appending a path
// replaces its previous entry, so repeated exports stay idempotent.
func (m *Manifest) Append(path string, d digest.Value) {
	for i, e := range m.entries {
		if e.Path == path {
			m.entries[i].Digest = d
			return
		}
	}
	m.entries = append(m.entries, Entry{Digest: d, Path: path})
}

// Remove drops the entry for a relative path, if present.
func (m *Manifest) Remove(path string) {
	for i, e := range m.entries {
		if e.Path == path {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return
		}
	}
}

// Encode serializes the manifest in sha256sum format.
func (m *Manifest) Encode() []byte {
	var b strings.Builder
	for _, e := range m.entries {
		fmt.Fprintf(&b, "%s  %s\n", e.Digest.Hex(), e.Path)
	}
	return []byte(b.String())
}

// WriteFile writes the manifest to dir/sha256sums.txt.
func (m *Manifest) WriteFile(dir string) error {
	path := filepath.Join(dir, FileName)
	// #nosec G306 -- the ciphertext manifest is deliberately cleartext.
	if err := os.WriteFile(path, m.Encode(), 0644); err != nil {
		return fmt.Errorf("writing manifest %s: %w", path, err)
	}
	return nil
}
