package verify

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/secstash/secstash/internal/digest"
	"github.com/secstash/secstash/internal/manifest"
)

// Problem records a manifest that could not be checked at all
// (unreadable or ill-formatted), as opposed to a file that failed its
// checksum.
type Problem struct {
	ManifestPath string
	Err          error
}

// Result is the outcome of an integrity pass over an export tree.
// Paths are relative to the verified root and sorted.
type Result struct {
	Passed   []string
	Failed   []string
	Problems []Problem
}

// OK reports whether the pass found nothing wrong.
func (r *Result) OK() bool {
	return len(r.Failed) == 0 && len(r.Problems) == 0
}

// Verify walks the export tree at root, recomputes the checksum of
// every file referenced by a sha256sums.txt manifest, and reports which
// passed and which failed. The pass is read-only and safe to repeat; it
// never attempts repair.
func Verify(root string) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("export root %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("export root %s is not a directory", root)
	}

	result := &Result{}
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || d.Name() != manifest.FileName {
			return nil
		}
		checkManifest(root, filepath.Dir(path), result)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	sort.Strings(result.Passed)
	sort.Strings(result.Failed)
	return result, nil
}

func checkManifest(root, dir string, result *Result) {
	m, err := manifest.Load(dir)
	if err != nil {
		result.Problems = append(result.Problems, Problem{
			ManifestPath: filepath.Join(dir, manifest.FileName),
			Err:          err,
		})
		return
	}

	for _, entry := range m.Entries() {
		filePath := filepath.Join(dir, entry.Path)
		rel, err := filepath.Rel(root, filePath)
		if err != nil {
			rel = filePath
		}

		got, err := digest.SumFile(filePath)
		if err != nil || !digest.Equal(entry.Digest, got) {
			result.Failed = append(result.Failed, rel)
			continue
		}
		result.Passed = append(result.Passed, rel)
	}
}
