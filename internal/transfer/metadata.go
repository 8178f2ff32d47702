package transfer

import (
	"fmt"
	"os"
	"syscall"
)

// fileMeta captures the ownership and permission bits preserved across
// the plaintext/ciphertext boundary in both directions.
type fileMeta struct {
	uid  int
	gid  int
	mode os.FileMode
}

// readMeta reads ownership and permissions of the file at path.
func readMeta(path string) (fileMeta, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileMeta{}, err
	}

	m := fileMeta{uid: -1, gid: -1, mode: info.Mode().Perm()}
	if st, ok := info.Sys().(*syscall.Stat_t); ok {
		m.uid = int(st.Uid)
		m.gid = int(st.Gid)
	}
	return m, nil
}

// applyMeta sets ownership and permissions of the file at path. Chown
// requires privilege when changing to a foreign owner; a same-owner
// chown (the common unprivileged case) succeeds.
func applyMeta(path string, m fileMeta) error {
	if m.uid >= 0 {
		if err := os.Chown(path, m.uid, m.gid); err != nil {
			return fmt.Errorf("chown %s: %w", path, err)
		}
	}
	if err := os.Chmod(path, m.mode); err != nil {
		return fmt.Errorf("chmod %s: %w", path, err)
	}
	return nil
}
