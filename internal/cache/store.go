package cache

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"syscall"
)

// ErrInvalidKey is returned for keys that are not a single safe path segment.
var ErrInvalidKey = errors.New("invalid cache key")

const tmpPrefix = ".tmp-"

// Store keeps one file per entry at <Dir>/<key><Ext>. Entries are written
// through a temp file and renamed into place, so a reader sees either the
// complete previous state or the complete new entry. No eviction policy is
// included; see PurgeOlderThan for manual maintenance.
type Store struct {
	Dir string
	// Ext is appended to every key, including the leading dot (".json").
	Ext string
	// StrictPerms, when true, enforces 0700 on cache directories and 0600 on
	// files.
	StrictPerms bool
	// Shard places entries under a subdirectory named after the first two
	// characters of the key to keep directories small.
	Shard bool
}

func (s *Store) dirPerm() os.FileMode {
	if s.StrictPerms {
		return 0o700
	}
	return 0o755
}

func (s *Store) filePerm() os.FileMode {
	if s.StrictPerms {
		return 0o600
	}
	return 0o644
}

func (s *Store) ensureDir(dir string) error {
	if err := os.MkdirAll(dir, s.dirPerm()); err != nil {
		return err
	}
	// If directory already existed and StrictPerms is on, tighten perms
	if s.StrictPerms {
		if info, err := os.Stat(dir); err == nil && info.Mode()&0o777 != 0o700 {
			_ = os.Chmod(dir, 0o700)
		}
	}
	return nil
}

func (s *Store) check(key string) error {
	if s == nil || s.Dir == "" {
		return errors.New("cache dir not configured")
	}
	if !validKey(key, s.Ext) {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return nil
}

// Path returns the file path for key. It does not check that key is valid.
func (s *Store) Path(key string) string {
	name := key + s.Ext
	if s.Shard && len(key) >= 2 {
		prefix := strings.ReplaceAll(key[:2], ".", "_")
		return filepath.Join(s.Dir, prefix, name)
	}
	return filepath.Join(s.Dir, name)
}

// Get returns the stored bytes for key. A missing entry is reported as
// (nil, false, nil); only unexpected I/O failures return an error.
func (s *Store) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := s.check(key); err != nil {
		return nil, false, err
	}
	b, err := os.ReadFile(s.Path(key))
	if err != nil {
		// A path component that is not a directory also means no entry.
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, syscall.ENOTDIR) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return b, true, nil
}

// Put writes data under key, replacing any previous entry.
func (s *Store) Put(_ context.Context, key string, data []byte) error {
	if err := s.check(key); err != nil {
		return err
	}
	p := s.Path(key)
	dir := filepath.Dir(p)
	if err := s.ensureDir(dir); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}
	f, err := os.CreateTemp(dir, tmpPrefix+"*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	tmp := f.Name()
	if _, err := f.Write(data); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("write entry: %w", err)
	}
	if err := f.Chmod(s.filePerm()); err != nil {
		f.Close()
		_ = os.Remove(tmp)
		return fmt.Errorf("chmod entry: %w", err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, p); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename entry: %w", err)
	}
	return nil
}

// Remove deletes the entry for key. Removing a missing entry is not an error.
func (s *Store) Remove(_ context.Context, key string) error {
	if err := s.check(key); err != nil {
		return err
	}
	if err := os.Remove(s.Path(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// isEntry reports whether a file name looks like an entry of this store.
func (s *Store) isEntry(name string) bool {
	if strings.HasPrefix(name, tmpPrefix) {
		return false
	}
	return s.Ext == "" || strings.HasSuffix(name, s.Ext)
}
