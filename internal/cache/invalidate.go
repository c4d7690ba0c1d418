package cache

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Stats summarizes the entries currently held by a Store.
type Stats struct {
	Entries int
	Bytes   int64
}

// Clear removes the cache directory and all contents. It recreates the
// directory afterwards to leave a valid empty cache location.
func (s *Store) Clear() error {
	if s == nil || s.Dir == "" {
		return errors.New("cache dir not configured")
	}
	if err := os.RemoveAll(s.Dir); err != nil {
		return err
	}
	return s.ensureDir(s.Dir)
}

// PurgeOlderThan removes entries whose modification time is older than maxAge.
// Leftover temp files from interrupted writes are removed as well.
func (s *Store) PurgeOlderThan(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		return 0, nil
	}
	now := time.Now()
	removed := 0
	err := s.walk(func(path string, d fs.DirEntry, isEntry bool) {
		if !isEntry && !strings.HasPrefix(d.Name(), tmpPrefix) {
			return
		}
		info, err := d.Info()
		if err != nil {
			return // skip unreadable
		}
		if now.Sub(info.ModTime()) <= maxAge {
			return
		}
		if err := os.Remove(path); err == nil && isEntry {
			removed++
		}
	})
	return removed, err
}

// Stats counts entries and their total size. A missing directory is empty.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	err := s.walk(func(_ string, d fs.DirEntry, isEntry bool) {
		if !isEntry {
			return
		}
		info, err := d.Info()
		if err != nil {
			return
		}
		st.Entries++
		st.Bytes += info.Size()
	})
	return st, err
}

func (s *Store) walk(fn func(path string, d fs.DirEntry, isEntry bool)) error {
	if s == nil || s.Dir == "" {
		return errors.New("cache dir not configured")
	}
	err := filepath.WalkDir(s.Dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		fn(path, d, s.isEntry(d.Name()))
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}
