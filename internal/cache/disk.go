package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/voordathetnieuwswas/vhnw/internal/model"
)

const diskExt = ".json"

// DiskBackend stores one JSON file per entry
type DiskBackend struct {
	dir string
}

// NewDiskBackend creates a disk backend rooted at dir
func NewDiskBackend(dir string) *DiskBackend {
	return &DiskBackend{dir: dir}
}

// Load reads all entries. Unreadable files are skipped.
func (b *DiskBackend) Load(ctx context.Context) (map[string]model.CacheEntry, error) {
	entries := make(map[string]model.CacheEntry)

	files, err := os.ReadDir(b.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return entries, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read cache dir: %w", err)
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if f.IsDir() || !strings.HasSuffix(f.Name(), diskExt) {
			continue
		}

		data, err := os.ReadFile(filepath.Join(b.dir, f.Name()))
		if err != nil {
			continue
		}

		var entry model.CacheEntry
		if err := json.Unmarshal(data, &entry); err != nil {
			continue
		}
		entries[strings.TrimSuffix(f.Name(), diskExt)] = entry
	}

	return entries, nil
}

// Save writes the entry, replacing any previous version
func (b *DiskBackend) Save(ctx context.Context, key string, entry model.CacheEntry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}

	if err := os.MkdirAll(b.dir, 0755); err != nil {
		return fmt.Errorf("create cache dir: %w", err)
	}

	tmp, err := os.CreateTemp(b.dir, key+".*.tmp")
	if err != nil {
		return fmt.Errorf("write cache file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}

	if err := os.Rename(tmp.Name(), b.path(key)); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("write cache file: %w", err)
	}

	return nil
}

// Delete removes the entry file
func (b *DiskBackend) Delete(_ context.Context, key string) error {
	err := os.Remove(b.path(key))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}

// Clear removes all cached files
func (b *DiskBackend) Clear(_ context.Context) error {
	return os.RemoveAll(b.dir)
}

func (b *DiskBackend) path(key string) string {
	return filepath.Join(b.dir, key+diskExt)
}
