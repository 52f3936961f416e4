package settings

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"github.com/voordathetnieuwswas/vhnw/internal/model"
	"gopkg.in/yaml.v3"
)

// Notifier receives the names of changed settings
type Notifier interface {
	Notify(ctx context.Context, changed []string) (bool, error)
}

// Snapshot holds the printed values of watched settings by key
type Snapshot map[string]string

// Take reads the watched keys from v
func Take(v *viper.Viper, keys []string) Snapshot {
	s := make(Snapshot, len(keys))
	for _, key := range keys {
		s[key] = fmt.Sprint(v.Get(key))
	}
	return s
}

// Changed returns the keys whose values differ, in key order
func Changed(before, after Snapshot, keys []string) []string {
	var changed []string
	for _, key := range keys {
		if before[key] != after[key] {
			changed = append(changed, key)
		}
	}
	return changed
}

// IsScopeChange reports whether any changed key affects which results are
// found. Registered with the cache store as invalidation predicate.
func IsScopeChange(changed []string) bool {
	for _, key := range changed {
		for _, scope := range model.ScopeSettings {
			if key == scope {
				return true
			}
		}
	}
	return false
}

// Sync compares the scope settings with the snapshot saved at path by the
// previous run, notifies on differences and saves the current snapshot.
// A missing snapshot counts as unchanged.
func Sync(ctx context.Context, v *viper.Viper, path string, notifier Notifier) ([]string, error) {
	current := Take(v, model.ScopeSettings)

	previous, err := loadSnapshot(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	var changed []string
	if previous != nil {
		changed = Changed(previous, current, model.ScopeSettings)
		if _, err := notifier.Notify(ctx, changed); err != nil {
			return changed, err
		}
	}

	return changed, saveSnapshot(path, current)
}

func loadSnapshot(path string) (Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var s Snapshot
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parse settings snapshot: %w", err)
	}
	return s, nil
}

func saveSnapshot(path string, s Snapshot) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal settings snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// Watcher reloads the config file on change and notifies about the keys
// that changed
type Watcher struct {
	v        *viper.Viper
	notifier Notifier
	keys     []string

	mu   sync.Mutex
	last Snapshot

	// Log receives one line per reload; defaults to io.Discard
	Log io.Writer
	// OnChange is called with the new options after a reload
	OnChange func(model.Options)
}

// NewWatcher watches the scope settings of v
func NewWatcher(v *viper.Viper, notifier Notifier) *Watcher {
	return &Watcher{
		v:        v,
		notifier: notifier,
		keys:     model.ScopeSettings,
		last:     Take(v, model.ScopeSettings),
		Log:      io.Discard,
	}
}

// Start begins watching the config file. Notifications run under ctx.
func (w *Watcher) Start(ctx context.Context) {
	w.v.OnConfigChange(func(e fsnotify.Event) {
		if _, err := w.Reload(ctx); err != nil {
			fmt.Fprintf(w.Log, "Warning: reload %s: %v\n", e.Name, err)
		}
	})
	w.v.WatchConfig()
}

// Reload compares the watched settings with the last seen values and
// notifies about the changed keys
func (w *Watcher) Reload(ctx context.Context) ([]string, error) {
	w.mu.Lock()
	current := Take(w.v, w.keys)
	changed := Changed(w.last, current, w.keys)
	w.last = current
	w.mu.Unlock()

	if len(changed) == 0 {
		return nil, nil
	}

	cleared, err := w.notifier.Notify(ctx, changed)
	if err != nil {
		return changed, err
	}
	fmt.Fprintf(w.Log, "settings changed: %v (cache cleared: %v)\n", changed, cleared)

	if w.OnChange != nil {
		var opts model.Options
		if err := w.v.UnmarshalKey("options", &opts); err == nil {
			w.OnChange(opts)
		}
	}

	return changed, nil
}
