package internal

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/ShrutiGaur-tech/InFinsafe/libs/go/fraud/risk"
)

// ReloadMetadata tracks seed reload statistics.
type ReloadMetadata struct {
	Version      string    `json:"version"`
	Advisors     int       `json:"advisors"`
	Websites     int       `json:"websites"`
	LastReloadAt time.Time `json:"last_reload_at,omitempty"`
	ReloadCount  int       `json:"reload_count"`
	LastError    string    `json:"last_error,omitempty"`
}

// SeedWatcher reloads the seed file into a Holder whenever it changes on disk.
// A file that fails to parse is rejected and the active table stays in place.
type SeedWatcher struct {
	path    string
	tables  *risk.Holder
	metrics *Metrics

	mu       sync.RWMutex
	lastHash string
	meta     ReloadMetadata
}

func NewSeedWatcher(path string, tables *risk.Holder, metrics *Metrics) *SeedWatcher {
	return &SeedWatcher{path: path, tables: tables, metrics: metrics}
}

// Reload reads the file and swaps the table when its content changed.
func (w *SeedWatcher) Reload(ctx context.Context) error {
	data, err := os.ReadFile(w.path)
	if err != nil {
		w.fail(ctx, err)
		return err
	}
	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	w.mu.Lock()
	defer w.mu.Unlock()
	if hash == w.lastHash {
		return nil
	}
	tbl, err := risk.ParseSeed(data)
	if err != nil {
		w.meta.LastError = err.Error()
		w.metrics.SeedReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "rejected")))
		slog.WarnContext(ctx, "seed reload rejected", "path", w.path, "error", err)
		return err
	}
	w.tables.Swap(tbl)
	w.lastHash = hash
	w.meta = ReloadMetadata{
		Version:      hash[:12],
		Advisors:     tbl.Len(risk.KindAdvisor),
		Websites:     tbl.Len(risk.KindWebsite),
		LastReloadAt: time.Now(),
		ReloadCount:  w.meta.ReloadCount + 1,
	}
	w.metrics.SeedReloads.Add(ctx, 1, metric.WithAttributes(attribute.String("outcome", "applied")))
	slog.InfoContext(ctx, "seed table loaded", "path", w.path, "version", w.meta.Version,
		"advisors", w.meta.Advisors, "websites", w.meta.Websites)
	return nil
}

func (w *SeedWatcher) fail(ctx context.Context, err error) {
	w.mu.Lock()
	w.meta.LastError = err.Error()
	w.mu.Unlock()
	slog.WarnContext(ctx, "seed reload failed", "path", w.path, "error", err)
}

// Metadata returns the current reload statistics.
func (w *SeedWatcher) Metadata() ReloadMetadata {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.meta
}

// Run watches the seed file's directory until ctx is done. Watching the directory
// keeps working across editors that replace the file by rename.
func (w *SeedWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	target := filepath.Clean(w.path)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != target || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			_ = w.Reload(ctx) // errors are kept in metadata
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			slog.WarnContext(ctx, "seed watcher error", "error", err)
		}
	}
}
