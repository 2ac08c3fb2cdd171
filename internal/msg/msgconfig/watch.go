package msgconfig

import (
	"context"
	"fmt"
	"log"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/louisbranch/blurb/internal/msg"
)

// Source hands out the current channel config. Reloads swap it atomically so
// each request sees one consistent snapshot.
type Source struct {
	current atomic.Pointer[msg.Config]
	reloads atomic.Int64
}

// Static returns a Source that always yields cfg.
func Static(cfg msg.Config) *Source {
	s := &Source{}
	s.store(cfg)
	return s
}

// Current returns the latest valid config.
func (s *Source) Current() msg.Config {
	if s == nil {
		return msg.DefaultConfig()
	}
	cfg := s.current.Load()
	if cfg == nil {
		return msg.DefaultConfig()
	}
	return *cfg
}

// Reloads counts successful reloads since the source was created.
func (s *Source) Reloads() int64 {
	if s == nil {
		return 0
	}
	return s.reloads.Load()
}

func (s *Source) store(cfg msg.Config) {
	s.current.Store(&cfg)
}

// Watch loads path and reloads it whenever the file changes until ctx is
// done. Invalid edits are logged and the previous config is kept. An empty
// path returns a static source over the defaults.
func Watch(ctx context.Context, path string) (*Source, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	source := Static(cfg)
	if strings.TrimSpace(path) == "" {
		return source, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create msg config watcher: %w", err)
	}
	// Watch the directory so editors that replace the file are still seen.
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("watch %s: %w", path, err)
	}
	go source.run(ctx, watcher, path)
	return source, nil
}

func (s *Source) run(ctx context.Context, watcher *fsnotify.Watcher, path string) {
	defer func() {
		_ = watcher.Close()
	}()
	target := filepath.Clean(path)
	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			cfg, err := Load(path)
			if err != nil {
				log.Printf("msg config reload rejected: %v", err)
				continue
			}
			s.store(cfg)
			s.reloads.Add(1)
			log.Printf("msg config reloaded from %s", path)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Printf("msg config watcher: %v", err)
		}
	}
}
