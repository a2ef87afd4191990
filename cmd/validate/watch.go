// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"fmt"
	"maps"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/ManuGH/fivegms/internal/log"
)

// settle is how long a file must stay quiet before it is re-validated.
const settle = 100 * time.Millisecond

// watch re-validates *.json files in dir whenever they are created or written,
// until ctx is cancelled.
func (a *app) watch(ctx context.Context, dir string) error {
	logger := log.WithComponent("watch")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	logger.Info().Str(log.FieldFile, dir).Str(log.FieldKind, a.kind.String()).Msg("watching for documents")
	if a.ready != nil {
		close(a.ready)
	}

	pending := make(map[string]struct{})
	timer := time.NewTimer(settle)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.EqualFold(filepath.Ext(event.Name), ".json") {
				continue
			}
			if event.Has(fsnotify.Create) || event.Has(fsnotify.Write) {
				pending[event.Name] = struct{}{}
				timer.Reset(settle)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("watcher error")

		case <-timer.C:
			for _, path := range slices.Sorted(maps.Keys(pending)) {
				res := a.check(ctx, path)
				if err := a.report([]result{res}); err != nil {
					logger.Warn().Err(err).Str(log.FieldFile, path).Msg("report result")
				}
			}
			clear(pending)
		}
	}
}
