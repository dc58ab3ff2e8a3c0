package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/opal-lang/rawline/internal/ctxlog"
	"github.com/opal-lang/rawline/runtime/model"
)

func (a *app) watchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILE ID...",
		Short: "Re-print records whenever FILE changes",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(args[1:])
			if err != nil {
				return err
			}
			return a.watch(cmd.Context(), args[0], ids, cmd.OutOrStdout(), cmd.ErrOrStderr(), nil)
		},
	}
}

// watch prints ids from path, then again after every write to path, until
// ctx is done. ready, if non-nil, is closed once the watcher is armed.
func (a *app) watch(ctx context.Context, path string, ids []uint32, out, errOut io.Writer, ready chan<- struct{}) error {
	logger := ctxlog.FromContext(ctx)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	// Watch the directory so editors that replace the file are still seen.
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return fmt.Errorf("watch %s: %w", path, err)
	}

	var current model.ID
	reload := func() {
		if current != 0 {
			_ = a.manager.Close(current)
			current = 0
		}
		id, err := a.manager.OpenFile(abs)
		if err != nil {
			_, _ = fmt.Fprintf(errOut, "reload failed: %v\n", err)
			return
		}
		current = id
		_, _ = fmt.Fprintf(out, "== %s\n", path)
		if err := a.dumpText(out, errOut, id, ids); err != nil {
			FormatError(errOut, err, false)
		}
	}

	reload()
	if ready != nil {
		close(ready)
	}
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Name != abs || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			logger.Debug("model changed", "path", event.Name, "op", event.Op.String())
			reload()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "error", err)
		}
	}
}
