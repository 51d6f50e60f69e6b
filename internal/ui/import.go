package ui

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/magnetic/internal/dateutil"
	"github.com/javiermolinar/magnetic/internal/logging"
	"github.com/javiermolinar/magnetic/internal/timeline"
)

// watchDebounce collapses the burst of events an editor save produces.
const watchDebounce = 150 * time.Millisecond

func (a *App) importCmd() *cobra.Command {
	var (
		watch  bool
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace the day with a plan file",
		Long: `Replace the day with the items of a YAML (or .json) plan file. The
items are laid out edge to edge between the locked ones, so a rough plan
with gaps or overlaps is repaired on the way in. The file's date is used
unless --date is given.

Example plan:
  items:
    - title: Sleep
      start: "00:00"
      duration: 7h
      locked: true
    - title: Work
      start: "07:00"
      duration: 8h
    - title: Evening
      start: "15:00"
      duration: 9h

With --watch the file is imported again on every change until interrupted.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := resolvePath(args[0])
			if err != nil {
				return err
			}
			if err := a.importFile(cmd, path, dryRun); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()
			return a.watchFile(ctx, cmd, path, dryRun)
		},
	}

	cmd.Flags().BoolVar(&watch, "watch", false, "Re-import whenever the file changes")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Show the result without saving it")
	return cmd
}

func (a *App) importFile(cmd *cobra.Command, path string, dryRun bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading plan: %w", err)
	}
	plan, err := DecodePlan(path, data)
	if err != nil {
		return err
	}
	// The plan's own date applies unless --date was given; it is read again
	// on every import so a watched file can move to another day.
	when := a.date
	if when == "" {
		when = plan.Date
	}
	date, err := dateutil.Resolve(when, a.now())
	if err != nil {
		return err
	}
	day, err := plan.Day(date)
	if err != nil {
		return err
	}

	op := timeline.ReplaceOp{Day: day, Source: filepath.Base(path)}
	return a.applyOn(cmd, date, dryRun, func(timeline.Day) (timeline.Op, error) { return op, nil })
}

// watchFile re-imports path on every change. The directory is watched
// rather than the file because editors often save by renaming over it.
func (a *App) watchFile(ctx context.Context, cmd *cobra.Command, path string, dryRun bool) error {
	log := logging.FromContext(ctx).With().Str("component", "import").Logger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return fmt.Errorf("watching %s: %w", filepath.Dir(path), err)
	}
	fmt.Fprintln(cmd.ErrOrStderr(), formatMuted(fmt.Sprintf("watching %s (Ctrl+C to stop)", path)))

	var pending <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				pending = time.After(watchDebounce)
			}

		case <-pending:
			pending = nil
			if err := a.importFile(cmd, path, dryRun); err != nil {
				log.Warn().Err(err).Str("file", path).Msg("re-import failed")
				fmt.Fprintln(cmd.ErrOrStderr(), formatProblem("import failed: "+err.Error()))
				continue
			}
			log.Info().Str("file", path).Msg("re-imported")

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error().Err(err).Msg("file watcher error")
		}
	}
}

func resolvePath(path string) (string, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return "", fmt.Errorf("empty path")
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolving home directory: %w", err)
		}
		path = filepath.Join(home, path[2:])
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path: %w", err)
	}

	return absPath, nil
}
