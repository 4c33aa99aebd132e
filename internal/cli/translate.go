package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newTranslateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "translate <file>...",
		Short: "Translate programs to Python",
		Long: `Translate resolves, type checks and translates each program file.

A single file is written to standard output unless --output-dir is set.
With several files, each one is written next to its input (or into
--output-dir) with a .py extension.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := GetConfig(cmd.Context())
			tr := &translator{
				cmd:       cmd,
				logger:    GetLogger(cmd.Context()),
				outputDir: cfg.OutputDir,
				stdout:    len(args) == 1 && cfg.OutputDir == "",
				out:       cmd.OutOrStdout(),
			}

			err := tr.translateAll(cmd.Context(), args)
			if !cfg.Watch {
				return err
			}
			if err != nil {
				tr.logger.Error("translation failed", "error", err)
			}
			return tr.watch(cmd.Context(), args)
		},
	}

	cmd.Flags().StringP("output-dir", "o", "", "directory for generated .py files")
	cmd.Flags().Bool("watch", false, "translate again whenever an input file changes")

	return cmd
}

type translator struct {
	cmd       *cobra.Command
	logger    *slog.Logger
	outputDir string
	stdout    bool

	mu  sync.Mutex // guards out
	out io.Writer
}

// translateAll translates every file concurrently and returns the first
// failure.
func (tr *translator) translateAll(ctx context.Context, files []string) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for _, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return tr.translateFile(file)
		})
	}
	return g.Wait()
}

func (tr *translator) translateFile(path string) error {
	p, err := readProgram(tr.cmd, path)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	python, err := newCompiler(tr.cmd, path).Compile(p)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	if tr.stdout {
		tr.mu.Lock()
		defer tr.mu.Unlock()
		_, err := io.WriteString(tr.out, python)
		return err
	}

	target := outputPath(path, tr.outputDir)
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(target, []byte(python), 0o644); err != nil {
		return fmt.Errorf("error writing %s: %w", target, err)
	}
	tr.logger.Info("translated", "file", path, "output", target, "bytes", len(python))
	return nil
}

// outputPath is the .py file generated for input, placed in dir or, when
// dir is empty, next to input.
func outputPath(input, dir string) string {
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + ".py"
	if dir == "" {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, base)
}

// watch translates a file again after it is written, until ctx is done.
// Directories are watched rather than files so that editors which replace
// files on save are still noticed.
func (tr *translator) watch(ctx context.Context, files []string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	inputs := make(map[string]string, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return err
		}
		inputs[abs] = file
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	tr.logger.Info("watching for changes", "files", len(files))

	// Debounce per file; editors often write a file several times on save.
	timers := make(map[string]*time.Timer)
	defer func() {
		for _, timer := range timers {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil {
				continue
			}
			file, ok := inputs[abs]
			if !ok {
				continue
			}

			if timer := timers[file]; timer != nil {
				timer.Stop()
			}
			timers[file] = time.AfterFunc(100*time.Millisecond, func() {
				tr.logger.Info("change detected", "file", file)
				if err := tr.translateFile(file); err != nil {
					tr.logger.Error("translation failed", "error", err)
				}
			})

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			tr.logger.Warn("watcher error", "error", err)
		}
	}
}
