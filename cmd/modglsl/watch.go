// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/invowk/modglsl/internal/watch"
	"github.com/invowk/modglsl/pkg/shaderbuild"
)

// defaultWatchOutput is used when neither --output nor the output key is set,
// since the watch loop cannot stream to standard output.
const defaultWatchOutput = "shader.glsl"

func newWatchCommand(app *App) *cobra.Command {
	var maxCycles int

	watchCmd := &cobra.Command{
		Use:   "watch [target]",
		Short: "Rebuild a target whenever its modules change",
		Long: `Poll the manifest and the target's modules every poll interval and rewrite
the output file whenever the assembled shader changes.

Each cycle re-imports the manifest and then hot-rebuilds the target. Errors
are logged and the previous output is left in place, so the loop keeps
running while you fix them. With --notify, filesystem events under the
include directories start a cycle early.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.Context(), app, args, maxCycles)
		},
	}

	f := watchCmd.Flags()
	f.StringP("output", "o", "", "file rewritten on every change (default "+defaultWatchOutput+")")
	f.Duration("interval", 0, "poll interval (default from config, 1s)")
	f.Bool("notify", false, "also start a cycle on filesystem events")
	f.String("signature-mode", "", "signature comparison: strict or content")
	f.Bool("markers", true, "emit a provenance comment before each module")
	f.IntVar(&maxCycles, "max-cycles", 0, "stop after this many poll cycles (0 runs until interrupted)")
	return watchCmd
}

// watchLoop owns the builder; every core call happens on the goroutine that
// runs it.
type watchLoop struct {
	app     *App
	builder *shaderbuild.Builder
	target  string
	output  string
	roots   []string

	// unwritten holds a rebuilt shader whose output write failed; it is
	// retried every cycle until it lands or a newer rebuild replaces it.
	unwritten *string
	// failing holds the failures reported by the latest cycle, so that a
	// recurring one is not repeated at error level.
	failing map[string]bool
	prev    map[string]bool
}

func runWatch(ctx context.Context, app *App, args []string, maxCycles int) error {
	loop := &watchLoop{
		app:     app,
		builder: app.newBuilder(),
		target:  app.target(args),
		output:  app.cfg.Output,
		roots:   slices.Clone(app.cfg.IncludeDirs),
	}
	if loop.output == "" {
		loop.output = defaultWatchOutput
	}

	app.logger.Info("watching",
		"target", loop.target,
		"manifest", app.cfg.Manifest,
		"output", loop.output,
		"interval", app.cfg.PollInterval)

	ticker := time.NewTicker(app.cfg.PollInterval)
	defer ticker.Stop()

	loop.cycle()
	cycles := 1

	trigger := loop.startTrigger(ctx)

	for maxCycles <= 0 || cycles < maxCycles {
		select {
		case <-ctx.Done():
			app.logger.Info("stopped watching", "target", loop.target)
			return nil
		case <-ticker.C:
		case changed := <-trigger:
			app.logger.Debug("filesystem change", "files", len(changed))
			ticker.Reset(app.cfg.PollInterval)
		}
		loop.cycle()
		cycles++
	}
	return nil
}

// cycle imports the manifest and hot-rebuilds the target, rewriting the
// output when the shader changed or an earlier write failed.
func (l *watchLoop) cycle() {
	l.prev, l.failing = l.failing, make(map[string]bool)

	res, err := l.builder.ImportModulesFromFile(l.app.cfg.Manifest)
	if err != nil {
		l.report(describe(err, "import modules", l.app.cfg.Manifest), log.ErrorLevel)
	} else {
		l.addRoot(manifestDir(res, l.app.cfg.Manifest))
		for _, entryErr := range res.Errors {
			l.report(entryErr, log.WarnLevel)
		}
	}

	text, changed, err := l.builder.HotRebuild(l.target)
	if err != nil {
		l.report(describe(err, "rebuild shader", l.target), log.ErrorLevel)
		return
	}
	if changed {
		l.unwritten = &text
	}
	if l.unwritten == nil {
		return
	}

	if err := writeOutput(l.output, *l.unwritten); err != nil {
		l.report(err, log.ErrorLevel)
		return
	}
	l.app.logger.Info("shader updated", "target", l.target, "output", l.output, "bytes", len(*l.unwritten))
	l.unwritten = nil
}

// report logs err at level unless the previous cycle reported the same
// failure, in which case it goes to debug level.
func (l *watchLoop) report(err error, level log.Level) {
	msg := formatErrorForDisplay(err, l.app.flags.verbose)
	l.failing[msg] = true
	if l.prev[msg] {
		l.app.logger.Debug("still failing", "err", err)
		return
	}
	l.app.logger.Log(level, msg)
}

func (l *watchLoop) addRoot(dir string) {
	if !slices.Contains(l.roots, dir) {
		l.roots = append(l.roots, dir)
	}
}

// startTrigger starts the filesystem watcher when notifications are enabled.
// The returned channel is nil, and so never ready, otherwise.
func (l *watchLoop) startTrigger(ctx context.Context) <-chan []string {
	wc := l.app.cfg.Watch
	if !wc.Notify {
		return nil
	}

	w, err := watch.New(watch.Config{
		Roots:    l.roots,
		Patterns: wc.Patterns,
		Ignore:   wc.Ignore,
		Debounce: wc.Debounce,
		Stderr:   l.app.stderr,
	})
	if err != nil {
		l.app.logger.Warn("filesystem notifications unavailable, polling only", "err", err)
		return nil
	}

	go func() {
		if err := w.Run(ctx); err != nil {
			l.app.logger.Error("filesystem watcher stopped, polling only", "err", err)
		}
	}()
	l.app.logger.Debug("filesystem notifications enabled", "roots", w.Roots())
	return w.C()
}
