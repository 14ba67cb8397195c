// Package extract wires the rest of this module together: it walks the
// source tree, recognizes i18n call sites, then reconciles the result
// against each target locale's stored .ftl files and writes the outcome
// back out. The two concurrency levels described by the component design
// — files within Level 1, locales within Level 2 — are both bounded
// errgroup fan-outs, so an error from any worker aborts the group the same
// way a single-threaded implementation would abort on its first error.
package extract

import (
	"context"
	"fmt"
	"path"
	"sync"

	billy "github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"

	"github.com/agentic-research/fluentkeys/internal/config"
	"github.com/agentic-research/fluentkeys/internal/diag"
	"github.com/agentic-research/fluentkeys/internal/fluent"
	"github.com/agentic-research/fluentkeys/internal/ftlimport"
	"github.com/agentic-research/fluentkeys/internal/key"
	"github.com/agentic-research/fluentkeys/internal/pycall"
	"github.com/agentic-research/fluentkeys/internal/reconcile"
	"github.com/agentic-research/fluentkeys/internal/stats"
	"github.com/agentic-research/fluentkeys/internal/walker"
)

// MaxWorkers bounds how many files or locales are processed concurrently
// in either level, regardless of how many are queued.
const MaxWorkers = 8

// Run performs one full extraction: Level 1 over the source tree rooted at
// codeRoot, Level 2 over every locale directory under localesRoot.
func Run(ctx context.Context, fsys billy.Filesystem, codeRoot, localesRoot string, opts config.Options, sink *diag.Sink) (*stats.Run, error) {
	if len(opts.Locales) == 0 {
		return nil, diag.Wrap("extract", diag.KindConfig, fmt.Errorf("no locales configured"))
	}

	excludes, err := walker.CompileExcludes(opts.ExcludeDirs)
	if err != nil {
		return nil, diag.Wrap("extract", diag.KindConfig, err)
	}

	codeKeys, pyFilesCount, err := recognizeAll(ctx, fsys, codeRoot, excludes, opts, sink)
	if err != nil {
		return nil, err
	}
	for _, k := range codeKeys {
		if k.Path == "" {
			k.Path = opts.DefaultFTLFilename
		}
	}

	run := stats.NewRun()
	run.PyFilesCount = pyFilesCount

	var mu sync.Mutex
	var ftlFilesTotal int

	var g errgroup.Group
	g.SetLimit(MaxWorkers)
	for _, locale := range opts.Locales {
		locale := locale
		g.Go(func() error {
			localeDir := path.Join(localesRoot, locale)
			stored, err := ftlimport.ImportDir(fsys, localeDir, locale)
			if err != nil {
				return diag.Wrap("ftlimport", diag.KindIO, fmt.Errorf("%s: %w", locale, err))
			}

			reconcileOpts := reconcile.Options{
				CommentMode:        opts.CommentKeysMode,
				CommentJunks:       opts.CommentJunks,
				LineEnding:         opts.LineEnding,
				DryRun:             opts.DryRun,
				DefaultFTLFilename: opts.DefaultFTLFilename,
				OnWarn: func(name string) {
					sink.Warn("%s: key %q no longer matches code, left as is (comment-keys-mode=warn)", locale, name)
				},
			}
			result, err := reconcile.Reconcile(locale, codeKeys, stored, reconcileOpts)
			if err != nil {
				return diag.Wrap("reconcile", diag.KindConflict, err)
			}

			for filePath, resource := range result.Resources {
				content := fluent.Serialize(resource)
				content = reconcile.NormalizeLineEndings(content, opts.LineEnding)
				if err := reconcile.Write(fsys, path.Join(localeDir, filePath), content, opts.DryRun); err != nil {
					return diag.Wrap("reconcile", diag.KindIO, err)
				}
			}

			mu.Lock()
			ftlFilesTotal += len(result.Resources)
			mu.Unlock()

			sink.Detail("%s: %d files, %d stored, %d in code, %d added, %d updated, %d commented",
				locale, result.Stats.FilesCount, result.Stats.StoredKeysCount, result.Stats.InCodeKeysCount,
				result.Stats.Added, result.Stats.Updated, result.Stats.Commented)

			mu.Lock()
			run.AddLocale(result.Stats)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	run.FtlFilesCount = ftlFilesTotal
	return run, nil
}

// recognizeAll implements Level 1: every source file is parsed and
// recognized concurrently, folding results into one map guarded by a
// mutex; two files that recognize the same key name must agree on its
// generated content or the run fails with a conflict error.
func recognizeAll(ctx context.Context, fsys billy.Filesystem, codeRoot string, excludes *walker.ExcludeSet, opts config.Options, sink *diag.Sink) (map[string]*key.Key, int, error) {
	files, err := walker.Walk(fsys, codeRoot, ".py", excludes, func(_ string, warnErr error) {
		sink.Warn("%v", warnErr)
	})
	if err != nil {
		return nil, 0, diag.Wrap("walker", diag.KindIO, err)
	}

	recognizerCfg := opts.RecognizerConfig()
	merged := make(map[string]*key.Key)
	var mu sync.Mutex

	var g errgroup.Group
	g.SetLimit(MaxWorkers)
	for _, f := range files {
		f := f
		g.Go(func() error {
			src, err := walker.ReadFile(fsys, f)
			if err != nil {
				return diag.Wrap("walker", diag.KindIO, fmt.Errorf("%s: %w", f.Path, err))
			}
			if err := pycall.CheckSyntax(ctx, src, f.Path); err != nil {
				sink.Warn("skipping %s: %v", f.Path, err)
				return nil
			}
			tree, err := pycall.Parse(ctx, src)
			if err != nil {
				sink.Warn("skipping %s: %v", f.Path, err)
				return nil
			}
			found := pycall.Recognize(tree, src, f.Path, recognizerCfg)

			mu.Lock()
			defer mu.Unlock()
			for _, k := range found {
				if existing, ok := merged[k.Name]; ok {
					if existing.Path != k.Path {
						return diag.Wrap("pycall", diag.KindConflict,
							fmt.Errorf("key %q targets different paths %q (%s) and %q (%s)",
								k.Name, existing.Path, existing.CodePath, k.Path, k.CodePath))
					}
					if !existing.StructurallyEqual(k) {
						return diag.Wrap("pycall", diag.KindConflict,
							fmt.Errorf("key %q defined differently in %s and %s", k.Name, existing.CodePath, k.CodePath))
					}
					continue
				}
				merged[k.Name] = k
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return merged, len(files), nil
}
