package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/SuramyaVimal/dag-cd/internal/ctxlog"
	"github.com/SuramyaVimal/dag-cd/internal/export"
	"github.com/SuramyaVimal/dag-cd/internal/fsutil"
	"github.com/SuramyaVimal/dag-cd/internal/pipeline"
	"github.com/SuramyaVimal/dag-cd/internal/remote"
	"github.com/SuramyaVimal/dag-cd/internal/server"
)

// stdinName labels diagnostics for source read from standard input.
const stdinName = "<stdin>"

type source struct {
	name string
	text string
}

// Run executes the main application logic based on the provided configuration.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	if a.config.Serve {
		return a.serve(ctx)
	}

	sources, err := a.loadSources()
	if err != nil {
		return err
	}
	a.logger.Debug("Sources loaded.", "count", len(sources))

	docs := make([]*export.Document, len(sources))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, src := range sources {
		g.Go(func() error {
			doc, err := a.analyze(gctx, src.text)
			if err != nil {
				return fmt.Errorf("%s: %w", src.name, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i, doc := range docs {
		if err := a.report(sources[i].name, doc, len(sources) > 1, i > 0); err != nil {
			return err
		}
	}

	a.logger.Debug("App.Run method finished.")
	return nil
}

func (a *App) serve(ctx context.Context) error {
	addr := a.config.Settings.Server.Listen
	a.logger.Info("Starting server.", "listen", addr)
	return server.New(ctx, a.analyzer).ListenAndServe(ctx, addr)
}

func (a *App) loadSources() ([]source, error) {
	if a.config.InputPath == StdinPath {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("failed to read standard input: %w", err)
		}
		return []source{{name: stdinName, text: string(data)}}, nil
	}

	paths, err := fsutil.ResolveInputs(a.config.InputPath)
	if err != nil {
		return nil, err
	}
	sources := make([]source, 0, len(paths))
	for _, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("failed to read source file %s: %w", p, err)
		}
		sources = append(sources, source{name: p, text: string(data)})
	}
	return sources, nil
}

func (a *App) analyze(ctx context.Context, text string) (*export.Document, error) {
	if a.config.RemoteURL != "" {
		return remote.Analyze(ctx, a.config.RemoteURL, text, a.config.RemoteTimeout)
	}
	res, err := a.analyzer.Analyze(ctx, text)
	if err != nil {
		return nil, err
	}
	return res.Document(), nil
}

// report writes diagnostics to the log writer and the formatted document to
// the output writer.
func (a *App) report(name string, doc *export.Document, header, separate bool) error {
	if err := export.WriteDiagnostics(a.logW, name, doc, a.config.Color); err != nil {
		return fmt.Errorf("failed to write diagnostics: %w", err)
	}
	if doc.Empty {
		a.logger.Info("No instructions found.", "input", name, "reason", pipeline.ErrEmptyGraph)
	}
	if separate {
		fmt.Fprintln(a.outW)
	}
	if header {
		fmt.Fprintf(a.outW, "==> %s <==\n", name)
	}
	if err := export.Write(a.outW, a.config.Settings.Output, doc); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
