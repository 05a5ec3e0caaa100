// Package codegen drives a table stream through filtering and compilation
// and materializes the resulting files.
package codegen

import (
	"context"
	"errors"
	"iter"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/yefei/zenorm-generate/internal/codegen/artifact"
	"github.com/yefei/zenorm-generate/internal/codegen/typescript"
	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/filter"
	"github.com/yefei/zenorm-generate/internal/runheader"
	"github.com/yefei/zenorm-generate/internal/schema"
)

// Emitter is the interface a target-language code emitter must implement
type Emitter interface {
	// Compile converts one table into its shape block, its model record and
	// its per-table stub. It must not touch the filesystem.
	Compile(t schema.Table) (block string, model schema.Model, stub artifact.Artifact)

	// TablesFile renders the shape declarations of all compiled tables
	TablesFile(h runheader.Header, blocks []string) artifact.Artifact

	// RepositoriesFile renders the aggregator over all compiled models
	RepositoriesFile(h runheader.Header, models []schema.Model) artifact.Artifact

	// GlobalFile renders the shared base artifact, if one is configured
	GlobalFile() (artifact.Artifact, bool)

	// IndexFile renders the index artifact
	IndexFile() artifact.Artifact
}

// Report summarizes one run
type Report struct {
	OutputDir string
	Models    []schema.Model
	// Excluded lists tables dropped by the filter, in stream order
	Excluded []string
	Written  []string
	Skipped  []string
}

// Generator runs one generation pass for a configuration
type Generator struct {
	config  *config.Config
	filter  *filter.Filter
	emitter Emitter
	fs      artifact.FileSystem
	header  runheader.Provider
	logger  zerolog.Logger
	baseDir string
}

// Option configures a Generator
type Option func(*Generator)

// WithEmitter replaces the default TypeScript emitter
func WithEmitter(e Emitter) Option {
	return func(g *Generator) { g.emitter = e }
}

// WithFileSystem replaces the local filesystem
func WithFileSystem(fs artifact.FileSystem) Option {
	return func(g *Generator) { g.fs = fs }
}

// WithHeader sets the provider of header metadata
func WithHeader(p runheader.Provider) Option {
	return func(g *Generator) { g.header = p }
}

// WithLogger sets the logger
func WithLogger(l zerolog.Logger) Option {
	return func(g *Generator) { g.logger = l }
}

// WithBaseDir resolves a relative output directory against dir instead of
// the process working directory
func WithBaseDir(dir string) Option {
	return func(g *Generator) { g.baseDir = dir }
}

// New validates cfg, merged over the defaults, and prepares a generator.
// Every configuration problem is reported here, before anything is written.
func New(cfg *config.Config, opts ...Option) (*Generator, error) {
	g := &Generator{
		config: config.ApplyDefaults(cfg),
		fs:     artifact.OSFileSystem{},
		header: runheader.Env{},
		logger: log.Logger,
	}
	for _, opt := range opts {
		opt(g)
	}

	if err := g.config.Validate(); err != nil {
		return nil, NewConfigError("", nil, "", err)
	}

	f, err := filter.Compile(g.config.Filter, g.config.Include)
	if err != nil {
		var perr *filter.PatternError
		if errors.As(err, &perr) {
			return nil, NewConfigError(perr.Option, perr.Pattern, "invalid pattern", perr.Err)
		}
		return nil, NewConfigError("", nil, "", err)
	}
	g.filter = f

	if g.emitter == nil {
		ts, err := typescript.NewGenerator(g.config)
		if err != nil {
			return nil, NewConfigError("", nil, "", err)
		}
		g.emitter = ts
	}

	if len(g.config.DeclareRepositoriesToModules) > 0 && !g.config.GenerateRepositories {
		g.logger.Warn().
			Strs("modules", g.config.DeclareRepositoriesToModules).
			Msg("declareRepositoriesToModules has no effect without generateRepositories")
	}

	return g, nil
}

// Config returns the effective configuration, defaults included
func (g *Generator) Config() *config.Config {
	return g.config
}

// Generate consumes tables in order and writes every artifact. Per-table stubs
// are materialized as soon as their table is compiled; the aggregate files are
// written once the stream is exhausted. The first failure aborts the run.
func (g *Generator) Generate(ctx context.Context, tables iter.Seq2[schema.Table, error]) (*Report, error) {
	g.logger.Info().Str("database", g.config.Database).Msg("generate models")

	outDir, err := g.outputDir()
	if err != nil {
		return nil, err
	}

	report := &Report{OutputDir: outDir}
	m := artifact.NewMaterializer(g.fs, outDir, g.logger)
	if err := m.EnsureDir(); err != nil {
		return report, ioError(err)
	}

	header := g.header.Header(g.config.Database)

	var blocks []string
	last := ""
	for t, err := range tables {
		if err != nil {
			return report, &StreamError{After: last, Cause: err}
		}
		if err := ctx.Err(); err != nil {
			return report, err
		}
		last = t.Name

		if d := g.filter.Match(t.Name); d.Excluded {
			g.logger.Trace().Str("table", t.Name).Str("reason", d.Reason.String()).Msg("table ignored")
			report.Excluded = append(report.Excluded, t.Name)
			continue
		}

		g.logger.Info().Str("table", t.Name).Msg("table")

		block, model, stub := g.emitter.Compile(t)
		stub.Policy = artifact.CreateIfAbsent
		if err := g.materialize(m, stub, report); err != nil {
			return report, err
		}

		blocks = append(blocks, block)
		report.Models = append(report.Models, model)
	}

	tablesFile := g.emitter.TablesFile(header, blocks)
	tablesFile.Policy = artifact.AlwaysOverwrite
	if err := g.materialize(m, tablesFile, report); err != nil {
		return report, err
	}

	reposFile := g.emitter.RepositoriesFile(header, report.Models)
	reposFile.Policy = artifact.AlwaysOverwrite
	if err := g.materialize(m, reposFile, report); err != nil {
		return report, err
	}

	if global, ok := g.emitter.GlobalFile(); ok {
		global.Policy = artifact.CreateIfAbsent
		if err := g.materialize(m, global, report); err != nil {
			return report, err
		}
	}

	index := g.emitter.IndexFile()
	index.Policy = artifact.CreateIfAbsent
	if err := g.materialize(m, index, report); err != nil {
		return report, err
	}

	g.logger.Info().
		Int("tables", len(report.Models)).
		Int("excluded", len(report.Excluded)).
		Int("written", len(report.Written)).
		Int("skipped", len(report.Skipped)).
		Msg("generate done")

	return report, nil
}

func (g *Generator) materialize(m *artifact.Materializer, a artifact.Artifact, report *Report) error {
	out, err := m.Materialize(a)
	if err != nil {
		return ioError(err)
	}
	path := m.Path(a.Name)
	if out == artifact.Skipped {
		report.Skipped = append(report.Skipped, path)
	} else {
		report.Written = append(report.Written, path)
	}
	return nil
}

func (g *Generator) outputDir() (string, error) {
	dir := g.config.OutputDir
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}

	base := g.baseDir
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", &IOError{Op: "get working directory", Cause: err}
		}
		base = wd
	}
	return filepath.Join(base, dir), nil
}

func ioError(err error) error {
	var perr *artifact.PathError
	if errors.As(err, &perr) {
		return &IOError{Op: perr.Op, Path: perr.Path, Cause: perr.Err}
	}
	return &IOError{Op: "write", Cause: err}
}

// Generate is a convenience wrapper around New and (*Generator).Generate
func Generate(ctx context.Context, tables iter.Seq2[schema.Table, error], cfg *config.Config, opts ...Option) (*Report, error) {
	g, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	return g.Generate(ctx, tables)
}
