package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog/log"

	"github.com/yefei/zenorm-generate/internal/codegen"
	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/source"
	"github.com/yefei/zenorm-generate/internal/watch"
)

// GenerateDependencies for the generate command
type GenerateDependencies struct {
	ConfigLoader   ConfigLoader
	Sources        SourceOpener
	SignalNotifier SignalNotifier
	Output         Output
	// Options are appended to the generator options of every run
	Options []codegen.Option
}

// GenerateCommand encapsulates the generate logic with injected dependencies
type GenerateCommand struct {
	deps GenerateDependencies
}

// NewGenerateCommand creates a new generate command with default dependencies
func NewGenerateCommand() *GenerateCommand {
	return &GenerateCommand{
		deps: GenerateDependencies{
			ConfigLoader:   &defaultConfigLoader{},
			Sources:        source.DefaultRegistry(),
			SignalNotifier: &defaultSignalNotifier{},
			Output:         &defaultOutput{},
		},
	}
}

// WithDependencies allows injecting custom dependencies for testing
func (gc *GenerateCommand) WithDependencies(deps GenerateDependencies) *GenerateCommand {
	gc.deps = deps
	return gc
}

// Execute runs one generation pass, then keeps regenerating on changes to the
// config file (and descriptor file) when watching
func (gc *GenerateCommand) Execute(ctx context.Context, configPath string, watching bool) error {
	cfg, configFile, err := gc.deps.ConfigLoader.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	gc.deps.Output.Printf("📝 Config: %s\n", configFile)

	if err := gc.run(ctx, cfg, configFile); err != nil {
		if !watching {
			return err
		}
		gc.deps.Output.Printf("❌ Generate failed: %v\n", err)
	}

	if !watching {
		return nil
	}
	return gc.watch(ctx, cfg, configFile)
}

// run generates once for cfg
func (gc *GenerateCommand) run(ctx context.Context, cfg *config.Config, configFile string) error {
	cfg = resolveFile(cfg, configFile)

	opts := append([]codegen.Option{
		codegen.WithBaseDir(filepath.Dir(configFile)),
		codegen.WithLogger(log.Logger),
	}, gc.deps.Options...)

	// validate before touching the database
	gen, err := codegen.New(cfg, opts...)
	if err != nil {
		return err
	}

	src, err := gc.deps.Sources.Open(gen.Config())
	if err != nil {
		return fmt.Errorf("failed to open %s source: %w", gen.Config().Backend, err)
	}
	defer src.Close()

	report, err := gen.Generate(ctx, src.Tables(ctx))
	if err != nil {
		return err
	}

	gc.deps.Output.Printf("✅ Generated %d models in %s (%d files written, %d kept, %d tables excluded)\n",
		len(report.Models), report.OutputDir, len(report.Written), len(report.Skipped), len(report.Excluded))
	return nil
}

func (gc *GenerateCommand) watch(ctx context.Context, cfg *config.Config, configFile string) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Handle interrupt signals
	sigChan := make(chan os.Signal, 1)
	gc.deps.SignalNotifier.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer gc.deps.SignalNotifier.Stop(sigChan)

	go func() {
		select {
		case <-sigChan:
			gc.deps.Output.Println("\n👋 Stopping watcher...")
			cancel()
		case <-ctx.Done():
		}
	}()

	files := []string{configFile}
	if cfg.Backend == "file" && cfg.File != "" {
		files = append(files, resolveFile(cfg, configFile).File)
	}

	watcher, err := watch.NewFileWatcher(files, func(path string, op fsnotify.Op) {
		gc.deps.Output.Printf("\n🔄 %s changed, regenerating...\n", filepath.Base(path))

		next, _, err := gc.deps.ConfigLoader.Load(configFile)
		if err != nil {
			gc.deps.Output.Printf("❌ Failed to reload config: %v\n", err)
			return
		}
		if err := gc.run(ctx, next, configFile); err != nil {
			gc.deps.Output.Printf("❌ Generate failed: %v\n", err)
		}
	}, log.Logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	gc.deps.Output.Println("👀 Watching for changes. Press Ctrl+C to stop.")

	if err := watcher.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watcher error: %w", err)
	}
	return nil
}
