// Package commands contains the CLI commands for the application
package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/yefei/zenorm-generate/internal/config"
	"github.com/yefei/zenorm-generate/internal/source"
)

type Flags struct {
	LogLevel string
	Watch    bool
}

type Controller struct {
	Flags *Flags
}

// Generate loads configPath (or discovers a config file when empty) and
// writes the model files
func (c *Controller) Generate(ctx context.Context, configPath string) error {
	return NewGenerateCommand().Execute(ctx, configPath, c.Flags.Watch)
}

// Tables lists the source tables and whether the filter keeps them
func (c *Controller) Tables(ctx context.Context, configPath string) error {
	return NewTablesCommand().Execute(ctx, configPath)
}

// Interfaces for dependency injection
type ConfigLoader interface {
	// Load returns the configuration and the path of the file it came from
	Load(path string) (*config.Config, string, error)
}

type SourceOpener interface {
	Open(cfg *config.Config) (source.Source, error)
}

type Output interface {
	Printf(format string, a ...any)
	Println(a ...any)
}

type SignalNotifier interface {
	Notify(c chan<- os.Signal, sig ...os.Signal)
	Stop(c chan<- os.Signal)
}

// Default implementations
type defaultConfigLoader struct{}

func (l *defaultConfigLoader) Load(path string) (*config.Config, string, error) {
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, "", fmt.Errorf("failed to get current directory: %w", err)
		}
		path, err = config.FindConfigFile(wd)
		if err != nil {
			return nil, "", err
		}
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadConfigFromPath(abs)
	if err != nil {
		return nil, "", err
	}
	return cfg, abs, nil
}

type defaultOutput struct{}

func (o *defaultOutput) Printf(format string, a ...any) {
	fmt.Printf(format, a...)
}

func (o *defaultOutput) Println(a ...any) {
	fmt.Println(a...)
}

type defaultSignalNotifier struct{}

func (n *defaultSignalNotifier) Notify(c chan<- os.Signal, sig ...os.Signal) {
	signal.Notify(c, sig...)
}

func (n *defaultSignalNotifier) Stop(c chan<- os.Signal) {
	signal.Stop(c)
}

// resolveFile makes a relative descriptor or database file relative to the
// directory of the config file, like outputDir
func resolveFile(cfg *config.Config, configFile string) *config.Config {
	out := *cfg
	if out.File != "" && !filepath.IsAbs(out.File) {
		out.File = filepath.Join(filepath.Dir(configFile), out.File)
	}
	return &out
}
