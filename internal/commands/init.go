package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/yefei/zenorm-generate/internal/config"
)

type InitOptions struct {
	// Format is "json" or "yaml"
	Format               string
	Backend              string
	Host                 string
	Port                 string
	User                 string
	Database             string
	File                 string
	OutputDir            string
	GenerateRepositories bool
}

type FileSystem interface {
	Stat(name string) (os.FileInfo, error)
	WriteFile(name string, data []byte, perm os.FileMode) error
	Getwd() (string, error)
}

type osFileSystem struct{}

func (fs *osFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

func (fs *osFileSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

func (fs *osFileSystem) Getwd() (string, error) {
	return os.Getwd()
}

type InitCommand struct {
	filesystem FileSystem
	output     Output
	// For testing: if set, skip prompting
	testOptions *InitOptions
}

func NewInitCommand() *InitCommand {
	return &InitCommand{
		filesystem: &osFileSystem{},
		output:     &defaultOutput{},
	}
}

func (c *Controller) Init(ctx context.Context) error {
	cmd := NewInitCommand()
	return cmd.Run(ctx)
}

func (ic *InitCommand) Run(ctx context.Context) error {
	return ic.RunWithOptions(ctx)
}

func (ic *InitCommand) RunWithOptions(ctx context.Context, opts ...tea.ProgramOption) error {
	dir, err := ic.filesystem.Getwd()
	if err != nil {
		return fmt.Errorf("failed to get current directory: %w", err)
	}

	for _, name := range config.FileNames {
		path := filepath.Join(dir, name)
		if _, err := ic.filesystem.Stat(path); err == nil {
			return fmt.Errorf("%s already exists", path)
		}
	}

	var options *InitOptions

	// For testing: use provided options instead of prompting
	if ic.testOptions != nil {
		options = ic.testOptions
	} else {
		options, err = ic.promptInitOptions(opts...)
		if err != nil {
			return fmt.Errorf("failed to get init options: %w", err)
		}
	}

	cfg, err := options.config()
	if err != nil {
		return err
	}

	name := "zenorm.json"
	if options.Format == "yaml" {
		name = "zenorm.yaml"
	}
	path := filepath.Join(dir, name)

	data, err := config.Marshal(cfg, path)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := ic.filesystem.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	ic.output.Printf("✅ Created %s\n", path)
	ic.output.Println("   Run `zenorm-generate` to generate models.")
	return nil
}

// config turns the answers into the minimal config to write; options left at
// their defaults are omitted
func (o *InitOptions) config() (*config.Config, error) {
	cfg := &config.Config{
		Backend:              o.Backend,
		Host:                 o.Host,
		User:                 o.User,
		Database:             o.Database,
		File:                 o.File,
		GenerateRepositories: o.GenerateRepositories,
	}
	if cfg.Backend == config.DefaultBackend {
		cfg.Backend = ""
	}
	if o.OutputDir != config.DefaultOutputDir {
		cfg.OutputDir = o.OutputDir
	}
	if o.Port != "" {
		port, err := strconv.Atoi(o.Port)
		if err != nil {
			return nil, fmt.Errorf("invalid port %q", o.Port)
		}
		cfg.Port = port
	}
	return cfg, nil
}

func (ic *InitCommand) promptInitOptions(opts ...tea.ProgramOption) (*InitOptions, error) {
	options := &InitOptions{
		Format:    "json",
		Backend:   config.DefaultBackend,
		Host:      "localhost",
		OutputDir: config.DefaultOutputDir,
	}

	form := ic.createInitForm(options)

	if len(opts) > 0 {
		// For testing: run with provided options
		program := tea.NewProgram(form, opts...)
		if _, err := program.Run(); err != nil {
			return nil, err
		}
	} else {
		// Normal execution
		if err := form.Run(); err != nil {
			return nil, err
		}
	}

	if usesFile(options.Backend) {
		options.Host, options.Port, options.User = "", "", ""
	} else {
		options.File = ""
	}
	return options, nil
}

func usesFile(backend string) bool {
	return backend == "sqlite" || backend == "file"
}

func (ic *InitCommand) createInitForm(o *InitOptions) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Backend").
				Description("Where table metadata is read from").
				Options(
					huh.NewOption("MySQL", "mysql"),
					huh.NewOption("PostgreSQL", "postgres"),
					huh.NewOption("SQLite", "sqlite"),
					huh.NewOption("SQL Server", "sqlserver"),
					huh.NewOption("Descriptor file", "file"),
				).
				Value(&o.Backend),

			huh.NewSelect[string]().
				Title("Config format").
				Options(
					huh.NewOption("JSON", "json"),
					huh.NewOption("YAML", "yaml"),
				).
				Value(&o.Format),
		),

		huh.NewGroup(
			huh.NewInput().
				Title("Host").
				Value(&o.Host),
			huh.NewInput().
				Title("Port").
				Description("Leave empty for the backend default").
				Value(&o.Port).
				Validate(func(s string) error {
					if s == "" {
						return nil
					}
					if _, err := strconv.Atoi(s); err != nil {
						return fmt.Errorf("port must be a number")
					}
					return nil
				}),
			huh.NewInput().
				Title("User").
				Value(&o.User),
		).WithHideFunc(func() bool { return usesFile(o.Backend) }),

		huh.NewGroup(
			huh.NewInput().
				Title("File").
				Description("SQLite database or table descriptor").
				Value(&o.File).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("file cannot be empty")
					}
					return nil
				}),
		).WithHideFunc(func() bool { return !usesFile(o.Backend) }),

		huh.NewGroup(
			huh.NewInput().
				Title("Database").
				Description("Schema to read, also shown in file headers").
				Value(&o.Database),
			huh.NewInput().
				Title("Output directory").
				Value(&o.OutputDir).
				Validate(func(s string) error {
					if s == "" {
						return fmt.Errorf("output directory cannot be empty")
					}
					return nil
				}),
			huh.NewConfirm().
				Title("Generate a Repositories container?").
				Value(&o.GenerateRepositories),
		),
	)
}
