package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults applied by ApplyDefaults
const (
	DefaultBackend              = "mysql"
	DefaultOutputDir            = "./src/model"
	DefaultTablesFilename       = "_tables"
	DefaultRepositoriesFilename = "_repositories"
	DefaultOrmModule            = "zenorm"
)

// FileNames are searched, in order, by LoadConfig
var FileNames = []string{"zenorm.json", "zenorm.yaml", "zenorm.yml"}

// Config is the generator configuration, read from zenorm.json or zenorm.yaml
type Config struct {
	// Connection settings. Only metadata sources interpret these.
	Backend  string `json:"backend,omitempty" yaml:"backend,omitempty"`
	Host     string `json:"host,omitempty" yaml:"host,omitempty"`
	Port     int    `json:"port,omitempty" yaml:"port,omitempty"`
	User     string `json:"user,omitempty" yaml:"user,omitempty"`
	Password string `json:"password,omitempty" yaml:"password,omitempty"`
	Database string `json:"database,omitempty" yaml:"database,omitempty"`
	DSN      string `json:"dsn,omitempty" yaml:"dsn,omitempty"`
	File     string `json:"file,omitempty" yaml:"file,omitempty"`

	OutputDir            string `json:"outputDir,omitempty" yaml:"outputDir,omitempty"`
	TablesFilename       string `json:"tablesFilename,omitempty" yaml:"tablesFilename,omitempty"`
	RepositoriesFilename string `json:"repositoriesFilename,omitempty" yaml:"repositoriesFilename,omitempty"`
	// GlobalFilename names the shared base class file. Empty means table
	// classes have no common ancestor.
	GlobalFilename string `json:"globalFilename,omitempty" yaml:"globalFilename,omitempty"`

	GenerateRepositories         bool     `json:"generateRepositories,omitempty" yaml:"generateRepositories,omitempty"`
	DeclareRepositoriesToModules []string `json:"declareRepositoriesToModules,omitempty" yaml:"declareRepositoriesToModules,omitempty"`
	// BindQuery is "<exportName>@<modulePath>"
	BindQuery string `json:"bindQuery,omitempty" yaml:"bindQuery,omitempty"`

	Filter  string `json:"filter,omitempty" yaml:"filter,omitempty"`
	Include string `json:"include,omitempty" yaml:"include,omitempty"`

	OrmModule string `json:"ormModule,omitempty" yaml:"ormModule,omitempty"`
}

// ApplyDefaults returns a copy of c with unset options filled in. c itself is not modified.
func ApplyDefaults(c *Config) *Config {
	out := Config{}
	if c != nil {
		out = *c
		out.DeclareRepositoriesToModules = append([]string(nil), c.DeclareRepositoriesToModules...)
	}

	if out.Backend == "" {
		out.Backend = DefaultBackend
	}
	if out.OutputDir == "" {
		out.OutputDir = DefaultOutputDir
	}
	if out.TablesFilename == "" {
		out.TablesFilename = DefaultTablesFilename
	}
	if out.RepositoriesFilename == "" {
		out.RepositoriesFilename = DefaultRepositoriesFilename
	}
	if out.OrmModule == "" {
		out.OrmModule = os.Getenv("ZENORM_NAME")
	}
	if out.OrmModule == "" {
		out.OrmModule = DefaultOrmModule
	}

	return &out
}

// Validate checks options whose syntax the generator depends on. Pattern
// compilation is left to the filter package.
func (c *Config) Validate() error {
	if c.BindQuery != "" {
		if _, err := ParseBindQuery(c.BindQuery); err != nil {
			return err
		}
	}
	for _, m := range c.DeclareRepositoriesToModules {
		if _, err := ParseModulePath(m); err != nil {
			return err
		}
	}
	for name, v := range map[string]string{
		"tablesFilename":       c.TablesFilename,
		"repositoriesFilename": c.RepositoriesFilename,
		"globalFilename":       c.GlobalFilename,
	} {
		if strings.ContainsAny(v, `/\`) {
			return fmt.Errorf("%s must be a bare file name, got %q", name, v)
		}
	}
	return nil
}

// LoadConfig loads the configuration from the current directory or a parent directory
func LoadConfig() (*Config, string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return nil, "", fmt.Errorf("failed to get current directory: %w", err)
	}

	return loadConfigFromDir(dir)
}

// LoadConfigFromPath loads the configuration from a specific path. The format
// is chosen by extension: .yaml/.yml is YAML, anything else JSON.
func LoadConfigFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &config)
	default:
		err = json.Unmarshal(data, &config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return ApplyDefaults(&config), nil
}

// Marshal encodes c in the format implied by path's extension
func Marshal(c *Config, path string) ([]byte, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Marshal(c)
	default:
		data, err := json.MarshalIndent(c, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	}
}

// FindConfigFile returns the first config file in dir or its parents
func FindConfigFile(startDir string) (string, error) {
	dir := startDir
	for {
		for _, name := range FileNames {
			configPath := filepath.Join(dir, name)
			if _, err := os.Stat(configPath); err == nil {
				return configPath, nil
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root directory
			break
		}
		dir = parent
	}

	return "", fmt.Errorf("no %s found in %s or any parent directory", strings.Join(FileNames, "/"), startDir)
}

// loadConfigFromDir searches for a config file in the given directory and its parents
func loadConfigFromDir(startDir string) (*Config, string, error) {
	path, err := FindConfigFile(startDir)
	if err != nil {
		return nil, "", err
	}
	config, err := LoadConfigFromPath(path)
	if err != nil {
		return nil, "", err
	}
	return config, filepath.Dir(path), nil
}
