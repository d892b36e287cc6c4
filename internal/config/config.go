package config

import (
	"fmt"

	"github.com/mandelsoft/vfs/pkg/vfs"
	"gopkg.in/yaml.v3"
)

// Defaults used when neither a config file nor a flag sets a value.
const (
	DefaultSource = "datapack.yaml"
	DefaultOutput = "."
	DefaultIndent = 2
)

// Config represents the complete configuration for datapacker
type Config struct {
	Source     string           `yaml:"source"`
	Output     string           `yaml:"output"`
	Formatting FormattingConfig `yaml:"formatting"`
	Dev        DevConfig        `yaml:"dev"`
}

// FormattingConfig controls how output files are encoded
type FormattingConfig struct {
	Indent     int  `yaml:"indent"`
	EscapeHTML bool `yaml:"escape_html"`
}

// DevConfig contains development/debug options
type DevConfig struct {
	Debug  bool `yaml:"debug"`
	DryRun bool `yaml:"dry_run"`
}

// NewConfig creates a new Config with default values
func NewConfig() *Config {
	return &Config{
		Source: DefaultSource,
		Output: DefaultOutput,
		Formatting: FormattingConfig{
			Indent:     DefaultIndent,
			EscapeHTML: false,
		},
		Dev: DevConfig{
			Debug:  false,
			DryRun: false,
		},
	}
}

// LoadConfig loads configuration from a YAML file on fs
func LoadConfig(fs vfs.FileSystem, path string) (*Config, error) {
	data, err := vfs.ReadFile(fs, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Start with defaults
	cfg := NewConfig()

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks that the configuration values are usable
func (c *Config) Validate() error {
	if c.Source == "" {
		return fmt.Errorf("source must not be empty")
	}
	if c.Output == "" {
		return fmt.Errorf("output must not be empty")
	}
	if c.Formatting.Indent < 1 {
		return fmt.Errorf("formatting.indent must be at least 1, got %d", c.Formatting.Indent)
	}
	return nil
}

// FindConfigFile searches for a config file in the working directory of fs
// and its parents
func FindConfigFile(fs vfs.FileSystem) string {
	currentDir, err := fs.Getwd()
	if err != nil {
		return ""
	}
	return FindConfigFileFrom(fs, currentDir)
}

// FindConfigFileFrom searches dir and its parents on fs for a config file
func FindConfigFileFrom(fs vfs.FileSystem, dir string) string {
	configNames := []string{".datapacker.yml", ".datapacker.yaml", "datapacker.yml", "datapacker.yaml"}

	currentDir := dir
	for {
		for _, name := range configNames {
			configPath := vfs.Join(fs, currentDir, name)
			if ok, err := vfs.IsFile(fs, configPath); err == nil && ok {
				return configPath
			}
		}

		parentDir := vfs.Dir(fs, currentDir)
		if parentDir == currentDir {
			// Reached root directory
			break
		}
		currentDir = parentDir
	}

	return ""
}

// LoadConfigWithCLI loads config with CLI argument precedence. Empty CLI
// values leave the file (or default) values in place; boolean flags can only
// switch an option on.
func LoadConfigWithCLI(fs vfs.FileSystem, configPath, cliSource, cliOutput string, cliDebug, cliDryRun bool) (*Config, error) {
	cfg := NewConfig()

	if configPath != "" {
		fileConfig, err := LoadConfig(fs, configPath)
		if err != nil {
			return nil, err
		}
		cfg = fileConfig
	}

	if cliSource != "" {
		cfg.Source = cliSource
	}
	if cliOutput != "" {
		cfg.Output = cliOutput
	}
	if cliDebug {
		cfg.Dev.Debug = true
	}
	if cliDryRun {
		cfg.Dev.DryRun = true
	}

	return cfg, nil
}
