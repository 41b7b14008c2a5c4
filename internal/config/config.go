package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config represents the complete application configuration
type Config struct {
	Paths      PathsConfig      `yaml:"paths" envconfig:"PATHS"`
	Processing ProcessingConfig `yaml:"processing" envconfig:"PROCESSING"`
	Logging    LoggingConfig    `yaml:"logging" envconfig:"LOGGING"`
}

// PathsConfig contains file system paths configuration
type PathsConfig struct {
	// SearchRoots are the directories walked for production item list folders.
	SearchRoots []string `yaml:"search_roots" envconfig:"SEARCH_ROOTS"`
	OutputDir   string   `yaml:"output_dir" envconfig:"OUTPUT_DIR" default:"output"`
	LogsDir     string   `yaml:"logs_dir" envconfig:"LOGS_DIR" default:"logs"`
}

// ProcessingConfig contains extraction and ingestion knobs
type ProcessingConfig struct {
	Workers     int `yaml:"workers" envconfig:"WORKERS" default:"4"`
	ScanRowCap  int `yaml:"scan_row_cap" envconfig:"SCAN_ROW_CAP" default:"1000"`
	FullRowCap  int `yaml:"full_row_cap" envconfig:"FULL_ROW_CAP" default:"10000"`
	HeaderScan  int `yaml:"header_scan" envconfig:"HEADER_SCAN" default:"50"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" default:"info"`
	Output   string `yaml:"output" envconfig:"OUTPUT" default:"both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" default:"logs/app.log"`
}

// Load loads configuration from environment variables and config file.
// Environment variables take precedence over the file.
func Load() (*Config, error) {
	var cfg Config

	if err := envconfig.Process("ARTPROC", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config from env: %w", err)
	}

	if configFile := findConfigFile(); configFile != "" {
		fileCfg, err := loadFromFile(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
		cfg = merge(*fileCfg, cfg)
	}

	cfg.applyDefaults()

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

// loadFromFile loads configuration from a YAML file
func loadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// merge merges file config with env config (env takes precedence)
func merge(fileCfg, envCfg Config) Config {
	if len(envCfg.Paths.SearchRoots) == 0 {
		envCfg.Paths.SearchRoots = fileCfg.Paths.SearchRoots
	}
	if envCfg.Paths.OutputDir == "" {
		envCfg.Paths.OutputDir = fileCfg.Paths.OutputDir
	}
	if envCfg.Paths.LogsDir == "" {
		envCfg.Paths.LogsDir = fileCfg.Paths.LogsDir
	}
	if envCfg.Processing.Workers == 0 {
		envCfg.Processing.Workers = fileCfg.Processing.Workers
	}
	if envCfg.Processing.ScanRowCap == 0 {
		envCfg.Processing.ScanRowCap = fileCfg.Processing.ScanRowCap
	}
	if envCfg.Processing.FullRowCap == 0 {
		envCfg.Processing.FullRowCap = fileCfg.Processing.FullRowCap
	}
	if envCfg.Processing.HeaderScan == 0 {
		envCfg.Processing.HeaderScan = fileCfg.Processing.HeaderScan
	}
	if envCfg.Logging.Level == "" {
		envCfg.Logging.Level = fileCfg.Logging.Level
	}
	if envCfg.Logging.Output == "" {
		envCfg.Logging.Output = fileCfg.Logging.Output
	}
	if envCfg.Logging.FilePath == "" {
		envCfg.Logging.FilePath = fileCfg.Logging.FilePath
	}
	return envCfg
}

func (c *Config) applyDefaults() {
	if c.Paths.OutputDir == "" {
		c.Paths.OutputDir = DefaultOutputDir
	}
	if c.Paths.LogsDir == "" {
		c.Paths.LogsDir = DefaultLogsDir
	}
	if c.Processing.Workers == 0 {
		c.Processing.Workers = DefaultWorkers
	}
	if c.Processing.ScanRowCap == 0 {
		c.Processing.ScanRowCap = ScanRowCap
	}
	if c.Processing.FullRowCap == 0 {
		c.Processing.FullRowCap = FullRowCap
	}
	if c.Processing.HeaderScan == 0 {
		c.Processing.HeaderScan = HeaderScanRows
	}
	if c.Logging.Level == "" {
		c.Logging.Level = DefaultLogLevel
	}
	if c.Logging.Output == "" {
		c.Logging.Output = "both"
	}
	if c.Logging.FilePath == "" {
		c.Logging.FilePath = filepath.Join(c.Paths.LogsDir, "app.log")
	}
}

// validate validates the configuration
func (c *Config) validate() error {
	if c.Processing.Workers <= 0 {
		return fmt.Errorf("workers must be positive, got %d", c.Processing.Workers)
	}
	if c.Processing.ScanRowCap <= 0 || c.Processing.FullRowCap <= 0 {
		return fmt.Errorf("row caps must be positive")
	}
	if c.Processing.HeaderScan <= 0 {
		return fmt.Errorf("header scan depth must be positive")
	}
	return nil
}

// EnsureDirectories creates the output and log directories if missing
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogsDir} {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// findConfigFile returns the path to the config file, or "" when absent
func findConfigFile() string {
	locations := []string{
		"config.yaml",
		"configs/config.yaml",
	}
	for _, location := range locations {
		if _, err := os.Stat(location); err == nil {
			return location
		}
	}
	return ""
}

// Default returns default configuration
func Default() *Config {
	return &Config{
		Paths: PathsConfig{
			OutputDir: DefaultOutputDir,
			LogsDir:   DefaultLogsDir,
		},
		Processing: ProcessingConfig{
			Workers:    DefaultWorkers,
			ScanRowCap: ScanRowCap,
			FullRowCap: FullRowCap,
			HeaderScan: HeaderScanRows,
		},
		Logging: LoggingConfig{
			Level:    DefaultLogLevel,
			Output:   "both",
			FilePath: "logs/app.log",
		},
	}
}
