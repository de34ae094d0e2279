// Config file loading for gauntlet.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	// Config keys.
	KeyPackages       = "packages"
	KeyIntegrationDir = "integration_dir"
	KeyCoverageFile   = "coverage_file"
	KeyJobs           = "jobs"
	KeyLintVersion    = "lint.version"
	keyLintSHA256     = "lint.sha256"

	// Defaults.
	DefaultPackages       = "./..."
	DefaultIntegrationDir = "tests"
	DefaultLintVersion    = "2.1.6"
)

// configFile holds the structure written to config.yaml.
type configFile struct {
	Packages       string     `yaml:"packages"`
	IntegrationDir string     `yaml:"integration_dir"`
	CoverageFile   string     `yaml:"coverage_file,omitempty"`
	Jobs           int        `yaml:"jobs"`
	Lint           lintConfig `yaml:"lint"`
}

// lintConfig pins the golangci-lint release used by fetch-tools. The
// sha256 map keys are <os>_<arch> of the release archive.
type lintConfig struct {
	Version string            `yaml:"version"`
	SHA256  map[string]string `yaml:"sha256,omitempty"`
}

// Load reads config.yaml from the config directory using Viper. It
// creates the config directory and a default config.yaml on first run.
// A missing config.yaml is not an error.
func Load(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(KeyPackages, DefaultPackages)
	v.SetDefault(KeyIntegrationDir, DefaultIntegrationDir)
	v.SetDefault(KeyJobs, 0)
	v.SetDefault(KeyLintVersion, DefaultLintVersion)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

// LintSHA256 returns the pinned archive hash for the given platform key
// (for example "linux_amd64"), or empty when no pin is configured.
func LintSHA256(v *viper.Viper, platform string) string {
	return v.GetString(keyLintSHA256 + "." + platform)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		// File already exists.
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	cfg := configFile{
		Packages:       DefaultPackages,
		IntegrationDir: DefaultIntegrationDir,
		Lint:           lintConfig{Version: DefaultLintVersion},
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	return os.WriteFile(path, data, 0o644)
}
