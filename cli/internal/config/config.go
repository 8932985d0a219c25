package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	FileName        = "voltage.yaml"
	DefaultPort     = "8080"
	DefaultNodesDir = "nodes"
)

// defaultCredentials apply for every key voltage.yaml leaves out.
var defaultCredentials = map[string]any{
	"api_key":  "${VOLTAGE_API_KEY}",
	"base_url": "${VOLTAGE_BASE_URL:https://voltageapi.com/api/v1}",
	"timeout":  "${VOLTAGE_TIMEOUT:30000}",
}

// ProjectConfig is the voltage.yaml structure.
type ProjectConfig struct {
	Credentials map[string]any `yaml:"credentials"` // api_key, base_url, timeout; values may be ${VAR} references
	Server      ServerConfig   `yaml:"server"`
}

type ServerConfig struct {
	Port     string `yaml:"port"`      // Optional: defaults to "8080"
	NodesDir string `yaml:"nodes_dir"` // Optional: node presets directory, relative to the project
}

// Load reads voltage.yaml from projectDir. A missing file yields a config
// that takes every credential from the environment.
func Load(projectDir string) (*ProjectConfig, error) {
	configPath := filepath.Join(projectDir, FileName)

	var cfg ProjectConfig
	data, err := os.ReadFile(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read %s from %q: %w", FileName, configPath, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
		}
	}

	if err := cfg.ApplyDefaults(projectDir); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ApplyDefaults fills missing credentials and server settings and anchors
// the nodes directory to the project.
func (c *ProjectConfig) ApplyDefaults(projectDir string) error {
	if c.Credentials == nil {
		c.Credentials = make(map[string]any, len(defaultCredentials))
	}
	for key, value := range defaultCredentials {
		if _, ok := c.Credentials[key]; !ok {
			c.Credentials[key] = value
		}
	}

	if c.Server.Port == "" {
		c.Server.Port = DefaultPort
	}
	if c.Server.NodesDir == "" {
		c.Server.NodesDir = DefaultNodesDir
	}
	if !filepath.IsAbs(c.Server.NodesDir) {
		c.Server.NodesDir = filepath.Join(projectDir, c.Server.NodesDir)
	}
	if err := withinProject(projectDir, c.Server.NodesDir); err != nil {
		return fmt.Errorf("invalid nodes_dir: %w", err)
	}
	return nil
}

// ResolveCredentials returns the credentials with environment references substituted.
func (c *ProjectConfig) ResolveCredentials(lookup LookupFunc) (map[string]any, error) {
	return ResolveValues(c.Credentials, lookup)
}

// withinProject rejects paths that escape the project directory.
func withinProject(projectDir, target string) error {
	absRoot, err := filepath.Abs(projectDir)
	if err != nil {
		return fmt.Errorf("failed to resolve project path %q: %w", projectDir, err)
	}
	absTarget, err := filepath.Abs(target)
	if err != nil {
		return fmt.Errorf("failed to resolve path %q: %w", target, err)
	}
	rel, err := filepath.Rel(absRoot, absTarget)
	if err != nil {
		return fmt.Errorf("invalid path relationship between %q and %q: %w", absRoot, absTarget, err)
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%q escapes project directory %q", target, projectDir)
	}
	return nil
}
