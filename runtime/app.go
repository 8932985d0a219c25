package runtime

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultNodeTask is the task a node preset runs when it does not name one.
const DefaultNodeTask = "voltage.execute"

// NodeConfig is a named node preset: the task to run, its parameters and
// the continue-on-failure flag. Request bodies may override parameters.
type NodeConfig struct {
	ID             string         `yaml:"id"`
	Task           string         `yaml:"task"`
	Parameters     map[string]any `yaml:"parameters"`
	ContinueOnFail bool           `yaml:"continue_on_fail"`
}

type App struct {
	Container *Container
	Nodes     map[string]NodeConfig
}

// NewApp loads every *.yaml node preset in nodesDir. A missing directory yields an app without presets.
func NewApp(nodesDir string, container *Container) (*App, error) {
	if container == nil {
		container = NewContainer()
	}

	app := App{
		Container: container,
		Nodes:     make(map[string]NodeConfig),
	}

	files, err := filepath.Glob(filepath.Join(nodesDir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("error reading directory: %w", err)
	}

	for _, file := range files {
		node, err := ReadNodeConfig(file)
		if err != nil {
			return nil, err
		}
		if err := app.RegisterNode(node); err != nil {
			return nil, fmt.Errorf("%s: %w", file, err)
		}
	}

	return &app, nil
}

func (a *App) RegisterNode(node NodeConfig) error {
	if node.ID == "" {
		return fmt.Errorf("node preset has no id")
	}
	if _, exists := a.Nodes[node.ID]; exists {
		return fmt.Errorf("duplicate node preset %q", node.ID)
	}
	if node.Task == "" {
		node.Task = DefaultNodeTask
	}
	a.Nodes[node.ID] = node
	return nil
}

func ReadNodeConfig(file string) (NodeConfig, error) {
	yamlFile, err := os.ReadFile(file)
	if err != nil {
		return NodeConfig{}, fmt.Errorf("error reading YAML file: %w", err)
	}

	var node NodeConfig
	if err := yaml.Unmarshal(yamlFile, &node); err != nil {
		return NodeConfig{}, fmt.Errorf("error unmarshalling YAML: %w", err)
	}

	return node, nil
}
