package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/sflowg/voltage/cli/internal/config"
	"github.com/sflowg/voltage/plugins/voltage"
	"github.com/sflowg/voltage/runtime"
)

// newContainer loads the project config, prepares the Voltage credentials and
// returns an initialized container with the voltage plugin registered.
func newContainer(projectDir string, newClient voltage.ClientFactory) (*runtime.Container, *config.ProjectConfig, error) {
	cfg, err := config.Load(projectDir)
	if err != nil {
		return nil, nil, err
	}

	creds, err := cfg.ResolveCredentials(os.LookupEnv)
	if err != nil {
		return nil, nil, err
	}

	plugin := &voltage.VoltagePlugin{NewClient: newClient}
	if err := runtime.InitializeConfig(&plugin.Config, creds); err != nil {
		return nil, nil, fmt.Errorf("invalid %s credentials: %w", voltage.CredentialName, err)
	}

	container := runtime.NewContainer()
	if err := container.RegisterPlugin("voltage", plugin); err != nil {
		return nil, nil, err
	}
	if err := container.Initialize(); err != nil {
		return nil, nil, err
	}

	slog.Debug("Voltage plugin ready",
		"base_url", plugin.Config.BaseURL,
		"timeout_ms", plugin.Config.Timeout,
		"tasks", container.TaskNames())

	return container, cfg, nil
}
