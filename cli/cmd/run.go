package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sflowg/voltage/runtime"
)

type runOptions struct {
	preset         string
	params         []string
	itemsFile      string
	continueOnFail bool
}

func newRunCmd(root *rootOptions) *cobra.Command {
	opts := &runOptions{}

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one batch of items through the Voltage node",
		Long: `Run executes the voltage node once and prints the output records as JSON.

Parameters come from an optional node preset and --param overrides. Values
starting with "=" are expressions evaluated per item, e.g. "={{ json.walletId }}".`,
		Example: `  voltage run --param resource=wallet --param operation=getAll --param organizationId=org_123
  voltage run --preset nodes/invoices.yaml --items items.json
  cat items.json | voltage run --preset nodes/invoices.yaml --items -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runBatch(cmd, root, opts)
		},
	}

	cmd.Flags().StringVar(&opts.preset, "preset", "", "Node preset YAML file")
	cmd.Flags().StringArrayVar(&opts.params, "param", nil, "Parameter override as name=value (repeatable)")
	cmd.Flags().StringVar(&opts.itemsFile, "items", "", `JSON file with the input items, "-" for stdin`)
	cmd.Flags().BoolVar(&opts.continueOnFail, "continue-on-fail", false, "Turn failed items into error records instead of aborting")

	return cmd
}

func runBatch(cmd *cobra.Command, root *rootOptions, opts *runOptions) error {
	container, _, err := newContainer(root.projectDir, root.newClient)
	if err != nil {
		return err
	}
	defer container.Shutdown()

	parameters := map[string]any{}
	continueOnFail := opts.continueOnFail
	nodeID := ""

	if opts.preset != "" {
		node, err := runtime.ReadNodeConfig(opts.preset)
		if err != nil {
			return err
		}
		maps.Copy(parameters, node.Parameters)
		if !cmd.Flags().Changed("continue-on-fail") {
			continueOnFail = node.ContinueOnFail
		}
		nodeID = node.ID
	}

	overrides, err := parseParams(opts.params)
	if err != nil {
		return err
	}
	maps.Copy(parameters, overrides)

	items, err := readItems(cmd.InOrStdin(), opts.itemsFile)
	if err != nil {
		return err
	}

	exec := runtime.NewExecution(cmd.Context(), container)
	exec.Node = nodeID

	result, runErr := container.GetTask(runtime.DefaultNodeTask).Execute(exec, map[string]any{
		"parameters":       parameters,
		"items":            items,
		"continue_on_fail": continueOnFail,
	})

	if result != nil {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(result); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return runErr
}

// parseParams turns name=value pairs into parameters. Values are read as YAML
// scalars so numbers and booleans keep their type; expressions stay strings.
func parseParams(pairs []string) (map[string]any, error) {
	params := make(map[string]any, len(pairs))
	for _, pair := range pairs {
		name, raw, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid --param %q: expected name=value", pair)
		}

		if runtime.IsExpression(raw) || raw == "" {
			params[name] = raw
			continue
		}

		var value any
		if err := yaml.Unmarshal([]byte(raw), &value); err != nil || value == nil {
			value = raw
		}
		params[name] = value
	}
	return params, nil
}

// readItems reads a JSON array of items, or a single object as one item.
func readItems(stdin io.Reader, path string) ([]any, error) {
	var data []byte
	var err error
	switch path {
	case "":
		return []any{}, nil
	case "-":
		data, err = io.ReadAll(stdin)
	default:
		data, err = os.ReadFile(filepath.Clean(path))
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read items: %w", err)
	}

	var decoded any
	if err := json.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("failed to parse items: %w", err)
	}

	switch v := decoded.(type) {
	case []any:
		for i, item := range v {
			if _, ok := item.(map[string]any); !ok {
				return nil, fmt.Errorf("item %d is not a JSON object", i)
			}
		}
		return v, nil
	case map[string]any:
		return []any{v}, nil
	default:
		return nil, fmt.Errorf("items must be a JSON object or an array of objects")
	}
}
