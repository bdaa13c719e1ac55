package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/compozy/deployconf/engine/core"
	"github.com/compozy/deployconf/engine/normalize"
	"github.com/compozy/deployconf/pkg/config"
	"github.com/compozy/deployconf/pkg/logger"
)

const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// NormalizeCmd prints the normalized form of a project configuration.
func NormalizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "normalize <config>",
		Short: "Print the normalized configuration of a project",
		Long: `Read a project configuration file, validate it, fold in any build output
found next to it and print the resulting normalized configuration.
The command fails when the result carries errors.`,
		Args: cobra.ExactArgs(1),
		RunE: runNormalize,
	}

	cmd.Flags().Bool("no-version", false, "Accept configuration files without a version field")
	cmd.Flags().StringP("format", "f", FormatJSON, "Output format (json, yaml)")
	cmd.Flags().Int("default-memory", 0, "Memory in MB for functions that do not set one")
	cmd.Flags().String("default-runtime", "", "Runtime for functions that do not set one")
	cmd.Flags().String("output-dir", "", "Build output directory relative to the project folder")
	cmd.Flags().Int("discovery-workers", 0, "Maximum concurrent directory listings")

	return cmd
}

func runNormalize(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	log := logger.FromContext(ctx)
	noVersion, err := cmd.Flags().GetBool("no-version")
	if err != nil {
		return fmt.Errorf("failed to get no-version flag: %w", err)
	}
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	configPath, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve config path: %w", err)
	}

	opts := []normalize.Option{normalize.WithSettings(config.FromContext(ctx))}
	if noVersion {
		opts = append(opts, normalize.WithoutVersion())
	}
	log.Debug("Normalizing configuration", "path", configPath)
	result, err := normalize.Parse(ctx, configPath, opts...)
	if err != nil {
		return err
	}
	if err := writeConfig(cmd.OutOrStdout(), result, format); err != nil {
		return err
	}
	if len(result.Errors) > 0 {
		return fmt.Errorf("configuration has %d error(s)", len(result.Errors))
	}
	return nil
}

func writeConfig(w io.Writer, cfg *core.NormalizedConfig, format string) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(cfg); err != nil {
			return fmt.Errorf("failed to encode configuration: %w", err)
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
	return nil
}
