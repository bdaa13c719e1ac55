package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/compozy/deployconf/pkg/config"
	"github.com/compozy/deployconf/pkg/logger"
)

func RootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "deployconf",
		Short:             "Normalize deployment configuration",
		SilenceUsage:      true,
		PersistentPreRunE: setupContext,
	}

	flags := root.PersistentFlags()
	flags.String("settings", "", "Path to an engine settings YAML file")
	flags.String("env-file", ".env", "Path to the environment variables file")
	flags.String("log-level", "info", "Log level (debug, info, warn, error, disabled)")
	flags.Bool("log-json", false, "Output logs in JSON format")
	flags.Bool("log-source", false, "Include source code location in logs")

	root.AddCommand(
		NormalizeCmd(),
		SchemaCmd(),
	)

	return root
}

// setupContext loads the env file and the engine settings, then stores the
// settings and the logger on the command context.
func setupContext(cmd *cobra.Command, _ []string) error {
	if _, err := loadEnvFile(cmd); err != nil {
		return err
	}
	settingsPath, err := cmd.Flags().GetString("settings")
	if err != nil {
		return fmt.Errorf("failed to get settings flag: %w", err)
	}
	flags := make(map[string]any)
	extractCLIFlags(cmd, flags)
	sources := []config.Source{}
	if settingsPath != "" {
		sources = append(sources, config.NewYAMLProvider(settingsPath))
	}
	sources = append(sources, config.NewCLIProvider(flags))

	ctx := cmd.Context()
	settings, err := config.NewLoader().Load(ctx, sources...)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}
	log := logger.SetupLogger(settings.Runtime.LogLevel, settings.Runtime.LogJSON, settings.Runtime.LogSource)
	ctx = logger.ContextWithLogger(ctx, log)
	ctx = config.ContextWithConfig(ctx, settings)
	cmd.SetContext(ctx)
	return nil
}
