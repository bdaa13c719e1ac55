package cli

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"

	"github.com/compozy/deployconf/engine/core"
	"github.com/compozy/deployconf/engine/schema"
)

const draft07 = "http://json-schema.org/draft-07/schema#"

// SchemaCmd prints the JSON schema of the normalized configuration, or of
// the project configuration with --input.
func SchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the normalized configuration",
		Args:  cobra.NoArgs,
		RunE:  runSchema,
	}
	cmd.Flags().Bool("input", false, "Print the project configuration schema instead")
	cmd.Flags().Int("config-version", 4, "Project configuration version used with --input")
	return cmd
}

func runSchema(cmd *cobra.Command, _ []string) error {
	input, err := cmd.Flags().GetBool("input")
	if err != nil {
		return fmt.Errorf("failed to get input flag: %w", err)
	}
	var out any
	if input {
		version, err := cmd.Flags().GetInt("config-version")
		if err != nil {
			return fmt.Errorf("failed to get config-version flag: %w", err)
		}
		s, err := schema.Load(version)
		if err != nil {
			return err
		}
		out = s
	} else {
		out = NormalizedSchema()
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal schema: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

// NormalizedSchema reflects the JSON schema of core.NormalizedConfig.
func NormalizedSchema() *jsonschema.Schema {
	reflector := &jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            false,
		Mapper:                    enumMapper,
	}
	s := reflector.Reflect(&core.NormalizedConfig{})
	s.Version = draft07
	return s
}

// enumMapper renders the closed enumerations of the data model as string enums.
func enumMapper(t reflect.Type) *jsonschema.Schema {
	var values []string
	switch t {
	case reflect.TypeOf(core.Region("")):
		for _, r := range core.AllRegions() {
			values = append(values, r.String())
		}
	case reflect.TypeOf(core.Runtime("")):
		for _, r := range core.AllRuntimes() {
			values = append(values, r.String())
		}
	case reflect.TypeOf(core.Handler("")):
		values = []string{
			string(core.HandlerFunction),
			string(core.HandlerFunctionStreaming),
			string(core.HandlerRedirect),
			string(core.HandlerProxy),
			string(core.HandlerAsset),
		}
	case reflect.TypeOf(core.ServiceType("")):
		values = []string{string(core.ServiceRedis), string(core.ServicePostgres)}
	default:
		return nil
	}
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return &jsonschema.Schema{Type: "string", Enum: enum}
}
