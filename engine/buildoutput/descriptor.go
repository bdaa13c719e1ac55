package buildoutput

import (
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/kaptinlin/jsonschema"
	"github.com/spf13/afero"
)

const descriptorFile = ".vc-config.json"

var ErrInvalidDescriptor = errors.New("invalid function descriptor")

// Descriptor is the per-function .vc-config.json file.
type Descriptor struct {
	Runtime     string            `json:"runtime"`
	Handler     string            `json:"handler"`
	Memory      *int              `json:"memory,omitempty"`
	MaxDuration *int              `json:"maxDuration,omitempty"`
	Regions     []string          `json:"regions,omitempty"`
	Environment Environment       `json:"environment,omitempty"`
	FilePathMap map[string]string `json:"filePathMap,omitempty"`
}

// Environment is either a single mapping or a list of mappings.
type Environment []map[string]string

func (e *Environment) UnmarshalJSON(data []byte) error {
	var single map[string]string
	if err := json.Unmarshal(data, &single); err == nil {
		*e = Environment{single}
		return nil
	}
	var groups []map[string]string
	if err := json.Unmarshal(data, &groups); err != nil {
		return fmt.Errorf("environment must be a mapping or a list of mappings: %w", err)
	}
	*e = groups
	return nil
}

// Flatten merges the groups in order; later groups win on collision.
func (e Environment) Flatten() map[string]string {
	if len(e) == 0 {
		return nil
	}
	out := make(map[string]string)
	for _, group := range e {
		for k, v := range group {
			out[k] = v
		}
	}
	return out
}

var descriptorSchema = []byte(`{
  "type": "object",
  "required": ["runtime", "handler"],
  "properties": {
    "runtime": {"type": "string", "minLength": 1},
    "handler": {"type": "string", "minLength": 1},
    "memory": {"type": "integer", "minimum": 1},
    "maxDuration": {"type": "integer", "minimum": 1},
    "regions": {"type": "array", "items": {"type": "string"}},
    "environment": {
      "oneOf": [
        {"type": "object", "additionalProperties": {"type": "string"}},
        {"type": "array", "items": {"type": "object", "additionalProperties": {"type": "string"}}}
      ]
    },
    "filePathMap": {"type": "object", "additionalProperties": {"type": "string"}}
  }
}`)

var (
	descriptorSchemaOnce     sync.Once
	compiledDescriptorSchema *jsonschema.Schema
	descriptorSchemaErr      error
)

func descriptorValidator() (*jsonschema.Schema, error) {
	descriptorSchemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiledDescriptorSchema, descriptorSchemaErr = compiler.Compile(descriptorSchema)
	})
	return compiledDescriptorSchema, descriptorSchemaErr
}

// ReadDescriptor reads and checks the descriptor at path.
func ReadDescriptor(fsys afero.Fs, path string) (*Descriptor, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, path, err)
	}
	schema, err := descriptorValidator()
	if err != nil {
		return nil, fmt.Errorf("failed to compile descriptor schema: %w", err)
	}
	if result := schema.Validate(raw); !result.Valid {
		messages := make([]string, 0, len(result.Errors))
		for _, verr := range result.Errors {
			messages = append(messages, verr.Error())
		}
		slices.Sort(messages)
		return nil, fmt.Errorf("%w: %s: %s", ErrInvalidDescriptor, path, strings.Join(messages, "; "))
	}
	var desc Descriptor
	if err := json.Unmarshal(data, &desc); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrInvalidDescriptor, path, err)
	}
	return &desc, nil
}
