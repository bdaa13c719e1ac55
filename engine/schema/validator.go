package schema

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const v4SchemaFile = "schemas/v4.json"

//go:embed schemas/*.json
var schemaFS embed.FS

type compiledSchema struct {
	once   sync.Once
	schema *jsonschema.Schema
	err    error
}

var v4Compiled compiledSchema

// SupportedVersions lists the config versions with a registered schema.
func SupportedVersions() []int {
	return []int{4}
}

// Load returns the raw schema registered for version.
func Load(version int) (Schema, error) {
	var file string
	switch version {
	case 4:
		file = v4SchemaFile
	default:
		return nil, NewUnsupportedVersionError(version)
	}
	data, err := schemaFS.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", file, err)
	}
	var s Schema
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode schema %s: %w", file, err)
	}
	return s, nil
}

func compiled(version int) (*jsonschema.Schema, error) {
	var entry *compiledSchema
	switch version {
	case 4:
		entry = &v4Compiled
	default:
		return nil, NewUnsupportedVersionError(version)
	}
	entry.once.Do(func() {
		s, err := Load(version)
		if err != nil {
			entry.err = err
			return
		}
		entry.schema, entry.err = s.Compile(fmt.Sprintf("deployconf/v%d.json", version))
	})
	return entry.schema, entry.err
}

// Validate checks doc against the schema registered for version. Every
// violation is reported in a single *ValidationError.
func Validate(doc map[string]any, version int) error {
	validator, err := compiled(version)
	if err != nil {
		return err
	}
	payload, err := normalizeValue(doc)
	if err != nil {
		return err
	}
	err = validator.Validate(payload)
	if err == nil {
		return nil
	}
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	violations := collectViolations(verr, nil)
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Path != violations[j].Path {
			return violations[i].Path < violations[j].Path
		}
		return violations[i].Message < violations[j].Message
	})
	return &ValidationError{Version: version, Violations: slices.Compact(violations)}
}

func collectViolations(err *jsonschema.ValidationError, out []Violation) []Violation {
	if len(err.Causes) == 0 {
		return append(out, Violation{Path: instancePointer(err.InstanceLocation), Message: err.Message})
	}
	for _, cause := range err.Causes {
		out = collectViolations(cause, out)
	}
	return out
}

// instancePointer turns a percent-encoded instance location into a plain JSON
// pointer. The document root is "/".
func instancePointer(location string) string {
	if location == "" {
		return "/"
	}
	segments := strings.Split(location, "/")
	for i, segment := range segments {
		if decoded, err := url.PathUnescape(segment); err == nil {
			segments[i] = decoded
		}
	}
	return strings.Join(segments, "/")
}
