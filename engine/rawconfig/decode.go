package rawconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"gopkg.in/yaml.v3"
)

var errNotMapping = errors.New("top-level value must be a mapping")

func decodeYAML(data []byte) (map[string]any, map[string][]string, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, nil, err
	}
	order := make(map[string][]string)
	if root.Kind == 0 || len(root.Content) == 0 {
		return map[string]any{}, order, nil
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, nil, errNotMapping
	}
	var raw map[string]any
	if err := root.Decode(&raw); err != nil {
		return nil, nil, err
	}
	recordYAMLOrder(&root, "", order)
	normalized, ok := normalizeValue(raw).(map[string]any)
	if !ok {
		return nil, nil, errNotMapping
	}
	return normalized, order, nil
}

func recordYAMLOrder(node *yaml.Node, pointer string, order map[string][]string) {
	switch node.Kind {
	case yaml.DocumentNode:
		for _, child := range node.Content {
			recordYAMLOrder(child, pointer, order)
		}
	case yaml.AliasNode:
		if node.Alias != nil {
			recordYAMLOrder(node.Alias, pointer, order)
		}
	case yaml.MappingNode:
		keys := make([]string, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key := node.Content[i].Value
			if key == "<<" {
				continue
			}
			keys = append(keys, key)
			recordYAMLOrder(node.Content[i+1], pointer+"/"+escapePointer(key), order)
		}
		order[pointer] = keys
	case yaml.SequenceNode:
		for i, child := range node.Content {
			recordYAMLOrder(child, pointer+"/"+strconv.Itoa(i), order)
		}
	}
}

// normalizeValue turns map[any]any produced for non-string YAML keys into
// map[string]any so every mapping has the same shape.
func normalizeValue(v any) any {
	switch value := v.(type) {
	case map[string]any:
		for k, item := range value {
			value[k] = normalizeValue(item)
		}
		return value
	case map[any]any:
		out := make(map[string]any, len(value))
		for k, item := range value {
			out[fmt.Sprint(k)] = normalizeValue(item)
		}
		return out
	case []any:
		for i, item := range value {
			value[i] = normalizeValue(item)
		}
		return value
	case int64:
		return int(value)
	case uint64:
		return int(value)
	default:
		return value
	}
}

func decodeJSON(data []byte) (map[string]any, map[string][]string, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	order := make(map[string][]string)
	value, err := decodeJSONValue(dec, "", order)
	if err != nil {
		return nil, nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("unexpected data after top-level value")
	}
	m, ok := value.(map[string]any)
	if !ok {
		return nil, nil, errNotMapping
	}
	return m, order, nil
}

func decodeJSONValue(dec *json.Decoder, pointer string, order map[string][]string) (any, error) {
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			return decodeJSONObject(dec, pointer, order)
		case '[':
			list := []any{}
			for i := 0; dec.More(); i++ {
				item, err := decodeJSONValue(dec, pointer+"/"+strconv.Itoa(i), order)
				if err != nil {
					return nil, err
				}
				list = append(list, item)
			}
			if _, err := dec.Token(); err != nil {
				return nil, err
			}
			return list, nil
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", t)
		}
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i), nil
		}
		return t.Float64()
	default:
		return t, nil
	}
}

func decodeJSONObject(dec *json.Decoder, pointer string, order map[string][]string) (any, error) {
	m := make(map[string]any)
	keys := make([]string, 0)
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
		}
		value, err := decodeJSONValue(dec, pointer+"/"+escapePointer(key), order)
		if err != nil {
			return nil, err
		}
		if _, dup := m[key]; !dup {
			keys = append(keys, key)
		}
		m[key] = value
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	order[pointer] = keys
	return m, nil
}
