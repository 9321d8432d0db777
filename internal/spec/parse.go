package spec

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// ParseMapping decodes a single YAML document into a string-keyed tree.
// Empty input yields an empty mapping.
func ParseMapping(data []byte) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}
	var raw any
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&raw); err != nil {
		if errors.Is(err, io.EOF) {
			return map[string]any{}, nil
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return nil, fmt.Errorf("parse yaml: multiple documents are not supported")
		}
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if raw == nil {
		return map[string]any{}, nil
	}
	tree, ok := NormalizeTree(raw).(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parse yaml: top level must be a mapping, got %T", raw)
	}
	return tree, nil
}

// NormalizeTree converts any map[any]any nodes into map[string]any so the
// tree can be merged and walked uniformly.
func NormalizeTree(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = NormalizeTree(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = NormalizeTree(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = NormalizeTree(item)
		}
		return out
	default:
		return value
	}
}

// Decode builds the typed view of a merged tree. The tree is kept as Raw.
func Decode(tree map[string]any) (Config, error) {
	data, err := yaml.Marshal(tree)
	if err != nil {
		return Config{}, fmt.Errorf("encode config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	cfg.Raw = tree
	return cfg, nil
}
