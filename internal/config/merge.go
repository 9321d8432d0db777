package config

import (
	_ "embed"
	"time"

	"quizdown/internal/diag"
	"quizdown/internal/spec"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// DefaultsYAML returns the built-in default configuration document.
func DefaultsYAML() []byte {
	out := make([]byte, len(defaultsYAML))
	copy(out, defaultsYAML)
	return out
}

// Sources lists every configuration input. Nil or empty inputs are skipped.
type Sources struct {
	Defaults     []byte // nil selects the embedded defaults
	EnvOverrides map[string]any
	External     []byte
	ExternalName string
	Header       []byte
	HasHeader    bool
	Overrides    map[string]any
	Now          func() time.Time
}

type layer struct {
	name string
	tree map[string]any
}

// Merge folds the sources into one effective config. Precedence, highest
// first: Overrides, Header, External, EnvOverrides, Defaults. Mappings merge
// deeply; scalars and lists are replaced. A malformed source is reported as a
// warning and skipped.
func Merge(src Sources, sink diag.Sink) spec.Config {
	defaultsData := src.Defaults
	if defaultsData == nil {
		defaultsData = defaultsYAML
	}
	defaults := parseLayer("defaults", defaultsData, sink)

	layers := []layer{{name: "defaults", tree: defaults}}
	if len(src.EnvOverrides) > 0 {
		layers = append(layers, layer{name: "env", tree: Normalize(spec.NormalizeTree(src.EnvOverrides).(map[string]any), "env", sink)})
	}
	if src.External != nil {
		name := src.ExternalName
		if name == "" {
			name = "external config"
		}
		if tree := parseLayer(name, src.External, sink); tree != nil {
			layers = append(layers, layer{name: name, tree: tree})
		}
	}
	if src.HasHeader {
		if tree := parseLayer("frontmatter", src.Header, sink); tree != nil {
			layers = append(layers, layer{name: "frontmatter", tree: tree})
		}
	}
	if len(src.Overrides) > 0 {
		layers = append(layers, layer{name: "overrides", tree: Normalize(spec.NormalizeTree(src.Overrides).(map[string]any), "overrides", sink)})
	}

	merged := map[string]any{}
	for _, l := range layers {
		merged = DeepMerge(merged, l.tree)
	}
	resolveDate(merged, src.Now)

	cfg, err := spec.Decode(merged)
	if err != nil {
		diag.Warnf(sink, diag.Location{Source: "config"}, "%v; falling back to defaults", err)
		cfg, _ = spec.Decode(cloneTree(defaults))
		return cfg
	}
	return revertInvalid(cfg, defaults, sink)
}

func parseLayer(name string, data []byte, sink diag.Sink) map[string]any {
	tree, err := spec.ParseMapping(data)
	if err != nil {
		diag.Warnf(sink, diag.Location{Source: name}, "malformed configuration skipped: %v", err)
		return nil
	}
	return Normalize(tree, name, sink)
}

// DeepMerge returns base overlaid with override. Neither input is modified.
func DeepMerge(base, override map[string]any) map[string]any {
	out := cloneTree(base)
	for key, value := range override {
		baseMap, baseIsMap := out[key].(map[string]any)
		overMap, overIsMap := value.(map[string]any)
		if baseIsMap && overIsMap {
			out[key] = DeepMerge(baseMap, overMap)
			continue
		}
		out[key] = cloneValue(value)
	}
	return out
}

func cloneTree(tree map[string]any) map[string]any {
	out := make(map[string]any, len(tree))
	for key, value := range tree {
		out[key] = cloneValue(value)
	}
	return out
}

func cloneValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		return cloneTree(typed)
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return value
	}
}
