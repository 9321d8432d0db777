package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/joho/godotenv"
)

const envSeparator = "__"

// ReadEnvFile loads SECTION__KEY=value overrides from a dotenv file.
func ReadEnvFile(path string) (map[string]any, error) {
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, fmt.Errorf("read env file: %w", err)
	}
	return envTree(values), nil
}

// ParseEnv loads SECTION__KEY=value overrides from a reader.
func ParseEnv(r io.Reader) (map[string]any, error) {
	values, err := godotenv.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return envTree(values), nil
}

// envTree nests QUIZ__TITLE=x into {"quiz": {"title": "x"}}. Keys without a
// separator stay top-level so shorthand normalization can place them.
func envTree(values map[string]string) map[string]any {
	tree := map[string]any{}
	for key, value := range values {
		parts := strings.Split(strings.ToLower(strings.TrimSpace(key)), envSeparator)
		if len(parts) == 0 || parts[0] == "" {
			continue
		}
		setPath(tree, parts, value)
	}
	return tree
}
