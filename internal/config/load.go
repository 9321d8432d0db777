package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// ReadExternal reads an external YAML config file for use as Sources.External.
func ReadExternal(path string) ([]byte, string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("read config: %w", err)
	}
	return data, filepath.Base(path), nil
}
