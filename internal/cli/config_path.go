package cli

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"quizdown/internal/quiz"
)

// defaultConfigNames are looked up next to the quiz when --config is omitted.
var defaultConfigNames = []string{"quizdown.yaml", "quizdown.yml"}

// sourceFlags are the config inputs shared by every command.
type sourceFlags struct {
	configPath *string
	envFile    *string
}

func addSourceFlags(fs *flag.FlagSet) sourceFlags {
	return sourceFlags{
		configPath: fs.String("config", "", "Path to external config YAML (default: quizdown.yaml next to the quiz)"),
		envFile:    fs.String("env-file", "", "Path to a dotenv file of SECTION__KEY overrides"),
	}
}

// options resolves the flags into quiz load options for quizPath.
func (f sourceFlags) options(quizPath string) (quiz.Options, error) {
	configPath, err := resolveConfigPath(*f.configPath, quizPath)
	if err != nil {
		return quiz.Options{}, err
	}
	return quiz.Options{ConfigPath: configPath, EnvFile: strings.TrimSpace(*f.envFile)}, nil
}

// resolveConfigPath normalizes an explicit config path or finds one beside
// the quiz. No config at all is not an error.
func resolveConfigPath(configPath, quizPath string) (string, error) {
	if strings.TrimSpace(configPath) != "" {
		abs, err := filepath.Abs(configPath)
		if err != nil {
			return "", fmt.Errorf("resolve config path: %w", err)
		}
		return abs, nil
	}
	dir := filepath.Dir(quizPath)
	for _, name := range defaultConfigNames {
		candidate := filepath.Join(dir, name)
		info, err := os.Stat(candidate)
		if err == nil && !info.IsDir() {
			return candidate, nil
		}
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("stat %s: %w", candidate, err)
		}
	}
	return "", nil
}

// quizArg splits the single positional quiz path from args so flags may come
// before or after it.
func quizArg(fs *flag.FlagSet, args []string) (string, error) {
	var positional []string
	for {
		if err := fs.Parse(args); err != nil {
			return "", err
		}
		if fs.NArg() == 0 {
			break
		}
		positional = append(positional, fs.Arg(0))
		args = fs.Args()[1:]
	}
	switch len(positional) {
	case 0:
		return "", errors.New("missing quiz path")
	case 1:
		return positional[0], nil
	default:
		return "", fmt.Errorf("unexpected arguments: %s", strings.Join(positional[1:], " "))
	}
}
