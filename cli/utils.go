package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// settingsFlags are the flags that override engine settings.
var settingsFlags = map[string]bool{
	"log-level":         true,
	"log-json":          true,
	"log-source":        true,
	"default-memory":    true,
	"default-runtime":   true,
	"output-dir":        true,
	"discovery-workers": true,
}

// extractCLIFlags extracts command line flags from a cobra command into a map.
// It processes only flags that have been explicitly changed by the user.
func extractCLIFlags(cmd *cobra.Command, flags map[string]any) {
	cmd.Flags().Visit(func(f *pflag.Flag) {
		if !settingsFlags[f.Name] {
			return
		}
		var (
			value any
			err   error
		)
		switch f.Value.Type() {
		case "int":
			value, err = cmd.Flags().GetInt(f.Name)
		case "bool":
			value, err = cmd.Flags().GetBool(f.Name)
		default:
			value = f.Value.String()
		}
		if err == nil {
			flags[f.Name] = value
		}
	})
}

// loadEnvFile loads environment variables from a file inside the working
// directory. A missing file is not an error.
func loadEnvFile(cmd *cobra.Command) (string, error) {
	envFile, err := cmd.Flags().GetString("env-file")
	if err != nil {
		return "", fmt.Errorf("failed to get env-file flag: %w", err)
	}
	if envFile == "" {
		return "", nil
	}
	pwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	if !filepath.IsAbs(envFile) {
		envFile = filepath.Join(pwd, envFile)
	}
	absPath, err := filepath.Abs(filepath.Clean(envFile))
	if err != nil {
		return "", fmt.Errorf("failed to resolve env file path: %w", err)
	}
	if !isPathWithinDirectory(absPath, pwd) {
		return "", fmt.Errorf("env file path '%s' is outside the working directory", envFile)
	}
	fileInfo, err := os.Stat(absPath)
	if err != nil {
		if os.IsNotExist(err) {
			return absPath, nil
		}
		return "", fmt.Errorf("failed to stat env file: %w", err)
	}
	if !fileInfo.Mode().IsRegular() {
		return "", fmt.Errorf("env file path '%s' is not a regular file", envFile)
	}
	if err := godotenv.Load(absPath); err != nil {
		return "", fmt.Errorf("failed to load env file %s: %w", absPath, err)
	}
	return absPath, nil
}

// isPathWithinDirectory checks if a given path is within the specified directory
func isPathWithinDirectory(path, dir string) bool {
	absPath, err := filepath.Abs(filepath.Clean(path))
	if err != nil {
		return false
	}
	absDir, err := filepath.Abs(filepath.Clean(dir))
	if err != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))
}
