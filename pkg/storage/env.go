package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// varPattern matches {{VAR_NAME}} or {{env:VAR_NAME}}
var varPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

// LoadEnvironment loads environment variables from a YAML file
func LoadEnvironment(filePath string) (map[string]string, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read environment file: %w", err)
	}

	var env map[string]string
	if err := yaml.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("failed to parse environment YAML: %w", err)
	}
	if env == nil {
		env = map[string]string{}
	}

	// Resolve any {{env:VAR}} references to actual environment variables
	for key, value := range env {
		env[key] = resolveEnvRefs(value)
	}

	return env, nil
}

// SaveEnvironment saves environment variables to a YAML file
func SaveEnvironment(env map[string]string, filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	if !isYAML(filePath) {
		filePath = filePath + ".yaml"
	}

	data, err := yaml.Marshal(env)
	if err != nil {
		return fmt.Errorf("failed to marshal environment: %w", err)
	}

	return os.WriteFile(filePath, data, 0644)
}

// EnvironmentsDir returns the directory holding environment files.
func EnvironmentsDir(baseDir string) string {
	return filepath.Join(baseDir, "environments")
}

// ListEnvironments lists all environment files, sorted by name. Files that
// fail to parse are listed with zero variables.
func ListEnvironments(baseDir string) ([]EnvironmentInfo, error) {
	envDir := EnvironmentsDir(baseDir)

	if _, err := os.Stat(envDir); os.IsNotExist(err) {
		return []EnvironmentInfo{}, nil
	}

	entries, err := os.ReadDir(envDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read environments directory: %w", err)
	}

	envs := []EnvironmentInfo{}
	for _, entry := range entries {
		if entry.IsDir() || !isYAML(entry.Name()) {
			continue
		}
		path := filepath.Join(envDir, entry.Name())
		info := EnvironmentInfo{Name: trimYAML(entry.Name()), Path: path}
		if env, err := LoadEnvironment(path); err == nil {
			info.Variables = len(env)
		}
		envs = append(envs, info)
	}

	sort.Slice(envs, func(i, j int) bool { return envs[i].Name < envs[j].Name })
	return envs, nil
}

// LoadNamedEnvironment loads <baseDir>/environments/<name>.yaml (or .yml).
func LoadNamedEnvironment(baseDir, name string) (map[string]string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return nil, fmt.Errorf("invalid environment name %q", name)
	}
	for _, ext := range []string{".yaml", ".yml"} {
		path := filepath.Join(EnvironmentsDir(baseDir), name+ext)
		if _, err := os.Stat(path); err == nil {
			return LoadEnvironment(path)
		}
	}
	return nil, fmt.Errorf("environment %q not found", name)
}

func isYAML(name string) bool {
	return strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml")
}

func trimYAML(name string) string {
	return strings.TrimSuffix(strings.TrimSuffix(name, ".yaml"), ".yml")
}

// SubstituteVariables replaces {{VAR}} placeholders with values from the environment
func SubstituteVariables(text string, env map[string]string) string {
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		// Extract variable name (remove {{ and }})
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}}"), "{{")
		varName = strings.TrimSpace(varName)

		// Check for env: prefix (reference to system environment)
		if strings.HasPrefix(varName, "env:") {
			sysVar := strings.TrimPrefix(varName, "env:")
			if val := os.Getenv(sysVar); val != "" {
				return val
			}
			return match // Keep original if not found
		}

		// Look up in provided environment
		if val, ok := env[varName]; ok {
			return val
		}

		return match // Keep original if not found
	})
}

// resolveEnvRefs resolves {{env:VAR}} references in a string
func resolveEnvRefs(text string) string {
	return varPattern.ReplaceAllStringFunc(text, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}}"), "{{")
		varName = strings.TrimSpace(varName)

		if strings.HasPrefix(varName, "env:") {
			sysVar := strings.TrimPrefix(varName, "env:")
			if val := os.Getenv(sysVar); val != "" {
				return val
			}
		}
		return match
	})
}
