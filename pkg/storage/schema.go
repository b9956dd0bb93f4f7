package storage

import "sort"

// EnvironmentInfo describes one environment file on disk.
type EnvironmentInfo struct {
	Name      string `json:"name"`
	Path      string `json:"path"`
	Variables int    `json:"variables"`
}

// EnvironmentValue is one variable in the Postman environment format.
type EnvironmentValue struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	Enabled bool   `json:"enabled"`
}

// PostmanEnvironment is the JSON shape newman accepts with -e.
type PostmanEnvironment struct {
	Name   string             `json:"name"`
	Values []EnvironmentValue `json:"values"`
}

// ToPostmanEnvironment converts a variable map, sorted by key.
func ToPostmanEnvironment(name string, env map[string]string) PostmanEnvironment {
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := PostmanEnvironment{Name: name, Values: make([]EnvironmentValue, 0, len(keys))}
	for _, k := range keys {
		out.Values = append(out.Values, EnvironmentValue{Key: k, Value: env[k], Enabled: true})
	}
	return out
}
