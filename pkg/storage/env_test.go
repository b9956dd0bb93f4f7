package storage

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSubstituteVariables(t *testing.T) {
	t.Setenv("COLSYNC_TEST_TOKEN", "secret")

	env := map[string]string{"BASE_URL": "https://api.example.com", "ID": "42"}
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single", "{{BASE_URL}}/users", "https://api.example.com/users"},
		{"multiple", "{{BASE_URL}}/users/{{ID}}", "https://api.example.com/users/42"},
		{"spaces", "{{ ID }}", "42"},
		{"unknown kept", "{{MISSING}}", "{{MISSING}}"},
		{"system env", "Bearer {{env:COLSYNC_TEST_TOKEN}}", "Bearer secret"},
		{"unset system env kept", "{{env:COLSYNC_UNSET_VAR}}", "{{env:COLSYNC_UNSET_VAR}}"},
		{"no placeholders", "plain", "plain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SubstituteVariables(tt.in, env); got != tt.want {
				t.Errorf("SubstituteVariables(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSaveAndLoadEnvironment(t *testing.T) {
	t.Setenv("COLSYNC_TEST_HOST", "from-env")
	dir := t.TempDir()

	env := map[string]string{"BASE_URL": "http://localhost", "HOST": "{{env:COLSYNC_TEST_HOST}}"}
	if err := SaveEnvironment(env, filepath.Join(EnvironmentsDir(dir), "dev")); err != nil {
		t.Fatalf("SaveEnvironment() error = %v", err)
	}

	got, err := LoadNamedEnvironment(dir, "dev")
	if err != nil {
		t.Fatalf("LoadNamedEnvironment() error = %v", err)
	}
	want := map[string]string{"BASE_URL": "http://localhost", "HOST": "from-env"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadNamedEnvironment() = %v, want %v", got, want)
	}
}

func TestLoadNamedEnvironmentErrors(t *testing.T) {
	dir := t.TempDir()

	for _, name := range []string{"", "..", "../secrets", "missing"} {
		if _, err := LoadNamedEnvironment(dir, name); err == nil {
			t.Errorf("LoadNamedEnvironment(%q) error = nil, want error", name)
		}
	}
}

func TestListEnvironments(t *testing.T) {
	dir := t.TempDir()

	got, err := ListEnvironments(dir)
	if err != nil {
		t.Fatalf("ListEnvironments() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("ListEnvironments() on empty dir = %v, want none", got)
	}

	envDir := EnvironmentsDir(dir)
	files := map[string]string{
		"prod.yml":   "BASE_URL: https://api\nTOKEN: x\n",
		"dev.yaml":   "BASE_URL: http://localhost\n",
		"empty.yaml": "",
		"notes.txt":  "ignored",
	}
	if err := os.MkdirAll(envDir, 0755); err != nil {
		t.Fatal(err)
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(envDir, name), []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}

	got, err = ListEnvironments(dir)
	if err != nil {
		t.Fatalf("ListEnvironments() error = %v", err)
	}
	var names []string
	for _, e := range got {
		names = append(names, e.Name)
	}
	if want := []string{"dev", "empty", "prod"}; !reflect.DeepEqual(names, want) {
		t.Errorf("ListEnvironments() names = %v, want %v", names, want)
	}
	if got[2].Variables != 2 {
		t.Errorf("prod variables = %d, want 2", got[2].Variables)
	}
	if got[1].Variables != 0 {
		t.Errorf("empty variables = %d, want 0", got[1].Variables)
	}
}

func TestToPostmanEnvironment(t *testing.T) {
	got := ToPostmanEnvironment("dev", map[string]string{"B": "2", "A": "1"})
	want := PostmanEnvironment{
		Name: "dev",
		Values: []EnvironmentValue{
			{Key: "A", Value: "1", Enabled: true},
			{Key: "B", Value: "2", Enabled: true},
		},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ToPostmanEnvironment() = %+v, want %+v", got, want)
	}
}
