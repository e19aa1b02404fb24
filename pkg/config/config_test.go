package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

type sample struct {
	Name string `yaml:"name"`
	Port int    `yaml:"port"`
}

var errEmptyName = errors.New("name is empty")

func (s *sample) Validate() error {
	if s.Name == "" {
		return errEmptyName
	}
	return nil
}

func writeFile(t *testing.T, content string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("ADFB_SET", "value")
	t.Setenv("ADFB_EMPTY", "")

	cases := map[string]string{
		"${ADFB_SET}":             "value",
		"$ADFB_SET/x":             "value/x",
		"${ADFB_UNSET}":           "",
		"${ADFB_UNSET:-fallback}": "fallback",
		"${ADFB_EMPTY:-fallback}": "fallback",
		"${ADFB_SET:-fallback}":   "value",
	}
	for in, want := range cases {
		if got := ExpandEnv(in); got != want {
			t.Errorf("ExpandEnv(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("ADFB_NAME", "bridge")
	p := writeFile(t, "name: ${ADFB_NAME}\nport: ${ADFB_PORT:-9090}\n")

	var s sample
	if err := Load(p, &s); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if s.Name != "bridge" || s.Port != 9090 {
		t.Errorf("got %+v", s)
	}
}

func TestLoad_ValidationError(t *testing.T) {
	p := writeFile(t, "port: 1\n")
	var s sample
	if err := Load(p, &s); !errors.Is(err, errEmptyName) {
		t.Errorf("err = %v, want errEmptyName", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	var s sample
	if err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &s); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}

func TestLoadOptional_MissingFileKeepsDefaults(t *testing.T) {
	s := sample{Name: "default", Port: 8080}
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &s); err != nil {
		t.Fatalf("LoadOptional: %v", err)
	}
	if s.Name != "default" || s.Port != 8080 {
		t.Errorf("got %+v", s)
	}

	var empty sample
	if err := LoadOptional(filepath.Join(t.TempDir(), "nope.yaml"), &empty); !errors.Is(err, errEmptyName) {
		t.Errorf("err = %v, want validation error", err)
	}
}
