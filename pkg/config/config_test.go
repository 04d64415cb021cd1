package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type sample struct {
	Name  string `yaml:"name"`
	Port  int    `yaml:"port"`
	valid bool
}

func (s *sample) Validate() error {
	s.valid = true
	if s.Port <= 0 {
		return errors.New("port must be positive")
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

func TestLoad_ExpandsEnvAndKeepsDefaults(t *testing.T) {
	t.Setenv("SAMPLE_NAME", "specs")
	p := writeFile(t, "name: ${SAMPLE_NAME}\n")

	s := &sample{Port: 8080}
	if err := Load(p, s); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Name != "specs" || s.Port != 8080 {
		t.Errorf("got %+v", s)
	}
	if !s.valid {
		t.Error("validator not called")
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	s := &sample{Port: 1}
	if err := Load(writeFile(t, ""), s); err != nil {
		t.Fatalf("empty file should keep defaults: %v", err)
	}
}

func TestLoad_UnknownKey(t *testing.T) {
	err := Load(writeFile(t, "port: 1\nnmae: typo\n"), &sample{})
	if err == nil || !strings.Contains(err.Error(), "nmae") {
		t.Errorf("err = %v, want unknown field error", err)
	}
}

func TestLoad_ValidationFails(t *testing.T) {
	err := Load(writeFile(t, "port: 0\n"), &sample{})
	if err == nil || !strings.Contains(err.Error(), "config validation failed") {
		t.Errorf("err = %v", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	err := Load(filepath.Join(t.TempDir(), "nope.yaml"), &sample{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("err = %v, want ErrNotExist", err)
	}
}
