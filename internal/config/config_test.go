// Copyright 2026 Ian Lewis
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("writing yaml: %v", err)
	}
	return path
}

// NOTE: tests that use t.Setenv cannot run in parallel.

// TestLoad_Defaults tests loading with no file or environment.
func TestLoad_Defaults(t *testing.T) {
	t.Setenv(PathEnv, "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Store: StoreConfig{
			Backend: BackendMemory,
		},
		Import: ImportConfig{
			Language: "en",
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("Load (-want, +got):\n%s", diff)
	}
}

// TestLoad_YAML tests loading a file.
func TestLoad_YAML(t *testing.T) {
	path := writeYAML(t, `
log:
  level: debug
  format: json
store:
  backend: postgres
  dsn: postgres://u:p@localhost:5432/dict
  skip_migrations: true
import:
  language: de
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	want := &Config{
		Log: LogConfig{
			Level:  "debug",
			Format: "json",
		},
		Store: StoreConfig{
			Backend:        BackendPostgres,
			DSN:            "postgres://u:p@localhost:5432/dict",
			SkipMigrations: true,
		},
		Import: ImportConfig{
			Language: "de",
		},
	}
	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Fatalf("Load (-want, +got):\n%s", diff)
	}
}

// TestLoad_EnvOverride tests that environment variables override the file.
func TestLoad_EnvOverride(t *testing.T) {
	path := writeYAML(t, `
log:
  level: debug
import:
  language: de
`)
	t.Setenv(PathEnv, path)
	t.Setenv("DICTIMPORT_LOG_LEVEL", "warn")
	t.Setenv("DICTIMPORT_LANGUAGE", "ja")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if want, got := "warn", cfg.Log.Level; want != got {
		t.Errorf("Log.Level; want: %q, got: %q", want, got)
	}
	if want, got := "ja", cfg.Import.Language; want != got {
		t.Errorf("Import.Language; want: %q, got: %q", want, got)
	}
}

// TestLoad_MissingFile tests loading a missing file.
func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Fatal("Load: expected error")
	}
}

// TestValidate tests validation failures.
func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "log level",
			env:  map[string]string{"DICTIMPORT_LOG_LEVEL": "loud"},
		},
		{
			name: "log format",
			env:  map[string]string{"DICTIMPORT_LOG_FORMAT": "xml"},
		},
		{
			name: "backend",
			env:  map[string]string{"DICTIMPORT_STORE": "redis"},
		},
		{
			name: "postgres without dsn",
			env:  map[string]string{"DICTIMPORT_STORE": "postgres"},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Setenv(PathEnv, "")
			for k, v := range test.env {
				t.Setenv(k, v)
			}

			// Load does not validate so that overrides can fix the values.
			cfg, err := Load("")
			if err != nil {
				t.Fatalf("Load: %v", err)
			}
			if err := cfg.Validate(); !errors.Is(err, ErrInvalid) {
				t.Fatalf("Validate; want: %v, got: %v", ErrInvalid, err)
			}
		})
	}
}

// TestValidate_Override tests that a value fixed after Load validates.
func TestValidate_Override(t *testing.T) {
	t.Setenv(PathEnv, "")
	t.Setenv("DICTIMPORT_STORE", BackendPostgres)
	t.Setenv("DICTIMPORT_DATABASE_DSN", "")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	cfg.Store.DSN = "postgres://u:p@localhost:5432/dict"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
