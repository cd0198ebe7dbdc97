package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(nil)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg != Default() {
		t.Errorf("Load(nil) = %+v, want %+v", cfg, Default())
	}
}

func TestLoadPrecedence(t *testing.T) {
	path := writeTemp(t, "config.json", `{
		"address": "file:1",
		"store_interval": 10,
		"file_storage_path": "/tmp/file.json",
		"audit_file": "/tmp/audit.json",
		"log_level": "warn"
	}`)

	tests := []struct {
		name string
		args []string
		env  map[string]string
		want func(Config) bool
	}{
		{
			name: "file overrides defaults",
			args: []string{"-config", path},
			want: func(c Config) bool {
				return c.Addr == "file:1" && c.StoreInterval == 10 && c.AuditFile == "/tmp/audit.json" && c.StorageDriver == "postgres"
			},
		},
		{
			name: "flag overrides file",
			args: []string{"-config", path, "-a", "flag:2", "-i", "0"},
			want: func(c Config) bool {
				return c.Addr == "flag:2" && c.StoreInterval == 0 && c.LogLevel == "warn"
			},
		},
		{
			name: "env overrides flag",
			args: []string{"-config", path, "-a", "flag:2"},
			env:  map[string]string{"ADDRESS": "env:3", "RESTORE": "true", "STORAGE_DRIVER": "sqlite"},
			want: func(c Config) bool {
				return c.Addr == "env:3" && c.Restore && c.StorageDriver == "sqlite"
			},
		},
		{
			name: "config path from env",
			env:  map[string]string{"CONFIG": path},
			want: func(c Config) bool {
				return c.Addr == "file:1" && c.ConfigFilePath == path
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			cfg, err := Load(tt.args)
			if err != nil {
				t.Fatalf("Load() error = %v", err)
			}
			if !tt.want(cfg) {
				t.Errorf("unexpected config: %+v", cfg)
			}
		})
	}
}

func TestLoadErrors(t *testing.T) {
	broken := writeTemp(t, "broken.json", "{")

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{name: "missing config file", args: []string{"-config", filepath.Join(t.TempDir(), "nope.json")}},
		{name: "malformed config file", args: []string{"-config", broken}},
		{name: "unknown flag", args: []string{"-zzz"}},
		{name: "bad env int", env: map[string]string{"STORE_INTERVAL": "often"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			if _, err := Load(tt.args); err == nil {
				t.Error("Load() expected error")
			}
		})
	}
}

func TestLoadThresholds(t *testing.T) {
	path := writeTemp(t, "thresholds.yaml", `
thresholds:
  - key: cpu
    value: 90
    level: WARNING
  - key: errors
    value: 0
`)

	seeds, err := LoadThresholds(path)
	if err != nil {
		t.Fatalf("LoadThresholds() error = %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("got %d seeds, want 2", len(seeds))
	}
	if seeds[0] != (ThresholdSeed{Key: "cpu", Value: 90, Level: "WARNING"}) {
		t.Errorf("seeds[0] = %+v", seeds[0])
	}
	if seeds[1].Key != "errors" || seeds[1].Level != "" {
		t.Errorf("seeds[1] = %+v", seeds[1])
	}

	if seeds, err := LoadThresholds(""); err != nil || seeds != nil {
		t.Errorf("LoadThresholds(\"\") = %v, %v", seeds, err)
	}

	bad := writeTemp(t, "bad.yaml", "thresholds:\n  - value: 5\n")
	if _, err := LoadThresholds(bad); err == nil {
		t.Error("expected error for entry without key")
	}
}
