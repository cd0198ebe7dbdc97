package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "agent.json")
	if err := os.WriteFile(path, []byte(`{"address":"file:1","poll_interval":7,"metric_prefix":"web"}`), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name    string
		args    []string
		env     map[string]string
		want    Config
		wantErr bool
	}{
		{
			name: "file then flags",
			args: []string{"-config", path, "-r", "3"},
			want: Config{Addr: "file:1", PollInterval: 7, ReqInterval: 3, Prefix: "web", LogLevel: "info", ConfigFilePath: path},
		},
		{
			name: "env wins",
			args: []string{"-a", "flag:2", "-x", "db"},
			env:  map[string]string{"ADDRESS": "env:3", "REPORT_INTERVAL": "20"},
			want: Config{Addr: "env:3", PollInterval: 2, ReqInterval: 20, Prefix: "db", LogLevel: "info"},
		},
		{
			name:    "non-positive interval",
			args:    []string{"-p", "0", "-x", "any"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			got, err := Load(tt.args)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Load() = %+v, want %+v", got, tt.want)
			}
		})
	}
}
