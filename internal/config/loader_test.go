package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "addr: :9999\nruntime_bin: /opt/ollama\nidle_timeout: 45s\nmax_queue_depth: 3\ndefault_model: m1\napi_keys:\n  openai: sk-1\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.RuntimeBin != "/opt/ollama" || cfg.DefaultModel != "m1" || cfg.MaxQueueDepth != 3 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.IdleTimeout.Std() != 45*time.Second || cfg.APIKeys.OpenAI != "sk-1" {
		t.Fatalf("unexpected duration or keys: %+v", cfg)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","run_timeout":"90s","memory_size":10,"default_model":"m2","cors_origins":["http://a"]}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.RunTimeout.Std() != 90*time.Second || cfg.MemorySize != 10 || cfg.DefaultModel != "m2" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "http://a" {
		t.Fatalf("unexpected origins: %v", cfg.CORSOrigins)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\ngrace_period=\"1s\"\nremote_rate=2.5\ndefault_model=\"m3\"\n[api_keys]\ndeepseek=\"ds\"\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.GracePeriod.Std() != time.Second || cfg.RemoteRate != 2.5 || cfg.DefaultModel != "m3" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.APIKeys.DeepSeek != "ds" {
		t.Fatalf("unexpected keys: %+v", cfg.APIKeys)
	}
}

func TestLoadIntoKeepsUnsetFields(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", "default_model: llama3\n")
	cfg := Default()
	if err := LoadInto(p, &cfg); err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.DefaultModel != "llama3" || cfg.Addr != "127.0.0.1:5000" || cfg.RunTimeout.Std() != 120*time.Second {
		t.Fatalf("unexpected merge: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	d := t.TempDir()
	cases := []struct {
		name, file, content string
	}{
		{"unsupported extension", "cfg.txt", "not supported"},
		{"bad duration", "dur.yaml", "run_timeout: forever\n"},
		{"bad yaml", "bad.yaml", "addr: [unterminated\n"},
		{"bad json", "bad.json", `{ "addr": ":8080", "runtime_bin": }`},
		{"bad toml", "bad.toml", "addr=:8080\nruntime_bin\n"},
		{"wrong type", "type.json", `{"max_queue_depth": "many"}`},
	}
	for _, tc := range cases {
		p := writeTempFile(t, d, tc.file, tc.content)
		if _, err := Load(p); err == nil {
			t.Fatalf("%s: expected error", tc.name)
		}
	}
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	if _, err := Load(filepath.Join(d, "missing.yaml")); err == nil {
		t.Fatalf("expected error for nonexistent file")
	}
}
