package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/spf13/cobra"
)

func TestSplitCSV(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"a,b,c", []string{"a", "b", "c"}},
		{" http://a , http://b ", []string{"http://a", "http://b"}},
		{"a,,c", []string{"a", "c"}},
		{"", nil},
	}
	for _, c := range cases {
		got := splitCSV(c.in)
		if len(got) != len(c.want) {
			t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q -> %v, want %v", c.in, got, c.want)
			}
		}
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	log, err := newLogger("warn", "json", &buf)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.Info().Msg("hidden")
	log.Warn().Msg("shown")
	if out := buf.String(); strings.Contains(out, "hidden") || !strings.Contains(out, `"message":"shown"`) {
		t.Fatalf("unexpected output: %q", out)
	}

	if _, err := newLogger("loud", "json", &buf); err == nil {
		t.Fatalf("expected bad level error")
	}
	if _, err := newLogger("info", "xml", &buf); err == nil {
		t.Fatalf("expected bad format error")
	}
}

func TestRootCommandTree(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "sweep", "models"} {
		if c, _, err := root.Find([]string{name}); err != nil || c.Name() != name {
			t.Fatalf("missing subcommand %s: %v", name, err)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil || root.PersistentFlags().Lookup("runtime-bin") == nil {
		t.Fatalf("missing persistent flags")
	}
}

func TestLoadConfigFlagOverrides(t *testing.T) {
	opts := &options{}
	cmd := &cobra.Command{Use: "probe"}
	bindFlags(cmd, opts)
	err := cmd.ParseFlags([]string{
		"--env-file", "",
		"--addr", ":9000",
		"--default-model", "llama3",
		"--cors-origins", "http://a, http://b",
	})
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := loadConfig(cmd, opts)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.Addr != ":9000" || cfg.DefaultModel != "llama3" {
		t.Fatalf("flags not applied: %+v", cfg)
	}
	if !cfg.CORSEnabled || len(cfg.CORSOrigins) != 2 {
		t.Fatalf("cors not applied: %+v", cfg)
	}
	if cfg.RunTimeout.Std() == 0 {
		t.Fatalf("unset flags must keep defaults")
	}
}

func TestLoadConfigRejectsInvalidFlag(t *testing.T) {
	opts := &options{}
	cmd := &cobra.Command{Use: "probe"}
	bindFlags(cmd, opts)
	if err := cmd.ParseFlags([]string{"--env-file", "", "--log-level", "chatty"}); err != nil {
		t.Fatal(err)
	}
	if _, err := loadConfig(cmd, opts); err == nil {
		t.Fatalf("expected validation error")
	}
}
