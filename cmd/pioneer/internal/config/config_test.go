package config

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestContexts(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	names, err := cfg.ListContexts()
	if err != nil || len(names) != 0 {
		t.Fatalf("ListContexts() = %v, %v; want empty", names, err)
	}

	for _, name := range []string{"local", "lab"} {
		if err := cfg.AddContext(name); err != nil {
			t.Fatalf("AddContext(%q): %v", name, err)
		}
	}
	if err := cfg.AddContext("lab"); err == nil {
		t.Error("AddContext(lab) twice succeeded")
	}

	names, _ = cfg.ListContexts()
	slices.Sort(names)
	if !slices.Equal(names, []string{"lab", "local"}) {
		t.Errorf("ListContexts() = %v", names)
	}

	if err := cfg.UseContext("lab"); err != nil {
		t.Fatal(err)
	}
	if err := cfg.UseContext("missing"); err == nil {
		t.Error("UseContext(missing) succeeded")
	}

	reloaded, _ := LoadFrom(cfg.Dir)
	if reloaded.CurrentContext != "lab" {
		t.Errorf("CurrentContext = %q, want %q", reloaded.CurrentContext, "lab")
	}

	if err := reloaded.DeleteContext("lab"); err != nil {
		t.Fatal(err)
	}
	if reloaded.CurrentContext != "" {
		t.Errorf("CurrentContext = %q after delete", reloaded.CurrentContext)
	}
	again, _ := LoadFrom(cfg.Dir)
	if again.CurrentContext != "" {
		t.Errorf("current-context file still names %q", again.CurrentContext)
	}
}

func TestValidateContextName(t *testing.T) {
	for _, name := range []string{"", "a/b", `a\b`, ".hidden"} {
		if err := ValidateContextName(name); err == nil {
			t.Errorf("ValidateContextName(%q) succeeded", name)
		}
	}
	if err := ValidateContextName("dev-1"); err != nil {
		t.Errorf("ValidateContextName(dev-1): %v", err)
	}
}

func TestResolveContext(t *testing.T) {
	cfg, _ := LoadFrom(t.TempDir())
	if got, err := cfg.ResolveContext(""); err != nil || got != "" {
		t.Errorf("ResolveContext(\"\") = %q, %v", got, err)
	}

	cfg.AddContext("dev")
	cfg.UseContext("dev")
	if got, _ := cfg.ResolveContext(""); got != "dev" {
		t.Errorf("ResolveContext(\"\") = %q, want dev", got)
	}
	if _, err := cfg.ResolveContext("prod"); err == nil {
		t.Error("ResolveContext(prod) succeeded")
	}
}

func TestLoadEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvConfigDir, dir)
	cfg, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Dir != dir {
		t.Errorf("Dir = %q, want %q", cfg.Dir, dir)
	}
}

func TestRelayConfig_RoundTrip(t *testing.T) {
	cfg, _ := LoadFrom(t.TempDir())
	cfg.AddContext("dev")

	rc, err := cfg.LoadRelay("dev")
	if err != nil {
		t.Fatal(err)
	}
	if *rc != (RelayConfig{}) {
		t.Errorf("missing relay.yaml loaded as %+v", rc)
	}

	for _, kv := range [][2]string{
		{"url", "ws://10.0.0.2:9001"},
		{"reconnect_delay", "2s"},
		{"request_timeout", "30s"},
		{"legacy_event_names", "true"},
		{"s3.region", "us-east-1"},
		{"s3.use_path_style", "yes"},
	} {
		err := rc.Set(kv[0], kv[1])
		if kv[0] == "s3.use_path_style" {
			if err == nil {
				t.Error("Set(s3.use_path_style, yes) succeeded")
			}
			continue
		}
		if err != nil {
			t.Fatalf("Set(%s): %v", kv[0], err)
		}
	}
	if err := cfg.SaveRelay("dev", rc); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(cfg.RelayPath("dev"))
	if !strings.Contains(string(data), "reconnect_delay: 2s") {
		t.Errorf("relay.yaml = %s", data)
	}

	got, err := cfg.LoadRelay("dev")
	if err != nil {
		t.Fatal(err)
	}
	if got.URL != "ws://10.0.0.2:9001" || !got.LegacyEventNames || got.S3.Region != "us-east-1" {
		t.Errorf("LoadRelay = %+v", got)
	}
	if n := len(got.RelayOptions()); n != 3 {
		t.Errorf("len(RelayOptions()) = %d, want 3", n)
	}
	if s3 := got.TimelineS3(); s3.Region != "us-east-1" {
		t.Errorf("TimelineS3() = %+v", s3)
	}
}

func TestRelayConfig_Set(t *testing.T) {
	tests := []struct {
		key, value string
		wantErr    bool
	}{
		{"greeting", "hi", false},
		{"reconnect_delay", "soon", true},
		{"request_timeout", "-1s", true},
		{"legacy_event_names", "maybe", true},
		{"colour", "red", true},
	}
	for _, tt := range tests {
		var rc RelayConfig
		if err := rc.Set(tt.key, tt.value); (err != nil) != tt.wantErr {
			t.Errorf("Set(%q, %q) err = %v, wantErr %v", tt.key, tt.value, err, tt.wantErr)
		}
	}
}

func TestLoadRelay_Invalid(t *testing.T) {
	cfg, _ := LoadFrom(t.TempDir())
	cfg.AddContext("bad")
	os.WriteFile(cfg.RelayPath("bad"), []byte("reconnect_delay: forever\n"), 0600)
	if _, err := cfg.LoadRelay("bad"); err == nil {
		t.Error("LoadRelay accepted a bad duration")
	}
}

func TestDataDir(t *testing.T) {
	cfg := &Config{Dir: "/cfg"}
	tests := []struct {
		context string
		rc      *RelayConfig
		want    string
	}{
		{"", nil, filepath.Join("/cfg", "data", "default")},
		{"dev", &RelayConfig{}, filepath.Join("/cfg", "data", "dev")},
		{"dev", &RelayConfig{DataDir: "/var/pioneer"}, "/var/pioneer"},
	}
	for _, tt := range tests {
		if got := cfg.DataDir(tt.context, tt.rc); got != tt.want {
			t.Errorf("DataDir(%q) = %q, want %q", tt.context, got, tt.want)
		}
	}
}

func TestParseDuration(t *testing.T) {
	if d, err := parseDuration("x", ""); err != nil || d != 0 {
		t.Errorf("parseDuration(\"\") = %v, %v", d, err)
	}
	if d, _ := parseDuration("x", "1m"); d != time.Minute {
		t.Errorf("parseDuration(1m) = %v", d)
	}
}
