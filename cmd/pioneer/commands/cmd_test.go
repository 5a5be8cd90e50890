package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/haivivi/pioneer/cmd/pioneer/internal/config"
)

func setupTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Setenv(config.EnvConfigDir, dir)
	return dir
}

// resetFlags restores every flag of c and its children to its default so
// that runs do not leak into each other.
func resetFlags(c *cobra.Command) {
	reset := func(f *pflag.Flag) {
		if sv, ok := f.Value.(pflag.SliceValue); ok {
			sv.Replace(nil)
		} else {
			f.Value.Set(f.DefValue)
		}
		f.Changed = false
	}
	c.Flags().VisitAll(reset)
	c.PersistentFlags().VisitAll(reset)
	for _, sub := range c.Commands() {
		resetFlags(sub)
	}
}

func execCmd(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()

	oldStdout := os.Stdout
	oldStderr := os.Stderr

	rOut, wOut, _ := os.Pipe()
	rErr, wErr, _ := os.Pipe()
	os.Stdout = wOut
	os.Stderr = wErr

	resetFlags(rootCmd)
	globalConfig = nil
	configLoadErr = nil

	// Drain while the command runs so large outputs cannot block it.
	var outBuf, errBuf bytes.Buffer
	outDone := make(chan struct{})
	errDone := make(chan struct{})
	go func() { outBuf.ReadFrom(rOut); close(outDone) }()
	go func() { errBuf.ReadFrom(rErr); close(errDone) }()

	rootCmd.SetArgs(args)
	err := rootCmd.Execute()

	wOut.Close()
	wErr.Close()
	<-outDone
	<-errDone
	os.Stdout = oldStdout
	os.Stderr = oldStderr

	stdout = outBuf.String()
	stderr = errBuf.String()
	if err != nil {
		stderr += "Error: " + err.Error() + "\n"
		return stdout, stderr, 1
	}
	return stdout, stderr, 0
}

func TestVersion(t *testing.T) {
	setupTestEnv(t)

	stdout, _, code := execCmd(t, "version")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.HasPrefix(stdout, "pioneer ") {
		t.Fatalf("expected 'pioneer', got: %s", stdout)
	}
}

func TestVersionJSON(t *testing.T) {
	setupTestEnv(t)

	stdout, _, code := execCmd(t, "version", "-o", "json")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout, `"version"`) {
		t.Fatalf("expected JSON, got: %s", stdout)
	}
}

func TestConfigCommands(t *testing.T) {
	dir := setupTestEnv(t)

	if _, stderr, code := execCmd(t, "config", "add-context", "lab"); code != 0 {
		t.Fatalf("add-context: %s", stderr)
	}
	if _, stderr, code := execCmd(t, "config", "use-context", "lab"); code != 0 {
		t.Fatalf("use-context: %s", stderr)
	}
	if _, stderr, code := execCmd(t, "config", "set", "lab", "url", "ws://10.0.0.2:9001"); code != 0 {
		t.Fatalf("set url: %s", stderr)
	}
	stdout, _, code := execCmd(t, "config", "set", "lab", "s3.secret_access_key", "supersecret")
	if code != 0 || strings.Contains(stdout, "supersecret") {
		t.Fatalf("set secret printed %q (exit %d)", stdout, code)
	}
	if _, _, code := execCmd(t, "config", "set", "lab", "reconnect_delay", "soon"); code == 0 {
		t.Error("set accepted a bad duration")
	}
	if _, _, code := execCmd(t, "config", "set", "missing", "url", "ws://x"); code == 0 {
		t.Error("set on a missing context succeeded")
	}

	stdout, _, code = execCmd(t, "config", "list")
	if code != 0 {
		t.Fatalf("list exit %d", code)
	}
	if !strings.Contains(stdout, "*") || !strings.Contains(stdout, "ws://10.0.0.2:9001") {
		t.Errorf("list = %s", stdout)
	}

	stdout, _, code = execCmd(t, "config", "show", "-o", "json")
	if code != 0 {
		t.Fatalf("show exit %d", code)
	}
	var shown config.RelayConfig
	if err := json.Unmarshal([]byte(stdout), &shown); err != nil {
		t.Fatalf("show output: %v: %s", err, stdout)
	}
	if shown.URL != "ws://10.0.0.2:9001" {
		t.Errorf("show url = %q", shown.URL)
	}
	if shown.S3.SecretAccessKey != "*******cret" {
		t.Errorf("secret not masked: %q", shown.S3.SecretAccessKey)
	}

	stdout, _, _ = execCmd(t, "config", "current-context")
	if strings.TrimSpace(stdout) != "lab" {
		t.Errorf("current-context = %q", stdout)
	}
	if _, err := os.Stat(filepath.Join(dir, "contexts", "lab", "relay.yaml")); err != nil {
		t.Errorf("relay.yaml not written: %v", err)
	}

	if _, _, code := execCmd(t, "config", "delete-context", "lab"); code != 0 {
		t.Fatal("delete-context failed")
	}
	stdout, _, _ = execCmd(t, "config", "list")
	if !strings.Contains(stdout, "No contexts configured") {
		t.Errorf("list after delete = %s", stdout)
	}
}

func TestUnknownContext(t *testing.T) {
	setupTestEnv(t)
	_, stderr, code := execCmd(t, "-c", "nowhere", "timeline", "list")
	if code == 0 || !strings.Contains(stderr, `context "nowhere" not found`) {
		t.Errorf("exit %d, stderr %s", code, stderr)
	}
}

func TestSchemaCommand(t *testing.T) {
	setupTestEnv(t)

	stdout, _, code := execCmd(t, "schema", "--list")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	if !strings.Contains(stdout, "op_rotate_3d\n") || !strings.Contains(stdout, "op_load_recorded_events\n") {
		t.Errorf("list = %s", stdout)
	}

	stdout, _, code = execCmd(t, "schema", "op_rotate_3d")
	if code != 0 {
		t.Fatalf("exit %d", code)
	}
	var doc map[string]any
	if err := json.Unmarshal([]byte(stdout), &doc); err != nil {
		t.Fatalf("schema is not JSON: %v", err)
	}
	props, _ := doc["properties"].(map[string]any)
	if _, ok := props["scene_id"]; !ok {
		t.Errorf("properties = %v", props)
	}

	stdout, _, code = execCmd(t, "schema", "op_set_label", "-o", "yaml")
	if code != 0 || !strings.Contains(stdout, "properties:") {
		t.Errorf("yaml schema = %s", stdout)
	}

	if _, _, code := execCmd(t, "schema", "op_fly"); code == 0 {
		t.Error("schema for an unknown command succeeded")
	}
}

func TestRunDryRun(t *testing.T) {
	setupTestEnv(t)

	path := filepath.Join(t.TempDir(), "script.yaml")
	script := `
steps:
  - type: op_set_label
    args: {id: status, text: Recording}
  - type: op_start_recording
  - type: op_rotate_3d
    args: {scene_id: mainScene, angle: 90}
    delay: 10ms
`
	if err := os.WriteFile(path, []byte(script), 0o644); err != nil {
		t.Fatal(err)
	}

	stdout, stderr, code := execCmd(t, "run", "-f", path, "--dry-run")
	if code != 0 {
		t.Fatalf("exit %d: %s", code, stderr)
	}
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines: %s", len(lines), stdout)
	}
	var first map[string]any
	json.Unmarshal([]byte(lines[0]), &first)
	if first["type"] != "op_set_label" || first["text"] != "Recording" {
		t.Errorf("line 1 = %s", lines[0])
	}
	if lines[1] != `{"type":"op_start_recording"}` {
		t.Errorf("line 2 = %s", lines[1])
	}
}

func TestRunRequiresScript(t *testing.T) {
	setupTestEnv(t)
	if _, _, code := execCmd(t, "run"); code == 0 {
		t.Error("run without -f succeeded")
	}
}

func TestMask(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", ""},
		{"abc", "***"},
		{"abcdefgh", "****efgh"},
	}
	for _, tt := range tests {
		if got := mask(tt.in); got != tt.want {
			t.Errorf("mask(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
