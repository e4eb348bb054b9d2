package plugin

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// writePlugin creates dir/<name> holding a manifest and, when script is
// non-empty, an executable shell script named run.sh.
func writePlugin(t *testing.T, dir, name string, actions []string, script string) string {
	t.Helper()

	pluginDir := filepath.Join(dir, name)
	if err := os.MkdirAll(pluginDir, 0o755); err != nil {
		t.Fatalf("failed to create plugin dir: %v", err)
	}

	manifest := Manifest{
		Name:        name,
		Version:     "1.0.0",
		Description: "test plugin " + name,
		Executable:  "run.sh",
		Actions:     actions,
	}
	data, err := json.Marshal(manifest)
	if err != nil {
		t.Fatalf("failed to marshal manifest: %v", err)
	}
	if err := os.WriteFile(filepath.Join(pluginDir, ManifestFile), data, 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}

	if script != "" {
		if err := os.WriteFile(filepath.Join(pluginDir, "run.sh"), []byte(script), 0o755); err != nil {
			t.Fatalf("failed to write script: %v", err)
		}
	}
	return pluginDir
}

// scriptPlugin returns a Plugin running script from a temporary directory.
func scriptPlugin(t *testing.T, script string) *Plugin {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("skipping shell plugin test on Windows")
	}

	dir := writePlugin(t, t.TempDir(), "test-plugin", []string{"run"}, script)
	return &Plugin{
		Manifest:   Manifest{Name: "test-plugin", Executable: "run.sh", Actions: []string{"run"}},
		Path:       dir,
		Executable: filepath.Join(dir, "run.sh"),
	}
}
