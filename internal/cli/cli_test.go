// Package cli_test provides tests for the CLI package.
package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmylchreest/tinct-shell/internal/bundle"
	"github.com/jmylchreest/tinct-shell/internal/cli"
	"github.com/jmylchreest/tinct-shell/internal/store"
)

const template = `#panel { background-color: var(--panel-bg); color: var(--font-main); }
.popup-menu { border-color: var(--accent); }
`

const themes = `:root {
    --panel-bg: rgba(20, 20, 20, 0.9);
    --popup-bg: rgba(20, 20, 20, 0.9);
    --font-main: rgba(230, 230, 230, 1);
    --accent: rgba(53, 132, 228, 1) !important;
}
`

type testEnv struct {
	themeDir string
	image    string
	dataDir  string
}

// setupTests creates a theme directory, a wallpaper and an isolated data directory.
func setupTests(t *testing.T) testEnv {
	t.Helper()
	root := t.TempDir()

	env := testEnv{
		themeDir: filepath.Join(root, "CustomTheme", "gnome-shell"),
		image:    filepath.Join(root, "wallpaper.png"),
		dataDir:  filepath.Join(root, "data"),
	}
	if err := os.MkdirAll(env.themeDir, 0o755); err != nil {
		t.Fatalf("Failed to create theme dir: %v", err)
	}
	for name, content := range map[string]string{"template.css": template, "themes.css": themes} {
		if err := os.WriteFile(filepath.Join(env.themeDir, name), []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write %s: %v", name, err)
		}
	}

	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	palette := []color.RGBA{
		{R: 15, G: 18, B: 30, A: 255},
		{R: 40, G: 60, B: 90, A: 255},
		{R: 200, G: 170, B: 120, A: 255},
		{R: 240, G: 235, B: 225, A: 255},
	}
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, palette[(x/2+y/4)%len(palette)])
		}
	}
	f, err := os.Create(env.image)
	if err != nil {
		t.Fatalf("Failed to create image: %v", err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatalf("Failed to encode image: %v", err)
	}
	_ = f.Close()

	t.Setenv("XDG_CONFIG_HOME", filepath.Join(root, "config"))
	t.Setenv("TINCT_SHELL_DATA_DIR", env.dataDir)
	t.Setenv("TINCT_SHELL_THEME_DIR", "")
	t.Setenv("TINCT_SHELL_EXTRACTOR_PLUGIN", "")
	t.Setenv("TINCT_SHELL_ALGORITHM", "")
	return env
}

// execute runs a fresh root command and returns stdout, stderr and the error.
func execute(args ...string) (string, string, error) {
	var outBuf, errBuf bytes.Buffer
	rootCmd := cli.NewRootCmd()
	rootCmd.SetOut(&outBuf)
	rootCmd.SetErr(&errBuf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestGeneratePass(t *testing.T) {
	env := setupTests(t)

	t.Run("GenerateDark", func(t *testing.T) {
		_, stderr, err := execute("-p", env.themeDir, "-g", "-d", "--image", env.image, "--no-apply")
		if err != nil {
			t.Fatalf("Execute() error: %v\n%s", err, stderr)
		}

		out, err := os.ReadFile(filepath.Join(env.themeDir, "gnome-shell.css"))
		if err != nil {
			t.Fatalf("gnome-shell.css not written: %v", err)
		}
		if strings.Contains(string(out), "var(--") {
			t.Errorf("Placeholders left in output:\n%s", out)
		}
		if !strings.Contains(string(out), "border-color: rgba(53, 132, 228, 1);") {
			t.Errorf("Important colour not passed through:\n%s", out)
		}
		if _, err := os.Stat(filepath.Join(env.themeDir, "generated.css")); err != nil {
			t.Errorf("generated.css not written: %v", err)
		}
	})

	t.Run("ReuseLight", func(t *testing.T) {
		if _, stderr, err := execute("-p", env.themeDir, "--no-apply"); err != nil {
			t.Fatalf("Execute() error: %v\n%s", err, stderr)
		}
	})

	t.Run("RandomSeededDryRunPreview", func(t *testing.T) {
		before, _ := os.ReadFile(filepath.Join(env.themeDir, "generated.css"))
		stdout, stderr, err := execute("-p", env.themeDir, "-g", "-r", "--seed", "3", "--image", env.image, "--dry-run")
		if err != nil {
			t.Fatalf("Execute() error: %v\n%s", err, stderr)
		}
		if !strings.Contains(stdout, "--panel-bg") || !strings.Contains(stdout, "--popup-bg") {
			t.Errorf("Preview missing variables:\n%s", stdout)
		}
		after, _ := os.ReadFile(filepath.Join(env.themeDir, "generated.css"))
		if !bytes.Equal(before, after) {
			t.Error("Dry run modified generated.css")
		}
	})

	t.Run("History", func(t *testing.T) {
		stdout, stderr, err := execute("history", "list")
		if err != nil {
			t.Fatalf("history list error: %v\n%s", err, stderr)
		}
		if !strings.Contains(stdout, "deterministic") || !strings.Contains(stdout, "dark") {
			t.Errorf("history list output:\n%s", stdout)
		}

		st, err := store.Open(env.dataDir)
		if err != nil {
			t.Fatalf("store.Open() error: %v", err)
		}
		runs, err := st.ListRuns(context.Background(), 10)
		_ = st.Close()
		if err != nil || len(runs) != 1 {
			t.Fatalf("ListRuns() = %d runs, err %v; want 1", len(runs), err)
		}

		if err := os.Remove(filepath.Join(env.themeDir, "generated.css")); err != nil {
			t.Fatal(err)
		}
		if _, stderr, err := execute("history", "restore", runs[0].ID[:8], "--no-apply"); err != nil {
			t.Fatalf("history restore error: %v\n%s", err, stderr)
		}
		restored, err := os.ReadFile(filepath.Join(env.themeDir, "generated.css"))
		if err != nil {
			t.Fatalf("generated.css not restored: %v", err)
		}
		if string(restored) != runs[0].GeneratedCSS {
			t.Errorf("Restored content differs from recorded run")
		}
	})

	t.Run("ExportImport", func(t *testing.T) {
		archive := filepath.Join(t.TempDir(), "theme.tar.xz")
		if _, stderr, err := execute("export", "-p", env.themeDir, "-o", archive); err != nil {
			t.Fatalf("export error: %v\n%s", err, stderr)
		}

		f, err := os.Open(archive)
		if err != nil {
			t.Fatalf("Failed to open archive: %v", err)
		}
		entries, err := bundle.Read(f)
		_ = f.Close()
		if err != nil {
			t.Fatalf("bundle.Read() error: %v", err)
		}
		if len(entries) != 2 || entries[0].Name != "CustomTheme/gnome-shell/gnome-shell.css" {
			t.Errorf("Unexpected bundle entries: %+v", entries)
		}

		dest := t.TempDir()
		stdout, stderr, err := execute("import", archive, "--dest", dest)
		if err != nil {
			t.Fatalf("import error: %v\n%s", err, stderr)
		}
		if !strings.Contains(stdout, filepath.Join(dest, "CustomTheme", "gnome-shell", "gnome-shell.css")) {
			t.Errorf("import output:\n%s", stdout)
		}
	})
}

func TestPassErrors(t *testing.T) {
	env := setupTests(t)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"InvalidPath", []string{"-p", filepath.Join(env.themeDir, "missing"), "--no-apply"}, "invalid theme path"},
		{"MissingGenerated", []string{"-p", env.themeDir, "--no-apply"}, "generated.css not found"},
		{"InvalidAlgorithm", []string{"-p", env.themeDir, "-g", "--algorithm", "octree", "--image", env.image}, "invalid algorithm"},
		{"BadImage", []string{"-p", env.themeDir, "-g", "--image", env.themeDir + "/themes.css", "--no-apply"}, "failed to load image"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(tt.args...)
			if err == nil {
				t.Fatal("Expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestExtractCommand(t *testing.T) {
	env := setupTests(t)

	t.Run("JSON", func(t *testing.T) {
		stdout, stderr, err := execute("extract", "-n", "2", "--format", "json", "--no-cache", env.image)
		if err != nil {
			t.Fatalf("extract error: %v\n%s", err, stderr)
		}
		var got struct {
			Frequency []struct{ Hex string } `json:"frequency"`
			Luminance []struct{ Hex string } `json:"luminance"`
		}
		if err := json.Unmarshal([]byte(stdout), &got); err != nil {
			t.Fatalf("Invalid JSON output: %v\n%s", err, stdout)
		}
		if len(got.Frequency) == 0 || len(got.Frequency) > 5 || len(got.Luminance) == 0 {
			t.Errorf("Unexpected pool sizes: %d frequency, %d luminance", len(got.Frequency), len(got.Luminance))
		}
	})

	t.Run("Hex", func(t *testing.T) {
		stdout, _, err := execute("extract", env.image)
		if err != nil {
			t.Fatalf("extract error: %v", err)
		}
		if !strings.Contains(stdout, "frequency (") || !strings.Contains(stdout, "luminance (") {
			t.Errorf("Unexpected output:\n%s", stdout)
		}
	})

	t.Run("InvalidFormat", func(t *testing.T) {
		if _, _, err := execute("extract", "--format", "xml", env.image); err == nil {
			t.Error("Expected error for unsupported format")
		}
	})
}

func TestVersionCommand(t *testing.T) {
	stdout, _, err := execute("version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.HasPrefix(stdout, "tinct-shell version ") {
		t.Errorf("version output = %q", stdout)
	}
}
