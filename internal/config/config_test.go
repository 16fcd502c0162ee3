// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/confval/confval/internal/issue"
	"github.com/confval/confval/internal/testutil"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Output.Format != "json" {
		t.Errorf("expected default output format to be json, got %s", cfg.Output.Format)
	}

	if cfg.Output.Indent != 2 {
		t.Errorf("expected default indent to be 2, got %d", cfg.Output.Indent)
	}

	if cfg.UI.ColorScheme != "auto" {
		t.Errorf("expected default color scheme to be auto, got %s", cfg.UI.ColorScheme)
	}

	if cfg.UI.Verbose {
		t.Error("expected default verbose to be false")
	}

	if cfg.Watch.Debounce != 500 {
		t.Errorf("expected default debounce to be 500ms, got %d", cfg.Watch.Debounce)
	}

	if cfg.Watch.ClearScreen {
		t.Error("expected default clear_screen to be false")
	}
}

func TestConfigDir(t *testing.T) {
	// Reset environment for consistent testing
	originalXDGConfigHome := os.Getenv("XDG_CONFIG_HOME")
	defer func() {
		if originalXDGConfigHome != "" {
			_ = os.Setenv("XDG_CONFIG_HOME", originalXDGConfigHome) // Test cleanup; error non-critical
		} else {
			_ = os.Unsetenv("XDG_CONFIG_HOME") // Test cleanup; error non-critical
		}
	}()

	// Test with XDG_CONFIG_HOME set (on Linux)
	if runtime.GOOS == "linux" {
		testXDGPath := "/tmp/test-xdg-config"
		restoreXDG := testutil.MustSetenv(t, "XDG_CONFIG_HOME", testXDGPath)

		dir, err := ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() returned error: %v", err)
		}

		expected := filepath.Join(testXDGPath, AppName)
		if dir != expected {
			t.Errorf("ConfigDir() = %s, want %s", dir, expected)
		}

		// Test with XDG_CONFIG_HOME unset
		restoreXDG()
		testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")
		dir, err = ConfigDir()
		if err != nil {
			t.Fatalf("ConfigDir() returned error: %v", err)
		}

		// Should use ~/.config/confval
		home, _ := os.UserHomeDir()
		expected = filepath.Join(home, ".config", AppName)
		if dir != expected {
			t.Errorf("ConfigDir() = %s, want %s", dir, expected)
		}
	}
}

func TestConfigFilePath(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()

	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() returned error: %v", err)
	}

	expected := filepath.Join(tmpDir, ConfigFileName+"."+ConfigFileExt)
	if path != expected {
		t.Errorf("ConfigFilePath() = %s, want %s", path, expected)
	}
}

func TestReset(t *testing.T) {
	SetConfigDirOverride("/some/override")
	Reset()

	if configDirOverride != "" {
		t.Error("expected configDirOverride to be empty after Reset()")
	}
}

func TestEnsureConfigDir(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)
	SetConfigDirOverride(configDir)
	defer Reset()

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	info, err := os.Stat(configDir)
	if err != nil {
		t.Fatalf("config dir was not created: %v", err)
	}
	if !info.IsDir() {
		t.Error("config dir path is not a directory")
	}
}

func TestLoad_ReturnsDefaultsWhenNoConfigFile(t *testing.T) {
	SetConfigDirOverride(filepath.Join(t.TempDir(), AppName))
	defer Reset()

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if path != "" {
		t.Errorf("expected empty resolved path for defaults, got %q", path)
	}

	defaults := DefaultConfig()
	if *cfg != *defaults {
		t.Errorf("Load() = %+v, want defaults %+v", cfg, defaults)
	}
}

func TestLoadAndSave(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)

	// Use direct override instead of env vars (more reliable across platforms)
	SetConfigDirOverride(configDir)
	defer Reset()

	if err := EnsureConfigDir(); err != nil {
		t.Fatalf("EnsureConfigDir() returned error: %v", err)
	}

	cfg := &Config{
		Output: OutputConfig{
			Format: "yaml",
			Indent: 4,
		},
		UI: UIConfig{
			ColorScheme: "dark",
			Verbose:     true,
		},
		Watch: WatchConfig{
			Debounce:    250,
			ClearScreen: true,
		},
	}

	if err := Save(cfg); err != nil {
		t.Fatalf("Save() returned error: %v", err)
	}

	loaded, path, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	expectedPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	if path != expectedPath {
		t.Errorf("resolved path = %s, want %s", path, expectedPath)
	}

	if loaded.Output.Format != "yaml" {
		t.Errorf("Output.Format = %s, want yaml", loaded.Output.Format)
	}

	if loaded.Output.Indent != 4 {
		t.Errorf("Output.Indent = %d, want 4", loaded.Output.Indent)
	}

	if loaded.UI.ColorScheme != "dark" {
		t.Errorf("UI.ColorScheme = %s, want dark", loaded.UI.ColorScheme)
	}

	if !loaded.UI.Verbose {
		t.Error("UI.Verbose = false, want true")
	}

	if loaded.Watch.Debounce != 250 {
		t.Errorf("Watch.Debounce = %d, want 250", loaded.Watch.Debounce)
	}

	if !loaded.Watch.ClearScreen {
		t.Error("Watch.ClearScreen = false, want true")
	}
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)
	SetConfigDirOverride(configDir)
	defer Reset()

	testutil.MustMkdirAll(t, configDir, 0o755)
	cuePath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cuePath, []byte("ui: verbose: true\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, _, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if !cfg.UI.Verbose {
		t.Error("UI.Verbose = false, want true from file")
	}

	// Everything the file does not mention stays on schema defaults.
	if cfg.Output.Format != "json" {
		t.Errorf("Output.Format = %s, want default json", cfg.Output.Format)
	}
	if cfg.Watch.Debounce != 500 {
		t.Errorf("Watch.Debounce = %d, want default 500", cfg.Watch.Debounce)
	}
}

func TestLoad_InvalidFileReturnsActionableError(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)
	SetConfigDirOverride(configDir)
	defer Reset()

	testutil.MustMkdirAll(t, configDir, 0o755)
	cuePath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	if err := os.WriteFile(cuePath, []byte("output: format: \"xml\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{})
	if err == nil {
		t.Fatal("Load() should fail for a format the schema rejects")
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("expected ActionableError, got %T: %v", err, err)
	}
	if len(actionable.Suggestions) == 0 {
		t.Error("expected suggestions on config load failure")
	}
	if !strings.Contains(err.Error(), "load configuration") {
		t.Errorf("error should name the operation, got: %v", err)
	}
}

func TestLoad_CustomPath_Valid(t *testing.T) {
	tmpDir := t.TempDir()
	customPath := filepath.Join(tmpDir, "my-settings.cue")
	if err := os.WriteFile(customPath, []byte("output: format: \"toml\"\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, path, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: customPath})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if path != customPath {
		t.Errorf("resolved path = %s, want %s", path, customPath)
	}
	if cfg.Output.Format != "toml" {
		t.Errorf("Output.Format = %s, want toml", cfg.Output.Format)
	}
}

func TestLoad_CustomPath_NotFound_ReturnsError(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.cue")

	_, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: missing})
	if err == nil {
		t.Fatal("Load() should fail when the custom config file does not exist")
	}

	var actionable *issue.ActionableError
	if !errors.As(err, &actionable) {
		t.Fatalf("expected ActionableError, got %T: %v", err, err)
	}
	if !strings.Contains(err.Error(), "not found") {
		t.Errorf("error should mention the missing file, got: %v", err)
	}
}

func TestLoad_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := NewProvider().Load(ctx, LoadOptions{})
	if err == nil {
		t.Fatal("Load() should fail on a canceled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("error should wrap context.Canceled, got: %v", err)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configDir := filepath.Join(tmpDir, AppName)
	SetConfigDirOverride(configDir)
	defer Reset()

	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}

	cfgPath := filepath.Join(configDir, ConfigFileName+"."+ConfigFileExt)
	data, err := os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("default config file was not created: %v", err)
	}
	if !strings.Contains(string(data), "// confval configuration file") {
		t.Error("default config should carry the file header comment")
	}

	// A second call must not clobber an existing file.
	marker := []byte("// user edit\nui: verbose: true\n")
	if err := os.WriteFile(cfgPath, marker, 0o644); err != nil {
		t.Fatalf("failed to rewrite config file: %v", err)
	}
	if err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() second call returned error: %v", err)
	}
	data, err = os.ReadFile(cfgPath)
	if err != nil {
		t.Fatalf("failed to re-read config file: %v", err)
	}
	if string(data) != string(marker) {
		t.Error("CreateDefaultConfig() overwrote an existing file")
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	cfg := &Config{
		Output: OutputConfig{Format: "cue", Indent: 0},
		UI:     UIConfig{ColorScheme: "light", Verbose: true},
		Watch:  WatchConfig{Debounce: 50, ClearScreen: true},
	}

	content, err := GenerateCUE(cfg)
	if err != nil {
		t.Fatalf("GenerateCUE() returned error: %v", err)
	}

	for _, want := range []string{"output:", "ui:", "watch:", `format: "cue"`, `color_scheme: "light"`, "debounce_ms: 50"} {
		if !strings.Contains(content, want) {
			t.Errorf("GenerateCUE() output missing %q:\n%s", want, content)
		}
	}

	// What Save writes, Load must read back unchanged.
	tmpDir := t.TempDir()
	cuePath := filepath.Join(tmpDir, "config.cue")
	if err := os.WriteFile(cuePath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	loaded, _, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: cuePath})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if *loaded != *cfg {
		t.Errorf("round trip mismatch: got %+v, want %+v", loaded, cfg)
	}
}

func TestConstants(t *testing.T) {
	if AppName != "confval" {
		t.Errorf("AppName = %s, want confval", AppName)
	}
	if ConfigFileName != "config" {
		t.Errorf("ConfigFileName = %s, want config", ConfigFileName)
	}
	if ConfigFileExt != "cue" {
		t.Errorf("ConfigFileExt = %s, want cue", ConfigFileExt)
	}
}
