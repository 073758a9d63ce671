package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"pgregory.net/rapid"
)

// Feature: studio, Property: config merge precedence
func TestConfigMergePrecedence(t *testing.T) {
	nonEmptyString := rapid.StringMatching(`[a-zA-Z0-9/_.-]{1,20}`)

	configGen := rapid.Custom(func(t *rapid.T) *Config {
		cfg := &Config{}
		if rapid.Bool().Draw(t, "hasModel") {
			cfg.Model = nonEmptyString.Draw(t, "model")
		}
		if rapid.Bool().Draw(t, "hasPreviewOut") {
			cfg.PreviewOut = nonEmptyString.Draw(t, "previewOut")
		}
		if rapid.Bool().Draw(t, "hasLogLevel") {
			cfg.LogLevel = nonEmptyString.Draw(t, "logLevel")
		}
		if rapid.Bool().Draw(t, "hasTemplate") {
			cfg.Template = nonEmptyString.Draw(t, "template")
		}
		return cfg
	})

	rapid.Check(t, func(t *rapid.T) {
		global := configGen.Draw(t, "global")
		project := configGen.Draw(t, "project")

		merged := Merge(global, project)
		defaults := Defaults()

		checkStringField(t, "Model", global.Model, project.Model, defaults.Model, merged.Model)
		checkStringField(t, "PreviewOut", global.PreviewOut, project.PreviewOut, defaults.PreviewOut, merged.PreviewOut)
		checkStringField(t, "LogLevel", global.LogLevel, project.LogLevel, defaults.LogLevel, merged.LogLevel)
		checkStringField(t, "Template", global.Template, project.Template, defaults.Template, merged.Template)
	})
}

// checkStringField asserts the merge precedence rule for a single string field:
//   - project non-empty  → merged == project
//   - project empty, global non-empty → merged == global
//   - both empty → merged == defaultVal
func checkStringField(t *rapid.T, name, globalVal, projectVal, defaultVal, mergedVal string) {
	t.Helper()
	switch {
	case projectVal != "":
		if mergedVal != projectVal {
			t.Fatalf("%s: both set, expected project value %q, got %q", name, projectVal, mergedVal)
		}
	case globalVal != "":
		if mergedVal != globalVal {
			t.Fatalf("%s: only global set, expected global value %q, got %q", name, globalVal, mergedVal)
		}
	default:
		if mergedVal != defaultVal {
			t.Fatalf("%s: neither set, expected default %q, got %q", name, defaultVal, mergedVal)
		}
	}
}

func TestDefaultsValues(t *testing.T) {
	d := Defaults()
	if d.Model != "gemini-2.5-flash" {
		t.Errorf("Model: want %q, got %q", "gemini-2.5-flash", d.Model)
	}
	if d.CommandDelay != 500*time.Millisecond {
		t.Errorf("CommandDelay: want 500ms, got %v", d.CommandDelay)
	}
	if d.PreviewOut != "preview.html" {
		t.Errorf("PreviewOut: want %q, got %q", "preview.html", d.PreviewOut)
	}
	if d.Template != "js-pong" {
		t.Errorf("Template: want %q, got %q", "js-pong", d.Template)
	}
	if d.LogJournal {
		t.Error("LogJournal: want false")
	}
}

func TestLoadGlobalMissingFileReturnsDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected non-nil config, got nil")
	}
	if *cfg != Defaults() {
		t.Errorf("want defaults, got %+v", *cfg)
	}
}

func TestLoadGlobalYAML(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	writeFile(t, filepath.Join(tmp, ".config", "studio", "config.yaml"),
		"model: gemini-2.5-pro\ncommand_delay: 250ms\nlog_journal: true\n")

	cfg, err := LoadGlobal()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Model != "gemini-2.5-pro" {
		t.Errorf("Model: got %q", cfg.Model)
	}
	if cfg.CommandDelay != 250*time.Millisecond {
		t.Errorf("CommandDelay: got %v", cfg.CommandDelay)
	}
	if !cfg.LogJournal {
		t.Error("LogJournal: want true")
	}
}

func TestLoadProjectMissingFileReturnsNil(t *testing.T) {
	chdir(t, t.TempDir())

	cfg, err := LoadProject()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg != nil {
		t.Errorf("expected nil config, got %+v", cfg)
	}
}

func TestLoadProjectOverridesGlobal(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	writeFile(t, filepath.Join(home, ".config", "studio", "config.json"), `{"model":"global-model","template":"flask-api"}`)

	dir := t.TempDir()
	chdir(t, dir)
	writeFile(t, filepath.Join(dir, ProjectFile), `{"model":"project-model"}`)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Model != "project-model" {
		t.Errorf("Model: want project value, got %q", cfg.Model)
	}
	if cfg.Template != "flask-api" {
		t.Errorf("Template: want global value, got %q", cfg.Template)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv("STUDIO_MODEL", "env-model")
	t.Setenv("STUDIO_COMMAND_DELAY", "0s")
	t.Setenv("GEMINI_API_KEY", "from-gemini")

	cfg := ApplyEnv(Defaults())
	if cfg.Model != "env-model" {
		t.Errorf("Model: got %q", cfg.Model)
	}
	if cfg.CommandDelay != 0 {
		t.Errorf("CommandDelay: want 0, got %v", cfg.CommandDelay)
	}
	if cfg.APIKey != "from-gemini" {
		t.Errorf("APIKey: got %q", cfg.APIKey)
	}

	t.Setenv("STUDIO_API_KEY", "from-studio")
	if got := ApplyEnv(Defaults()).APIKey; got != "from-studio" {
		t.Errorf("STUDIO_API_KEY should win, got %q", got)
	}
}

func TestLoadGlobalParseError(t *testing.T) {
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)

	writeFile(t, filepath.Join(tmp, ".config", "studio", "config.json"), "{invalid json")

	_, err := LoadGlobal()
	if err == nil {
		t.Fatal("expected an error for invalid JSON, got nil")
	}
	var parseErr *ParseError
	if !errors.As(err, &parseErr) {
		t.Errorf("expected *ParseError, got %T: %v", err, err)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	orig, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chdir(orig) })
}
