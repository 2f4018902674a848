package core

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, ".phasetrack.yaml"), []byte(content), 0o600); err != nil {
		t.Fatalf("writing config: %v", err)
	}
}

func TestConfigLoad_MissingFileYieldsDefaults(t *testing.T) {
	loader := NewConfigLoader(t.TempDir())

	cfg, err := loader.Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := DefaultConfig()
	if cfg.DocsDir != want.DocsDir || cfg.PhasesDir != want.PhasesDir || cfg.ContextsDir != want.ContextsDir {
		t.Fatalf("expected default directories, got %+v", cfg)
	}
	if cfg.RelatedLimit != want.RelatedLimit || cfg.DecisionsLimit != want.DecisionsLimit {
		t.Fatalf("expected default limits, got %+v", cfg)
	}
	if cfg.StrictDuplicates || cfg.CrossPhaseFallback {
		t.Fatalf("expected strict and fallback off by default, got %+v", cfg)
	}
}

func TestConfigLoad_Overrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `docs_dir: documentation
phases_dir: work/phases
strict_duplicates: true
related:
  limit: 3
  cross_phase_fallback: true
decisions:
  limit: 20
`)

	cfg, err := NewConfigLoader(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DocsDir != "documentation" {
		t.Fatalf("expected docs_dir override, got %q", cfg.DocsDir)
	}
	if cfg.PhasesDir != "work/phases" {
		t.Fatalf("expected phases_dir override, got %q", cfg.PhasesDir)
	}
	if !cfg.StrictDuplicates || !cfg.CrossPhaseFallback {
		t.Fatalf("expected flags enabled, got %+v", cfg)
	}
	if cfg.RelatedLimit != 3 || cfg.DecisionsLimit != 20 {
		t.Fatalf("expected limit overrides, got %+v", cfg)
	}
	// Unset keys keep their defaults.
	if cfg.ContextsDir != "contexts" {
		t.Fatalf("expected default contexts_dir, got %q", cfg.ContextsDir)
	}
}

func TestConfigLoad_ExplicitZeroLimit(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, `related:
  limit: 0
`)

	cfg, err := NewConfigLoader(dir).Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.RelatedLimit != 0 {
		t.Fatalf("explicit zero must not fall back to the default, got %d", cfg.RelatedLimit)
	}
}

func TestConfigLoad_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "docs_dir: [unclosed")

	if _, err := NewConfigLoader(dir).Load(); err == nil {
		t.Fatal("expected error for malformed config")
	}
}

func TestConfigValidate(t *testing.T) {
	loader := NewConfigLoader(t.TempDir())

	cfg := DefaultConfig()
	if err := loader.Validate(cfg); err != nil {
		t.Fatalf("defaults must validate: %v", err)
	}

	cfg.DocsDir = ""
	cfg.RelatedLimit = -1
	err := loader.Validate(cfg)
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !strings.Contains(err.Error(), "docs_dir") || !strings.Contains(err.Error(), "related.limit") {
		t.Fatalf("expected both problems reported, got: %v", err)
	}
}

func TestConfigValidate_Nil(t *testing.T) {
	if err := NewConfigLoader(t.TempDir()).Validate(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}
