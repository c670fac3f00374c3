package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.GroupBy != "Partner Org" || c.Format != "html" || c.EdgeLabels {
		t.Fatalf("unexpected output defaults: %+v", c)
	}
	if c.RendererURL != DefaultRendererURL {
		t.Fatalf("renderer_url = %q", c.RendererURL)
	}
	if c.PhysicsGravitationalConstant != -30 || c.PhysicsSpringLength != 80 ||
		c.PhysicsSpringConstant != 0.08 || c.PhysicsStabilizationIterations != 150 {
		t.Fatalf("unexpected physics defaults: %+v", c)
	}
	if c.HTTPTimeoutSec != 30 || c.LogLevel != "info" {
		t.Fatalf("unexpected ambient defaults: %+v", c)
	}
}

func TestSaveThenLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	c.GroupBy = "EarlyON"
	c.EdgeLabels = true
	c.Title = "Spring Showcase"
	if err := Save(c, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config not written: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got.GroupBy != "EarlyON" || !got.EdgeLabels || got.Title != "Spring Showcase" {
		t.Fatalf("saved values not loaded: %+v", got)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("format: json\nhttp_timeout_sec: 5\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Setenv("ATLAS_FORMAT", "yaml")

	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Format != "yaml" {
		t.Fatalf("format = %q, want env override", c.Format)
	}
	if c.HTTPTimeoutSec != 5 {
		t.Fatalf("http_timeout_sec = %d, want file value", c.HTTPTimeoutSec)
	}
}

func TestDefaultsIgnoreEnv(t *testing.T) {
	t.Setenv("ATLAS_FORMAT", "json")
	c := Defaults()
	if c.Format != "html" || c.GroupBy != "Partner Org" || c.HTTPTimeoutSec != 30 {
		t.Fatalf("unexpected defaults: %+v", c)
	}
}
