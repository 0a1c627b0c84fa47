package config

import (
	"path/filepath"
	"testing"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := validate(cfg); err != nil {
		t.Errorf("Default() failed validation: %v", err)
	}
}

func TestLoadWithMissingExplicitFileFails(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(filepath.Join(dir, "nonexistent.yaml"))
	if err == nil {
		t.Fatal("expected an error for an explicitly named missing file")
	}
	_ = cfg
}

func TestLoadWithNoPathUsesDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\"): %v", err)
	}
	if cfg.Batch.MaxSize != Default().Batch.MaxSize {
		t.Errorf("MaxSize = %d, want default %d", cfg.Batch.MaxSize, Default().Batch.MaxSize)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "heliotrace.yaml")

	cfg := Default()
	cfg.Batch.MaxSize = 42
	if err := Save(cfg, path); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Batch.MaxSize != 42 {
		t.Errorf("MaxSize = %d, want 42", loaded.Batch.MaxSize)
	}
}

func TestParsePlanetRejectsUnknownName(t *testing.T) {
	if _, err := ParsePlanet("pluto"); err == nil {
		t.Error("expected an error for an unrecognized planet name")
	}
}

func TestEphemerisConfigPlanets(t *testing.T) {
	cfg := Default()
	planets, err := cfg.Ephemeris.Planets()
	if err != nil {
		t.Fatalf("Planets: %v", err)
	}
	if len(planets) != len(cfg.Ephemeris.DefaultPlanets) {
		t.Errorf("got %d planets, want %d", len(planets), len(cfg.Ephemeris.DefaultPlanets))
	}
}
