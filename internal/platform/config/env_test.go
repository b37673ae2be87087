package config

import (
	"strings"
	"testing"
)

type envTestConfig struct {
	Samples int    `env:"TEST_SAMPLES" envDefault:"123"`
	Locale  string `env:"TEST_LOCALE" envDefault:"en-US"`
}

func TestParseEnvDefaults(t *testing.T) {
	var cfg envTestConfig

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Samples != 123 {
		t.Fatalf("expected default samples 123, got %d", cfg.Samples)
	}
	if cfg.Locale != "en-US" {
		t.Fatalf("expected default locale en-US, got %q", cfg.Locale)
	}
}

func TestParseEnvUsesPrefix(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("TEST_SAMPLES", "7")
	t.Setenv("AIRFOIL_TEST_SAMPLES", "42")

	if err := ParseEnv(&cfg); err != nil {
		t.Fatalf("parse env: %v", err)
	}
	if cfg.Samples != 42 {
		t.Fatalf("samples = %d, want 42", cfg.Samples)
	}
}

func TestParseEnvError(t *testing.T) {
	var cfg envTestConfig
	t.Setenv("AIRFOIL_TEST_SAMPLES", "not-an-int")

	err := ParseEnv(&cfg)
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env prefix, got %v", err)
	}
}
