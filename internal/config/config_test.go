package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Run.Draws != 10000 {
		t.Errorf("Run.Draws = %d, want 10000", cfg.Run.Draws)
	}
	if len(cfg.Priors) != 4 {
		t.Errorf("len(Priors) = %d, want 4", len(cfg.Priors))
	}
	if cfg.Parallel.Mode != "sequential" {
		t.Errorf("Parallel.Mode = %q, want sequential", cfg.Parallel.Mode)
	}
}

func TestValidate_InvalidProportion(t *testing.T) {
	cfg := Default()
	cfg.Run.Proportion = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for proportion above 1")
	}
}

func TestValidate_InvalidQuantiles(t *testing.T) {
	for _, q := range [][]float64{{0.5}, {0.9, 0.1}, {0, 0.9}, {0.1, 1}} {
		cfg := Default()
		cfg.Run.Quantiles = q
		if err := cfg.Validate(); err == nil {
			t.Errorf("expected error for quantiles %v", q)
		}
	}
}

func TestValidate_ParallelMode(t *testing.T) {
	cfg := Default()
	cfg.Parallel.Mode = "cluster"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown parallel mode")
	}

	cfg = Default()
	cfg.Parallel.Mode = "parallel"
	cfg.Parallel.Workers = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for parallel mode without workers")
	}

	cfg.Parallel.Workers = 4
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_PriorBounds(t *testing.T) {
	cfg := Default()
	cfg.Priors = []PriorConfig{{Name: "perception_range", Min: 5, Max: 5}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty prior support")
	}
}

func TestLoad_ExpandsEnvVars(t *testing.T) {
	t.Setenv("ABCMOVE_TEST_DRAWS", "500")

	dir := t.TempDir()
	path := filepath.Join(dir, "test.yaml")
	body := "run:\n  draws: ${ABCMOVE_TEST_DRAWS}\n  proportion: 0.01\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Run.Draws != 500 {
		t.Errorf("Run.Draws = %d, want 500", cfg.Run.Draws)
	}
	if cfg.Run.Proportion != 0.01 {
		t.Errorf("Run.Proportion = %v, want 0.01", cfg.Run.Proportion)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
