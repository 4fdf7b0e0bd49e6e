package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.Server.Port != "8080" {
		t.Errorf("Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Bench.Trials != 10 || cfg.Bench.Bins != 1000 || cfg.Bench.BlockSize != 128 {
		t.Errorf("Unexpected bench defaults: %+v", cfg.Bench)
	}
	if len(cfg.Bench.SampleSizes) != 20 {
		t.Errorf("Expected 20 default sample sizes, got %d", len(cfg.Bench.SampleSizes))
	}
	if cfg.Bench.SampleSizes[0] != 1000 || cfg.Bench.SampleSizes[19] != 100000 {
		t.Errorf("Unexpected sample size ladder: %v", cfg.Bench.SampleSizes)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("RNGLAB_PORT", "9090")
	t.Setenv("RNGLAB_TRIALS", "3")
	t.Setenv("RNGLAB_SAMPLE_SIZES", "100, 200,300")

	cfg := Load()
	if cfg.Server.Port != "9090" {
		t.Errorf("Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Bench.Trials != 3 {
		t.Errorf("Trials = %d, want 3", cfg.Bench.Trials)
	}
	want := []int{100, 200, 300}
	if len(cfg.Bench.SampleSizes) != len(want) {
		t.Fatalf("SampleSizes = %v, want %v", cfg.Bench.SampleSizes, want)
	}
	for i := range want {
		if cfg.Bench.SampleSizes[i] != want[i] {
			t.Errorf("SampleSizes[%d] = %d, want %d", i, cfg.Bench.SampleSizes[i], want[i])
		}
	}
}

func TestMalformedSampleSizesFallBack(t *testing.T) {
	t.Setenv("RNGLAB_SAMPLE_SIZES", "100,banana")

	cfg := Load()
	if len(cfg.Bench.SampleSizes) != 20 {
		t.Errorf("Expected fallback to defaults, got %v", cfg.Bench.SampleSizes)
	}
}
