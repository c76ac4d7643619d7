package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want info", cfg.LogLevel)
	}
	if cfg.MemoryBackend != "file" {
		t.Errorf("MemoryBackend = %q, want file", cfg.MemoryBackend)
	}
	if cfg.ColdThreshold != 4 {
		t.Errorf("ColdThreshold = %d, want 4", cfg.ColdThreshold)
	}
	if cfg.HistoryCap != 100 || cfg.PhraseCap != 50 || cfg.TopicsCap != 10 {
		t.Errorf("caps = %d/%d/%d, want 100/50/10", cfg.HistoryCap, cfg.PhraseCap, cfg.TopicsCap)
	}
	if cfg.SimilarityThreshold != 0.8 {
		t.Errorf("SimilarityThreshold = %v, want 0.8", cfg.SimilarityThreshold)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("COLD_THRESHOLD", "6")
	t.Setenv("PHRASE_CAP", "25")
	t.Setenv("SIMILARITY_THRESHOLD", "0.9")
	t.Setenv("MEMORY_BACKEND", "redis")

	cfg := Load()

	if cfg.ColdThreshold != 6 {
		t.Errorf("ColdThreshold = %d, want 6", cfg.ColdThreshold)
	}
	if cfg.PhraseCap != 25 {
		t.Errorf("PhraseCap = %d, want 25", cfg.PhraseCap)
	}
	if cfg.SimilarityThreshold != 0.9 {
		t.Errorf("SimilarityThreshold = %v, want 0.9", cfg.SimilarityThreshold)
	}
	if cfg.MemoryBackend != "redis" {
		t.Errorf("MemoryBackend = %q, want redis", cfg.MemoryBackend)
	}

	t.Setenv("COLD_THRESHOLD", "not-a-number")
	if got := Load().ColdThreshold; got != 4 {
		t.Errorf("malformed int should fall back to default, got %d", got)
	}
}
