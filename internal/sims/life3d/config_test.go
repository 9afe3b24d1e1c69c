package life3d

import "testing"

func TestFromMapParsesKnownKeys(t *testing.T) {
	cfg := FromMap(map[string]string{
		"size":    "12",
		"speed":   "9.5",
		"rule":    "4/5-8 Crystal",
		"density": "0.25",
		"seed":    "-42",
		"workers": "3",
	})
	if cfg.Size != 12 || cfg.Speed != 9.5 || cfg.Rule != "4/5-8 Crystal" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Density != 0.25 || cfg.Seed != -42 || cfg.Workers != 3 {
		t.Fatalf("unexpected config %+v", cfg)
	}
}

func TestFromMapKeepsDefaultsOnBadInput(t *testing.T) {
	cfg := FromMap(map[string]string{
		"size":    "0",
		"speed":   "fast",
		"rule":    "",
		"density": "1.5",
		"seed":    "x",
		"workers": "-1",
	})
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
	if FromMap(nil) != DefaultConfig() {
		t.Fatal("nil map should give defaults")
	}
}
