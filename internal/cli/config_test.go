package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), configFile)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultConfigValid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() = %v", err)
	}
	if cfg.Placement.Ordering != netlist.OrderConnectionDensity {
		t.Errorf("ordering = %q", cfg.Placement.Ordering)
	}
	if cfg.Cache.Backend != backendFile || cfg.Store.Backend != backendFile {
		t.Errorf("backends = %q, %q", cfg.Cache.Backend, cfg.Store.Backend)
	}
}

func TestLoadConfigMissing(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.toml")

	cfg, err := LoadConfig(path, false)
	if err != nil {
		t.Fatalf("LoadConfig(optional) = %v", err)
	}
	if cfg.Features.MaxNeighbors != DefaultConfig().Features.MaxNeighbors {
		t.Errorf("defaults not applied: %+v", cfg.Features)
	}

	if _, err := LoadConfig(path, true); !errs.Is(err, errs.ErrCodeFileNotFound) {
		t.Errorf("LoadConfig(required) = %v, want FILE_NOT_FOUND", err)
	}
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
[features]
max_neighbors = 5
simplified = true
grid_x = 0.5

[placement]
ordering = "area"

[hpwl]
ignore_nets = ["GND", "VCC"]

[cache]
backend = "none"
ttl = "36h"

[store]
backend = "mongo"
mongo_uri = "mongodb://localhost:27017"
`)

	cfg, err := LoadConfig(path, true)
	if err != nil {
		t.Fatalf("LoadConfig() = %v", err)
	}
	if cfg.Features.MaxNeighbors != 5 || !cfg.Features.Simplified || cfg.Features.GridX != 0.5 {
		t.Errorf("features = %+v", cfg.Features)
	}
	if cfg.Features.GridY != 1 {
		t.Errorf("grid_y = %v, want default 1", cfg.Features.GridY)
	}
	if cfg.Placement.Ordering != netlist.OrderArea {
		t.Errorf("ordering = %q", cfg.Placement.Ordering)
	}
	if len(cfg.HPWL.IgnoreNets) != 2 || cfg.HPWL.IgnoreNets[1] != "VCC" {
		t.Errorf("ignore_nets = %v", cfg.HPWL.IgnoreNets)
	}
	if cfg.Cache.Backend != backendNone || cfg.Cache.TTL.Duration != 36*time.Hour {
		t.Errorf("cache = %+v", cfg.Cache)
	}
	if cfg.Store.Backend != backendMongo || cfg.Store.Database == "" {
		t.Errorf("store = %+v", cfg.Store)
	}

	opts := cfg.featureOptions()
	if opts.MaxNeighbors != 5 || !opts.Simplified || opts.GridX != 0.5 {
		t.Errorf("featureOptions() = %+v", opts)
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
		code errs.Code
	}{
		{"unknown key", "[features]\nneighbours = 3\n", errs.ErrCodeInvalidInput},
		{"bad cache backend", "[cache]\nbackend = \"memcached\"\n", errs.ErrCodeInvalidInput},
		{"bad store backend", "[store]\nbackend = \"redis\"\n", errs.ErrCodeInvalidInput},
		{"bad ordering", "[placement]\nordering = \"random\"\n", errs.ErrCodeInvalidOrdering},
		{"bad neighbors", "[features]\nmax_neighbors = 0\n", errs.ErrCodeInvalidInput},
		{"syntax", "[features\n", errs.ErrCodeInvalidFormat},
		{"bad duration", "[cache]\nttl = \"soon\"\n", errs.ErrCodeInvalidFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tt.body), true)
			if !errs.Is(err, tt.code) {
				t.Errorf("LoadConfig() = %v, want %s", err, tt.code)
			}
		})
	}
}
