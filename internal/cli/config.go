package cli

import (
	"errors"
	"io/fs"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/pcbgraph/pkg/cache"
	errs "github.com/matzehuels/pcbgraph/pkg/errors"
	"github.com/matzehuels/pcbgraph/pkg/feature"
	"github.com/matzehuels/pcbgraph/pkg/netlist"
	"github.com/matzehuels/pcbgraph/pkg/optimals"
	"github.com/matzehuels/pcbgraph/pkg/server"
)

// configFile is looked up in the working directory when --config is not
// given.
const configFile = "pcbgraph.toml"

// Backend names accepted in the config file.
const (
	backendFile  = "file"
	backendRedis = "redis"
	backendMongo = "mongo"
	backendNone  = "none"
)

// Config is the contents of pcbgraph.toml.
type Config struct {
	Features  FeaturesConfig  `toml:"features"`
	Placement PlacementConfig `toml:"placement"`
	HPWL      HPWLConfig      `toml:"hpwl"`
	Cache     CacheConfig     `toml:"cache"`
	Store     StoreConfig     `toml:"store"`
	Server    ServerConfig    `toml:"server"`
}

// FeaturesConfig holds the encoder defaults.
type FeaturesConfig struct {
	MaxNeighbors int     `toml:"max_neighbors"`
	GridX        float64 `toml:"grid_x"`
	GridY        float64 `toml:"grid_y"`
	Simplified   bool    `toml:"simplified"`
	Normalize    bool    `toml:"normalize"`
}

// PlacementConfig selects the default ordering of next and browse.
type PlacementConfig struct {
	Ordering string `toml:"ordering"`
}

// HPWLConfig lists nets left out of whole-design wirelength.
type HPWLConfig struct {
	IgnoreNets []string `toml:"ignore_nets"`
}

// CacheConfig selects the feature cache backend.
type CacheConfig struct {
	Backend   string   `toml:"backend"`
	Dir       string   `toml:"dir"`
	RedisAddr string   `toml:"redis_addr"`
	TTL       duration `toml:"ttl"`
}

// StoreConfig selects the optimals store backend.
type StoreConfig struct {
	Backend    string `toml:"backend"`
	Dir        string `toml:"dir"`
	MongoURI   string `toml:"mongo_uri"`
	Database   string `toml:"database"`
	Collection string `toml:"collection"`
}

// ServerConfig configures serve.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// duration decodes TOML strings such as "24h".
type duration struct{ time.Duration }

func (d *duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() Config {
	return Config{
		Features: FeaturesConfig{
			MaxNeighbors: feature.DefaultMaxNeighbors,
			GridX:        1,
			GridY:        1,
		},
		Placement: PlacementConfig{Ordering: netlist.OrderConnectionDensity},
		Cache:     CacheConfig{Backend: backendFile, TTL: duration{cache.DefaultTTL}},
		Store: StoreConfig{
			Backend:    backendFile,
			Database:   optimals.DefaultDatabase,
			Collection: optimals.DefaultCollection,
		},
		Server: ServerConfig{Addr: server.DefaultAddr},
	}
}

// LoadConfig reads path over the defaults. A missing file is not an error
// unless required is set.
func LoadConfig(path string, required bool) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		path = configFile
	}
	md, err := toml.DecodeFile(path, &cfg)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return DefaultConfig(), nil
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cfg, errs.Wrap(errs.ErrCodeFileNotFound, err, "config %s", path)
		}
		return cfg, errs.Wrap(errs.ErrCodeInvalidFormat, err, "config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return cfg, errs.New(errs.ErrCodeInvalidInput, "config %s: unknown key %s", path, undecoded[0])
	}
	return cfg, cfg.Validate()
}

// Validate checks enumerated settings and numeric ranges.
func (c Config) Validate() error {
	if c.Features.MaxNeighbors < 1 {
		return errs.New(errs.ErrCodeInvalidInput, "features.max_neighbors must be at least 1, got %d", c.Features.MaxNeighbors)
	}
	if err := errs.ValidateGridPitch(c.Features.GridX, c.Features.GridY); err != nil {
		return err
	}
	if err := errs.ValidateOrdering(c.Placement.Ordering, netlist.Orderings); err != nil {
		return err
	}
	if err := oneOf("cache.backend", c.Cache.Backend, backendFile, backendRedis, backendNone); err != nil {
		return err
	}
	return oneOf("store.backend", c.Store.Backend, backendFile, backendMongo)
}

func oneOf(key, value string, allowed ...string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return errs.New(errs.ErrCodeInvalidInput, "%s: unknown backend %q", key, value)
}

// featureOptions converts the [features] section.
func (c Config) featureOptions() feature.Options {
	return feature.Options{
		MaxNeighbors: c.Features.MaxNeighbors,
		Simplified:   c.Features.Simplified,
		Normalize:    c.Features.Normalize,
		GridX:        c.Features.GridX,
		GridY:        c.Features.GridY,
	}
}
