package param

// ClampPolicy controls whether the tree limits modulator output to the
// envelope bounds.
type ClampPolicy int

const (
	// ClampNone propagates modulator output unchanged, in range or not.
	ClampNone ClampPolicy = iota
	// ClampToBounds limits every node's Current to [Min, Max] after its
	// modulator ran.
	ClampToBounds
)

// Config is the tree-wide configuration shared by a root and all of its
// descendants.
type Config struct {
	Baseline  Baseline
	Clamp     ClampPolicy
	Snapshots bool
}

// Option mutates a Config.
type Option func(*Config)

// DefaultConfig returns destructive baseline propagation, no clamping and
// no snapshot publishing.
func DefaultConfig() Config {
	return Config{
		Baseline: Replace(),
		Clamp:    ClampNone,
	}
}

// WithBaseline sets the default child propagation policy of the tree.
func WithBaseline(b Baseline) Option {
	return func(cfg *Config) {
		cfg.Baseline = b
	}
}

// WithClamp sets the range policy applied after each modulator.
func WithClamp(p ClampPolicy) Option {
	return func(cfg *Config) {
		cfg.Clamp = p
	}
}

// WithSnapshots enables atomic publishing of each node's envelope at the end
// of its tick step. Every published snapshot is a fresh allocation.
func WithSnapshots() Option {
	return func(cfg *Config) {
		cfg.Snapshots = true
	}
}

// ApplyOptions applies zero or more options to the default config.
func ApplyOptions(opts ...Option) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
