package dump

import (
	"github.com/mbrengel/memscrimper/format"
	"github.com/mbrengel/memscrimper/internal/options"
	"github.com/mbrengel/memscrimper/section"
)

// Config holds the tunable parameters of a single compression run.
type Config struct {
	PageSize uint32

	// NoIntra selects the new-pages encoding variant (spec §3.4): when
	// true, new pages are stored in pagenr order with no intra-dump
	// deduplication; when false (the default) distinct new contents are
	// grouped and each stored once.
	NoIntra bool

	DeltaEnabled bool
	DeltaTag     string

	Inner format.InnerCodec
}

func defaultConfig() *Config {
	return &Config{
		PageSize: section.DefaultPageSize,
		Inner:    format.InnerNone,
	}
}

// Option configures a Config. See With* below for the available knobs.
type Option = options.Option[*Config]

// WithPageSize overrides the default page size (4096).
func WithPageSize(n uint32) Option {
	return options.NoError(func(c *Config) { c.PageSize = n })
}

// WithNoIntra selects the nointra new-pages variant when enabled.
func WithNoIntra(enabled bool) Option {
	return options.NoError(func(c *Config) { c.NoIntra = enabled })
}

// WithDelta enables intra-page delta encoding with the given free-form
// method-name tag (may be empty).
func WithDelta(tag string) Option {
	return options.NoError(func(c *Config) {
		c.DeltaEnabled = true
		c.DeltaTag = tag
	})
}

// WithInner selects the outer (general-purpose) codec the payload is
// wrapped with.
func WithInner(codec format.InnerCodec) Option {
	return options.NoError(func(c *Config) { c.Inner = codec })
}

// ResolveConfig applies opts over the package defaults and returns the
// result. Callers that need to know a setting (such as the configured
// page size) before Encode runs — e.g. to read pages off disk — can call
// this directly instead of duplicating the default/apply logic.
func ResolveConfig(opts ...Option) (*Config, error) {
	cfg := defaultConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Method renders the Config's flags as a section.Method.
func (c *Config) Method() section.Method {
	return section.Method{
		NoIntra:      c.NoIntra,
		DeltaEnabled: c.DeltaEnabled,
		DeltaTag:     c.DeltaTag,
		Inner:        c.Inner,
	}
}
