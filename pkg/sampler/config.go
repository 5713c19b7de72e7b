package sampler

import (
	"flag"
	"strconv"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// DefaultRootSpansPerMinute is the built-in budget used when no config
// provider has ever supplied one.
const DefaultRootSpansPerMinute uint32 = 1000

// DefaultRefreshInterval is the period between SamplingController.Update
// calls.
const DefaultRefreshInterval = time.Minute

// DefaultStreamSummarySize is the StreamSummary capacity used when Config
// doesn't override it.
const DefaultStreamSummarySize = 100

// Config is the set of options an operator sets, following the yaml-tagged
// config struct convention tempo module configs use (e.g. friggdb.Config).
// Validate requires Tenant; ClusterID is not checked, so an unset ClusterID
// is used as cluster 0. Every other field is optional.
type Config struct {
	// Tenant forms the tenant half of the vendor tracestate key, after an
	// MD5-based 32-bit XOR-fold.
	Tenant string `yaml:"tenant"`
	// ClusterID forms the cluster half of the vendor tracestate key,
	// formatted as lowercase hex with no leading zeros.
	ClusterID uint32 `yaml:"cluster_id"`

	// RootSpansPerMinute is the initial sampling budget. The controller uses
	// it while the config provider is absent or has not yet returned a
	// non-zero budget; a non-zero provider budget always takes precedence.
	// ApplyDefaults replaces zero with DefaultRootSpansPerMinute.
	RootSpansPerMinute uint32 `yaml:"root_spans_per_minute"`
	// RefreshInterval is the period between Update calls.
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	// StreamSummaryCapacity is the StreamSummary's bounded capacity.
	StreamSummaryCapacity int `yaml:"stream_summary_capacity"`
}

// RegisterFlagsAndApplyDefaults registers this config's flags under prefix
// and fills in every zero-valued field with its default, the convention
// tempo's module configs follow.
func (c *Config) RegisterFlagsAndApplyDefaults(prefix string, f *flag.FlagSet) {
	f.StringVar(&c.Tenant, prefix+".tenant", "", "Tenant id used to form the vendor tracestate key.")

	uint32Flag := func(dst *uint32, name string, def uint32, usage string) {
		*dst = def
		f.Func(name, usage, func(s string) error {
			v, err := strconv.ParseUint(s, 0, 32)
			if err == nil {
				*dst = uint32(v)
			}
			return err
		})
	}
	uint32Flag(&c.ClusterID, prefix+".cluster-id", 0, "Cluster id used to form the vendor tracestate key.")
	uint32Flag(&c.RootSpansPerMinute, prefix+".root-spans-per-minute", DefaultRootSpansPerMinute, "Initial sampling budget, in root spans per minute.")

	f.DurationVar(&c.RefreshInterval, prefix+".refresh-interval", DefaultRefreshInterval, "Period between sampling exponent recomputations.")
	f.IntVar(&c.StreamSummaryCapacity, prefix+".stream-summary-capacity", DefaultStreamSummarySize, "StreamSummary capacity.")
}

// ApplyDefaults fills in every zero-valued field with its default. Hosts
// that build a Config by hand (rather than through flags) should call this
// before passing it to NewController.
func (c *Config) ApplyDefaults() {
	if c.RootSpansPerMinute == 0 {
		c.RootSpansPerMinute = DefaultRootSpansPerMinute
	}
	if c.RefreshInterval == 0 {
		c.RefreshInterval = DefaultRefreshInterval
	}
	if c.StreamSummaryCapacity == 0 {
		c.StreamSummaryCapacity = DefaultStreamSummarySize
	}
}

// Validate enforces the fields this sampler's config requires, wrapping
// failures with pkg/errors the way cmd/frigg/app/config.go wraps its own
// config validation. ClusterID has no required check: it is a bare uint32,
// so a caller that never sets it is indistinguishable from one that legitimately
// configured cluster 0, and rejecting 0 would make that cluster id unusable.
func (c *Config) Validate() error {
	if c.Tenant == "" {
		return errors.New("sampler config: tenant must be set")
	}
	if c.RefreshInterval < 0 {
		return errors.Errorf("sampler config: refresh_interval must be non-negative, got %s", c.RefreshInterval)
	}
	if c.StreamSummaryCapacity < 0 {
		return errors.Errorf("sampler config: stream_summary_capacity must be non-negative, got %d", c.StreamSummaryCapacity)
	}
	return nil
}

// LoadConfig parses a YAML document into a Config, applying defaults to
// any field the document leaves zero-valued.
func LoadConfig(data []byte) (Config, error) {
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return Config{}, errors.Wrap(err, "sampler config: failed to parse yaml")
	}
	c.ApplyDefaults()
	return c, nil
}
