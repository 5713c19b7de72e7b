package sampler

import (
	"flag"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestConfigValidateRequiresTenant(t *testing.T) {
	c := Config{}
	err := c.Validate()
	require.Error(t, err)
	require.Contains(t, err.Error(), "tenant")
}

func TestConfigValidateRejectsNegativeRefreshInterval(t *testing.T) {
	c := Config{Tenant: "t", RefreshInterval: -time.Second}
	require.Error(t, c.Validate())
}

func TestConfigValidateRejectsNegativeStreamSummaryCapacity(t *testing.T) {
	c := Config{Tenant: "t", StreamSummaryCapacity: -1}
	require.Error(t, c.Validate())
}

func TestConfigValidateAcceptsMinimalConfig(t *testing.T) {
	c := Config{Tenant: "t"}
	require.NoError(t, c.Validate())
}

func TestConfigApplyDefaultsFillsZeroFieldsOnly(t *testing.T) {
	c := Config{RootSpansPerMinute: 42}
	c.ApplyDefaults()

	require.Equal(t, uint32(42), c.RootSpansPerMinute, "explicitly set fields must survive ApplyDefaults")
	require.Equal(t, DefaultRefreshInterval, c.RefreshInterval)
	require.Equal(t, DefaultStreamSummarySize, c.StreamSummaryCapacity)
}

func TestConfigRegisterFlagsAndApplyDefaults(t *testing.T) {
	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlagsAndApplyDefaults("sampler", fs)
	require.NoError(t, fs.Parse(nil))

	require.Equal(t, DefaultRootSpansPerMinute, c.RootSpansPerMinute)
	require.Equal(t, DefaultRefreshInterval, c.RefreshInterval)
	require.Equal(t, DefaultStreamSummarySize, c.StreamSummaryCapacity)
	require.Equal(t, "", c.Tenant)
	require.Equal(t, uint32(0), c.ClusterID)
}

func TestLoadConfigAppliesDefaults(t *testing.T) {
	c, err := LoadConfig([]byte("tenant: acme\ncluster_id: 7\n"))
	require.NoError(t, err)
	require.Equal(t, "acme", c.Tenant)
	require.Equal(t, uint32(7), c.ClusterID)
	require.Equal(t, DefaultRootSpansPerMinute, c.RootSpansPerMinute)
	require.Equal(t, DefaultRefreshInterval, c.RefreshInterval)
}

func TestLoadConfigRejectsMalformedYAML(t *testing.T) {
	_, err := LoadConfig([]byte("tenant: [this is not a string\n"))
	require.Error(t, err)
}

func TestConfigRegisterFlagsAndApplyDefaultsHonorsOverrides(t *testing.T) {
	var c Config
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	c.RegisterFlagsAndApplyDefaults("sampler", fs)
	require.NoError(t, fs.Parse([]string{
		"-sampler.tenant=acme",
		"-sampler.cluster-id=255",
		"-sampler.root-spans-per-minute=500",
	}))

	require.Equal(t, "acme", c.Tenant)
	require.Equal(t, uint32(255), c.ClusterID)
	require.Equal(t, uint32(500), c.RootSpansPerMinute)
}
