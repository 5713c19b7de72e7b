package main

import (
	"flag"

	"github.com/grafana/adaptive-trace-sampler/pkg/sampler"
)

// Config is the demo binary's root config: the sampler's own Config plus
// the handful of flags that only make sense for a standalone process.
type Config struct {
	Sampler sampler.Config `yaml:"sampler"`

	HTTPListenAddress string `yaml:"http_listen_address"`
	HTTPListenPort    int    `yaml:"http_listen_port"`
}

// RegisterFlagsAndApplyDefaults registers every flag this binary accepts,
// following the same prefix convention the sampler package itself uses.
func (c *Config) RegisterFlagsAndApplyDefaults(f *flag.FlagSet) {
	c.Sampler.RegisterFlagsAndApplyDefaults("sampler", f)
	f.StringVar(&c.HTTPListenAddress, "server.http-listen-address", "0.0.0.0", "Debug HTTP server listen address.")
	f.IntVar(&c.HTTPListenPort, "server.http-listen-port", 3300, "Debug HTTP server listen port.")
}
