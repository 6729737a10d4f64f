// Package config loads the netdiag configuration file.
//
// The file is JSON with two sections, network and log. Every key has a
// default; a missing file is written out with the defaults on first run,
// a partial file is merged over them, and an unreadable file degrades to
// pure defaults with a warning. Loading never fails the program: a
// diagnostic tool that dies on a bad config file cannot diagnose
// anything.
package config

import (
	"errors"
	"io/fs"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// DefaultPath is where the config file lives unless -config says
// otherwise.
const DefaultPath = "netdiag.json"

const (
	defaultProbeCount = 1
	defaultTimeoutSec = 5
	defaultLogLevel   = "info"
	defaultLogFile    = "netdiag.log"
	defaultMaxBytes   = 1048576
	defaultBackups    = 3
)

func defaultDNSServers() []string {
	return []string{"google.com", "8.8.8.8"}
}

// Provider exposes read-only configuration accessors backed by viper.
type Provider struct {
	v   *viper.Viper
	log zerolog.Logger
}

// Load reads the config at path, creating it with defaults when absent.
func Load(path string, log zerolog.Logger) *Provider {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")
	setDefaults(v)

	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		if werr := v.WriteConfigAs(path); werr != nil {
			log.Warn().Err(werr).Str("path", path).Msg("could not write default config")
		} else {
			log.Info().Str("path", path).Msg("created default config")
		}
		return &Provider{v: v, log: log}
	}

	if err := v.ReadInConfig(); err != nil {
		// Defaults remain in effect; viper keeps them separate from
		// whatever half-parsed state the file produced.
		log.Warn().Err(err).Str("path", path).Msg("could not load config file, using defaults")
	}
	return &Provider{v: v, log: log}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("network.ping_count", defaultProbeCount)
	v.SetDefault("network.timeout", defaultTimeoutSec)
	v.SetDefault("network.dns_servers", defaultDNSServers())
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.file", defaultLogFile)
	v.SetDefault("log.max_bytes", defaultMaxBytes)
	v.SetDefault("log.backup_count", defaultBackups)
}

// ProbeCount is the number of echo requests per ping. Non-positive
// values in the file fall back to the default.
func (p *Provider) ProbeCount() int {
	n := p.v.GetInt("network.ping_count")
	if n <= 0 {
		p.log.Warn().Int("ping_count", n).Msg("ignoring non-positive ping_count")
		return defaultProbeCount
	}
	return n
}

// TimeoutSeconds bounds each individual probe.
func (p *Provider) TimeoutSeconds() int {
	n := p.v.GetInt("network.timeout")
	if n <= 0 {
		p.log.Warn().Int("timeout", n).Msg("ignoring non-positive timeout")
		return defaultTimeoutSec
	}
	return n
}

// Timeout is TimeoutSeconds as a duration.
func (p *Provider) Timeout() time.Duration {
	return time.Duration(p.TimeoutSeconds()) * time.Second
}

// DNSServers is the ordered list of names to resolve. Entries may be
// hostnames or IP literals; an empty list falls back to the default.
func (p *Provider) DNSServers() []string {
	servers := p.v.GetStringSlice("network.dns_servers")
	if len(servers) == 0 {
		return defaultDNSServers()
	}
	return servers
}

func (p *Provider) LogLevel() string { return p.v.GetString("log.level") }

func (p *Provider) LogFile() string { return p.v.GetString("log.file") }

func (p *Provider) LogMaxBytes() int {
	n := p.v.GetInt("log.max_bytes")
	if n <= 0 {
		return defaultMaxBytes
	}
	return n
}

func (p *Provider) LogBackups() int {
	n := p.v.GetInt("log.backup_count")
	if n < 0 {
		return defaultBackups
	}
	return n
}
