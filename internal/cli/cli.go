// Package cli parses the netdiag command line.
//
// The core diagnostic runs with no flags at all; flags select
// supplementary checkers, override file configuration for one run, and
// switch into MCP server mode. Flag values never touch the config file.
package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"
)

// Config is the parsed command line.
type Config struct {
	ConfigPath string
	Count      int      // 0 means use the config file value
	Timeout    int      // seconds; 0 means use the config file value
	DNSServers []string // empty means use the config file list

	ParallelDNS bool
	JSON        bool
	Verbose     bool
	Quiet       bool
	ListChecks  bool
	MCP         bool

	// supplementary checker selection
	Routes    bool
	MDNS      bool
	External  bool
	DNSCheck  bool
	IPv6      bool
	Identify  bool
	Starlink  bool
	AllChecks bool

	// checker options
	MDNSTimeout  time.Duration
	DNSServer    string
	StarlinkAddr string
}

// stringList collects a repeatable string flag.
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(value string) error {
	if value == "" {
		return fmt.Errorf("empty value")
	}
	*s = append(*s, value)
	return nil
}

// ParseFlags parses args (not including the program name) into a
// Config. A fresh FlagSet keeps tests independent of global flag state.
func ParseFlags(args []string, stderr io.Writer) (*Config, error) {
	cfg := &Config{}
	fs := flag.NewFlagSet("netdiag", flag.ContinueOnError)
	fs.SetOutput(stderr)

	fs.StringVar(&cfg.ConfigPath, "config", "netdiag.json", "Path to the configuration file")
	fs.IntVar(&cfg.Count, "count", 0, "Echo requests per ping (overrides config)")
	fs.IntVar(&cfg.Timeout, "timeout", 0, "Per-probe timeout in seconds (overrides config)")

	var dns stringList
	fs.Var(&dns, "dns", "Name to resolve; repeatable (overrides config list)")

	fs.BoolVar(&cfg.ParallelDNS, "parallel-dns", false, "Resolve configured names concurrently")
	fs.BoolVar(&cfg.JSON, "json", false, "Print the report as JSON")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Echo debug logging to stderr")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "Echo only errors to stderr")
	fs.BoolVar(&cfg.ListChecks, "list-checks", false, "List supplementary checkers and exit")
	fs.BoolVar(&cfg.MCP, "mcp", false, "Run as an MCP server on stdio")

	fs.BoolVar(&cfg.Routes, "routes", false, "Dump the system routing tables")
	fs.BoolVar(&cfg.MDNS, "mdns", false, "Sweep for mDNS-advertised services")
	fs.BoolVar(&cfg.External, "external", false, "Discover external IPv4/IPv6 addresses")
	fs.BoolVar(&cfg.DNSCheck, "dnscheck", false, "Query a DNS server directly")
	fs.BoolVar(&cfg.IPv6, "ipv6", false, "Report IPv6 posture")
	fs.BoolVar(&cfg.Identify, "identify", false, "Identify the gateway device")
	fs.BoolVar(&cfg.Starlink, "starlink", false, "Probe for a Starlink dish")
	fs.BoolVar(&cfg.AllChecks, "all-checks", false, "Run every supplementary checker")

	fs.DurationVar(&cfg.MDNSTimeout, "mdns-timeout", time.Second, "Per-service-type mDNS query timeout")
	fs.StringVar(&cfg.DNSServer, "dns-server", "", "DNS server for -dnscheck (host or host:port)")
	fs.StringVar(&cfg.StarlinkAddr, "starlink-addr", "", "Starlink dish endpoint for -starlink")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: netdiag [options]\n\n")
		fmt.Fprintf(stderr, "Runs local network diagnostics: active address, default gateway,\n")
		fmt.Fprintf(stderr, "gateway reachability, and DNS resolvability.\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	cfg.DNSServers = dns

	if cfg.Count < 0 {
		return nil, fmt.Errorf("-count must be positive, got %d", cfg.Count)
	}
	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("-timeout must be positive, got %d", cfg.Timeout)
	}
	if cfg.Quiet && cfg.Verbose {
		return nil, fmt.Errorf("-quiet and -verbose are mutually exclusive")
	}

	return cfg, nil
}

// CheckerRequested reports whether the named checker was selected.
func (c *Config) CheckerRequested(name string) bool {
	if c.AllChecks {
		return true
	}
	switch name {
	case "routes":
		return c.Routes
	case "mdns":
		return c.MDNS
	case "external":
		return c.External
	case "dnscheck":
		return c.DNSCheck
	case "ipv6":
		return c.IPv6
	case "identify":
		return c.Identify
	case "starlink":
		return c.Starlink
	}
	return false
}

// AnyCheckerRequested reports whether any supplementary checker runs.
func (c *Config) AnyCheckerRequested() bool {
	return c.AllChecks || c.Routes || c.MDNS || c.External ||
		c.DNSCheck || c.IPv6 || c.Identify || c.Starlink
}
