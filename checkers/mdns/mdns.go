package mdns

import (
	"strings"
	"time"

	"github.com/hashicorp/mdns"

	"github.com/asennott/netdiag/checkers/common"
	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
)

type MDNSChecker struct{}

type MDNSConfig struct {
	ServiceTypes []string
	Timeout      time.Duration // per service type
}

// commonServiceTypes are the types most home and office devices
// advertise.
var commonServiceTypes = []string{
	"_http._tcp",
	"_https._tcp",
	"_ssh._tcp",
	"_sftp-ssh._tcp",
	"_telnet._tcp",
	"_smb._tcp",
	"_rdp._tcp",
	"_rfb._tcp",
	"_printer._tcp",
	"_ipp._tcp",
	"_airplay._tcp",
	"_raop._tcp",
	"_googlecast._tcp",
	"_device-info._tcp",
	"_workstation._tcp",
	"_homekit._tcp",
}

// riskyServiceTypes map a service type to why its advertisement is worth
// flagging.
var riskyServiceTypes = map[string]string{
	"_ssh._tcp":      "SSH advertised to the whole segment",
	"_sftp-ssh._tcp": "SFTP advertised to the whole segment",
	"_telnet._tcp":   "Telnet is plaintext and should not be advertised",
	"_smb._tcp":      "SMB shares visible to every host on the segment",
	"_rdp._tcp":      "Remote Desktop advertised to the whole segment",
	"_rfb._tcp":      "VNC advertised to the whole segment",
}

// Service is one deduplicated mDNS advertisement.
type Service struct {
	Name string
	Type string
	Host string
	Addr string
	Port int
}

func NewMDNSChecker() checker.Checker {
	return &MDNSChecker{}
}

func (c *MDNSChecker) Name() string {
	return "mdns"
}

func (c *MDNSChecker) Description() string {
	return "mDNS/Bonjour service discovery"
}

func (c *MDNSChecker) Icon() string {
	return "📡"
}

func (c *MDNSChecker) DefaultConfig() checker.CheckerConfig {
	return MDNSConfig{
		ServiceTypes: commonServiceTypes,
		Timeout:      time.Second,
	}
}

func (c *MDNSChecker) RequiresGateway() bool {
	return false
}

func (c *MDNSChecker) DefaultEnabled() bool {
	return false
}

func (c *MDNSChecker) Run(rc *runner.RunContext, config checker.CheckerConfig, out output.Output) {
	cfg := config.(MDNSConfig)
	discover(rc, cfg, out)
}

func (c *MDNSChecker) MCPToolDefinition() *checker.MCPTool {
	return &checker.MCPTool{
		Name:        "discover_services",
		Description: "Sweep the local network for mDNS-advertised services and flag risky advertisements",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"service": map[string]interface{}{
					"type":        "string",
					"description": "A single service type to query (e.g. _ssh._tcp); default sweeps common types",
				},
			},
			"required": []string{},
		},
	}
}

func discover(rc *runner.RunContext, cfg MDNSConfig, out output.Output) {
	out.Section("📡", "mDNS service discovery")

	services := sweep(rc, cfg)
	if len(services) == 0 {
		out.Info("ℹ️  No mDNS services discovered")
		return
	}

	out.Info("📊 Found %d service(s)", len(services))
	for _, svc := range services {
		out.Detail("%s (%s) at %s:%d", svc.Name, svc.Type, svc.Addr, svc.Port)
	}

	for _, finding := range FlagRisky(services) {
		out.Warning("[%s] %s: %s", finding.Severity, finding.Description, finding.Details)
	}
}

// sweep queries each configured type and merges the answers.
func sweep(rc *runner.RunContext, cfg MDNSConfig) []Service {
	var all []Service
	for _, serviceType := range cfg.ServiceTypes {
		entries := queryType(serviceType, cfg.Timeout)
		rc.Log.Debug().Str("type", serviceType).Int("entries", len(entries)).Msg("mdns query done")
		all = append(all, entries...)

		select {
		case <-rc.Ctx.Done():
			return Dedupe(all)
		default:
		}
	}
	return Dedupe(all)
}

func queryType(serviceType string, timeout time.Duration) []Service {
	entriesCh := make(chan *mdns.ServiceEntry, 32)
	done := make(chan []Service, 1)

	go func() {
		var found []Service
		for entry := range entriesCh {
			svc := Service{
				Name: strings.TrimSuffix(entry.Name, "."),
				Type: serviceType,
				Host: strings.TrimSuffix(entry.Host, "."),
				Port: entry.Port,
			}
			if entry.AddrV4 != nil {
				svc.Addr = entry.AddrV4.String()
			} else if entry.AddrV6 != nil {
				svc.Addr = entry.AddrV6.String()
			}
			found = append(found, svc)
		}
		done <- found
	}()

	params := &mdns.QueryParam{
		Service:     serviceType,
		Domain:      "local",
		Timeout:     timeout,
		Entries:     entriesCh,
		DisableIPv6: true,
	}
	// Query errors (no multicast route, socket denied) just mean an
	// empty sweep for this type.
	_ = mdns.Query(params)
	close(entriesCh)

	return <-done
}

// Dedupe collapses duplicate advertisements. The same instance answers
// once per interface it is reachable on.
func Dedupe(services []Service) []Service {
	seen := make(map[string]bool)
	var unique []Service
	for _, svc := range services {
		key := svc.Name + "|" + svc.Type + "|" + svc.Addr
		if seen[key] {
			continue
		}
		seen[key] = true
		unique = append(unique, svc)
	}
	return unique
}

// FlagRisky returns a finding for every advertised remote-access
// service.
func FlagRisky(services []Service) []common.Finding {
	var findings []common.Finding
	for _, svc := range services {
		reason, risky := riskyServiceTypes[svc.Type]
		if !risky {
			continue
		}
		findings = append(findings, common.Finding{
			Severity:    common.SeverityMedium,
			Description: reason,
			Details:     svc.Name + " at " + svc.Addr,
		})
	}
	return findings
}
