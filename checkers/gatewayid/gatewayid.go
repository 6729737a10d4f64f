package gatewayid

import (
	"encoding/xml"
	"fmt"
	"net"
	"runtime"
	"strings"
	"time"

	"github.com/asennott/netdiag/checkers/common"
	"github.com/asennott/netdiag/internal/checker"
	"github.com/asennott/netdiag/internal/execx"
	"github.com/asennott/netdiag/internal/output"
	"github.com/asennott/netdiag/internal/runner"
	"github.com/asennott/netdiag/internal/security"
)

type GatewayIDChecker struct{}

type GatewayIDConfig struct {
	SearchTarget     string
	DiscoveryTimeout time.Duration
}

func NewGatewayIDChecker() checker.Checker {
	return &GatewayIDChecker{}
}

func (c *GatewayIDChecker) Name() string {
	return "identify"
}

func (c *GatewayIDChecker) Description() string {
	return "Gateway identification via SSDP and MAC vendor lookup"
}

func (c *GatewayIDChecker) Icon() string {
	return "🔎"
}

func (c *GatewayIDChecker) DefaultConfig() checker.CheckerConfig {
	return GatewayIDConfig{
		SearchTarget:     "upnp:rootdevice",
		DiscoveryTimeout: common.DiscoveryTimeout,
	}
}

func (c *GatewayIDChecker) RequiresGateway() bool {
	return true
}

func (c *GatewayIDChecker) DefaultEnabled() bool {
	return false
}

func (c *GatewayIDChecker) Run(rc *runner.RunContext, config checker.CheckerConfig, out output.Output) {
	cfg := config.(GatewayIDConfig)
	identify(rc, cfg, out)
}

func (c *GatewayIDChecker) MCPToolDefinition() *checker.MCPTool {
	return &checker.MCPTool{
		Name:        "identify_gateway",
		Description: "Identify the gateway device via SSDP root device description and MAC vendor lookup",
		InputSchema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"gateway_ip": map[string]interface{}{
					"type":        "string",
					"description": "Gateway address; defaults to the discovered one",
				},
			},
			"required": []string{},
		},
	}
}

// Device is the root device description subset worth showing.
type Device struct {
	FriendlyName string `xml:"device>friendlyName"`
	Manufacturer string `xml:"device>manufacturer"`
	ModelName    string `xml:"device>modelName"`
}

func identify(rc *runner.RunContext, cfg GatewayIDConfig, out output.Output) {
	out.Section("🔎", "Gateway identification")
	out.Info("Gateway: %s", rc.Gateway)

	identified := false

	if dev := ssdpIdentify(rc, cfg); dev != nil {
		identified = true
		if dev.FriendlyName != "" {
			out.Success("Device: %s", dev.FriendlyName)
		}
		if dev.Manufacturer != "" || dev.ModelName != "" {
			out.Detail("%s %s", dev.Manufacturer, dev.ModelName)
		}
	}

	if mac := neighborMAC(rc, cfg); mac != "" {
		out.Detail("MAC: %s", mac)
		if vendor, ok := VendorForMAC(mac); ok {
			identified = true
			out.Success("Vendor (OUI): %s", vendor)
		}
	}

	if !identified {
		out.Info("ℹ️  Gateway did not identify itself")
	}
}

// ssdpIdentify sends an M-SEARCH and fetches the first root device
// description a responder on the gateway address points at.
func ssdpIdentify(rc *runner.RunContext, cfg GatewayIDConfig) *Device {
	location := msearch(rc.Gateway, cfg.SearchTarget, cfg.DiscoveryTimeout)
	if location == "" {
		return nil
	}
	rc.Log.Debug().Str("location", location).Msg("ssdp root device description")

	client := security.NewHTTPClient(security.GatewayClientConfig())
	resp, err := client.Get(location)
	if err != nil {
		return nil
	}
	body, err := security.LimitedReadAll(resp.Body, 1<<20)
	if err != nil {
		return nil
	}
	return ParseDeviceDescription(body)
}

// msearch multicasts one M-SEARCH and returns the LOCATION header of
// the first response coming from gatewayIP.
func msearch(gatewayIP, searchTarget string, timeout time.Duration) string {
	localAddr, err := net.ResolveUDPAddr("udp4", ":0")
	if err != nil {
		return ""
	}
	conn, err := net.ListenUDP("udp4", localAddr)
	if err != nil {
		return ""
	}
	defer conn.Close()

	maddr, err := net.ResolveUDPAddr("udp4", "239.255.255.250:1900")
	if err != nil {
		return ""
	}

	request := fmt.Sprintf("M-SEARCH * HTTP/1.1\r\n"+
		"HOST: 239.255.255.250:1900\r\n"+
		"MAN: \"ssdp:discover\"\r\n"+
		"ST: %s\r\n"+
		"MX: 2\r\n\r\n", searchTarget)

	if _, err := conn.WriteTo([]byte(request), maddr); err != nil {
		return ""
	}

	conn.SetDeadline(time.Now().Add(timeout))
	buffer := make([]byte, 4096)

	for {
		n, from, err := conn.ReadFrom(buffer)
		if err != nil {
			return ""
		}
		if udp, ok := from.(*net.UDPAddr); !ok || udp.IP.String() != gatewayIP {
			continue
		}
		if location := ParseSSDPLocation(string(buffer[:n])); location != "" {
			return location
		}
	}
}

// ParseSSDPLocation extracts the LOCATION header from an SSDP response.
func ParseSSDPLocation(response string) string {
	for _, line := range strings.Split(response, "\r\n") {
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(parts[0]), "LOCATION") {
			return strings.TrimSpace(parts[1])
		}
	}
	return ""
}

// ParseDeviceDescription decodes a UPnP root device description,
// tolerating malformed XML.
func ParseDeviceDescription(body []byte) *Device {
	var dev Device
	if err := xml.Unmarshal(body, &dev); err != nil {
		return nil
	}
	if dev.FriendlyName == "" && dev.Manufacturer == "" && dev.ModelName == "" {
		return nil
	}
	return &dev
}

// neighborMAC scrapes the neighbor/ARP table for the gateway's MAC.
func neighborMAC(rc *runner.RunContext, cfg GatewayIDConfig) string {
	run := execx.NewCommandRunner(rc.Log)

	name, args := "ip", []string{"neigh", "show", rc.Gateway}
	if runtime.GOOS == "windows" || runtime.GOOS == "darwin" {
		name, args = "arp", []string{"-a"}
	}

	res := run.Run(rc.Ctx, name, args, cfg.DiscoveryTimeout)
	if !res.OK || res.ExitCode != 0 {
		return ""
	}
	return ParseNeighborMAC(res.Payload, rc.Gateway)
}

// ParseNeighborMAC finds the MAC on the line mentioning ip. Both
// `ip neigh` and `arp -a` put a colon- or dash-separated MAC somewhere
// on that line.
func ParseNeighborMAC(text, ip string) string {
	for _, line := range strings.Split(text, "\n") {
		if !strings.Contains(line, ip) {
			continue
		}
		for _, field := range strings.Fields(line) {
			candidate := strings.ReplaceAll(field, "-", ":")
			if _, err := net.ParseMAC(candidate); err == nil {
				return strings.ToLower(candidate)
			}
		}
	}
	return ""
}

// ouiVendors maps well-known router vendor OUI prefixes to vendor
// names. Deliberately small: unknown prefixes just mean no vendor line.
var ouiVendors = map[string]string{
	"00:0c:42": "MikroTik",
	"48:8f:5a": "MikroTik",
	"64:d1:54": "MikroTik",
	"f0:9f:c2": "Ubiquiti",
	"74:ac:b9": "Ubiquiti",
	"e0:63:da": "Ubiquiti",
	"00:14:bf": "Linksys",
	"a0:40:a0": "Netgear",
	"28:c6:8e": "Netgear",
	"f4:f2:6d": "TP-Link",
	"ec:08:6b": "TP-Link",
	"d8:50:e6": "ASUS",
	"04:d9:f5": "ASUS",
	"00:05:5d": "D-Link",
	"00:24:01": "D-Link",
	"00:1d:aa": "DrayTek",
	"00:18:0a": "Cisco Meraki",
	"00:11:32": "Synology",
}

// VendorForMAC looks the MAC's OUI prefix up in the vendor table.
func VendorForMAC(mac string) (string, bool) {
	mac = strings.ToLower(strings.ReplaceAll(mac, "-", ":"))
	if len(mac) < 8 {
		return "", false
	}
	vendor, ok := ouiVendors[mac[:8]]
	return vendor, ok
}
