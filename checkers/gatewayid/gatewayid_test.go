package gatewayid

import (
	"testing"
)

func TestParseSSDPLocation(t *testing.T) {
	response := "HTTP/1.1 200 OK\r\n" +
		"CACHE-CONTROL: max-age=120\r\n" +
		"LOCATION: http://192.168.1.1:5000/rootDesc.xml\r\n" +
		"SERVER: Linux/5.4 UPnP/1.1 MiniUPnPd/2.1\r\n" +
		"ST: upnp:rootdevice\r\n\r\n"

	if got := ParseSSDPLocation(response); got != "http://192.168.1.1:5000/rootDesc.xml" {
		t.Errorf("ParseSSDPLocation = %q", got)
	}
}

func TestParseSSDPLocationLowercaseHeader(t *testing.T) {
	response := "HTTP/1.1 200 OK\r\nlocation: http://10.0.0.1/desc.xml\r\n\r\n"
	if got := ParseSSDPLocation(response); got != "http://10.0.0.1/desc.xml" {
		t.Errorf("ParseSSDPLocation = %q", got)
	}
}

func TestParseSSDPLocationMissing(t *testing.T) {
	if got := ParseSSDPLocation("HTTP/1.1 200 OK\r\nST: upnp:rootdevice\r\n\r\n"); got != "" {
		t.Errorf("ParseSSDPLocation = %q, want empty", got)
	}
}

func TestParseDeviceDescription(t *testing.T) {
	body := []byte(`<?xml version="1.0"?>
<root xmlns="urn:schemas-upnp-org:device-1-0">
	<device>
		<deviceType>urn:schemas-upnp-org:device:InternetGatewayDevice:2</deviceType>
		<friendlyName>Home Router</friendlyName>
		<manufacturer>RouterCorp</manufacturer>
		<modelName>RG-2000</modelName>
	</device>
</root>`)

	dev := ParseDeviceDescription(body)
	if dev == nil {
		t.Fatal("ParseDeviceDescription = nil")
	}
	if dev.FriendlyName != "Home Router" || dev.Manufacturer != "RouterCorp" || dev.ModelName != "RG-2000" {
		t.Errorf("device = %+v", dev)
	}
}

func TestParseDeviceDescriptionMalformed(t *testing.T) {
	if dev := ParseDeviceDescription([]byte("<invalid>xml<unclosed>")); dev != nil {
		t.Errorf("malformed XML produced %+v", dev)
	}
	if dev := ParseDeviceDescription([]byte("<root></root>")); dev != nil {
		t.Errorf("empty description produced %+v", dev)
	}
}

func TestParseNeighborMAC(t *testing.T) {
	tests := []struct {
		name string
		text string
		ip   string
		want string
	}{
		{
			"ip neigh",
			"192.168.1.1 dev eth0 lladdr f0:9f:c2:11:22:33 REACHABLE\n",
			"192.168.1.1",
			"f0:9f:c2:11:22:33",
		},
		{
			"arp -a darwin",
			"gateway (192.168.1.1) at f0:9f:c2:11:22:33 on en0 ifscope [ethernet]\n",
			"192.168.1.1",
			"f0:9f:c2:11:22:33",
		},
		{
			"arp -a windows dashes",
			"  192.168.1.1           f0-9f-c2-11-22-33     dynamic\n",
			"192.168.1.1",
			"f0:9f:c2:11:22:33",
		},
		{
			"no entry for ip",
			"10.0.0.7 dev eth0 lladdr aa:bb:cc:dd:ee:ff STALE\n",
			"192.168.1.1",
			"",
		},
		{
			"incomplete entry",
			"192.168.1.1 dev eth0  FAILED\n",
			"192.168.1.1",
			"",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ParseNeighborMAC(tt.text, tt.ip); got != tt.want {
				t.Errorf("ParseNeighborMAC = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestVendorForMAC(t *testing.T) {
	if vendor, ok := VendorForMAC("f0:9f:c2:11:22:33"); !ok || vendor != "Ubiquiti" {
		t.Errorf("VendorForMAC(ubiquiti) = (%q, %v)", vendor, ok)
	}
	if vendor, ok := VendorForMAC("F0-9F-C2-11-22-33"); !ok || vendor != "Ubiquiti" {
		t.Errorf("VendorForMAC(dashes, upper) = (%q, %v)", vendor, ok)
	}
	if _, ok := VendorForMAC("02:00:00:00:00:01"); ok {
		t.Error("VendorForMAC matched an unknown OUI")
	}
	if _, ok := VendorForMAC("short"); ok {
		t.Error("VendorForMAC matched a non-MAC string")
	}
}

func TestCheckerMetadata(t *testing.T) {
	c := NewGatewayIDChecker()
	if c.Name() != "identify" {
		t.Errorf("Name() = %q", c.Name())
	}
	if !c.RequiresGateway() {
		t.Error("identify must require a gateway")
	}
	if c.MCPToolDefinition().Name != "identify_gateway" {
		t.Errorf("tool name = %q", c.MCPToolDefinition().Name)
	}
}
