// Package mdns sweeps the local network for mDNS-advertised services.
//
// A query goes out for each common service type and the answers are
// deduplicated into one service list. Services that expose remote access
// (ssh, telnet, smb, rdp, vnc) are flagged, since advertising them to
// the whole segment is rarely intentional.
package mdns
