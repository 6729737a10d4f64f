// Package gatewayid identifies the default gateway device.
//
// Two independent sources are combined: an SSDP M-SEARCH for the root
// device description (friendly name, manufacturer, model) and the MAC
// address from the neighbor table matched against a table of well-known
// router vendor OUI prefixes. Either source can fail silently; whatever
// was learned is reported.
package gatewayid
