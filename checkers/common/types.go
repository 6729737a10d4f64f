package common

import "time"

const (
	SeverityHigh   = "HIGH"
	SeverityMedium = "MEDIUM"
	SeverityLow    = "LOW"
	SeverityInfo   = "INFO"
)

const (
	HTTPTimeout      = 5 * time.Second
	DiscoveryTimeout = 3 * time.Second
	DialTimeout      = 2 * time.Second
)

var SeverityOrder = map[string]int{
	SeverityHigh:   0,
	SeverityMedium: 1,
	SeverityLow:    2,
	SeverityInfo:   3,
}

// Finding is one noteworthy observation a checker makes about the local
// network.
type Finding struct {
	Severity    string
	Description string
	Details     string
}
