package security

import (
	"crypto/tls"
	"io"
	"net/http"
	"time"
)

// HTTPClientConfig holds settings for outbound HTTP probes.
type HTTPClientConfig struct {
	Timeout            time.Duration
	InsecureSkipVerify bool  // gateways usually carry self-signed certs
	MaxResponseSize    int64 // cap on response bodies
	MinTLSVersion      uint16
}

// GatewayClientConfig suits probes against the local gateway, where
// self-signed certificates are the norm.
func GatewayClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:            5 * time.Second,
		InsecureSkipVerify: true,
		MaxResponseSize:    1 << 20,
		MinTLSVersion:      tls.VersionTLS12,
	}
}

// ExternalClientConfig suits probes against trusted internet services
// and requires valid certificates.
func ExternalClientConfig() HTTPClientConfig {
	return HTTPClientConfig{
		Timeout:            5 * time.Second,
		InsecureSkipVerify: false,
		MaxResponseSize:    64 << 10,
		MinTLSVersion:      tls.VersionTLS12,
	}
}

// NewHTTPClient builds a client with bounded timeouts at every phase and
// a small connection pool. Diagnostic probes are one-shot; nothing here
// should hold resources after the check finishes.
func NewHTTPClient(config HTTPClientConfig) *http.Client {
	return &http.Client{
		Timeout: config.Timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				InsecureSkipVerify: config.InsecureSkipVerify,
				MinVersion:         config.MinTLSVersion,
			},
			TLSHandshakeTimeout:   config.Timeout,
			ResponseHeaderTimeout: config.Timeout,
			ExpectContinueTimeout: time.Second,
			MaxIdleConns:          4,
			MaxIdleConnsPerHost:   2,
			IdleConnTimeout:       10 * time.Second,
		},
	}
}

// LimitedReadAll reads a response body with a size cap.
func LimitedReadAll(body io.ReadCloser, maxSize int64) ([]byte, error) {
	defer body.Close()
	return io.ReadAll(io.LimitReader(body, maxSize))
}
