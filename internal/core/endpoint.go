package core

import (
	"net/url"
	"strings"
)

const (
	// DefaultServicePath is appended to endpoints given without a path.
	DefaultServicePath = "/services/Soap/u/31.0"

	// DefaultEndpoint is the production login endpoint.
	DefaultEndpoint = "https://login.salesforce.com" + DefaultServicePath
)

// insecureHosts may be reached over plain http, along with their subdomains.
var insecureHosts = []string{"internal.salesforce.com", "localhost"}

// loginHostMarkers identify login-type hosts, which cannot serve a session id.
var loginHostMarkers = []string{"login.salesforce.com", "test.salesforce.com", "test", "prod", "sandbox"}

// SandboxEndpoint returns the sandbox login endpoint.
func SandboxEndpoint() string {
	return strings.Replace(DefaultEndpoint, "login", "test", 1)
}

// NormalizeEndpoint validates raw and rewrites it into canonical form.
//
// PROD/PRODUCTION and TEST/SANDBOX are aliases for the login endpoints.
// Plain http is only accepted for internal and loopback hosts, and an
// empty path is replaced with DefaultServicePath.
func NormalizeEndpoint(raw string) (string, error) {
	endpoint := strings.TrimSpace(raw)
	switch {
	case strings.EqualFold(endpoint, "PROD"), strings.EqualFold(endpoint, "PRODUCTION"):
		endpoint = DefaultEndpoint
	case strings.EqualFold(endpoint, "TEST"), strings.EqualFold(endpoint, "SANDBOX"):
		endpoint = SandboxEndpoint()
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", &EndpointError{Endpoint: raw, Kind: ErrMalformedURL, Err: err}
	}
	if u.Scheme == "" || u.Host == "" || u.Hostname() == "" {
		return "", &EndpointError{Endpoint: raw, Kind: ErrMalformedURL}
	}

	if !strings.EqualFold(u.Scheme, "https") {
		host := strings.ToLower(u.Hostname())
		allowed := false
		for _, h := range insecureHosts {
			if host == h || strings.HasSuffix(host, "."+h) {
				allowed = true
				break
			}
		}
		if !allowed {
			return "", &EndpointError{Endpoint: raw, Kind: ErrInsecureEndpoint}
		}
	}

	if u.Path == "" || u.Path == "/" {
		u = &url.URL{Scheme: u.Scheme, Host: u.Host, Path: DefaultServicePath}
	}
	return u.String(), nil
}

// CheckSessionEndpoint rejects endpoints that look like a login host.
// A session id must be used against the instance URL it was issued for.
func CheckSessionEndpoint(endpoint string) error {
	lower := strings.ToLower(endpoint)
	for _, marker := range loginHostMarkers {
		if strings.Contains(lower, marker) {
			return &EndpointError{Endpoint: endpoint, Kind: ErrLoginEndpoint}
		}
	}
	return nil
}
