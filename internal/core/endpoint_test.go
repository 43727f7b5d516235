package core

import (
	"errors"
	"testing"
)

func TestNormalizeEndpoint(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr error
	}{
		{name: "prod alias", raw: "prod", want: DefaultEndpoint},
		{name: "production alias", raw: "PRODUCTION", want: DefaultEndpoint},
		{name: "test alias", raw: "test", want: "https://test.salesforce.com/services/Soap/u/31.0"},
		{name: "sandbox alias", raw: "Sandbox", want: "https://test.salesforce.com/services/Soap/u/31.0"},
		{name: "empty path gets default", raw: "https://na1.salesforce.com", want: "https://na1.salesforce.com/services/Soap/u/31.0"},
		{name: "slash path gets default", raw: "https://na1.salesforce.com/", want: "https://na1.salesforce.com/services/Soap/u/31.0"},
		{name: "port kept", raw: "https://na1.salesforce.com:8443", want: "https://na1.salesforce.com:8443/services/Soap/u/31.0"},
		{name: "user path kept", raw: "https://na1.salesforce.com/services/Soap/u/58.0", want: "https://na1.salesforce.com/services/Soap/u/58.0"},
		{name: "internal host over http", raw: "http://org.internal.salesforce.com", want: "http://org.internal.salesforce.com/services/Soap/u/31.0"},
		{name: "localhost over http", raw: "http://localhost:6109", want: "http://localhost:6109/services/Soap/u/31.0"},
		{name: "public host over http", raw: "http://public.example.com", wantErr: ErrInsecureEndpoint},
		{name: "internal apex over http", raw: "http://internal.salesforce.com", want: "http://internal.salesforce.com/services/Soap/u/31.0"},
		{name: "localhost subdomain over http", raw: "http://api.localhost", want: "http://api.localhost/services/Soap/u/31.0"},
		{name: "localhost lookalike over http", raw: "http://evil-localhost", wantErr: ErrInsecureEndpoint},
		{name: "localhost suffix over http", raw: "http://notlocalhost", wantErr: ErrInsecureEndpoint},
		{name: "internal lookalike over http", raw: "http://evilinternal.salesforce.com", wantErr: ErrInsecureEndpoint},
		{name: "no scheme", raw: "na1.salesforce.com", wantErr: ErrMalformedURL},
		{name: "no host", raw: "https://", wantErr: ErrMalformedURL},
		{name: "garbage", raw: "://bad", wantErr: ErrMalformedURL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeEndpoint(tt.raw)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v (%q)", tt.wantErr, err, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestNormalizeEndpoint_InternalHostSkipsTransportCheck(t *testing.T) {
	// https is always fine; the internal suffix is what lets plain http through.
	for _, raw := range []string{"https://org.internal.salesforce.com", "http://org.internal.salesforce.com"} {
		if _, err := NormalizeEndpoint(raw); errors.Is(err, ErrInsecureEndpoint) {
			t.Errorf("%s should not be rejected by the transport check", raw)
		}
	}
}

func TestCheckSessionEndpoint(t *testing.T) {
	rejected := []string{
		"https://login.salesforce.com",
		"https://test.salesforce.com/services/Soap/u/31.0",
		"https://mytest.my.salesforce.com",
		"prod",
		"https://acme--sandbox.my.salesforce.com",
	}
	for _, ep := range rejected {
		if err := CheckSessionEndpoint(ep); !errors.Is(err, ErrLoginEndpoint) {
			t.Errorf("%s: expected ErrLoginEndpoint, got %v", ep, err)
		}
	}

	if err := CheckSessionEndpoint("https://na42.salesforce.com"); err != nil {
		t.Errorf("instance url should be accepted: %v", err)
	}
}
