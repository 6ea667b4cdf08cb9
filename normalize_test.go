package mailcheck

import (
	"errors"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name       string
		identifier string
		opts       NormalizeOptions
		want       string
		wantErr    bool
	}{
		{
			name:       "plain domain",
			identifier: "example.com",
			want:       "example.com",
		},
		{
			name:       "idempotent on canonical domain",
			identifier: "example.com",
			want:       "example.com",
		},
		{
			name:       "url with www",
			identifier: "https://www.example.com",
			want:       "example.com",
		},
		{
			name:       "url with port and path",
			identifier: "https://example.com:8443/some/path",
			want:       "example.com",
		},
		{
			name:       "email keeps only the domain",
			identifier: "user@example.com",
			want:       "example.com",
		},
		{
			name:       "email under ccSLD keeps three labels",
			identifier: "user@mail.example.co.uk",
			want:       "example.co.uk",
		},
		{
			name:       "subdomain reduced to registrable domain",
			identifier: "smtp.mail.example.com",
			want:       "example.com",
		},
		{
			name:       "subdomains kept on request",
			identifier: "smtp.mail.example.com",
			opts:       NormalizeOptions{KeepSubdomains: true},
			want:       "smtp.mail.example.com",
		},
		{
			name:       "uppercase and trailing dot",
			identifier: "EXAMPLE.COM.",
			want:       "example.com",
		},
		{
			name:       "surrounding whitespace",
			identifier: "  example.com  ",
			want:       "example.com",
		},
		{
			name:       "unicode domain to punycode",
			identifier: "bücher.example",
			want:       "xn--bcher-kva.example",
		},
		{
			name:       "no dot",
			identifier: "localhost",
			wantErr:    true,
		},
		{
			name:       "empty after normalization",
			identifier: " . ",
			wantErr:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.identifier, tt.opts)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedIdentifier) {
					t.Fatalf("Normalize(%q) error = %v, want ErrMalformedIdentifier", tt.identifier, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Normalize(%q) failed: %v", tt.identifier, err)
			}
			if got != tt.want {
				t.Errorf("Normalize(%q) = %q, want %q", tt.identifier, got, tt.want)
			}
		})
	}
}

func TestRegistrableDomain(t *testing.T) {
	tests := []struct {
		host string
		want string
	}{
		{"example.com", "example.com"},
		{"mail.example.com", "example.com"},
		{"a.b.c.example.com", "example.com"},
		{"example.co.uk", "example.co.uk"},
		{"mail.example.co.uk", "example.co.uk"},
		{"mail.example.co.jp", "example.co.jp"},
		// Known heuristic limit: 3-char second-level labels are not
		// treated as multi-part TLDs.
		{"example.com.au", "com.au"},
		{"single", "single"},
	}

	for _, tt := range tests {
		if got := RegistrableDomain(tt.host); got != tt.want {
			t.Errorf("RegistrableDomain(%q) = %q, want %q", tt.host, got, tt.want)
		}
	}
}
