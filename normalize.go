package mailcheck

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeOptions controls identifier normalization.
type NormalizeOptions struct {
	// KeepSubdomains skips the reduction to the registrable domain.
	KeepSubdomains bool
}

// Normalize turns a domain, email address or URL into a canonical domain.
//
// The host is taken from the first of these that applies: the host component
// of a URL (with a leading "www." stripped), the part after "@" of an email
// address, or the raw string. The result is lower-cased, converted to its
// ASCII (punycode) form, and unless KeepSubdomains is set reduced to the
// registrable domain (see RegistrableDomain).
//
// Returns ErrMalformedIdentifier when the identifier contains no dot or
// normalizes to nothing.
func Normalize(identifier string, opts NormalizeOptions) (string, error) {
	id := strings.TrimSpace(identifier)
	if !strings.Contains(id, ".") {
		return "", fmt.Errorf("%w: %q", ErrMalformedIdentifier, identifier)
	}

	host := hostPart(id)
	host = strings.ReplaceAll(host, "@", "")
	host = strings.TrimSpace(strings.ToLower(host))
	host = strings.TrimSuffix(host, ".")

	// Unicode identifiers and their punycode form canonicalize identically.
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}

	if !opts.KeepSubdomains {
		host = RegistrableDomain(host)
	}

	if host == "" {
		return "", fmt.Errorf("%w: %q", ErrMalformedIdentifier, identifier)
	}

	return host, nil
}

// hostPart extracts the host from a URL or email identifier, falling back
// to the raw string.
func hostPart(id string) string {
	if u, err := url.Parse(id); err == nil && u.Host != "" {
		host := u.Host
		if h, _, err := net.SplitHostPort(host); err == nil {
			host = h
		}
		return strings.TrimPrefix(host, "www.")
	}

	if i := strings.LastIndex(id, "@"); i >= 0 && i < len(id)-1 {
		return id[i+1:]
	}

	return id
}

// RegistrableDomain reduces a host to its last two labels, or its last
// three when the tail looks like a country-code second-level domain (a
// 2-character label followed by a label of at most 3 characters, e.g.
// "co.uk"). This is a deliberate heuristic, not a public-suffix-list
// lookup.
func RegistrableDomain(host string) string {
	labels := strings.Split(host, ".")
	if len(labels) <= 2 {
		return host
	}

	if len(labels[len(labels)-2]) == 2 && len(labels[len(labels)-1]) <= 3 {
		return strings.Join(labels[len(labels)-3:], ".")
	}

	return strings.Join(labels[len(labels)-2:], ".")
}
