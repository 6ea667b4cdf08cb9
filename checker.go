package mailcheck

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/synqronlabs/mailcheck/dns"
)

// DefaultServer is the DNS server queried when none is configured.
const DefaultServer = "8.8.8.8"

// Config contains configuration for a Checker.
type Config struct {
	// Server is the DNS server to query (IPv4 literal, optional port).
	// Default is DefaultServer.
	Server string

	// Timeout is the per-query timeout. Default is the dns package default.
	Timeout time.Duration

	// Retries is the per-query retry count. Default is the dns package default.
	Retries int

	// Selectors is the ordered DKIM selector probe list.
	// Default is DefaultSelectors.
	Selectors []string

	// Logger receives warnings about recoverable lookup failures.
	// Default is slog.Default().
	Logger *slog.Logger

	// Resolver overrides the miekg/dns client built from Server.
	// Mainly for tests.
	Resolver dns.Resolver
}

// Checker resolves mail-related DNS records for identifiers.
// A Checker is safe for sequential reuse across identifiers; each Check
// call owns its own canonical domain and result slice.
type Checker struct {
	resolver  dns.Resolver
	server    string
	timeout   time.Duration
	retries   int
	selectors []string
	log       *slog.Logger
}

// New creates a Checker. It fails with ErrResolverUnavailable when the
// configured server cannot back a resolver; treat that as fatal, no query
// will ever succeed.
func New(config Config) (*Checker, error) {
	if config.Server == "" {
		config.Server = DefaultServer
	}
	if config.Selectors == nil {
		config.Selectors = DefaultSelectors
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	resolver := config.Resolver
	if resolver == nil {
		client, err := dns.NewClient(dns.ClientConfig{
			Server:  config.Server,
			Timeout: config.Timeout,
			Retries: config.Retries,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResolverUnavailable, err)
		}
		resolver = client
	}

	return &Checker{
		resolver:  resolver,
		server:    config.Server,
		timeout:   config.Timeout,
		retries:   config.Retries,
		selectors: config.Selectors,
		log:       config.Logger,
	}, nil
}

// Check resolves all mail-related records for one identifier and returns
// one Record per record-type flavor per domain pass.
//
// The registrable domain is always processed unless SubdomainOnly is set.
// When Subdomains is set and the normalized host is a proper subdomain of
// the registrable domain, the full host gets one additional pass; there is
// no recursion beyond that.
func (c *Checker) Check(ctx context.Context, req Request) ([]Record, error) {
	id := strings.TrimSpace(req.Identifier)
	if !strings.Contains(id, ".") {
		return nil, fmt.Errorf("%w: %q", ErrMalformedIdentifier, req.Identifier)
	}

	host, err := Normalize(id, NormalizeOptions{KeepSubdomains: true})
	if err != nil {
		return nil, err
	}
	canonical := RegistrableDomain(host)

	resolver, server := c.resolver, c.server
	if req.Server != "" && req.Server != c.server {
		client, err := dns.NewClient(dns.ClientConfig{
			Server:  req.Server,
			Timeout: c.timeout,
			Retries: c.retries,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrResolverUnavailable, err)
		}
		resolver, server = client, req.Server
	}

	domains := []string{canonical}
	switch {
	case req.SubdomainOnly:
		domains = []string{host}
	case req.Subdomains && host != canonical:
		// Bounded extra pass over the full host. The suffix check is the
		// termination invariant: the host must be strictly more specific
		// than the canonical domain.
		if strings.HasSuffix(host, "."+canonical) {
			domains = append(domains, host)
		}
	}

	flavors := []Flavor{FlavorTXT}
	switch req.Flavor {
	case FlavorCNAME:
		flavors = []Flavor{FlavorCNAME}
	case FlavorBoth:
		flavors = []Flavor{FlavorTXT, FlavorCNAME}
	}

	var records []Record
	for _, domain := range domains {
		hasA := c.hasA(ctx, resolver, domain)
		mx := c.mxText(ctx, resolver, domain)
		if mx == "" {
			c.log.Warn("no MX records", "domain", domain)
		}

		for _, flavor := range flavors {
			records = append(records, Record{
				Domain:     domain,
				RecordType: flavor,
				Server:     server,
				HasA:       hasA,
				MX:         mx,
				NS:         c.nsText(ctx, resolver, domain),
				SPF:        c.lookupSPF(ctx, resolver, domain, flavor),
				DMARC:      c.lookupDMARC(ctx, resolver, domain, flavor),
				DKIM:       c.dkimResult(ctx, resolver, domain, req.Selector, flavor),
			})
		}
	}

	return records, nil
}
