package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	mdns "github.com/miekg/dns"
)

// ClientConfig contains configuration for the DNS client.
type ClientConfig struct {
	// Server is the DNS server to query, as an IPv4 literal with an
	// optional port (e.g. "8.8.8.8" or "8.8.8.8:53"). Required.
	Server string

	// Timeout is the timeout for individual DNS queries. Default is 5 seconds.
	Timeout time.Duration

	// Retries is the number of retries for failed queries. Default is 2.
	Retries int
}

// Client implements the Resolver interface using github.com/miekg/dns,
// sending every query to the single configured server.
type Client struct {
	config ClientConfig
	addr   string
	client *mdns.Client
}

var _ Resolver = (*Client)(nil)

// NewClient creates a DNS client bound to the configured server.
// It fails when the server address is not a valid IP literal; callers
// should treat that as a fatal precondition, not a per-query error.
func NewClient(config ClientConfig) (*Client, error) {
	if config.Timeout == 0 {
		config.Timeout = 5 * time.Second
	}
	if config.Retries == 0 {
		config.Retries = 2
	}

	addr, err := serverAddr(config.Server)
	if err != nil {
		return nil, err
	}

	return &Client{
		config: config,
		addr:   addr,
		client: &mdns.Client{
			Timeout: config.Timeout,
		},
	}, nil
}

// serverAddr validates the configured server and appends the default DNS
// port when none is given.
func serverAddr(server string) (string, error) {
	if server == "" {
		return "", fmt.Errorf("dns: no server configured")
	}

	host, port := server, "53"
	if h, p, err := net.SplitHostPort(server); err == nil {
		host, port = h, p
	}

	if net.ParseIP(host) == nil {
		return "", fmt.Errorf("dns: server %q is not an IP address", server)
	}

	return net.JoinHostPort(host, port), nil
}

// ensureAbsolute ensures the domain name ends with a dot (FQDN format).
func ensureAbsolute(name string) string {
	if !strings.HasSuffix(name, ".") {
		return name + "."
	}
	return name
}

// query performs a DNS query with retries.
func (c *Client) query(ctx context.Context, name string, qtype uint16) (*mdns.Msg, error) {
	m := new(mdns.Msg)
	m.SetQuestion(ensureAbsolute(name), qtype)
	m.RecursionDesired = true

	var lastErr error

	for i := 0; i <= c.config.Retries; i++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		resp, _, err := c.client.ExchangeContext(ctx, m, c.addr)
		if err != nil {
			if isTimeout(err) {
				lastErr = ErrTimeout
			} else {
				lastErr = fmt.Errorf("dns query failed: %w", err)
			}
			continue
		}

		switch resp.Rcode {
		case mdns.RcodeSuccess:
			return resp, nil
		case mdns.RcodeNameError: // NXDOMAIN
			return nil, ErrNotFound
		case mdns.RcodeServerFailure:
			lastErr = ErrServFail
			continue
		case mdns.RcodeRefused:
			lastErr = ErrRefused
			continue
		default:
			lastErr = fmt.Errorf("dns: unexpected rcode %d", resp.Rcode)
			continue
		}
	}

	if lastErr != nil {
		return nil, lastErr
	}
	return nil, ErrServFail
}

func isTimeout(err error) bool {
	var nerr net.Error
	return errors.As(err, &nerr) && nerr.Timeout()
}

// LookupA retrieves A records for the given name.
func (c *Client) LookupA(ctx context.Context, name string) (Result[net.IP], error) {
	resp, err := c.query(ctx, name, mdns.TypeA)
	if err != nil {
		return Result[net.IP]{}, err
	}

	var records []net.IP
	for _, rr := range resp.Answer {
		if a, ok := rr.(*mdns.A); ok {
			records = append(records, a.A)
		}
	}

	if len(records) == 0 {
		return Result[net.IP]{}, ErrNotFound
	}

	return Result[net.IP]{Records: records}, nil
}

// LookupMX retrieves MX records for the given name.
func (c *Client) LookupMX(ctx context.Context, name string) (Result[MX], error) {
	resp, err := c.query(ctx, name, mdns.TypeMX)
	if err != nil {
		return Result[MX]{}, err
	}

	var records []MX
	for _, rr := range resp.Answer {
		if mx, ok := rr.(*mdns.MX); ok {
			records = append(records, MX{
				Host: strings.TrimSuffix(mx.Mx, "."),
				Pref: mx.Preference,
				TTL:  mx.Hdr.Ttl,
			})
		}
	}

	if len(records) == 0 {
		return Result[MX]{}, ErrNotFound
	}

	return Result[MX]{Records: records}, nil
}

// LookupNS retrieves NS records for the given name.
func (c *Client) LookupNS(ctx context.Context, name string) (Result[NS], error) {
	resp, err := c.query(ctx, name, mdns.TypeNS)
	if err != nil {
		return Result[NS]{}, err
	}

	var records []NS
	for _, rr := range resp.Answer {
		if ns, ok := rr.(*mdns.NS); ok {
			records = append(records, NS{
				Host: strings.TrimSuffix(ns.Ns, "."),
				TTL:  ns.Hdr.Ttl,
			})
		}
	}

	if len(records) == 0 {
		return Result[NS]{}, ErrNotFound
	}

	return Result[NS]{Records: records}, nil
}

// LookupTXT retrieves TXT records for the given name.
func (c *Client) LookupTXT(ctx context.Context, name string) (Result[TXT], error) {
	resp, err := c.query(ctx, name, mdns.TypeTXT)
	if err != nil {
		return Result[TXT]{}, err
	}

	var records []TXT
	for _, rr := range resp.Answer {
		if txt, ok := rr.(*mdns.TXT); ok {
			// TXT records may be split into multiple character strings,
			// join them per RFC 7208 Section 3.3
			records = append(records, TXT{
				Text: strings.Join(txt.Txt, ""),
				TTL:  txt.Hdr.Ttl,
			})
		}
	}

	if len(records) == 0 {
		return Result[TXT]{}, ErrNotFound
	}

	return Result[TXT]{Records: records}, nil
}

// LookupCNAME retrieves CNAME records for the given name.
func (c *Client) LookupCNAME(ctx context.Context, name string) (Result[CNAME], error) {
	resp, err := c.query(ctx, name, mdns.TypeCNAME)
	if err != nil {
		return Result[CNAME]{}, err
	}

	var records []CNAME
	for _, rr := range resp.Answer {
		if cn, ok := rr.(*mdns.CNAME); ok {
			records = append(records, CNAME{
				Target: strings.TrimSuffix(cn.Target, "."),
				TTL:    cn.Hdr.Ttl,
			})
		}
	}

	if len(records) == 0 {
		return Result[CNAME]{}, ErrNotFound
	}

	return Result[CNAME]{Records: records}, nil
}

// Config returns the client's current configuration.
func (c *Client) Config() ClientConfig {
	return c.config
}
