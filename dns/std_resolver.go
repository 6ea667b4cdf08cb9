package dns

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"
)

// StdClient implements the Resolver interface using the standard library
// net package, pinned to the configured server through a custom dialer.
// TTLs are not available through this path and are reported as zero.
// Use Client when TTLs matter.
type StdClient struct {
	resolver *net.Resolver
}

var _ Resolver = (*StdClient)(nil)

// NewStdClient creates a stdlib-backed client bound to the configured server.
func NewStdClient(config ClientConfig) (*StdClient, error) {
	addr, err := serverAddr(config.Server)
	if err != nil {
		return nil, err
	}

	timeout := config.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &StdClient{
		resolver: &net.Resolver{
			PreferGo: true,
			Dial: func(ctx context.Context, network, _ string) (net.Conn, error) {
				d := net.Dialer{Timeout: timeout}
				return d.DialContext(ctx, network, addr)
			},
		},
	}, nil
}

// LookupA retrieves A records using the standard library.
func (c *StdClient) LookupA(ctx context.Context, name string) (Result[net.IP], error) {
	name = strings.TrimSuffix(name, ".")

	ips, err := c.resolver.LookupIP(ctx, "ip4", name)
	if err != nil {
		return Result[net.IP]{}, convertError(err)
	}

	if len(ips) == 0 {
		return Result[net.IP]{}, ErrNotFound
	}

	return Result[net.IP]{Records: ips}, nil
}

// LookupMX retrieves MX records using the standard library.
func (c *StdClient) LookupMX(ctx context.Context, name string) (Result[MX], error) {
	name = strings.TrimSuffix(name, ".")

	mxs, err := c.resolver.LookupMX(ctx, name)
	if err != nil {
		return Result[MX]{}, convertError(err)
	}

	var records []MX
	for _, mx := range mxs {
		records = append(records, MX{
			Host: strings.TrimSuffix(mx.Host, "."),
			Pref: mx.Pref,
		})
	}

	if len(records) == 0 {
		return Result[MX]{}, ErrNotFound
	}

	return Result[MX]{Records: records}, nil
}

// LookupNS retrieves NS records using the standard library.
func (c *StdClient) LookupNS(ctx context.Context, name string) (Result[NS], error) {
	name = strings.TrimSuffix(name, ".")

	nss, err := c.resolver.LookupNS(ctx, name)
	if err != nil {
		return Result[NS]{}, convertError(err)
	}

	var records []NS
	for _, ns := range nss {
		records = append(records, NS{Host: strings.TrimSuffix(ns.Host, ".")})
	}

	if len(records) == 0 {
		return Result[NS]{}, ErrNotFound
	}

	return Result[NS]{Records: records}, nil
}

// LookupTXT retrieves TXT records using the standard library.
func (c *StdClient) LookupTXT(ctx context.Context, name string) (Result[TXT], error) {
	name = strings.TrimSuffix(name, ".")

	txts, err := c.resolver.LookupTXT(ctx, name)
	if err != nil {
		return Result[TXT]{}, convertError(err)
	}

	var records []TXT
	for _, txt := range txts {
		records = append(records, TXT{Text: txt})
	}

	if len(records) == 0 {
		return Result[TXT]{}, ErrNotFound
	}

	return Result[TXT]{Records: records}, nil
}

// LookupCNAME retrieves CNAME records using the standard library.
// The stdlib returns the queried name itself when no CNAME exists, which
// is mapped to ErrNotFound here.
func (c *StdClient) LookupCNAME(ctx context.Context, name string) (Result[CNAME], error) {
	name = strings.TrimSuffix(name, ".")

	target, err := c.resolver.LookupCNAME(ctx, name)
	if err != nil {
		return Result[CNAME]{}, convertError(err)
	}

	target = strings.TrimSuffix(target, ".")
	if target == "" || strings.EqualFold(target, name) {
		return Result[CNAME]{}, ErrNotFound
	}

	return Result[CNAME]{Records: []CNAME{{Target: target}}}, nil
}

// convertError converts standard library DNS errors to package errors.
func convertError(err error) error {
	if err == nil {
		return nil
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsNotFound {
			return ErrNotFound
		}
		if dnsErr.IsTimeout {
			return ErrTimeout
		}
		if dnsErr.IsTemporary {
			return ErrServFail
		}
	}

	return fmt.Errorf("dns lookup failed: %w", err)
}
