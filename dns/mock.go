package dns

import (
	"context"
	"net"
	"slices"
)

// MockClient is a Resolver used for testing.
// Set DNS records in the fields, which map FQDNs (with trailing dot) to values.
type MockClient struct {
	A     map[string][]string
	MX    map[string][]MX
	NS    map[string][]NS
	TXT   map[string][]TXT
	CNAME map[string][]CNAME

	// Fail contains records that will return a temporary error (SERVFAIL).
	// Format: "type name", e.g. "txt example.com." where type is lowercase.
	Fail []string
}

var _ Resolver = MockClient{}

// mockReq represents a mock DNS request.
type mockReq struct {
	Type string // E.g. "a", "mx", "ns", "txt", "cname"
	Name string // FQDN with trailing dot
}

func (mr mockReq) String() string {
	return mr.Type + " " + mr.Name
}

// ensureFQDN ensures the name ends with a dot.
func ensureFQDN(name string) string {
	if len(name) == 0 || name[len(name)-1] != '.' {
		return name + "."
	}
	return name
}

// check handles context cancellation and configured failures.
func (c MockClient) check(ctx context.Context, mr mockReq) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if slices.Contains(c.Fail, mr.String()) {
		return ErrServFail
	}
	return nil
}

// LookupA returns A records for the given name.
func (c MockClient) LookupA(ctx context.Context, name string) (Result[net.IP], error) {
	fqdn := ensureFQDN(name)
	if err := c.check(ctx, mockReq{"a", fqdn}); err != nil {
		return Result[net.IP]{}, err
	}

	var ips []net.IP
	for _, ip := range c.A[fqdn] {
		ips = append(ips, net.ParseIP(ip))
	}

	if len(ips) == 0 {
		return Result[net.IP]{}, ErrNotFound
	}

	return Result[net.IP]{Records: ips}, nil
}

// LookupMX returns MX records for the given name.
func (c MockClient) LookupMX(ctx context.Context, name string) (Result[MX], error) {
	fqdn := ensureFQDN(name)
	if err := c.check(ctx, mockReq{"mx", fqdn}); err != nil {
		return Result[MX]{}, err
	}

	records, ok := c.MX[fqdn]
	if !ok || len(records) == 0 {
		return Result[MX]{}, ErrNotFound
	}

	return Result[MX]{Records: records}, nil
}

// LookupNS returns NS records for the given name.
func (c MockClient) LookupNS(ctx context.Context, name string) (Result[NS], error) {
	fqdn := ensureFQDN(name)
	if err := c.check(ctx, mockReq{"ns", fqdn}); err != nil {
		return Result[NS]{}, err
	}

	records, ok := c.NS[fqdn]
	if !ok || len(records) == 0 {
		return Result[NS]{}, ErrNotFound
	}

	return Result[NS]{Records: records}, nil
}

// LookupTXT returns TXT records for the given name.
func (c MockClient) LookupTXT(ctx context.Context, name string) (Result[TXT], error) {
	fqdn := ensureFQDN(name)
	if err := c.check(ctx, mockReq{"txt", fqdn}); err != nil {
		return Result[TXT]{}, err
	}

	records, ok := c.TXT[fqdn]
	if !ok || len(records) == 0 {
		return Result[TXT]{}, ErrNotFound
	}

	return Result[TXT]{Records: records}, nil
}

// LookupCNAME returns CNAME records for the given name.
func (c MockClient) LookupCNAME(ctx context.Context, name string) (Result[CNAME], error) {
	fqdn := ensureFQDN(name)
	if err := c.check(ctx, mockReq{"cname", fqdn}); err != nil {
		return Result[CNAME]{}, err
	}

	records, ok := c.CNAME[fqdn]
	if !ok || len(records) == 0 {
		return Result[CNAME]{}, ErrNotFound
	}

	return Result[CNAME]{Records: records}, nil
}
