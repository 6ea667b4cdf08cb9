// Package dns provides the typed DNS lookups mailcheck needs: A, MX, NS,
// TXT and CNAME queries against a single configured server.
//
// Two implementations are provided: Client (raw queries via
// github.com/miekg/dns, preserves TTLs) and StdClient (the standard library
// resolver pinned to the configured server, TTLs reported as zero).
// MockClient serves tests.
package dns

import (
	"context"
	"errors"
	"net"
)

var (
	// ErrNotFound indicates the lookup came back empty
	// (NXDOMAIN or an answer set without the requested type).
	ErrNotFound = errors.New("dns: no records found")

	// ErrTimeout indicates the query timed out.
	ErrTimeout = errors.New("dns: query timed out")

	// ErrServFail indicates the server returned SERVFAIL.
	ErrServFail = errors.New("dns: server failure")

	// ErrRefused indicates the server refused the query.
	ErrRefused = errors.New("dns: query refused")
)

// IsNotFound reports whether err means "looked, nothing there".
func IsNotFound(err error) bool { return errors.Is(err, ErrNotFound) }

// IsTimeout reports whether err is a query timeout.
func IsTimeout(err error) bool { return errors.Is(err, ErrTimeout) }

// IsServFail reports whether err is a server failure.
func IsServFail(err error) bool { return errors.Is(err, ErrServFail) }

// IsTemporary reports whether a retry might succeed.
func IsTemporary(err error) bool { return IsTimeout(err) || IsServFail(err) }

// TXT is a single TXT answer. Text is the record's character strings
// joined per RFC 7208 Section 3.3.
type TXT struct {
	Text string
	TTL  uint32
}

// MX is a single MX answer. Host has its trailing dot stripped.
type MX struct {
	Host string
	Pref uint16
	TTL  uint32
}

// NS is a single NS answer. Host has its trailing dot stripped.
type NS struct {
	Host string
	TTL  uint32
}

// CNAME is a single CNAME answer. Target has its trailing dot stripped.
type CNAME struct {
	Target string
	TTL    uint32
}

// Result holds the answer set of a single query.
type Result[T any] struct {
	Records []T
}

// Resolver is the interface for the DNS lookups mailcheck performs.
// Implementations return ErrNotFound when the answer set is empty and
// never follow CNAME chains on the caller's behalf.
type Resolver interface {
	// LookupA retrieves A records for the given name.
	LookupA(ctx context.Context, name string) (Result[net.IP], error)

	// LookupMX retrieves MX records for the given name.
	LookupMX(ctx context.Context, name string) (Result[MX], error)

	// LookupNS retrieves NS records for the given name.
	LookupNS(ctx context.Context, name string) (Result[NS], error)

	// LookupTXT retrieves TXT records for the given name.
	LookupTXT(ctx context.Context, name string) (Result[TXT], error)

	// LookupCNAME retrieves CNAME records for the given name.
	LookupCNAME(ctx context.Context, name string) (Result[CNAME], error)
}
