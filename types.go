package mailcheck

import (
	"fmt"
	"strings"
)

// Flavor selects how SPF, DMARC and DKIM are queried: as TXT records,
// as CNAME records (following the chain one hop), or both.
type Flavor string

const (
	FlavorTXT   Flavor = "TXT"
	FlavorCNAME Flavor = "CNAME"
	FlavorBoth  Flavor = "BOTH"
)

// ParseFlavor parses a flavor name, case-insensitively.
func ParseFlavor(s string) (Flavor, error) {
	switch Flavor(strings.ToUpper(strings.TrimSpace(s))) {
	case FlavorTXT:
		return FlavorTXT, nil
	case FlavorCNAME:
		return FlavorCNAME, nil
	case FlavorBoth:
		return FlavorBoth, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFlavor, s)
}

// DKIMStatus tags the outcome of a DKIM lookup.
type DKIMStatus string

const (
	// DKIMFound means a record was found, with Selector and Value set.
	DKIMFound DKIMStatus = "found"

	// DKIMNotFound means a selector was supplied but nothing matched.
	DKIMNotFound DKIMStatus = "notfound"

	// DKIMNotFoundAfterProbe means the whole well-known selector list
	// was tried without a match.
	DKIMNotFoundAfterProbe DKIMStatus = "unfound"
)

// DKIMResult is the tagged outcome of a DKIM lookup.
//
// On DKIMFound, Selector is the selector that produced the match (either
// the requested one or the probe-list hit) and Value is the record text.
// On DKIMNotFound, Selector is the selector that was requested.
// On DKIMNotFoundAfterProbe both Selector and Value are empty.
type DKIMResult struct {
	Status   DKIMStatus `json:"status"`
	Selector string     `json:"selector,omitempty"`
	Value    string     `json:"value,omitempty"`
}

// Record is the result of one record-type pass over one domain.
// Absent string fields are empty; HasA reports existence only.
type Record struct {
	Domain     string     `json:"domain"`
	RecordType Flavor     `json:"recordtype"`
	Server     string     `json:"server"`
	HasA       bool       `json:"a"`
	MX         string     `json:"mx,omitempty"`
	NS         string     `json:"ns,omitempty"`
	SPF        string     `json:"spf,omitempty"`
	DMARC      string     `json:"dmarc,omitempty"`
	DKIM       DKIMResult `json:"dkim"`
}

// Request describes one lookup invocation.
type Request struct {
	// Identifier is a domain, email address or URL. Must contain a dot.
	Identifier string

	// Subdomains adds a second pass over the full host when the
	// identifier is more specific than the registrable domain.
	Subdomains bool

	// SubdomainOnly runs only the full-host pass.
	SubdomainOnly bool

	// Selector is the DKIM selector to query. Empty means probe the
	// checker's well-known selector list.
	Selector string

	// Flavor selects TXT, CNAME or both passes. Empty means TXT.
	Flavor Flavor

	// Server optionally overrides the checker's DNS server for this
	// request (IPv4 literal).
	Server string
}
