// Mailcheck resolves the DNS records that matter for mail delivery and
// authentication — A, MX, NS, SPF, DMARC and DKIM — for a domain, email
// address or URL.
//
// # Checker
//
// Create a Checker and run lookups:
//
//	checker, err := mailcheck.New(mailcheck.Config{Server: "8.8.8.8"})
//	if err != nil {
//	    log.Fatal(err) // resolver unavailable, nothing will work
//	}
//
//	records, err := checker.Check(ctx, mailcheck.Request{
//	    Identifier: "https://www.example.com",
//	    Flavor:     mailcheck.FlavorTXT,
//	})
//
// Identifiers are normalized first: URLs lose their scheme and a leading
// "www.", email addresses keep only the domain, and the host is reduced to
// its registrable domain unless subdomains are requested. Each record-type
// flavor (TXT, CNAME or both) produces one Record.
//
// DKIM lookups need a selector. When none is given, a fixed list of
// well-known selectors is probed in order and the first match wins:
//
//	records, err := checker.Check(ctx, mailcheck.Request{
//	    Identifier: "example.com",
//	    Selector:   "", // probe DefaultSelectors
//	})
//
// Absent records are empty fields, never errors; only a malformed
// identifier or an unusable resolver fails a Check call.
//
// # Export
//
// Result slices serialize to CSV, JSON or MessagePack:
//
//	path, err := mailcheck.ExportFile(".", mailcheck.FormatCSV, records)
//
// For simple use cases:
//
//	records, err := mailcheck.Check(ctx, "user@mail.example.co.uk")
package mailcheck

import "context"

// Check resolves mail records for one identifier with default settings:
// the default server, TXT flavor and selector probing.
func Check(ctx context.Context, identifier string) ([]Record, error) {
	checker, err := New(Config{})
	if err != nil {
		return nil, err
	}
	return checker.Check(ctx, Request{Identifier: identifier})
}
