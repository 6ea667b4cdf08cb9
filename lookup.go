package mailcheck

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/synqronlabs/mailcheck/dns"
)

// Record prefixes per RFC 7208, RFC 7489 and RFC 6376.
const (
	spfPrefix   = "v=spf1"
	dmarcPrefix = "v=DMARC1"
	dkimPrefix  = "v=DKIM1"
)

// nsLimit caps the NS summary at the first answers; full NS sets are
// rarely needed for mail diagnostics.
const nsLimit = 2

// formatMX formats MX answers ordered by ascending preference.
func formatMX(records []dns.MX) string {
	sorted := make([]dns.MX, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Pref < sorted[j].Pref
	})

	parts := make([]string, 0, len(sorted))
	for _, mx := range sorted {
		host := strings.ToLower(strings.TrimSuffix(mx.Host, "."))
		parts = append(parts, fmt.Sprintf("%s (pref %d, ttl %d)", host, mx.Pref, mx.TTL))
	}
	return strings.Join(parts, "; ")
}

// formatNS formats up to nsLimit NS answers in response order.
func formatNS(records []dns.NS) string {
	if len(records) > nsLimit {
		records = records[:nsLimit]
	}

	parts := make([]string, 0, len(records))
	for _, ns := range records {
		host := strings.ToLower(strings.TrimSuffix(ns.Host, "."))
		parts = append(parts, fmt.Sprintf("%s (ttl %d)", host, ns.TTL))
	}
	return strings.Join(parts, "; ")
}

// firstWithPrefix returns the first TXT string starting with prefix.
func firstWithPrefix(records []dns.TXT, prefix string) (string, bool) {
	for _, txt := range records {
		if strings.HasPrefix(strings.TrimSpace(txt.Text), prefix) {
			return strings.TrimSpace(txt.Text), true
		}
	}
	return "", false
}

// hasA reports whether at least one A record exists.
func (c *Checker) hasA(ctx context.Context, r dns.Resolver, domain string) bool {
	res, err := r.LookupA(ctx, domain)
	if err != nil {
		c.warnLookup(err, "A", domain)
		return false
	}
	return len(res.Records) > 0
}

// mxText returns the formatted MX summary, or "" when absent.
func (c *Checker) mxText(ctx context.Context, r dns.Resolver, domain string) string {
	res, err := r.LookupMX(ctx, domain)
	if err != nil {
		c.warnLookup(err, "MX", domain)
		return ""
	}
	return formatMX(res.Records)
}

// nsText returns the formatted NS summary, or "" when absent.
func (c *Checker) nsText(ctx context.Context, r dns.Resolver, domain string) string {
	res, err := r.LookupNS(ctx, domain)
	if err != nil {
		c.warnLookup(err, "NS", domain)
		return ""
	}
	return formatNS(res.Records)
}

// taggedRecord looks up a prefix-tagged record (SPF, DMARC or DKIM) at
// name, honoring the record-type flavor.
//
// TXT flavor: the first TXT string at name starting with prefix.
// CNAME flavor: the CNAME answer at name, then TXT at its target with the
// same prefix match; formatted "CNAME -> target : value" or
// "CNAME -> target (no KIND found)". No CNAME at all is absence.
func (c *Checker) taggedRecord(ctx context.Context, r dns.Resolver, name, prefix, kind string, flavor Flavor) string {
	if flavor == FlavorCNAME {
		res, err := r.LookupCNAME(ctx, name)
		if err != nil || len(res.Records) == 0 {
			c.warnLookup(err, kind+" CNAME", name)
			return ""
		}

		target := res.Records[0].Target
		txts, err := r.LookupTXT(ctx, target)
		if err == nil {
			if value, ok := firstWithPrefix(txts.Records, prefix); ok {
				return fmt.Sprintf("CNAME -> %s : %s", target, value)
			}
		} else {
			c.warnLookup(err, kind+" TXT at CNAME target", target)
		}
		return fmt.Sprintf("CNAME -> %s (no %s found)", target, kind)
	}

	res, err := r.LookupTXT(ctx, name)
	if err != nil {
		c.warnLookup(err, kind, name)
		return ""
	}

	value, _ := firstWithPrefix(res.Records, prefix)
	return value
}

// lookupSPF returns the SPF record of domain, or "" when absent.
func (c *Checker) lookupSPF(ctx context.Context, r dns.Resolver, domain string, flavor Flavor) string {
	return c.taggedRecord(ctx, r, domain, spfPrefix, "SPF", flavor)
}

// lookupDMARC returns the DMARC record at _dmarc.<domain>, or "" when absent.
func (c *Checker) lookupDMARC(ctx context.Context, r dns.Resolver, domain string, flavor Flavor) string {
	return c.taggedRecord(ctx, r, "_dmarc."+domain, dmarcPrefix, "DMARC", flavor)
}

// lookupDKIM returns the DKIM record at <selector>._domainkey.<domain>,
// or "" when absent.
func (c *Checker) lookupDKIM(ctx context.Context, r dns.Resolver, domain, selector string, flavor Flavor) string {
	return c.taggedRecord(ctx, r, selector+"._domainkey."+domain, dkimPrefix, "DKIM", flavor)
}

// dkimResult resolves the DKIM record for domain. With a selector it is a
// single lookup; without one the well-known selector list is probed in
// order and the first match wins. Discovery state is per call, so each
// flavor pass probes independently.
func (c *Checker) dkimResult(ctx context.Context, r dns.Resolver, domain, selector string, flavor Flavor) DKIMResult {
	if selector != "" {
		if value := c.lookupDKIM(ctx, r, domain, selector, flavor); value != "" {
			return DKIMResult{Status: DKIMFound, Selector: selector, Value: value}
		}
		return DKIMResult{Status: DKIMNotFound, Selector: selector}
	}

	for _, candidate := range c.selectors {
		if value := c.lookupDKIM(ctx, r, domain, candidate, flavor); value != "" {
			return DKIMResult{Status: DKIMFound, Selector: candidate, Value: value}
		}
	}

	return DKIMResult{Status: DKIMNotFoundAfterProbe}
}

// warnLookup logs recoverable per-record failures. Plain "not found" is
// normal and not worth a warning; everything else gets one.
func (c *Checker) warnLookup(err error, kind, name string) {
	if err == nil || dns.IsNotFound(err) {
		return
	}
	c.log.Warn("lookup failed, treating as absent",
		"record", kind,
		"name", name,
		"error", err,
	)
}
