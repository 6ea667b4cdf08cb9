package mailcheck

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/synqronlabs/mailcheck/dns"
)

func testChecker(t *testing.T, mock dns.MockClient) *Checker {
	t.Helper()
	c, err := New(Config{
		Resolver: mock,
		Logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c
}

func TestFormatMX(t *testing.T) {
	got := formatMX([]dns.MX{
		{Host: "backup.example.com.", Pref: 20, TTL: 600},
		{Host: "MAIL.example.com", Pref: 10, TTL: 300},
	})
	want := "mail.example.com (pref 10, ttl 300); backup.example.com (pref 20, ttl 600)"
	if got != want {
		t.Errorf("formatMX = %q, want %q", got, want)
	}
}

func TestFormatNS(t *testing.T) {
	got := formatNS([]dns.NS{
		{Host: "ns1.example.com", TTL: 3600},
		{Host: "ns2.example.com", TTL: 3600},
		{Host: "ns3.example.com", TTL: 3600},
	})
	want := "ns1.example.com (ttl 3600); ns2.example.com (ttl 3600)"
	if got != want {
		t.Errorf("formatNS = %q, want %q", got, want)
	}
}

func TestLookupSPF(t *testing.T) {
	mock := dns.MockClient{
		TXT: map[string][]dns.TXT{
			"example.com.": {
				{Text: "google-site-verification=abc"},
				{Text: "v=spf1 include:_spf.example.net -all"},
			},
		},
		CNAME: map[string][]dns.CNAME{
			"aliased.example.": {{Target: "spf.mailer.example"}},
			"dead.example.":    {{Target: "gone.mailer.example"}},
		},
	}
	mock.TXT["spf.mailer.example."] = []dns.TXT{{Text: "v=spf1 ip4:192.0.2.0/24 -all"}}
	c := testChecker(t, mock)
	ctx := context.Background()

	t.Run("TXT flavor picks the spf string", func(t *testing.T) {
		got := c.lookupSPF(ctx, c.resolver, "example.com", FlavorTXT)
		if got != "v=spf1 include:_spf.example.net -all" {
			t.Errorf("got %q", got)
		}
	})

	t.Run("TXT flavor absence", func(t *testing.T) {
		if got := c.lookupSPF(ctx, c.resolver, "empty.example", FlavorTXT); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})

	t.Run("CNAME flavor follows the chain", func(t *testing.T) {
		got := c.lookupSPF(ctx, c.resolver, "aliased.example", FlavorCNAME)
		want := "CNAME -> spf.mailer.example : v=spf1 ip4:192.0.2.0/24 -all"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("CNAME flavor target without record", func(t *testing.T) {
		got := c.lookupSPF(ctx, c.resolver, "dead.example", FlavorCNAME)
		want := "CNAME -> gone.mailer.example (no SPF found)"
		if got != want {
			t.Errorf("got %q, want %q", got, want)
		}
	})

	t.Run("CNAME flavor without CNAME is absence, not error", func(t *testing.T) {
		if got := c.lookupSPF(ctx, c.resolver, "example.com", FlavorCNAME); got != "" {
			t.Errorf("got %q, want empty", got)
		}
	})
}

func TestLookupDMARC(t *testing.T) {
	mock := dns.MockClient{
		TXT: map[string][]dns.TXT{
			"_dmarc.example.com.": {{Text: "v=DMARC1; p=reject; rua=mailto:d@example.com"}},
		},
	}
	c := testChecker(t, mock)

	got := c.lookupDMARC(context.Background(), c.resolver, "example.com", FlavorTXT)
	if !strings.HasPrefix(got, "v=DMARC1") {
		t.Errorf("got %q, want a DMARC record", got)
	}

	if got := c.lookupDMARC(context.Background(), c.resolver, "other.example", FlavorTXT); got != "" {
		t.Errorf("got %q, want empty", got)
	}
}

func TestDKIMResult(t *testing.T) {
	mock := dns.MockClient{
		TXT: map[string][]dns.TXT{
			"admin._domainkey.example.com.":     {{Text: "v=DKIM1; k=rsa; p=MIGf"}},
			"selector2._domainkey.example.com.": {{Text: "v=DKIM1; k=rsa; p=MIIB"}},
			"google._domainkey.example.com.":    {{Text: "v=DKIM1; k=rsa; p=MIIC"}},
		},
	}
	c := testChecker(t, mock)
	ctx := context.Background()

	t.Run("supplied selector found", func(t *testing.T) {
		got := c.dkimResult(ctx, c.resolver, "example.com", "admin", FlavorTXT)
		if got.Status != DKIMFound {
			t.Fatalf("status = %q, want found", got.Status)
		}
		if got.Selector != "admin" {
			t.Errorf("selector = %q, want admin", got.Selector)
		}
		if got.Value != "v=DKIM1; k=rsa; p=MIGf" {
			t.Errorf("value = %q", got.Value)
		}
	})

	t.Run("supplied selector not found", func(t *testing.T) {
		got := c.dkimResult(ctx, c.resolver, "example.com", "missing", FlavorTXT)
		if got.Status != DKIMNotFound {
			t.Fatalf("status = %q, want notfound", got.Status)
		}
		if got.Selector != "missing" {
			t.Errorf("selector = %q, want missing", got.Selector)
		}
	})

	t.Run("probe stops at first match in list order", func(t *testing.T) {
		// Both selector2 and google exist; selector2 comes first in
		// DefaultSelectors and must win.
		got := c.dkimResult(ctx, c.resolver, "example.com", "", FlavorTXT)
		if got.Status != DKIMFound {
			t.Fatalf("status = %q, want found", got.Status)
		}
		if got.Selector != "selector2" {
			t.Errorf("selector = %q, want selector2", got.Selector)
		}
	})

	t.Run("probe exhausted", func(t *testing.T) {
		got := c.dkimResult(ctx, c.resolver, "bare.example", "", FlavorTXT)
		if got.Status != DKIMNotFoundAfterProbe {
			t.Fatalf("status = %q, want unfound", got.Status)
		}
		if got.Selector != "" || got.Value != "" {
			t.Errorf("selector/value = %q/%q, want empty", got.Selector, got.Value)
		}
	})
}

func TestHasA(t *testing.T) {
	mock := dns.MockClient{
		A:    map[string][]string{"example.com.": {"192.0.2.1"}},
		Fail: []string{"a broken.example."},
	}
	c := testChecker(t, mock)
	ctx := context.Background()

	if !c.hasA(ctx, c.resolver, "example.com") {
		t.Error("expected A record to exist")
	}
	if c.hasA(ctx, c.resolver, "other.example") {
		t.Error("expected no A record")
	}
	// Server failure is absorbed as absence.
	if c.hasA(ctx, c.resolver, "broken.example") {
		t.Error("expected failure to read as absence")
	}
}
