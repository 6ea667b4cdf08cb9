package mailcheck

// DefaultSelectors is the ordered list of well-known DKIM selectors tried
// when no selector is supplied. Order matters: the first selector that
// yields a record is the one reported, so the more common providers come
// first.
var DefaultSelectors = []string{
	"selector1", // Microsoft 365
	"selector2", // Microsoft 365
	"google",    // Google Workspace
	"k1",        // Mailchimp
	"k2",        // Mailchimp
	"everlytickey1",
	"everlytickey2",
	"dkim", // generic
	"default",
	"mail",
	"email",
	"smtp",
	"mx",
	"s1", // SendGrid
	"s2", // SendGrid
	"mandrill",
	"zendesk1",
	"zendesk2",
}
