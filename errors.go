package mailcheck

import "errors"

var (
	ErrMalformedIdentifier = errors.New("mailcheck: malformed identifier")
	ErrResolverUnavailable = errors.New("mailcheck: resolver unavailable")
	ErrExportWrite         = errors.New("mailcheck: export write failed")
	ErrUnknownFlavor       = errors.New("mailcheck: unknown record-type flavor")
	ErrUnknownFormat       = errors.New("mailcheck: unknown export format")
)
