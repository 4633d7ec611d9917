package search

import (
	"errors"
	"strings"
)

// ErrInvalidEmailFormat is returned when an email cannot yield a company key.
var ErrInvalidEmailFormat = errors.New("invalid email format")

// CompanyKey derives the fuzzy-matchable company key from a lowercase email
// address. The domain part is taken after '@'; if it contains a dot,
// everything before the last dot is kept (mail.neviswealth.com ->
// mail.neviswealth, shoreline.uk.com -> shoreline.uk); trailing dots are
// stripped and only lowercase letters and digits survive.
//
// The key is computed once at client creation time and stored immutably.
func CompanyKey(email string) (string, error) {
	at := strings.IndexByte(email, '@')
	if at <= 0 || at == len(email)-1 {
		return "", ErrInvalidEmailFormat
	}

	domain := email[at+1:]
	if dot := strings.LastIndexByte(domain, '.'); dot >= 0 {
		domain = domain[:dot]
	}
	domain = strings.TrimRight(domain, ".")

	var b strings.Builder
	b.Grow(len(domain))
	for _, r := range domain {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "", ErrInvalidEmailFormat
	}
	return b.String(), nil
}
