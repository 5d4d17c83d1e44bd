package shops

import (
	"regexp"
	"strings"
)

// Domain is a validated shop domain. Handlers only ever build redirect
// targets from a Domain, never from the raw request parameter.
type Domain string

func (d Domain) String() string {
	return string(d)
}

// hostnameRE matches the label charset allowed in shop subdomains.
var hostnameRE = regexp.MustCompile(`^[a-z0-9][a-z0-9.-]*$`)

// Sanitize normalizes and validates a shop name supplied by a request or
// recalled from session state. A bare name ("myshop") is completed with the
// configured suffix. Returns false for empty input, charset violations and
// domains outside the configured suffix.
func Sanitize(raw, domainSuffix string) (Domain, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	if name == "" {
		return "", false
	}

	name = strings.TrimPrefix(name, "https://")
	name = strings.TrimPrefix(name, "http://")
	name = strings.TrimSuffix(name, "/")

	if !strings.Contains(name, ".") {
		name += domainSuffix
	}

	if !hostnameRE.MatchString(name) {
		return "", false
	}
	if !strings.HasSuffix(name, domainSuffix) {
		return "", false
	}
	// The suffix alone is not a shop.
	if len(name) <= len(domainSuffix) {
		return "", false
	}
	return Domain(name), true
}
