package offscreen

import (
	"fmt"
	"net"
	"net/url"
	"strings"

	"golang.org/x/net/idna"
)

// NormalizeURL prepares a start URL for the runtime. Surrounding whitespace
// is trimmed, a blank URL becomes DefaultURL, a missing scheme becomes http,
// and internationalized host names are converted to their ASCII form.
func NormalizeURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return DefaultURL, nil
	}

	in := raw
	if !hasScheme(raw) {
		raw = "http://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrInvalidURL, in, err)
	}
	if u.Opaque != "" || u.Host == "" {
		// about:blank, data: and file:///path have no host to convert.
		if u.Scheme == "http" || u.Scheme == "https" {
			return "", fmt.Errorf("%w: %q has no host", ErrInvalidURL, in)
		}
		return u.String(), nil
	}

	host := u.Hostname()
	if net.ParseIP(host) == nil {
		ascii, err := idna.Lookup.ToASCII(host)
		if err != nil {
			return "", fmt.Errorf("%w: host %q: %w", ErrInvalidURL, host, err)
		}
		host = ascii
	}
	if port := u.Port(); port != "" {
		host = net.JoinHostPort(host, port)
	} else if strings.Contains(host, ":") {
		host = "[" + host + "]"
	}
	u.Host = host
	return u.String(), nil
}

// opaqueSchemes are schemes commonly written without "//".
var opaqueSchemes = map[string]bool{
	"about":       true,
	"blob":        true,
	"chrome":      true,
	"data":        true,
	"javascript":  true,
	"mailto":      true,
	"view-source": true,
}

// hasScheme reports whether raw starts with a scheme. A "name:digits" prefix
// is a host and port, not a scheme, unless name is a known opaque scheme.
func hasScheme(raw string) bool {
	i := strings.IndexByte(raw, ':')
	if i <= 0 || !validScheme(raw[:i]) {
		return false
	}
	rest := raw[i+1:]
	if strings.HasPrefix(rest, "//") || opaqueSchemes[strings.ToLower(raw[:i])] {
		return true
	}
	return rest == "" || rest[0] < '0' || rest[0] > '9'
}

func validScheme(s string) bool {
	for i, c := range s {
		switch {
		case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z':
		case i > 0 && ('0' <= c && c <= '9' || c == '+' || c == '-' || c == '.'):
		default:
			return false
		}
	}
	return true
}
