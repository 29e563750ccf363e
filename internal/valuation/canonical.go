package valuation

import (
	"net/url"
	"strings"
)

// trackingParams are query parameters that vary per click without
// identifying a different listing. They are stripped so the same listing
// shared through different channels hits the same cache entry.
var trackingParams = map[string]bool{
	"gclid":    true,
	"fbclid":   true,
	"msclkid":  true,
	"ref":      true,
	"referrer": true,
	"source":   true,
}

// CanonicalURL reduces a listing URL to its stable cache-key form:
// lowercase scheme and host, default ports and fragments dropped,
// tracking parameters removed, remaining parameters sorted, trailing
// slash trimmed.
func CanonicalURL(u *url.URL) string {
	c := *u
	c.Scheme = strings.ToLower(c.Scheme)
	c.Host = strings.ToLower(c.Host)
	c.Fragment = ""
	c.User = nil

	if (c.Scheme == "http" && strings.HasSuffix(c.Host, ":80")) ||
		(c.Scheme == "https" && strings.HasSuffix(c.Host, ":443")) {
		c.Host = c.Host[:strings.LastIndex(c.Host, ":")]
	}

	query := c.Query()
	for param := range query {
		if trackingParams[param] || strings.HasPrefix(param, "utm_") {
			query.Del(param)
		}
	}
	c.RawQuery = query.Encode() // Encode sorts keys

	c.Path = strings.TrimRight(c.Path, "/")

	return c.String()
}
