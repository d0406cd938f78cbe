package vanilla

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	headerPolicyOnce sync.Once
	headerPolicy     *bluemonday.Policy
)

// SanitizeHeader strips configured header markup down to headings, inline
// text formatting, links and images.
func SanitizeHeader(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(headerSanitizer().Sanitize(trimmed))
}

func headerSanitizer() *bluemonday.Policy {
	headerPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements(
			"h1", "h2", "h3", "p", "span", "strong", "em", "b", "i", "small", "br",
		)
		policy.AllowAttrs("class").Globally()

		policy.AllowStandardURLs()
		policy.AllowAttrs("href").OnElements("a")
		policy.RequireNoFollowOnLinks(true)

		policy.AllowImages()
		policy.AllowAttrs("alt", "width", "height").OnElements("img")

		headerPolicy = policy
	})
	return headerPolicy
}
