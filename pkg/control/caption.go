package control

import (
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	captionPolicyOnce sync.Once
	captionPolicy     *bluemonday.Policy
)

// SanitizeCaption strips unsafe markup from raw so it can be handed to
// SetCaption. Links, emphasis and code spans survive; scripts, handlers and
// styles do not. Render never calls this itself.
func SanitizeCaption(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return ""
	}
	return strings.TrimSpace(captionSanitizer().Sanitize(trimmed))
}

func captionSanitizer() *bluemonday.Policy {
	captionPolicyOnce.Do(func() {
		policy := bluemonday.StrictPolicy()
		policy.AllowElements("a", "em", "strong", "code", "tt", "br", "span")
		policy.AllowAttrs("href").OnElements("a")
		policy.AllowAttrs("class").OnElements("span", "code")
		policy.AllowStandardURLs()
		policy.RequireNoFollowOnLinks(true)
		captionPolicy = policy
	})
	return captionPolicy
}
