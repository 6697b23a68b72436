// Package htmlsanitize cleans user-supplied text before it is forwarded to
// the EZRA API or echoed back to the browser.
package htmlsanitize

import (
	"html"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	policyOnce sync.Once
	policy     *bluemonday.Policy
)

func strict() *bluemonday.Policy {
	policyOnce.Do(func() {
		policy = bluemonday.StrictPolicy()
	})
	return policy
}

// PlainText strips all markup and returns trimmed text. Entities that the
// strict policy escapes are decoded again, so "Tom & Jerry" survives as is.
func PlainText(s string) string {
	if s == "" {
		return ""
	}
	return strings.TrimSpace(html.UnescapeString(strict().Sanitize(s)))
}
