package httpbind

import (
	"html"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

var (
	strictPolicyOnce sync.Once
	strictPolicyVal  *bluemonday.Policy
)

func strictPolicy() *bluemonday.Policy {
	strictPolicyOnce.Do(func() {
		strictPolicyVal = bluemonday.StrictPolicy()
	})
	return strictPolicyVal
}

// maxSanitizePasses bounds the decode loop for deeply entity-encoded input.
const maxSanitizePasses = 8

// Sanitize strips markup from raw using policy and returns plain text.
// bluemonday escapes entities in its output, so they are decoded again; the
// decoded text is sanitised once more until it stops changing, so markup
// smuggled in as entities (&lt;script&gt;) is stripped too. Input that does
// not settle within maxSanitizePasses is returned in its escaped form.
func Sanitize(policy *bluemonday.Policy, raw string) string {
	if policy == nil {
		policy = strictPolicy()
	}
	current := raw
	for i := 0; i < maxSanitizePasses; i++ {
		next := html.UnescapeString(policy.Sanitize(current))
		if next == current {
			return next
		}
		current = next
	}
	return policy.Sanitize(current)
}
