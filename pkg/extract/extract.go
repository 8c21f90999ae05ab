// Package extract parses raw model output into a single candidate script
// using a strict-then-lenient recognition policy.
package extract

import (
	"regexp"
	"strings"

	"cadagent/pkg/prompt"
)

// fence matches the first fenced code block. The tag is captured so untagged
// and go-tagged fences can be told apart.
var fence = regexp.MustCompile("(?s)```([a-zA-Z0-9_-]*)[ \t]*\n(.*?)```")

// Script extracts the candidate script from raw model text.
//
// Policy, in order: the first fenced block tagged go/golang (or untagged but
// carrying an ambient-name token) wins; failing that, raw text that itself
// contains an ambient-name token is treated as the script whole; otherwise
// there is no script and the turn ends without side effects. Only the first
// fenced block is honored; multiple blocks are never merged. An executable-
// tagged fence is terminal: an empty body means no script, never the
// surrounding prose.
func Script(raw string) (string, bool) {
	if m := fence.FindStringSubmatch(raw); m != nil {
		tag, body := strings.ToLower(m[1]), strings.TrimSpace(m[2])
		if tag == "go" || tag == "golang" {
			return body, body != ""
		}
		if tag == "" && body != "" && hasAmbientToken(body) {
			return body, true
		}
	}

	if hasAmbientToken(raw) {
		return strings.TrimSpace(raw), true
	}
	return "", false
}

// hasAmbientToken reports whether text uses one of the pre-defined session
// names the way code would (a call or a member access).
func hasAmbientToken(text string) bool {
	for _, name := range prompt.AmbientNames {
		if strings.Contains(text, name+".") || strings.Contains(text, name+"(") {
			return true
		}
	}
	return false
}
