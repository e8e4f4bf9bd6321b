package thinkctx

import "strings"

// Reasoning block delimiters. Upstream formatters of model output
// emit exactly these literals.
const (
	OpenMarker  = "<think>"
	CloseMarker = "</think>"
)

// StripReasoning removes every <think>...</think> span from content,
// markers included, and trims surrounding whitespace from the result.
//
// Each opening marker is paired with the nearest closing marker after
// it, so spans never nest and may cross line breaks. An opening marker
// without a later closing marker is left in the text together with
// everything after it.
func StripReasoning(content string) string {
	var b strings.Builder
	rest := content
	for {
		start := strings.Index(rest, OpenMarker)
		if start < 0 {
			break
		}
		end := strings.Index(rest[start+len(OpenMarker):], CloseMarker)
		if end < 0 {
			break
		}
		b.WriteString(rest[:start])
		rest = rest[start+len(OpenMarker)+end+len(CloseMarker):]
	}
	b.WriteString(rest)
	return strings.TrimSpace(b.String())
}

// ContainsReasoning reports whether content holds at least one complete
// reasoning block that StripReasoning would remove.
func ContainsReasoning(content string) bool {
	start := strings.Index(content, OpenMarker)
	if start < 0 {
		return false
	}
	return strings.Contains(content[start+len(OpenMarker):], CloseMarker)
}
