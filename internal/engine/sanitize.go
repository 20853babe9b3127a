package engine

import "strings"

// CleanResponse strips incidental formatting from a raw model response: one
// leading code-fence marker (with an optional language tag such as "json"),
// one trailing marker, and surrounding whitespace. A string without fences
// passes through unchanged, so the function is idempotent.
func CleanResponse(raw string) string {
	s := strings.TrimSpace(raw)

	if after, ok := strings.CutPrefix(s, "```"); ok {
		s = strings.TrimPrefix(after, languageTag(after))
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// languageTag returns the bare tag (such as "json") opening a fence, or ""
// when the fence is followed directly by payload. The tag need not sit on
// its own line.
func languageTag(s string) string {
	for i, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return s[:i]
		}
	}
	return s
}
