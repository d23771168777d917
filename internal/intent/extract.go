package intent

import (
	"strings"
)

// extractObject strips code-fence markup from a model reply and returns
// the first balanced JSON object, or "" if none exists. Brace depth is
// tracked outside string literals so nested objects and braces inside
// values do not confuse the scan.
func extractObject(raw string) string {
	clean := strings.ReplaceAll(raw, "```json", "")
	clean = strings.ReplaceAll(clean, "```", "")
	clean = strings.TrimSpace(clean)

	start := strings.IndexByte(clean, '{')
	if start < 0 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(clean); i++ {
		ch := clean[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case ch == '\\':
				escaped = true
			case ch == '"':
				inString = false
			}
			continue
		}
		switch ch {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return clean[start : i+1]
			}
		}
	}
	return ""
}
