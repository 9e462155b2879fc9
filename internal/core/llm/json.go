package llm

import "strings"

// ExtractJSONObject isolates the first JSON object embedded in a raw model
// response. Models routinely wrap their output in Markdown code fences or
// surround it with prose even when told not to; this strips both. The second
// return value is false when no brace-delimited object can be found.
func ExtractJSONObject(raw string) (string, bool) {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		if idx := strings.Index(s, "\n"); idx != -1 {
			s = s[idx+1:]
		} else {
			s = strings.TrimPrefix(s, "```json")
			s = strings.TrimPrefix(s, "```")
		}
		if idx := strings.LastIndex(s, "```"); idx != -1 {
			s = s[:idx]
		}
		s = strings.TrimSpace(s)
	}

	// Keep only from the first '{' to the last '}'.
	start := strings.Index(s, "{")
	if start == -1 {
		return "", false
	}
	end := strings.LastIndex(s, "}")
	if end == -1 || end < start {
		return "", false
	}

	return s[start : end+1], true
}
