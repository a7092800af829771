package recommend

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Place is one recommendation extracted from the webhook's free-text reply.
type Place struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

var (
	itemPattern = regexp.MustCompile(`^\s*(?:\d+[.)]|[-*])\s+(.+)$`)
	linkPattern = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
)

// Parse extracts numbered or bulleted recommendations from free text.
// Prose preambles are skipped and markdown decoration is stripped.
// Unparseable input yields zero places, never an error.
func Parse(text string) []Place {
	var places []Place
	for _, line := range strings.Split(text, "\n") {
		m := itemPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		name, description := splitEntry(stripMarkdown(m[1]))
		if name == "" {
			continue
		}
		places = append(places, Place{Name: name, Description: description})
	}
	return places
}

// ExtractText pulls the recommendation text out of a webhook payload. The
// webhook usually wraps its answer in a small JSON envelope; a payload that
// is not such an envelope is used verbatim.
func ExtractText(payload []byte) string {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err == nil {
		for _, field := range []string{"response", "message", "text", "output"} {
			raw, ok := envelope[field]
			if !ok {
				continue
			}
			var text string
			if err := json.Unmarshal(raw, &text); err == nil && text != "" {
				return text
			}
		}
	}
	return string(payload)
}

func stripMarkdown(s string) string {
	s = linkPattern.ReplaceAllString(s, "$1")
	s = strings.ReplaceAll(s, "**", "")
	s = strings.ReplaceAll(s, "__", "")
	return strings.TrimSpace(s)
}

func splitEntry(s string) (string, string) {
	for _, sep := range []string{" - ", ": "} {
		if i := strings.Index(s, sep); i > 0 {
			return strings.TrimSpace(s[:i]), strings.TrimSpace(s[i+len(sep):])
		}
	}
	return s, ""
}
