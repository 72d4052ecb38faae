// Package specs parses the free-text product specifications field into a
// list of lines and a key/value map for display. Presentation-only: nothing
// transactional depends on it.
package specs

import (
	"encoding/json"
	"regexp"
	"strings"
)

// Lines split on newlines, <br> tags, semicolons or pipes. Commas are kept
// intact because they appear inside values ("chocolate, caramel").
var splitRE = regexp.MustCompile(`\r?\n|<br\s*/?>|;|\|`)

// Parse normalises a raw specifications string into individual spec lines.
// A JSON array is accepted as-is; anything else is split on the common
// separators. Blank entries are dropped.
func Parse(raw string) []string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}

	var arr []interface{}
	if err := json.Unmarshal([]byte(s), &arr); err == nil {
		out := make([]string, 0, len(arr))
		for _, v := range arr {
			str, ok := v.(string)
			if !ok {
				continue
			}
			if t := strings.TrimSpace(str); t != "" {
				out = append(out, t)
			}
		}
		return out
	}

	parts := splitRE.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// Meta extracts "Key: Value" lines into a lower_snake_case-keyed map,
// e.g. "Roast Level: Medium" → {"roast_level": "Medium"}. Lines without a
// colon are skipped.
func Meta(lines []string) map[string]string {
	meta := make(map[string]string)
	for _, line := range lines {
		k, v, ok := strings.Cut(line, ":")
		if !ok {
			continue
		}

		key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(k)), " ", "_")
		val := strings.TrimSpace(v)
		if key != "" {
			meta[key] = val
		}
	}
	return meta
}
