package pagination

import (
	"net/url"
	"strings"
)

// NextOffset returns the offset of the page following a list response. Kong
// returns it as the "offset" field and inside the "next" link; either is
// accepted, the field wins.
func NextOffset(body map[string]any) string {
	if offset, ok := body["offset"].(string); ok && strings.TrimSpace(offset) != "" {
		return strings.TrimSpace(offset)
	}

	next, ok := body["next"].(string)
	if !ok {
		return ""
	}
	value := strings.TrimSpace(next)
	if value == "" {
		return ""
	}

	if parsed, err := url.Parse(value); err == nil {
		if offset := parsed.Query().Get("offset"); offset != "" {
			return offset
		}
	}

	if idx := strings.Index(value, "offset="); idx >= 0 {
		offset := value[idx+len("offset="):]
		if end := strings.Index(offset, "&"); end >= 0 {
			offset = offset[:end]
		}
		return offset
	}

	return ""
}
