package pipeline

import (
	"encoding/json"
	"fmt"
	"strings"
)

// decodeModelArray extracts the JSON array of objects from a model
// response. Anything that is not such an array is an error; there is no
// partial acceptance.
func decodeModelArray(raw string) ([]map[string]interface{}, error) {
	clean := cleanModelJSON(raw)

	var parsed interface{}
	if err := json.Unmarshal([]byte(clean), &parsed); err != nil {
		return nil, fmt.Errorf("decodeModelArray: unmarshal JSON: %w", err)
	}

	items, ok := parsed.([]interface{})
	if !ok {
		return nil, fmt.Errorf("decodeModelArray: top level is %T, want array", parsed)
	}

	objs := make([]map[string]interface{}, 0, len(items))
	for i, item := range items {
		obj, ok := item.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("decodeModelArray: element %d is %T, want object", i, item)
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

// cleanModelJSON drops Markdown fences. When what remains is still not
// valid JSON, it keeps the outermost [...] to discard surrounding prose.
// Valid JSON is never trimmed, so an object wrapping an array stays an
// object and is rejected by decodeModelArray.
func cleanModelJSON(raw string) string {
	s := strings.TrimSpace(raw)

	// Handle ```json ... ``` or ``` ... ``` wrappers.
	if strings.HasPrefix(s, "```") {
		idx := strings.Index(s, "\n")
		if idx == -1 {
			return s
		}
		s = strings.TrimSpace(s[idx+1:])
	}

	if idx := strings.LastIndex(s, "```"); idx != -1 {
		s = strings.TrimSpace(s[:idx])
	}

	if json.Valid([]byte(s)) {
		return s
	}

	if start := strings.Index(s, "["); start != -1 {
		if end := strings.LastIndex(s, "]"); end > start {
			s = strings.TrimSpace(s[start : end+1])
		}
	}

	return s
}
