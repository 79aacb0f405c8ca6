package normalize

import (
	"encoding/json"
	"sort"
	"strings"

	"lawoffice_crm_backend/platform/sanitize"
)

// ParseFacts renders the free-form facts column. Some rows store a JSON
// document (object or array of strings), older rows store HTML or plain
// text. JSON is flattened to one line per value; everything else is
// stripped of markup.
func ParseFacts(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}

	switch raw[0] {
	case '{':
		var obj map[string]any
		if err := json.Unmarshal([]byte(raw), &obj); err == nil {
			return factsFromObject(obj)
		}
	case '[':
		var arr []any
		if err := json.Unmarshal([]byte(raw), &arr); err == nil {
			return factsFromArray(arr)
		}
	}
	return sanitize.StripHTML(raw)
}

func factsFromObject(obj map[string]any) string {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		v := factValue(obj[k])
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(k)
		b.WriteString(": ")
		b.WriteString(v)
	}
	return b.String()
}

func factsFromArray(arr []any) string {
	var b strings.Builder
	for _, item := range arr {
		v := factValue(item)
		if v == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString("\n")
		}
		b.WriteString(v)
	}
	return b.String()
}

func factValue(v any) string {
	switch t := v.(type) {
	case string:
		return sanitize.StripHTML(t)
	case float64:
		b, _ := json.Marshal(t)
		return string(b)
	case bool:
		if t {
			return "yes"
		}
		return "no"
	case nil:
		return ""
	default:
		b, err := json.Marshal(t)
		if err != nil {
			return ""
		}
		return string(b)
	}
}
