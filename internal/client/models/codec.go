package models

import "encoding/json"

// decodeStringMap parses a JSON object of string values. Anything else,
// including null, yields an empty map.
func decodeStringMap(s string) map[string]string {
	m := map[string]string{}
	if s == "" {
		return m
	}
	var v map[string]string
	if err := json.Unmarshal([]byte(s), &v); err != nil || v == nil {
		return m
	}
	return v
}

// encodeStringMap writes m as a JSON object with sorted keys. A nil map is
// written as "{}".
func encodeStringMap(m map[string]string) string {
	if len(m) == 0 {
		return "{}"
	}
	b, err := json.Marshal(m)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func cloneStringMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
