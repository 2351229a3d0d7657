package store

import (
	"encoding/json"
	"fmt"
	"math"
)

// SanitizeLastUsed decodes a stored last-used snapshot without trusting
// its shape. It returns nil when the document is unusable, plus the keys
// that were rejected ("$" for the whole document).
func SanitizeLastUsed(raw []byte) (*LastUsed, []string) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, []string{"$"}
	}
	obj, ok := doc.(map[string]any)
	if !ok {
		return nil, []string{"$"}
	}

	arr, ok := obj["models"].([]any)
	if !ok {
		return nil, []string{"models"}
	}

	var (
		l        LastUsed
		rejected []string
		seen     = make(map[string]bool, len(arr))
	)
	for j, item := range arr {
		s, isString := item.(string)
		if !isString || s == "" || seen[s] {
			rejected = append(rejected, fmt.Sprintf("models[%d]", j))
			continue
		}
		seen[s] = true
		l.Models = append(l.Models, s)
	}

	str := func(key string, dst *string) {
		v, present := obj[key]
		if !present || v == nil {
			return
		}
		s, ok := v.(string)
		if !ok {
			rejected = append(rejected, key)
			return
		}
		*dst = s
	}
	str("chairman", &l.Chairman)
	str("executionMode", &l.ExecutionMode)
	str("routerType", &l.RouterSource)

	if v, present := obj["timestamp"]; present && v != nil {
		f, ok := v.(float64)
		if !ok || f != math.Trunc(f) || math.IsInf(f, 0) {
			rejected = append(rejected, "timestamp")
		} else {
			l.Timestamp = int64(f)
		}
	}
	return &l, rejected
}
