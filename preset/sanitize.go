package preset

import (
	"encoding/json"
	"fmt"
	"math"
)

// SanitizePresets decodes stored saved-preset data without trusting its
// shape. It returns the presets that survived validation together with
// the keys that were rejected: "$" for the whole document, "[i]" for a
// dropped record and "[i].field" or "[i].models[j]" for dropped parts.
//
// A record is dropped when it is not an object, has no string id, repeats
// an earlier id, or has no usable model ids. Bad optional fields are
// zeroed and reported.
func SanitizePresets(raw []byte) ([]Preset, []string) {
	if len(raw) == 0 {
		return nil, nil
	}
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, []string{"$"}
	}
	items, ok := doc.([]any)
	if !ok {
		return nil, []string{"$"}
	}

	var (
		out      []Preset
		rejected []string
		seen     = make(map[string]bool)
	)
	for i, item := range items {
		key := fmt.Sprintf("[%d]", i)
		obj, ok := item.(map[string]any)
		if !ok {
			rejected = append(rejected, key)
			continue
		}
		id, ok := obj["id"].(string)
		if !ok || id == "" || seen[id] {
			rejected = append(rejected, key)
			continue
		}
		models, bad, ok := sanitizeIDs(obj["models"])
		if !ok || len(models) == 0 {
			rejected = append(rejected, key)
			continue
		}
		for _, j := range bad {
			rejected = append(rejected, fmt.Sprintf("%s.models[%d]", key, j))
		}
		seen[id] = true

		p := Preset{ID: id, Models: models}
		reject := func(field string) { rejected = append(rejected, key+"."+field) }

		if name, ok := optionalString(obj, "name"); ok {
			p.Name = name
		} else {
			reject("name")
		}
		if p.Name == "" {
			p.Name = id
		}
		if v, ok := optionalString(obj, "routerType"); ok {
			p.RouterSource = v
		} else {
			reject("routerType")
		}
		if v, ok := optionalString(obj, "executionMode"); ok {
			p.ExecutionMode = v
		} else {
			reject("executionMode")
		}
		if v, ok := optionalString(obj, "chairman"); ok {
			p.Chairman = v
		} else {
			reject("chairman")
		}
		if v, ok := optionalInt(obj, "councilSize"); ok && v >= 0 {
			p.CouncilSize = int(v)
		} else {
			reject("councilSize")
		}
		if v, ok := optionalInt(obj, "createdAt"); ok {
			p.CreatedAt = v
		} else {
			reject("createdAt")
		}
		out = append(out, p)
	}
	return out, rejected
}

// sanitizeIDs keeps the non-empty, unique strings of a JSON array and
// returns the indexes it dropped. ok is false when v is not an array.
func sanitizeIDs(v any) (ids []string, dropped []int, ok bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, nil, false
	}
	seen := make(map[string]bool, len(arr))
	for j, item := range arr {
		s, isString := item.(string)
		if !isString || s == "" || seen[s] {
			dropped = append(dropped, j)
			continue
		}
		seen[s] = true
		ids = append(ids, s)
	}
	return ids, dropped, true
}

// optionalString returns obj[key] as a string. A missing or null key is
// fine and yields "", any other type is not.
func optionalString(obj map[string]any, key string) (string, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

// optionalInt returns obj[key] as an integer. Missing or null yields 0;
// non-numbers and non-integral numbers are rejected.
func optionalInt(obj map[string]any, key string) (int64, bool) {
	v, present := obj[key]
	if !present || v == nil {
		return 0, true
	}
	f, ok := v.(float64)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
		return 0, false
	}
	return int64(f), true
}
