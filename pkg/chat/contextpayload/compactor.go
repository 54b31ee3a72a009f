package contextpayload

import (
	"encoding/json"
	"sort"
	"unicode/utf8"
)

// Size budgets applied during compaction. The metadata budget is the hard
// bound the model context depends on; the rest keep single fields from
// dominating the payload.
const (
	MaxLabelChars    = 200
	MaxPreviewChars  = 900
	MaxExtraChars    = 200
	MaxMetadataChars = 20000

	maxMetaStringChars      = 800
	maxMetaArrayLen         = 50
	maxMetaArrayStringChars = 200

	maxTightArrayLen    = 20
	maxTightStringChars = 120
)

// heavyweightMetaKeys are metadata fields that carry full content blobs.
// They are dropped outright before any size check runs.
var heavyweightMetaKeys = map[string]struct{}{
	"fullContent":  {},
	"full_content": {},
	"rawContent":   {},
	"raw_content":  {},
	"html":         {},
}

// Compact bounds an arbitrary context payload before it is sent to the model.
// The top-level shape is preserved: every key passes through unchanged except
// "candidates", whose entries are compacted per-candidate. Compact never
// fails and is idempotent, so an already-compacted payload comes back equal.
func Compact(payload map[string]interface{}) map[string]interface{} {
	if payload == nil {
		return nil
	}

	out := make(map[string]interface{}, len(payload))
	for k, v := range payload {
		out[k] = v
	}

	candidates, ok := payload["candidates"].([]interface{})
	if !ok {
		return out
	}

	compacted := make([]interface{}, 0, len(candidates))
	for _, c := range candidates {
		if m, ok := c.(map[string]interface{}); ok {
			compacted = append(compacted, compactCandidate(m))
		} else {
			compacted = append(compacted, c)
		}
	}
	out["candidates"] = compacted

	return out
}

// compactCandidate keeps the recognized fields under their budgets and
// preserves unrecognized extras only when they are scalar.
func compactCandidate(c map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(c))

	for k, v := range c {
		switch k {
		case "id", "source":
			out[k] = v
		case "label":
			if s, ok := v.(string); ok {
				out[k] = truncate(s, MaxLabelChars)
			}
		case "preview":
			if s, ok := v.(string); ok {
				out[k] = truncate(s, MaxPreviewChars)
			}
		case "features":
			out[k] = v
		case "metadata":
			if m, ok := v.(map[string]interface{}); ok {
				out[k] = compactMetadata(m)
			}
		default:
			if !isScalar(v) {
				continue
			}
			if s, ok := v.(string); ok {
				out[k] = truncate(s, MaxExtraChars)
			} else {
				out[k] = v
			}
		}
	}

	return out
}

// compactMetadata applies the two-tier truncation scheme. Tier 1 drops the
// known heavyweight keys and trims strings and arrays; tier 2 only kicks in
// when the tier-1 result still serializes above MaxMetadataChars and keeps
// scalar fields plus short scalar-only arrays.
func compactMetadata(meta map[string]interface{}) map[string]interface{} {
	tier1 := make(map[string]interface{}, len(meta))
	for k, v := range meta {
		if _, heavy := heavyweightMetaKeys[k]; heavy {
			continue
		}
		switch val := v.(type) {
		case string:
			tier1[k] = truncate(val, maxMetaStringChars)
		case []interface{}:
			tier1[k] = truncateArray(val, maxMetaArrayLen, maxMetaArrayStringChars)
		default:
			tier1[k] = v
		}
	}

	if serializedSize(tier1) <= MaxMetadataChars {
		return tier1
	}

	// Tier 2: scalars and small scalar-only arrays, nothing else.
	tier2 := make(map[string]interface{}, len(tier1))
	for k, v := range tier1 {
		switch val := v.(type) {
		case string:
			tier2[k] = truncate(val, maxTightStringChars)
		case []interface{}:
			arr, ok := scalarOnlyArray(val, maxTightArrayLen, maxTightStringChars)
			if ok {
				tier2[k] = arr
			}
		default:
			if isScalar(v) {
				tier2[k] = v
			}
		}
	}

	if serializedSize(tier2) <= MaxMetadataChars {
		return tier2
	}

	// Enough tight scalar keys still break the budget. Keep keys in lexical
	// order until the next one would cross it, then drop the rest.
	keys := make([]string, 0, len(tier2))
	for k := range tier2 {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	capped := make(map[string]interface{}, len(tier2))
	for _, k := range keys {
		capped[k] = tier2[k]
		if serializedSize(capped) > MaxMetadataChars {
			delete(capped, k)
			break
		}
	}
	return capped
}

func truncateArray(arr []interface{}, maxLen, maxStr int) []interface{} {
	if len(arr) > maxLen {
		arr = arr[:maxLen]
	}
	out := make([]interface{}, len(arr))
	for i, el := range arr {
		if s, ok := el.(string); ok {
			out[i] = truncate(s, maxStr)
		} else {
			out[i] = el
		}
	}
	return out
}

// scalarOnlyArray returns a bounded copy of arr when every kept element is
// scalar; arrays containing nested structures are dropped entirely at tier 2.
func scalarOnlyArray(arr []interface{}, maxLen, maxStr int) ([]interface{}, bool) {
	if len(arr) > maxLen {
		arr = arr[:maxLen]
	}
	out := make([]interface{}, 0, len(arr))
	for _, el := range arr {
		if !isScalar(el) {
			return nil, false
		}
		if s, ok := el.(string); ok {
			out = append(out, truncate(s, maxStr))
		} else {
			out = append(out, el)
		}
	}
	return out, true
}

// serializedSize reports the JSON-encoded size of v in characters.
// Unserializable values count as zero so compaction never fails.
func serializedSize(v interface{}) int {
	data, err := json.Marshal(v)
	if err != nil {
		return 0
	}
	return len(data)
}

func isScalar(v interface{}) bool {
	switch v.(type) {
	case nil, string, bool,
		float64, float32,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		json.Number:
		return true
	}
	return false
}

// truncate bounds s to max bytes, cutting on a rune boundary so multi-byte
// characters are never split.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for i := max; i > 0; i-- {
		if utf8.RuneStart(s[i]) {
			return s[:i]
		}
	}
	return ""
}
