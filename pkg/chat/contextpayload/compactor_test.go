package contextpayload

import (
	"fmt"
	"reflect"
	"strings"
	"testing"
)

func TestCompactPreservesTopLevelKeys(t *testing.T) {
	payload := map[string]interface{}{
		"mood":       "reflective",
		"request_id": "r-1",
		"candidates": []interface{}{
			map[string]interface{}{"id": "c1", "source": "scripture"},
		},
	}

	out := Compact(payload)

	if out["mood"] != "reflective" || out["request_id"] != "r-1" {
		t.Errorf("top-level keys changed: %v", out)
	}
	if _, ok := out["candidates"]; !ok {
		t.Error("candidates key missing after compaction")
	}
}

func TestCompactNilAndMissingCandidates(t *testing.T) {
	if got := Compact(nil); got != nil {
		t.Errorf("Compact(nil) = %v, want nil", got)
	}

	payload := map[string]interface{}{"note": "no candidates here"}
	out := Compact(payload)
	if out["note"] != "no candidates here" {
		t.Errorf("payload without candidates altered: %v", out)
	}
}

func TestCompactCandidateFields(t *testing.T) {
	longLabel := strings.Repeat("a", 500)
	longPreview := strings.Repeat("b", 2000)
	longExtra := strings.Repeat("c", 300)

	payload := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"id":      "verse-1",
				"source":  "scripture",
				"label":   longLabel,
				"preview": longPreview,
				"features": map[string]interface{}{
					"testament": "new",
				},
				"score":  0.92,
				"tag":    longExtra,
				"nested": map[string]interface{}{"dropped": true},
			},
		},
	}

	out := Compact(payload)
	c := out["candidates"].([]interface{})[0].(map[string]interface{})

	if c["id"] != "verse-1" || c["source"] != "scripture" {
		t.Errorf("id/source changed: %v", c)
	}
	if got := c["label"].(string); len(got) != MaxLabelChars {
		t.Errorf("label length = %d, want %d", len(got), MaxLabelChars)
	}
	if got := c["preview"].(string); len(got) != MaxPreviewChars {
		t.Errorf("preview length = %d, want %d", len(got), MaxPreviewChars)
	}
	if _, ok := c["features"]; !ok {
		t.Error("features dropped")
	}
	if c["score"] != 0.92 {
		t.Errorf("scalar extra changed: %v", c["score"])
	}
	if got := c["tag"].(string); len(got) != MaxExtraChars {
		t.Errorf("extra string length = %d, want %d", len(got), MaxExtraChars)
	}
	if _, ok := c["nested"]; ok {
		t.Error("non-scalar extra kept")
	}
}

func TestCompactMetadataTier1(t *testing.T) {
	longString := strings.Repeat("x", 1000)
	bigArray := make([]interface{}, 80)
	for i := range bigArray {
		bigArray[i] = strings.Repeat("y", 300)
	}

	payload := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"id": "c1",
				"metadata": map[string]interface{}{
					"fullContent": strings.Repeat("z", 50000),
					"raw_content": "also dropped",
					"summary":     longString,
					"tags":        bigArray,
					"count":       7.0,
				},
			},
		},
	}

	out := Compact(payload)
	meta := out["candidates"].([]interface{})[0].(map[string]interface{})["metadata"].(map[string]interface{})

	if _, ok := meta["fullContent"]; ok {
		t.Error("heavyweight key fullContent kept")
	}
	if _, ok := meta["raw_content"]; ok {
		t.Error("heavyweight key raw_content kept")
	}
	if got := meta["summary"].(string); len(got) != maxMetaStringChars {
		t.Errorf("metadata string length = %d, want %d", len(got), maxMetaStringChars)
	}
	tags := meta["tags"].([]interface{})
	if len(tags) != maxMetaArrayLen {
		t.Errorf("array length = %d, want %d", len(tags), maxMetaArrayLen)
	}
	if got := tags[0].(string); len(got) != maxMetaArrayStringChars {
		t.Errorf("array element length = %d, want %d", len(got), maxMetaArrayStringChars)
	}
	if meta["count"] != 7.0 {
		t.Errorf("scalar metadata changed: %v", meta["count"])
	}
}

func TestCompactMetadataTier2(t *testing.T) {
	// Enough 800-char strings to stay above the metadata budget after tier 1
	meta := map[string]interface{}{}
	for i := 0; i < 40; i++ {
		meta["field_"+strings.Repeat("k", i+1)] = strings.Repeat("v", 900)
	}
	meta["structured"] = []interface{}{
		map[string]interface{}{"inner": true},
	}
	meta["short_list"] = []interface{}{"a", "b"}
	meta["flag"] = true

	payload := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"id": "c1", "metadata": meta},
		},
	}

	out := Compact(payload)
	got := out["candidates"].([]interface{})[0].(map[string]interface{})["metadata"].(map[string]interface{})

	if size := serializedSize(got); size > MaxMetadataChars {
		t.Errorf("tier-2 metadata still %d chars, want <= %d", size, MaxMetadataChars)
	}
	if _, ok := got["structured"]; ok {
		t.Error("array with nested structure survived tier 2")
	}
	if !reflect.DeepEqual(got["short_list"], []interface{}{"a", "b"}) {
		t.Errorf("scalar array changed: %v", got["short_list"])
	}
	if got["flag"] != true {
		t.Error("scalar field dropped at tier 2")
	}
	for k, v := range got {
		if s, ok := v.(string); ok && len(s) > maxTightStringChars {
			t.Errorf("tier-2 string %q length = %d, want <= %d", k, len(s), maxTightStringChars)
		}
	}
}

func TestCompactMetadataScalarHeavy(t *testing.T) {
	// So many scalar keys that even tier-2 string truncation is not enough;
	// whole keys must go to hold the budget.
	meta := map[string]interface{}{}
	for i := 0; i < 300; i++ {
		meta[fmt.Sprintf("key_%03d", i)] = strings.Repeat("v", 800)
	}

	payload := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{"id": "c1", "metadata": meta},
		},
	}

	out := Compact(payload)
	got := out["candidates"].([]interface{})[0].(map[string]interface{})["metadata"].(map[string]interface{})

	if size := serializedSize(got); size > MaxMetadataChars {
		t.Errorf("metadata still %d chars, want <= %d", size, MaxMetadataChars)
	}
	if len(got) == 0 {
		t.Error("every key dropped; expected the budget's worth kept")
	}
	for k, v := range got {
		if s, ok := v.(string); ok && len(s) > maxTightStringChars {
			t.Errorf("string %q length = %d, want <= %d", k, len(s), maxTightStringChars)
		}
	}

	twice := Compact(out)
	if !reflect.DeepEqual(out, twice) {
		t.Error("capped compaction is not idempotent")
	}
}

func TestCompactIdempotent(t *testing.T) {
	payload := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"id":      "c1",
				"label":   strings.Repeat("a", 500),
				"preview": strings.Repeat("b", 2000),
				"metadata": map[string]interface{}{
					"summary": strings.Repeat("x", 1000),
					"html":    "<p>dropped</p>",
				},
			},
		},
	}

	once := Compact(payload)
	twice := Compact(once)

	if !reflect.DeepEqual(once, twice) {
		t.Error("compaction is not idempotent")
	}
}

func TestTruncateRuneBoundary(t *testing.T) {
	s := strings.Repeat("é", 100) // 2 bytes per rune

	got := truncate(s, 101)
	if len(got) != 100 {
		t.Errorf("truncate cut mid-rune: len = %d", len(got))
	}
	for _, r := range got {
		if r != 'é' {
			t.Errorf("corrupted rune %q", r)
		}
	}
}

func TestCompactUnserializableMetadata(t *testing.T) {
	// Channels cannot be JSON-encoded; size counts as zero and compaction
	// must not panic.
	payload := map[string]interface{}{
		"candidates": []interface{}{
			map[string]interface{}{
				"id": "c1",
				"metadata": map[string]interface{}{
					"weird": make(chan int),
					"ok":    "kept",
				},
			},
		},
	}

	out := Compact(payload)
	meta := out["candidates"].([]interface{})[0].(map[string]interface{})["metadata"].(map[string]interface{})
	if meta["ok"] != "kept" {
		t.Errorf("scalar sibling of unserializable value lost: %v", meta)
	}
}
