package contextpayload

// AllowLists is derived from a compacted payload and bounds what model output
// may reference. A nil ActionTypes set means the payload declared no action
// types at all, which is "unrestricted" rather than "nothing allowed".
type AllowLists struct {
	EvidenceIds map[string]struct{}
	ActionTypes map[string]struct{}
}

// Extract derives the allow-lists from a context payload. Evidence ids are
// the union of candidate ids plus any top-level "evidence_ids" the payload
// exposes; action types come from the "actions" enumeration when present.
func Extract(payload map[string]interface{}) *AllowLists {
	lists := &AllowLists{
		EvidenceIds: make(map[string]struct{}),
	}
	if payload == nil {
		return lists
	}

	if candidates, ok := payload["candidates"].([]interface{}); ok {
		for _, c := range candidates {
			m, ok := c.(map[string]interface{})
			if !ok {
				continue
			}
			if id, ok := m["id"].(string); ok && id != "" {
				lists.EvidenceIds[id] = struct{}{}
			}
		}
	}

	if extra, ok := payload["evidence_ids"].([]interface{}); ok {
		for _, v := range extra {
			if id, ok := v.(string); ok && id != "" {
				lists.EvidenceIds[id] = struct{}{}
			}
		}
	}

	if actions, ok := payload["actions"].([]interface{}); ok {
		for _, a := range actions {
			m, ok := a.(map[string]interface{})
			if !ok {
				continue
			}
			t, ok := m["type"].(string)
			if !ok || t == "" {
				continue
			}
			if lists.ActionTypes == nil {
				lists.ActionTypes = make(map[string]struct{})
			}
			lists.ActionTypes[t] = struct{}{}
		}
	}

	return lists
}

// AllowsEvidence reports whether the id was part of the context shown to the
// model.
func (a *AllowLists) AllowsEvidence(id string) bool {
	_, ok := a.EvidenceIds[id]
	return ok
}

// AllowsAction reports whether the action type may be referenced. With no
// declared action types every type is allowed.
func (a *AllowLists) AllowsAction(actionType string) bool {
	if a.ActionTypes == nil {
		return true
	}
	_, ok := a.ActionTypes[actionType]
	return ok
}
