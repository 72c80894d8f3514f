package domain

// UserPatch lists the user fields a caller may change. Nil means "leave as is".
type UserPatch struct {
	Badge *Badge `json:"badge,omitempty"`
	Role  *Role  `json:"role,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool { return p.Badge == nil && p.Role == nil }

// Changes returns the column/field updates keyed by storage name.
func (p UserPatch) Changes() map[string]any {
	out := map[string]any{}
	if p.Badge != nil {
		out["badge"] = string(*p.Badge)
	}
	if p.Role != nil {
		out["role"] = string(*p.Role)
	}
	return out
}

// RequestPatch lists the meal request fields a caller may change.
type RequestPatch struct {
	Status *RequestStatus `json:"status,omitempty"`
}

// Empty reports whether the patch changes nothing.
func (p RequestPatch) Empty() bool { return p.Status == nil }

// Changes returns the column/field updates keyed by storage name.
func (p RequestPatch) Changes() map[string]any {
	out := map[string]any{}
	if p.Status != nil {
		out["status"] = string(*p.Status)
	}
	return out
}
