package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := map[string]struct {
		want Role
		ok   bool
	}{
		"admin":   {RoleAdmin, true},
		"Admin":   {RoleAdmin, true},
		" ADMIN ": {RoleAdmin, true},
		"user":    {RoleUser, true},
		"root":    {"", false},
		"":        {"", false},
	}
	for in, c := range cases {
		got, ok := ParseRole(in)
		if got != c.want || ok != c.ok {
			t.Fatalf("ParseRole(%q) = (%q,%v); want (%q,%v)", in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseBadge_AndStatus(t *testing.T) {
	if b, ok := ParseBadge("Gold"); !ok || b != BadgeGold {
		t.Fatalf("ParseBadge(Gold) = %q,%v", b, ok)
	}
	if _, ok := ParseBadge("diamond"); ok {
		t.Fatalf("diamond must be rejected")
	}
	if s, ok := ParseRequestStatus("DELIVERED"); !ok || s != StatusDelivered {
		t.Fatalf("ParseRequestStatus(DELIVERED) = %q,%v", s, ok)
	}
	if _, ok := ParseRequestStatus("cancelled"); ok {
		t.Fatalf("cancelled must be rejected")
	}
}

func TestLikeState_Toggle(t *testing.T) {
	s := LikeState{Likes: 4}
	s1 := s.Toggle()
	if s1 != (LikeState{Likes: 5, Liked: true}) {
		t.Fatalf("first toggle = %+v", s1)
	}
	if back := s1.Toggle(); back != s {
		t.Fatalf("toggle twice = %+v; want %+v", back, s)
	}
	// Corrupt state with liked=true and zero likes clamps at zero.
	if z := (LikeState{Likes: 0, Liked: true}).Toggle(); z.Likes != 0 || z.Liked {
		t.Fatalf("clamp = %+v", z)
	}
}

func TestPatchChanges(t *testing.T) {
	if !(UserPatch{}).Empty() || !(RequestPatch{}).Empty() {
		t.Fatalf("zero patches must be empty")
	}
	b := BadgeSilver
	r := RoleAdmin
	ch := UserPatch{Badge: &b, Role: &r}.Changes()
	if ch["badge"] != "silver" || ch["role"] != "admin" || len(ch) != 2 {
		t.Fatalf("UserPatch.Changes() = %v", ch)
	}
	st := StatusDelivered
	rc := RequestPatch{Status: &st}.Changes()
	if rc["status"] != "delivered" || len(rc) != 1 {
		t.Fatalf("RequestPatch.Changes() = %v", rc)
	}
}
