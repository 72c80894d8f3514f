package query

import (
	"errors"
	"regexp"
	"testing"
)

func TestParseSort(t *testing.T) {
	cases := map[string]Sort{
		"":             {},
		"asc":          {FieldPrice, false},
		"DESC":         {FieldPrice, true},
		"likes_asc":    {FieldLikes, false},
		"likes_desc":   {FieldLikes, true},
		"reviews_asc":  {FieldReviewCount, false},
		"reviews_desc": {FieldReviewCount, true},
		"price_asc":    {FieldPrice, false},
		" price_desc ": {FieldPrice, true},
	}
	for in, want := range cases {
		got, err := ParseSort(in)
		if err != nil || got != want {
			t.Fatalf("ParseSort(%q) = %+v,%v; want %+v", in, got, err, want)
		}
	}
	for _, bad := range []string{"rating", "likes", "price_up", "1"} {
		if _, err := ParseSort(bad); !errors.Is(err, ErrInvalidSort) {
			t.Fatalf("ParseSort(%q) err = %v; want ErrInvalidSort", bad, err)
		}
	}
}

func TestMeals_Filter(t *testing.T) {
	f := Meals("  PIZZA ", "lunch", Sort{FieldLikes, true})
	if f.Term() != "pizza" || !f.HasSearch() {
		t.Fatalf("term = %q", f.Term())
	}
	if len(f.SearchFields) != 2 || f.SearchFields[0] != FieldTitle || f.SearchFields[1] != FieldCategory {
		t.Fatalf("search fields = %v", f.SearchFields)
	}
	if len(f.Eq) != 1 || f.Eq[0] != (Cond{FieldCategory, "lunch"}) {
		t.Fatalf("eq = %v", f.Eq)
	}

	all := Meals("", "", Sort{})
	if all.HasSearch() || len(all.Eq) != 0 || !all.Sort.IsZero() {
		t.Fatalf("empty meal filter must match all: %+v", all)
	}
}

func TestFold_NonASCII(t *testing.T) {
	cases := map[string]string{
		"Éclair":  "éclair",
		"ÅSE":     "åse",
		"ΣΟΦΙΑ":   "σοφια",
		"already": "already",
	}
	for in, want := range cases {
		if got := Fold(in); got != want {
			t.Fatalf("Fold(%q) = %q; want %q", in, got, want)
		}
	}
	if got := Meals(" ÉCLAIR ", "", Sort{}).Term(); got != "éclair" {
		t.Fatalf("Term() = %q", got)
	}
}

func TestRequests_AndUsers(t *testing.T) {
	r := Requests("", "a@x.io")
	if r.HasSearch() || len(r.Eq) != 1 || r.Eq[0].Field != FieldUserEmail {
		t.Fatalf("requests filter = %+v", r)
	}
	u := Users("ann")
	if !u.HasSearch() || u.SearchFields[0] != FieldName || u.SearchFields[1] != FieldEmail {
		t.Fatalf("users filter = %+v", u)
	}
}

func TestLikePattern_EscapesMetacharacters(t *testing.T) {
	cases := map[string]string{
		"rice":    `%rice%`,
		"50%":     `%50\%%`,
		"a_b":     `%a\_b%`,
		`back\sl`: `%back\\sl%`,
	}
	for in, want := range cases {
		if got := LikePattern(in); got != want {
			t.Fatalf("LikePattern(%q) = %q; want %q", in, got, want)
		}
	}
}

func TestRegexPattern_MatchesLiterally(t *testing.T) {
	re := regexp.MustCompile(RegexPattern("a.b(c)*"))
	if !re.MatchString("xx a.b(c)* yy") {
		t.Fatalf("literal text must match")
	}
	if re.MatchString("aXb(c)") {
		t.Fatalf("metacharacters must not be interpreted")
	}
}
