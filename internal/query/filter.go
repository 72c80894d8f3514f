// Package query turns listing parameters (search text, category, sort token)
// into a storage-neutral Filter. Store backends render a Filter into their own
// query language; see repo.applyFilter and mongostore.renderFilter.
package query

import (
	"errors"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrInvalidSort is returned for an unrecognised sort token.
var ErrInvalidSort = errors.New("invalid sort")

// Field is a whitelisted storage field name. Backends use it verbatim as a
// column or document key, so only the constants below are ever rendered.
type Field string

const (
	FieldID          Field = "id"
	FieldTitle       Field = "title"
	FieldCategory    Field = "category"
	FieldPrice       Field = "price"
	FieldLikes       Field = "likes"
	FieldReviewCount Field = "review_count"
	FieldCreatedAt   Field = "created_at"
	FieldName        Field = "name"
	FieldEmail       Field = "email"
	FieldUserEmail   Field = "user_email"
)

// Sort orders results by one field. The zero Sort means insertion order.
type Sort struct {
	Field Field
	Desc  bool
}

// IsZero reports whether no explicit sort was requested.
func (s Sort) IsZero() bool { return s.Field == "" }

var sortTokens = map[string]Sort{
	"likes_asc":    {FieldLikes, false},
	"likes_desc":   {FieldLikes, true},
	"reviews_asc":  {FieldReviewCount, false},
	"reviews_desc": {FieldReviewCount, true},
	"price_asc":    {FieldPrice, false},
	"price_desc":   {FieldPrice, true},
}

// ParseSort maps a listing sort token to a Sort. The empty token is the zero
// Sort; the bare "asc"/"desc" short form orders by price.
func ParseSort(token string) (Sort, error) {
	t := strings.ToLower(strings.TrimSpace(token))
	switch t {
	case "":
		return Sort{}, nil
	case "asc":
		return Sort{FieldPrice, false}, nil
	case "desc":
		return Sort{FieldPrice, true}, nil
	}
	if s, ok := sortTokens[t]; ok {
		return s, nil
	}
	return Sort{}, ErrInvalidSort
}

// Cond is an exact-match constraint.
type Cond struct {
	Field Field
	Value string
}

// Filter is a storage-neutral listing query: an optional case-insensitive
// substring match of Search over any of SearchFields, AND every Eq condition.
type Filter struct {
	Search       string
	SearchFields []Field
	Eq           []Cond
	Sort         Sort
}

// Fold lowercases s with full Unicode case mapping. Backends that cannot
// fold non-ASCII text themselves apply Fold to the stored side as well, so
// both sides of a search compare the same way.
func Fold(s string) string {
	// A Caser carries state and must not be shared across goroutines.
	return cases.Lower(language.Und).String(s)
}

// Term returns the normalised search term, or "" when the filter matches all.
func (f Filter) Term() string {
	return Fold(strings.TrimSpace(f.Search))
}

// HasSearch reports whether a substring constraint applies.
func (f Filter) HasSearch() bool { return f.Term() != "" && len(f.SearchFields) > 0 }

// Meals filters meals by title or category and optionally an exact category.
func Meals(search, category string, sort Sort) Filter {
	f := Filter{
		Search:       search,
		SearchFields: []Field{FieldTitle, FieldCategory},
		Sort:         sort,
	}
	if c := strings.TrimSpace(category); c != "" {
		f.Eq = append(f.Eq, Cond{FieldCategory, c})
	}
	return f
}

// Requests filters meal requests by title or category. A non-empty email
// restricts the result to one requester.
func Requests(search, email string) Filter {
	f := Filter{
		Search:       search,
		SearchFields: []Field{FieldTitle, FieldCategory},
	}
	if e := strings.TrimSpace(email); e != "" {
		f.Eq = append(f.Eq, Cond{FieldUserEmail, e})
	}
	return f
}

// Users filters users by name or email.
func Users(search string) Filter {
	return Filter{
		Search:       search,
		SearchFields: []Field{FieldName, FieldEmail},
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// LikePattern returns a SQL LIKE pattern matching term literally anywhere in
// a value. Use with ESCAPE '\'.
func LikePattern(term string) string {
	return "%" + likeEscaper.Replace(term) + "%"
}

// RegexPattern returns a regular expression matching term literally.
func RegexPattern(term string) string {
	return regexp.QuoteMeta(term)
}
