package repo

import (
	"database/sql/driver"
	"strings"

	gosqlite "github.com/glebarez/go-sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/tbourn/go-hostel-backend/internal/query"
)

// foldFunc is the SQLite name of query.Fold. The built-in LOWER only maps
// ASCII letters, so an "É" stored in a title would never match "é".
const foldFunc = "hostel_fold"

func init() {
	gosqlite.MustRegisterDeterministicScalarFunction(foldFunc, 1, func(_ *gosqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
		switch v := args[0].(type) {
		case string:
			return query.Fold(v), nil
		case []byte:
			return query.Fold(string(v)), nil
		}
		return args[0], nil
	})
}

// lowerExpr returns the case-folding SQL function for q's dialect.
func lowerExpr(q *gorm.DB) string {
	if q.Dialector != nil && q.Dialector.Name() == "sqlite" {
		return foldFunc
	}
	return "LOWER"
}

// applyFilter adds the WHERE clauses for f. Field names come from the
// query.Field whitelist and are quoted by GORM; user text is bound.
func applyFilter(q *gorm.DB, f query.Filter) *gorm.DB {
	for _, c := range f.Eq {
		q = q.Where(clause.Eq{Column: clause.Column{Name: string(c.Field)}, Value: c.Value})
	}
	if f.HasSearch() {
		pat := query.LikePattern(f.Term())
		fold := lowerExpr(q)
		parts := make([]string, 0, len(f.SearchFields))
		args := make([]any, 0, len(f.SearchFields))
		for _, fld := range f.SearchFields {
			parts = append(parts, fold+"("+string(fld)+`) LIKE ? ESCAPE '\'`)
			args = append(args, pat)
		}
		q = q.Where("("+strings.Join(parts, " OR ")+")", args...)
	}
	return q
}

// applySort orders by f.Sort with an id tiebreaker. Without an explicit sort
// rows come back in creation order.
func applySort(q *gorm.DB, s query.Sort) *gorm.DB {
	if s.IsZero() {
		return q.Order("created_at ASC").Order("id ASC")
	}
	return q.
		Order(clause.OrderByColumn{Column: clause.Column{Name: string(s.Field)}, Desc: s.Desc}).
		Order("id ASC")
}

// window applies offset/limit; limit <= 0 means unbounded.
func window(q *gorm.DB, offset, limit int) *gorm.DB {
	if offset > 0 {
		q = q.Offset(offset)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	return q
}
