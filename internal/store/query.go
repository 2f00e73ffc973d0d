package store

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Filter restricts a Select to rows whose Column equals Value, or is one of
// Values when Values is set.
type Filter struct {
	Column string
	Value  any
	Values []any
}

// Eq matches rows where column = v.
func Eq(column string, v any) Filter { return Filter{Column: column, Value: v} }

// In matches rows where column is any of vs.
func In(column string, vs ...string) Filter {
	values := make([]any, len(vs))
	for i, v := range vs {
		values[i] = v
	}
	return Filter{Column: column, Values: values}
}

// Query describes a read. The zero Query selects every row in table order.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
	Limit   int
}

func (q Query) apply(tx *gorm.DB, tieBreak []string) *gorm.DB {
	for _, f := range q.Filters {
		col := clause.Column{Name: f.Column}
		if f.Values != nil {
			tx = tx.Where(clause.IN{Column: col, Values: f.Values})
		} else {
			tx = tx.Where(clause.Eq{Column: col, Value: f.Value})
		}
	}
	if q.OrderBy != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: q.OrderBy}, Desc: q.Desc})
		// equal sort keys fall back to insertion order
		for _, c := range tieBreak {
			if c != q.OrderBy {
				tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: c}})
			}
		}
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}
	return tx
}
