package filter

import (
	"gorm.io/gorm/clause"
)

// Compile builds the predicate for f. The boolean is false when f produces no
// condition, which callers must treat as "no predicate".
//
// Plain columns form one AND group, $and a second AND group and $or an OR
// group; the non-empty groups are joined with an outer AND. Every value is
// carried as a bind variable by gorm's clause builders.
func Compile(f Filter) (clause.Expression, bool) {
	var groups []clause.Expression
	if len(f.Fields) > 0 {
		groups = append(groups, clause.AndConditions{Exprs: expressions(f.Fields)})
	}
	if len(f.And) > 0 {
		groups = append(groups, clause.AndConditions{Exprs: expressions(f.And)})
	}
	if len(f.Or) > 0 {
		// gorm joins a single-element OrConditions to its sibling with OR,
		// so a one-entry $or is emitted as a plain group.
		if len(f.Or) == 1 {
			groups = append(groups, clause.AndConditions{Exprs: expressions(f.Or)})
		} else {
			groups = append(groups, clause.OrConditions{Exprs: expressions(f.Or)})
		}
	}

	switch len(groups) {
	case 0:
		return nil, false
	case 1:
		return groups[0], true
	default:
		return clause.AndConditions{Exprs: groups}, true
	}
}

func expressions(fields []FieldCondition) []clause.Expression {
	exprs := make([]clause.Expression, 0, len(fields))
	for _, fc := range fields {
		exprs = append(exprs, fc.Condition.Expression(fc.Column))
	}
	return exprs
}
