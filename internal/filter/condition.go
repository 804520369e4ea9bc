package filter

import (
	"gorm.io/gorm/clause"
)

// Condition is the per-column part of a filter. It is one of Eq, In or IsNull.
type Condition interface {
	Expression(column string) clause.Expression
	isCondition()
}

// Eq matches rows whose column equals Value.
type Eq struct {
	Value any
}

// In matches rows whose column is one of Values. An empty set matches nothing.
type In struct {
	Values []any
}

// IsNull matches rows whose column is NULL.
type IsNull struct{}

func (Eq) isCondition()     {}
func (In) isCondition()     {}
func (IsNull) isCondition() {}

func (c Eq) Expression(column string) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: column}, Value: c.Value}
}

func (c In) Expression(column string) clause.Expression {
	values := c.Values
	if values == nil {
		values = []any{}
	}
	return clause.IN{Column: clause.Column{Name: column}, Values: values}
}

func (IsNull) Expression(column string) clause.Expression {
	// clause.Eq renders a nil value as IS NULL.
	return clause.Eq{Column: clause.Column{Name: column}, Value: nil}
}

type FieldCondition struct {
	Column    string
	Condition Condition
}

// Filter is a parsed filter document.
type Filter struct {
	Fields []FieldCondition // ANDed plain columns
	And    []FieldCondition // $and
	Or     []FieldCondition // $or
}

// Empty reports whether the filter has no condition at all.
func (f Filter) Empty() bool {
	return len(f.Fields) == 0 && len(f.And) == 0 && len(f.Or) == 0
}
