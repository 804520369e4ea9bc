package request

import (
	"fmt"
	"strings"
)

const (
	SortAsc  = "asc"
	SortDesc = "desc"

	OperatorAnd = "$and"
	OperatorOr  = "$or"
	OperatorIn  = "in"
)

// Filter is a document describing which rows an operation targets.
//
// Each column key maps to a literal scalar (equality), nil (IS NULL) or a
// set-membership wrapper built with In. The optional "$and" and "$or" keys hold
// sub-documents with the same per-column shape, one level deep.
type Filter map[string]any

// Record is an insert or update payload keyed by column name.
type Record map[string]any

// AbsentValue marks a key as not specified.
type AbsentValue struct{}

// Absent can be assigned to any filter or payload key to make it behave as if
// the key had been omitted. It never matches rows where the column is missing.
var Absent = AbsentValue{}

// In builds a set-membership condition for a filter column.
func In(values ...any) map[string]any {
	if values == nil {
		values = []any{}
	}
	return map[string]any{OperatorIn: values}
}

type SortField struct {
	Column    string `json:"column"`
	Direction string `json:"direction"` // asc or desc, anything else is ignored
}

// QueryOptions are the optional read modifiers for Find and FindOne. Sort
// entries with an unrecognized direction are ignored, whatever their column;
// the remaining entries must name known columns.
type QueryOptions struct {
	Sort   []SortField `json:"sort"`
	Limit  int         `json:"limit"`  // <= 0 means no limit
	Offset int         `json:"offset"` // must not be negative
}

// ParseSort reads "column:direction" pairs separated by commas, e.g.
// "name:asc,age:desc". A pair without a direction defaults to ascending.
func ParseSort(s string) ([]SortField, error) {
	var fields []SortField
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		column, direction, found := strings.Cut(part, ":")
		if !found {
			direction = SortAsc
		}
		column = strings.TrimSpace(column)
		if column == "" {
			return nil, fmt.Errorf("invalid sort directive %q", part)
		}
		fields = append(fields, SortField{Column: column, Direction: strings.TrimSpace(direction)})
	}
	return fields, nil
}
