package filter

import (
	"github.com/PayRam/go-collection/request"
	"gorm.io/gorm/clause"
)

// CompileSort converts sort fields to ORDER BY columns, keeping the caller's
// order. Fields whose direction is neither asc nor desc are skipped.
func CompileSort(fields []request.SortField) []clause.OrderByColumn {
	var columns []clause.OrderByColumn
	for _, field := range fields {
		switch field.Direction {
		case request.SortAsc:
			columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: field.Column}})
		case request.SortDesc:
			columns = append(columns, clause.OrderByColumn{Column: clause.Column{Name: field.Column}, Desc: true})
		}
	}
	return columns
}
