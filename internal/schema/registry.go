package schema

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	gormschema "gorm.io/gorm/schema"
	"reflect"
	"time"
)

type ColumnType string

const (
	TypeString  ColumnType = "string"
	TypeInteger ColumnType = "integer"
	TypeNumber  ColumnType = "number"
	TypeBoolean ColumnType = "boolean"
	TypeTime    ColumnType = "time"
	TypeUUID    ColumnType = "uuid"
	TypeDecimal ColumnType = "decimal"
)

// ErrNoColumns is returned when a model maps to a table without columns.
var ErrNoColumns = errors.New("table exposes no columns")

var (
	timeType      = reflect.TypeOf(time.Time{})
	deletedAtType = reflect.TypeOf(gorm.DeletedAt{})
	uuidType      = reflect.TypeOf(uuid.UUID{})
	decimalType   = reflect.TypeOf(decimal.Decimal{})
)

// Column describes a single table column.
type Column struct {
	Name       string     // database column name
	Type       ColumnType // scalar type
	Nullable   bool       // accepts NULL
	HasDefault bool       // filled by the store or gorm when omitted
	Generated  bool       // identity column, never written by callers
	Size       int        // max length for string columns, 0 when unbounded

	field *gormschema.Field
}

// RequiredOnInsert reports whether an insert payload must carry the column.
func (c Column) RequiredOnInsert() bool {
	return !c.Nullable && !c.HasDefault && !c.Generated
}

// Registry is the immutable set of columns of one table, in declaration order.
type Registry struct {
	table   string
	columns []Column
	byName  map[string]int
}

// NewRegistry parses model with the naming strategy and schema cache of db.
func NewRegistry(db *gorm.DB, model any) (*Registry, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return nil, fmt.Errorf("failed to parse model: %w", err)
	}
	return FromSchema(stmt.Schema)
}

// FromSchema builds a registry from an already parsed gorm schema.
func FromSchema(s *gormschema.Schema) (*Registry, error) {
	r := &Registry{table: s.Table, byName: map[string]int{}}
	for _, name := range s.DBNames {
		field := s.FieldsByDBName[name]
		if field == nil || !field.Readable {
			continue
		}
		column, err := newColumn(field)
		if err != nil {
			return nil, err
		}
		r.byName[column.Name] = len(r.columns)
		r.columns = append(r.columns, column)
	}
	if len(r.columns) == 0 {
		return nil, fmt.Errorf("%s: %w", s.Table, ErrNoColumns)
	}
	return r, nil
}

func newColumn(field *gormschema.Field) (Column, error) {
	column := Column{
		Name:       field.DBName,
		Nullable:   field.FieldType.Kind() == reflect.Ptr && !field.NotNull && !field.PrimaryKey,
		HasDefault: field.HasDefaultValue || field.AutoCreateTime > 0 || field.AutoUpdateTime > 0,
		Generated:  field.AutoIncrement,
		field:      field,
	}

	switch t := field.IndirectFieldType; {
	case t == timeType:
		column.Type = TypeTime
	case t == deletedAtType:
		column.Type = TypeTime
		column.Nullable = true
	case t == uuidType:
		column.Type = TypeUUID
	case t == decimalType:
		column.Type = TypeDecimal
	default:
		switch t.Kind() {
		case reflect.String:
			column.Type = TypeString
			column.Size = field.Size
		case reflect.Bool:
			column.Type = TypeBoolean
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
			reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			column.Type = TypeInteger
		case reflect.Float32, reflect.Float64:
			column.Type = TypeNumber
		default:
			return Column{}, fmt.Errorf("column %s: unsupported field type %s", field.DBName, t)
		}
	}
	return column, nil
}

func (r *Registry) Table() string {
	return r.table
}

// Columns returns a copy of the columns in declaration order.
func (r *Registry) Columns() []Column {
	columns := make([]Column, len(r.columns))
	copy(columns, r.columns)
	return columns
}

func (r *Registry) Column(name string) (Column, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return Column{}, false
	}
	return r.columns[idx], true
}

func (r *Registry) Names() []string {
	names := make([]string, len(r.columns))
	for i, c := range r.columns {
		names[i] = c.Name
	}
	return names
}

// Assign coerces value to the column type and stores it in the matching field
// of dest, which must be an addressable model struct.
func (r *Registry) Assign(ctx context.Context, dest reflect.Value, name string, value any) error {
	column, ok := r.Column(name)
	if !ok {
		return fmt.Errorf("unknown column %q", name)
	}
	coerced, err := column.Coerce(value)
	if err != nil {
		return err
	}
	if err := column.field.Set(ctx, dest, coerced); err != nil {
		return fmt.Errorf("column %s: %w", name, err)
	}
	return nil
}

// Assignments coerces every value of payload to its column type, producing a
// column -> value map suitable for gorm's Updates.
func (r *Registry) Assignments(payload map[string]any) (map[string]any, error) {
	values := make(map[string]any, len(payload))
	for name, value := range payload {
		column, ok := r.Column(name)
		if !ok {
			return nil, fmt.Errorf("unknown column %q", name)
		}
		if column.Generated {
			return nil, fmt.Errorf("column %q is generated by the store", name)
		}
		coerced, err := column.Coerce(value)
		if err != nil {
			return nil, err
		}
		values[name] = coerced
	}
	return values, nil
}
