package filter_test

import (
	"github.com/PayRam/go-collection/internal/filter"
	"github.com/PayRam/go-collection/internal/schema"
	"github.com/PayRam/go-collection/internal/testutil"
	"github.com/PayRam/go-collection/models"
	"github.com/PayRam/go-collection/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"testing"
)

func eq(column string, value any) clause.Expression {
	return clause.Eq{Column: clause.Column{Name: column}, Value: value}
}

func compile(t *testing.T, r *schema.Registry, doc request.Filter) (clause.Expression, bool) {
	t.Helper()
	parsed, err := filter.Parse(schema.Prune(doc), r)
	require.NoError(t, err)
	return filter.Compile(parsed)
}

func TestCompile(t *testing.T) {
	gdb := testutil.NewDB(t)
	registry, err := schema.NewRegistry(gdb, &models.User{})
	require.NoError(t, err)

	tests := []struct {
		name   string
		input  request.Filter
		expr   clause.Expression
		hasAny bool
	}{
		{
			"empty filter",
			request.Filter{},
			nil,
			false,
		},
		{
			"only absent fields",
			request.Filter{"name": request.Absent, "$or": request.Filter{"age": request.Absent}},
			nil,
			false,
		},
		{
			"single field is a one element and group",
			request.Filter{"name": "Ann"},
			clause.AndConditions{Exprs: []clause.Expression{eq("name", "Ann")}},
			true,
		},
		{
			"plain fields sorted and coerced",
			request.Filter{"name": "Ann", "age": float64(30)},
			clause.AndConditions{Exprs: []clause.Expression{eq("age", int64(30)), eq("name", "Ann")}},
			true,
		},
		{
			"null literal is is-null",
			request.Filter{"nickname": nil},
			clause.AndConditions{Exprs: []clause.Expression{eq("nickname", nil)}},
			true,
		},
		{
			"set membership",
			request.Filter{"email": request.In("a@x.com", "b@x.com")},
			clause.AndConditions{Exprs: []clause.Expression{
				clause.IN{Column: clause.Column{Name: "email"}, Values: []any{"a@x.com", "b@x.com"}},
			}},
			true,
		},
		{
			"empty set",
			request.Filter{"email": request.In()},
			clause.AndConditions{Exprs: []clause.Expression{
				clause.IN{Column: clause.Column{Name: "email"}, Values: []any{}},
			}},
			true,
		},
		{
			"or group",
			request.Filter{"$or": request.Filter{"name": "Ann", "age": 30}},
			clause.OrConditions{Exprs: []clause.Expression{eq("age", int64(30)), eq("name", "Ann")}},
			true,
		},
		{
			"single entry or group",
			request.Filter{"$or": request.Filter{"name": "Ann"}},
			clause.AndConditions{Exprs: []clause.Expression{eq("name", "Ann")}},
			true,
		},
		{
			"all groups",
			request.Filter{
				"name": "Ann",
				"$and": request.Filter{"age": 30},
				"$or":  request.Filter{"nickname": nil, "email": "a@x.com"},
			},
			clause.AndConditions{Exprs: []clause.Expression{
				clause.AndConditions{Exprs: []clause.Expression{eq("name", "Ann")}},
				clause.AndConditions{Exprs: []clause.Expression{eq("age", int64(30))}},
				clause.OrConditions{Exprs: []clause.Expression{eq("email", "a@x.com"), eq("nickname", nil)}},
			}},
			true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			expr, ok := compile(t, registry, tt.input)
			assert.Equal(t, tt.hasAny, ok)
			assert.Equal(t, tt.expr, expr)
		})
	}
}

func TestCompile_AbsentEqualsOmission(t *testing.T) {
	gdb := testutil.NewDB(t)
	registry, err := schema.NewRegistry(gdb, &models.User{})
	require.NoError(t, err)

	withAbsent, _ := compile(t, registry, request.Filter{"name": "Ann", "nickname": request.Absent})
	omitted, _ := compile(t, registry, request.Filter{"name": "Ann"})
	assert.Equal(t, omitted, withAbsent)

	// Absent must not turn into an IS NULL check.
	isNull, _ := compile(t, registry, request.Filter{"name": "Ann", "nickname": nil})
	assert.NotEqual(t, isNull, withAbsent)
}

func TestCompile_SQL(t *testing.T) {
	gdb := testutil.NewDB(t)
	registry, err := schema.NewRegistry(gdb, &models.User{})
	require.NoError(t, err)

	render := func(doc request.Filter) (string, []any) {
		expr, ok := compile(t, registry, doc)
		require.True(t, ok)
		stmt := gdb.Session(&gorm.Session{DryRun: true}).Model(&models.User{}).Where(expr).Find(&[]models.User{}).Statement
		return stmt.SQL.String(), stmt.Vars
	}

	sql, vars := render(request.Filter{"name": "Ann", "$or": request.Filter{"age": 30}})
	assert.Equal(t, "SELECT * FROM `users` WHERE `name` = ? AND `age` = ?", sql)
	assert.Equal(t, []any{"Ann", int64(30)}, vars)

	sql, vars = render(request.Filter{"name": "Ann", "$or": request.Filter{"age": 30, "nickname": "annie"}})
	assert.Equal(t, "SELECT * FROM `users` WHERE `name` = ? AND (`age` = ? OR `nickname` = ?)", sql)
	assert.Equal(t, []any{"Ann", int64(30), "annie"}, vars)

	// Values never reach the SQL text.
	sql, vars = render(request.Filter{"name": "x' OR 1=1 --"})
	assert.Equal(t, "SELECT * FROM `users` WHERE `name` = ?", sql)
	assert.Equal(t, []any{"x' OR 1=1 --"}, vars)
}

func sampleValue(t *testing.T, c schema.Column) any {
	t.Helper()
	switch c.Type {
	case schema.TypeString:
		return "x"
	case schema.TypeInteger:
		return float64(7)
	case schema.TypeNumber:
		return 1.5
	case schema.TypeBoolean:
		return true
	case schema.TypeTime:
		return "2026-10-19T10:00:00Z"
	case schema.TypeUUID:
		return "5b6f2a1e-7c3d-4e8f-9a0b-1c2d3e4f5a6b"
	case schema.TypeDecimal:
		return "12.5"
	}
	t.Fatalf("no sample value for column %s of type %s", c.Name, c.Type)
	return nil
}

func TestCompile_EveryColumnAndKind(t *testing.T) {
	gdb := testutil.NewDB(t)
	registry, err := schema.NewRegistry(gdb, &models.User{})
	require.NoError(t, err)

	for _, c := range registry.Columns() {
		value := sampleValue(t, c)
		kinds := map[string]any{
			"eq":       value,
			"in":       request.In(value, value),
			"empty in": request.In(),
			"is null":  nil,
		}
		for kind, cond := range kinds {
			docs := map[string]request.Filter{
				"plain": {c.Name: cond},
				"$and":  {request.OperatorAnd: request.Filter{c.Name: cond}},
				"$or":   {request.OperatorOr: request.Filter{c.Name: cond, "id": float64(1)}},
				"mixed": {c.Name: cond, request.OperatorAnd: request.Filter{c.Name: cond}, request.OperatorOr: request.Filter{c.Name: cond}},
			}
			for placement, doc := range docs {
				t.Run(c.Name+"/"+kind+"/"+placement, func(t *testing.T) {
					parsed, err := filter.Parse(schema.Prune(doc), registry)
					require.NoError(t, err)
					expr, ok := filter.Compile(parsed)
					require.True(t, ok)

					stmt := gdb.Session(&gorm.Session{DryRun: true}).Model(&models.User{}).Where(expr).Find(&[]models.User{}).Statement
					require.NoError(t, stmt.Error)
					assert.Contains(t, stmt.SQL.String(), "`"+c.Name+"`")
				})
			}
		}
	}
}

func TestParse_UnknownColumn(t *testing.T) {
	gdb := testutil.NewDB(t)
	registry, err := schema.NewRegistry(gdb, &models.User{})
	require.NoError(t, err)

	_, err = filter.Parse(map[string]any{"password": "x"}, registry)
	assert.Error(t, err)

	_, err = filter.Parse(map[string]any{"$or": "name"}, registry)
	assert.Error(t, err)

	_, err = filter.Parse(map[string]any{"email": map[string]any{"in": "a@x.com"}}, registry)
	assert.Error(t, err)
}

func TestCompileSort(t *testing.T) {
	columns := filter.CompileSort([]request.SortField{
		{Column: "name", Direction: request.SortAsc},
		{Column: "email", Direction: "ASC"},
		{Column: "age", Direction: request.SortDesc},
		{Column: "nickname", Direction: "sideways"},
	})
	assert.Equal(t, []clause.OrderByColumn{
		{Column: clause.Column{Name: "name"}},
		{Column: clause.Column{Name: "age"}, Desc: true},
	}, columns)

	assert.Empty(t, filter.CompileSort(nil))
}
