package filter

import (
	"fmt"
	"github.com/PayRam/go-collection/internal/schema"
	"github.com/PayRam/go-collection/request"
	"reflect"
	"sort"
)

// Parse turns a validated, pruned filter document into a Filter. Keys are
// visited in sorted order so that compiled predicates are deterministic.
func Parse(doc map[string]any, r *schema.Registry) (Filter, error) {
	var f Filter
	for _, key := range sortedKeys(doc) {
		value := doc[key]
		switch key {
		case request.OperatorAnd, request.OperatorOr:
			sub, ok := value.(map[string]any)
			if !ok {
				return Filter{}, fmt.Errorf("%s must be an object, got %T", key, value)
			}
			fields, err := parseFields(sub, r)
			if err != nil {
				return Filter{}, fmt.Errorf("%s: %w", key, err)
			}
			if key == request.OperatorAnd {
				f.And = fields
			} else {
				f.Or = fields
			}
		default:
			fc, err := parseField(key, value, r)
			if err != nil {
				return Filter{}, err
			}
			f.Fields = append(f.Fields, fc)
		}
	}
	return f, nil
}

func parseFields(doc map[string]any, r *schema.Registry) ([]FieldCondition, error) {
	var fields []FieldCondition
	for _, key := range sortedKeys(doc) {
		fc, err := parseField(key, doc[key], r)
		if err != nil {
			return nil, err
		}
		fields = append(fields, fc)
	}
	return fields, nil
}

func parseField(name string, value any, r *schema.Registry) (FieldCondition, error) {
	column, ok := r.Column(name)
	if !ok {
		return FieldCondition{}, fmt.Errorf("unknown column %q", name)
	}

	if wrapper, ok := value.(map[string]any); ok {
		raw, ok := wrapper[request.OperatorIn]
		if !ok || len(wrapper) != 1 {
			return FieldCondition{}, fmt.Errorf("column %s: only {%q: [...]} is supported", name, request.OperatorIn)
		}
		rv := reflect.ValueOf(raw)
		if raw != nil && rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return FieldCondition{}, fmt.Errorf("column %s: %q expects a list, got %T", name, request.OperatorIn, raw)
		}
		values := make([]any, 0)
		if raw != nil {
			for i := 0; i < rv.Len(); i++ {
				v, err := column.Coerce(rv.Index(i).Interface())
				if err != nil {
					return FieldCondition{}, err
				}
				if v == nil {
					return FieldCondition{}, fmt.Errorf("column %s: %q does not accept null", name, request.OperatorIn)
				}
				values = append(values, v)
			}
		}
		return FieldCondition{Column: name, Condition: In{Values: values}}, nil
	}

	v, err := column.Coerce(value)
	if err != nil {
		return FieldCondition{}, err
	}
	if v == nil {
		return FieldCondition{Column: name, Condition: IsNull{}}, nil
	}
	return FieldCondition{Column: name, Condition: Eq{Value: v}}, nil
}

func sortedKeys(doc map[string]any) []string {
	keys := make([]string, 0, len(doc))
	for key := range doc {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
