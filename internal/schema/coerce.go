package schema

import (
	"encoding/json"
	"fmt"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"math"
	"reflect"
	"time"
)

// Coerce converts an already validated value to the Go type the store expects
// for the column. nil stays nil.
func (c Column) Coerce(value any) (any, error) {
	rv := reflect.ValueOf(value)
	for rv.IsValid() && rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil, nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil, nil
	}
	value = rv.Interface()

	switch c.Type {
	case TypeInteger:
		return toInt64(c.Name, value, rv)
	case TypeNumber:
		return toFloat64(c.Name, value, rv)
	case TypeTime:
		switch v := value.(type) {
		case time.Time:
			return v, nil
		case string:
			t, err := time.Parse(time.RFC3339Nano, v)
			if err != nil {
				return nil, fmt.Errorf("column %s: invalid time %q: %w", c.Name, v, err)
			}
			return t, nil
		}
	case TypeUUID:
		switch v := value.(type) {
		case uuid.UUID:
			return v, nil
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: invalid uuid %q: %w", c.Name, v, err)
			}
			return id, nil
		}
	case TypeDecimal:
		switch v := value.(type) {
		case decimal.Decimal:
			return v, nil
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, fmt.Errorf("column %s: invalid decimal %q: %w", c.Name, v, err)
			}
			return d, nil
		case json.Number:
			return decimal.NewFromString(v.String())
		}
		switch rv.Kind() {
		case reflect.Float32, reflect.Float64:
			return decimal.NewFromFloat(rv.Float()), nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			return decimal.NewFromInt(rv.Int()), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			return decimal.NewFromUint64(rv.Uint()), nil
		}
	case TypeString:
		if rv.Kind() == reflect.String {
			return rv.String(), nil
		}
	case TypeBoolean:
		if rv.Kind() == reflect.Bool {
			return rv.Bool(), nil
		}
	}
	return nil, fmt.Errorf("column %s: cannot use %T as %s", c.Name, value, c.Type)
}

func toInt64(name string, value any, rv reflect.Value) (any, error) {
	if n, ok := value.(json.Number); ok {
		return n.Int64()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("column %s: %d overflows int64", name, u)
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, fmt.Errorf("column %s: %v is not an integer", name, f)
		}
		// float64(math.MaxInt64) rounds up to 2^63, which is already out of range.
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return nil, fmt.Errorf("column %s: %v overflows int64", name, f)
		}
		return int64(f), nil
	}
	return nil, fmt.Errorf("column %s: cannot use %T as integer", name, value)
}

func toFloat64(name string, value any, rv reflect.Value) (any, error) {
	if n, ok := value.(json.Number); ok {
		return n.Float64()
	}
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return float64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	}
	return nil, fmt.Errorf("column %s: cannot use %T as number", name, value)
}
