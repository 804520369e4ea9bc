package schema

import (
	"github.com/PayRam/go-collection/request"
	"github.com/PayRam/go-collection/service"
)

const decimalPattern = `^-?[0-9]+(\.[0-9]+)?$`

// Validators holds the three validators derived from a registry.
type Validators struct {
	Filter *JSONSchema
	Insert *JSONSchema
	Update *JSONSchema
}

// Derive compiles the filter, insert and update validators for r.
func Derive(r *Registry) (*Validators, error) {
	filter, err := Compile(service.SchemaFilter, FilterDocument(r))
	if err != nil {
		return nil, err
	}
	insert, err := Compile(service.SchemaInsert, InsertDocument(r))
	if err != nil {
		return nil, err
	}
	update, err := Compile(service.SchemaUpdate, UpdateDocument(r))
	if err != nil {
		return nil, err
	}
	return &Validators{Filter: filter, Insert: insert, Update: update}, nil
}

// FilterDocument is the JSON Schema of a filter document: per column a scalar
// or {"in": [...]}, plus optional one-level "$and" and "$or" objects.
func FilterDocument(r *Registry) map[string]any {
	fields := map[string]any{}
	for _, c := range r.columns {
		fields[c.Name] = map[string]any{
			"anyOf": []any{
				scalarDocument(c, c.Nullable),
				map[string]any{
					"type":                 "object",
					"additionalProperties": false,
					"required":             []any{request.OperatorIn},
					"properties": map[string]any{
						request.OperatorIn: map[string]any{
							"type":  "array",
							"items": scalarDocument(c, false),
						},
					},
				},
			},
		}
	}

	properties := map[string]any{
		request.OperatorAnd: objectDocument(fields, nil),
		request.OperatorOr:  objectDocument(fields, nil),
	}
	for name, field := range fields {
		properties[name] = field
	}
	return objectDocument(properties, nil)
}

// InsertDocument requires every column that has neither a default nor NULL
// support. Generated identity columns are not accepted.
func InsertDocument(r *Registry) map[string]any {
	properties := map[string]any{}
	var required []any
	for _, c := range r.columns {
		if c.Generated {
			continue
		}
		properties[c.Name] = scalarDocument(c, c.Nullable)
		if c.RequiredOnInsert() {
			required = append(required, c.Name)
		}
	}
	return objectDocument(properties, required)
}

// UpdateDocument makes every writable column optional.
func UpdateDocument(r *Registry) map[string]any {
	properties := map[string]any{}
	for _, c := range r.columns {
		if c.Generated {
			continue
		}
		properties[c.Name] = scalarDocument(c, c.Nullable)
	}
	return objectDocument(properties, nil)
}

func objectDocument(properties map[string]any, required []any) map[string]any {
	doc := map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties":           properties,
	}
	if len(required) > 0 {
		doc["required"] = required
	}
	return doc
}

func scalarDocument(c Column, nullable bool) map[string]any {
	var doc map[string]any
	switch c.Type {
	case TypeString:
		doc = map[string]any{"type": "string"}
		if c.Size > 0 {
			doc["maxLength"] = c.Size
		}
	case TypeInteger:
		doc = map[string]any{"type": "integer"}
	case TypeNumber:
		doc = map[string]any{"type": "number"}
	case TypeBoolean:
		doc = map[string]any{"type": "boolean"}
	case TypeTime:
		doc = map[string]any{"type": "string", "format": "date-time"}
	case TypeUUID:
		doc = map[string]any{"type": "string", "format": "uuid"}
	case TypeDecimal:
		doc = map[string]any{"type": []any{"string", "number"}, "pattern": decimalPattern}
	}
	if nullable {
		return map[string]any{"anyOf": []any{doc, map[string]any{"type": "null"}}}
	}
	return doc
}
