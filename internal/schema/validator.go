package schema

import (
	"fmt"
	"github.com/PayRam/go-collection/request"
	"github.com/PayRam/go-collection/service"
	"github.com/xeipuuv/gojsonschema"
	"sort"
)

// JSONSchema is a compiled JSON Schema validator. It implements
// service.Validator for insert and update payloads.
type JSONSchema struct {
	name   string
	schema *gojsonschema.Schema
}

// Compile compiles a schema given as a Go value.
func Compile(name string, doc any) (*JSONSchema, error) {
	return compile(name, gojsonschema.NewGoLoader(doc))
}

// CompileString compiles a schema given as JSON text.
func CompileString(name, src string) (*JSONSchema, error) {
	return compile(name, gojsonschema.NewStringLoader(src))
}

func compile(name string, loader gojsonschema.JSONLoader) (*JSONSchema, error) {
	schema, err := gojsonschema.NewSchema(loader)
	if err != nil {
		return nil, fmt.Errorf("invalid %s json schema: %w", name, err)
	}
	return &JSONSchema{name: name, schema: schema}, nil
}

func (s *JSONSchema) Name() string {
	return s.name
}

// Check validates doc and returns a *service.SchemaValidationError listing
// every violation.
func (s *JSONSchema) Check(doc any) error {
	result, err := s.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &service.SchemaValidationError{Schema: s.name, Err: err}
	}
	if result.Valid() {
		return nil
	}
	var problems []string
	for _, desc := range result.Errors() {
		problems = append(problems, desc.String())
	}
	sort.Strings(problems)
	return service.NewSchemaValidationError(s.name, problems...)
}

func (s *JSONSchema) Validate(payload request.Record) (request.Record, error) {
	payload = request.Record(Prune(payload))
	if err := s.Check(payload); err != nil {
		return nil, err
	}
	return payload, nil
}

// Prune copies doc without the keys set to request.Absent. Directive
// sub-documents are pruned the same way and normalised to map[string]any.
func Prune(doc map[string]any) map[string]any {
	pruned := make(map[string]any, len(doc))
	for key, value := range doc {
		switch v := value.(type) {
		case request.AbsentValue, *request.AbsentValue:
			continue
		case request.Filter:
			pruned[key] = Prune(v)
		case request.Record:
			pruned[key] = Prune(v)
		case map[string]any:
			if key == request.OperatorAnd || key == request.OperatorOr {
				pruned[key] = Prune(v)
			} else {
				pruned[key] = v
			}
		default:
			pruned[key] = value
		}
	}
	return pruned
}
