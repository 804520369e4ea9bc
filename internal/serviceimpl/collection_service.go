package serviceimpl

import (
	"context"
	"errors"
	"fmt"
	"github.com/PayRam/go-collection/internal/filter"
	"github.com/PayRam/go-collection/internal/schema"
	"github.com/PayRam/go-collection/request"
	"github.com/PayRam/go-collection/response"
	"github.com/PayRam/go-collection/service"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"log/slog"
	"reflect"
	"sort"
)

type Option func(*collectionOptions)

type collectionOptions struct {
	insertValidator service.Validator
	updateValidator service.Validator
	logger          *slog.Logger
}

// WithInsertValidator replaces the insert validator derived from the table.
func WithInsertValidator(v service.Validator) Option {
	return func(o *collectionOptions) {
		o.insertValidator = v
	}
}

// WithUpdateValidator replaces the update validator derived from the table.
func WithUpdateValidator(v service.Validator) Option {
	return func(o *collectionOptions) {
		o.updateValidator = v
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(o *collectionOptions) {
		o.logger = logger
	}
}

type collectionService[T any] struct {
	DB              *gorm.DB
	registry        *schema.Registry
	filterSchema    *schema.JSONSchema
	insertValidator service.Validator
	updateValidator service.Validator
	logger          *slog.Logger
}

var _ service.Collection[struct{ ID uint }] = &collectionService[struct{ ID uint }]{}

// NewCollectionService derives the column registry and validators for T once
// and returns a collection bound to db.
func NewCollectionService[T any](db *gorm.DB, opts ...Option) (service.Collection[T], error) {
	if db == nil {
		return nil, errors.New("NewCollectionService: nil database handle")
	}
	o := collectionOptions{logger: slog.Default()}
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}

	registry, err := schema.NewRegistry(db, new(T))
	if err != nil {
		return nil, fmt.Errorf("NewCollectionService: %w", err)
	}
	validators, err := schema.Derive(registry)
	if err != nil {
		return nil, fmt.Errorf("NewCollectionService: %w", err)
	}

	s := &collectionService[T]{
		DB:              db,
		registry:        registry,
		filterSchema:    validators.Filter,
		insertValidator: validators.Insert,
		updateValidator: validators.Update,
		logger:          o.logger.With("table", registry.Table()),
	}
	if o.insertValidator != nil {
		s.insertValidator = o.insertValidator
	}
	if o.updateValidator != nil {
		s.updateValidator = o.updateValidator
	}
	return s, nil
}

func (s *collectionService[T]) Name() string {
	return s.registry.Table()
}

func (s *collectionService[T]) Find(ctx context.Context, f request.Filter, opts *request.QueryOptions) ([]T, error) {
	expr, ok, err := s.predicate(f)
	if err != nil {
		return nil, err
	}

	query := s.DB.WithContext(ctx).Model(new(T))
	// No predicate on a read means every row.
	if ok {
		query = query.Where(expr)
	}
	query, err = s.applyOptions(query, opts)
	if err != nil {
		return nil, err
	}

	var records []T
	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "find", "rows", len(records))
	return records, nil
}

func (s *collectionService[T]) FindOne(ctx context.Context, f request.Filter, opts *request.QueryOptions) (*T, error) {
	findOpts := request.QueryOptions{}
	if opts != nil {
		findOpts = *opts
	}
	findOpts.Limit = 1

	records, err := s.Find(ctx, f, &findOpts)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *collectionService[T]) Insert(ctx context.Context, record request.Record) (*T, error) {
	row, err := s.newRow(ctx, record)
	if err != nil {
		return nil, err
	}
	if err := s.DB.WithContext(ctx).Create(row).Error; err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "insert", "rows", 1)
	return row, nil
}

func (s *collectionService[T]) InsertMany(ctx context.Context, records []request.Record) ([]T, error) {
	// Every record is validated before anything is written.
	rows := make([]T, 0, len(records))
	for i, record := range records {
		row, err := s.newRow(ctx, record)
		if err != nil {
			var verr *service.SchemaValidationError
			if errors.As(err, &verr) {
				verr.Problems = append([]string{fmt.Sprintf("record %d", i)}, verr.Problems...)
			}
			return nil, err
		}
		rows = append(rows, *row)
	}
	if len(rows) == 0 {
		return rows, nil
	}

	if err := s.DB.WithContext(ctx).Create(&rows).Error; err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "insert many", "rows", len(rows))
	return rows, nil
}

func (s *collectionService[T]) Update(ctx context.Context, f request.Filter, patch request.Record) (*T, error) {
	expr, values, err := s.mutation(ctx, "update", f, patch)
	if err != nil {
		return nil, err
	}

	var records []T
	if err := s.DB.WithContext(ctx).Model(&records).Clauses(clause.Returning{}).Where(expr).Updates(values).Error; err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "update", "rows", len(records))
	if len(records) == 0 {
		return nil, nil
	}
	return &records[0], nil
}

func (s *collectionService[T]) UpdateMany(ctx context.Context, f request.Filter, patch request.Record) (*response.UpdateResult, error) {
	expr, values, err := s.mutation(ctx, "update many", f, patch)
	if err != nil {
		return nil, err
	}

	result := s.DB.WithContext(ctx).Model(new(T)).Where(expr).Updates(values)
	if result.Error != nil {
		return nil, result.Error
	}
	s.logger.DebugContext(ctx, "update many", "rows", result.RowsAffected)
	return &response.UpdateResult{Success: true, AffectedCount: result.RowsAffected}, nil
}

func (s *collectionService[T]) Delete(ctx context.Context, f request.Filter) ([]T, error) {
	expr, ok, err := s.predicate(f)
	if err != nil {
		return nil, err
	}
	if !ok {
		s.logger.WarnContext(ctx, "refusing delete without predicate")
		return nil, &service.InvalidFilterError{Operation: "delete"}
	}

	records := []T{}
	if err := s.DB.WithContext(ctx).Clauses(clause.Returning{}).Where(expr).Delete(&records).Error; err != nil {
		return nil, err
	}
	s.logger.DebugContext(ctx, "delete", "rows", len(records))
	return records, nil
}

// predicate validates f and compiles it. ok is false when f yields no
// condition.
func (s *collectionService[T]) predicate(f request.Filter) (clause.Expression, bool, error) {
	doc := schema.Prune(f)
	if err := s.filterSchema.Check(doc); err != nil {
		return nil, false, err
	}
	parsed, err := filter.Parse(doc, s.registry)
	if err != nil {
		return nil, false, service.NewSchemaValidationError(service.SchemaFilter, err.Error())
	}
	expr, ok := filter.Compile(parsed)
	return expr, ok, nil
}

// mutation validates the filter and patch of an update. Both are checked
// before the empty-predicate rule is applied.
func (s *collectionService[T]) mutation(ctx context.Context, op string, f request.Filter, patch request.Record) (clause.Expression, map[string]any, error) {
	expr, ok, err := s.predicate(f)
	if err != nil {
		return nil, nil, err
	}
	payload, err := validate(service.SchemaUpdate, s.updateValidator, patch)
	if err != nil {
		return nil, nil, err
	}
	if len(payload) == 0 {
		return nil, nil, service.NewSchemaValidationError(service.SchemaUpdate, "patch must set at least one column")
	}
	values, err := s.registry.Assignments(payload)
	if err != nil {
		return nil, nil, service.NewSchemaValidationError(service.SchemaUpdate, err.Error())
	}
	if !ok {
		s.logger.WarnContext(ctx, "refusing "+op+" without predicate")
		return nil, nil, &service.InvalidFilterError{Operation: op}
	}
	return expr, values, nil
}

func (s *collectionService[T]) newRow(ctx context.Context, record request.Record) (*T, error) {
	payload, err := validate(service.SchemaInsert, s.insertValidator, record)
	if err != nil {
		return nil, err
	}

	row := new(T)
	dest := reflect.ValueOf(row).Elem()
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		column, ok := s.registry.Column(key)
		if ok && column.Generated {
			return nil, service.NewSchemaValidationError(service.SchemaInsert, fmt.Sprintf("column %q is generated by the store", key))
		}
		if err := s.registry.Assign(ctx, dest, key, payload[key]); err != nil {
			return nil, service.NewSchemaValidationError(service.SchemaInsert, err.Error())
		}
	}
	return row, nil
}

func (s *collectionService[T]) applyOptions(query *gorm.DB, opts *request.QueryOptions) (*gorm.DB, error) {
	if opts == nil {
		return query, nil
	}
	if opts.Offset < 0 {
		return nil, service.NewSchemaValidationError(service.SchemaOptions, fmt.Sprintf("offset must not be negative, got %d", opts.Offset))
	}
	// Entries with an unrecognized direction are dropped before the column
	// check, so they never fail the call.
	for _, column := range filter.CompileSort(opts.Sort) {
		if _, ok := s.registry.Column(column.Column.Name); !ok {
			return nil, service.NewSchemaValidationError(service.SchemaOptions, fmt.Sprintf("cannot sort on unknown column %q", column.Column.Name))
		}
		query = query.Order(column)
	}
	// A zero limit means no limit, unlike the strict empty-filter rule of the
	// mutating operations.
	if opts.Limit > 0 {
		query = query.Limit(opts.Limit)
	}
	if opts.Offset > 0 {
		query = query.Offset(opts.Offset)
	}
	return query, nil
}

func validate(name string, v service.Validator, payload request.Record) (request.Record, error) {
	out, err := v.Validate(request.Record(schema.Prune(payload)))
	if err != nil {
		var verr *service.SchemaValidationError
		if errors.As(err, &verr) {
			return nil, err
		}
		return nil, &service.SchemaValidationError{Schema: name, Err: err}
	}
	return out, nil
}
