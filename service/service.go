package service

import (
	"context"
	"github.com/PayRam/go-collection/request"
	"github.com/PayRam/go-collection/response"
)

// Collection exposes a document-store-like interface over a single table whose
// rows are represented by the gorm model T.
type Collection[T any] interface {
	// Find returns every row matching filter. An empty filter matches all rows.
	Find(ctx context.Context, filter request.Filter, opts *request.QueryOptions) ([]T, error)
	// FindOne returns the first matching row, or nil.
	FindOne(ctx context.Context, filter request.Filter, opts *request.QueryOptions) (*T, error)
	Insert(ctx context.Context, record request.Record) (*T, error)
	// InsertMany validates every record before writing any of them.
	InsertMany(ctx context.Context, records []request.Record) ([]T, error)
	// Update applies patch to the rows matching filter and returns the first
	// updated row, or nil. An empty filter is rejected with InvalidFilterError.
	Update(ctx context.Context, filter request.Filter, patch request.Record) (*T, error)
	UpdateMany(ctx context.Context, filter request.Filter, patch request.Record) (*response.UpdateResult, error)
	// Delete removes the rows matching filter and returns them. An empty filter
	// is rejected with InvalidFilterError.
	Delete(ctx context.Context, filter request.Filter) ([]T, error)
	// Name is the underlying table name.
	Name() string
}

// Validator checks an insert or update payload and returns the payload to
// write. It may rewrite values, e.g. to hash a secret.
type Validator interface {
	Validate(payload request.Record) (request.Record, error)
}

type ValidatorFunc func(payload request.Record) (request.Record, error)

func (f ValidatorFunc) Validate(payload request.Record) (request.Record, error) {
	return f(payload)
}
