package go_collection

import (
	"fmt"
	"github.com/PayRam/go-collection/internal/db"
	"github.com/PayRam/go-collection/internal/schema"
	"github.com/PayRam/go-collection/internal/serviceimpl"
	"github.com/PayRam/go-collection/models"
	"github.com/PayRam/go-collection/service"
	"gorm.io/gorm"
	"log/slog"
)

type Option = serviceimpl.Option

// WithInsertValidator replaces the insert validator derived from the table.
func WithInsertValidator(v service.Validator) Option {
	return serviceimpl.WithInsertValidator(v)
}

// WithUpdateValidator replaces the update validator derived from the table.
func WithUpdateValidator(v service.Validator) Option {
	return serviceimpl.WithUpdateValidator(v)
}

func WithLogger(logger *slog.Logger) Option {
	return serviceimpl.WithLogger(logger)
}

// NewJSONSchemaValidator compiles a JSON Schema for use with
// WithInsertValidator or WithUpdateValidator. kind names the payload in
// validation errors, e.g. service.SchemaInsert.
func NewJSONSchemaValidator(kind, src string) (service.Validator, error) {
	return schema.CompileString(kind, src)
}

// NewCollection returns a collection over the table of the gorm model T.
// db is owned by the caller and may be shared between collections.
func NewCollection[T any](db *gorm.DB, opts ...Option) (service.Collection[T], error) {
	return serviceimpl.NewCollectionService[T](db, opts...)
}

type Collections struct {
	Users service.Collection[models.User]
}

// NewCollections migrates db and wires the bundled collections.
func NewCollections(gdb *gorm.DB, opts ...Option) (*Collections, error) {
	if err := db.Migrate(gdb); err != nil {
		return nil, err
	}

	insert, err := NewJSONSchemaValidator(service.SchemaInsert, usersInsertSchema)
	if err != nil {
		return nil, err
	}
	update, err := NewJSONSchemaValidator(service.SchemaUpdate, usersUpdateSchema)
	if err != nil {
		return nil, err
	}
	userOpts := append([]Option{WithInsertValidator(insert), WithUpdateValidator(update)}, opts...)
	users, err := NewCollection[models.User](gdb, userOpts...)
	if err != nil {
		return nil, fmt.Errorf("users collection: %w", err)
	}
	return &Collections{Users: users}, nil
}
