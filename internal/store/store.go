// Package store is the data access client for the three tables the site
// reads and the admin panel writes.
package store

import (
	"context"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"roomify/internal/models"
)

// Store bundles the typed tables.
type Store struct {
	db            *gorm.DB
	Products      *Table[models.Product]
	ContentBlocks *Table[models.ContentBlock]
	Testimonials  *Table[models.Testimonial]
}

// New wires the tables to db. A nil logger discards row validation warnings.
func New(db *gorm.DB, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	v := newValidator()
	return &Store{
		db:            db,
		Products:      newTable[models.Product](db, models.ProductTable, v, log, "created_at", "id"),
		ContentBlocks: newTable[models.ContentBlock](db, models.ContentBlockTable, v, log, "id"),
		Testimonials:  newTable[models.Testimonial](db, models.TestimonialTable, v, log, "created_at", "id"),
	}
}

func newTable[T any](db *gorm.DB, name string, v *validator.Validate, log *zap.Logger, tieBreak ...string) *Table[T] {
	return &Table[T]{db: db, name: name, validate: v, log: log, tieBreak: tieBreak}
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// newValidator reports fields by their json names so messages match the
// column names the operator sees.
func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}
