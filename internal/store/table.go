package store

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Table is a typed handle on one table of the hosted database. T must be a
// gorm model with an "id" primary key.
type Table[T any] struct {
	db       *gorm.DB
	name     string
	validate *validator.Validate
	log      *zap.Logger
	tieBreak []string
}

// Name returns the table name, e.g. "products".
func (t *Table[T]) Name() string { return t.name }

// Select returns the rows matching q. Rows that fail validation are dropped
// and logged rather than handed to the views.
func (t *Table[T]) Select(ctx context.Context, q Query) ([]T, error) {
	var rows []T
	if err := q.apply(t.db.WithContext(ctx).Model(new(T)), t.tieBreak).Find(&rows).Error; err != nil {
		return nil, wrap("select", t.name, err)
	}
	valid := rows[:0]
	for i := range rows {
		if err := t.validate.StructCtx(ctx, &rows[i]); err != nil {
			t.log.Warn("dropping invalid row", zap.String("table", t.name), zap.Error(err))
			continue
		}
		valid = append(valid, rows[i])
	}
	return valid, nil
}

// Get returns the row with the given id.
func (t *Table[T]) Get(ctx context.Context, id string) (*T, error) {
	row := new(T)
	if err := t.db.WithContext(ctx).First(row, "id = ?", id).Error; err != nil {
		return nil, wrap("get", t.name, err)
	}
	return row, nil
}

// Insert validates row and creates it. The generated id is written back.
func (t *Table[T]) Insert(ctx context.Context, row *T) error {
	if err := t.validate.StructCtx(ctx, row); err != nil {
		return wrap("insert", t.name, err)
	}
	return wrap("insert", t.name, t.db.WithContext(ctx).Create(row).Error)
}

// Update overwrites every column of the row matching id with patch, except
// id and created_at. Zero values are written too.
func (t *Table[T]) Update(ctx context.Context, id string, patch *T) error {
	if err := t.validate.StructCtx(ctx, patch); err != nil {
		return wrap("update", t.name, err)
	}
	res := t.db.WithContext(ctx).Model(new(T)).
		Where("id = ?", id).
		Select("*").Omit("id", "created_at").
		Updates(patch)
	if res.Error != nil {
		return wrap("update", t.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("update", t.name, ErrNotFound)
	}
	return nil
}

// Delete removes the row matching id.
func (t *Table[T]) Delete(ctx context.Context, id string) error {
	res := t.db.WithContext(ctx).Where("id = ?", id).Delete(new(T))
	if res.Error != nil {
		return wrap("delete", t.name, res.Error)
	}
	if res.RowsAffected == 0 {
		return wrap("delete", t.name, ErrNotFound)
	}
	return nil
}

// Upsert inserts row, or updates every non-key column of the existing row
// whose conflictKey column holds the same value.
func (t *Table[T]) Upsert(ctx context.Context, row *T, conflictKey string) error {
	if err := t.validate.StructCtx(ctx, row); err != nil {
		return wrap("upsert", t.name, err)
	}
	err := t.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: conflictKey}},
		UpdateAll: true,
	}).Create(row).Error
	return wrap("upsert", t.name, err)
}
