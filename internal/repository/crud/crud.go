// Package crud is a small generic persistence layer over gorm. It offers the
// handful of operations an entity repository needs without hand written SQL.
package crud

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Repository persists entities of type T whose primary key is an int.
type Repository[T any] interface {
	// Save inserts entity when its primary key is zero, and updates every
	// column otherwise.
	Save(ctx context.Context, entity *T) error
	FindAll(ctx context.Context) ([]T, error)
	// FindByID returns nil, nil when no row has the key.
	FindByID(ctx context.Context, id int) (*T, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
	DeleteByID(ctx context.Context, id int) error
	// ExistsBy reports whether any row has column equal to value.
	ExistsBy(ctx context.Context, column string, value any) (bool, error)
}

// GormRepository implements Repository on top of a *gorm.DB.
type GormRepository[T any] struct {
	db *gorm.DB
}

func New[T any](db *gorm.DB) *GormRepository[T] {
	return &GormRepository[T]{db: db}
}

func (r *GormRepository[T]) Save(ctx context.Context, entity *T) error {
	return r.db.WithContext(ctx).Save(entity).Error
}

func (r *GormRepository[T]) FindAll(ctx context.Context) ([]T, error) {
	out := []T{}
	if err := r.db.WithContext(ctx).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GormRepository[T]) FindByID(ctx context.Context, id int) (*T, error) {
	var entity T
	err := r.db.WithContext(ctx).Take(&entity, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entity, nil
}

func (r *GormRepository[T]) ExistsByID(ctx context.Context, id int) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormRepository[T]) DeleteByID(ctx context.Context, id int) error {
	return r.db.WithContext(ctx).Delete(new(T), id).Error
}

func (r *GormRepository[T]) ExistsBy(ctx context.Context, column string, value any) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(new(T)).
		Where(map[string]any{column: value}).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ Repository[struct{}] = (*GormRepository[struct{}])(nil)
