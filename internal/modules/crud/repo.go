package crud

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository[T Entity] interface {
	List(ctx context.Context, in ListParams) (Page[T], error)
	Get(ctx context.Context, id int64) (T, error)
	GetMany(ctx context.Context, ids []int64) ([]T, error)
	FindByRef(ctx context.Context, column string, id int64) ([]T, error)
	Exists(ctx context.Context, id int64) (bool, error)
	Create(ctx context.Context, e T) (T, error)
	Update(ctx context.Context, e T) (T, error)
	Delete(ctx context.Context, id int64) error
	Each(ctx context.Context, batchSize int, fn func([]T) error) error
}

type GormRepo[T Entity] struct{ db *gorm.DB }

func NewGormRepo[T Entity](db *gorm.DB) *GormRepo[T] { return &GormRepo[T]{db: db} }

func (r *GormRepo[T]) model(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Model(new(T))
}

func (r *GormRepo[T]) List(ctx context.Context, in ListParams) (Page[T], error) {
	in = in.Normalize()

	var total int64
	if err := r.model(ctx).Count(&total).Error; err != nil {
		return Page[T]{}, err
	}

	var items []T
	if err := r.model(ctx).
		Order("id ASC").
		Limit(in.PageSize).
		Offset(in.Offset()).
		Find(&items).Error; err != nil {
		return Page[T]{}, err
	}
	return Page[T]{Items: items, Total: total, Page: in.Page, PageSize: in.PageSize}, nil
}

func (r *GormRepo[T]) Get(ctx context.Context, id int64) (T, error) {
	var out T
	if err := r.db.WithContext(ctx).First(&out, "id = ?", id).Error; err != nil {
		return out, mapErr(err)
	}
	return out, nil
}

func (r *GormRepo[T]) GetMany(ctx context.Context, ids []int64) ([]T, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var items []T
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error
	return items, err
}

// FindByRef returns the rows whose foreign key column equals id.
func (r *GormRepo[T]) FindByRef(ctx context.Context, column string, id int64) ([]T, error) {
	var items []T
	err := r.db.WithContext(ctx).
		Where(clause.Eq{Column: clause.Column{Name: column}, Value: id}).
		Order("id ASC").
		Find(&items).Error
	return items, err
}

func (r *GormRepo[T]) Exists(ctx context.Context, id int64) (bool, error) {
	var n int64
	if err := r.model(ctx).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func (r *GormRepo[T]) Create(ctx context.Context, e T) (T, error) {
	if err := r.db.WithContext(ctx).Create(&e).Error; err != nil {
		return e, mapErr(err)
	}
	return e, nil
}

// Update overwrites an existing row. The row is locked for the duration of
// the transaction; unknown ids yield ErrNotFound.
func (r *GormRepo[T]) Update(ctx context.Context, e T) (T, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current T
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&current, "id = ?", e.EntityID()).Error; err != nil {
			return err
		}
		return tx.Save(&e).Error
	})
	if err != nil {
		return e, mapErr(err)
	}
	return e, nil
}

func (r *GormRepo[T]) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(new(T), "id = ?", id)
	if res.Error != nil {
		return mapErr(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Each walks the whole table in id order.
func (r *GormRepo[T]) Each(ctx context.Context, batchSize int, fn func([]T) error) error {
	var batch []T
	return r.db.WithContext(ctx).
		Order("id ASC").
		FindInBatches(&batch, batchSize, func(tx *gorm.DB, _ int) error {
			return fn(batch)
		}).Error
}

func mapErr(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case IsDuplicateKey(err), IsForeignKeyViolation(err):
		return fmt.Errorf("%w: %v", ErrConflict, err)
	default:
		return err
	}
}

func IsDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// IsForeignKeyViolation reports a row still referenced by another table
// (1451) or a reference to a missing parent (1452).
func IsForeignKeyViolation(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1451 || me.Number == 1452
	}
	return errors.Is(err, gorm.ErrForeignKeyViolated)
}
