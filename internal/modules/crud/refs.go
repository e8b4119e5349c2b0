package crud

import "context"

// Existence is satisfied by *Service and Repository.
type Existence interface {
	Exists(ctx context.Context, id int64) (bool, error)
}

// CheckRef returns a *ReferenceError when id does not name an existing row.
// A zero id is left for field validation to report.
func CheckRef(ctx context.Context, x Existence, field string, id int64) error {
	if id == 0 || x == nil {
		return nil
	}
	ok, err := x.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !ok {
		return &ReferenceError{Field: field, ID: id}
	}
	return nil
}

// DeleteGuard vetoes the delete of id by returning an error.
type DeleteGuard func(ctx context.Context, id int64) error

// RefFinder lists the rows pointing at id through column.
type RefFinder[T any] interface {
	FindByRef(ctx context.Context, column string, id int64) ([]T, error)
}

// Unreferenced refuses deletes while any row of f still points at the target
// through column. The error is an *InUseError.
func Unreferenced[T any](f RefFinder[T], column string) DeleteGuard {
	return func(ctx context.Context, id int64) error {
		rows, err := f.FindByRef(ctx, column, id)
		if err != nil {
			return err
		}
		if len(rows) > 0 {
			return &InUseError{Column: column, ID: id, Count: len(rows)}
		}
		return nil
	}
}
