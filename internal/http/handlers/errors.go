package handlers

import (
	"errors"

	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/search"
	"novi.com/app/internal/shared/apperr"
	"novi.com/app/internal/storage"
)

// DomainError maps service errors to AppErrors carrying the error key the
// admin client understands. entity is the display name, e.g. "article".
func DomainError(entity string, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := apperr.As(err); ok {
		return err
	}

	var (
		verr *crud.ValidationError
		rerr *crud.ReferenceError
		uerr *crud.InUseError
		ae   *apperr.AppError
	)
	switch {
	case errors.As(err, &verr):
		ae = apperr.InvalidErr("Validation failed.", verr.Fields).WithKey("validation")
	case errors.As(err, &rerr):
		msg := "The referenced entity does not exist."
		ae = apperr.InvalidErr(msg, map[string]string{rerr.Field: msg}).WithKey("invalidreference")
	case errors.Is(err, crud.ErrIDExists):
		ae = apperr.InvalidErr("A new "+entity+" cannot already have an ID", nil).WithKey("idexists")
	case errors.Is(err, crud.ErrIDNull):
		ae = apperr.InvalidErr("Invalid id", nil).WithKey("idnull")
	case errors.Is(err, crud.ErrNotFound):
		ae = apperr.NotFoundErr("The " + entity + " was not found.")
	case errors.As(err, &uerr):
		ae = apperr.ConflictErr("The " + entity + " is still referenced and cannot be deleted.").WithKey("inuse")
	case errors.Is(err, crud.ErrConflict):
		ae = apperr.ConflictErr("The " + entity + " conflicts with existing data.")
	case errors.Is(err, search.ErrInvalidQuery):
		ae = apperr.InvalidErr("Invalid search query.", nil).WithKey("invalidquery")
	case errors.Is(err, storage.ErrUnsupportedType):
		ae = apperr.InvalidErr("Only PNG, JPEG, WebP and GIF images are accepted.", nil).WithKey("unsupportedtype")
	default:
		return apperr.Wrap(err)
	}
	ae.Err = err
	return ae
}

// BadID is returned for path ids that are not positive integers.
func BadID() error {
	return apperr.InvalidErr("Invalid id", nil).WithKey("idinvalid")
}
