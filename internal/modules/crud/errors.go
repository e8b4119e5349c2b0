package crud

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotFound         = errors.New("entity not found")
	ErrConflict         = errors.New("entity conflicts with an existing one")
	ErrIDExists         = errors.New("a new entity cannot already have an id")
	ErrIDNull           = errors.New("invalid id")
	ErrInvalidReference = errors.New("referenced entity does not exist")
)

// ValidationError carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return "validation failed: " + strings.Join(keys, ", ")
}

// ReferenceError reports which field points at a missing entity.
type ReferenceError struct {
	Field string
	ID    int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Field, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrInvalidReference }

// InUseError reports a delete refused because other rows still point at the
// target.
type InUseError struct {
	Column string
	ID     int64
	Count  int
}

func (e *InUseError) Error() string {
	return fmt.Sprintf("%d row(s) still reference %d through %s", e.Count, e.ID, e.Column)
}

func (e *InUseError) Unwrap() error { return ErrConflict }
