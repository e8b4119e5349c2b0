package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"novi.com/app/internal/modules/crud"
	"novi.com/app/internal/shared/apperr"
)

func TestDomainError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in     error
		status int
		key    string
	}{
		{crud.ErrIDExists, http.StatusBadRequest, "idexists"},
		{crud.ErrIDNull, http.StatusBadRequest, "idnull"},
		{fmt.Errorf("get: %w", crud.ErrNotFound), http.StatusNotFound, "notfound"},
		{crud.ErrConflict, http.StatusConflict, "conflict"},
		{&crud.ValidationError{Fields: map[string]string{"code": "required"}}, http.StatusBadRequest, "validation"},
		{&crud.ReferenceError{Field: "articleId", ID: 3}, http.StatusBadRequest, "invalidreference"},
		{errors.New("db down"), http.StatusInternalServerError, "internal"},
	}
	for _, tt := range tests {
		err := DomainError("article", tt.in)
		if got := apperr.HTTPStatus(err); got != tt.status {
			t.Fatalf("%v: status = %d, want %d", tt.in, got, tt.status)
		}
		if got := apperr.ErrorKey(err); got != tt.key {
			t.Fatalf("%v: key = %q, want %q", tt.in, got, tt.key)
		}
	}

	if DomainError("article", nil) != nil {
		t.Fatalf("nil should stay nil")
	}
	ae, _ := apperr.As(DomainError("article", crud.ErrIDExists))
	if ae.PublicMsg != "A new article cannot already have an ID" {
		t.Fatalf("message = %q", ae.PublicMsg)
	}
}
