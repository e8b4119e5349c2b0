package validation

import (
	"errors"
	"testing"

	"github.com/gin-gonic/gin/binding"
)

type sample struct {
	Code  string `form:"code" binding:"required"`
	Email string `json:"clientEmail" binding:"omitempty,email"`
}

func TestFromBindError(t *testing.T) {
	t.Parallel()
	in := sample{Email: "bad"}
	err := binding.Validator.ValidateStruct(&in)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	got := FromBindError(err, &in)
	if got["code"] != "This field is required." {
		t.Fatalf("code = %q", got["code"])
	}
	if got["clientEmail"] != "Enter a valid e-mail address." {
		t.Fatalf("clientEmail = %q", got["clientEmail"])
	}

	if got := FromBindError(errors.New("EOF"), &in); got["_"] == "" {
		t.Fatalf("non-validation error should map to _")
	}
}
