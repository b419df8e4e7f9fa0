package prefork

import (
	"errors"
	"fmt"
	"testing"
)

func TestError_Error(t *testing.T) {
	cases := []struct {
		name string
		err  *Error
		want string
	}{
		{
			"message only",
			newError(CodeValidation, "", "nil callback"),
			"prefork: nil callback",
		},
		{
			"with module",
			newError(CodeLoad, "Foo::Bar", "load module"),
			"prefork: Foo::Bar: load module",
		},
		{
			"with cause",
			wrapError(CodeLoad, "Foo::Bar", "load module", errors.New("missing source")),
			"prefork: Foo::Bar: load module: missing source",
		},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("%s: Error() = %q, want %q", c.name, got, c.want)
		}
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := wrapError(CodeLoad, "Foo", "load module", cause)

	if !errors.Is(err, cause) {
		t.Error("Expected errors.Is to find the wrapped cause")
	}
}

func TestError_IsByCode(t *testing.T) {
	err := wrapError(CodeLoad, "Foo", "load module", errors.New("boom"))

	if !errors.Is(err, ErrLoad) {
		t.Error("Expected match against ErrLoad")
	}
	if errors.Is(err, ErrValidation) {
		t.Error("Did not expect match against ErrValidation")
	}
	if errors.Is(err, ErrCallback) {
		t.Error("Did not expect match against ErrCallback")
	}
}

func TestError_IsThroughWrapping(t *testing.T) {
	err := fmt.Errorf("outer context: %w", newError(CodeDuplicate, "", "duplicate callback"))

	if !errors.Is(err, ErrDuplicate) {
		t.Error("Expected match through fmt.Errorf wrapping")
	}

	var perr *Error
	if !errors.As(err, &perr) {
		t.Fatal("Expected errors.As to extract *Error")
	}
	if perr.Code != CodeDuplicate {
		t.Errorf("Expected CodeDuplicate, got %v", perr.Code)
	}
}
