package errors

import (
	"fmt"
	"net/http"
	"testing"
)

func TestIs_MatchesByCode(t *testing.T) {
	err := NotFoundf("entry %q not found", "entry-1")
	if !Is(err, ErrNotFound) {
		t.Error("NotFoundf should match ErrNotFound")
	}
	if Is(err, ErrAlreadyExists) {
		t.Error("NotFoundf should not match ErrAlreadyExists")
	}
}

func TestIs_MatchesThroughWrapping(t *testing.T) {
	inner := AlreadyExists("slug taken")
	wrapped := fmt.Errorf("save entry: %w", inner)

	if !Is(wrapped, ErrAlreadyExists) {
		t.Error("wrapped error should match ErrAlreadyExists")
	}
}

func TestWrap_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("disk full")
	err := Wrap(cause, CodeInternal, "save entry")

	if !Is(err, ErrInternal) {
		t.Error("wrapped error should match ErrInternal")
	}
	if Unwrap(err) != cause {
		t.Error("Unwrap should return the cause")
	}
	want := "save entry: disk full"
	if err.Error() != want {
		t.Errorf("Error(): got %q, want %q", err.Error(), want)
	}
}

func TestAs_ExposesCode(t *testing.T) {
	err := fmt.Errorf("outer: %w", Validationf("title required"))

	var domainErr *Error
	if !As(err, &domainErr) {
		t.Fatal("As should find the domain error")
	}
	if domainErr.Code != CodeValidation {
		t.Errorf("Code: got %s, want %s", domainErr.Code, CodeValidation)
	}
}

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err  *Error
		want int
	}{
		{ErrNotFound, http.StatusNotFound},
		{ErrAlreadyExists, http.StatusConflict},
		{ErrValidation, http.StatusBadRequest},
		{ErrIndexConsistency, http.StatusInternalServerError},
		{ErrInternal, http.StatusInternalServerError},
	}
	for _, tc := range cases {
		if got := tc.err.HTTPStatus(); got != tc.want {
			t.Errorf("%s: got %d, want %d", tc.err.Code, got, tc.want)
		}
	}
}

func TestWithDetails(t *testing.T) {
	details := map[string]string{"title": "is required"}
	err := ErrValidation.WithDetails(details)

	if err.Details == nil {
		t.Fatal("details not attached")
	}
	if !Is(err, ErrValidation) {
		t.Error("WithDetails must keep the code")
	}
	if ErrValidation.Details != nil {
		t.Error("sentinel mutated by WithDetails")
	}
}
