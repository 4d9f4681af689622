package errors

import (
	stderrs "errors"
	"fmt"
	"net/http"
	"testing"
)

func TestHTTPStatusCodeMapping(t *testing.T) {
	cases := []struct {
		code ErrorCode
		want int
	}{
		{ErrorCodeNotFound, http.StatusNotFound},
		{ErrorCodeInvalidArgument, http.StatusUnprocessableEntity},
		{ErrorCodeMissingField, http.StatusUnprocessableEntity},
		{ErrorCodeDuplicateKey, http.StatusConflict},
		{ErrorCodeConflict, http.StatusConflict},
		{ErrorCodeValidation, http.StatusBadRequest},
		{ErrorCodeJSON, http.StatusBadRequest},
		{ErrorCodeUpstream, http.StatusBadGateway},
		{ErrorCodeUnavailable, http.StatusServiceUnavailable},
		{ErrorCodeDB, http.StatusInternalServerError},
		{ErrorCodePanic, http.StatusInternalServerError},
		{ErrorCodeUnknown, http.StatusInternalServerError},
		{9999, http.StatusInternalServerError}, // default branch
	}
	for _, c := range cases {
		if got := HTTPStatusCode(c.code); got != c.want {
			t.Fatalf("HTTPStatusCode(%v) = %d, want %d", c.code, got, c.want)
		}
	}
}

func TestErrorCodeString(t *testing.T) {
	if ErrorCodeMissingField.String() != "missing_field" {
		t.Fatalf("MissingField label = %q", ErrorCodeMissingField.String())
	}
	if ErrorCodeValidation.String() != "client_input" {
		t.Fatalf("Validation label = %q", ErrorCodeValidation.String())
	}
	if got := ErrorCode(9999).String(); got != "code_9999" {
		t.Fatalf("unknown label = %q", got)
	}
}

func TestErrorTypeAndMethods(t *testing.T) {
	// nil *Error should render "<nil>"
	var e *Error
	if e.Error() != "<nil>" {
		t.Fatalf("nil *Error render = %q, want <nil>", e.Error())
	}

	e1 := New(ErrorCodeValidation, "bad upload")
	if CodeOf(e1) != ErrorCodeValidation {
		t.Fatalf("CodeOf(New) = %v", CodeOf(e1))
	}
	e2 := Newf(ErrorCodeJSON, "bad json at %d", 12)
	if got := e2.Error(); got != "bad json at 12" {
		t.Fatalf("Newf().Error = %q", got)
	}

	src := stderrs.New("root")
	e3 := Wrap(src, ErrorCodeDB, "db failed")
	if u := stderrs.Unwrap(e3); u == nil || u.Error() != "root" {
		t.Fatalf("Wrap did not keep orig")
	}
	e4 := Wrapf(src, ErrorCodeUpstream, "send %s", "event")
	if want := "send event: root"; e4.Error() != want {
		t.Fatalf("Wrapf().Error = %q, want %q", e4.Error(), want)
	}

	if got, ok := As(e4); !ok || got.Code() != ErrorCodeUpstream {
		t.Fatalf("As() failed for our error")
	}
	if _, ok := As(src); ok {
		t.Fatalf("As() true for foreign error")
	}

	// WithField (copy-on-write) and WithOp
	e5 := Wrap(src, ErrorCodeInvalidArgument, "oops")
	e6 := WithField(e5, "report")
	e7 := WithOp(e6, "extract")
	if fe, ok := As(e6); !ok || fe.Field() != "report" {
		t.Fatalf("WithField failed")
	}
	if oe, ok := As(e7); !ok || oe.Op() != "extract" {
		t.Fatalf("WithOp failed")
	}
	if fe0, _ := As(e5); fe0.Field() != "" || fe0.Op() != "" {
		t.Fatalf("copy-on-write mutated original")
	}
	if WithField(src, "x") != src {
		t.Fatalf("WithField should pass foreign errors through")
	}

	// Wire / WireFrom
	if wf := WireFrom(nil); wf != (Wire{}) {
		t.Fatalf("WireFrom(nil) expected zero, got %+v", wf)
	}
	if wf := WireFrom(src); wf.Code != ErrorCodeUnknown || wf.Message != "root" {
		t.Fatalf("WireFrom(foreign) mismatch: %+v", wf)
	}
	if wf := WireFrom(e4); wf.Code != ErrorCodeUpstream || wf.Message != "send event" {
		t.Fatalf("WireFrom(ours) mismatch: %+v", wf)
	}

	if st, _ := HTTP(nil); st != http.StatusOK {
		t.Fatalf("HTTP(nil) status = %d", st)
	}
	if st := HTTPStatus(e3); st != http.StatusInternalServerError {
		t.Fatalf("HTTPStatus mismatch")
	}

	if !IsCode(NotFoundf("x"), ErrorCodeNotFound) ||
		!IsCode(InvalidArgf("x"), ErrorCodeInvalidArgument) ||
		!IsCode(ClientInputf("x"), ErrorCodeValidation) ||
		!IsCode(Upstreamf("x"), ErrorCodeUpstream) ||
		!IsCode(DuplicateKeyf("x"), ErrorCodeDuplicateKey) ||
		!IsCode(DBf("x"), ErrorCodeDB) ||
		!IsCode(JSONErrf("x"), ErrorCodeJSON) ||
		!IsCode(PanicErrf("x"), ErrorCodePanic) ||
		!IsCode(Unavailablef("x"), ErrorCodeUnavailable) ||
		!IsCode(Internalf("x"), ErrorCodeUnknown) {
		t.Fatalf("sugar helpers code mismatch")
	}

	if WrapIf(nil, ErrorCodeDB, "ignored") != nil {
		t.Fatalf("WrapIf(nil) should return nil")
	}
	if WrapIf(src, ErrorCodeDB, "db") == nil {
		t.Fatalf("WrapIf(non-nil) should wrap")
	}

	deep := fmt.Errorf("level2: %w", fmt.Errorf("level1: %w", src))
	if got := Root(deep); got == nil || got.Error() != "root" {
		t.Fatalf("Root() failed, got %v", got)
	}

	if !IsCode(ErrNotFound, ErrorCodeNotFound) {
		t.Fatalf("ErrNotFound code mismatch")
	}
}

func TestMissingFieldCarriesPath(t *testing.T) {
	err := MissingField("clientInfo.systemInfo.clientID")
	if CodeOf(err) != ErrorCodeMissingField {
		t.Fatalf("code = %v", CodeOf(err))
	}
	if FieldOf(err) != "clientInfo.systemInfo.clientID" {
		t.Fatalf("field = %q", FieldOf(err))
	}
	wrapped := fmt.Errorf("compose: %w", err)
	if FieldOf(wrapped) != "clientInfo.systemInfo.clientID" {
		t.Fatalf("field lost through wrap")
	}
	if FieldOf(stderrs.New("x")) != "" {
		t.Fatalf("foreign error should have no field")
	}
	st, w := HTTP(err)
	if st != http.StatusUnprocessableEntity || w.Field != "clientInfo.systemInfo.clientID" {
		t.Fatalf("HTTP(missing) = %d %+v", st, w)
	}
}
