package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMetadataFor(t *testing.T) {
	t.Parallel()

	if meta := MetadataFor(CodeValidation); meta.HTTPStatus != http.StatusBadRequest {
		t.Fatalf("unexpected status for validation: %d", meta.HTTPStatus)
	}
	if meta := MetadataFor(CodePriceFeed); meta.HTTPStatus != http.StatusServiceUnavailable || !meta.Retryable {
		t.Fatalf("unexpected metadata for price feed: %+v", meta)
	}
	if meta := MetadataFor(Code("BOGUS")); meta.HTTPStatus != http.StatusInternalServerError {
		t.Fatalf("unknown codes should map to internal, got %d", meta.HTTPStatus)
	}
}

func TestWrapPreservesCause(t *testing.T) {
	t.Parallel()

	cause := errors.New("redis timeout")
	wrapped := Wrap(CodeDependency, cause, "persist cart")

	if !errors.Is(wrapped, cause) {
		t.Fatal("expected cause to be reachable via errors.Is")
	}
	if wrapped.Code() != CodeDependency {
		t.Fatalf("unexpected code: %s", wrapped.Code())
	}
}

func TestAsUnwrapsNestedError(t *testing.T) {
	t.Parallel()

	base := New(CodeStateConflict, "cannot submit while disconnected")
	outer := fmt.Errorf("handler: %w", base)

	typed := As(outer)
	if typed == nil {
		t.Fatal("expected typed error")
	}
	if typed.Code() != CodeStateConflict {
		t.Fatalf("unexpected code: %s", typed.Code())
	}
	if As(errors.New("plain")) != nil {
		t.Fatal("plain errors must not coerce")
	}
}

func TestDumpChain(t *testing.T) {
	t.Parallel()

	err := Wrap(CodeWallet, errors.New("provider rejected"), "connect wallet")
	dump := Dump(err)

	if dump.Code != CodeWallet {
		t.Fatalf("unexpected code: %s", dump.Code)
	}
	if len(dump.Chain) != 2 {
		t.Fatalf("expected 2 chain entries, got %d", len(dump.Chain))
	}
}
