package chainerr

import (
	"errors"
	"testing"
)

func TestErrorStringIncludesKindOpMessageAndContext(t *testing.T) {
	err := New(Precondition, "transfer.evaluate", "insufficient balance").With("account", "1.2.3")
	got := err.Error()
	if got != `precondition: transfer.evaluate: insufficient balance (account=1.2.3)` {
		t.Fatalf("unexpected Error() output: %q", got)
	}
}

func TestNewfFormatsMessage(t *testing.T) {
	err := Newf(Overflow, "transfer.evaluate", "amount %d exceeds max %d", 10, 5)
	if err.Message != "amount 10 exceeds max 5" {
		t.Fatalf("unexpected message: %q", err.Message)
	}
}

func TestIsComparesOnlyKind(t *testing.T) {
	a := New(Precondition, "op.a", "message a")
	b := New(Precondition, "op.b", "message b")
	c := New(Validation, "op.c", "message c")

	if !errors.Is(a, b) {
		t.Fatalf("expected errors of the same kind to match via errors.Is")
	}
	if errors.Is(a, c) {
		t.Fatalf("expected errors of different kinds to not match")
	}
}

func TestWithChainsMultipleContextValues(t *testing.T) {
	err := New(Capacity, "authority.resolve", "too deep").With("depth", 3).With("max", 2)
	if err.Context["depth"] != 3 || err.Context["max"] != 2 {
		t.Fatalf("expected both context entries to be retained: %+v", err.Context)
	}
}

func TestPanicAndRecoverRoundTrip(t *testing.T) {
	run := func() (err error) {
		defer Recover(&err)
		Panic("store.modify", "broken invariant: %s", "dense ids")
		return nil
	}
	err := run()
	if err == nil {
		t.Fatalf("expected Recover to convert the panic into a returned error")
	}
	var chainErr *Error
	if !errors.As(err, &chainErr) {
		t.Fatalf("expected the returned error to be a *Error")
	}
	if chainErr.Kind != Fatal {
		t.Fatalf("expected Fatal kind, got %v", chainErr.Kind)
	}
}

func TestRecoverRepanicsNonChainErrValues(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatalf("expected non-*Error panic to propagate")
		}
	}()
	run := func() (err error) {
		defer Recover(&err)
		panic("not a chainerr.Error")
	}
	_ = run()
}

func TestKindStringCoversEveryKind(t *testing.T) {
	cases := map[Kind]string{
		Validation:   "validation",
		Precondition: "precondition",
		Overflow:     "overflow",
		Capacity:     "capacity",
		OrderBook:    "order_book",
		Session:      "session",
		Fatal:        "fatal",
	}
	for kind, want := range cases {
		if got := kind.String(); got != want {
			t.Fatalf("Kind(%d).String() = %q, want %q", kind, got, want)
		}
	}
}
