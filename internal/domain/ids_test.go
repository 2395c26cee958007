package domain

import (
	"errors"
	"reflect"
	"testing"
)

func TestParseAccountID(t *testing.T) {
	id, err := ParseAccountID("15")
	if err != nil || id != 15 {
		t.Fatalf("expected 15, got %d (%v)", id, err)
	}

	for _, bad := range []string{"", "abc", "0", "-3", "1.5", "99999999999999999999"} {
		if _, err := ParseAccountID(bad); !errors.Is(err, ErrInvalidIDFormat) {
			t.Errorf("ParseAccountID(%q): expected ErrInvalidIDFormat, got %v", bad, err)
		}
	}
}

func TestParseTransferID(t *testing.T) {
	id, err := ParseTransferID("3")
	if err != nil || id != 3 {
		t.Fatalf("expected 3, got %d (%v)", id, err)
	}
	if id.String() != "3" {
		t.Fatalf("expected String() to round trip, got %q", id.String())
	}

	if _, err := ParseTransferID("x"); !errors.Is(err, ErrInvalidIDFormat) {
		t.Fatalf("expected ErrInvalidIDFormat, got %v", err)
	}
}

func TestLockOrder(t *testing.T) {
	got := LockOrder(9, 2)
	if !reflect.DeepEqual(got, []AccountID{2, 9}) {
		t.Fatalf("expected ascending order, got %v", got)
	}

	got = LockOrder(4, 4)
	if !reflect.DeepEqual(got, []AccountID{4}) {
		t.Fatalf("expected duplicates removed, got %v", got)
	}
}
