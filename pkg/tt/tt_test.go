package tt

import (
	"fmt"
	"testing"
)

// testT implements the minimal surface of *testing.T that Test uses, for
// testing the failure message.
type testT []string

func (t *testT) Helper() {}

func (t *testT) Errorf(format string, args ...any) {
	*t = append(*t, fmt.Sprintf(format, args...))
}

func add(x, y int) int { return x + y }

func divmod(x, y int) (int, int) { return x / y, x % y }

func TestPass(t *testing.T) {
	Test(t, add,
		Args(1, 2).Rets(3),
		Args(-1, 1).Rets(0),
	)
	Test(t, divmod,
		Args(7, 3).Rets(2, 1),
	)
}

func TestAnyMatcher(t *testing.T) {
	Test(t, divmod,
		Args(7, 3).Rets(Any, 1),
	)
}

func TestFailureMessage(t *testing.T) {
	var mockT testT
	testInner(&mockT, "add", add, []*Case{Args(1, 2).Rets(4)})
	if len(mockT) != 1 {
		t.Fatalf("got %d errors, want 1", len(mockT))
	}
	want := "add(1, 2) -> 3, want 4"
	if mockT[0] != want {
		t.Errorf("got message %q, want %q", mockT[0], want)
	}
}
