package state

import (
	"testing"
)

func TestSignalGetSet(t *testing.T) {
	s := NewSignal(10)

	if got := s.Get(); got != 10 {
		t.Errorf("Get() = %d, want 10", got)
	}

	s.Set(42)
	if got := s.Get(); got != 42 {
		t.Errorf("Get() after Set = %d, want 42", got)
	}
}

func TestSignalUpdate(t *testing.T) {
	s := NewSignal(1)
	s.Update(func(n int) int { return n + 4 })

	if got := s.Get(); got != 5 {
		t.Errorf("Get() = %d, want 5", got)
	}
}

func TestSignalSubscribe(t *testing.T) {
	s := NewSignal("a")

	var seen []string
	unsub := s.Subscribe(func(v string) {
		seen = append(seen, v)
	})

	s.Set("b")
	s.Set("c")
	unsub()
	s.Set("d")

	if len(seen) != 2 || seen[0] != "b" || seen[1] != "c" {
		t.Errorf("seen = %v, want [b c]", seen)
	}
}

func TestSignalNoNotifyOnEqualValue(t *testing.T) {
	s := NewSignal(7)

	calls := 0
	s.Subscribe(func(int) { calls++ })

	s.Set(7)
	if calls != 0 {
		t.Errorf("subscriber called %d times for unchanged value, want 0", calls)
	}

	s.Set(8)
	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}

func TestSignalDeepEqualForStructs(t *testing.T) {
	type pair struct{ A, B int }
	s := NewSignal(pair{1, 2})

	calls := 0
	s.Subscribe(func(pair) { calls++ })

	s.Set(pair{1, 2})
	if calls != 0 {
		t.Errorf("subscriber called for deep-equal struct, want no call")
	}

	s.Set(pair{1, 3})
	if calls != 1 {
		t.Errorf("subscriber called %d times, want 1", calls)
	}
}

func TestSignalWithEquals(t *testing.T) {
	// Treat all values as equal: no notification should ever fire.
	s := NewSignal(0).WithEquals(func(a, b int) bool { return true })

	calls := 0
	s.Subscribe(func(int) { calls++ })

	s.Set(99)
	if calls != 0 {
		t.Errorf("subscriber called despite custom equality, want 0 calls")
	}
	if got := s.Get(); got != 0 {
		t.Errorf("Get() = %d, want 0 (write suppressed as equal)", got)
	}
}

func TestStatusString(t *testing.T) {
	cases := []struct {
		status Status
		want   string
	}{
		{Idle, "idle"},
		{Loading, "loading"},
		{Succeeded, "succeeded"},
		{Failed, "failed"},
		{Status(99), "unknown"},
	}
	for _, c := range cases {
		if got := c.status.String(); got != c.want {
			t.Errorf("Status(%d).String() = %q, want %q", int(c.status), got, c.want)
		}
	}
}

func TestStatusSettled(t *testing.T) {
	if Idle.Settled() || Loading.Settled() {
		t.Error("Idle/Loading should not be settled")
	}
	if !Succeeded.Settled() || !Failed.Settled() {
		t.Error("Succeeded/Failed should be settled")
	}
}
