package engine

import "testing"

func TestQueuedSetSize(t *testing.T) {
	cases := []struct {
		nodeCount int
		want      int
	}{
		{8, 1},
		{9, 2},
		{16, 2},
		{17, 3},
	}
	for _, tc := range cases {
		q := newQueuedSet(tc.nodeCount)
		if got := len(q.bits); got != tc.want {
			t.Errorf("newQueuedSet(%d): len(bits) = %d, want %d", tc.nodeCount, got, tc.want)
		}
	}
}

func TestQueuedSetSetAndContains(t *testing.T) {
	q := newQueuedSet(20)

	for _, n := range []uint16{0, 1, 2} {
		if q.contains(n) {
			t.Errorf("fresh set should not contain %d", n)
		}
	}

	q.set(0)
	q.set(2)
	q.set(9)

	want := map[uint16]bool{0: true, 1: false, 2: true, 9: true, 10: false}
	for n, w := range want {
		if got := q.contains(n); got != w {
			t.Errorf("contains(%d) = %v, want %v", n, got, w)
		}
	}
}

func TestQueuedSetClear(t *testing.T) {
	q := newQueuedSet(20)
	q.set(0)
	q.set(1)
	q.set(8)
	q.set(9)

	q.clear([]uint16{1, 2, 9})

	want := map[uint16]bool{0: true, 1: false, 2: false, 8: true, 9: false}
	for n, w := range want {
		if got := q.contains(n); got != w {
			t.Errorf("after clear, contains(%d) = %v, want %v", n, got, w)
		}
	}

	q.clear([]uint16{0, 8})
	if q.contains(0) || q.contains(8) {
		t.Errorf("expected 0 and 8 cleared")
	}
}
