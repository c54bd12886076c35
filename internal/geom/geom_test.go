package geom

import "testing"

func TestRectShrink(t *testing.T) {
	r := Rect{X: 10, Y: 10, W: 100, H: 50}
	out := r.Shrink(5)
	want := Rect{X: 15, Y: 15, W: 90, H: 40}
	if out != want {
		t.Errorf("Shrink(5) = %+v, want %+v", out, want)
	}
}

func TestRectShrinkFloorsAtOne(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 4, H: 4}
	out := r.Shrink(10)
	if out.W < 1 || out.H < 1 {
		t.Errorf("Shrink should floor at 1x1, got %+v", out)
	}
}

func TestRectContains(t *testing.T) {
	r := Rect{X: 0, Y: 0, W: 100, H: 100}
	cases := []struct {
		x, y int
		want bool
	}{
		{0, 0, true},
		{99, 99, true},
		{100, 100, false},
		{-1, 0, false},
	}
	for _, c := range cases {
		if got := r.Contains(c.x, c.y); got != c.want {
			t.Errorf("Contains(%d, %d) = %v, want %v", c.x, c.y, got, c.want)
		}
	}
}

func TestRectIntersect(t *testing.T) {
	a := Rect{X: 0, Y: 0, W: 10, H: 10}
	b := Rect{X: 5, Y: 5, W: 10, H: 10}
	if got := a.Intersect(b); got != 25 {
		t.Errorf("Intersect = %d, want 25", got)
	}
	c := Rect{X: 100, Y: 100, W: 10, H: 10}
	if got := a.Intersect(c); got != 0 {
		t.Errorf("Intersect of non-overlapping rects = %d, want 0", got)
	}
}

func TestSplitRowDividesRemainder(t *testing.T) {
	// Three rows over a height of 100: 33, 33, 34 — rounding pushed into
	// the last row, matching spec's "distributes rounding error into the
	// last slot".
	remaining := 100
	rowsLeft := 3
	var heights []int
	for rowsLeft > 0 {
		h := SplitRow(remaining, rowsLeft)
		heights = append(heights, h)
		remaining -= h
		rowsLeft--
	}
	want := []int{33, 33, 34}
	for i, h := range heights {
		if h != want[i] {
			t.Errorf("row %d height = %d, want %d", i, h, want[i])
		}
	}
	if remaining != 0 {
		t.Errorf("remaining after all rows placed = %d, want 0", remaining)
	}
}

func TestSplitRowZeroRowsLeft(t *testing.T) {
	if got := SplitRow(100, 0); got != 0 {
		t.Errorf("SplitRow(100, 0) = %d, want 0", got)
	}
}
