package page

import (
	"reflect"
	"testing"
)

func TestNewAndReset(t *testing.T) {
	c := New(5)
	if c.Current() != 1 || c.Total() != 5 || c.Index() != 0 {
		t.Errorf("new: current=%d total=%d index=%d", c.Current(), c.Total(), c.Index())
	}

	c.JumpTo(4)
	c.SetDraft("4")
	c.Reset(3)
	if c.Current() != 1 || c.Total() != 3 || c.Draft() != "" {
		t.Errorf("reset: current=%d total=%d draft=%q", c.Current(), c.Total(), c.Draft())
	}
}

func TestEmptyList(t *testing.T) {
	c := New(0)
	if c.Current() != 0 || c.Index() != -1 {
		t.Errorf("empty: current=%d index=%d", c.Current(), c.Index())
	}
	if c.Window() != nil {
		t.Errorf("empty window = %v", c.Window())
	}
	if c.Next() || c.Previous() || c.JumpTo(1) {
		t.Error("moves on empty list should be no-ops")
	}

	c = New(-3)
	if c.Total() != 0 {
		t.Errorf("negative total clamped: %d", c.Total())
	}
}

func TestNextPrevious(t *testing.T) {
	c := New(3)

	if !c.Next() || c.Current() != 2 {
		t.Errorf("next: current=%d", c.Current())
	}
	if !c.Next() || c.Current() != 3 {
		t.Errorf("next: current=%d", c.Current())
	}
	if c.Next() {
		t.Error("next past last page should be a no-op")
	}
	if c.Current() != 3 {
		t.Errorf("current drifted: %d", c.Current())
	}

	if !c.Previous() || c.Current() != 2 {
		t.Errorf("previous: current=%d", c.Current())
	}
	c.Previous()
	if c.Previous() {
		t.Error("previous past page 1 should be a no-op")
	}
	if c.Current() != 1 {
		t.Errorf("current drifted: %d", c.Current())
	}
}

func TestJumpTo(t *testing.T) {
	c := New(10)

	if !c.JumpTo(7) || c.Current() != 7 {
		t.Errorf("jump: current=%d", c.Current())
	}
	if c.JumpTo(0) || c.JumpTo(11) || c.JumpTo(-2) {
		t.Error("out-of-range jumps should be rejected")
	}
	if c.Current() != 7 {
		t.Errorf("current moved on rejected jump: %d", c.Current())
	}
	if c.JumpTo(7) {
		t.Error("same-page jump should report no change")
	}
	if !c.ClickIndicator(3) || c.Current() != 3 {
		t.Errorf("indicator click: current=%d", c.Current())
	}
}

func TestCommitDraft(t *testing.T) {
	c := New(10)

	c.SetDraft("6")
	if !c.CommitDraft() || c.Current() != 6 {
		t.Errorf("commit: current=%d", c.Current())
	}
	if c.Draft() != "" {
		t.Errorf("draft not cleared after commit: %q", c.Draft())
	}

	for _, bad := range []string{"abc", "", "0", "11", "-1", "3.5"} {
		c.SetDraft(bad)
		if c.CommitDraft() {
			t.Errorf("draft %q should not commit", bad)
		}
		if c.Current() != 6 {
			t.Errorf("draft %q moved cursor to %d", bad, c.Current())
		}
		if c.Draft() != "6" {
			t.Errorf("draft %q should revert to current page, got %q", bad, c.Draft())
		}
	}

	// Re-entering the current page is valid input but no position change.
	c.SetDraft("6")
	if c.CommitDraft() {
		t.Error("same-page draft should report no change")
	}
	if c.Draft() != "" {
		t.Errorf("same-page draft should still clear: %q", c.Draft())
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		total, current int
		want           []int
	}{
		{1, 1, []int{1}},
		{2, 1, []int{1, 2}},
		{2, 2, []int{1, 2}},
		{3, 1, []int{1, 2, 3}},
		{3, 2, []int{1, 2, 3}},
		{3, 3, []int{1, 2, 3}},
		{10, 1, []int{1, 2, 3}},
		{10, 2, []int{1, 2, 3}},
		{10, 5, []int{4, 5, 6}},
		{10, 9, []int{8, 9, 10}},
		{10, 10, []int{8, 9, 10}},
	}
	for _, tc := range cases {
		c := New(tc.total)
		c.JumpTo(tc.current)
		got := c.Window()
		if !reflect.DeepEqual(got, tc.want) {
			t.Errorf("window(total=%d, current=%d) = %v, want %v", tc.total, tc.current, got, tc.want)
		}
	}
}

func TestWindowInvariants(t *testing.T) {
	for total := 1; total <= 12; total++ {
		for cur := 1; cur <= total; cur++ {
			c := New(total)
			c.JumpTo(cur)
			w := c.Window()

			wantLen := 2*WindowRadius + 1
			if total < wantLen {
				wantLen = total
			}
			if len(w) != wantLen {
				t.Errorf("total=%d cur=%d: len=%d, want %d", total, cur, len(w), wantLen)
			}

			found := false
			for i, p := range w {
				if p < 1 || p > total {
					t.Errorf("total=%d cur=%d: page %d out of range", total, cur, p)
				}
				if i > 0 && w[i] != w[i-1]+1 {
					t.Errorf("total=%d cur=%d: window not contiguous: %v", total, cur, w)
				}
				if p == cur {
					found = true
				}
			}
			if !found {
				t.Errorf("total=%d cur=%d: current page missing from %v", total, cur, w)
			}
		}
	}
}
