// Package page implements the pagination cursor over the loaded project list.
// One record per page; positions are 1-indexed.
package page

import (
	"strconv"

	"github.com/samber/lo"
)

// WindowRadius is the number of indicators shown on each side of the current
// page, giving a window of up to 2*WindowRadius+1 pages.
const WindowRadius = 1

// Cursor tracks the current position within the ordered record list plus the
// transient draft used during manual page entry. It is plain state, not safe
// for concurrent use; the board session serializes access.
type Cursor struct {
	current int
	total   int
	draft   string
}

// New returns a cursor over total pages, positioned at page 1. A total below
// zero is clamped to zero; an empty list has no valid position.
func New(total int) *Cursor {
	c := &Cursor{}
	c.Reset(total)
	return c
}

// Reset re-seeds the cursor for a freshly loaded list: total pages, position
// back at page 1, draft cleared.
func (c *Cursor) Reset(total int) {
	c.total = lo.Max([]int{total, 0})
	c.current = lo.Ternary(c.total > 0, 1, 0)
	c.draft = ""
}

// Current returns the 1-indexed current page, or 0 for an empty list.
func (c *Cursor) Current() int { return c.current }

// Total returns the page count.
func (c *Cursor) Total() int { return c.total }

// Index returns the zero-based position of the current record, or -1 for an
// empty list.
func (c *Cursor) Index() int { return c.current - 1 }

// Next advances one page. At the last page it is a no-op; the forward control
// is disabled there, this guards direct calls too. Reports whether the
// position changed.
func (c *Cursor) Next() bool {
	if c.current >= c.total {
		return false
	}
	c.current++
	return true
}

// Previous retreats one page; no-op at page 1.
func (c *Cursor) Previous() bool {
	if c.current <= 1 {
		return false
	}
	c.current--
	return true
}

// JumpTo moves to page if it is within [1, total]; out-of-range input leaves
// the position unchanged.
func (c *Cursor) JumpTo(page int) bool {
	if page < 1 || page > c.total || page == c.current {
		return false
	}
	c.current = page
	return true
}

// ClickIndicator commits the given indicator page. Indicators are only
// rendered for valid pages, so this matches JumpTo.
func (c *Cursor) ClickIndicator(page int) bool {
	return c.JumpTo(page)
}

// SetDraft records the in-progress manual page entry without committing it.
func (c *Cursor) SetDraft(s string) { c.draft = s }

// Draft returns the pending manual page entry.
func (c *Cursor) Draft() string { return c.draft }

// CommitDraft parses the pending entry and commits it when it is a number
// within [1, total]. Anything else reverts the draft to the current page.
// Reports whether the position changed.
func (c *Cursor) CommitDraft() bool {
	page, err := strconv.Atoi(c.draft)
	if err != nil || page < 1 || page > c.total {
		c.draft = strconv.Itoa(c.current)
		return false
	}
	c.draft = ""
	return c.JumpTo(page)
}

// Window returns the visible page indicators: up to 2*WindowRadius+1 pages
// centered on the current page, shifted right when the centered window would
// pass 1 and left when it would pass the total, never leaving [1, total].
func (c *Cursor) Window() []int {
	if c.total < 1 {
		return nil
	}
	start := c.current - WindowRadius
	end := c.current + WindowRadius
	if start < 1 {
		end += 1 - start
		start = 1
	}
	if end > c.total {
		start -= end - c.total
		end = c.total
	}
	start = lo.Max([]int{start, 1})

	pages := make([]int, 0, end-start+1)
	for p := start; p <= end; p++ {
		pages = append(pages, p)
	}
	return pages
}
