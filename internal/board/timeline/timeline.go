// Package timeline derives the milestone timeline shown for a project from
// its six ordered date slots. The projection is pure: the same slots always
// yield the same segments.
package timeline

import (
	"fmt"

	"github.com/samber/lo"
)

// Kind classifies a renderable timeline segment.
type Kind int

const (
	Start Kind = iota
	Middle
	End
)

func (k Kind) String() string {
	switch k {
	case Start:
		return "start"
	case Middle:
		return "middle"
	default:
		return "end"
	}
}

// Segment is one renderable unit of the timeline. In edit mode the same
// segments back date inputs instead of static text; the projection does not
// differ by mode.
type Segment struct {
	Kind  Kind
	Label string
	Date  string
	// Connected reports whether a connector line follows this segment.
	Connected bool
}

// Projection is the derived timeline for one record.
type Projection struct {
	Segments []Segment
	// Finished is set when slot 5 holds a value, independent of which
	// segments render.
	Finished bool
}

// Project derives the timeline from the six milestone slots. Slot 0 is the
// project start date; slot 5, when set, is the final milestone and marks the
// project finished.
func Project(slots [6]string) Projection {
	filtered := lo.Filter(slots[:], func(s string, _ int) bool { return s != "" })
	last := len(filtered) - 1

	p := Projection{Finished: slots[5] != ""}

	if slots[0] != "" {
		p.Segments = append(p.Segments, Segment{
			Kind:      Start,
			Label:     "Project start date",
			Date:      slots[0],
			Connected: len(filtered) > 1,
		})
	}

	// Middle segments are the filtered sequence minus its first and last
	// entries, so two or fewer populated slots leave no middle at all.
	if last >= 2 {
		for i, date := range filtered[1:last] {
			p.Segments = append(p.Segments, Segment{
				Kind:      Middle,
				Label:     fmt.Sprintf("Milestone %d", i+1),
				Date:      date,
				Connected: true,
			})
		}
	}

	// The end segment renders when more than one slot is populated, or when
	// slot 5 alone carries the only non-start entry. A slot-5 value that
	// differs from the last filtered entry overrides it as the final
	// milestone.
	if len(filtered) > 1 || slots[5] != "" {
		seg := Segment{Kind: End, Connected: false}
		switch {
		case slots[5] != "" && slots[5] != filtered[last]:
			seg.Label = "Final Milestone"
			seg.Date = slots[5]
		default:
			seg.Label = "Project end date"
			seg.Date = filtered[last]
		}
		p.Segments = append(p.Segments, seg)
	}

	return p
}

// Status renders the completion indicator text.
func (p Projection) Status() string {
	return lo.Ternary(p.Finished, "FINISHED", "ONGOING")
}
