// Package form implements the edit/add buffer for one project record and the
// two-phase submit protocol against the record store.
package form

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"projectboard/internal/store"
)

// Mode distinguishes editing a loaded record from adding a new one.
type Mode int

const (
	Edit Mode = iota
	Add
)

// Submitter is the network side of the submit protocol. The record store
// service and the HTTP client both satisfy it.
type Submitter interface {
	Insert(ctx context.Context, fields map[string]any) error
	Update(ctx context.Context, name string, fields map[string]any) error
}

var (
	// ErrNotConfirmable is returned by Confirm without a pending submission.
	ErrNotConfirmable = errors.New("no submission pending confirmation")
	// ErrInFlight guards against a second confirm racing an outstanding
	// request.
	ErrInFlight = errors.New("submission already in flight")
)

// Draft owns the editable field buffer for one edit or add session. Exactly
// one draft exists per session; it is created on entering edit/add mode and
// discarded on submit success or cancel. State transitions happen on the UI
// event loop, so Draft carries no lock of its own.
type Draft struct {
	mode         Mode
	originalName string // update key captured at load time, never the edited value
	initial      store.ProjectRecord
	values       store.ProjectRecord
	captured     *store.ProjectRecord
	inflight     bool
	now          func() time.Time
}

// NewEdit seeds a draft from a loaded record. The record's name at load time
// becomes the update key regardless of later edits to the field.
func NewEdit(rec *store.ProjectRecord) *Draft {
	return &Draft{
		mode:         Edit,
		originalName: rec.ProjectName,
		initial:      *rec,
		values:       *rec,
		now:          time.Now,
	}
}

// NewAdd seeds a draft from the empty-record template.
func NewAdd() *Draft {
	return &Draft{mode: Add, now: time.Now}
}

// Mode returns whether the draft edits an existing record or adds a new one.
func (d *Draft) Mode() Mode { return d.mode }

// OriginalName returns the update key captured when the draft was seeded.
func (d *Draft) OriginalName() string { return d.originalName }

// Values returns a snapshot of the current buffer.
func (d *Draft) Values() store.ProjectRecord { return d.values }

// InFlight reports whether a confirmed submission is still outstanding.
func (d *Draft) InFlight() bool { return d.inflight }

// Pending reports whether a submission awaits confirmation.
func (d *Draft) Pending() bool { return d.captured != nil }

// Set writes one field from raw input. Budget fields are parsed as decimal
// numbers; an empty string clears them to zero.
func (d *Draft) Set(field, raw string) error {
	if !store.IsColumn(field) {
		return fmt.Errorf("%w: %s", store.ErrUnknownField, field)
	}
	switch field {
	case "budget_actual_usd", "budget_planned_usd":
		var f float64
		if raw != "" {
			var err error
			f, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return fmt.Errorf("field %s: not a number: %q", field, raw)
			}
		}
		if field == "budget_actual_usd" {
			d.values.BudgetActualUSD = f
		} else {
			d.values.BudgetPlannedUSD = f
		}
		return nil
	default:
		rec, err := store.FromFields(map[string]any{field: raw})
		if err != nil {
			return err
		}
		merge(&d.values, rec, field)
		return nil
	}
}

// SetMilestone writes milestone slot i by index.
func (d *Draft) SetMilestone(i int, date string) error {
	return d.values.SetMilestone(i, date)
}

// Dirty reports whether field currently differs from its seeded value. This
// drives a visual affordance only; the payload always carries the full draft.
func (d *Draft) Dirty(field string) bool {
	cur, ok := d.values.Fields()[field]
	if !ok {
		return false
	}
	return cur != d.initial.Fields()[field]
}

// MinDate returns the allowed minimum for milestone slot i: today for the
// first slot, the draft value of the previous slot otherwise, falling back to
// today when that is unset. Input-widget shaping only; Validate does not
// re-check ordering.
func (d *Draft) MinDate(i int) string {
	today := d.now().Format("2006-01-02")
	if i <= 0 {
		return today
	}
	ms := d.values.Milestones()
	if prev := ms[i-1]; prev != "" {
		return prev
	}
	return today
}

// Submit captures the current buffer and asks for confirmation. Validation
// failures block the capture and are returned field-by-field; no network call
// happens here in any case.
func (d *Draft) Submit() ValidationErrors {
	if errs := d.Validate(); len(errs) > 0 {
		return errs
	}
	captured := d.values
	d.captured = &captured
	return nil
}

// CancelConfirm drops the pending confirmation, keeping the buffer intact.
func (d *Draft) CancelConfirm() { d.captured = nil }

// Confirm runs the confirmed submission: re-validate, then issue exactly one
// insert (add mode) or one partial update keyed by the original name (edit
// mode), carrying the entire captured draft. The buffer survives any failure
// so the user may correct and retry.
func (d *Draft) Confirm(ctx context.Context, sub Submitter) error {
	if d.inflight {
		return ErrInFlight
	}
	if d.captured == nil {
		return ErrNotConfirmable
	}
	captured := *d.captured
	if errs := validateRecord(&captured); len(errs) > 0 {
		d.captured = nil
		return errs
	}

	d.inflight = true
	defer func() { d.inflight = false }()
	d.captured = nil

	payload := captured.Fields()
	if d.mode == Add {
		return sub.Insert(ctx, payload)
	}
	return sub.Update(ctx, d.originalName, payload)
}

func merge(dst *store.ProjectRecord, src *store.ProjectRecord, field string) {
	switch field {
	case "project_name":
		dst.ProjectName = src.ProjectName
	case "code":
		dst.Code = src.Code
	case "overview":
		dst.Overview = src.Overview
	case "project_scope":
		dst.ProjectScope = src.ProjectScope
	case "project_goals_1":
		dst.ProjectGoals1 = src.ProjectGoals1
	case "project_goals_2":
		dst.ProjectGoals2 = src.ProjectGoals2
	case "exec_sponsor":
		dst.ExecSponsor = src.ExecSponsor
	case "business_product":
		dst.BusinessProduct = src.BusinessProduct
	case "process_owner":
		dst.ProcessOwner = src.ProcessOwner
	case "pm":
		dst.PM = src.PM
	case "dev":
		dst.Dev = src.Dev
	case "risk":
		dst.Risk = src.Risk
	case "milestones0":
		dst.Milestones0 = src.Milestones0
	case "milestones1":
		dst.Milestones1 = src.Milestones1
	case "milestones2":
		dst.Milestones2 = src.Milestones2
	case "milestones3":
		dst.Milestones3 = src.Milestones3
	case "milestones4":
		dst.Milestones4 = src.Milestones4
	case "milestones5":
		dst.Milestones5 = src.Milestones5
	}
}
