// Package board drives the project dashboard: which record is shown, the
// pagination position, the active edit/add draft, and the transient
// notifications raised along the way.
package board

import (
	"context"
	"errors"
	"time"

	"projectboard/internal/board/form"
	"projectboard/internal/board/page"
	"projectboard/internal/board/timeline"
	"projectboard/internal/config"
	"projectboard/internal/logx"
	"projectboard/internal/notify"
	"projectboard/internal/store"
)

var boardLogger = logx.GetScope("board")

// ReloadDelay is how long after a successful submit the list reload fires,
// returning the view to read-only mode.
const ReloadDelay = 2 * time.Second

// Options tune session timing; zero values take the defaults.
type Options struct {
	ReloadDelay time.Duration
	NoticeTTL   time.Duration
}

// OptionsFromConfig derives session options from the loaded configuration.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		ReloadDelay: time.Duration(cfg.Board.ReloadDelaySecs) * time.Second,
		NoticeTTL:   time.Duration(cfg.Board.NoticeTTLSecs) * time.Second,
	}
}

// Session is one dashboard session: the loaded record list, the pagination
// cursor over it, and at most one draft. All transitions run on the caller's
// event loop; only the delayed reload fires from a timer, which re-enters
// through Load.
type Session struct {
	svc     RecordService
	cursor  *page.Cursor
	notes   *notify.Center
	records []store.ProjectRecord
	draft   *form.Draft
	loading bool

	reloadDelay time.Duration
	afterFunc   func(time.Duration, func()) *time.Timer
}

// NewSession creates a session over the given record service.
func NewSession(svc RecordService, opts Options) *Session {
	delay := opts.ReloadDelay
	if delay <= 0 {
		delay = ReloadDelay
	}
	return &Session{
		svc:         svc,
		cursor:      page.New(0),
		notes:       notify.NewCenter(opts.NoticeTTL),
		reloadDelay: delay,
		afterFunc:   time.AfterFunc,
	}
}

// Load fetches the full list and resets pagination to page 1. Any active
// draft is discarded: a fresh list load always returns to read-only mode.
func (s *Session) Load(ctx context.Context) error {
	s.loading = true
	defer func() { s.loading = false }()

	records, err := s.svc.List(ctx)
	if err != nil {
		s.notes.Push(notify.Error, "Failed to load projects")
		return err
	}
	s.records = records
	s.cursor.Reset(len(records))
	s.draft = nil
	boardLogger.Sugar().Debugw("list loaded", "count", len(records))
	return nil
}

// Loading reports whether the initial list fetch is in progress.
func (s *Session) Loading() bool { return s.loading }

// Cursor exposes the pagination state.
func (s *Session) Cursor() *page.Cursor { return s.cursor }

// Notifications exposes the transient notification center.
func (s *Session) Notifications() *notify.Center { return s.notes }

// Current returns the record at the cursor, or nil for an empty list.
func (s *Session) Current() *store.ProjectRecord {
	i := s.cursor.Index()
	if i < 0 || i >= len(s.records) {
		return nil
	}
	return &s.records[i]
}

// Records returns the loaded list snapshot.
func (s *Session) Records() []store.ProjectRecord { return s.records }

// Timeline projects the milestone timeline for the current record.
func (s *Session) Timeline() timeline.Projection {
	cur := s.Current()
	if cur == nil {
		return timeline.Projection{}
	}
	return timeline.Project(cur.Milestones())
}

// notifyPage raises the page-change notification carrying the newly selected
// record's name.
func (s *Session) notifyPage() {
	if cur := s.Current(); cur != nil {
		s.notes.Push(notify.Info, "Project Name: "+cur.ProjectName)
	}
}

// NextPage advances the cursor; a committed change raises a notification.
func (s *Session) NextPage() {
	if s.cursor.Next() {
		s.notifyPage()
	}
}

// PreviousPage retreats the cursor; a committed change raises a notification.
func (s *Session) PreviousPage() {
	if s.cursor.Previous() {
		s.notifyPage()
	}
}

// JumpToPage commits a direct page selection when in range.
func (s *Session) JumpToPage(p int) {
	if s.cursor.JumpTo(p) {
		s.notifyPage()
	}
}

// ClickIndicator commits a rendered page indicator.
func (s *Session) ClickIndicator(p int) {
	if s.cursor.ClickIndicator(p) {
		s.notifyPage()
	}
}

// CommitPageDraft commits the manual page entry, reverting it when invalid.
func (s *Session) CommitPageDraft() {
	if s.cursor.CommitDraft() {
		s.notifyPage()
	}
}

// Draft returns the active edit/add buffer, nil in read-only mode.
func (s *Session) Draft() *form.Draft { return s.draft }

// EnterEdit re-fetches the current record by name and seeds an edit draft
// from the fresh copy.
func (s *Session) EnterEdit(ctx context.Context) error {
	cur := s.Current()
	if cur == nil {
		return store.ErrNotFound
	}
	rec, err := s.svc.GetByName(ctx, cur.ProjectName)
	if err != nil {
		s.notes.Push(notify.Error, "Failed to load project details")
		return err
	}
	s.draft = form.NewEdit(rec)
	return nil
}

// EnterAdd seeds a blank add draft.
func (s *Session) EnterAdd() {
	s.draft = form.NewAdd()
}

// CancelDraft discards the draft unconditionally and returns to the prior
// read-only view. No network call.
func (s *Session) CancelDraft() {
	s.draft = nil
}

// SubmitDraft runs the first phase of the submit protocol: validate and
// capture, then wait for confirmation. Field errors block the capture.
func (s *Session) SubmitDraft() form.ValidationErrors {
	if s.draft == nil {
		return nil
	}
	return s.draft.Submit()
}

// ConfirmDraft runs the confirmed submission. On success it raises a success
// notification and schedules the list reload after the fixed delay; the view
// returns to read-only once the reload lands. On failure the draft is kept so
// the user may retry.
func (s *Session) ConfirmDraft(ctx context.Context) error {
	if s.draft == nil {
		return form.ErrNotConfirmable
	}
	err := s.draft.Confirm(ctx, s.svc)
	if err != nil {
		var verrs form.ValidationErrors
		switch {
		case errors.As(err, &verrs):
			// Confirmed stale draft failed re-validation; no network call
			// was made, draft stays editable.
		case errors.Is(err, form.ErrInFlight):
			// Second confirm while the first request is outstanding.
		case errors.Is(err, store.ErrDuplicate):
			s.notes.Push(notify.Error, "Project name already exists")
		case errors.Is(err, store.ErrNotFound):
			s.notes.Push(notify.Error, "Project not found")
		default:
			s.notes.Push(notify.Error, "Failed to save project")
		}
		return err
	}

	s.notes.Push(notify.Success, "Project saved successfully")
	s.scheduleReload()
	return nil
}

// CancelConfirm dismisses the confirmation dialog, keeping the draft.
func (s *Session) CancelConfirm() {
	if s.draft != nil {
		s.draft.CancelConfirm()
	}
}

// scheduleReload arranges the delayed list reload that replaces the
// original's whole-page refresh.
func (s *Session) scheduleReload() {
	s.afterFunc(s.reloadDelay, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.Load(ctx); err != nil {
			boardLogger.Sugar().Warnw("deferred reload failed", "err", err)
		}
	})
}

// DeleteSelected issues one delete per selected name and reloads the list
// only after every call has settled. Names that failed are reported in the
// returned map; nil means every delete succeeded.
func (s *Session) DeleteSelected(ctx context.Context, names []string) map[string]error {
	if len(names) == 0 {
		return nil
	}
	failed := map[string]error{}
	for _, name := range names {
		if err := s.svc.Delete(ctx, name); err != nil {
			failed[name] = err
		}
	}

	if len(failed) > 0 {
		s.notes.Push(notify.Error, "Some projects could not be deleted")
	} else {
		s.notes.Push(notify.Success, "Projects deleted successfully")
	}
	if err := s.Load(ctx); err != nil {
		boardLogger.Sugar().Warnw("reload after delete failed", "err", err)
	}
	if len(failed) == 0 {
		return nil
	}
	return failed
}
