package form

import (
	"sort"
	"strings"
	"time"
)

// ValidationErrors maps field names to user-facing messages. It satisfies
// error so a blocked submission can travel an error return.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// requiredMessages lists the mandatory text fields with their messages.
var requiredMessages = []struct {
	field   string
	message string
}{
	{"project_name", "Project Name is required"},
	{"code", "Code is required"},
	{"overview", "Overview is required"},
	{"project_scope", "Project Scope is required"},
	{"project_goals_1", "Project goals 1 is required"},
	{"project_goals_2", "Project goals 2 is required"},
	{"exec_sponsor", "Exec sponsor is required"},
	{"business_product", "Business Product is required"},
	{"process_owner", "Process owner is required"},
	{"pm", "Project Manager is required"},
	{"dev", "Developer is required"},
	{"risk", "Risk is required"},
}

// Validate checks the current buffer: every required text field non-empty,
// budgets non-negative, milestones empty or valid ISO dates.
func (d *Draft) Validate() ValidationErrors {
	return validateRecord(&d.values)
}

func validateRecord(r interface {
	Fields() map[string]any
	Milestones() [6]string
}) ValidationErrors {
	errs := ValidationErrors{}
	fields := r.Fields()

	for _, req := range requiredMessages {
		if v, _ := fields[req.field].(string); strings.TrimSpace(v) == "" {
			errs[req.field] = req.message
		}
	}

	if v, _ := fields["budget_actual_usd"].(float64); v < 0 {
		errs["budget_actual_usd"] = "Budget Actual must be a positive number"
	}
	if v, _ := fields["budget_planned_usd"].(float64); v < 0 {
		errs["budget_planned_usd"] = "Budget Planned must be a positive number"
	}

	for i, date := range r.Milestones() {
		if date == "" {
			continue
		}
		if _, err := time.Parse("2006-01-02", date); err != nil {
			name := [6]string{"milestones0", "milestones1", "milestones2", "milestones3", "milestones4", "milestones5"}[i]
			errs[name] = "Milestone must be a valid date (YYYY-MM-DD)"
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errs
}
