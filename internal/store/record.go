package store

import (
	"fmt"

	"github.com/samber/lo"
)

// ProjectRecord is one tracked project. project_name is the external key for
// every mutation; the numeric id exists only for lookups.
type ProjectRecord struct {
	ID               int64   `json:"id"`
	ProjectName      string  `json:"project_name"`
	Code             string  `json:"code"`
	Overview         string  `json:"overview"`
	ProjectScope     string  `json:"project_scope"`
	ProjectGoals1    string  `json:"project_goals_1"`
	ProjectGoals2    string  `json:"project_goals_2"`
	ExecSponsor      string  `json:"exec_sponsor"`
	BusinessProduct  string  `json:"business_product"`
	ProcessOwner     string  `json:"process_owner"`
	PM               string  `json:"pm"`
	Dev              string  `json:"dev"`
	BudgetActualUSD  float64 `json:"budget_actual_usd"`
	BudgetPlannedUSD float64 `json:"budget_planned_usd"`
	Risk             string  `json:"risk"`
	Milestones0      string  `json:"milestones0"`
	Milestones1      string  `json:"milestones1"`
	Milestones2      string  `json:"milestones2"`
	Milestones3      string  `json:"milestones3"`
	Milestones4      string  `json:"milestones4"`
	Milestones5      string  `json:"milestones5"`
}

// Columns is the canonical mutable column set, in table order. id is excluded.
var Columns = []string{
	"project_name", "code", "overview", "project_scope",
	"project_goals_1", "project_goals_2", "exec_sponsor", "business_product",
	"process_owner", "pm", "dev",
	"budget_actual_usd", "budget_planned_usd", "risk",
	"milestones0", "milestones1", "milestones2", "milestones3", "milestones4", "milestones5",
}

// NumericColumns are the columns holding non-negative decimal amounts.
var NumericColumns = []string{"budget_actual_usd", "budget_planned_usd"}

// MilestoneColumns are the six ordered date slots, index order is significant.
var MilestoneColumns = []string{
	"milestones0", "milestones1", "milestones2", "milestones3", "milestones4", "milestones5",
}

// IsColumn reports whether name is a known mutable column.
func IsColumn(name string) bool {
	return lo.Contains(Columns, name)
}

// Milestones returns the six milestone slots as a fixed-size ordered array.
// Index 0 is the project start date; index 5, when set, marks the project
// finished.
func (r *ProjectRecord) Milestones() [6]string {
	return [6]string{
		r.Milestones0, r.Milestones1, r.Milestones2,
		r.Milestones3, r.Milestones4, r.Milestones5,
	}
}

// SetMilestone assigns slot i. Out-of-range indices are rejected.
func (r *ProjectRecord) SetMilestone(i int, v string) error {
	switch i {
	case 0:
		r.Milestones0 = v
	case 1:
		r.Milestones1 = v
	case 2:
		r.Milestones2 = v
	case 3:
		r.Milestones3 = v
	case 4:
		r.Milestones4 = v
	case 5:
		r.Milestones5 = v
	default:
		return fmt.Errorf("milestone index out of range: %d", i)
	}
	return nil
}

// Fields returns the full mutable field mapping of the record, keyed by column
// name. The update payload sent by the form engine is exactly this shape.
func (r *ProjectRecord) Fields() map[string]any {
	return map[string]any{
		"project_name":       r.ProjectName,
		"code":               r.Code,
		"overview":           r.Overview,
		"project_scope":      r.ProjectScope,
		"project_goals_1":    r.ProjectGoals1,
		"project_goals_2":    r.ProjectGoals2,
		"exec_sponsor":       r.ExecSponsor,
		"business_product":   r.BusinessProduct,
		"process_owner":      r.ProcessOwner,
		"pm":                 r.PM,
		"dev":                r.Dev,
		"budget_actual_usd":  r.BudgetActualUSD,
		"budget_planned_usd": r.BudgetPlannedUSD,
		"risk":               r.Risk,
		"milestones0":        r.Milestones0,
		"milestones1":        r.Milestones1,
		"milestones2":        r.Milestones2,
		"milestones3":        r.Milestones3,
		"milestones4":        r.Milestones4,
		"milestones5":        r.Milestones5,
	}
}

// FromFields builds a record from a sparse field mapping. Unknown keys are
// rejected; numeric columns accept JSON numbers or numeric strings.
func FromFields(m map[string]any) (*ProjectRecord, error) {
	r := &ProjectRecord{}
	for k, v := range m {
		if !IsColumn(k) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownField, k)
		}
		if lo.Contains(NumericColumns, k) {
			f, err := toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("field %s: %w", k, err)
			}
			if k == "budget_actual_usd" {
				r.BudgetActualUSD = f
			} else {
				r.BudgetPlannedUSD = f
			}
			continue
		}
		s, err := toString(v)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", k, err)
		}
		switch k {
		case "project_name":
			r.ProjectName = s
		case "code":
			r.Code = s
		case "overview":
			r.Overview = s
		case "project_scope":
			r.ProjectScope = s
		case "project_goals_1":
			r.ProjectGoals1 = s
		case "project_goals_2":
			r.ProjectGoals2 = s
		case "exec_sponsor":
			r.ExecSponsor = s
		case "business_product":
			r.BusinessProduct = s
		case "process_owner":
			r.ProcessOwner = s
		case "pm":
			r.PM = s
		case "dev":
			r.Dev = s
		case "risk":
			r.Risk = s
		case "milestones0":
			r.Milestones0 = s
		case "milestones1":
			r.Milestones1 = s
		case "milestones2":
			r.Milestones2 = s
		case "milestones3":
			r.Milestones3 = s
		case "milestones4":
			r.Milestones4 = s
		case "milestones5":
			r.Milestones5 = s
		}
	}
	return r, nil
}

func toFloat(v any) (float64, error) {
	switch t := v.(type) {
	case nil:
		return 0, nil
	case float64:
		return t, nil
	case float32:
		return float64(t), nil
	case int:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case string:
		if t == "" {
			return 0, nil
		}
		var f float64
		if _, err := fmt.Sscanf(t, "%g", &f); err != nil {
			return 0, fmt.Errorf("not a number: %q", t)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("not a number: %T", v)
	}
}

func toString(v any) (string, error) {
	switch t := v.(type) {
	case nil:
		return "", nil
	case string:
		return t, nil
	default:
		return "", fmt.Errorf("not a string: %T", v)
	}
}
