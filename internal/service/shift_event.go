package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"shift-report/internal/dto"
	"shift-report/internal/model"
)

// ── validation ──

// ErrValidation matches every *ValidationError via errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError lists all missing required fields and other input problems
// of one submission. Nothing is stored when it is returned.
type ValidationError struct {
	Missing  []string
	Problems []string
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.Missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(e.Missing, ", "))
	}
	if len(e.Problems) > 0 {
		parts = append(parts, strings.Join(e.Problems, "; "))
	}
	return strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) work.
func (e *ValidationError) Is(target error) bool { return target == ErrValidation }

func (e *ValidationError) missing(field string) { e.Missing = append(e.Missing, field) }

func (e *ValidationError) problem(format string, args ...interface{}) {
	e.Problems = append(e.Problems, fmt.Sprintf(format, args...))
}

func (e *ValidationError) orNil() error {
	if len(e.Missing) == 0 && len(e.Problems) == 0 {
		return nil
	}
	return e
}

// reportRules configurable constraints shared by every form.
type reportRules struct {
	personalIDMaxLen int
	supervisors      []string
}

// checkPersonalID personal ids are the last digits of a service number.
func (r reportRules) checkPersonalID(v *ValidationError, id string) {
	if id == "" {
		v.missing("personal_id")
		return
	}
	for _, ch := range id {
		if ch < '0' || ch > '9' {
			v.problem("personal_id must contain digits only")
			return
		}
	}
	if r.personalIDMaxLen > 0 && len(id) > r.personalIDMaxLen {
		v.problem("personal_id must be at most %d digits", r.personalIDMaxLen)
	}
}

func (r reportRules) checkSupervisor(v *ValidationError, rahal string) {
	if rahal == "" {
		v.missing("rahal")
		return
	}
	if len(r.supervisors) == 0 {
		return
	}
	for _, s := range r.supervisors {
		if s == rahal {
			return
		}
	}
	v.problem("rahal %q is not a known supervisor", rahal)
}

// ═══════════════════════════════════════════════════════════
// ShiftEvent = EntryEvent | ExitEvent
// ═══════════════════════════════════════════════════════════

// ShiftEvent the variant part of a shift report.
type ShiftEvent interface {
	Type() model.ReportType
	validate(v *ValidationError)
	// stamp writes the variant fields and the local wall clock onto r.
	stamp(r *model.ShiftReport, localDate, localTime string)
}

// EntryEvent start of a shift.
type EntryEvent struct {
	WorkLocation string
	ReplacingWho string
}

func (EntryEvent) Type() model.ReportType { return model.ReportTypeEntry }

func (EntryEvent) validate(*ValidationError) {}

func (e EntryEvent) stamp(r *model.ShiftReport, localDate, localTime string) {
	r.WorkLocation = optional(e.WorkLocation)
	r.ReplacingWho = optional(e.ReplacingWho)
	r.StartDate = &localDate
	r.StartTime = &localTime
}

// ExitEvent end of a shift.
type ExitEvent struct {
	ReplacementPerson string
	ReportsCount      *int
	SpecialNotes      string
}

func (ExitEvent) Type() model.ReportType { return model.ReportTypeExit }

func (e ExitEvent) validate(v *ValidationError) {
	if e.ReportsCount == nil {
		v.missing("reports_count")
		return
	}
	if *e.ReportsCount < 0 {
		v.problem("reports_count must not be negative")
	}
}

func (e ExitEvent) stamp(r *model.ShiftReport, localDate, localTime string) {
	r.ReplacementPerson = optional(e.ReplacementPerson)
	r.ReportsCount = e.ReportsCount
	r.SpecialNotes = optional(e.SpecialNotes)
	r.EndDate = &localDate
	r.EndTime = &localTime
}

// Submission one shift report form.
type Submission struct {
	PersonalID string
	Rahal      string
	Event      ShiftEvent
}

// NewSubmission decodes the form into its variant.
func NewSubmission(req *dto.SubmitReportRequest) (*Submission, error) {
	sub := &Submission{
		PersonalID: strings.TrimSpace(req.PersonalID),
		Rahal:      strings.TrimSpace(req.Rahal),
	}

	switch model.ReportType(req.ReportType) {
	case model.ReportTypeEntry:
		sub.Event = EntryEvent{
			WorkLocation: strings.TrimSpace(req.WorkLocation),
			ReplacingWho: strings.TrimSpace(req.ReplacingWho),
		}
	case model.ReportTypeExit:
		sub.Event = ExitEvent{
			ReplacementPerson: strings.TrimSpace(req.ReplacementPerson),
			ReportsCount:      req.ReportsCount,
			SpecialNotes:      strings.TrimSpace(req.SpecialNotes),
		}
	default:
		v := &ValidationError{}
		v.problem("report_type must be entry or exit")
		return nil, v
	}
	return sub, nil
}

// Validate checks the common fields and then the variant.
func (s *Submission) validate(rules reportRules) error {
	v := &ValidationError{}
	rules.checkPersonalID(v, s.PersonalID)
	rules.checkSupervisor(v, s.Rahal)
	s.Event.validate(v)
	return v.orNil()
}

// toModel builds the row. now is the submission instant; wall-clock fields use loc.
func (s *Submission) toModel(now time.Time, loc *time.Location) *model.ShiftReport {
	local := now.In(loc)
	r := &model.ShiftReport{
		ReportType: s.Event.Type(),
		PersonalID: s.PersonalID,
		Rahal:      s.Rahal,
		Timestamp:  now.UTC(),
	}
	s.Event.stamp(r, local.Format(dateLayout), local.Format(clockLayout))
	return r
}

const clockLayout = "15:04:05"

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
