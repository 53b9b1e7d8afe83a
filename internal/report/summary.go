package report

import (
	"fmt"
	"io"
	"strings"

	"decarbgoals/internal/model"
)

type Summary struct {
	Total           int
	WithGoals       int
	DeclaredNoGoal  int
	UnknownGoal     int
	UnknownTarget   int
	UnknownBaseline int
	UnknownScope    int
	FullyUnknown    int
	SearchFailures  int
	ExtractFailures int
}

func Summarize(records []model.ExtractionRecord) Summary {
	s := Summary{Total: len(records)}
	for _, r := range records {
		if r.HasGoal() {
			s.WithGoals++
		}
		if r.DeclaresNoGoal() {
			s.DeclaredNoGoal++
		}
		if model.IsUnknown(r.GoalDescription) {
			s.UnknownGoal++
		}
		if model.IsUnknown(r.TargetYear) {
			s.UnknownTarget++
		}
		if model.IsUnknown(r.BaselineYear) {
			s.UnknownBaseline++
		}
		if model.IsUnknown(r.Scope) {
			s.UnknownScope++
		}
		if !r.HasGoal() && !r.DeclaresNoGoal() && model.IsUnknown(r.TargetYear) && model.IsUnknown(r.BaselineYear) && model.IsUnknown(r.Scope) {
			s.FullyUnknown++
		}
		if r.SearchFailed {
			s.SearchFailures++
		}
		if r.ExtractionFailed {
			s.ExtractFailures++
		}
	}
	return s
}

func (s Summary) GoalPercent() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.WithGoals) / float64(s.Total) * 100
}

// PrintSummary writes the result rows followed by run totals.
func PrintSummary(w io.Writer, records []model.ExtractionRecord) error {
	if err := EncodeCSV(w, records); err != nil {
		return err
	}

	s := Summarize(records)

	var sb strings.Builder
	sb.WriteString("\nDecarbonization Goals Analysis Summary\n")
	sb.WriteString(strings.Repeat("-", 30) + "\n")
	sb.WriteString(fmt.Sprintf("Total Organizations: %d\n", s.Total))
	sb.WriteString(fmt.Sprintf("Organizations with Goals: %d (%.1f%%)\n", s.WithGoals, s.GoalPercent()))
	sb.WriteString(fmt.Sprintf("Organizations stating no goal: %d\n", s.DeclaredNoGoal))
	sb.WriteString(fmt.Sprintf("Unknown fields: goal=%d target_year=%d baseline_year=%d scope=%d\n",
		s.UnknownGoal, s.UnknownTarget, s.UnknownBaseline, s.UnknownScope))
	sb.WriteString(fmt.Sprintf("Records with no data: %d\n", s.FullyUnknown))
	if s.SearchFailures > 0 || s.ExtractFailures > 0 {
		sb.WriteString(fmt.Sprintf("Failures: search=%d extraction=%d (see debug log)\n", s.SearchFailures, s.ExtractFailures))
	}

	_, err := io.WriteString(w, sb.String())
	return err
}
