package stage

import (
	"fmt"
	"strings"
	"time"
)

// ClampWarning is the advisory message produced when an approved completion
// date had to be adjusted up to the stage's start date. The wording is stable:
// callers display it and the audit trail retains it.
func ClampWarning(adjusted time.Time) string {
	return fmt.Sprintf("Completion date was earlier than the stage start date; it was adjusted to %s.", FormatDate(adjusted))
}

// IncompletePredecessorsWarning is the advisory message naming earlier stages
// that are not yet completed or skipped at approval time.
func IncompletePredecessorsWarning(codes []string) string {
	return fmt.Sprintf("Earlier stages are not complete: %s.", strings.Join(codes, ", "))
}

// DecisionNoteWithWarnings appends each warning to the trimmed decision note
// so the audit trail retains advisory conditions permanently.
func DecisionNoteWithWarnings(note string, warnings []string) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(note))
	for _, w := range warnings {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString("Warning: ")
		b.WriteString(w)
	}
	return b.String()
}
