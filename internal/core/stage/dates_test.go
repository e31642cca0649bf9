package stage

import (
	"strings"
	"testing"
)

func TestClampCompletionDate(t *testing.T) {
	tests := []struct {
		name        string
		requested   string
		actualStart string
		want        string
		wantClamped bool
	}{
		{"requested before start is clamped up", "2024-01-10", "2024-01-15", "2024-01-15", true},
		{"requested equal to start is untouched", "2024-01-15", "2024-01-15", "2024-01-15", false},
		{"requested after start is untouched", "2024-02-01", "2024-01-15", "2024-02-01", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, clamped := ClampCompletionDate(date(tt.requested), date(tt.actualStart))
			if FormatDate(got) != tt.want {
				t.Errorf("date = %s, want %s", FormatDate(got), tt.want)
			}
			if clamped != tt.wantClamped {
				t.Errorf("clamped = %v, want %v", clamped, tt.wantClamped)
			}
		})
	}
}

func TestClampWarningMentionsAdjusted(t *testing.T) {
	w := ClampWarning(date("2024-01-15"))
	if !strings.Contains(w, "adjusted") || !strings.Contains(w, "2024-01-15") {
		t.Errorf("warning = %q, want it to mention the adjustment and the date", w)
	}
}

func TestDecisionNoteWithWarnings(t *testing.T) {
	tests := []struct {
		name     string
		note     string
		warnings []string
		want     string
	}{
		{
			name: "note without warnings is trimmed only",
			note: "  looks good  ",
			want: "looks good",
		},
		{
			name:     "warnings appended to note",
			note:     "ok",
			warnings: []string{"Earlier stages are not complete: IPA."},
			want:     "ok Warning: Earlier stages are not complete: IPA.",
		},
		{
			name:     "warnings without note",
			note:     "",
			warnings: []string{"a", "b"},
			want:     "Warning: a Warning: b",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DecisionNoteWithWarnings(tt.note, tt.warnings); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
