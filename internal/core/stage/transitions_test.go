package stage

import (
	"testing"
	"time"
)

func date(s string) time.Time {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

func datePtr(s string) *time.Time {
	d := date(s)
	return &d
}

func TestApplyStatusChangeInProgress(t *testing.T) {
	now := date("2024-03-01")

	tests := []struct {
		name         string
		current      Snapshot
		explicitDate *time.Time
		wantStart    string
	}{
		{
			name:      "sets start to now when unset and no explicit date",
			current:   Snapshot{Status: StatusNotStarted},
			wantStart: "2024-03-01",
		},
		{
			name:         "sets start to explicit date when unset",
			current:      Snapshot{Status: StatusNotStarted},
			explicitDate: datePtr("2024-01-15"),
			wantStart:    "2024-01-15",
		},
		{
			name:         "preserves existing start",
			current:      Snapshot{Status: StatusInProgress, ActualStart: datePtr("2024-01-01")},
			explicitDate: datePtr("2024-02-01"),
			wantStart:    "2024-01-01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ApplyStatusChange(tt.current, StatusInProgress, tt.explicitDate, now)

			if got.Status != StatusInProgress {
				t.Errorf("Status = %s, want %s", got.Status, StatusInProgress)
			}
			if got.ActualStart == nil || FormatDate(*got.ActualStart) != tt.wantStart {
				t.Errorf("ActualStart = %v, want %s", got.ActualStart, tt.wantStart)
			}
			if got.CompletedOn != nil {
				t.Errorf("CompletedOn = %v, want nil", got.CompletedOn)
			}
			if got.AutoCompleted || got.RequiresBackfill {
				t.Error("direct transition must clear auto-completion bookkeeping")
			}
		})
	}
}

func TestApplyStatusChangeCompleted(t *testing.T) {
	now := date("2024-03-01")

	t.Run("sets completion and backfills start when unset", func(t *testing.T) {
		got := ApplyStatusChange(Snapshot{Status: StatusNotStarted}, StatusCompleted, datePtr("2024-02-10"), now)

		if got.CompletedOn == nil || FormatDate(*got.CompletedOn) != "2024-02-10" {
			t.Errorf("CompletedOn = %v, want 2024-02-10", got.CompletedOn)
		}
		if got.ActualStart == nil || FormatDate(*got.ActualStart) != "2024-02-10" {
			t.Errorf("ActualStart = %v, want 2024-02-10", got.ActualStart)
		}
	})

	t.Run("preserves existing start", func(t *testing.T) {
		current := Snapshot{Status: StatusInProgress, ActualStart: datePtr("2024-01-05")}
		got := ApplyStatusChange(current, StatusCompleted, datePtr("2024-02-10"), now)

		if got.ActualStart == nil || FormatDate(*got.ActualStart) != "2024-01-05" {
			t.Errorf("ActualStart = %v, want 2024-01-05", got.ActualStart)
		}
		if got.CompletedOn == nil || FormatDate(*got.CompletedOn) != "2024-02-10" {
			t.Errorf("CompletedOn = %v, want 2024-02-10", got.CompletedOn)
		}
	})

	t.Run("uses now when no explicit date", func(t *testing.T) {
		got := ApplyStatusChange(Snapshot{Status: StatusNotStarted}, StatusCompleted, nil, now)

		if got.CompletedOn == nil || !got.CompletedOn.Equal(now) {
			t.Errorf("CompletedOn = %v, want %v", got.CompletedOn, now)
		}
	})
}

func TestApplyStatusChangeReset(t *testing.T) {
	// Reset must clear everything regardless of prior state.
	current := Snapshot{
		Status:      StatusCompleted,
		ActualStart: datePtr("2024-01-01"),
		CompletedOn: datePtr("2024-02-01"),
	}

	got := ApplyStatusChange(current, StatusNotStarted, datePtr("2024-05-05"), date("2024-03-01"))

	if got.Status != StatusNotStarted {
		t.Errorf("Status = %s, want %s", got.Status, StatusNotStarted)
	}
	if got.ActualStart != nil || got.CompletedOn != nil {
		t.Errorf("dates not cleared: start=%v completed=%v", got.ActualStart, got.CompletedOn)
	}
	if got.AutoCompleted || got.RequiresBackfill || got.AutoCompletedFrom != "" {
		t.Error("auto-completion bookkeeping not cleared")
	}
}

func TestApplyStatusChangeSkipped(t *testing.T) {
	current := Snapshot{Status: StatusInProgress, ActualStart: datePtr("2024-01-01")}
	got := ApplyStatusChange(current, StatusSkipped, nil, date("2024-03-01"))

	if got.Status != StatusSkipped {
		t.Errorf("Status = %s, want %s", got.Status, StatusSkipped)
	}
	if got.CompletedOn != nil {
		t.Errorf("CompletedOn = %v, want nil (only completed stages carry a completion date)", got.CompletedOn)
	}
	if got.ActualStart == nil || FormatDate(*got.ActualStart) != "2024-01-01" {
		t.Errorf("ActualStart = %v, want preserved 2024-01-01", got.ActualStart)
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input   string
		want    Status
		wantErr bool
	}{
		{"not_started", StatusNotStarted, false},
		{"in_progress", StatusInProgress, false},
		{"completed", StatusCompleted, false},
		{"skipped", StatusSkipped, false},
		{"done", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		got, err := ParseStatus(tt.input)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseStatus(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %s, want %s", tt.input, got, tt.want)
		}
	}
}
