package bot

import (
	"testing"
	"time"
)

func TestComposeComment(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		links []string
		want  string
	}{
		{
			name: "empty state",
			want: sentinelNoComment,
		},
		{
			name: "text only",
			text: "Great app",
			want: "Great app",
		},
		{
			name:  "links only",
			links: []string{"https://a", "https://b"},
			want:  "1. https://a\n2. https://b",
		},
		{
			name:  "text then numbered links",
			text:  "Broken screen",
			links: []string{"https://a"},
			want:  "Broken screen\n1. https://a",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := composeComment(tt.text, tt.links); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}
}

func TestRecordValuesUsesSentinels(t *testing.T) {
	rec := Record{
		UserID:      7,
		Comment:     sentinelNoComment,
		SubmittedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	got := rec.Values()
	want := []interface{}{"7", sentinelNotSpecified, sentinelNotSpecified, sentinelNoRating, sentinelNoComment, "2024-01-02 03:04:05"}
	if len(got) != len(want) {
		t.Fatalf("expected %d columns, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("column %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestRecordValuesPrefixesHandle(t *testing.T) {
	rec := Record{
		UserID:      42,
		Username:    "apptester",
		FirstName:   "Alice",
		Rating:      "10",
		Comment:     "fine",
		SubmittedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
	}
	got := rec.Values()
	if got[1] != "@apptester" {
		t.Errorf("expected @-prefixed handle, got %v", got[1])
	}
	if got[0] != "42" || got[2] != "Alice" || got[3] != "10" {
		t.Errorf("unexpected row %v", got)
	}
}
