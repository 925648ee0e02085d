package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	origCommit, origDate := Commit, Date
	t.Cleanup(func() { Commit, Date = origCommit, origDate })

	tests := []struct {
		name   string
		commit string
		date   string
		want   string
	}{
		{"dev build", "unknown", "unknown", "safezone version dev ("},
		{"release build", "0123456789abcdef", "2025-01-01T00:00:00Z", "commit: 01234567,"},
		{"short commit", "abc", "2025-01-01T00:00:00Z", "commit: abc,"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			Commit, Date = tt.commit, tt.date
			if got := String(); !strings.Contains(got, tt.want) {
				t.Errorf("String() = %q, want it to contain %q", got, tt.want)
			}
		})
	}
}
