package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	tests := []struct {
		name   string
		commit string
		want   string
	}{
		{"release build", "release", "v" + Version},
		{"stamped dev build", "abc1234", "v" + Version + "+abc1234"},
		{"unstamped build", "", "v" + Version + "+dev"},
		{"whitespace commit", "  ", "v" + Version + "+dev"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orig := Commit
			defer func() { Commit = orig }()

			Commit = tt.commit
			if got := String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestString_ReleaseHasNoSuffix(t *testing.T) {
	orig := Commit
	defer func() { Commit = orig }()

	Commit = "release"
	if got := String(); strings.Contains(got, "+") {
		t.Errorf("release version %q should not carry a build suffix", got)
	}
}
