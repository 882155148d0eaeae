package backend

import (
	"strings"
	"testing"
)

func TestParseGitVersionOutputVariants(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want gitVersion
		ok   bool
	}{
		{in: "git version 2.23.0", want: gitVersion{2, 23, 0}, ok: true},
		{in: "git version 2.47.1 (Apple Git-154)\n", want: gitVersion{2, 47, 1}, ok: true},
		{in: "git version 2.45.2.windows.1", want: gitVersion{2, 45, 2}, ok: true},
		{in: "git version 2.40.0.rc1", want: gitVersion{2, 40, 0}, ok: true},
		{in: "  3.0  ", want: gitVersion{3, 0, 0}, ok: true},
		{in: "git version 2"},
		{in: "git: command not found"},
		{in: ""},
	}
	for _, tt := range tests {
		got, ok := parseGitVersionOutput(tt.in)
		if ok != tt.ok || (ok && got != tt.want) {
			t.Fatalf("parseGitVersionOutput(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.ok)
		}
	}
}

func TestGitVersionOrdering(t *testing.T) {
	t.Parallel()

	ordered := []gitVersion{{1, 9, 9}, {2, 22, 9}, {2, 23, 0}, {2, 23, 1}, {2, 100, 0}, {3, 0, 0}}
	for i := range ordered {
		for j := range ordered {
			if got := ordered[i].less(ordered[j]); got != (i < j) {
				t.Fatalf("%s.less(%s) = %v", ordered[i], ordered[j], got)
			}
		}
	}
}

func TestValidateGitVersionAgainstMinimum(t *testing.T) {
	t.Parallel()

	if MinGitVersion() != "2.23.0" {
		t.Fatalf("MinGitVersion() = %q", MinGitVersion())
	}
	for _, ok := range []string{"git version 2.23.0", "git version 2.43.0"} {
		if err := validateGitVersionOutput(ok); err != nil {
			t.Fatalf("validateGitVersionOutput(%q) = %v", ok, err)
		}
	}
	err := validateGitVersionOutput("git version 2.22.5")
	if err == nil || !strings.Contains(err.Error(), ">= 2.23.0") {
		t.Fatalf("old git error = %v", err)
	}
	if err := validateGitVersionOutput("garbage"); err == nil || !strings.Contains(err.Error(), "unable to parse") {
		t.Fatalf("garbage error = %v", err)
	}
}
