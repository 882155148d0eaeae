package backend

import (
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"sync"
)

// Oldest git the CLI backend supports. "git diff --no-ext-diff" against an
// arbitrary tree and "show-ref --dereference" are both available there.
var minGitVersion = gitVersion{major: 2, minor: 23, patch: 0}

type gitVersion struct {
	major int
	minor int
	patch int
}

func MinGitVersion() string {
	return minGitVersion.String()
}

func (v gitVersion) String() string {
	return fmt.Sprintf("%d.%d.%d", v.major, v.minor, v.patch)
}

func (v gitVersion) less(other gitVersion) bool {
	if v.major != other.major {
		return v.major < other.major
	}
	if v.minor != other.minor {
		return v.minor < other.minor
	}
	return v.patch < other.patch
}

// parseGitVersionOutput accepts "git version 2.44.0", vendor suffixes such
// as "(Apple Git-146)" or ".windows.1", and bare "2.42.1".
func parseGitVersionOutput(out string) (gitVersion, bool) {
	s := strings.TrimSpace(out)
	if _, after, found := strings.Cut(s, "git version"); found {
		s = strings.TrimSpace(after)
	}
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return gitVersion{}, false
	}
	s = s[start:]
	end := 0
	for end < len(s) && (s[end] == '.' || (s[end] >= '0' && s[end] <= '9')) {
		end++
	}
	parts := strings.Split(strings.Trim(s[:end], "."), ".")
	if len(parts) < 2 {
		return gitVersion{}, false
	}
	var nums [3]int
	for i := 0; i < len(parts) && i < 3; i++ {
		n, err := strconv.Atoi(parts[i])
		if err != nil {
			if i < 2 {
				return gitVersion{}, false
			}
			break
		}
		nums[i] = n
	}
	return gitVersion{major: nums[0], minor: nums[1], patch: nums[2]}, true
}

func validateGitVersionOutput(out string) error {
	got, ok := parseGitVersionOutput(out)
	if !ok {
		return fmt.Errorf("unable to parse git version output: %q", strings.TrimSpace(out))
	}
	if got.less(minGitVersion) {
		return fmt.Errorf("git %s is too old; gitk-layout requires git >= %s", got, minGitVersion)
	}
	return nil
}

type gitVersionInfo struct {
	out string
	err error
}

var gitVersionCached = sync.OnceValue(func() gitVersionInfo {
	outBytes, err := exec.Command("git", "--version").CombinedOutput()
	out := strings.TrimSpace(string(outBytes))
	if err != nil {
		if out != "" {
			return gitVersionInfo{out: out, err: fmt.Errorf("git --version: %v: %s", err, out)}
		}
		return gitVersionInfo{out: out, err: fmt.Errorf("git --version: %w", err)}
	}
	return gitVersionInfo{out: out}
})

// GitVersion returns the raw "git --version" output.
func GitVersion() (string, error) {
	info := gitVersionCached()
	return info.out, info.err
}

func ensureMinGitVersion() error {
	info := gitVersionCached()
	if info.err != nil {
		return info.err
	}
	return validateGitVersionOutput(info.out)
}
