package version

import (
	"strings"
	"testing"
)

func TestString(t *testing.T) {
	oldCommit, oldDate := Commit, Date
	defer func() { Commit, Date = oldCommit, oldDate }()

	Commit, Date = "unknown", "unknown"
	if s := String(); !strings.HasPrefix(s, "tinct-shell version "+Version) {
		t.Errorf("String() = %q", s)
	}

	Commit, Date = "abc", "2026-01-01T00:00:00Z"
	if s := String(); !strings.Contains(s, "commit: abc,") {
		t.Errorf("String() with short commit = %q", s)
	}

	Commit = "0123456789abcdef"
	if s := String(); !strings.Contains(s, "commit: 01234567,") {
		t.Errorf("String() with long commit = %q", s)
	}
}
