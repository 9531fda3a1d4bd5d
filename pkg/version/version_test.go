package version

import (
	"strings"
	"testing"
)

func TestSummaryIncludesShortCommit(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version = "1.2.3"
	Commit = "abcdef1234567890"

	got := Summary()
	if got != "1.2.3 (abcdef1)" {
		t.Fatalf("Summary() = %q", got)
	}
}

func TestSummaryWithoutCommit(t *testing.T) {
	origVersion, origCommit := Version, Commit
	defer func() { Version, Commit = origVersion, origCommit }()

	Version = ""
	Commit = "none"

	if got := Summary(); got != "dev" {
		t.Fatalf("Summary() = %q", got)
	}
}

func TestPlatform(t *testing.T) {
	if !strings.Contains(Platform(), "/") {
		t.Fatalf("Platform() = %q", Platform())
	}
}
