package statusbar

import (
	"strings"

	git "github.com/go-git/go-git/v5"
)

const shortHashLen = 7

// ResolveGitBranch reports the branch checked out in the repository that
// contains dir. A detached HEAD yields the abbreviated commit hash; a
// directory outside any repository yields "".
func ResolveGitBranch(dir string) string {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return ""
	}

	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return ""
	}
	head, err := repo.Head()
	if err != nil {
		return ""
	}
	if head.Name().IsBranch() {
		return head.Name().Short()
	}

	hash := head.Hash().String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return hash
}
