package builder

import (
	"github.com/go-git/go-git/v6"

	"github.com/pyvoip/configure/internal/msg"
)

const shortHashLen = 12

// sourceRevision returns the abbreviated HEAD commit of the git repository
// containing dir, or "" when dir is not inside one.
func sourceRevision(dir string) string {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		msg.Debug("no source revision for %s: %v", dir, err)
		return ""
	}

	head, err := repo.Head()
	if err != nil {
		// empty repository
		msg.Debug("no source revision for %s: %v", dir, err)
		return ""
	}

	hash := head.Hash().String()
	if len(hash) > shortHashLen {
		hash = hash[:shortHashLen]
	}
	return hash
}
