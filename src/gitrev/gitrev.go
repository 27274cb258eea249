// Package gitrev resolves revision metadata from the local git repository
// and turns it, together with the build tag, into template fields for
// step commands.
package gitrev

import (
	"fmt"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/plumbing/storer"
)

// Info holds revision metadata for the working tree.
type Info struct {
	SHA        string // short (7) commit hash of HEAD
	Branch     string // current branch name, "" when detached
	NearestTag string // most recent tag reachable from HEAD, "" when untagged
	Dirty      bool   // uncommitted changes present
}

// maxTagWalk bounds the history walk when looking for the nearest tag.
const maxTagWalk = 2000

// Detect resolves Info for the repository containing rootDir.
// A missing repository is an error; callers treat it as "no git context"
// and fall back to plain {tag}-only templating.
func Detect(rootDir string) (*Info, error) {
	repo, err := git.PlainOpenWithOptions(rootDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository: %w", err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}

	info := &Info{SHA: shortHash(head.Hash())}
	if head.Name().IsBranch() {
		info.Branch = head.Name().Short()
	}

	info.NearestTag = nearestTag(repo, head.Hash())

	if wt, err := repo.Worktree(); err == nil {
		if status, err := wt.Status(); err == nil {
			info.Dirty = !status.IsClean()
		}
	}

	return info, nil
}

// nearestTag walks history from head and returns the first tagged commit's
// tag name. Annotated and lightweight tags both count.
func nearestTag(repo *git.Repository, head plumbing.Hash) string {
	tagged := make(map[plumbing.Hash]string)

	tags, err := repo.Tags()
	if err != nil {
		return ""
	}
	tags.ForEach(func(ref *plumbing.Reference) error {
		hash := ref.Hash()
		if tagObj, err := repo.TagObject(hash); err == nil {
			hash = tagObj.Target // annotated tag → peel to commit
		}
		tagged[hash] = ref.Name().Short()
		return nil
	})
	if len(tagged) == 0 {
		return ""
	}

	commit, err := repo.CommitObject(head)
	if err != nil {
		return ""
	}

	var found string
	walked := 0
	iter := object.NewCommitPreorderIter(commit, nil, nil)
	iter.ForEach(func(c *object.Commit) error {
		if name, ok := tagged[c.Hash]; ok {
			found = name
			return storer.ErrStop
		}
		walked++
		if walked >= maxTagWalk {
			return storer.ErrStop
		}
		return nil
	})
	return found
}

func shortHash(h plumbing.Hash) string {
	return h.String()[:7]
}
