package source

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/go-git/go-git/v5"
)

// DetectRoot returns the root of the git worktree containing dir, or dir
// itself when it is not inside a worktree.
func DetectRoot(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrapf(err, "resolve %s", dir)
	}

	repo, err := git.PlainOpenWithOptions(abs, &git.PlainOpenOptions{
		DetectDotGit:          true,
		EnableDotGitCommonDir: true,
	})
	if errors.Is(err, git.ErrRepositoryNotExists) {
		return abs, nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "open repository at %s", abs)
	}

	wt, err := repo.Worktree()
	if errors.Is(err, git.ErrIsBareRepository) {
		return abs, nil
	}
	if err != nil {
		return "", errors.Wrapf(err, "open worktree at %s", abs)
	}
	return wt.Filesystem.Root(), nil
}
