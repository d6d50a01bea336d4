package git

import (
	"errors"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"

	derrors "git.home.luguber.info/inful/ndocs/internal/foundation/errors"
)

// CurrentRef returns the short branch name checked out in the repository
// containing dir. A detached HEAD yields the full commit hash.
func CurrentRef(dir string) (string, error) {
	ref, err := head(dir)
	if err != nil {
		return "", err
	}
	if ref.Name().IsBranch() {
		return ref.Name().Short(), nil
	}
	return ref.Hash().String(), nil
}

func head(dir string) (*plumbing.Reference, error) {
	repository, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		msg := "cannot open git repository"
		if errors.Is(err, git.ErrRepositoryNotExists) {
			msg = "not inside a git repository"
		}
		return nil, derrors.WrapError(err, derrors.CategoryGit, msg).
			WithContext("dir", dir).
			Build()
	}
	ref, err := repository.Head()
	if err != nil {
		return nil, derrors.WrapError(err, derrors.CategoryGit, "cannot resolve HEAD").
			WithContext("dir", dir).
			Build()
	}
	return ref, nil
}
