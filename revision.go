package main

import (
	"fmt"

	git "gopkg.in/src-d/go-git.v4"
)

type revision struct {
	Hash  string
	Dirty bool
}

// currentRevision describes the git repository containing path, so that
// benchmark runs can be related to the code they measured.
func currentRevision(path string) (*revision, error) {
	r, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("unable to open the git repository: %w", err)
	}

	head, err := r.Head()
	if err != nil {
		return nil, fmt.Errorf("unable to get the reference where HEAD is pointing to: %w", err)
	}

	w, err := r.Worktree()
	if err != nil {
		return nil, fmt.Errorf("unable to get a worktree based on the given fs: %w", err)
	}

	s, err := w.Status()
	if err != nil {
		return nil, fmt.Errorf("unable to get the working tree status: %w", err)
	}

	return &revision{Hash: head.Hash().String(), Dirty: !s.IsClean()}, nil
}
