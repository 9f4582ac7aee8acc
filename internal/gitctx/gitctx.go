package gitctx

import (
	"fmt"
	"os/exec"
	"strings"
)

// DiffResult holds the collected diff and metadata.
type DiffResult struct {
	Diff  string
	Mode  string
	Range string
	Repo  RepoMeta
}

// RepoMeta contains git repository metadata.
type RepoMeta struct {
	Root   string
	Head   string
	Branch string
}

// GetRepoMeta collects repository metadata from git.
func GetRepoMeta() (RepoMeta, error) {
	root, err := gitOutput("rev-parse", "--show-toplevel")
	if err != nil {
		return RepoMeta{}, fmt.Errorf("not a git repository: %w", err)
	}
	head, err := gitOutput("rev-parse", "HEAD")
	if err != nil {
		head = "" // new repo with no commits
	}
	branch, err := gitOutput("rev-parse", "--abbrev-ref", "HEAD")
	if err != nil {
		branch = ""
	}
	return RepoMeta{
		Root:   strings.TrimSpace(root),
		Head:   strings.TrimSpace(head),
		Branch: strings.TrimSpace(branch),
	}, nil
}

// Unstaged returns the diff of the working tree against the index.
func Unstaged() (DiffResult, error) {
	diff, err := gitOutput("diff")
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff: %w", err)
	}
	return buildResult(diff, "unstaged", "")
}

// Staged returns the diff of the index against HEAD.
func Staged() (DiffResult, error) {
	diff, err := gitOutput("diff", "--cached")
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff --cached: %w", err)
	}
	return buildResult(diff, "staged", "")
}

// Range returns the combined diff for a revision range.
func Range(revRange string) (DiffResult, error) {
	diff, err := gitOutput("diff", revRange)
	if err != nil {
		return DiffResult{}, fmt.Errorf("git diff %s: %w", revRange, err)
	}
	return buildResult(diff, "range", revRange)
}

func buildResult(diff, mode, revRange string) (DiffResult, error) {
	repo, err := GetRepoMeta()
	if err != nil {
		return DiffResult{}, err
	}
	return DiffResult{
		Diff:  diff,
		Mode:  mode,
		Range: revRange,
		Repo:  repo,
	}, nil
}

func gitOutput(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	out, err := cmd.Output()
	if err != nil {
		if ee, ok := err.(*exec.ExitError); ok && len(ee.Stderr) > 0 {
			return "", fmt.Errorf("%s: %s", err, strings.TrimSpace(string(ee.Stderr)))
		}
		return "", err
	}
	return string(out), nil
}
