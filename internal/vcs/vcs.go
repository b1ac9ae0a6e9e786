// Package vcs guards fix application behind version control checks: fixes
// rewrite files in place, so jarl refuses to apply them outside a git
// repository or on a dirty worktree unless explicitly allowed.
package vcs

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// CheckVersionControl verifies that applying fixes under path is safe.
// Without a git repository it fails unless allowNoVCS is set; with
// uncommitted changes it fails unless allowDirty is set.
func CheckVersionControl(path string, allowNoVCS, allowDirty bool) error {
	if allowNoVCS {
		return nil
	}

	dir, err := discoveryDir(path)
	if err != nil {
		return err
	}

	if !inGitRepo(dir) {
		return fmt.Errorf(
			"`jarl check --fix` can potentially perform destructive changes but no " +
				"Version Control System (e.g. Git) was found on this project, so no fixes " +
				"were applied. \n" +
				"Add `--allow-no-vcs` to the call to apply the fixes.")
	}

	if allowDirty {
		return nil
	}

	dirtyFiles, err := dirtyFiles(dir)
	if err != nil {
		return fmt.Errorf("checking worktree status: %w", err)
	}
	if len(dirtyFiles) == 0 {
		return nil
	}

	var filesList strings.Builder
	for _, file := range dirtyFiles {
		filesList.WriteString("  * ")
		filesList.WriteString(file)
		filesList.WriteString(" (dirty)\n")
	}

	return fmt.Errorf(
		"`jarl check --fix` can potentially perform destructive changes but the working "+
			"directory of this project has uncommitted changes, so no fixes were applied. \n"+
			"To apply the fixes, either add `--allow-dirty` to the call, or commit the changes "+
			"to these files:\n\n%s", filesList.String())
}

// discoveryDir resolves path to the directory used for repository
// discovery. A file path is replaced by its parent directory.
func discoveryDir(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving path %s: %w", path, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return filepath.Dir(abs), nil
	}
	return abs, nil
}

func inGitRepo(dir string) bool {
	cmd := exec.Command("git", "-C", dir, "rev-parse", "--is-inside-work-tree")
	out, err := cmd.Output()
	return err == nil && strings.TrimSpace(string(out)) == "true"
}

// dirtyFiles returns the paths reported by `git status --porcelain`,
// relative to the repository root.
func dirtyFiles(dir string) ([]string, error) {
	cmd := exec.Command("git", "-C", dir, "status", "--porcelain")
	out, err := cmd.Output()
	if err != nil {
		return nil, err
	}

	var files []string
	for _, line := range strings.Split(string(out), "\n") {
		if len(line) < 4 {
			continue
		}
		// Two status letters, a space, then the path. Renames list both
		// sides as "old -> new"; report the new path.
		path := strings.TrimSpace(line[3:])
		if idx := strings.Index(path, " -> "); idx != -1 {
			path = path[idx+4:]
		}
		files = append(files, path)
	}
	return files, nil
}
