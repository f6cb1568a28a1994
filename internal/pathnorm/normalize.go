package pathnorm

import (
	"path"
	"strings"
)

// SharedTrees are the top-level repository folders holding shared library code.
var SharedTrees = []string{"Drivers", "Middlewares"}

// Normalizer rewrites IDE paths into paths rooted at $(PRJ_PATH) or $(REPO_PATH).
//
// ProjectDir and RepoDir are optional host directories. When set, absolute
// paths below them are rooted at the matching variable.
type Normalizer struct {
	ProjectDir string
	RepoDir    string
}

// New creates a normalizer for the given project and repository directories.
func New(projectDir, repoDir string) *Normalizer {
	return &Normalizer{
		ProjectDir: cleanDir(projectDir),
		RepoDir:    cleanDir(repoDir),
	}
}

func cleanDir(dir string) string {
	if dir == "" {
		return ""
	}
	return path.Clean(toSlash(dir))
}

// UserSource normalizes the location of a project-local ("User") source.
// The PARENT-n-PROJECT_LOC marker is replaced by the project root unless the
// remainder reaches into a shared tree, in which case Shared applies.
func (n *Normalizer) UserSource(raw string) Path {
	p := parse(raw)
	if p.root != RootNone {
		return Rooted(p.root, p.segments...)
	}

	if p.marker && sharedIndex(p.segments) < 0 {
		return Rooted(RootProject, p.markerRelative()...)
	}

	return n.shared(p)
}

// Shared normalizes a path into the shared repository: everything up to the
// first Drivers or Middlewares segment is replaced by the repository root.
func (n *Normalizer) Shared(raw string) Path {
	p := parse(raw)
	if p.root != RootNone {
		return Rooted(p.root, p.segments...)
	}
	return n.shared(p)
}

// Include normalizes a compiler or assembler include directory. A bare Inc
// directory reached through ".." hops or from "/" is the project's Inc folder;
// anything else follows the Shared rule.
func (n *Normalizer) Include(raw string) Path {
	p := parse(raw)
	if p.root != RootNone {
		return Rooted(p.root, p.segments...)
	}

	if !p.marker && (p.hops > 0 || p.abs) && len(p.segments) == 1 && p.segments[0] == "Inc" {
		return Rooted(RootProject, "Inc")
	}

	if p.marker && sharedIndex(p.segments) < 0 {
		return Rooted(RootProject, p.markerRelative()...)
	}

	return n.shared(p)
}

func (n *Normalizer) shared(p parsed) Path {
	if i := sharedIndex(p.segments); i >= 0 {
		return Rooted(RootRepository, p.segments[i:]...)
	}

	if p.abs {
		// Repository first: it may live inside the project folder
		if rel, ok := under(p.slash, n.RepoDir); ok {
			return Rooted(RootRepository, rel...)
		}
		if rel, ok := under(p.slash, n.ProjectDir); ok {
			return Rooted(RootProject, rel...)
		}
	}

	return Unrooted(p.raw)
}

// sharedIndex returns the index of the first shared tree segment, or -1.
func sharedIndex(segments []string) int {
	for i, seg := range segments {
		for _, tree := range SharedTrees {
			if seg == tree {
				return i
			}
		}
	}
	return -1
}

// under reports whether p is below dir and returns the remaining segments.
func under(p, dir string) ([]string, bool) {
	if dir == "" {
		return nil, false
	}
	p = path.Clean(p)
	if p == dir {
		return nil, true
	}
	if !strings.HasPrefix(p, strings.TrimSuffix(dir, "/")+"/") {
		return nil, false
	}
	return splitSegments(strings.TrimPrefix(p, dir)), true
}
