package pathnorm

import (
	"path"
	"regexp"
	"strings"
)

// Root identifies the symbolic variable a normalized path starts from.
type Root int

const (
	// RootNone marks a path that no rule could root; it renders unchanged
	RootNone Root = iota
	// RootProject is the project folder, $(PRJ_PATH)
	RootProject
	// RootRepository is the shared firmware repository, $(REPO_PATH)
	RootRepository
)

// Makefile variables for the two symbolic roots.
const (
	ProjectVar    = "$(PRJ_PATH)"
	RepositoryVar = "$(REPO_PATH)"
)

// String returns a human-readable name for the root
func (r Root) String() string {
	switch r {
	case RootProject:
		return "project"
	case RootRepository:
		return "repository"
	default:
		return "none"
	}
}

// Variable returns the Makefile variable for the root, or "" for RootNone.
func (r Root) Variable() string {
	switch r {
	case RootProject:
		return ProjectVar
	case RootRepository:
		return RepositoryVar
	default:
		return ""
	}
}

// Path is a path rooted at one of the symbolic roots.
// Paths with RootNone keep the raw text they were parsed from.
type Path struct {
	Root     Root
	Segments []string
	raw      string
}

// Rooted returns a path under root.
func Rooted(root Root, segments ...string) Path {
	return Path{Root: root, Segments: segments}
}

// Unrooted returns a path that renders as raw.
func Unrooted(raw string) Path {
	return Path{Root: RootNone, raw: raw}
}

// Rooted reports whether the path starts from a symbolic root.
func (p Path) Rooted() bool {
	return p.Root != RootNone
}

// String renders the path with forward slashes, e.g. "$(PRJ_PATH)/Src/main.c".
func (p Path) String() string {
	if p.Root == RootNone {
		return p.raw
	}
	if len(p.Segments) == 0 {
		return p.Root.Variable()
	}
	return p.Root.Variable() + "/" + strings.Join(p.Segments, "/")
}

// Base returns the last element of the path.
func (p Path) Base() string {
	if p.Root == RootNone {
		return path.Base(toSlash(p.raw))
	}
	if len(p.Segments) == 0 {
		return p.Root.Variable()
	}
	return p.Segments[len(p.Segments)-1]
}

// Ext returns the file name extension, including the dot.
func (p Path) Ext() string {
	return path.Ext(p.Base())
}

// markerRe matches the IDE's project-relative addressing segment,
// e.g. "PARENT-3-PROJECT_LOC".
var markerRe = regexp.MustCompile(`^(PARENT-[0-9]+-)?PROJECT_LOC$`)

// parsed is the structural view of a raw IDE path.
type parsed struct {
	raw      string
	slash    string   // raw with forward slashes
	root     Root     // already rooted at a symbolic variable
	abs      bool     // starts with "/" or a drive letter
	marker   bool     // starts with a PARENT-n-PROJECT_LOC segment
	hops     int      // leading ".." segments (after the marker, if any)
	segments []string // all segments after the root, marker and hops
}

func toSlash(raw string) string {
	return strings.ReplaceAll(raw, `\`, "/")
}

func splitSegments(s string) []string {
	var out []string
	for _, seg := range strings.Split(s, "/") {
		if seg == "" || seg == "." {
			continue
		}
		out = append(out, seg)
	}
	return out
}

// parse splits a raw path into its structural parts.
func parse(raw string) parsed {
	p := parsed{raw: raw, slash: toSlash(strings.TrimSpace(raw))}
	s := p.slash

	for _, root := range []Root{RootProject, RootRepository} {
		v := root.Variable()
		if s == v || strings.HasPrefix(s, v+"/") {
			p.root = root
			p.segments = splitSegments(strings.TrimPrefix(s, v))
			return p
		}
	}

	if strings.HasPrefix(s, "/") || hasDrive(s) {
		p.abs = true
	}

	segs := splitSegments(s)
	if !p.abs && len(segs) > 0 && markerRe.MatchString(segs[0]) {
		p.marker = true
		segs = segs[1:]
	}
	for !p.abs && len(segs) > 0 && segs[0] == ".." {
		p.hops++
		segs = segs[1:]
	}
	p.segments = segs
	return p
}

func hasDrive(s string) bool {
	return len(s) >= 2 && s[1] == ':' &&
		((s[0] >= 'a' && s[0] <= 'z') || (s[0] >= 'A' && s[0] <= 'Z'))
}

// markerRelative returns the segments following the PARENT-n-PROJECT_LOC
// marker, keeping any ".." hops.
func (p parsed) markerRelative() []string {
	out := make([]string, 0, p.hops+len(p.segments))
	for i := 0; i < p.hops; i++ {
		out = append(out, "..")
	}
	return append(out, p.segments...)
}
