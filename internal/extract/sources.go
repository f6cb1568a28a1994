package extract

import (
	"fmt"
	"sort"
	"strings"

	"github.com/muurk/cube2make/internal/pathnorm"
	"github.com/muurk/cube2make/internal/project"
)

// UserMarker marks linked resources that belong to the project itself.
// Matching is a case-sensitive substring test on the resource name.
const UserMarker = "User"

// Kind is the language of a source file.
type Kind int

const (
	KindC Kind = iota
	KindASM
)

// String returns a human-readable name for the kind
func (k Kind) String() string {
	switch k {
	case KindC:
		return "C"
	case KindASM:
		return "ASM"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// ClassifiedSource is a normalized source file path with its language.
type ClassifiedSource struct {
	Path pathnorm.Path
	Kind Kind
}

// Sources are the classified source lists, de-duplicated and sorted by path.
type Sources struct {
	C   []ClassifiedSource
	ASM []ClassifiedSource

	// Unrooted lists paths no normalization rule could root
	Unrooted []string

	// Skipped lists resource names that are not files (virtual folders)
	Skipped []string
}

// UnknownSourceError is returned for a linked file that is neither C nor
// assembly.
type UnknownSourceError struct {
	Name string
	Path string
	Ext  string
}

func (e *UnknownSourceError) Error() string {
	return fmt.Sprintf("unknown source file type %q: %s", e.Ext, e.Path)
}

// ClassifySources normalizes every linked file and partitions the result into
// C and assembly lists. Any other extension fails the whole classification.
func ClassifySources(links []project.LinkedResource, n *pathnorm.Normalizer) (*Sources, error) {
	result := &Sources{}

	type entry struct {
		name string
		path pathnorm.Path
	}
	byPath := make(map[string]entry, len(links))

	for _, link := range links {
		if !link.IsFile() {
			result.Skipped = append(result.Skipped, link.Name)
			continue
		}

		var p pathnorm.Path
		if strings.Contains(link.Name, UserMarker) {
			p = n.UserSource(link.Location)
		} else {
			p = n.Shared(link.Location)
		}

		key := p.String()
		if _, dup := byPath[key]; dup {
			continue
		}
		byPath[key] = entry{name: link.Name, path: p}
	}

	keys := make([]string, 0, len(byPath))
	for k := range byPath {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		e := byPath[k]
		ext := e.path.Ext()
		switch {
		case ext == ".c":
			result.C = append(result.C, ClassifiedSource{Path: e.path, Kind: KindC})
		case strings.EqualFold(ext, ".s"):
			result.ASM = append(result.ASM, ClassifiedSource{Path: e.path, Kind: KindASM})
		default:
			return nil, &UnknownSourceError{Name: e.name, Path: k, Ext: ext}
		}

		if !e.path.Rooted() {
			result.Unrooted = append(result.Unrooted, k)
		}
	}

	return result, nil
}

// Paths returns the rendered paths of sources.
func Paths(sources []ClassifiedSource) []string {
	out := make([]string, len(sources))
	for i, s := range sources {
		out[i] = s.Path.String()
	}
	return out
}
