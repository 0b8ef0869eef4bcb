// Package scope enforces the configured notebook and folder boundary for
// resource listing and reads.
package scope

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidPath reports a raw folder string that cannot be normalized.
var ErrInvalidPath = errors.New("invalid folder path")

// Path is a normalized folder path: an ordered list of non-empty
// components. The zero value is the root. Paths are immutable once
// constructed and safe to share across goroutines without synchronization.
//
// All comparisons are component-wise and case-sensitive. There are no
// substring semantics anywhere on this type: "Chem" is unrelated to
// "Chemistry" no matter how their joined strings overlap.
type Path struct {
	components []string
}

// ParsePath normalizes a raw folder string into a Path. Outer whitespace
// and slashes are stripped, each component is trimmed, and empty
// components produced by repeated slashes are dropped. "" and "/"
// normalize to the root. Components equal to "." or ".." are rejected
// with ErrInvalidPath.
func ParsePath(raw string) (Path, error) {
	trimmed := strings.Trim(strings.TrimSpace(raw), "/")
	if trimmed == "" {
		return Path{}, nil
	}

	var components []string
	for _, part := range strings.Split(trimmed, "/") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if part == "." || part == ".." {
			return Path{}, fmt.Errorf("%w: component %q", ErrInvalidPath, part)
		}
		components = append(components, part)
	}

	return Path{components: components}, nil
}

// MustParsePath is ParsePath for inputs known to be valid. It panics on
// error and exists for tests and compiled-in defaults.
func MustParsePath(raw string) Path {
	p, err := ParsePath(raw)
	if err != nil {
		panic(err)
	}
	return p
}

// IsParentOf reports whether p is a strict ancestor of other: p's
// components must be a proper prefix of other's, matched component by
// component. The root is a parent of every non-root path; no path is its
// own parent.
func (p Path) IsParentOf(other Path) bool {
	if len(p.components) >= len(other.components) {
		return false
	}
	for i, c := range p.components {
		if other.components[i] != c {
			return false
		}
	}
	return true
}

// Equal reports component-wise, case-sensitive equality.
func (p Path) Equal(other Path) bool {
	if len(p.components) != len(other.components) {
		return false
	}
	for i, c := range p.components {
		if other.components[i] != c {
			return false
		}
	}
	return true
}

// Contains reports whether other lies at or below p. This is the test a
// folder scope applies to page folder paths.
func (p Path) Contains(other Path) bool {
	return p.Equal(other) || p.IsParentOf(other)
}

// IsRoot reports whether p is the distinguished root path.
func (p Path) IsRoot() bool {
	return len(p.components) == 0
}

// Depth returns the number of components. The root has depth zero.
func (p Path) Depth() int {
	return len(p.components)
}

// String rejoins the components with "/". The root renders as the empty
// string, so ParsePath(p.String()) always reproduces p.
func (p Path) String() string {
	return strings.Join(p.components, "/")
}
