// Package uri parses and renders labarchives:// resource identifiers.
//
// The scheme is fixed and versionless. Three shapes exist:
//
//	labarchives://notebook/{notebook_id}
//	labarchives://notebook/{notebook_id}/page/{page_id}
//	labarchives://entry/{entry_id}
//
// Anything else is a parse failure, never coerced to a default type.
package uri

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Scheme is the fixed URI scheme token.
const Scheme = "labarchives"

// ErrInvalid reports a malformed resource URI.
var ErrInvalid = errors.New("invalid resource URI")

// Descriptor is the typed form of a parsed resource URI.
type Descriptor interface {
	// URI renders the canonical string form. Parse(d.URI()) reproduces d.
	URI() string

	isDescriptor()
}

// Notebook identifies a notebook.
type Notebook struct {
	NotebookID string
}

// Page identifies a page within a notebook.
type Page struct {
	NotebookID string
	PageID     string
}

// Entry identifies an entry. Entries carry no notebook or page linkage
// in the URI; that must be resolved from the store before any scope
// decision.
type Entry struct {
	EntryID string
}

func (Notebook) isDescriptor() {}
func (Page) isDescriptor()     {}
func (Entry) isDescriptor()    {}

// URI renders labarchives://notebook/{id}.
func (d Notebook) URI() string {
	return Scheme + "://notebook/" + url.PathEscape(d.NotebookID)
}

// ChildPage builds the descriptor for a page under this notebook.
func (d Notebook) ChildPage(pageID string) Page {
	return Page{NotebookID: d.NotebookID, PageID: pageID}
}

// URI renders the page URI by appending to its parent notebook's URI, so
// the hierarchy stays internally consistent.
func (d Page) URI() string {
	return d.Parent().URI() + "/page/" + url.PathEscape(d.PageID)
}

// Parent returns the notebook this page belongs to.
func (d Page) Parent() Notebook {
	return Notebook{NotebookID: d.NotebookID}
}

// URI renders labarchives://entry/{id}.
func (d Entry) URI() string {
	return Scheme + "://entry/" + url.PathEscape(d.EntryID)
}

// Parse converts a raw resource URI into a typed descriptor. The scheme,
// the segment layout, and every segment's non-emptiness are all checked;
// Parse performs no I/O and no scope decision.
func Parse(raw string) (Descriptor, error) {
	rest, ok := strings.CutPrefix(raw, Scheme+"://")
	if !ok {
		return nil, fmt.Errorf("%w: %q does not use the %s:// scheme", ErrInvalid, raw, Scheme)
	}

	segments := strings.Split(rest, "/")
	for i, segment := range segments {
		unescaped, err := url.PathUnescape(segment)
		if err != nil {
			return nil, fmt.Errorf("%w: bad escaping in %q", ErrInvalid, raw)
		}
		if unescaped == "" {
			return nil, fmt.Errorf("%w: empty segment in %q", ErrInvalid, raw)
		}
		segments[i] = unescaped
	}

	switch {
	case len(segments) == 2 && segments[0] == "notebook":
		return Notebook{NotebookID: segments[1]}, nil
	case len(segments) == 4 && segments[0] == "notebook" && segments[2] == "page":
		return Page{NotebookID: segments[1], PageID: segments[3]}, nil
	case len(segments) == 2 && segments[0] == "entry":
		return Entry{EntryID: segments[1]}, nil
	}

	return nil, fmt.Errorf("%w: unrecognized resource shape %q", ErrInvalid, raw)
}
