package scope

import (
	"github.com/elnbridge/labarchives-mcp/internal/uri"
)

// Decision is the outcome of a scope check. The zero value is Deny, so a
// forgotten branch can only ever fail closed.
type Decision int

const (
	// Deny refuses access. Every decision that cannot prove membership
	// lands here; "cannot determine" is never surfaced as an error.
	Deny Decision = iota
	// Allow grants access.
	Allow
)

func (d Decision) String() string {
	if d == Allow {
		return "allow"
	}
	return "deny"
}

// Context carries ancestor metadata the validator cannot derive from a
// descriptor alone. The orchestrator resolves it from the store before
// calling Decide. Fields are optional; any decision that needs a field
// left unset is Deny.
type Context struct {
	// ResolvedNotebookID is the id a notebook-name scope resolved to.
	// Empty means the name matched nothing, matched ambiguously, or the
	// lookup failed; every name-scoped decision is then Deny.
	ResolvedNotebookID string

	// PageFolder is the folder path of the page under decision. Nil when
	// the page has no folder or could not be resolved.
	PageFolder *Path

	// ParentNotebookID and ParentPageFolder describe an entry's resolved
	// parent page. An empty ParentNotebookID means the parent could not
	// be resolved.
	ParentNotebookID string
	ParentPageFolder *Path

	// NotebookPageFolders lists the folder paths of a notebook's pages
	// (pages without a folder omitted), for notebook decisions under a
	// folder scope.
	NotebookPageFolders []Path
}

// Decide is the single scope decision point. Given a parsed descriptor,
// the configured scope, and resolved ancestor context, it returns Allow
// or Deny; there is no default-allow path and no "maybe".
func Decide(desc uri.Descriptor, cfg Config, ctx Context) Decision {
	switch cfg.Kind() {
	case Unrestricted:
		return Allow
	case ByNotebookID:
		return decideNotebookBound(desc, cfg.NotebookID(), ctx)
	case ByNotebookName:
		// Name resolution is the orchestrator's job; an empty resolution
		// means nothing can be proven in scope.
		return decideNotebookBound(desc, ctx.ResolvedNotebookID, ctx)
	case ByFolder:
		return decideFolderBound(desc, cfg.Folder(), ctx)
	}
	return Deny
}

// decideNotebookBound handles the NotebookId row (and the NotebookName
// row after resolution): everything must hang off the one notebook.
func decideNotebookBound(desc uri.Descriptor, want string, ctx Context) Decision {
	if want == "" {
		return Deny
	}
	switch d := desc.(type) {
	case uri.Notebook:
		if d.NotebookID == want {
			return Allow
		}
	case uri.Page:
		if d.NotebookID == want {
			return Allow
		}
	case uri.Entry:
		// The entry URI carries no linkage; only a resolved parent can
		// prove membership.
		if ctx.ParentNotebookID != "" && ctx.ParentNotebookID == want {
			return Allow
		}
	}
	return Deny
}

// decideFolderBound handles the FolderPath row. A page is in scope when
// its folder path sits at or below the scope folder. A notebook is in
// scope only when at least one of its pages is; exposing its metadata
// otherwise would leak out-of-scope structure.
func decideFolderBound(desc uri.Descriptor, folder Path, ctx Context) Decision {
	switch desc.(type) {
	case uri.Notebook:
		for _, f := range ctx.NotebookPageFolders {
			if folder.Contains(f) {
				return Allow
			}
		}
	case uri.Page:
		if ctx.PageFolder != nil && folder.Contains(*ctx.PageFolder) {
			return Allow
		}
	case uri.Entry:
		// The entry inherits its parent page's decision. An unresolved
		// parent proves nothing.
		if ctx.ParentPageFolder != nil && folder.Contains(*ctx.ParentPageFolder) {
			return Allow
		}
	}
	return Deny
}
