package scope

import "fmt"

// Kind identifies the active scope variant.
type Kind int

const (
	// Unrestricted exposes every notebook in the store.
	Unrestricted Kind = iota
	// ByNotebookID restricts the server to one notebook by id.
	ByNotebookID
	// ByNotebookName restricts the server to one notebook by exact name.
	ByNotebookName
	// ByFolder restricts the server to pages at or below one folder path.
	ByFolder
)

func (k Kind) String() string {
	switch k {
	case Unrestricted:
		return "unrestricted"
	case ByNotebookID:
		return "notebook-id"
	case ByNotebookName:
		return "notebook-name"
	case ByFolder:
		return "folder"
	}
	return fmt.Sprintf("scope.Kind(%d)", int(k))
}

// Config restricts the server to a subset of the store's resource tree.
// The zero value is unrestricted. Values are immutable and safe to share
// across goroutines.
type Config struct {
	notebookID   string
	notebookName string
	folder       Path
	hasFolder    bool
}

// UnrestrictedScope exposes the whole store.
func UnrestrictedScope() Config {
	return Config{}
}

// NotebookIDScope restricts to the notebook with the given id.
func NotebookIDScope(id string) Config {
	return Config{notebookID: id}
}

// NotebookNameScope restricts to the notebook with the given exact name.
func NotebookNameScope(name string) Config {
	return Config{notebookName: name}
}

// FolderScope restricts to pages whose folder path sits at or below p.
func FolderScope(p Path) Config {
	return Config{folder: p, hasFolder: true}
}

// NewConfig builds a scope from raw configuration values. Empty strings
// mean "not configured". Configuration validation is expected to reject
// inputs that set more than one variant before they get here, but if
// several arrive anyway the most restrictive one wins (folder, then
// notebook id, then notebook name) rather than trusting the caller.
func NewConfig(notebookID, notebookName, folderRaw string) (Config, error) {
	if folderRaw != "" {
		p, err := ParsePath(folderRaw)
		if err != nil {
			return Config{}, err
		}
		return FolderScope(p), nil
	}
	if notebookID != "" {
		return NotebookIDScope(notebookID), nil
	}
	if notebookName != "" {
		return NotebookNameScope(notebookName), nil
	}
	return UnrestrictedScope(), nil
}

// Kind resolves the active variant. A hand-built value carrying several
// variants resolves to the most restrictive one.
func (c Config) Kind() Kind {
	switch {
	case c.hasFolder:
		return ByFolder
	case c.notebookID != "":
		return ByNotebookID
	case c.notebookName != "":
		return ByNotebookName
	}
	return Unrestricted
}

// NotebookID returns the configured notebook id, if any.
func (c Config) NotebookID() string {
	return c.notebookID
}

// NotebookName returns the configured notebook name, if any.
func (c Config) NotebookName() string {
	return c.notebookName
}

// Folder returns the configured folder path. Meaningful only when Kind
// is ByFolder.
func (c Config) Folder() Path {
	return c.folder
}

func (c Config) String() string {
	switch c.Kind() {
	case ByNotebookID:
		return fmt.Sprintf("notebook-id(%s)", c.notebookID)
	case ByNotebookName:
		return fmt.Sprintf("notebook-name(%s)", c.notebookName)
	case ByFolder:
		return fmt.Sprintf("folder(%s)", c.folder)
	}
	return "unrestricted"
}
