// Package labarchives provides a read-only client for the LabArchives
// notebook store API.
package labarchives

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound reports a well-formed identifier that matches nothing in
// the store.
var ErrNotFound = errors.New("not found in store")

// Notebook is a notebook record as returned by the store.
type Notebook struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Owner       string    `json:"owner"`
	PageCount   int       `json:"pageCount"`
	FolderCount int       `json:"folderCount"`
	CreatedAt   time.Time `json:"createdAt"`
	ModifiedAt  time.Time `json:"modifiedAt"`
}

// Page is a page record as returned by the store. FolderPath is nil for
// pages that sit outside any folder.
type Page struct {
	ID         string    `json:"id"`
	NotebookID string    `json:"notebookId"`
	Title      string    `json:"title"`
	FolderPath *string   `json:"folderPath,omitempty"`
	EntryCount int       `json:"entryCount"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Entry is an entry record as returned by the store.
type Entry struct {
	ID         string    `json:"id"`
	PageID     string    `json:"pageId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Version    int       `json:"version"`
	Author     string    `json:"author"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// Store is the read-only query surface the resolution engine consumes.
// All four calls are idempotent and side-effect-free; failures are
// generic store errors except ErrNotFound for missing identifiers.
type Store interface {
	ListNotebooks(ctx context.Context) ([]Notebook, error)
	ListPages(ctx context.Context, notebookID string) ([]Page, error)
	ListEntries(ctx context.Context, pageID string) ([]Entry, error)
	GetEntry(ctx context.Context, entryID string) (*Entry, error)
}
