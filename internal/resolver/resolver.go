// Package resolver lists and reads store resources, enforcing the
// configured scope before any content is returned to the caller.
package resolver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/elnbridge/labarchives-mcp/internal/labarchives"
	"github.com/elnbridge/labarchives-mcp/internal/scope"
	"github.com/elnbridge/labarchives-mcp/internal/uri"
)

// Resolver is the resolution orchestrator. It holds no mutable state and
// is safe for concurrent use.
type Resolver struct {
	store labarchives.Store
	scope scope.Config
	log   zerolog.Logger
}

// New creates a Resolver over the given store and scope.
func New(store labarchives.Store, cfg scope.Config, log zerolog.Logger) *Resolver {
	return &Resolver{store: store, scope: cfg, log: log}
}

// Resource is one listed resource as handed to the protocol layer.
type Resource struct {
	URI         string
	Name        string
	Description string
	Metadata    map[string]any
}

// Content is the result of reading one resource.
type Content struct {
	URI      string
	MIMEType string
	Text     string
}

// ListResources enumerates the resources inside the configured scope.
// Unrestricted scope lists notebooks; notebook and folder scopes list
// the in-scope pages, with URIs built under their parent notebook's URI.
func (r *Resolver) ListResources(ctx context.Context) ([]Resource, error) {
	switch r.scope.Kind() {
	case scope.Unrestricted:
		return r.listAllNotebooks(ctx)
	case scope.ByNotebookID:
		return r.listNotebookPages(ctx, r.scope.NotebookID(), scope.Context{})
	case scope.ByNotebookName:
		nb, err := r.resolveNotebookByName(ctx, r.scope.NotebookName())
		if err != nil {
			return nil, err
		}
		return r.listNotebookPages(ctx, nb.ID, scope.Context{ResolvedNotebookID: nb.ID})
	case scope.ByFolder:
		return r.listFolderScoped(ctx)
	}
	return nil, &DeniedError{}
}

func (r *Resolver) listAllNotebooks(ctx context.Context) ([]Resource, error) {
	notebooks, err := r.store.ListNotebooks(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Err: err}
	}
	resources := make([]Resource, 0, len(notebooks))
	for _, nb := range notebooks {
		if scope.Decide(uri.Notebook{NotebookID: nb.ID}, r.scope, scope.Context{}) != scope.Allow {
			continue
		}
		resources = append(resources, notebookResource(nb))
	}
	return resources, nil
}

func (r *Resolver) listNotebookPages(ctx context.Context, notebookID string, sctx scope.Context) ([]Resource, error) {
	nb, err := r.findNotebook(ctx, notebookID)
	if err != nil {
		return nil, err
	}
	pages, err := r.store.ListPages(ctx, nb.ID)
	if err != nil {
		if errors.Is(err, labarchives.ErrNotFound) {
			return nil, &NotFoundError{Kind: "notebook", ID: nb.ID}
		}
		return nil, &StoreUnavailableError{Err: err}
	}

	parent := uri.Notebook{NotebookID: nb.ID}
	resources := make([]Resource, 0, len(pages))
	for _, p := range pages {
		sctx.PageFolder = pageFolder(p)
		if scope.Decide(parent.ChildPage(p.ID), r.scope, sctx) != scope.Allow {
			continue
		}
		resources = append(resources, pageResource(parent, p))
	}
	return resources, nil
}

// listFolderScoped is the two-phase folder listing. Phase 1 retains only
// notebooks with at least one page under the scope folder; phase 2 emits
// only the retained notebooks' in-scope pages. Out-of-scope notebooks
// never appear, and neither do out-of-scope pages of retained notebooks.
func (r *Resolver) listFolderScoped(ctx context.Context) ([]Resource, error) {
	notebooks, err := r.store.ListNotebooks(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Err: err}
	}

	var resources []Resource
	for _, nb := range notebooks {
		pages, err := r.store.ListPages(ctx, nb.ID)
		if err != nil {
			return nil, &StoreUnavailableError{Err: err}
		}

		// Phase 1: notebook retention.
		nctx := scope.Context{NotebookPageFolders: knownFolders(pages)}
		if scope.Decide(uri.Notebook{NotebookID: nb.ID}, r.scope, nctx) != scope.Allow {
			continue
		}

		// Phase 2: per-page filtering within the retained notebook.
		parent := uri.Notebook{NotebookID: nb.ID}
		for _, p := range pages {
			pctx := scope.Context{PageFolder: pageFolder(p)}
			if scope.Decide(parent.ChildPage(p.ID), r.scope, pctx) != scope.Allow {
				continue
			}
			resources = append(resources, pageResource(parent, p))
		}
	}
	return resources, nil
}

// ReadResource parses the URI, resolves the minimum metadata a scope
// decision needs, denies before any further store calls if the decision
// is Deny, and only then fetches content. The decision runs on every
// read even when a prior listing already filtered the resource.
func (r *Resolver) ReadResource(ctx context.Context, rawURI string) (*Content, error) {
	desc, err := uri.Parse(rawURI)
	if err != nil {
		return nil, &ParseError{URI: rawURI, Err: err}
	}

	switch d := desc.(type) {
	case uri.Notebook:
		return r.readNotebook(ctx, d)
	case uri.Page:
		return r.readPage(ctx, d)
	case uri.Entry:
		return r.readEntry(ctx, d)
	}
	return nil, &ParseError{URI: rawURI, Err: fmt.Errorf("unknown resource type")}
}

func (r *Resolver) readNotebook(ctx context.Context, d uri.Notebook) (*Content, error) {
	pages, err := r.scopedNotebookPages(ctx, d.NotebookID)
	if err != nil {
		return nil, err
	}

	nb, err := r.findNotebook(ctx, d.NotebookID)
	if err != nil {
		return nil, err
	}

	doc := notebookDocument{
		URI:         d.URI(),
		ID:          nb.ID,
		Name:        nb.Name,
		Owner:       nb.Owner,
		PageCount:   nb.PageCount,
		FolderCount: nb.FolderCount,
		CreatedAt:   nb.CreatedAt,
		ModifiedAt:  nb.ModifiedAt,
	}
	for _, p := range pages {
		doc.Pages = append(doc.Pages, pageSummaryOf(d, p))
	}
	return jsonContent(d.URI(), doc)
}

func (r *Resolver) readPage(ctx context.Context, d uri.Page) (*Content, error) {
	sctx := scope.Context{}
	var page *labarchives.Page

	switch r.scope.Kind() {
	case scope.ByFolder:
		// The decision needs the page's folder path. Resolution failure
		// proves nothing and is a denial, not an error.
		pages, err := r.store.ListPages(ctx, d.NotebookID)
		if err != nil {
			if errors.Is(err, labarchives.ErrNotFound) {
				return nil, &NotFoundError{Kind: "notebook", ID: d.NotebookID}
			}
			return nil, &DeniedError{}
		}
		page = findPage(pages, d.PageID)
		if page == nil {
			return nil, &NotFoundError{Kind: "page", ID: d.PageID}
		}
		sctx.PageFolder = pageFolder(*page)
	case scope.ByNotebookName:
		if nb, err := r.resolveNotebookByName(ctx, r.scope.NotebookName()); err == nil {
			sctx.ResolvedNotebookID = nb.ID
		}
	}

	if scope.Decide(d, r.scope, sctx) != scope.Allow {
		return nil, &DeniedError{}
	}

	if page == nil {
		pages, err := r.store.ListPages(ctx, d.NotebookID)
		if err != nil {
			if errors.Is(err, labarchives.ErrNotFound) {
				return nil, &NotFoundError{Kind: "notebook", ID: d.NotebookID}
			}
			return nil, &StoreUnavailableError{Err: err}
		}
		page = findPage(pages, d.PageID)
		if page == nil {
			return nil, &NotFoundError{Kind: "page", ID: d.PageID}
		}
	}

	entries, err := r.store.ListEntries(ctx, d.PageID)
	if err != nil {
		if errors.Is(err, labarchives.ErrNotFound) {
			return nil, &NotFoundError{Kind: "page", ID: d.PageID}
		}
		return nil, &StoreUnavailableError{Err: err}
	}

	doc := pageDocument{
		URI:        d.URI(),
		ID:         page.ID,
		NotebookID: page.NotebookID,
		Title:      page.Title,
		EntryCount: page.EntryCount,
		Author:     page.Author,
		CreatedAt:  page.CreatedAt,
		ModifiedAt: page.ModifiedAt,
	}
	if page.FolderPath != nil {
		doc.FolderPath = *page.FolderPath
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, entrySummary{
			URI:     uri.Entry{EntryID: e.ID}.URI(),
			ID:      e.ID,
			Type:    e.Type,
			Title:   e.Title,
			Version: e.Version,
		})
	}
	return jsonContent(d.URI(), doc)
}

func (r *Resolver) readEntry(ctx context.Context, d uri.Entry) (*Content, error) {
	entry, err := r.store.GetEntry(ctx, d.EntryID)
	if err != nil {
		if errors.Is(err, labarchives.ErrNotFound) {
			return nil, &NotFoundError{Kind: "entry", ID: d.EntryID}
		}
		return nil, &StoreUnavailableError{Err: err}
	}

	sctx := scope.Context{}
	if r.scope.Kind() != scope.Unrestricted {
		// The entry URI carries no linkage, so the parent page must be
		// resolved before the decision. Resolution failure of any kind
		// leaves the context empty and the decision falls to Deny.
		if page, err := r.findPageByID(ctx, entry.PageID); err == nil {
			sctx.ParentNotebookID = page.NotebookID
			sctx.ParentPageFolder = pageFolder(*page)
		}
		if r.scope.Kind() == scope.ByNotebookName {
			if nb, err := r.resolveNotebookByName(ctx, r.scope.NotebookName()); err == nil {
				sctx.ResolvedNotebookID = nb.ID
			}
		}
	}

	if scope.Decide(d, r.scope, sctx) != scope.Allow {
		return nil, &DeniedError{}
	}

	doc := entryDocument{
		URI:        d.URI(),
		ID:         entry.ID,
		PageID:     entry.PageID,
		Type:       entry.Type,
		Title:      entry.Title,
		Content:    entry.Content,
		Version:    entry.Version,
		Author:     entry.Author,
		CreatedAt:  entry.CreatedAt,
		ModifiedAt: entry.ModifiedAt,
	}
	return jsonContent(d.URI(), doc)
}

// NotebookPages returns the in-scope pages of one notebook, deciding the
// notebook itself first. Used by the page-listing tool surface.
func (r *Resolver) NotebookPages(ctx context.Context, notebookID string) ([]labarchives.Page, error) {
	return r.scopedNotebookPages(ctx, notebookID)
}

// InScopePages enumerates every page the configured scope admits, for
// callers (search) that need the full in-scope page set.
func (r *Resolver) InScopePages(ctx context.Context) ([]labarchives.Page, error) {
	switch r.scope.Kind() {
	case scope.ByNotebookID:
		return r.scopedNotebookPages(ctx, r.scope.NotebookID())
	case scope.ByNotebookName:
		nb, err := r.resolveNotebookByName(ctx, r.scope.NotebookName())
		if err != nil {
			return nil, err
		}
		return r.scopedNotebookPages(ctx, nb.ID)
	}

	notebooks, err := r.store.ListNotebooks(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Err: err}
	}
	var inScope []labarchives.Page
	for _, nb := range notebooks {
		pages, err := r.store.ListPages(ctx, nb.ID)
		if err != nil {
			return nil, &StoreUnavailableError{Err: err}
		}
		parent := uri.Notebook{NotebookID: nb.ID}
		for _, p := range pages {
			pctx := scope.Context{PageFolder: pageFolder(p)}
			if scope.Decide(parent.ChildPage(p.ID), r.scope, pctx) == scope.Allow {
				inScope = append(inScope, p)
			}
		}
	}
	return inScope, nil
}

// scopedNotebookPages decides the notebook, then returns its in-scope
// pages. The decision always runs before any content is assembled.
func (r *Resolver) scopedNotebookPages(ctx context.Context, notebookID string) ([]labarchives.Page, error) {
	sctx := scope.Context{}
	var pages []labarchives.Page
	fetched := false

	switch r.scope.Kind() {
	case scope.ByFolder:
		var err error
		pages, err = r.store.ListPages(ctx, notebookID)
		if err != nil {
			if errors.Is(err, labarchives.ErrNotFound) {
				return nil, &NotFoundError{Kind: "notebook", ID: notebookID}
			}
			return nil, &DeniedError{}
		}
		fetched = true
		sctx.NotebookPageFolders = knownFolders(pages)
	case scope.ByNotebookName:
		if nb, err := r.resolveNotebookByName(ctx, r.scope.NotebookName()); err == nil {
			sctx.ResolvedNotebookID = nb.ID
		}
	}

	if scope.Decide(uri.Notebook{NotebookID: notebookID}, r.scope, sctx) != scope.Allow {
		return nil, &DeniedError{}
	}

	if !fetched {
		var err error
		pages, err = r.store.ListPages(ctx, notebookID)
		if err != nil {
			if errors.Is(err, labarchives.ErrNotFound) {
				return nil, &NotFoundError{Kind: "notebook", ID: notebookID}
			}
			return nil, &StoreUnavailableError{Err: err}
		}
	}

	parent := uri.Notebook{NotebookID: notebookID}
	inScope := make([]labarchives.Page, 0, len(pages))
	for _, p := range pages {
		pctx := sctx
		pctx.PageFolder = pageFolder(p)
		if scope.Decide(parent.ChildPage(p.ID), r.scope, pctx) == scope.Allow {
			inScope = append(inScope, p)
		}
	}
	return inScope, nil
}

// resolveNotebookByName resolves a notebook-name scope to a notebook by
// exact, case-sensitive name match. Zero matches is NotFoundError; more
// than one is AmbiguousNameError, never a silent first-match pick.
func (r *Resolver) resolveNotebookByName(ctx context.Context, name string) (*labarchives.Notebook, error) {
	notebooks, err := r.store.ListNotebooks(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Err: err}
	}
	var matches []labarchives.Notebook
	for _, nb := range notebooks {
		if nb.Name == name {
			matches = append(matches, nb)
		}
	}
	switch len(matches) {
	case 0:
		return nil, &NotFoundError{Kind: "notebook named", ID: name}
	case 1:
		return &matches[0], nil
	}
	r.log.Warn().Str("name", name).Int("matches", len(matches)).Msg("ambiguous notebook name scope")
	return nil, &AmbiguousNameError{Name: name, Matches: len(matches)}
}

func (r *Resolver) findNotebook(ctx context.Context, notebookID string) (*labarchives.Notebook, error) {
	notebooks, err := r.store.ListNotebooks(ctx)
	if err != nil {
		return nil, &StoreUnavailableError{Err: err}
	}
	for i := range notebooks {
		if notebooks[i].ID == notebookID {
			return &notebooks[i], nil
		}
	}
	return nil, &NotFoundError{Kind: "notebook", ID: notebookID}
}

// findPageByID locates a page knowing only its id, by walking the
// notebook list. The store has no direct page lookup.
func (r *Resolver) findPageByID(ctx context.Context, pageID string) (*labarchives.Page, error) {
	notebooks, err := r.store.ListNotebooks(ctx)
	if err != nil {
		return nil, err
	}
	for _, nb := range notebooks {
		pages, err := r.store.ListPages(ctx, nb.ID)
		if err != nil {
			return nil, err
		}
		if p := findPage(pages, pageID); p != nil {
			return p, nil
		}
	}
	return nil, labarchives.ErrNotFound
}

func findPage(pages []labarchives.Page, pageID string) *labarchives.Page {
	for i := range pages {
		if pages[i].ID == pageID {
			return &pages[i]
		}
	}
	return nil
}

// pageFolder parses a page's folder field. Pages without a folder, and
// pages whose folder string does not normalize, yield nil: an
// unprovable folder never places a page in scope.
func pageFolder(p labarchives.Page) *scope.Path {
	if p.FolderPath == nil {
		return nil
	}
	parsed, err := scope.ParsePath(*p.FolderPath)
	if err != nil {
		return nil
	}
	return &parsed
}

func knownFolders(pages []labarchives.Page) []scope.Path {
	var folders []scope.Path
	for _, p := range pages {
		if f := pageFolder(p); f != nil {
			folders = append(folders, *f)
		}
	}
	return folders
}

func notebookResource(nb labarchives.Notebook) Resource {
	return Resource{
		URI:         uri.Notebook{NotebookID: nb.ID}.URI(),
		Name:        nb.Name,
		Description: fmt.Sprintf("Notebook owned by %s", nb.Owner),
		Metadata: map[string]any{
			"pageCount":   nb.PageCount,
			"folderCount": nb.FolderCount,
			"owner":       nb.Owner,
			"createdAt":   nb.CreatedAt,
			"modifiedAt":  nb.ModifiedAt,
		},
	}
}

func pageResource(parent uri.Notebook, p labarchives.Page) Resource {
	meta := map[string]any{
		"notebookId": p.NotebookID,
		"entryCount": p.EntryCount,
		"author":     p.Author,
		"createdAt":  p.CreatedAt,
		"modifiedAt": p.ModifiedAt,
	}
	if p.FolderPath != nil {
		meta["folderPath"] = *p.FolderPath
	}
	return Resource{
		URI:         parent.ChildPage(p.ID).URI(),
		Name:        p.Title,
		Description: fmt.Sprintf("Page in notebook %s", p.NotebookID),
		Metadata:    meta,
	}
}

type notebookDocument struct {
	URI         string        `json:"uri"`
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Owner       string        `json:"owner"`
	PageCount   int           `json:"pageCount"`
	FolderCount int           `json:"folderCount"`
	CreatedAt   time.Time     `json:"createdAt"`
	ModifiedAt  time.Time     `json:"modifiedAt"`
	Pages       []pageSummary `json:"pages"`
}

type pageSummary struct {
	URI        string `json:"uri"`
	ID         string `json:"id"`
	Title      string `json:"title"`
	FolderPath string `json:"folderPath,omitempty"`
	EntryCount int    `json:"entryCount"`
}

type pageDocument struct {
	URI        string         `json:"uri"`
	ID         string         `json:"id"`
	NotebookID string         `json:"notebookId"`
	Title      string         `json:"title"`
	FolderPath string         `json:"folderPath,omitempty"`
	EntryCount int            `json:"entryCount"`
	Author     string         `json:"author"`
	CreatedAt  time.Time      `json:"createdAt"`
	ModifiedAt time.Time      `json:"modifiedAt"`
	Entries    []entrySummary `json:"entries"`
}

type entrySummary struct {
	URI     string `json:"uri"`
	ID      string `json:"id"`
	Type    string `json:"type"`
	Title   string `json:"title"`
	Version int    `json:"version"`
}

type entryDocument struct {
	URI        string    `json:"uri"`
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

func pageSummaryOf(parent uri.Notebook, p labarchives.Page) pageSummary {
	s := pageSummary{
		URI:        parent.ChildPage(p.ID).URI(),
		ID:         p.ID,
		Title:      p.Title,
		EntryCount: p.EntryCount,
	}
	if p.FolderPath != nil {
		s.FolderPath = *p.FolderPath
	}
	return s
}

func jsonContent(resourceURI string, doc any) (*Content, error) {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding resource content: %w", err)
	}
	return &Content{URI: resourceURI, MIMEType: "application/json", Text: string(data)}, nil
}
