package search

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/elnbridge/labarchives-mcp/internal/labarchives"
	"github.com/elnbridge/labarchives-mcp/internal/resolver"
	"github.com/elnbridge/labarchives-mcp/internal/scope"
)

type fakeStore struct {
	notebooks []labarchives.Notebook
	pages     map[string][]labarchives.Page
	entries   map[string][]labarchives.Entry
}

func (f *fakeStore) ListNotebooks(ctx context.Context) ([]labarchives.Notebook, error) {
	return f.notebooks, nil
}

func (f *fakeStore) ListPages(ctx context.Context, notebookID string) ([]labarchives.Page, error) {
	pages, ok := f.pages[notebookID]
	if !ok {
		return nil, labarchives.ErrNotFound
	}
	return pages, nil
}

func (f *fakeStore) ListEntries(ctx context.Context, pageID string) ([]labarchives.Entry, error) {
	entries, ok := f.entries[pageID]
	if !ok {
		return nil, labarchives.ErrNotFound
	}
	return entries, nil
}

func (f *fakeStore) GetEntry(ctx context.Context, entryID string) (*labarchives.Entry, error) {
	for _, entries := range f.entries {
		for i := range entries {
			if entries[i].ID == entryID {
				return &entries[i], nil
			}
		}
	}
	return nil, labarchives.ErrNotFound
}

func strPtr(s string) *string { return &s }

func newService(cfg scope.Config) *Service {
	store := &fakeStore{
		notebooks: []labarchives.Notebook{{ID: "nb1", Name: "AI Lab"}},
		pages: map[string][]labarchives.Page{
			"nb1": {
				{ID: "p1", NotebookID: "nb1", Title: "Models", FolderPath: strPtr("Projects/AI/Models")},
				{ID: "p2", NotebookID: "nb1", Title: "Physics", FolderPath: strPtr("Research/Physics")},
			},
		},
		entries: map[string][]labarchives.Entry{
			"p1": {
				{ID: "e1", PageID: "p1", Title: "Run 42", Content: "the CRISPR assay worked\nsecond line\nthird line"},
				{ID: "e2", PageID: "p1", Title: "Run 43", Content: "nothing notable"},
			},
			"p2": {
				{ID: "e3", PageID: "p2", Title: "Pendulum", Content: "CRISPR mentioned out of scope"},
			},
		},
	}
	res := resolver.New(store, cfg, zerolog.Nop())
	return New(store, res, zerolog.Nop())
}

func TestSearch_EmptyQuery(t *testing.T) {
	svc := newService(scope.UnrestrictedScope())

	_, err := svc.Search(context.Background(), Params{Query: "   "})
	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
}

func TestSearch_InvalidRegex(t *testing.T) {
	svc := newService(scope.UnrestrictedScope())

	_, err := svc.Search(context.Background(), Params{Query: "[unclosed", UseRegex: true})
	var searchErr *SearchError
	require.ErrorAs(t, err, &searchErr)
}

func TestSearch_FindsMatchesWithContext(t *testing.T) {
	svc := newService(scope.UnrestrictedScope())

	results, err := svc.Search(context.Background(), Params{Query: "crispr"})
	require.NoError(t, err)
	require.Len(t, results, 2, "case-insensitive by default")

	assert.Equal(t, "labarchives://entry/e1", results[0].EntryURI)
	assert.Equal(t, "labarchives://notebook/nb1/page/p1", results[0].PageURI)
	require.Len(t, results[0].Matches, 1)
	assert.Equal(t, 1, results[0].Matches[0].Line)
	assert.Contains(t, results[0].Matches[0].Context, "second line")
}

func TestSearch_CaseSensitive(t *testing.T) {
	svc := newService(scope.UnrestrictedScope())

	results, err := svc.Search(context.Background(), Params{Query: "crispr", CaseSensitive: true})
	require.NoError(t, err)
	assert.Empty(t, results)

	results, err = svc.Search(context.Background(), Params{Query: "CRISPR", CaseSensitive: true})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestSearch_Regex(t *testing.T) {
	svc := newService(scope.UnrestrictedScope())

	results, err := svc.Search(context.Background(), Params{Query: `Run \d+`, UseRegex: false})
	require.NoError(t, err)
	assert.Empty(t, results, "literal search must not interpret the pattern")

	results, err = svc.Search(context.Background(), Params{Query: `assay\s+worked`, UseRegex: true})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "labarchives://entry/e1", results[0].EntryURI)
}

func TestSearch_HonorsFolderScope(t *testing.T) {
	svc := newService(scope.FolderScope(scope.MustParsePath("Projects/AI")))

	results, err := svc.Search(context.Background(), Params{Query: "CRISPR"})
	require.NoError(t, err)
	require.Len(t, results, 1, "out-of-scope pages must be unsearchable")
	assert.Equal(t, "labarchives://entry/e1", results[0].EntryURI)
}

func TestSearch_Limit(t *testing.T) {
	svc := newService(scope.UnrestrictedScope())

	results, err := svc.Search(context.Background(), Params{Query: "CRISPR", Limit: 1})
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_PropagatesResolverErrors(t *testing.T) {
	svc := newService(scope.NotebookIDScope("ghost"))

	_, err := svc.Search(context.Background(), Params{Query: "CRISPR"})
	require.Error(t, err)
	var notFound *resolver.NotFoundError
	assert.True(t, errors.As(err, &notFound), "want NotFoundError, got %v", err)
}
