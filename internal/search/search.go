// Package search provides scoped full-text search over entry content.
// Pages are enumerated through the resolver, so anything outside the
// configured scope is unreachable by construction.
package search

import (
	"context"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/elnbridge/labarchives-mcp/internal/labarchives"
	"github.com/elnbridge/labarchives-mcp/internal/resolver"
	"github.com/elnbridge/labarchives-mcp/internal/uri"
)

// Service searches entry content within the configured scope.
type Service struct {
	store    labarchives.Store
	resolver *resolver.Resolver
	log      zerolog.Logger
}

// New creates a search Service. The resolver supplies the in-scope page
// set; the store supplies entry content for those pages only.
func New(store labarchives.Store, res *resolver.Resolver, log zerolog.Logger) *Service {
	return &Service{store: store, resolver: res, log: log}
}

// Params configures one search.
type Params struct {
	Query         string
	UseRegex      bool
	CaseSensitive bool
	ContextLines  int
	Limit         int
}

// Match is one matching line with surrounding context.
type Match struct {
	Line    int
	Context string
}

// Result groups the matches of one entry.
type Result struct {
	EntryURI string
	PageURI  string
	Title    string
	Matches  []Match
}

// SearchError reports invalid search input.
type SearchError struct {
	Message string
}

func (e *SearchError) Error() string {
	return e.Message
}

// Search runs the query over every entry of every in-scope page.
// Results are ordered by entry URI for stable output.
func (s *Service) Search(ctx context.Context, params Params) ([]Result, error) {
	query := strings.TrimSpace(params.Query)
	if query == "" {
		return nil, &SearchError{Message: "search query cannot be empty"}
	}

	contextLines := params.ContextLines
	if contextLines <= 0 {
		contextLines = 2
	}
	limit := params.Limit
	if limit <= 0 {
		limit = 15
	}

	pattern, err := compilePattern(query, params.UseRegex, params.CaseSensitive)
	if err != nil {
		return nil, err
	}

	pages, err := s.resolver.InScopePages(ctx)
	if err != nil {
		return nil, err
	}

	numWorkers := max(min(runtime.NumCPU(), len(pages)), 1)

	resultsCh := make(chan Result, len(pages)*4)
	pageCh := make(chan labarchives.Page, len(pages))

	var wg sync.WaitGroup
	for range numWorkers {
		wg.Go(func() {
			for page := range pageCh {
				entries, err := s.store.ListEntries(ctx, page.ID)
				if err != nil {
					s.log.Warn().Err(err).Str("pageId", page.ID).Msg("skipping page: entries unavailable")
					continue
				}
				pageURI := uri.Page{NotebookID: page.NotebookID, PageID: page.ID}.URI()
				for _, entry := range entries {
					matches := matchLines(entry.Content, pattern, contextLines)
					if len(matches) == 0 {
						continue
					}
					resultsCh <- Result{
						EntryURI: uri.Entry{EntryID: entry.ID}.URI(),
						PageURI:  pageURI,
						Title:    entry.Title,
						Matches:  matches,
					}
				}
			}
		})
	}

	for _, page := range pages {
		pageCh <- page
	}
	close(pageCh)

	go func() {
		wg.Wait()
		close(resultsCh)
	}()

	var results []Result
	for r := range resultsCh {
		results = append(results, r)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].EntryURI < results[j].EntryURI
	})

	if len(results) > limit {
		results = results[:limit]
	}
	return results, nil
}

func compilePattern(query string, useRegex, caseSensitive bool) (*regexp.Regexp, error) {
	expr := query
	if !useRegex {
		expr = regexp.QuoteMeta(query)
	}
	if !caseSensitive {
		expr = "(?i)" + expr
	}
	pattern, err := regexp.Compile(expr)
	if err != nil {
		return nil, &SearchError{Message: "invalid regex pattern: " + err.Error()}
	}
	return pattern, nil
}

func matchLines(content string, pattern *regexp.Regexp, contextLines int) []Match {
	lines := strings.Split(content, "\n")

	var matches []Match
	for lineNum, line := range lines {
		if !pattern.MatchString(line) {
			continue
		}
		startLine := max(lineNum-contextLines, 0)
		endLine := min(lineNum+contextLines+1, len(lines))
		matches = append(matches, Match{
			Line:    lineNum + 1,
			Context: strings.Join(lines[startLine:endLine], "\n"),
		})
	}
	return matches
}
