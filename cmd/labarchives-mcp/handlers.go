package main

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/elnbridge/labarchives-mcp/internal/search"
	"github.com/elnbridge/labarchives-mcp/internal/uri"
)

func pageURI(notebookID, pageID string) string {
	return uri.Page{NotebookID: notebookID, PageID: pageID}.URI()
}

func handleListResources(ctx context.Context, req *mcp.CallToolRequest, input ListResourcesInput) (*mcp.CallToolResult, ListResourcesOutput, error) {
	resources, err := resolverService.ListResources(ctx)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ListResourcesOutput{}, err
	}

	infos := make([]ResourceInfo, 0, len(resources))
	for _, r := range resources {
		infos = append(infos, ResourceInfo{
			URI:         r.URI,
			Name:        r.Name,
			Description: r.Description,
			Metadata:    r.Metadata,
		})
	}

	return nil, ListResourcesOutput{Resources: infos, Total: len(infos)}, nil
}

func handleReadResource(ctx context.Context, req *mcp.CallToolRequest, input ReadResourceInput) (*mcp.CallToolResult, ReadResourceOutput, error) {
	rawURI := strings.TrimSpace(input.URI)

	content, err := resolverService.ReadResource(ctx, rawURI)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ReadResourceOutput{}, err
	}

	return nil, ReadResourceOutput{
		URI:      content.URI,
		MIMEType: content.MIMEType,
		Content:  content.Text,
	}, nil
}

func handleListPages(ctx context.Context, req *mcp.CallToolRequest, input ListPagesInput) (*mcp.CallToolResult, ListPagesOutput, error) {
	notebookID := strings.TrimSpace(input.NotebookID)

	pages, err := resolverService.NotebookPages(ctx, notebookID)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ListPagesOutput{}, err
	}

	out := ListPagesOutput{NotebookID: notebookID, Pages: make([]PageInfo, 0, len(pages))}
	for _, p := range pages {
		info := PageInfo{
			ID:         p.ID,
			Title:      p.Title,
			EntryCount: p.EntryCount,
			Author:     p.Author,
		}
		if p.FolderPath != nil {
			info.FolderPath = *p.FolderPath
		}
		info.URI = pageURI(notebookID, p.ID)
		out.Pages = append(out.Pages, info)
	}

	return nil, out, nil
}

func handleReadPage(ctx context.Context, req *mcp.CallToolRequest, input ReadPageInput) (*mcp.CallToolResult, ReadResourceOutput, error) {
	rawURI := pageURI(strings.TrimSpace(input.NotebookID), strings.TrimSpace(input.PageID))

	content, err := resolverService.ReadResource(ctx, rawURI)
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, ReadResourceOutput{}, err
	}

	return nil, ReadResourceOutput{
		URI:      content.URI,
		MIMEType: content.MIMEType,
		Content:  content.Text,
	}, nil
}

func handleSearch(ctx context.Context, req *mcp.CallToolRequest, input SearchInput) (*mcp.CallToolResult, SearchOutput, error) {
	results, err := searchService.Search(ctx, search.Params{
		Query:         input.Query,
		UseRegex:      input.UseRegex,
		CaseSensitive: input.CaseSensitive,
		ContextLines:  input.ContextLines,
		Limit:         input.Limit,
	})
	if err != nil {
		return &mcp.CallToolResult{IsError: true}, SearchOutput{}, err
	}

	items := make([]SearchResultItem, 0, len(results))
	for _, r := range results {
		matches := make([]SearchMatch, 0, len(r.Matches))
		for _, m := range r.Matches {
			matches = append(matches, SearchMatch{Line: m.Line, Context: m.Context})
		}
		items = append(items, SearchResultItem{
			EntryURI: r.EntryURI,
			PageURI:  r.PageURI,
			Title:    r.Title,
			Matches:  matches,
		})
	}

	return nil, SearchOutput{Results: items, Total: len(items)}, nil
}

func handleResourceRead(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	content, err := resolverService.ReadResource(ctx, req.Params.URI)
	if err != nil {
		return nil, err
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{
				URI:      content.URI,
				MIMEType: content.MIMEType,
				Text:     content.Text,
			},
		},
	}, nil
}
