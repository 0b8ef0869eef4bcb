package main

import "github.com/modelcontextprotocol/go-sdk/mcp"

type (
	// ListResourcesInput contains parameters for listing in-scope resources.
	ListResourcesInput struct{}

	// ResourceInfo describes one listed resource.
	ResourceInfo struct {
		URI         string         `json:"uri"`
		Name        string         `json:"name"`
		Description string         `json:"description,omitempty"`
		Metadata    map[string]any `json:"metadata,omitempty"`
	}

	// ListResourcesOutput contains the in-scope resource list.
	ListResourcesOutput struct {
		Resources []ResourceInfo `json:"resources"`
		Total     int            `json:"total"`
	}

	// ReadResourceInput contains parameters for reading one resource.
	ReadResourceInput struct {
		URI string `json:"uri" jsonschema:"Resource URI (labarchives://notebook/{id}, labarchives://notebook/{id}/page/{id}, or labarchives://entry/{id})"`
	}

	// ReadResourceOutput contains one resource's content.
	ReadResourceOutput struct {
		URI      string `json:"uri"`
		MIMEType string `json:"mimeType"`
		Content  string `json:"content"`
	}

	// ListPagesInput contains parameters for listing a notebook's pages.
	ListPagesInput struct {
		NotebookID string `json:"notebookId" jsonschema:"Id of the notebook whose pages to list"`
	}

	// PageInfo describes one page.
	PageInfo struct {
		URI        string `json:"uri"`
		ID         string `json:"id"`
		Title      string `json:"title"`
		FolderPath string `json:"folderPath,omitempty"`
		EntryCount int    `json:"entryCount"`
		Author     string `json:"author,omitempty"`
	}

	// ListPagesOutput contains the in-scope pages of one notebook.
	ListPagesOutput struct {
		NotebookID string     `json:"notebookId"`
		Pages      []PageInfo `json:"pages"`
	}

	// ReadPageInput contains parameters for reading one page by its ids.
	ReadPageInput struct {
		NotebookID string `json:"notebookId" jsonschema:"Id of the notebook containing the page"`
		PageID     string `json:"pageId" jsonschema:"Id of the page to read"`
	}

	// SearchInput contains parameters for searching entry content.
	SearchInput struct {
		Query         string `json:"query" jsonschema:"Search query (plain text or regex if useRegex=true)"`
		UseRegex      bool   `json:"useRegex,omitempty" jsonschema:"Treat query as regex pattern (default: false)"`
		CaseSensitive bool   `json:"caseSensitive,omitempty" jsonschema:"Case sensitive search (default: false)"`
		ContextLines  int    `json:"contextLines,omitempty" jsonschema:"Lines of context before/after match (default: 2)"`
		Limit         int    `json:"limit,omitempty" jsonschema:"Maximum results (default: 15)"`
	}

	// SearchMatch represents a single match within an entry.
	SearchMatch struct {
		Line    int    `json:"line"`
		Context string `json:"context"`
	}

	// SearchResultItem represents search results for a single entry.
	SearchResultItem struct {
		EntryURI string        `json:"entryUri"`
		PageURI  string        `json:"pageUri"`
		Title    string        `json:"title,omitempty"`
		Matches  []SearchMatch `json:"matches"`
	}

	// SearchOutput contains search results.
	SearchOutput struct {
		Results []SearchResultItem `json:"results"`
		Total   int                `json:"total"`
	}
)

func registerTools(server *mcp.Server) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_resources",
		Description: "List the notebooks or pages inside the configured scope. Unrestricted scope lists notebooks; notebook and folder scopes list the in-scope pages.",
	}, handleListResources)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_resource",
		Description: "Read one resource by URI. Returns notebook or page metadata with immediate children, or full entry content. Out-of-scope resources are denied.",
	}, handleReadResource)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "list_pages",
		Description: "List the in-scope pages of one notebook by notebook id.",
	}, handleListPages)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "read_page",
		Description: "Read one page by notebook id and page id. Returns page metadata and its entries. Out-of-scope pages are denied.",
	}, handleReadPage)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "search",
		Description: "Full-text search over entry content of in-scope pages. Supports regex and case-insensitive search. Returns matching lines with context.",
	}, handleSearch)
}

func registerResources(server *mcp.Server) {
	templates := []*mcp.ResourceTemplate{
		{
			Name:        "notebook",
			URITemplate: "labarchives://notebook/{notebook_id}",
			Description: "A LabArchives notebook with its in-scope pages",
			MIMEType:    "application/json",
		},
		{
			Name:        "page",
			URITemplate: "labarchives://notebook/{notebook_id}/page/{page_id}",
			Description: "A notebook page with its entries",
			MIMEType:    "application/json",
		},
		{
			Name:        "entry",
			URITemplate: "labarchives://entry/{entry_id}",
			Description: "A single entry with full content",
			MIMEType:    "application/json",
		},
	}
	for _, t := range templates {
		server.AddResourceTemplate(t, handleResourceRead)
	}
}
