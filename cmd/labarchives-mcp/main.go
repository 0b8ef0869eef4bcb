// Package main implements the MCP server for LabArchives notebooks.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/fang"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/elnbridge/labarchives-mcp/internal/config"
	"github.com/elnbridge/labarchives-mcp/internal/labarchives"
	"github.com/elnbridge/labarchives-mcp/internal/resolver"
	"github.com/elnbridge/labarchives-mcp/internal/search"
)

var (
	resolverService *resolver.Resolver
	searchService   *search.Service

	flagConfig       string
	flagNotebookID   string
	flagNotebookName string
	flagFolder       string
)

func main() {
	cmd := &cobra.Command{
		Use:   "labarchives-mcp",
		Short: "MCP bridge for LabArchives notebooks",
		Long: `labarchives-mcp is a Model Context Protocol (MCP) server that exposes
LabArchives notebooks, pages, and entries as read-only resources. The
server can be restricted to a single notebook (by id or name) or to a
single folder subtree; every listing and read honors that boundary.`,
		Example: `labarchives-mcp --folder "Projects/AI"`,
		Args:    cobra.NoArgs,
		RunE:    runServer,
	}

	cmd.Flags().StringVarP(&flagConfig, "config", "c", "", "path to YAML config file")
	cmd.Flags().StringVar(&flagNotebookID, "notebook-id", "", "restrict to one notebook by id")
	cmd.Flags().StringVar(&flagNotebookName, "notebook-name", "", "restrict to one notebook by exact name")
	cmd.Flags().StringVar(&flagFolder, "folder", "", "restrict to one folder subtree")

	if err := fang.Execute(
		context.Background(),
		cmd,
		fang.WithVersion(version),
		fang.WithoutCompletions(),
		fang.WithoutManpage(),
	); err != nil {
		os.Exit(1)
	}
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return err
	}

	// Flag overrides replace the file/env scope wholesale so the
	// at-most-one invariant still holds.
	if flagNotebookID != "" || flagNotebookName != "" || flagFolder != "" {
		cfg.Scope = config.ScopeConfig{
			NotebookID:   flagNotebookID,
			NotebookName: flagNotebookName,
			Folder:       flagFolder,
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	// stdout belongs to the MCP stdio transport; all logging goes to
	// stderr.
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil && cfg.LogLevel != "" {
		log = log.Level(level)
	}

	store, err := labarchives.NewClient(labarchives.ClientConfig{
		BaseURL:     cfg.API.BaseURL,
		AccessKeyID: cfg.API.AccessKeyID,
		AccessToken: cfg.API.AccessToken,
		Timeout:     cfg.Timeout(),
		Logger:      log,
	})
	if err != nil {
		return err
	}

	scopeCfg, err := cfg.ScopeValue()
	if err != nil {
		return err
	}
	log.Info().Stringer("scope", scopeCfg).Msg("starting server")

	resolverService = resolver.New(store, scopeCfg, log)
	searchService = search.New(store, resolverService, log)

	server := mcp.NewServer(&mcp.Implementation{
		Name:    "labarchives-mcp",
		Version: version,
	}, nil)

	registerTools(server)
	registerResources(server)

	if err := server.Run(cmd.Context(), &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("error running server: %w", err)
	}

	return nil
}
