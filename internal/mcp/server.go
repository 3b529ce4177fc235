// Package mcp provides a Model Context Protocol server for gitinfo.
// It exposes repository metadata and source generation as MCP tools that
// any MCP-capable agent can use.
package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/gorewood/gitinfo/internal/emit"
	"github.com/gorewood/gitinfo/internal/metadata"
)

// NewServer creates an MCP server with all gitinfo tools registered.
// lang is used by the generate tool when a call names no language.
func NewServer(version string, repo metadata.Repository, lang emit.Language) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "gitinfo",
		Version: version,
	}, nil)
	registerTools(server, repo, lang)
	return server
}

// boolPtr returns a pointer to a bool value.
func boolPtr(b bool) *bool {
	return &b
}

// readOnlyAnnotations returns annotations for read-only tools.
func readOnlyAnnotations() *mcp.ToolAnnotations {
	return &mcp.ToolAnnotations{
		ReadOnlyHint:   true,
		IdempotentHint: true,
		OpenWorldHint:  boolPtr(false),
	}
}

// registerTools adds all gitinfo tools to the server.
func registerTools(server *mcp.Server, repo metadata.Repository, lang emit.Language) {
	mcp.AddTool(server, &mcp.Tool{
		Name:        "metadata",
		Description: "Report whether git can describe the working directory, and if so its branch, full commit hash and the tags containing that commit.",
		Annotations: readOnlyAnnotations(),
	}, handleMetadata(repo))

	mcp.AddTool(server, &mcp.Tool{
		Name:        "generate",
		Description: "Render the generated source file (BranchName, Hash, Tags) for a type without writing it. Returns the artifact name, the source and any GITINFO01 warning.",
		Annotations: readOnlyAnnotations(),
	}, handleGenerate(repo, lang))
}
