// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/docname/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Docname MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, model contract.VisionModel, raster contract.Rasterizer, mgr contract.CacheManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Docname Rename Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		model:   model,
		raster:  raster,
		mgr:     mgr,
	}

	// --- 1. Tool: plan_rename ---
	s.AddTool(mcp.NewTool("plan_rename",
		mcp.WithDescription("Analyze a document and return its proposed filename without renaming anything."),
		mcp.WithString("path", mcp.Description("Path to the document file or directory to analyze."), mcp.Required()),
		mcp.WithBoolean("receipt", mcp.Description("Use the receipt prompt and date_store_description filename format.")),
		mcp.WithBoolean("no_image", mcp.Description("Skip page rendering and send a text-only prompt.")),
	), h.handlePlanRename)

	// --- 2. Tool: cache_status ---
	s.AddTool(mcp.NewTool("cache_status",
		mcp.WithDescription("Report analysis cache and rename journal status for the configured backend."),
	), h.handleCacheStatus)

	// --- 3. Tool: list_renames ---
	s.AddTool(mcp.NewTool("list_renames",
		mcp.WithDescription("List applied renames from the journal, oldest first."),
		mcp.WithNumber("limit", mcp.Description("Return only the most recent N renames.")),
	), h.handleListRenames)

	return s
}

// StartMCPServer starts the Docname MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, model contract.VisionModel, raster contract.Rasterizer, mgr contract.CacheManager) error {
	s := NewMCPServer(baseCfg, model, raster, mgr)
	return server.ServeStdio(s)
}
