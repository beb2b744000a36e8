package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/docname/core"
	"github.com/huangsam/docname/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	model   contract.VisionModel
	raster  contract.Rasterizer
	mgr     contract.CacheManager
}

func (h *toolHandler) handlePlanRename(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := request.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}

	cfg := h.baseCfg.Clone()
	cfg.InputPaths = []string{path}
	cfg.Execute = false
	cfg.Verbose = false
	cfg.Workers = 1
	cfg.Receipt = request.GetBool("receipt", cfg.Receipt)
	cfg.NoImage = request.GetBool("no_image", cfg.NoImage)

	result, err := core.Run(ctx, cfg, h.model, h.raster, h.mgr)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("planning failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(result.Records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCacheStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cacheStatus, err := h.mgr.GetAnalysisCache().GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cache status failed: %v", err)), nil
	}
	journalStatus, err := h.mgr.GetRenameJournal().GetStatus(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("journal status failed: %v", err)), nil
	}

	combined := struct {
		Cache   any `json:"cache"`
		Journal any `json:"journal"`
	}{cacheStatus, journalStatus}

	jsonData, _ := json.MarshalIndent(combined, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleListRenames(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.mgr.GetRenameJournal().List(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("journal listing failed: %v", err)), nil
	}

	if limit := request.GetInt("limit", 0); limit > 0 && limit < len(records) {
		records = records[len(records)-limit:]
	}

	jsonData, _ := json.MarshalIndent(records, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
