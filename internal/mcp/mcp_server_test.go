package mcp_test

import (
	"context"
	"testing"
	"time"

	"github.com/huangsam/docname/internal/contract"
	"github.com/huangsam/docname/internal/iocache"
	mcp_internal "github.com/huangsam/docname/internal/mcp"
	"github.com/huangsam/docname/schema"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newMockManager(t *testing.T) (*iocache.MockCacheManager, *iocache.MockAnalysisCache, *iocache.MockRenameJournal) {
	t.Helper()
	cache := new(iocache.MockAnalysisCache)
	journal := new(iocache.MockRenameJournal)
	mgr := new(iocache.MockCacheManager)
	mgr.On("GetAnalysisCache").Return(cache).Maybe()
	mgr.On("GetRenameJournal").Return(journal).Maybe()
	return mgr, cache, journal
}

func TestMCPServerHandlers(t *testing.T) {
	baseCfg := &contract.Config{
		Workers: 1,
		Model:   "test-model",
		BaseURL: "http://localhost:8080/v1",
	}
	mgr, cache, journal := newMockManager(t)
	s := mcp_internal.NewMCPServer(baseCfg, nil, nil, mgr)

	ctx := context.Background()

	t.Run("plan_rename missing path", func(t *testing.T) {
		tool := s.GetTool("plan_rename")
		require.NotNil(t, tool, "Tool plan_rename should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "plan_rename",
				Arguments: map[string]any{"path": ""},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "path is required")
	})

	t.Run("cache_status reports both stores", func(t *testing.T) {
		cache.On("GetStatus", mock.Anything).Return(schema.CacheStatus{
			Backend:       "sqlite",
			Connected:     true,
			SchemaVersion: iocache.CurrentSchemaVersion,
			TotalEntries:  7,
		}, nil).Once()
		journal.On("GetStatus", mock.Anything).Return(schema.JournalStatus{
			Backend:      "sqlite",
			Connected:    true,
			TotalRenames: 3,
		}, nil).Once()

		tool := s.GetTool("cache_status")
		require.NotNil(t, tool, "Tool cache_status should exist")

		res, err := tool.Handler(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{Name: "cache_status"},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)

		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, `"total_entries": 7`)
		assert.Contains(t, text, `"total_renames": 3`)
	})

	t.Run("list_renames honors limit", func(t *testing.T) {
		records := []schema.JournalRecord{
			{ID: "a", NewPath: "/docs/first.pdf", AppliedAt: time.Now().Add(-2 * time.Hour)},
			{ID: "b", NewPath: "/docs/second.pdf", AppliedAt: time.Now().Add(-time.Hour)},
			{ID: "c", NewPath: "/docs/third.pdf", AppliedAt: time.Now()},
		}
		journal.On("List", mock.Anything).Return(records, nil).Once()

		tool := s.GetTool("list_renames")
		require.NotNil(t, tool, "Tool list_renames should exist")

		res, err := tool.Handler(ctx, mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name:      "list_renames",
				Arguments: map[string]any{"limit": 2.0},
			},
		})
		require.NoError(t, err)
		require.False(t, res.IsError)

		text := res.Content[0].(mcp.TextContent).Text
		assert.NotContains(t, text, "first.pdf")
		assert.Contains(t, text, "second.pdf")
		assert.Contains(t, text, "third.pdf")
	})
}
