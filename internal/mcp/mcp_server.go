// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/lootlens/lootlens/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// viewOptions are the arguments shared by every tool that reads drop logs.
func viewOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("user", mcp.Description("User whose log to read. Defaults to 'all', which merges every log.")),
		mcp.WithString("range", mcp.Description("Time window ending now (5m, 15m, 1h, 6h, 12h, 1d, all or a Go duration). Defaults to 'all'.")),
	}
}

// NewMCPServer initializes and configures the lootlens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, mgr contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"Lootlens Drop Log Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		mgr:     mgr,
		source:  contract.NewLocalLogSource(),
	}

	// --- 1. Tool: get_overview ---
	s.AddTool(mcp.NewTool("get_overview",
		append([]mcp.ToolOption{
			mcp.WithDescription("Summarize drops: entry count, unique items, total value, gold value, value per hour and runtime."),
		}, viewOptions()...)...,
	), h.handleGetOverview)

	// --- 2. Tool: get_top_items ---
	s.AddTool(mcp.NewTool("get_top_items",
		append([]mcp.ToolOption{
			mcp.WithDescription("Rank dropped items by rarity tier, then by total value."),
			mcp.WithNumber("limit", mcp.Description("Limit the number of items returned.")),
		}, viewOptions()...)...,
	), h.handleGetTopItems)

	// --- 3. Tool: get_income_series ---
	s.AddTool(mcp.NewTool("get_income_series",
		append([]mcp.ToolOption{
			mcp.WithDescription("Bucket drop value over time, with the value range, record count and rare drop of each bucket."),
			mcp.WithNumber("interval", mcp.Description("Bucket width in seconds. Defaults to 300.")),
		}, viewOptions()...)...,
	), h.handleGetIncomeSeries)

	// --- 4. Tool: get_heatmap ---
	s.AddTool(mcp.NewTool("get_heatmap",
		append([]mcp.ToolOption{
			mcp.WithDescription("Count drops per weekday and hour of day."),
		}, viewOptions()...)...,
	), h.handleGetHeatmap)

	// --- 5. Tool: get_runtime ---
	s.AddTool(mcp.NewTool("get_runtime",
		append([]mcp.ToolOption{
			mcp.WithDescription("Estimate active play time from gaps between drops."),
		}, viewOptions()...)...,
	), h.handleGetRuntime)

	// --- 6. Tool: list_users ---
	s.AddTool(mcp.NewTool("list_users",
		mcp.WithDescription("List the users that have a drop log."),
	), h.handleListUsers)

	return s
}

// StartMCPServer starts the lootlens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, mgr contract.StoreManager) error {
	s := NewMCPServer(baseCfg, mgr)
	return server.ServeStdio(s)
}
