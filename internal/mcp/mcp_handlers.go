package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/lootlens/lootlens/core"
	"github.com/lootlens/lootlens/core/agg"
	"github.com/lootlens/lootlens/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	mgr     contract.StoreManager
	source  contract.LogSource
}

// viewConfig scopes the base config to the user and range arguments.
func (h *toolHandler) viewConfig(request mcp.CallToolRequest) (*contract.Config, error) {
	user := request.GetString("user", "")
	if user != "" {
		if err := contract.ValidateUserName(user); err != nil {
			return nil, err
		}
	}
	return h.baseCfg.CloneWithView(user, request.GetString("range", ""))
}

// loadRecords runs the pipeline for the tool arguments.
func (h *toolHandler) loadRecords(ctx context.Context, cfg *contract.Config) (*core.LoadResult, error) {
	return core.LoadRecords(core.WithSuppressHeader(ctx), cfg, h.mgr, h.source)
}

func jsonResult(v any) *mcp.CallToolResult {
	jsonData, _ := json.MarshalIndent(v, "", "  ")
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleGetOverview(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.viewConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := h.loadRecords(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("overview failed: %v", err)), nil
	}

	return jsonResult(agg.Overview(result.Records, result.Now)), nil
}

func (h *toolHandler) handleGetTopItems(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.viewConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if l := request.GetInt("limit", 0); l > 0 {
		cfg.ResultLimit = min(l, contract.MaxResultLimit)
	}

	result, err := h.loadRecords(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("item ranking failed: %v", err)), nil
	}

	items := agg.SortTopItems(agg.RollupItems(result.Records))
	if cfg.ResultLimit > 0 && len(items) > cfg.ResultLimit {
		items = items[:cfg.ResultLimit]
	}
	return jsonResult(items), nil
}

func (h *toolHandler) handleGetIncomeSeries(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.viewConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}
	if _, ok := request.GetArguments()["interval"]; ok {
		interval := request.GetInt("interval", 0)
		if interval <= 0 {
			return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: interval must be greater than 0 seconds (received %d)", interval)), nil
		}
		cfg.Interval = int64(interval)
	}

	result, err := h.loadRecords(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("income series failed: %v", err)), nil
	}

	return jsonResult(agg.IncomeSeries(result.Records, cfg.Interval)), nil
}

func (h *toolHandler) handleGetHeatmap(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.viewConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := h.loadRecords(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("heatmap failed: %v", err)), nil
	}

	return jsonResult(agg.HeatmapSeries(agg.ActivityHeatmap(result.Records, cfg.Location))), nil
}

func (h *toolHandler) handleGetRuntime(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := h.viewConfig(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid parameters: %v", err)), nil
	}

	result, err := h.loadRecords(ctx, cfg)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("runtime failed: %v", err)), nil
	}

	return jsonResult(agg.Runtime(result.Records)), nil
}

func (h *toolHandler) handleListUsers(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir, err := core.ResolveLogDir(ctx, h.baseCfg, h.mgr.GetItemStore(), h.source)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot resolve log directory: %v", err)), nil
	}
	users, err := h.source.ListUsers(ctx, dir)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("cannot list users: %v", err)), nil
	}
	return jsonResult(map[string]any{"dir": dir, "users": users}), nil
}
