package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	domainasset "github.com/alanyang/engn/internal/domain/asset"
	assetsvc "github.com/alanyang/engn/internal/service/asset"
	audiosvc "github.com/alanyang/engn/internal/service/audio"
	"github.com/alanyang/engn/internal/service/scheduler"
)

// RegisterTools registers all MCP tools on the server. Each tool maps onto one
// HTTP control route and returns the same JSON body.
func RegisterTools(
	s *mcpserver.MCPServer,
	sched *scheduler.Scheduler,
	lib *assetsvc.Library,
	mixer *audiosvc.Mixer,
) {
	s.AddTool(mcpmcp.NewTool("loop_status",
		mcpmcp.WithDescription("Report whether the frame loop is running and how many frames it has produced since it was last started."),
	), loopStatusHandler(sched))

	s.AddTool(mcpmcp.NewTool("loop_start",
		mcpmcp.WithDescription("Start the frame loop. Publishes init, then ticks every frame. No-op if already running."),
	), loopStartHandler(sched))

	s.AddTool(mcpmcp.NewTool("loop_stop",
		mcpmcp.WithDescription("Stop the frame loop after the current frame. No-op if idle."),
	), loopStopHandler(sched))

	s.AddTool(mcpmcp.NewTool("list_assets",
		mcpmcp.WithDescription("List the names of the loaded assets, grouped by kind (image, sound, json)."),
	), listAssetsHandler(lib))

	s.AddTool(mcpmcp.NewTool("reload_assets",
		mcpmcp.WithDescription("Re-read the asset manifest and load every asset again. On failure the previous assets stay loaded and the failing asset is named."),
	), reloadAssetsHandler(lib))

	s.AddTool(mcpmcp.NewTool("resume_audio",
		mcpmcp.WithDescription("Resume a suspended or interrupted audio context. Returns whether a resume was issued and the resulting state."),
	), resumeAudioHandler(mixer))

	s.AddTool(mcpmcp.NewTool("set_volume",
		mcpmcp.WithDescription("Set the master volume. Values outside 0..1 are clamped. Returns the applied volume."),
		mcpmcp.WithNumber("volume", mcpmcp.Required(), mcpmcp.Description("Master volume between 0 and 1")),
	), setVolumeHandler(mixer))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

type loopStatus struct {
	ID      string `json:"id"`
	Running bool   `json:"running"`
	Frames  uint64 `json:"frames"`
}

func loopResult(sched *scheduler.Scheduler) *mcpmcp.CallToolResult {
	return jsonResult(loopStatus{
		ID:      sched.ID().String(),
		Running: sched.Running(),
		Frames:  sched.Frames(),
	})
}

func loopStatusHandler(sched *scheduler.Scheduler) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		return loopResult(sched), nil
	}
}

func loopStartHandler(sched *scheduler.Scheduler) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		sched.Run()
		return loopResult(sched), nil
	}
}

func loopStopHandler(sched *scheduler.Scheduler) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		sched.Stop()
		return loopResult(sched), nil
	}
}

type assetList struct {
	Count int                           `json:"count"`
	Names map[domainasset.Kind][]string `json:"names"`
}

func listAssetsHandler(lib *assetsvc.Library) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		b := lib.Bundle()
		return jsonResult(assetList{Count: b.Len(), Names: b.Names()}), nil
	}
}

func reloadAssetsHandler(lib *assetsvc.Library) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		b, err := lib.Reload(ctx)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(assetList{Count: b.Len(), Names: b.Names()}), nil
	}
}

func resumeAudioHandler(mixer *audiosvc.Mixer) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		resumed, err := mixer.Resume(ctx)
		if err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return jsonResult(map[string]any{"resumed": resumed, "state": mixer.State()}), nil
	}
}

func setVolumeHandler(mixer *audiosvc.Mixer) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		v, ok := mcpmcp.ParseArgument(req, "volume", nil).(float64)
		if !ok {
			return mcpmcp.NewToolResultText("error: volume must be a number"), nil
		}
		return jsonResult(map[string]float64{"volume": mixer.SetVolume(v)}), nil
	}
}

func jsonResult(v any) *mcpmcp.CallToolResult {
	data, err := json.Marshal(v)
	if err != nil {
		return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err))
	}
	return mcpmcp.NewToolResultText(string(data))
}
