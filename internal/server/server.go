// Package server implements the MCP (Model Context Protocol) server exposing
// the autonomous cognitive scheduler, retrospection engine, knowledge
// explorer and path library to Claude AI via stdio transport. All responses
// are JSON formatted.
//
// Available tools:
//   - get-status: Snapshot of the scheduler's mode, queue depth and counters
//   - schedule-exploration: Enqueue a user-directed knowledge exploration
//   - perform-retrospection: Run one synchronous retrospection pass
//   - recommend-paths: Recommend reasoning paths for a task context
//   - record-path-outcome: Apply a success/failure outcome to a stored path
//   - list-paths: Query the path library by status/category
package server

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"unified-thinking/internal/pathlibrary"
	"unified-thinking/internal/retrospection"
	"unified-thinking/internal/scheduler"
	"unified-thinking/internal/types"
)

// UnifiedServer coordinates the scheduler and path library and provides MCP
// tool handlers.
type UnifiedServer struct {
	scheduler *scheduler.Scheduler
	paths     *pathlibrary.Library
}

// NewUnifiedServer constructs a server around an already-wired scheduler and
// path library.
func NewUnifiedServer(sched *scheduler.Scheduler, paths *pathlibrary.Library) *UnifiedServer {
	return &UnifiedServer{scheduler: sched, paths: paths}
}

func (s *UnifiedServer) RegisterTools(mcpServer *mcp.Server) {
	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "get-status",
		Description: "Get the cognitive scheduler's current mode, queue depth, active jobs and counters",
	}, s.handleGetStatus)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "schedule-exploration",
		Description: "Enqueue a user-directed knowledge exploration job ahead of autonomous background work",
	}, s.handleScheduleExploration)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "perform-retrospection",
		Description: "Run one synchronous retrospection pass over conversation history",
	}, s.handlePerformRetrospection)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "recommend-paths",
		Description: "Recommend reasoning paths from the path library for a task context",
	}, s.handleRecommendPaths)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "record-path-outcome",
		Description: "Record a success/failure outcome against a reasoning path's rolling statistics",
	}, s.handleRecordPathOutcome)

	mcp.AddTool(mcpServer, &mcp.Tool{
		Name:        "list-paths",
		Description: "Query the path library by status and category",
	}, s.handleListPaths)
}

type EmptyRequest struct{}

func (s *UnifiedServer) handleGetStatus(ctx context.Context, req *mcp.CallToolRequest, input EmptyRequest) (*mcp.CallToolResult, *scheduler.Status, error) {
	status := s.scheduler.GetStatus()
	return &mcp.CallToolResult{Content: toJSONContent(status)}, &status, nil
}

type ScheduleExplorationRequest struct {
	Query string `json:"query"`
}

type ScheduleExplorationResponse struct {
	JobID string `json:"job_id"`
}

func (s *UnifiedServer) handleScheduleExploration(ctx context.Context, req *mcp.CallToolRequest, input ScheduleExplorationRequest) (*mcp.CallToolResult, *ScheduleExplorationResponse, error) {
	jobID := s.scheduler.ScheduleUserDirectedExploration(input.Query, types.Metadata{})
	response := &ScheduleExplorationResponse{JobID: jobID}
	return &mcp.CallToolResult{Content: toJSONContent(response)}, response, nil
}

type PerformRetrospectionRequest struct {
	Strategy     string `json:"strategy,omitempty"`
	TargetTaskID string `json:"target_task_id,omitempty"`
}

func (s *UnifiedServer) handlePerformRetrospection(ctx context.Context, req *mcp.CallToolRequest, input PerformRetrospectionRequest) (*mcp.CallToolResult, *types.RetrospectionResult, error) {
	result := s.scheduler.PerformRetrospection(retrospection.SelectionStrategy(input.Strategy), input.TargetTaskID)
	return &mcp.CallToolResult{Content: toJSONContent(result)}, result, nil
}

type RecommendPathsRequest struct {
	TaskType         string   `json:"task_type,omitempty"`
	Complexity       string   `json:"complexity,omitempty"`
	Tags             []string `json:"tags,omitempty"`
	MaxResults       int      `json:"max_results,omitempty"`
	MinEffectiveness float64  `json:"min_effectiveness,omitempty"`
}

type RecommendPathsResponse struct {
	Paths []*types.ReasoningPath `json:"paths"`
}

func (s *UnifiedServer) handleRecommendPaths(ctx context.Context, req *mcp.CallToolRequest, input RecommendPathsRequest) (*mcp.CallToolResult, *RecommendPathsResponse, error) {
	max := input.MaxResults
	if max <= 0 {
		max = 5
	}
	taskCtx := &types.TaskContext{TaskType: input.TaskType, Complexity: input.Complexity, Tags: input.Tags}
	response := &RecommendPathsResponse{Paths: s.paths.Recommend(taskCtx, max, input.MinEffectiveness)}
	return &mcp.CallToolResult{Content: toJSONContent(response)}, response, nil
}

type RecordPathOutcomeRequest struct {
	PathID        string   `json:"path_id"`
	Success       bool     `json:"success"`
	ExecutionTime float64  `json:"execution_time_seconds,omitempty"`
	Rating        *float64 `json:"rating,omitempty"`
}

type RecordPathOutcomeResponse struct {
	Recorded bool `json:"recorded"`
}

func (s *UnifiedServer) handleRecordPathOutcome(ctx context.Context, req *mcp.CallToolRequest, input RecordPathOutcomeRequest) (*mcp.CallToolResult, *RecordPathOutcomeResponse, error) {
	if err := s.paths.UpdatePerformance(input.PathID, input.Success, input.ExecutionTime, input.Rating); err != nil {
		return nil, nil, err
	}
	response := &RecordPathOutcomeResponse{Recorded: true}
	return &mcp.CallToolResult{Content: toJSONContent(response)}, response, nil
}

type ListPathsRequest struct {
	Status         string `json:"status,omitempty"`
	Category       string `json:"category,omitempty"`
	IncludeRetired bool   `json:"include_retired,omitempty"`
}

type ListPathsResponse struct {
	Paths []*types.ReasoningPath `json:"paths"`
}

func (s *UnifiedServer) handleListPaths(ctx context.Context, req *mcp.CallToolRequest, input ListPathsRequest) (*mcp.CallToolResult, *ListPathsResponse, error) {
	response := &ListPathsResponse{
		Paths: s.paths.Query(types.PathStatus(input.Status), types.PathCategory(input.Category), input.IncludeRetired),
	}
	return &mcp.CallToolResult{Content: toJSONContent(response)}, response, nil
}

// toJSONContent converts any data structure to MCP TextContent with JSON.
// This is consumed by Claude AI directly; no human-readable formatting is
// applied.
func toJSONContent(data interface{}) []mcp.Content {
	jsonData, err := json.Marshal(data)
	if err != nil {
		errData := map[string]string{"error": err.Error()}
		jsonData, _ = json.Marshal(errData)
	}
	return []mcp.Content{&mcp.TextContent{Text: string(jsonData)}}
}
