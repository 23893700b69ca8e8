package mcp

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// Handler parses tool input, calls the service and formats the MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

// SearchInput is the input of the list tools.
type SearchInput struct {
	Search string `json:"search,omitempty" jsonschema:"Case-insensitive text to filter by; empty returns everything"`
}

// ExerciseInput is the input for get_exercise.
type ExerciseInput struct {
	ID int `json:"id" jsonschema:"Exercise id"`
}

// WorkoutInput is the input for get_workout_exercises.
type WorkoutInput struct {
	WorkoutID int `json:"workout_id" jsonschema:"Workout id"`
}

func (h *Handler) GetCatalogTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		text, err := h.service.GetCatalog(ctx)
		if err != nil {
			return errorResult("Error fetching catalog: " + err.Error()), nil, nil
		}
		return textResult(text), nil, nil
	}
}

func (h *Handler) ListMusclesTool() func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.SearchMuscles(ctx, in.Search)
		if err != nil {
			return errorResult("Error listing muscles: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func (h *Handler) ListExercisesTool() func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.SearchExercises(ctx, in.Search)
		if err != nil {
			return errorResult("Error listing exercises: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func (h *Handler) GetExerciseTool() func(context.Context, *mcp.CallToolRequest, ExerciseInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseInput) (*mcp.CallToolResult, any, error) {
		if in.ID <= 0 {
			return errorResult("Invalid id: use a positive exercise id"), nil, nil
		}
		exercise, err := h.service.GetExercise(ctx, in.ID)
		if err != nil {
			return errorResult("Error fetching exercise: " + err.Error()), nil, nil
		}
		return jsonResult(exercise), nil, nil
	}
}

func (h *Handler) GetExerciseTypesTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		types, err := h.service.GetExerciseTypes(ctx)
		if err != nil {
			return errorResult("Error fetching exercise types: " + err.Error()), nil, nil
		}
		return jsonResult(types), nil, nil
	}
}

func (h *Handler) ListWorkoutsTool() func(context.Context, *mcp.CallToolRequest, SearchInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.SearchWorkouts(ctx, in.Search)
		if err != nil {
			return errorResult("Error listing workouts: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func (h *Handler) GetWorkoutExercisesTool() func(context.Context, *mcp.CallToolRequest, WorkoutInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutInput) (*mcp.CallToolResult, any, error) {
		if in.WorkoutID <= 0 {
			return errorResult("Invalid workout_id: use a positive workout id"), nil, nil
		}
		list, err := h.service.GetWorkoutExercises(ctx, in.WorkoutID)
		if err != nil {
			return errorResult("Error fetching workout exercises: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}
