package mcp

import (
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with read-only goliath tools: the muscle catalog, muscles,
// exercises, exercise types, workouts and the exercises of a workout.
func NewServer(client GoliathClient, version string) *mcp.Server {
	h := NewHandler(NewContextService(client))
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "goliath",
		Version: version,
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_muscle_catalog",
		Description: "Returns the body regions, their muscle groups and the muscles (with exercise areas) of each group as markdown. Use when you need muscle ids or the anatomy taxonomy.",
	}, h.GetCatalogTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_muscles",
		Description: "Returns the muscles as JSON. Optional search matches name, muscle group and exercise areas (case-insensitive).",
	}, h.ListMusclesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_exercises",
		Description: "Returns the exercises with their muscle percentages as JSON. Optional search matches name, type and muscle names (case-insensitive).",
	}, h.ListExercisesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise",
		Description: "Returns one exercise with its muscle percentages. Arg: id.",
	}, h.GetExerciseTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_types",
		Description: "Returns the exercise types (Reps, Eccentric, Isometric). Reps exercises are planned with sets and reps, the others with a duration in seconds.",
	}, h.GetExerciseTypesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workouts",
		Description: "Returns the signed in user's workouts as JSON. Optional search matches the workout name. Requires a stored session (run goliath login first).",
	}, h.ListWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workout_exercises",
		Description: "Returns the exercises of a workout in order, with sets, reps, duration, weight and notes. Arg: workout_id.",
	}, h.GetWorkoutExercisesTool())

	return s
}
