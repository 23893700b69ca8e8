package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/c7d5a6/goliath/internal/api"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// mockContextService implements contextService for tests.
type mockContextService struct {
	catalog    string
	catalogErr error
	muscles    []api.Muscle
	exercises  []api.Exercise
	exercise   *api.Exercise
	types      []api.ExerciseType
	workouts   []api.Workout
	rows       []api.WorkoutExercise
	err        error

	lastSearch string
	lastID     int
}

func (m *mockContextService) GetCatalog(ctx context.Context) (string, error) {
	return m.catalog, m.catalogErr
}

func (m *mockContextService) SearchMuscles(ctx context.Context, query string) ([]api.Muscle, error) {
	m.lastSearch = query
	return m.muscles, m.err
}

func (m *mockContextService) SearchExercises(ctx context.Context, query string) ([]api.Exercise, error) {
	m.lastSearch = query
	return m.exercises, m.err
}

func (m *mockContextService) GetExercise(ctx context.Context, id int) (*api.Exercise, error) {
	m.lastID = id
	return m.exercise, m.err
}

func (m *mockContextService) GetExerciseTypes(ctx context.Context) ([]api.ExerciseType, error) {
	return m.types, m.err
}

func (m *mockContextService) SearchWorkouts(ctx context.Context, query string) ([]api.Workout, error) {
	m.lastSearch = query
	return m.workouts, m.err
}

func (m *mockContextService) GetWorkoutExercises(ctx context.Context, workoutID int) ([]api.WorkoutExercise, error) {
	m.lastID = workoutID
	return m.rows, m.err
}

func resultText(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	if len(res.Content) != 1 {
		t.Fatalf("expected 1 content, got %d", len(res.Content))
	}
	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want *mcp.TextContent", res.Content[0])
	}
	return tc.Text
}

func TestHandler_GetCatalogTool(t *testing.T) {
	t.Run("returns_catalog", func(t *testing.T) {
		want := "# Goliath Muscle Catalog\n\n## Upper body\n"
		h := NewHandler(&mockContextService{catalog: want})
		res, _, err := h.GetCatalogTool()(context.Background(), &mcp.CallToolRequest{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError")
		}
		if got := resultText(t, res); got != want {
			t.Fatalf("content text = %q, want %q", got, want)
		}
	})

	t.Run("returns_error_when_catalog_fails", func(t *testing.T) {
		h := NewHandler(&mockContextService{catalogErr: errors.New("backend gone")})
		res, _, err := h.GetCatalogTool()(context.Background(), &mcp.CallToolRequest{}, nil)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if got := resultText(t, res); got != "Error fetching catalog: backend gone" {
			t.Fatalf("content text = %q", got)
		}
	})
}

func TestHandler_ListMusclesTool(t *testing.T) {
	t.Run("passes_search_and_returns_json", func(t *testing.T) {
		svc := &mockContextService{muscles: []api.Muscle{
			{BaseEntity: api.BaseEntity{ID: 4}, Name: "Quadriceps", MuscleGroupID: 3},
		}}
		h := NewHandler(svc)
		res, _, err := h.ListMusclesTool()(context.Background(), &mcp.CallToolRequest{}, SearchInput{Search: "quad"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		if svc.lastSearch != "quad" {
			t.Fatalf("search = %q, want quad", svc.lastSearch)
		}
		var got []api.Muscle
		if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got) != 1 || got[0].ID != 4 || got[0].Name != "Quadriceps" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("returns_error_when_list_fails", func(t *testing.T) {
		h := NewHandler(&mockContextService{err: &api.NetworkError{Err: errors.New("connection refused")}})
		res, _, err := h.ListMusclesTool()(context.Background(), &mcp.CallToolRequest{}, SearchInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if got := resultText(t, res); got != "Error listing muscles: Network error: connection refused" {
			t.Fatalf("content text = %q", got)
		}
	})
}

func TestHandler_ListExercisesTool(t *testing.T) {
	svc := &mockContextService{exercises: []api.Exercise{
		{BaseEntity: api.BaseEntity{ID: 1}, Name: "Bench Press", Type: api.ExerciseTypeReps},
	}}
	h := NewHandler(svc)
	res, _, err := h.ListExercisesTool()(context.Background(), &mcp.CallToolRequest{}, SearchInput{Search: "bench"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected IsError: %s", resultText(t, res))
	}
	var got []api.Exercise
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 1 || got[0].Type != api.ExerciseTypeReps {
		t.Fatalf("got %+v", got)
	}
}

func TestHandler_GetExerciseTool(t *testing.T) {
	t.Run("invalid_id", func(t *testing.T) {
		svc := &mockContextService{}
		h := NewHandler(svc)
		res, _, err := h.GetExerciseTool()(context.Background(), &mcp.CallToolRequest{}, ExerciseInput{ID: 0})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
		if svc.lastID != 0 {
			t.Fatalf("service called with id %d", svc.lastID)
		}
	})

	t.Run("not_found", func(t *testing.T) {
		h := NewHandler(&mockContextService{err: &api.Error{StatusCode: 404, Message: "Exercise not found"}})
		res, _, err := h.GetExerciseTool()(context.Background(), &mcp.CallToolRequest{}, ExerciseInput{ID: 99})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resultText(t, res); !res.IsError || got != "Error fetching exercise: Exercise not found" {
			t.Fatalf("IsError = %v, content text = %q", res.IsError, got)
		}
	})

	t.Run("returns_exercise", func(t *testing.T) {
		svc := &mockContextService{exercise: &api.Exercise{BaseEntity: api.BaseEntity{ID: 2}, Name: "Wall Sit"}}
		h := NewHandler(svc)
		res, _, err := h.GetExerciseTool()(context.Background(), &mcp.CallToolRequest{}, ExerciseInput{ID: 2})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.IsError {
			t.Fatalf("unexpected IsError: %s", resultText(t, res))
		}
		if svc.lastID != 2 {
			t.Fatalf("id = %d, want 2", svc.lastID)
		}
		var got api.Exercise
		if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if got.Name != "Wall Sit" {
			t.Fatalf("name = %q", got.Name)
		}
	})
}

func TestHandler_GetExerciseTypesTool(t *testing.T) {
	h := NewHandler(&mockContextService{types: []api.ExerciseType{api.ExerciseTypeReps, api.ExerciseTypeIsometric}})
	res, _, err := h.GetExerciseTypesTool()(context.Background(), &mcp.CallToolRequest{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	var got []api.ExerciseType
	if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(got) != 2 || got[1] != api.ExerciseTypeIsometric {
		t.Fatalf("got %v", got)
	}
}

func TestHandler_ListWorkoutsTool(t *testing.T) {
	t.Run("empty_list_is_array", func(t *testing.T) {
		h := NewHandler(&mockContextService{workouts: []api.Workout{}})
		res, _, err := h.ListWorkoutsTool()(context.Background(), &mcp.CallToolRequest{}, SearchInput{Search: "nothing"})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resultText(t, res); got != "[]" {
			t.Fatalf("content text = %q, want []", got)
		}
	})

	t.Run("unauthenticated", func(t *testing.T) {
		h := NewHandler(&mockContextService{err: &api.Error{StatusCode: 401, Message: "Authentication required"}})
		res, _, err := h.ListWorkoutsTool()(context.Background(), &mcp.CallToolRequest{}, SearchInput{})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := resultText(t, res); !res.IsError || got != "Error listing workouts: Authentication required" {
			t.Fatalf("IsError = %v, content text = %q", res.IsError, got)
		}
	})
}

func TestHandler_GetWorkoutExercisesTool(t *testing.T) {
	t.Run("invalid_workout_id", func(t *testing.T) {
		h := NewHandler(&mockContextService{})
		res, _, err := h.GetWorkoutExercisesTool()(context.Background(), &mcp.CallToolRequest{}, WorkoutInput{WorkoutID: -1})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !res.IsError {
			t.Fatalf("expected IsError")
		}
	})

	t.Run("returns_rows", func(t *testing.T) {
		sets := 3
		svc := &mockContextService{rows: []api.WorkoutExercise{
			{BaseEntity: api.BaseEntity{ID: 7}, WorkoutID: 10, ExerciseID: 1, ExerciseName: "Bench Press", Position: 1, Sets: &sets},
		}}
		h := NewHandler(svc)
		res, _, err := h.GetWorkoutExercisesTool()(context.Background(), &mcp.CallToolRequest{}, WorkoutInput{WorkoutID: 10})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if svc.lastID != 10 {
			t.Fatalf("workout id = %d, want 10", svc.lastID)
		}
		var got []api.WorkoutExercise
		if err := json.Unmarshal([]byte(resultText(t, res)), &got); err != nil {
			t.Fatalf("unmarshal: %v", err)
		}
		if len(got) != 1 || got[0].Sets == nil || *got[0].Sets != 3 {
			t.Fatalf("got %+v", got)
		}
	})
}

func TestNewServer(t *testing.T) {
	if s := NewServer(&api.Client{}, "test"); s == nil {
		t.Fatal("NewServer returned nil")
	}
}
