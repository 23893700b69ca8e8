package mcp

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/exercises"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/internal/muscles"
	"github.com/c7d5a6/goliath/internal/workouts"
)

// GoliathClient is the read-only part of api.Client the tools use.
type GoliathClient interface {
	Regions(ctx context.Context) ([]api.Region, error)
	MuscleGroups(ctx context.Context) ([]api.MuscleGroup, error)
	Muscles(ctx context.Context) ([]api.Muscle, error)
	ExerciseTypes(ctx context.Context) ([]api.ExerciseType, error)
	Exercises(ctx context.Context) ([]api.Exercise, error)
	Exercise(ctx context.Context, id int) (*api.Exercise, error)
	Workouts(ctx context.Context) ([]api.Workout, error)
	WorkoutExercises(ctx context.Context, workoutID int) ([]api.WorkoutExercise, error)
}

// contextService provides goliath context data. Used by Handler for testability.
type contextService interface {
	GetCatalog(ctx context.Context) (string, error)
	SearchMuscles(ctx context.Context, query string) ([]api.Muscle, error)
	SearchExercises(ctx context.Context, query string) ([]api.Exercise, error)
	GetExercise(ctx context.Context, id int) (*api.Exercise, error)
	GetExerciseTypes(ctx context.Context) ([]api.ExerciseType, error)
	SearchWorkouts(ctx context.Context, query string) ([]api.Workout, error)
	GetWorkoutExercises(ctx context.Context, workoutID int) ([]api.WorkoutExercise, error)
}

// ContextService answers the tools through the same list views and search predicates the terminal client uses.
type ContextService struct {
	client GoliathClient
}

func NewContextService(client GoliathClient) *ContextService {
	return &ContextService{client: client}
}

// GetCatalog returns the body regions, their muscle groups and the muscles of each group as markdown.
func (s *ContextService) GetCatalog(ctx context.Context) (string, error) {
	regions, err := s.client.Regions(ctx)
	if err != nil {
		return "", fmt.Errorf("regions: %w", err)
	}
	groups, err := s.client.MuscleGroups(ctx)
	if err != nil {
		return "", fmt.Errorf("muscle groups: %w", err)
	}
	muscleList, err := s.client.Muscles(ctx)
	if err != nil {
		return "", fmt.Errorf("muscles: %w", err)
	}
	return formatCatalog(regions, groups, muscleList), nil
}

func formatCatalog(regions []api.Region, groups []api.MuscleGroup, muscleList []api.Muscle) string {
	if len(regions) == 0 {
		return "# Goliath Muscle Catalog\n\nThe catalog is empty.\n"
	}

	groupsByRegion := make(map[int][]api.MuscleGroup)
	for _, g := range groups {
		groupsByRegion[g.RegionID] = append(groupsByRegion[g.RegionID], g)
	}
	musclesByGroup := make(map[int][]api.Muscle)
	for _, m := range muscleList {
		musclesByGroup[m.MuscleGroupID] = append(musclesByGroup[m.MuscleGroupID], m)
	}

	sorted := append([]api.Region(nil), regions...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	var b strings.Builder
	b.WriteString("# Goliath Muscle Catalog\n\n")
	for _, r := range sorted {
		b.WriteString("## ")
		b.WriteString(r.Name)
		b.WriteString("\n\n")
		for _, g := range groupsByRegion[r.ID] {
			b.WriteString(fmt.Sprintf("### %s (group %d)\n\n", g.Name, g.ID))
			b.WriteString("| ID | Muscle | Areas |\n|----|--------|-------|\n")
			for _, m := range musclesByGroup[g.ID] {
				areas := "-"
				if len(m.ExerciseAreas) > 0 {
					areas = strings.Join(m.ExerciseAreas, ", ")
				}
				b.WriteString(fmt.Sprintf("| %d | %s | %s |\n", m.ID, m.Name, areas))
			}
			b.WriteString("\n")
		}
	}

	return strings.TrimSuffix(b.String(), "\n\n") + "\n"
}

func (s *ContextService) SearchMuscles(ctx context.Context, query string) ([]api.Muscle, error) {
	return search(ctx, muscles.NewView(s.client), query)
}

func (s *ContextService) SearchExercises(ctx context.Context, query string) ([]api.Exercise, error) {
	return search(ctx, exercises.NewView(s.client), query)
}

func (s *ContextService) GetExercise(ctx context.Context, id int) (*api.Exercise, error) {
	return s.client.Exercise(ctx, id)
}

func (s *ContextService) GetExerciseTypes(ctx context.Context) ([]api.ExerciseType, error) {
	return s.client.ExerciseTypes(ctx)
}

func (s *ContextService) SearchWorkouts(ctx context.Context, query string) ([]api.Workout, error) {
	return search(ctx, workouts.NewView(s.client), query)
}

// GetWorkoutExercises returns the attached rows in display order.
func (s *ContextService) GetWorkoutExercises(ctx context.Context, workoutID int) ([]api.WorkoutExercise, error) {
	list, err := s.client.WorkoutExercises(ctx, workoutID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	return list, nil
}

func search[T any](ctx context.Context, view *listview.View[T], query string) ([]T, error) {
	defer view.Close()
	view.SetSearch(query)
	if err := view.Load(ctx); err != nil {
		return nil, err
	}
	// never null in the tool output
	return append(make([]T, 0), view.Filtered()...), nil
}
