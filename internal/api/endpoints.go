package api

import (
	"context"
	"fmt"
)

func (c *Client) Muscles(ctx context.Context) ([]Muscle, error) {
	var resp musclesResponse
	if err := c.Get(ctx, "/muscles", &resp); err != nil {
		return nil, err
	}
	return resp.Muscles, nil
}

func (c *Client) Regions(ctx context.Context) ([]Region, error) {
	var resp regionsResponse
	if err := c.Get(ctx, "/regions", &resp); err != nil {
		return nil, err
	}
	return resp.Regions, nil
}

func (c *Client) MuscleGroups(ctx context.Context) ([]MuscleGroup, error) {
	var resp muscleGroupsResponse
	if err := c.Get(ctx, "/muscle-groups", &resp); err != nil {
		return nil, err
	}
	return resp.MuscleGroups, nil
}

func (c *Client) ExerciseAreas(ctx context.Context) ([]ExerciseArea, error) {
	var resp exerciseAreasResponse
	if err := c.Get(ctx, "/exercise-areas", &resp); err != nil {
		return nil, err
	}
	return resp.ExerciseAreas, nil
}

func (c *Client) Exercises(ctx context.Context) ([]Exercise, error) {
	var resp exercisesResponse
	if err := c.Get(ctx, "/exercises", &resp); err != nil {
		return nil, err
	}
	return resp.Exercises, nil
}

func (c *Client) Exercise(ctx context.Context, id int) (*Exercise, error) {
	var e Exercise
	if err := c.Get(ctx, fmt.Sprintf("/exercises/%d", id), &e); err != nil {
		return nil, err
	}
	return &e, nil
}

func (c *Client) CreateExercise(ctx context.Context, req ExerciseRequest) (*CreatedResponse, error) {
	var resp CreatedResponse
	if err := c.Post(ctx, "/exercises", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateExercise(ctx context.Context, id int, req ExerciseRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.Put(ctx, fmt.Sprintf("/exercises/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) ExerciseTypes(ctx context.Context) ([]ExerciseType, error) {
	var resp exerciseTypesResponse
	if err := c.Get(ctx, "/exercise-types", &resp); err != nil {
		return nil, err
	}
	return resp.Types, nil
}

func (c *Client) Workouts(ctx context.Context) ([]Workout, error) {
	var resp workoutsResponse
	if err := c.Get(ctx, "/workouts", &resp); err != nil {
		return nil, err
	}
	return resp.Workouts, nil
}

func (c *Client) Workout(ctx context.Context, id int) (*Workout, error) {
	var w Workout
	if err := c.Get(ctx, fmt.Sprintf("/workouts/%d", id), &w); err != nil {
		return nil, err
	}
	return &w, nil
}

func (c *Client) CreateWorkout(ctx context.Context, req WorkoutRequest) (*CreatedResponse, error) {
	var resp CreatedResponse
	if err := c.Post(ctx, "/workouts", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateWorkout(ctx context.Context, id int, req WorkoutRequest) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.Put(ctx, fmt.Sprintf("/workouts/%d", id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteWorkout(ctx context.Context, id int) (*MessageResponse, error) {
	var resp MessageResponse
	if err := c.Delete(ctx, fmt.Sprintf("/workouts/%d", id), &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) WorkoutExercises(ctx context.Context, workoutID int) ([]WorkoutExercise, error) {
	var resp workoutExercisesResponse
	if err := c.Get(ctx, fmt.Sprintf("/workouts/%d/exercises", workoutID), &resp); err != nil {
		return nil, err
	}
	return resp.Exercises, nil
}

func (c *Client) AddWorkoutExercise(ctx context.Context, workoutID int, req AddWorkoutExerciseRequest) (*CreatedResponse, error) {
	var resp CreatedResponse
	if err := c.Post(ctx, fmt.Sprintf("/workouts/%d/exercises", workoutID), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) UpdateWorkoutExercise(ctx context.Context, workoutID, workoutExerciseID int, req UpdateWorkoutExerciseRequest) (*MessageResponse, error) {
	var resp MessageResponse
	endpoint := fmt.Sprintf("/workouts/%d/exercises/%d", workoutID, workoutExerciseID)
	if err := c.Put(ctx, endpoint, req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) DeleteWorkoutExercise(ctx context.Context, workoutID, workoutExerciseID int) (*MessageResponse, error) {
	var resp MessageResponse
	endpoint := fmt.Sprintf("/workouts/%d/exercises/%d", workoutID, workoutExerciseID)
	if err := c.Delete(ctx, endpoint, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Users(ctx context.Context) ([]User, error) {
	var resp usersResponse
	if err := c.Get(ctx, "/users", &resp); err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// Hello is the backend liveness call.
func (c *Client) Hello(ctx context.Context) (string, error) {
	var resp MessageResponse
	if err := c.Get(ctx, "/hello", &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}
