package api

import "time"

// BaseEntity carries the audit fields every backend entity has.
type BaseEntity struct {
	ID           int       `json:"id"`
	Version      int       `json:"version"`
	CreatedWhen  time.Time `json:"created_when"`
	CreatedBy    *string   `json:"created_by"`
	ModifiedWhen time.Time `json:"modified_when"`
	ModifiedBy   *string   `json:"modified_by"`
}

type Region struct {
	BaseEntity
	Name string `json:"name"`
}

type MuscleGroup struct {
	BaseEntity
	Name       string `json:"name"`
	RegionID   int    `json:"region_id"`
	RegionName string `json:"region_name,omitempty"`
}

type ExerciseArea struct {
	BaseEntity
	Name string `json:"name"`
}

type Muscle struct {
	BaseEntity
	Name            string   `json:"name"`
	MuscleGroupID   int      `json:"muscle_group_id"`
	MuscleGroupName string   `json:"muscle_group_name,omitempty"`
	RegionName      string   `json:"region_name,omitempty"`
	ExerciseAreas   []string `json:"exercise_areas,omitempty"`
}

type ExerciseType string

const (
	ExerciseTypeReps      ExerciseType = "Reps"
	ExerciseTypeEccentric ExerciseType = "Eccentric"
	ExerciseTypeIsometric ExerciseType = "Isometric"
)

// RepBased reports whether the type is parameterized by sets and reps rather than duration.
func (t ExerciseType) RepBased() bool {
	return t == ExerciseTypeReps
}

type Exercise struct {
	BaseEntity
	Name    string           `json:"name"`
	Type    ExerciseType     `json:"type"`
	Muscles []ExerciseMuscle `json:"muscles,omitempty"`
}

type ExerciseMuscle struct {
	ExerciseID int     `json:"exercise_id,omitempty"`
	MuscleID   int     `json:"muscle_id"`
	MuscleName string  `json:"muscle_name,omitempty"`
	Percentage float64 `json:"percentage"`
}

// MusclePercentage is the muscle association as sent on create/update.
type MusclePercentage struct {
	MuscleID   int     `json:"muscle_id"`
	Percentage float64 `json:"percentage"`
}

type ExerciseRequest struct {
	Name    string             `json:"name"`
	Type    ExerciseType       `json:"type"`
	Muscles []MusclePercentage `json:"muscles"`
}

type Workout struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	UserID       int       `json:"user_id"`
	CreatedWhen  time.Time `json:"created_when"`
	ModifiedWhen time.Time `json:"modified_when"`
}

type WorkoutRequest struct {
	Name string `json:"name"`
}

type WorkoutExercise struct {
	BaseEntity
	WorkoutID    int          `json:"workout_id"`
	ExerciseID   int          `json:"exercise_id"`
	ExerciseName string       `json:"exercise_name"`
	ExerciseType ExerciseType `json:"exercise_type"`
	Position     int          `json:"position"`
	Sets         *int         `json:"sets"`
	Reps         *int         `json:"reps"`
	TimeSeconds  *int         `json:"time_seconds"`
	Weight       *float64     `json:"weight"`
	Notes        *string      `json:"notes"`
}

type AddWorkoutExerciseRequest struct {
	ExerciseID  int  `json:"exercise_id"`
	Position    int  `json:"position"`
	Sets        *int `json:"sets,omitempty"`
	Reps        *int `json:"reps,omitempty"`
	TimeSeconds *int `json:"time_seconds,omitempty"`
}

type UpdateWorkoutExerciseRequest struct {
	Position    int      `json:"position"`
	Sets        *int     `json:"sets,omitempty"`
	Reps        *int     `json:"reps,omitempty"`
	TimeSeconds *int     `json:"time_seconds,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Notes       *string  `json:"notes,omitempty"`
}

type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleUser  Role = "USER"
)

type User struct {
	BaseEntity
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// CreatedResponse is the reply to every create call.
type CreatedResponse struct {
	ID      int    `json:"id"`
	Message string `json:"message"`
}

// MessageResponse is the reply to update and delete calls.
type MessageResponse struct {
	Message string `json:"message"`
}

type musclesResponse struct {
	Muscles []Muscle `json:"muscles"`
	Count   int      `json:"count"`
}

type exercisesResponse struct {
	Exercises []Exercise `json:"exercises"`
	Count     int        `json:"count"`
}

type exerciseTypesResponse struct {
	Types []ExerciseType `json:"types"`
}

type workoutsResponse struct {
	Workouts []Workout `json:"workouts"`
	Count    int       `json:"count"`
}

type workoutExercisesResponse struct {
	Exercises []WorkoutExercise `json:"exercises"`
	Count     int               `json:"count"`
}

type usersResponse struct {
	Users []User `json:"users"`
	Count int    `json:"count"`
}

type regionsResponse struct {
	Regions []Region `json:"regions"`
}

type muscleGroupsResponse struct {
	MuscleGroups []MuscleGroup `json:"muscle_groups"`
}

type exerciseAreasResponse struct {
	ExerciseAreas []ExerciseArea `json:"exercise_areas"`
}

type errorResponse struct {
	Error string `json:"error"`
}
