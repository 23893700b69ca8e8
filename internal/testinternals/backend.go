package testinternals

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/pkg"

	"github.com/gorilla/mux"
)

type RecordedRequest struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
	Body          []byte
}

type failure struct {
	status int
	body   string
}

// Backend is an in-memory goliath backend served through a gorilla/mux router.
type Backend struct {
	mu sync.Mutex

	// AuthToken, when set, is the only bearer token accepted by authenticated routes.
	AuthToken string

	Regions          []api.Region
	MuscleGroups     []api.MuscleGroup
	ExerciseAreas    []api.ExerciseArea
	Muscles          []api.Muscle
	ExerciseTypes    []api.ExerciseType
	Exercises        map[int]*api.Exercise
	Workouts         map[int]*api.Workout
	WorkoutExercises map[int][]api.WorkoutExercise
	Users            []api.User

	nextID   int
	requests []RecordedRequest
	failures map[string][]failure
}

func NewBackend() *Backend {
	return &Backend{
		ExerciseTypes:    []api.ExerciseType{api.ExerciseTypeReps, api.ExerciseTypeEccentric, api.ExerciseTypeIsometric},
		Exercises:        map[int]*api.Exercise{},
		Workouts:         map[int]*api.Workout{},
		WorkoutExercises: map[int][]api.WorkoutExercise{},
		nextID:           1000,
		failures:         map[string][]failure{},
	}
}

// FailNext makes the next request matching method and path reply with status and raw body.
func (b *Backend) FailNext(method, path string, status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	key := method + " " + path
	b.failures[key] = append(b.failures[key], failure{status: status, body: body})
}

func (b *Backend) Requests() []RecordedRequest {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]RecordedRequest(nil), b.requests...)
}

// Count returns how many requests hit method and path.
func (b *Backend) Count(method, path string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	n := 0
	for _, r := range b.requests {
		if r.Method == method && r.Path == path {
			n++
		}
	}
	return n
}

func (b *Backend) ResetRequests() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.requests = nil
}

func (b *Backend) AddExercise(e api.Exercise) *api.Exercise {
	b.mu.Lock()
	defer b.mu.Unlock()
	if e.ID == 0 {
		e.ID = b.newID()
	}
	b.Exercises[e.ID] = &e
	return &e
}

func (b *Backend) AddWorkout(w api.Workout) *api.Workout {
	b.mu.Lock()
	defer b.mu.Unlock()
	if w.ID == 0 {
		w.ID = b.newID()
	}
	b.Workouts[w.ID] = &w
	return &w
}

func (b *Backend) AttachedExercises(workoutID int) []api.WorkoutExercise {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]api.WorkoutExercise(nil), b.WorkoutExercises[workoutID]...)
}

func (b *Backend) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(b.record)
	r.Use(b.injectFailures)

	apiRouter := r.PathPrefix(api.DefaultBasePath).Subrouter()
	apiRouter.HandleFunc("/hello", b.handleHello).Methods(http.MethodGet)
	apiRouter.HandleFunc("/regions", b.handleRegions).Methods(http.MethodGet)
	apiRouter.HandleFunc("/muscle-groups", b.handleMuscleGroups).Methods(http.MethodGet)
	apiRouter.HandleFunc("/exercise-areas", b.handleExerciseAreas).Methods(http.MethodGet)
	apiRouter.HandleFunc("/muscles", b.handleMuscles).Methods(http.MethodGet)
	apiRouter.HandleFunc("/exercise-types", b.handleExerciseTypes).Methods(http.MethodGet)
	apiRouter.HandleFunc("/exercises", b.handleExercises).Methods(http.MethodGet)
	apiRouter.HandleFunc("/exercises/{id:[0-9]+}", b.handleExercise).Methods(http.MethodGet)

	authRouter := apiRouter.NewRoute().Subrouter()
	authRouter.Use(b.requireAuth)
	authRouter.HandleFunc("/exercises", b.handleCreateExercise).Methods(http.MethodPost)
	authRouter.HandleFunc("/exercises/{id:[0-9]+}", b.handleUpdateExercise).Methods(http.MethodPut)
	authRouter.HandleFunc("/workouts", b.handleWorkouts).Methods(http.MethodGet)
	authRouter.HandleFunc("/workouts", b.handleCreateWorkout).Methods(http.MethodPost)
	authRouter.HandleFunc("/workouts/{id:[0-9]+}", b.handleWorkout).Methods(http.MethodGet)
	authRouter.HandleFunc("/workouts/{id:[0-9]+}", b.handleUpdateWorkout).Methods(http.MethodPut)
	authRouter.HandleFunc("/workouts/{id:[0-9]+}", b.handleDeleteWorkout).Methods(http.MethodDelete)
	authRouter.HandleFunc("/workouts/{id:[0-9]+}/exercises", b.handleWorkoutExercises).Methods(http.MethodGet)
	authRouter.HandleFunc("/workouts/{id:[0-9]+}/exercises", b.handleAddWorkoutExercise).Methods(http.MethodPost)
	authRouter.HandleFunc("/workouts/{id:[0-9]+}/exercises/{weId:[0-9]+}", b.handleUpdateWorkoutExercise).Methods(http.MethodPut)
	authRouter.HandleFunc("/workouts/{id:[0-9]+}/exercises/{weId:[0-9]+}", b.handleDeleteWorkoutExercise).Methods(http.MethodDelete)
	authRouter.HandleFunc("/users", b.handleUsers).Methods(http.MethodGet)

	return r
}

func (b *Backend) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		_ = r.Body.Close()
		r.Body = io.NopCloser(bytes.NewReader(body))

		b.mu.Lock()
		b.requests = append(b.requests, RecordedRequest{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get(api.RequestIDHeader),
			Body:          body,
		})
		b.mu.Unlock()

		next.ServeHTTP(w, r)
	})
}

func (b *Backend) injectFailures(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Method + " " + r.URL.Path
		b.mu.Lock()
		queued := b.failures[key]
		var f *failure
		if len(queued) > 0 {
			f = &queued[0]
			b.failures[key] = queued[1:]
		}
		b.mu.Unlock()

		if f != nil {
			pkg.WriteResponseBytes(w, pkg.ContentType.JSON, []byte(f.body), f.status)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if b.AuthToken != "" && r.Header.Get("Authorization") != "Bearer "+b.AuthToken {
			pkg.WriteJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (b *Backend) handleHello(w http.ResponseWriter, _ *http.Request) {
	pkg.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Hello from goliath"})
}

func (b *Backend) handleRegions(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"regions": nonNil(b.Regions)})
}

func (b *Backend) handleMuscleGroups(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"muscle_groups": nonNil(b.MuscleGroups)})
}

func (b *Backend) handleExerciseAreas(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"exercise_areas": nonNil(b.ExerciseAreas)})
}

func (b *Backend) handleMuscles(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"muscles": nonNil(b.Muscles), "count": len(b.Muscles)})
}

func (b *Backend) handleExerciseTypes(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"types": nonNil(b.ExerciseTypes)})
}

func (b *Backend) handleExercises(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := make([]api.Exercise, 0, len(b.Exercises))
	for _, id := range sortedKeys(b.Exercises) {
		list = append(list, *b.Exercises[id])
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"exercises": list, "count": len(list)})
}

func (b *Backend) handleExercise(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.Exercises[id]
	if !ok {
		pkg.WriteJSONError(w, http.StatusNotFound, "Exercise not found")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, e)
}

func (b *Backend) handleCreateExercise(w http.ResponseWriter, r *http.Request) {
	var req api.ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.Name == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "name required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e := &api.Exercise{Name: req.Name, Type: req.Type, Muscles: b.joinMuscles(req.Muscles)}
	e.ID = b.newID()
	b.Exercises[e.ID] = e
	pkg.WriteJSON(w, http.StatusCreated, api.CreatedResponse{ID: e.ID, Message: "Exercise created successfully"})
}

func (b *Backend) handleUpdateExercise(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	var req api.ExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	e, ok := b.Exercises[id]
	if !ok {
		pkg.WriteJSONError(w, http.StatusNotFound, "Exercise not found")
		return
	}
	e.Name = req.Name
	e.Type = req.Type
	e.Muscles = b.joinMuscles(req.Muscles)
	e.Version++
	pkg.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Exercise updated successfully"})
}

func (b *Backend) handleWorkouts(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	list := make([]api.Workout, 0, len(b.Workouts))
	for _, id := range sortedKeys(b.Workouts) {
		list = append(list, *b.Workouts[id])
	}
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"workouts": list, "count": len(list)})
}

func (b *Backend) handleWorkout(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	wo, ok := b.Workouts[id]
	if !ok {
		pkg.WriteJSONError(w, http.StatusNotFound, "Workout not found")
		return
	}
	pkg.WriteJSON(w, http.StatusOK, wo)
}

func (b *Backend) handleCreateWorkout(w http.ResponseWriter, r *http.Request) {
	var req api.WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "name required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	now := time.Now().UTC()
	wo := &api.Workout{ID: b.newID(), Name: req.Name, UserID: 1, CreatedWhen: now, ModifiedWhen: now}
	b.Workouts[wo.ID] = wo
	pkg.WriteJSON(w, http.StatusCreated, api.CreatedResponse{ID: wo.ID, Message: "Workout created successfully"})
}

func (b *Backend) handleUpdateWorkout(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	var req api.WorkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Name == "" {
		pkg.WriteJSONError(w, http.StatusBadRequest, "name required")
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	wo, ok := b.Workouts[id]
	if !ok {
		pkg.WriteJSONError(w, http.StatusNotFound, "Workout not found")
		return
	}
	wo.Name = req.Name
	wo.ModifiedWhen = time.Now().UTC()
	pkg.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Workout updated successfully"})
}

func (b *Backend) handleDeleteWorkout(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.Workouts[id]; !ok {
		pkg.WriteJSONError(w, http.StatusNotFound, "Workout not found")
		return
	}
	delete(b.Workouts, id)
	delete(b.WorkoutExercises, id)
	pkg.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Workout deleted successfully"})
}

func (b *Backend) handleWorkoutExercises(w http.ResponseWriter, r *http.Request) {
	id := pathInt(r, "id")
	b.mu.Lock()
	defer b.mu.Unlock()
	list := append([]api.WorkoutExercise{}, b.WorkoutExercises[id]...)
	sort.SliceStable(list, func(i, j int) bool { return list[i].Position < list[j].Position })
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"exercises": list, "count": len(list)})
}

func (b *Backend) handleAddWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	workoutID := pathInt(r, "id")
	var req api.AddWorkoutExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if _, ok := b.Workouts[workoutID]; !ok {
		pkg.WriteJSONError(w, http.StatusNotFound, "Workout not found")
		return
	}
	e, ok := b.Exercises[req.ExerciseID]
	if !ok {
		pkg.WriteJSONError(w, http.StatusBadRequest, "Exercise not found")
		return
	}

	we := api.WorkoutExercise{
		WorkoutID:    workoutID,
		ExerciseID:   e.ID,
		ExerciseName: e.Name,
		ExerciseType: e.Type,
		Position:     req.Position,
		Sets:         req.Sets,
		Reps:         req.Reps,
		TimeSeconds:  req.TimeSeconds,
	}
	we.ID = b.newID()
	b.WorkoutExercises[workoutID] = append(b.WorkoutExercises[workoutID], we)
	pkg.WriteJSON(w, http.StatusCreated, api.CreatedResponse{ID: we.ID, Message: "Exercise added to workout successfully"})
}

func (b *Backend) handleUpdateWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	workoutID, weID := pathInt(r, "id"), pathInt(r, "weId")
	var req api.UpdateWorkoutExerciseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkg.WriteJSONError(w, http.StatusBadRequest, err.Error())
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.WorkoutExercises[workoutID]
	for i := range list {
		if list[i].ID != weID {
			continue
		}
		list[i].Position = req.Position
		list[i].Sets = req.Sets
		list[i].Reps = req.Reps
		list[i].TimeSeconds = req.TimeSeconds
		list[i].Weight = req.Weight
		list[i].Notes = req.Notes
		list[i].Version++
		pkg.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Workout exercise updated successfully"})
		return
	}
	pkg.WriteJSONError(w, http.StatusNotFound, "Workout exercise not found")
}

func (b *Backend) handleDeleteWorkoutExercise(w http.ResponseWriter, r *http.Request) {
	workoutID, weID := pathInt(r, "id"), pathInt(r, "weId")
	b.mu.Lock()
	defer b.mu.Unlock()
	list := b.WorkoutExercises[workoutID]
	for i := range list {
		if list[i].ID == weID {
			b.WorkoutExercises[workoutID] = append(list[:i:i], list[i+1:]...)
			pkg.WriteJSON(w, http.StatusOK, api.MessageResponse{Message: "Exercise removed from workout successfully"})
			return
		}
	}
	pkg.WriteJSONError(w, http.StatusNotFound, "Workout exercise not found")
}

func (b *Backend) handleUsers(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	defer b.mu.Unlock()
	pkg.WriteJSON(w, http.StatusOK, map[string]any{"users": nonNil(b.Users), "count": len(b.Users)})
}

// joinMuscles fills muscle names the way the backend join does.
func (b *Backend) joinMuscles(in []api.MusclePercentage) []api.ExerciseMuscle {
	out := make([]api.ExerciseMuscle, 0, len(in))
	for _, mp := range in {
		em := api.ExerciseMuscle{MuscleID: mp.MuscleID, Percentage: mp.Percentage}
		for _, m := range b.Muscles {
			if m.ID == mp.MuscleID {
				em.MuscleName = m.Name
				break
			}
		}
		out = append(out, em)
	}
	return out
}

// newID hands out 1000, 1001, ... in creation order.
func (b *Backend) newID() int {
	id := b.nextID
	b.nextID++
	return id
}

func pathInt(r *http.Request, name string) int {
	v, err := strconv.Atoi(mux.Vars(r)[name])
	if err != nil {
		panic(fmt.Sprintf("route var %s: %s", name, err))
	}
	return v
}

func sortedKeys[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
