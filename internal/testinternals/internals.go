package testinternals

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/telemetry/metrics"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/go-redis/redis/v8"
	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/require"
)

const TestToken = "test-bearer-token"

// Internals bundles a seeded fake backend, its httptest server and a client pointed at it.
type Internals struct {
	Backend        *Backend
	Server         *httptest.Server
	Client         *api.Client
	Tokens         *StaticTokenSource
	MetricsManager *metrics.Manager

	// redis
	RedisClient *redis.Client
	RedisMock   redismock.ClientMock
}

type NewTestingInternalsParams struct {
	// CacheTTL of 0 keeps the response cache off so every read reaches the backend.
	CacheTTL time.Duration
}

func NewTestingInternals(t *testing.T, params NewTestingInternalsParams) *Internals {
	t.Helper()

	backend := NewBackend()
	Seed(backend)

	server := httptest.NewServer(backend.Router())
	t.Cleanup(server.Close)

	tokens := &StaticTokenSource{}
	metricsManager := metrics.NewTestManager()
	client, err := api.NewClient(api.NewClientParams{
		BaseURL:        server.URL,
		HTTPClient:     server.Client(),
		TokenSource:    tokens,
		CacheTTL:       params.CacheTTL,
		MetricsManager: metricsManager,
	})
	require.NoError(t, err)

	redisClient, redisMock := redismock.NewClientMock()
	t.Cleanup(func() { _ = redisClient.Close() })

	return &Internals{
		Backend:        backend,
		Server:         server,
		Client:         client,
		Tokens:         tokens,
		MetricsManager: metricsManager,
		RedisClient:    redisClient,
		RedisMock:      redisMock,
	}
}

// SignIn makes the backend demand TestToken and the client send it.
func (i *Internals) SignIn() {
	i.Backend.AuthToken = TestToken
	i.Tokens.Set(TestToken)
}

// StaticTokenSource hands out whatever token was set last.
type StaticTokenSource struct {
	token string
	err   error
}

func (s *StaticTokenSource) Set(token string) {
	s.token = token
}

func (s *StaticTokenSource) SetErr(err error) {
	s.err = err
}

func (s *StaticTokenSource) Token(context.Context) (string, error) {
	return s.token, s.err
}

// Seed fills the backend with a small, stable catalog plus fake users.
func Seed(b *Backend) {
	b.Regions = []api.Region{
		{BaseEntity: api.BaseEntity{ID: 1}, Name: "Upper body"},
		{BaseEntity: api.BaseEntity{ID: 2}, Name: "Lower body"},
	}
	b.MuscleGroups = []api.MuscleGroup{
		{BaseEntity: api.BaseEntity{ID: 1}, Name: "Chest", RegionID: 1, RegionName: "Upper body"},
		{BaseEntity: api.BaseEntity{ID: 2}, Name: "Arms", RegionID: 1, RegionName: "Upper body"},
		{BaseEntity: api.BaseEntity{ID: 3}, Name: "Legs", RegionID: 2, RegionName: "Lower body"},
	}
	b.ExerciseAreas = []api.ExerciseArea{
		{BaseEntity: api.BaseEntity{ID: 1}, Name: "Upper"},
		{BaseEntity: api.BaseEntity{ID: 2}, Name: "Lower"},
		{BaseEntity: api.BaseEntity{ID: 3}, Name: "Long head"},
	}
	b.Muscles = []api.Muscle{
		{BaseEntity: api.BaseEntity{ID: 1}, Name: "Pectoralis major", MuscleGroupID: 1, MuscleGroupName: "Chest", RegionName: "Upper body", ExerciseAreas: []string{"Upper", "Lower"}},
		{BaseEntity: api.BaseEntity{ID: 2}, Name: "Biceps brachii", MuscleGroupID: 2, MuscleGroupName: "Arms", RegionName: "Upper body"},
		{BaseEntity: api.BaseEntity{ID: 3}, Name: "Triceps brachii", MuscleGroupID: 2, MuscleGroupName: "Arms", RegionName: "Upper body", ExerciseAreas: []string{"Long head"}},
		{BaseEntity: api.BaseEntity{ID: 4}, Name: "Quadriceps", MuscleGroupID: 3, MuscleGroupName: "Legs", RegionName: "Lower body"},
		{BaseEntity: api.BaseEntity{ID: 5}, Name: "Hamstrings", MuscleGroupID: 3, MuscleGroupName: "Legs", RegionName: "Lower body"},
	}

	b.Exercises[1] = &api.Exercise{
		BaseEntity: api.BaseEntity{ID: 1},
		Name:       "Bench Press",
		Type:       api.ExerciseTypeReps,
		Muscles: []api.ExerciseMuscle{
			{ExerciseID: 1, MuscleID: 1, MuscleName: "Pectoralis major", Percentage: 80},
			{ExerciseID: 1, MuscleID: 3, MuscleName: "Triceps brachii", Percentage: 20},
		},
	}
	b.Exercises[2] = &api.Exercise{
		BaseEntity: api.BaseEntity{ID: 2},
		Name:       "Wall Sit",
		Type:       api.ExerciseTypeIsometric,
		Muscles: []api.ExerciseMuscle{
			{ExerciseID: 2, MuscleID: 4, MuscleName: "Quadriceps", Percentage: 100},
		},
	}
	b.Exercises[3] = &api.Exercise{
		BaseEntity: api.BaseEntity{ID: 3},
		Name:       "Nordic Curl",
		Type:       api.ExerciseTypeEccentric,
		Muscles: []api.ExerciseMuscle{
			{ExerciseID: 3, MuscleID: 5, MuscleName: "Hamstrings", Percentage: 100},
		},
	}

	now := time.Now().UTC().Truncate(time.Second)
	b.Workouts[10] = &api.Workout{ID: 10, Name: "Push day", UserID: 1, CreatedWhen: now, ModifiedWhen: now}
	b.Workouts[11] = &api.Workout{ID: 11, Name: "Leg day", UserID: 1, CreatedWhen: now, ModifiedWhen: now}

	faker := gofakeit.New(42)
	b.Users = []api.User{
		{BaseEntity: api.BaseEntity{ID: 1, Version: 1, CreatedWhen: now, ModifiedWhen: now}, Email: "admin@goliath.test", Role: api.RoleAdmin},
	}
	for id := 2; id <= 4; id++ {
		b.Users = append(b.Users, api.User{
			BaseEntity: api.BaseEntity{ID: id, Version: 1, CreatedWhen: now, ModifiedWhen: now},
			Email:      faker.Email(),
			Role:       api.RoleUser,
		})
	}
}
