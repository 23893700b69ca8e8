package workouts

import (
	"context"
	"fmt"
	"strconv"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/pkg"
)

const (
	ListPath   = "/workouts"
	dateLayout = "2006-01-02 15:04"
)

type lister interface {
	Workouts(ctx context.Context) ([]api.Workout, error)
}

type deleter interface {
	DeleteWorkout(ctx context.Context, id int) (*api.MessageResponse, error)
}

func Match(w api.Workout, query string) bool {
	return pkg.ContainsFold(w.Name, query)
}

func Columns() []listview.Column[api.Workout] {
	return []listview.Column[api.Workout]{
		{Header: "ID", Value: func(w api.Workout) string { return strconv.Itoa(w.ID) }},
		{Header: "Name", Value: func(w api.Workout) string { return w.Name }},
		{Header: "Created", Value: func(w api.Workout) string { return w.CreatedWhen.Local().Format(dateLayout) }},
		{Header: "Modified", Value: func(w api.Workout) string { return w.ModifiedWhen.Local().Format(dateLayout) }},
	}
}

func NewView(c lister) *listview.View[api.Workout] {
	return listview.New(listview.Params[api.Workout]{
		Title:              "workouts",
		Fetch:              c.Workouts,
		Match:              Match,
		Columns:            Columns(),
		EmptyMessage:       "No workouts yet. Create your first one.",
		EmptySearchMessage: "No workouts match %q.",
	})
}

// Delete removes w after the user confirmed it and reloads the list.
func Delete(ctx context.Context, view *listview.View[api.Workout], w api.Workout, c listview.Confirmer, client deleter) (bool, error) {
	prompt := fmt.Sprintf("Delete workout %q?", w.Name)
	return view.Delete(ctx, w, prompt, c, func(ctx context.Context, w api.Workout) error {
		_, err := client.DeleteWorkout(ctx, w.ID)
		return err
	})
}
