package exercises

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/pkg"
)

const ListPath = "/exercises"

type lister interface {
	Exercises(ctx context.Context) ([]api.Exercise, error)
}

// Match searches the name, the type and the names of the worked muscles.
func Match(e api.Exercise, query string) bool {
	if pkg.ContainsFold(e.Name, query) || pkg.ContainsFold(string(e.Type), query) {
		return true
	}
	for _, m := range e.Muscles {
		if pkg.ContainsFold(m.MuscleName, query) {
			return true
		}
	}
	return false
}

func Columns() []listview.Column[api.Exercise] {
	return []listview.Column[api.Exercise]{
		{Header: "ID", Value: func(e api.Exercise) string { return strconv.Itoa(e.ID) }},
		{Header: "Name", Value: func(e api.Exercise) string { return e.Name }},
		{Header: "Type", Value: func(e api.Exercise) string { return string(e.Type) }},
		{Header: "Muscles", Value: muscleSummary},
	}
}

func muscleSummary(e api.Exercise) string {
	parts := make([]string, 0, len(e.Muscles))
	for _, m := range e.Muscles {
		parts = append(parts, fmt.Sprintf("%s %s%%", m.MuscleName, strconv.FormatFloat(m.Percentage, 'f', -1, 64)))
	}
	return strings.Join(parts, ", ")
}

func NewView(c lister) *listview.View[api.Exercise] {
	return listview.New(listview.Params[api.Exercise]{
		Title:              "exercises",
		Fetch:              c.Exercises,
		Match:              Match,
		Columns:            Columns(),
		EmptyMessage:       "No exercises yet. Add the first one.",
		EmptySearchMessage: "No exercises match %q.",
	})
}
