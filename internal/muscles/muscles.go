package muscles

import (
	"context"
	"strconv"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/pkg"
)

type catalog interface {
	Muscles(ctx context.Context) ([]api.Muscle, error)
}

// Match searches the name, the muscle group and every exercise area.
func Match(m api.Muscle, query string) bool {
	if pkg.ContainsFold(m.Name, query) || pkg.ContainsFold(m.MuscleGroupName, query) {
		return true
	}
	for _, area := range m.ExerciseAreas {
		if pkg.ContainsFold(area, query) {
			return true
		}
	}
	return false
}

func Columns() []listview.Column[api.Muscle] {
	return []listview.Column[api.Muscle]{
		{Header: "ID", Value: func(m api.Muscle) string { return strconv.Itoa(m.ID) }},
		{Header: "Name", Value: func(m api.Muscle) string { return m.Name }},
		{Header: "Group", Value: func(m api.Muscle) string { return m.MuscleGroupName }},
		{Header: "Region", Value: func(m api.Muscle) string { return m.RegionName }},
		{Header: "Areas", Value: func(m api.Muscle) string { return strings.Join(m.ExerciseAreas, ", ") }},
	}
}

func NewView(c catalog) *listview.View[api.Muscle] {
	return listview.New(listview.Params[api.Muscle]{
		Title:              "muscles",
		Fetch:              c.Muscles,
		Match:              Match,
		Columns:            Columns(),
		EmptyMessage:       "No muscles found.",
		EmptySearchMessage: "No muscles match %q.",
	})
}
