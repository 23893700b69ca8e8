package cli

import (
	"strconv"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/internal/muscles"
	"github.com/c7d5a6/goliath/internal/users"
	"github.com/c7d5a6/goliath/pkg"

	"github.com/spf13/cobra"
)

type listFlags struct {
	search string
	fresh  bool
}

func (f *listFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.search, "search", "s", "", "only show rows matching this text")
	cmd.Flags().BoolVar(&f.fresh, "fresh", false, "bypass the response cache")
}

// showList loads the view, applies the search and renders it. The caller closes the view. A failed load is rendered
// as the view's error state and returned as a shownError.
func showList[T any](cmd *cobra.Command, view *listview.View[T], flags listFlags, width int) error {
	ctx := cmd.Context()
	if flags.fresh {
		ctx = api.Fresh(ctx)
	}

	view.SetSearch(flags.search)
	_ = view.Load(ctx)

	w := cmd.OutOrStdout()
	titleColor.Fprintln(w, strings.ToUpper(view.Title()))
	if err := view.Render(w, width); err != nil {
		return err
	}
	if err := view.Err(); err != nil {
		return shownError{err}
	}
	return nil
}

func (c *cli) newListCommand(use, short string, show func(cmd *cobra.Command, flags listFlags) error) *cobra.Command {
	var flags listFlags
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			return show(cmd, flags)
		}),
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) newMusclesCommand() *cobra.Command {
	return c.newListCommand("muscles", "List the muscle catalog", func(cmd *cobra.Command, flags listFlags) error {
		view := muscles.NewView(c.env.Client)
		defer view.Close()
		return showList(cmd, view, flags, c.width())
	})
}

func (c *cli) newRegionsCommand() *cobra.Command {
	return c.newListCommand("regions", "List the body regions", func(cmd *cobra.Command, flags listFlags) error {
		view := listview.New(listview.Params[api.Region]{
			Title: "regions",
			Fetch: c.env.Client.Regions,
			Match: func(r api.Region, q string) bool { return pkg.ContainsFold(r.Name, q) },
			Columns: []listview.Column[api.Region]{
				{Header: "ID", Value: func(r api.Region) string { return strconv.Itoa(r.ID) }},
				{Header: "Name", Value: func(r api.Region) string { return r.Name }},
			},
			EmptyMessage:       "No regions found.",
			EmptySearchMessage: "No regions match %q.",
		})
		defer view.Close()
		return showList(cmd, view, flags, c.width())
	})
}

func (c *cli) newMuscleGroupsCommand() *cobra.Command {
	return c.newListCommand("muscle-groups", "List the muscle groups", func(cmd *cobra.Command, flags listFlags) error {
		view := listview.New(listview.Params[api.MuscleGroup]{
			Title: "muscle groups",
			Fetch: c.env.Client.MuscleGroups,
			Match: func(g api.MuscleGroup, q string) bool {
				return pkg.ContainsFold(g.Name, q) || pkg.ContainsFold(g.RegionName, q)
			},
			Columns: []listview.Column[api.MuscleGroup]{
				{Header: "ID", Value: func(g api.MuscleGroup) string { return strconv.Itoa(g.ID) }},
				{Header: "Name", Value: func(g api.MuscleGroup) string { return g.Name }},
				{Header: "Region", Value: func(g api.MuscleGroup) string { return g.RegionName }},
			},
			EmptyMessage:       "No muscle groups found.",
			EmptySearchMessage: "No muscle groups match %q.",
		})
		defer view.Close()
		return showList(cmd, view, flags, c.width())
	})
}

func (c *cli) newExerciseAreasCommand() *cobra.Command {
	return c.newListCommand("exercise-areas", "List the exercise areas", func(cmd *cobra.Command, flags listFlags) error {
		view := listview.New(listview.Params[api.ExerciseArea]{
			Title: "exercise areas",
			Fetch: c.env.Client.ExerciseAreas,
			Match: func(a api.ExerciseArea, q string) bool { return pkg.ContainsFold(a.Name, q) },
			Columns: []listview.Column[api.ExerciseArea]{
				{Header: "ID", Value: func(a api.ExerciseArea) string { return strconv.Itoa(a.ID) }},
				{Header: "Name", Value: func(a api.ExerciseArea) string { return a.Name }},
			},
			EmptyMessage:       "No exercise areas found.",
			EmptySearchMessage: "No exercise areas match %q.",
		})
		defer view.Close()
		return showList(cmd, view, flags, c.width())
	})
}

func (c *cli) newUsersCommand() *cobra.Command {
	return c.newListCommand("users", "List the users (admins only)", func(cmd *cobra.Command, flags listFlags) error {
		view := users.NewView(c.env.Client)
		defer view.Close()

		if err := showList(cmd, view.View, flags, c.width()); err != nil {
			return err
		}
		counts := view.Counts()
		titleColor.Fprintf(cmd.OutOrStdout(), "%d admins, %d users\n", counts.Admins, counts.Users)
		return nil
	})
}
