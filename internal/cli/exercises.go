package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/exercises"

	"github.com/spf13/cobra"
)

var starOptions = []string{"1", "2", "3", "4", "5"}

type exerciseFlags struct {
	name          string
	exerciseType  string
	muscles       []string
	removeMuscles []int
}

func (f *exerciseFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "exercise name")
	cmd.Flags().StringVar(&f.exerciseType, "type", "", "exercise type (Reps, Eccentric, Isometric)")
	cmd.Flags().StringSliceVar(&f.muscles, "muscle", nil, "attach a muscle as ID or ID:STARS (1-5 stars, 20% each)")
}

// interactive reports whether no field was given on the command line.
func (f *exerciseFlags) interactive(cmd *cobra.Command) bool {
	return !anyChanged(cmd, "name", "type", "muscle", "remove-muscle")
}

func (c *cli) newExercisesCommand() *cobra.Command {
	exercisesCmd := &cobra.Command{
		Use:   "exercises",
		Short: "List, add and edit exercises",
	}

	exercisesCmd.AddCommand(c.newListCommand("list", "List the exercises", func(cmd *cobra.Command, flags listFlags) error {
		view := exercises.NewView(c.env.Client)
		defer view.Close()
		return showList(cmd, view, flags, c.width())
	}))
	exercisesCmd.AddCommand(c.newExerciseAddCommand())
	exercisesCmd.AddCommand(c.newExerciseEditCommand())

	return exercisesCmd
}

func (c *cli) newExerciseAddCommand() *cobra.Command {
	var flags exerciseFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create an exercise",
		Long:  "Create an exercise. Without flags every field is prompted for.",
		Args:  cobra.NoArgs,
		RunE: c.run(func(cmd *cobra.Command, _ []string) error {
			nav := &router{}
			form := exercises.NewForm(c.env.Client, nav)
			defer form.Close()

			return c.fillAndSubmitExercise(cmd, form, nav, flags)
		}),
	}
	flags.register(cmd)
	return cmd
}

func (c *cli) newExerciseEditCommand() *cobra.Command {
	var flags exerciseFlags
	cmd := &cobra.Command{
		Use:   "edit EXERCISE_ID",
		Short: "Edit an exercise",
		Long:  "Edit an exercise. Flags change only the given fields; without flags every field is prompted for.",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("exercise", args[0])
			if err != nil {
				return err
			}

			nav := &router{}
			form := exercises.NewEditForm(c.env.Client, nav, id)
			defer form.Close()

			return c.fillAndSubmitExercise(cmd, form, nav, flags)
		}),
	}
	flags.register(cmd)
	cmd.Flags().IntSliceVar(&flags.removeMuscles, "remove-muscle", nil, "detach the muscle with this ID")
	return cmd
}

func (c *cli) fillAndSubmitExercise(cmd *cobra.Command, form *exercises.Form, nav *router, flags exerciseFlags) error {
	if err := form.Load(cmd.Context()); err != nil {
		return fmt.Errorf("load exercise form: %w", err)
	}

	if flags.interactive(cmd) {
		if err := c.promptExercise(cmd, form); err != nil {
			return err
		}
	} else if err := applyExerciseFlags(cmd, form, flags); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "muscles total: %.0f%%\n", form.TotalPercentage())
	if err := form.Submit(cmd.Context()); err != nil {
		return err
	}

	name := strings.TrimSpace(form.Committed().Name)
	if form.Editing() {
		success(w, "Updated exercise %q", name)
	} else {
		success(w, "Created exercise %q", name)
	}
	return c.follow(cmd, nav)
}

func applyExerciseFlags(cmd *cobra.Command, form *exercises.Form, flags exerciseFlags) error {
	if cmd.Flags().Changed("name") {
		form.SetName(flags.name)
	}
	if cmd.Flags().Changed("type") {
		t, err := matchType(form.Types(), flags.exerciseType)
		if err != nil {
			return err
		}
		form.SetType(t)
	}
	for _, id := range flags.removeMuscles {
		form.RemoveMuscle(id)
	}
	for _, spec := range flags.muscles {
		muscleID, stars, err := parseMuscleSpec(spec)
		if err != nil {
			return err
		}
		if err := form.AddMuscle(muscleID); err != nil {
			return err
		}
		if stars > 0 {
			if err := form.SetStars(muscleID, stars); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *cli) promptExercise(cmd *cobra.Command, form *exercises.Form) error {
	p := c.env.Prompter
	draft := form.Draft()

	name, err := p.Input("Name", draft.Name)
	if err != nil {
		return err
	}
	form.SetName(name)

	types := make([]string, 0, len(form.Types()))
	for _, t := range form.Types() {
		types = append(types, string(t))
	}
	if len(types) > 0 {
		chosen, err := p.Select("Type", types, string(draft.Type))
		if err != nil {
			return err
		}
		form.SetType(api.ExerciseType(chosen))
	}

	w := cmd.OutOrStdout()
	for _, m := range draft.Muscles {
		fmt.Fprintf(w, "attached: %s (%s) %s\n", m.Name, m.GroupName, stars(m.Stars()))
	}

	for {
		query, err := p.Input("Search a muscle to attach (empty to finish)", "")
		if err != nil {
			return err
		}
		if strings.TrimSpace(query) == "" {
			return nil
		}

		form.SetQuery(query)
		suggestions := form.Suggestions()
		if len(suggestions) == 0 {
			warn(w, "No muscles match %q", strings.TrimSpace(query))
			continue
		}

		options := make([]string, len(suggestions))
		for i, m := range suggestions {
			options[i] = fmt.Sprintf("%s (%s)", m.Name, m.MuscleGroupName)
		}
		chosen, err := p.Select("Muscle", options, options[0])
		if err != nil {
			return err
		}
		muscle := suggestions[indexOf(options, chosen)]
		if err := form.AddMuscle(muscle.ID); err != nil {
			return err
		}

		starsAnswer, err := p.Select("Contribution (stars, 20% each)", starOptions, starOptions[0])
		if err != nil {
			return err
		}
		n, _ := strconv.Atoi(starsAnswer)
		if err := form.SetStars(muscle.ID, n); err != nil {
			return err
		}
		fmt.Fprintf(w, "total: %.0f%%\n", form.TotalPercentage())
	}
}

// parseMuscleSpec reads "ID" or "ID:STARS"; stars is 0 when not given.
func parseMuscleSpec(spec string) (muscleID, stars int, err error) {
	idPart, starsPart, hasStars := strings.Cut(strings.TrimSpace(spec), ":")
	muscleID, err = strconv.Atoi(idPart)
	if err != nil || muscleID <= 0 {
		return 0, 0, fmt.Errorf("invalid muscle %q, want ID or ID:STARS", spec)
	}
	if !hasStars {
		return muscleID, 0, nil
	}
	stars, err = strconv.Atoi(starsPart)
	if err != nil || stars < 1 || stars > exercises.MaxStars {
		return 0, 0, fmt.Errorf("invalid stars in %q, want 1 to %d", spec, exercises.MaxStars)
	}
	return muscleID, stars, nil
}

func matchType(types []api.ExerciseType, s string) (api.ExerciseType, error) {
	for _, t := range types {
		if strings.EqualFold(string(t), strings.TrimSpace(s)) {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown exercise type %q", s)
}

func stars(n int) string {
	n = max(0, min(n, exercises.MaxStars))
	return strings.Repeat("*", n) + strings.Repeat(".", exercises.MaxStars-n)
}

func parseID(what, s string) (int, error) {
	id, err := strconv.Atoi(s)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid %s id %q", what, s)
	}
	return id, nil
}

func indexOf(options []string, s string) int {
	for i, o := range options {
		if o == s {
			return i
		}
	}
	return 0
}
