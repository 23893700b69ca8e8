package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/internal/workouts"
	"github.com/c7d5a6/goliath/pkg"

	"github.com/spf13/cobra"
)

func (c *cli) newWorkoutsCommand() *cobra.Command {
	workoutsCmd := &cobra.Command{
		Use:   "workouts",
		Short: "Manage your workouts",
	}

	workoutsCmd.AddCommand(c.newListCommand("list", "List your workouts", func(cmd *cobra.Command, flags listFlags) error {
		view := workouts.NewView(c.env.Client)
		defer view.Close()
		return showList(cmd, view, flags, c.width())
	}))
	workoutsCmd.AddCommand(c.newWorkoutAddCommand())
	workoutsCmd.AddCommand(c.newWorkoutRenameCommand())
	workoutsCmd.AddCommand(c.newWorkoutDeleteCommand())
	workoutsCmd.AddCommand(c.newWorkoutExercisesCommand())

	return workoutsCmd
}

func (c *cli) confirmer(yes bool) listview.Confirmer {
	if yes {
		return assumeYes{}
	}
	return c.env.Prompter
}

func (c *cli) newWorkoutAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add [NAME]",
		Short: "Create a workout",
		Args:  cobra.MaximumNArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			nav := &router{}
			form := workouts.NewForm(c.env.Client, c, nav)

			name, err := c.argOrPrompt(args, 0, "Workout name", "")
			if err != nil {
				return err
			}
			form.SetName(name)

			if err := form.Submit(cmd.Context()); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Created workout %q (id %d)", form.Committed(), form.WorkoutID())
			return c.follow(cmd, nav)
		}),
	}
}

func (c *cli) newWorkoutRenameCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "rename WORKOUT_ID [NAME]",
		Short: "Rename a workout",
		Args:  cobra.RangeArgs(1, 2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("workout", args[0])
			if err != nil {
				return err
			}

			nav := &router{}
			form := workouts.NewEditForm(c.env.Client, c, nav, id)
			if err := form.Load(cmd.Context()); err != nil {
				return fmt.Errorf("load workout: %w", err)
			}

			name, err := c.argOrPrompt(args, 1, "Workout name", form.Name())
			if err != nil {
				return err
			}
			form.SetName(name)

			if err := form.Submit(cmd.Context()); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Renamed workout %d to %q", id, form.Committed())
			return c.follow(cmd, nav)
		}),
	}
}

func (c *cli) newWorkoutDeleteCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "delete WORKOUT_ID",
		Short: "Delete a workout",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID("workout", args[0])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			view := workouts.NewView(c.env.Client)
			defer view.Close()
			if err := view.Load(api.Fresh(ctx)); err != nil {
				return err
			}

			var target *api.Workout
			for _, w := range view.Items() {
				if w.ID == id {
					target = &w
					break
				}
			}
			if target == nil {
				return fmt.Errorf("workout %d not found", id)
			}

			deleted, err := workouts.Delete(ctx, view, *target, c.confirmer(yes), c.env.Client)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if !deleted {
				warn(w, "Cancelled")
				return nil
			}
			success(w, "Deleted workout %q", target.Name)
			titleColor.Fprintln(w, strings.ToUpper(view.Title()))
			return view.Render(w, c.width())
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func (c *cli) argOrPrompt(args []string, i int, message, defaultValue string) (string, error) {
	if len(args) > i {
		return args[i], nil
	}
	return c.env.Prompter.Input(message, defaultValue)
}

func (c *cli) newWorkoutExercisesCommand() *cobra.Command {
	exercisesCmd := &cobra.Command{
		Use:   "exercises",
		Short: "Manage the exercises of a workout",
	}

	var flags listFlags
	listCmd := &cobra.Command{
		Use:   "list WORKOUT_ID",
		Short: "List the exercises of a workout in order",
		Args:  cobra.ExactArgs(1),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			editor, err := c.newEditor(args[0])
			if err != nil {
				return err
			}
			defer editor.Close()

			view := attachedView(func(ctx context.Context) ([]api.WorkoutExercise, error) {
				if err := editor.Load(ctx); err != nil {
					return nil, err
				}
				return editor.Attached(), nil
			})
			defer view.Close()
			return showList(cmd, view, flags, c.width())
		}),
	}
	flags.register(listCmd)

	exercisesCmd.AddCommand(listCmd)
	exercisesCmd.AddCommand(c.newWorkoutExerciseAddCommand())
	exercisesCmd.AddCommand(c.newWorkoutExerciseEditCommand())
	exercisesCmd.AddCommand(c.newWorkoutExerciseRemoveCommand())

	return exercisesCmd
}

func (c *cli) newEditor(workoutArg string) (*workouts.ExercisesEditor, error) {
	id, err := parseID("workout", workoutArg)
	if err != nil {
		return nil, err
	}
	return workouts.NewExercisesEditor(c.env.Client, id), nil
}

// showAttached renders the rows the editor already holds.
func (c *cli) showAttached(cmd *cobra.Command, editor *workouts.ExercisesEditor) error {
	view := attachedView(func(context.Context) ([]api.WorkoutExercise, error) {
		return editor.Attached(), nil
	})
	defer view.Close()
	return showList(cmd, view, listFlags{}, c.width())
}

func (c *cli) newWorkoutExerciseAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add WORKOUT_ID [EXERCISE_ID]",
		Short: "Append an exercise to a workout",
		Long:  "Append an exercise to a workout with default sets and reps (or duration). Without EXERCISE_ID the catalog is searched interactively.",
		Args:  cobra.RangeArgs(1, 2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			editor, err := c.newEditor(args[0])
			if err != nil {
				return err
			}
			defer editor.Close()

			ctx := cmd.Context()
			if err := editor.Load(ctx); err != nil {
				return fmt.Errorf("load workout exercises: %w", err)
			}

			var exercise api.Exercise
			if len(args) > 1 {
				id, err := parseID("exercise", args[1])
				if err != nil {
					return err
				}
				exercise.ID = id
			} else if exercise, err = c.pickExercise(cmd, editor); err != nil {
				return err
			}

			if err := editor.Add(ctx, exercise.ID); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Added exercise %d", exercise.ID)
			return c.showAttached(cmd, editor)
		}),
	}
}

func (c *cli) pickExercise(cmd *cobra.Command, editor *workouts.ExercisesEditor) (api.Exercise, error) {
	p := c.env.Prompter
	for {
		query, err := p.Input("Search an exercise", "")
		if err != nil {
			return api.Exercise{}, err
		}

		editor.SetQuery(query)
		suggestions := editor.Suggestions()
		if len(suggestions) == 0 {
			warn(cmd.OutOrStdout(), "No exercises match %q", strings.TrimSpace(query))
			continue
		}

		options := make([]string, len(suggestions))
		for i, e := range suggestions {
			options[i] = fmt.Sprintf("%s (%s)", e.Name, e.Type)
		}
		chosen, err := p.Select("Exercise", options, options[0])
		if err != nil {
			return api.Exercise{}, err
		}
		return suggestions[indexOf(options, chosen)], nil
	}
}

type rowFlags struct {
	position int
	sets     int
	reps     int
	time     int
	weight   float64
	notes    string
}

func (c *cli) newWorkoutExerciseEditCommand() *cobra.Command {
	var flags rowFlags
	cmd := &cobra.Command{
		Use:   "edit WORKOUT_ID ROW_ID",
		Short: "Change the parameters of an exercise in a workout",
		Long:  "Change position, sets, reps, duration, weight or notes of one row. Without flags every parameter is prompted for.",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			editor, err := c.newEditor(args[0])
			if err != nil {
				return err
			}
			defer editor.Close()
			rowID, err := parseID("row", args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := editor.Load(ctx); err != nil {
				return fmt.Errorf("load workout exercises: %w", err)
			}
			if err := editor.StartEdit(rowID); err != nil {
				return err
			}

			if !anyChanged(cmd, "position", "sets", "reps", "time", "weight", "notes") {
				if err := c.promptRow(editor); err != nil {
					editor.CancelEdit()
					return err
				}
			} else {
				applyRowFlags(cmd, editor, flags)
			}

			if err := editor.SaveEdit(ctx); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Updated row %d", rowID)
			return c.showAttached(cmd, editor)
		}),
	}

	cmd.Flags().IntVar(&flags.position, "position", 0, "position in the workout")
	cmd.Flags().IntVar(&flags.sets, "sets", 0, "sets (rep based exercises)")
	cmd.Flags().IntVar(&flags.reps, "reps", 0, "reps per set (rep based exercises)")
	cmd.Flags().IntVar(&flags.time, "time", 0, "duration in seconds (eccentric and isometric exercises)")
	cmd.Flags().Float64Var(&flags.weight, "weight", 0, "weight, 0 clears it")
	cmd.Flags().StringVar(&flags.notes, "notes", "", "free text notes")

	return cmd
}

func applyRowFlags(cmd *cobra.Command, editor *workouts.ExercisesEditor, flags rowFlags) {
	changed := cmd.Flags().Changed
	editor.UpdateEdit(func(edit *workouts.RowEdit) {
		if changed("position") {
			edit.Position = flags.position
		}
		if changed("sets") {
			edit.Sets = flags.sets
		}
		if changed("reps") {
			edit.Reps = flags.reps
		}
		if changed("time") {
			edit.TimeSeconds = flags.time
		}
		if changed("weight") {
			edit.Weight = nil
			if flags.weight > 0 {
				w := flags.weight
				edit.Weight = &w
			}
		}
		if changed("notes") {
			edit.Notes = flags.notes
		}
	})
}

func (c *cli) promptRow(editor *workouts.ExercisesEditor) error {
	p := c.env.Prompter
	edit := editor.Editing()

	askInt := func(message string, current int) (int, error) {
		answer, err := p.Input(message, strconv.Itoa(current))
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(strings.TrimSpace(answer))
		if err != nil {
			return 0, fmt.Errorf("%s: %q is not a number", strings.ToLower(message), answer)
		}
		return n, nil
	}

	var err error
	if edit.ExerciseType.RepBased() {
		if edit.Sets, err = askInt("Sets", edit.Sets); err != nil {
			return err
		}
		if edit.Reps, err = askInt("Reps", edit.Reps); err != nil {
			return err
		}
	} else if edit.TimeSeconds, err = askInt("Duration (seconds)", edit.TimeSeconds); err != nil {
		return err
	}

	current := ""
	if edit.Weight != nil {
		current = formatWeight(*edit.Weight)
	}
	weight, err := p.Input("Weight (empty for none)", current)
	if err != nil {
		return err
	}
	edit.Weight = nil
	if weight = strings.TrimSpace(weight); weight != "" {
		w, err := strconv.ParseFloat(weight, 64)
		if err != nil {
			return fmt.Errorf("weight: %q is not a number", weight)
		}
		edit.Weight = &w
	}

	if edit.Notes, err = p.Input("Notes", edit.Notes); err != nil {
		return err
	}

	editor.UpdateEdit(func(e *workouts.RowEdit) { *e = *edit })
	return nil
}

func (c *cli) newWorkoutExerciseRemoveCommand() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "remove WORKOUT_ID ROW_ID",
		Short: "Remove an exercise from a workout",
		Args:  cobra.ExactArgs(2),
		RunE: c.run(func(cmd *cobra.Command, args []string) error {
			editor, err := c.newEditor(args[0])
			if err != nil {
				return err
			}
			defer editor.Close()
			rowID, err := parseID("row", args[1])
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if err := editor.Load(ctx); err != nil {
				return fmt.Errorf("load workout exercises: %w", err)
			}

			removed, err := editor.Remove(ctx, rowID, c.confirmer(yes))
			if err != nil {
				return err
			}
			if !removed {
				warn(cmd.OutOrStdout(), "Cancelled")
				return nil
			}
			success(cmd.OutOrStdout(), "Removed row %d", rowID)
			return c.showAttached(cmd, editor)
		}),
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

func attachedView(fetch func(ctx context.Context) ([]api.WorkoutExercise, error)) *listview.View[api.WorkoutExercise] {
	return listview.New(listview.Params[api.WorkoutExercise]{
		Title: "workout exercises",
		Fetch: fetch,
		Match: func(we api.WorkoutExercise, q string) bool {
			return pkg.ContainsFold(we.ExerciseName, q) || pkg.ContainsFold(string(we.ExerciseType), q)
		},
		Columns: []listview.Column[api.WorkoutExercise]{
			{Header: "Pos", Value: func(we api.WorkoutExercise) string { return strconv.Itoa(we.Position) }},
			{Header: "Row", Value: func(we api.WorkoutExercise) string { return strconv.Itoa(we.ID) }},
			{Header: "Exercise", Value: func(we api.WorkoutExercise) string { return we.ExerciseName }},
			{Header: "Type", Value: func(we api.WorkoutExercise) string { return string(we.ExerciseType) }},
			{Header: "Sets", Value: func(we api.WorkoutExercise) string { return intOrDash(we.Sets) }},
			{Header: "Reps", Value: func(we api.WorkoutExercise) string { return intOrDash(we.Reps) }},
			{Header: "Time", Value: func(we api.WorkoutExercise) string { return secondsOrDash(we.TimeSeconds) }},
			{Header: "Weight", Value: func(we api.WorkoutExercise) string {
				if we.Weight == nil {
					return "-"
				}
				return formatWeight(*we.Weight)
			}},
			{Header: "Notes", Value: func(we api.WorkoutExercise) string {
				if we.Notes == nil {
					return ""
				}
				return pkg.Truncate(*we.Notes, 40)
			}},
		},
		EmptyMessage:       "No exercises in this workout yet.",
		EmptySearchMessage: "No exercises in this workout match %q.",
	})
}

func intOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v)
}

func secondsOrDash(v *int) string {
	if v == nil {
		return "-"
	}
	return strconv.Itoa(*v) + "s"
}

func formatWeight(w float64) string {
	return strconv.FormatFloat(w, 'f', -1, 64)
}

func anyChanged(cmd *cobra.Command, names ...string) bool {
	for _, name := range names {
		if cmd.Flags().Lookup(name) != nil && cmd.Flags().Changed(name) {
			return true
		}
	}
	return false
}
