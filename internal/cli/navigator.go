package cli

import (
	"github.com/c7d5a6/goliath/internal/exercises"
	"github.com/c7d5a6/goliath/internal/login"
	"github.com/c7d5a6/goliath/internal/workouts"

	"github.com/spf13/cobra"
)

// router remembers where the last view asked to go; follow shows that screen.
type router struct {
	path string
}

func (r *router) Navigate(path string) {
	r.path = path
}

func (c *cli) follow(cmd *cobra.Command, r *router) error {
	switch r.path {
	case "":
		return nil
	case exercises.ListPath:
		view := exercises.NewView(c.env.Client)
		defer view.Close()
		return showList(cmd, view, listFlags{fresh: true}, c.width())
	case workouts.ListPath:
		view := workouts.NewView(c.env.Client)
		defer view.Close()
		return showList(cmd, view, listFlags{fresh: true}, c.width())
	case login.HomePath:
		c.printWhoami(cmd.OutOrStdout())
		return nil
	default:
		warn(cmd.ErrOrStderr(), "nothing to show at %s", r.path)
		return nil
	}
}
