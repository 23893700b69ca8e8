package users

import (
	"context"
	"strconv"

	"github.com/c7d5a6/goliath/internal/api"
	"github.com/c7d5a6/goliath/internal/listview"
	"github.com/c7d5a6/goliath/internal/reactive"
	"github.com/c7d5a6/goliath/pkg"
)

type lister interface {
	Users(ctx context.Context) ([]api.User, error)
}

// Match searches the email, the role and the id.
func Match(u api.User, query string) bool {
	return pkg.ContainsFold(u.Email, query) ||
		pkg.ContainsFold(string(u.Role), query) ||
		pkg.ContainsFold(strconv.Itoa(u.ID), query)
}

func Columns() []listview.Column[api.User] {
	return []listview.Column[api.User]{
		{Header: "ID", Value: func(u api.User) string { return strconv.Itoa(u.ID) }},
		{Header: "Email", Value: func(u api.User) string { return u.Email }},
		{Header: "Role", Value: func(u api.User) string { return string(u.Role) }},
		{Header: "Version", Value: func(u api.User) string { return strconv.Itoa(u.Version) }},
		{Header: "Created", Value: func(u api.User) string { return u.CreatedWhen.Local().Format("2006-01-02") }},
	}
}

type Counts struct {
	Admins int
	Users  int
}

// View is the users list plus role counts over every fetched user.
type View struct {
	*listview.View[api.User]
	counts *reactive.Memo[Counts]
}

func NewView(c lister) *View {
	lv := listview.New(listview.Params[api.User]{
		Title:              "users",
		Fetch:              c.Users,
		Match:              Match,
		Columns:            Columns(),
		EmptyMessage:       "No users found.",
		EmptySearchMessage: "No users match %q.",
	})

	v := &View{View: lv}
	v.counts = reactive.NewMemo(func() Counts {
		var counts Counts
		for _, u := range lv.Items() {
			switch u.Role {
			case api.RoleAdmin:
				counts.Admins++
			case api.RoleUser:
				counts.Users++
			}
		}
		return counts
	}, lv.ItemsSource())

	return v
}

func (v *View) Counts() Counts {
	return v.counts.Get()
}

func (v *View) Close() {
	v.counts.Close()
	v.View.Close()
}
