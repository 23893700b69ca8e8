package listview

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
)

// CompactWidth is the narrowest terminal, in columns, that still gets a table.
const CompactWidth = 80

func (v *View[T]) Render(w io.Writer, width int) error {
	st := v.state.Get()

	if st.banner != nil {
		if _, err := fmt.Fprintf(w, "! %s\n", st.banner); err != nil {
			return err
		}
	}

	switch st.status {
	case StatusLoading:
		_, err := fmt.Fprintln(w, "Loading...")
		return err
	case StatusError:
		_, err := fmt.Fprintf(w, "Error: %s\nTry again to reload.\n", st.loadErr)
		return err
	}

	switch v.Mode() {
	case ModeEmptyCollection:
		_, err := fmt.Fprintln(w, v.params.EmptyMessage)
		return err
	case ModeEmptySearch:
		_, err := fmt.Fprintf(w, v.params.EmptySearchMessage+"\n", strings.TrimSpace(v.Search()))
		return err
	}

	rows := v.Filtered()
	if width >= CompactWidth {
		return v.renderTable(w, rows)
	}
	return v.renderCards(w, rows)
}

func (v *View[T]) renderTable(w io.Writer, rows []T) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	headers := make([]string, len(v.params.Columns))
	for i, c := range v.params.Columns {
		headers[i] = strings.ToUpper(c.Header)
	}
	fmt.Fprintln(tw, strings.Join(headers, "\t"))

	cells := make([]string, len(v.params.Columns))
	for _, row := range rows {
		for i, c := range v.params.Columns {
			cells[i] = c.Value(row)
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}

	return tw.Flush()
}

func (v *View[T]) renderCards(w io.Writer, rows []T) error {
	for i, row := range rows {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}
		for _, c := range v.params.Columns {
			if _, err := fmt.Fprintf(w, "%s: %s\n", c.Header, c.Value(row)); err != nil {
				return err
			}
		}
	}
	return nil
}
