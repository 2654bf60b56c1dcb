package cli

import (
	"fmt"

	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
)

func (a *App) printList() {
	s := a.catalog.State()

	switch {
	case len(s.Items) == 0 && s.Query != "":
		fmt.Fprintf(a.out, "No papers match %q.\n", s.Query)
	case len(s.Items) == 0:
		fmt.Fprintln(a.out, "No papers yet.")
	}

	for _, p := range s.Items {
		fmt.Fprintf(a.out, "#%-6d %s\n", p.ID, p.Subject)
	}

	switch {
	case s.FromCache:
		fmt.Fprintln(a.out, "-- cached list, not yet confirmed by the server (type 'more' to retry) --")
	case s.HasMore && s.Query == "" && len(s.Items) > 0:
		fmt.Fprintf(a.out, "-- page %d, type 'more' for older papers --\n", s.Page)
	}
}

func (a *App) printDetail(d *models.PaperDetail) {
	fmt.Fprintf(a.out, "#%d %s\n", d.ID, d.Subject)
	fmt.Fprintf(a.out, "  College:     %s\n", d.College)
	fmt.Fprintf(a.out, "  Course:      %s\n", d.Course)
	fmt.Fprintf(a.out, "  Semester:    %d\n", d.Semester)
	fmt.Fprintf(a.out, "  Description: %s\n", d.Description)
	if d.FileURL != "" {
		fmt.Fprintf(a.out, "  File:        %s\n", d.FileURL)
	}
	if d.PreviewImageURL != "" {
		fmt.Fprintf(a.out, "  Preview:     %s\n", d.PreviewImageURL)
	}
	if d.IsOwnedBy(a.session.Email()) {
		fmt.Fprintln(a.out, "  You uploaded this paper: 'edit' and 'delete' are available.")
	}
}
