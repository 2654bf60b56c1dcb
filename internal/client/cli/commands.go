package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrijs2005/paperkeeper/internal/client/catalog"
	"github.com/dmitrijs2005/paperkeeper/internal/client/models"
	"github.com/dmitrijs2005/paperkeeper/internal/client/services"
)

// settleTimeout bounds how long a command waits for a debounced search.
const settleTimeout = 30 * time.Second

var avatarChoices = map[string]int{"1": 1, "2": 2}

func (a *App) List(ctx context.Context) error {
	a.printList()
	return nil
}

func (a *App) More(ctx context.Context) error {
	if err := a.catalog.LoadMore(ctx); err != nil {
		a.report(err)
		return err
	}
	a.printList()
	return nil
}

func (a *App) Search(ctx context.Context, query string) error {
	if err := a.catalog.SetQuery(query); err != nil {
		a.report(err)
		return err
	}
	if err := a.awaitSettled(ctx, strings.TrimSpace(query)); err != nil {
		a.report(err)
		return err
	}
	a.printList()
	return nil
}

func (a *App) Clear(ctx context.Context) error {
	return a.Search(ctx, "")
}

func (a *App) Refresh(ctx context.Context) error {
	if err := a.catalog.Refresh(ctx); err != nil {
		a.report(err)
		return err
	}
	a.printList()
	return nil
}

func (a *App) Show(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		a.report(err)
		return err
	}
	d, err := a.catalog.OpenDetail(ctx, id)
	if err != nil {
		a.report(err)
		return err
	}
	a.printDetail(d)
	return nil
}

func (a *App) CloseDetail(ctx context.Context) error {
	a.catalog.CloseDetail()
	return nil
}

func (a *App) Delete(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		a.report(err)
		return err
	}
	if err := a.requireOwner(ctx, id); err != nil {
		a.report(err)
		return err
	}
	if !Confirm(a.reader, fmt.Sprintf("Delete paper #%d? This cannot be undone.", id), a.out) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}

	if err := a.mutations.Delete(ctx, id); err != nil {
		if errors.Is(err, catalog.ErrDeleteFailed) {
			fmt.Fprintf(a.out, "Delete failed, the paper was restored: %v\n", err)
		} else {
			a.report(err)
		}
		return err
	}
	fmt.Fprintf(a.out, "Paper #%d deleted.\n", id)
	return nil
}

func (a *App) Upload(ctx context.Context) error {
	var d models.PaperDraft
	var err error
	ask := func(prompt string, dst *string) {
		if err == nil {
			*dst, err = GetSimpleText(a.reader, prompt, a.out)
		}
	}

	ask("College", &d.College)
	ask("Course", &d.Course)
	var sem string
	ask("Semester (1-10)", &sem)
	ask("Subject", &d.Subject)
	if err == nil {
		d.Description, err = GetMultiline(a.reader, "Description", a.out)
	}
	var doc, preview string
	ask("Document path (.pdf, .doc, .docx)", &doc)
	ask("Preview image path (optional)", &preview)
	if err != nil {
		a.report(err)
		return err
	}
	if d.Semester, err = strconv.Atoi(sem); err != nil {
		err = fmt.Errorf("%w: semester must be a number", services.ErrInvalidDraft)
		a.report(err)
		return err
	}

	created, err := a.papers.Upload(ctx, d, doc, preview)
	if err != nil {
		a.report(err)
		return err
	}
	if created != nil && created.ID > 0 {
		fmt.Fprintf(a.out, "Uploaded paper #%d.\n", created.ID)
	} else {
		fmt.Fprintln(a.out, "Uploaded.")
	}
	a.printList()
	return nil
}

func (a *App) Edit(ctx context.Context, rawID string) error {
	id, err := parseID(rawID)
	if err != nil {
		a.report(err)
		return err
	}
	cur, err := a.catalog.OpenDetail(ctx, id)
	if err != nil {
		a.report(err)
		return err
	}
	if !cur.IsOwnedBy(a.session.Email()) {
		err = fmt.Errorf("paper #%d belongs to someone else", id)
		a.report(err)
		return err
	}

	d := models.PaperDraft{}
	ask := func(prompt, current string, dst *string) {
		if err == nil {
			*dst, err = GetWithDefault(a.reader, prompt, current, a.out)
		}
	}
	ask("College", cur.College, &d.College)
	ask("Course", cur.Course, &d.Course)
	var sem string
	ask("Semester (1-10)", strconv.Itoa(cur.Semester), &sem)
	ask("Subject", cur.Subject, &d.Subject)
	ask("Description", cur.Description, &d.Description)
	var doc, preview string
	if err == nil {
		doc, err = GetSimpleText(a.reader, "New document path (Enter keeps the current one)", a.out)
	}
	if err == nil {
		preview, err = GetSimpleText(a.reader, "New preview image path (Enter keeps the current one)", a.out)
	}
	if err != nil {
		a.report(err)
		return err
	}
	if d.Semester, err = strconv.Atoi(sem); err != nil {
		err = fmt.Errorf("%w: semester must be a number", services.ErrInvalidDraft)
		a.report(err)
		return err
	}

	updated, err := a.papers.Update(ctx, id, d, doc, preview)
	if err != nil {
		a.report(err)
		return err
	}
	if updated != nil {
		a.printDetail(updated)
	} else {
		fmt.Fprintf(a.out, "Paper #%d updated.\n", id)
	}
	return nil
}

func (a *App) Avatar(ctx context.Context, arg string) error {
	switch arg {
	case "":
		if id, ok := a.prefs.Avatar(ctx); ok {
			fmt.Fprintf(a.out, "Avatar: %d\n", id)
		} else {
			fmt.Fprintln(a.out, "Avatar: default")
		}
		return nil
	case "reset":
		if err := a.prefs.ResetAvatar(ctx); err != nil {
			a.report(err)
			return err
		}
		fmt.Fprintln(a.out, "Avatar reset.")
		return nil
	}

	id, ok := avatarChoices[arg]
	if !ok {
		err := fmt.Errorf("unknown avatar %q, choose 1 or 2", arg)
		a.report(err)
		return err
	}
	if err := a.prefs.SetAvatar(ctx, id); err != nil {
		a.report(err)
		return err
	}
	fmt.Fprintf(a.out, "Avatar set to %d.\n", id)
	return nil
}

func (a *App) Verify(ctx context.Context) error {
	ok, err := a.auth.CheckNow(ctx)
	switch {
	case errors.Is(err, services.ErrVerificationDisabled):
		a.report(err)
		return err
	case err != nil:
		a.log.Warn(ctx, "verification check failed, polling", "error", err)
	}

	if !ok {
		p, err := a.auth.StartVerification(ctx)
		if err != nil {
			a.report(err)
			return err
		}
		fmt.Fprintln(a.out, "Waiting for your email to be verified...")
		<-p.Done()
		if err := p.Err(); err != nil {
			a.report(err)
			return err
		}
	}

	fmt.Fprintln(a.out, "Email verified.")
	a.start(ctx)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	s := a.catalog.State()
	email := a.session.Email()
	if email == "" {
		email = "(signed out)"
	}
	fmt.Fprintf(a.out, "Account:  %s, verified: %t\n", email, a.session.Verified())
	fmt.Fprintf(a.out, "Papers:   %d loaded, page %d, more: %t\n", len(s.Items), s.Page, s.HasMore)
	if s.Query != "" {
		fmt.Fprintf(a.out, "Search:   %q\n", s.Query)
	}
	fmt.Fprintf(a.out, "State:    %s", s.Phase)
	if s.FromCache {
		fmt.Fprint(a.out, " (cached)")
	}
	fmt.Fprintln(a.out)
	if s.Err != nil {
		fmt.Fprintf(a.out, "Last error: %v\n", s.Err)
	}
	return nil
}

// awaitSettled waits until the list shows the results for query.
func (a *App) awaitSettled(ctx context.Context, query string) error {
	ch, cancel := a.catalog.Subscribe()
	defer cancel()

	ctx, stop := context.WithTimeout(ctx, settleTimeout)
	defer stop()

	for {
		select {
		case s := <-ch:
			if s.Query == query && !s.IsLoading && s.Phase != models.PhaseSearchPending {
				return s.Err
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// requireOwner checks that the signed-in user uploaded id.
func (a *App) requireOwner(ctx context.Context, id int64) error {
	s := a.catalog.State()
	d := s.Detail
	if d == nil || d.ID != id {
		var err error
		if d, err = a.catalog.OpenDetail(ctx, id); err != nil {
			return err
		}
	}
	if !d.IsOwnedBy(a.session.Email()) {
		return fmt.Errorf("paper #%d belongs to someone else", id)
	}
	return nil
}

func (a *App) report(err error) {
	fmt.Fprintf(a.out, "Error: %v\n", err)
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid paper id %q", s)
	}
	return id, nil
}
