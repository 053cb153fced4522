package cli

import (
	"context"
	"fmt"
	"strings"

	"edupocket/internal/client/models"
)

// Use sets the school and term every subsequent command operates in.
func (a *App) Use(ctx context.Context, args []string) error {
	a.schoolID = args[0]
	a.termID = args[1]
	if len(args) > 2 {
		a.userID = args[2]
	}
	fmt.Printf("Using school %s, term %s\n", a.schoolID, a.termID)
	return nil
}

func (a *App) Status(ctx context.Context) error {
	fmt.Printf("connectivity: %s\n", map[bool]string{true: "online", false: "offline"}[a.monitor.IsOnline()])
	fmt.Printf("school: %s  term: %s  user: %s\n", a.schoolID, a.termID, a.userID)
	return nil
}

func (a *App) Classes(ctx context.Context, args []string) error {
	f := models.ClassFilter{SchoolId: a.schoolID, TermId: a.termID}
	if len(args) > 0 {
		f.Search = strings.Join(args, " ")
	}

	list, err := a.classSvc.List(ctx, a.userID, f)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	for _, c := range list.Items {
		fmt.Printf("%s  %-20s grade %s  room %s\n", c.Id, c.Name, c.Grade, c.Room)
	}
	if list.FromCache && !list.UpdatedAt.IsZero() {
		fmt.Printf("(cached, last updated %s)\n", list.UpdatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func (a *App) Students(ctx context.Context, args []string) error {
	students, err := a.rosterSvc.Students(ctx, models.StudentFilter{ClassId: args[0]})
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	for _, s := range students {
		fmt.Printf("%s  %s\n", s.Id, s.Name)
	}
	return nil
}

func (a *App) Posts(ctx context.Context) error {
	list, err := a.wallSvc.List(ctx, a.userID, models.WallPostFilter{SchoolId: a.schoolID})
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	for _, p := range list.Items {
		fmt.Printf("[%s] %s\n    %s\n", p.CreatedAt.Format("2006-01-02 15:04"), p.Title, p.Body)
	}
	return nil
}

// Post composes a wall post from "title | body" style arguments.
func (a *App) Post(ctx context.Context, args []string) error {
	text := strings.Join(args, " ")
	title, body := text, ""
	if i := strings.Index(text, "|"); i >= 0 {
		title = strings.TrimSpace(text[:i])
		body = strings.TrimSpace(text[i+1:])
	}

	created, err := a.wallSvc.Create(ctx, models.WallPost{
		SchoolId: a.schoolID,
		AuthorId: a.userID,
		Title:    title,
		Body:     body,
	})
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Printf("Posted %s\n", created.Id)
	return nil
}

func (a *App) Attend(ctx context.Context, args []string) error {
	created, err := a.activitySvc.Record(ctx, models.Activity{
		TermId:    a.termID,
		StudentId: args[0],
		Kind:      "attendance",
		Status:    args[1],
	})
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Printf("Recorded %s for %s on %s\n", created.Status, created.StudentId, created.Date)
	return nil
}

func (a *App) Dashboard(ctx context.Context) error {
	payload, savedAt, ok := a.snapshotSvc.Dashboard(ctx, a.userID)
	if !ok {
		fmt.Println("No cached dashboard; run 'refresh' while online.")
		return nil
	}

	fmt.Printf("%s\n(cached %s)\n", string(payload), savedAt.Format("2006-01-02 15:04"))
	return nil
}

func (a *App) Refresh(ctx context.Context) error {
	_, savedAt, err := a.snapshotSvc.RefreshDashboard(ctx, a.userID)
	if err != nil {
		fmt.Println("Error:", err)
		return err
	}

	fmt.Printf("Dashboard refreshed at %s\n", savedAt.Format("15:04:05"))
	return nil
}

func (a *App) Sync(ctx context.Context) error {
	if err := a.registry.RunAll(ctx); err != nil {
		fmt.Println("Sync finished with errors:", err)
		return err
	}

	fmt.Println("Sync complete")
	return nil
}
