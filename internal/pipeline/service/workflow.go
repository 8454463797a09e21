package service

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"time"

	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/ports"
)

// Workflow owns the active and done project collections and persists them
// after every mutation.
type Workflow struct {
	repository ports.Repository
	settings   domain.Settings
	logger     *slog.Logger
	now        func() time.Time

	active []*domain.Project
	done   []*domain.Project
	extra  map[string]json.RawMessage
}

// ProjectUpdate carries the optional fields of an update command
type ProjectUpdate struct {
	Name      *string
	Type      *string
	Money     *int
	MoneyYear *int
	Summary   *string
	PI        *string
	Ref       *string
}

// OpenWorkflow loads the database and classifies projects into active and done
func OpenWorkflow(ctx context.Context, repository ports.Repository, settings domain.Settings, logger *slog.Logger) (*Workflow, error) {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	w := &Workflow{
		repository: repository,
		settings:   settings,
		logger:     logger,
		now:        domain.Now,
	}
	if err := w.Reload(ctx); err != nil {
		return nil, err
	}
	return w, nil
}

// Reload discards in-memory state and reads the database again
func (w *Workflow) Reload(ctx context.Context) error {
	snapshot, err := w.repository.Load(ctx)
	if err != nil {
		return err
	}

	w.active = nil
	w.done = nil
	w.extra = snapshot.Extra
	for _, p := range snapshot.Projects {
		if p.IsDone() {
			w.done = append(w.done, p)
		} else {
			w.active = append(w.active, p)
		}
	}

	w.logger.Debug("workflow loaded", "active", len(w.active), "done", len(w.done))
	return nil
}

// SetClock overrides the time source used to stamp new history entries
func (w *Workflow) SetClock(now func() time.Time) {
	w.now = now
}

// Settings returns the configuration the workflow was opened with
func (w *Workflow) Settings() domain.Settings {
	return w.settings
}

// Active returns the projects with no Done entry
func (w *Workflow) Active() []*domain.Project {
	return w.active
}

// Done returns the projects with at least one Done entry
func (w *Workflow) Done() []*domain.Project {
	return w.done
}

// All returns active then done projects
func (w *Workflow) All() []*domain.Project {
	all := make([]*domain.Project, 0, len(w.active)+len(w.done))
	all = append(all, w.active...)
	return append(all, w.done...)
}

// FindProject returns the project with the given id from either collection
func (w *Workflow) FindProject(id int) (*domain.Project, error) {
	for _, p := range w.All() {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, domain.ErrProjectNotFound(id)
}

// NextID returns the id the next added project will receive
func (w *Workflow) NextID() int {
	next := 1
	for _, p := range w.All() {
		if p.ID >= next {
			next = p.ID + 1
		}
	}
	return next
}

// AddProject creates a project in the active collection
func (w *Workflow) AddProject(ctx context.Context, name, contractType string, money int) (*domain.Project, error) {
	typ, err := w.settings.ParseType(contractType)
	if err != nil {
		return nil, err
	}

	var project *domain.Project
	err = w.mutate(ctx, func() error {
		project = domain.NewProject(w.NextID(), name, typ, money, w.now())
		w.active = append(w.active, project)
		return w.SortProjects(SortByDate)
	})
	if err != nil {
		return nil, err
	}

	w.logger.Debug("project added", "id", project.ID, "name", project.Name, "type", project.Type)
	return project, nil
}

// UpdateProject changes the descriptive fields of a project
func (w *Workflow) UpdateProject(ctx context.Context, id int, update ProjectUpdate) (*domain.Project, error) {
	project, err := w.FindProject(id)
	if err != nil {
		return nil, err
	}

	var typ domain.ContractType
	if update.Type != nil {
		if typ, err = w.settings.ParseType(*update.Type); err != nil {
			return nil, err
		}
	}

	err = w.mutate(ctx, func() error {
		// mutate restores clones on failure, so look the project up again
		project, _ = w.FindProject(id)
		if update.Name != nil {
			project.Name = *update.Name
		}
		if update.Type != nil {
			project.Type = typ
		}
		if update.Money != nil {
			project.Money = *update.Money
		}
		if update.MoneyYear != nil {
			project.MoneyYear = *update.MoneyYear
		}
		if update.Summary != nil {
			project.Summary = *update.Summary
		}
		if update.PI != nil {
			project.PI = *update.PI
		}
		if update.Ref != nil {
			project.Ref = *update.Ref
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Debug("project updated", "id", id)
	return project, nil
}

// RemoveProject deletes a project from whichever collection holds it
func (w *Workflow) RemoveProject(ctx context.Context, id int) (*domain.Project, error) {
	if _, err := w.FindProject(id); err != nil {
		return nil, err
	}

	var removed *domain.Project
	err := w.mutate(ctx, func() error {
		if w.active, removed = without(w.active, id); removed != nil {
			return nil
		}
		w.done, removed = without(w.done, id)
		return nil
	})
	if err != nil {
		return nil, err
	}

	w.logger.Debug("project removed", "id", id)
	return removed, nil
}

// CommitAction appends a history entry to an active project. An empty status
// repeats the latest one. A Done entry moves the project to the done
// collection straight away.
func (w *Workflow) CommitAction(ctx context.Context, id int, status, comment string) (*domain.Project, domain.HistoryEntry, error) {
	project := w.findActive(id)
	if project == nil {
		return nil, domain.HistoryEntry{}, domain.ErrActiveProjectNotFound(id)
	}

	st := project.Latest().Status
	if status != "" {
		var err error
		if st, err = w.settings.ParseStatus(status); err != nil {
			return nil, domain.HistoryEntry{}, err
		}
	}

	var entry domain.HistoryEntry
	err := w.mutate(ctx, func() error {
		project = w.findActive(id)
		entry = project.AddAction(st, comment, w.now())
		w.reclassify()
		return nil
	})
	if err != nil {
		return nil, domain.HistoryEntry{}, err
	}

	w.logger.Debug("action committed", "id", id, "node", entry.Node, "status", entry.Status)
	return project, entry, nil
}

// UncommitAction deletes the history entry with the given node, or the
// latest entry when node is 0.
func (w *Workflow) UncommitAction(ctx context.Context, id, node int) (*domain.Project, domain.HistoryEntry, error) {
	project, err := w.FindProject(id)
	if err != nil {
		return nil, domain.HistoryEntry{}, err
	}
	if node == 0 {
		node = project.Latest().Node
	}

	var removed domain.HistoryEntry
	err = w.mutate(ctx, func() error {
		project, _ = w.FindProject(id)
		if removed, err = project.DeleteAction(node); err != nil {
			return err
		}
		w.reclassify()
		return nil
	})
	if err != nil {
		return nil, domain.HistoryEntry{}, err
	}

	w.logger.Debug("action deleted", "id", id, "node", removed.Node)
	return project, removed, nil
}

// Statistics aggregates both collections over a date window
func (w *Workflow) Statistics(window Window) StatsReport {
	return ComputeStatistics(w.active, w.done, window)
}

// Save writes both collections and the preserved top-level fields
func (w *Workflow) Save(ctx context.Context) error {
	return w.repository.Save(ctx, &ports.Snapshot{
		Projects: w.All(),
		Extra:    w.extra,
	})
}

// mutate applies fn and saves. If either step fails the collections are
// restored to their state before the call.
func (w *Workflow) mutate(ctx context.Context, fn func() error) error {
	active := cloneAll(w.active)
	done := cloneAll(w.done)

	err := fn()
	if err == nil {
		err = w.Save(ctx)
	}
	if err != nil {
		w.active = active
		w.done = done
		w.logger.Debug("mutation rolled back", "error", err)
		return err
	}
	return nil
}

// reclassify moves projects whose Done-ness changed to the right collection
func (w *Workflow) reclassify() {
	var active, done []*domain.Project
	for _, p := range w.active {
		if p.IsDone() {
			done = append(done, p)
		} else {
			active = append(active, p)
		}
	}
	for _, p := range w.done {
		if p.IsDone() {
			done = append(done, p)
		} else {
			active = append(active, p)
		}
	}
	w.active = active
	w.done = done
}

func (w *Workflow) findActive(id int) *domain.Project {
	for _, p := range w.active {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func without(projects []*domain.Project, id int) ([]*domain.Project, *domain.Project) {
	for i, p := range projects {
		if p.ID == id {
			return append(projects[:i:i], projects[i+1:]...), p
		}
	}
	return projects, nil
}

func cloneAll(projects []*domain.Project) []*domain.Project {
	if projects == nil {
		return nil
	}
	out := make([]*domain.Project, len(projects))
	for i, p := range projects {
		out[i] = p.Clone()
	}
	return out
}
