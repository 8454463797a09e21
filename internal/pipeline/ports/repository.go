package ports

import (
	"context"
	"encoding/json"

	"github.com/dylan/pm/internal/pipeline/domain"
)

// Snapshot is the whole database: every project plus the top-level fields
// the tool does not interpret, kept verbatim for the next save.
type Snapshot struct {
	Projects []*domain.Project
	Extra    map[string]json.RawMessage
}

// Repository persists the project collection
type Repository interface {
	// Load reads the full collection, with each history sorted by date
	Load(ctx context.Context) (*Snapshot, error)

	// Save replaces the stored collection
	Save(ctx context.Context, snapshot *Snapshot) error
}

// ProjectInfo contains summary information about a project
type ProjectInfo struct {
	ID         int
	Name       string
	Type       domain.ContractType
	Status     domain.Status
	Done       bool
	Entries    int
	LastAction string
}

// GetProjectInfo extracts summary info from a project
func GetProjectInfo(project *domain.Project) ProjectInfo {
	latest := project.Latest()
	return ProjectInfo{
		ID:         project.ID,
		Name:       project.Name,
		Type:       project.Type,
		Status:     latest.Status,
		Done:       project.IsDone(),
		Entries:    len(project.History),
		LastAction: domain.FormatDay(latest.Date),
	}
}
