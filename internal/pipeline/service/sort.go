package service

import (
	"sort"
	"strings"

	"github.com/dylan/pm/internal/pipeline/domain"
)

// SortKey selects the ordering of the project collections
type SortKey string

const (
	SortByDate   SortKey = "date"
	SortByStatus SortKey = "status"
	SortByName   SortKey = "name"
	SortByRef    SortKey = "ref"
	SortByID     SortKey = "id"
)

// SortKeys lists the accepted sort keys
var SortKeys = []SortKey{SortByDate, SortByStatus, SortByName, SortByRef, SortByID}

// SortProjects reorders both collections in place. Id and name sort
// ascending, the other keys descending. Ties keep their previous order.
func (w *Workflow) SortProjects(key SortKey) error {
	less, err := w.lessFunc(key)
	if err != nil {
		return err
	}
	sortProjects(w.active, less)
	sortProjects(w.done, less)
	return nil
}

func (w *Workflow) lessFunc(key SortKey) (func(a, b *domain.Project) bool, error) {
	switch key {
	case SortByDate:
		return func(a, b *domain.Project) bool {
			return a.Latest().Date.After(b.Latest().Date)
		}, nil
	case SortByStatus:
		return func(a, b *domain.Project) bool {
			return w.settings.Weight(a.Latest().Status) > w.settings.Weight(b.Latest().Status)
		}, nil
	case SortByName:
		return func(a, b *domain.Project) bool {
			return a.Name < b.Name
		}, nil
	case SortByRef:
		return func(a, b *domain.Project) bool {
			return a.Ref > b.Ref
		}, nil
	case SortByID:
		return func(a, b *domain.Project) bool {
			return a.ID < b.ID
		}, nil
	}

	keys := make([]string, len(SortKeys))
	for i, k := range SortKeys {
		keys[i] = string(k)
	}
	return nil, domain.ErrValidation("unknown sort key '" + string(key) + "', expected one of " + strings.Join(keys, ", "))
}

func sortProjects(projects []*domain.Project, less func(a, b *domain.Project) bool) {
	sort.SliceStable(projects, func(i, j int) bool {
		return less(projects[i], projects[j])
	})
}
