package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dylan/pm/internal/pipeline/adapters"
	"github.com/dylan/pm/internal/pipeline/domain"
	"github.com/dylan/pm/internal/pipeline/ports"
	"github.com/dylan/pm/internal/pipeline/ports/mocks"
	"github.com/dylan/pm/internal/pipeline/service"
)

var base = time.Date(2024, time.March, 1, 9, 0, 0, 0, time.Local)

// tick returns a clock advancing by one hour on every call
func tick() func() time.Time {
	now := base
	return func() time.Time {
		now = now.Add(time.Hour)
		return now
	}
}

func newRepo(t *testing.T) *adapters.JSONRepository {
	t.Helper()
	repo, err := adapters.NewJSONRepository(filepath.Join(t.TempDir(), "db.json"), nil)
	require.NoError(t, err)
	_, err = repo.Init(context.Background())
	require.NoError(t, err)
	return repo
}

func openWorkflow(t *testing.T, repo ports.Repository) *service.Workflow {
	t.Helper()
	wf, err := service.OpenWorkflow(context.Background(), repo, domain.DefaultSettings(), nil)
	require.NoError(t, err)
	wf.SetClock(tick())
	return wf
}

func ids(projects []*domain.Project) []int {
	out := make([]int, len(projects))
	for i, p := range projects {
		out[i] = p.ID
	}
	return out
}

func TestWorkflow_AddProjectToEmptyDatabase(t *testing.T) {
	wf := openWorkflow(t, newRepo(t))

	p, err := wf.AddProject(context.Background(), "Acme", "Lic", 50)
	require.NoError(t, err)
	require.Equal(t, 1, p.ID)
	require.Equal(t, domain.TypeLicense, p.Type)
	require.Equal(t, 50, p.Money)
	require.Len(t, p.History, 1)
	require.Equal(t, 1, p.First().Node)
	require.Equal(t, domain.StatusStart, p.First().Status)
	require.Equal(t, []int{1}, ids(wf.Active()))
	require.Empty(t, wf.Done())
}

func TestWorkflow_AddProjectAssignsMaxPlusOne(t *testing.T) {
	ctx := context.Background()
	wf := openWorkflow(t, newRepo(t))

	for _, name := range []string{"A", "B", "C"} {
		_, err := wf.AddProject(ctx, name, "R&D", 10)
		require.NoError(t, err)
	}
	_, err := wf.RemoveProject(ctx, 2)
	require.NoError(t, err)

	p, err := wf.AddProject(ctx, "D", "MTA", 0)
	require.NoError(t, err)
	require.Equal(t, 4, p.ID)
}

func TestWorkflow_AddProjectCountsDoneIDs(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	wf := openWorkflow(t, repo)

	for _, name := range []string{"A", "B", "C"} {
		_, err := wf.AddProject(ctx, name, "Lic", 10)
		require.NoError(t, err)
	}
	_, _, err := wf.CommitAction(ctx, 3, "Done", "signed")
	require.NoError(t, err)
	require.Equal(t, []int{3}, ids(wf.Done()))

	p, err := wf.AddProject(ctx, "D", "R&D", 20)
	require.NoError(t, err)
	require.Equal(t, 4, p.ID)

	reopened := openWorkflow(t, repo)
	require.Equal(t, 5, reopened.NextID())
	require.ElementsMatch(t, []int{1, 2, 4}, ids(reopened.Active()))
}

func TestWorkflow_AddProjectRejectsUnknownType(t *testing.T) {
	wf := openWorkflow(t, newRepo(t))

	_, err := wf.AddProject(context.Background(), "Acme", "NDA", 50)
	require.Equal(t, domain.ErrCodeValidation, domain.GetErrorCode(err))
	require.Empty(t, wf.All())
}

func TestWorkflow_CommitDoneMovesProject(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	wf := openWorkflow(t, repo)

	p, err := wf.AddProject(ctx, "Acme", "Lic", 50)
	require.NoError(t, err)

	_, entry, err := wf.CommitAction(ctx, p.ID, "Done", "signed")
	require.NoError(t, err)
	require.Equal(t, 2, entry.Node)
	require.Empty(t, wf.Active())
	require.Equal(t, []int{1}, ids(wf.Done()))

	reopened := openWorkflow(t, repo)
	require.Empty(t, reopened.Active())
	require.Equal(t, []int{1}, ids(reopened.Done()))
	require.Equal(t, "signed", reopened.Done()[0].Latest().Comment)

	_, _, err = wf.CommitAction(ctx, p.ID, "Sign", "")
	require.Equal(t, domain.ErrCodeProjectNotFound, domain.GetErrorCode(err))
	require.Contains(t, err.Error(), "no active project #1")
}

func TestWorkflow_CommitReusesLatestStatus(t *testing.T) {
	ctx := context.Background()
	wf := openWorkflow(t, newRepo(t))
	p, err := wf.AddProject(ctx, "Acme", "Lic", 50)
	require.NoError(t, err)

	_, _, err = wf.CommitAction(ctx, p.ID, "Budge", "budget sent")
	require.NoError(t, err)
	_, entry, err := wf.CommitAction(ctx, p.ID, "", "")
	require.NoError(t, err)

	require.Equal(t, domain.StatusBudget, entry.Status)
	require.Equal(t, domain.DefaultComment, entry.Comment)
	require.True(t, entry.Date.After(p.History[1].Date))
}

func TestWorkflow_CommitValidatesBeforeMutating(t *testing.T) {
	ctx := context.Background()
	wf := openWorkflow(t, newRepo(t))
	p, err := wf.AddProject(ctx, "Acme", "Lic", 50)
	require.NoError(t, err)

	_, _, err = wf.CommitAction(ctx, p.ID, "Finished", "")
	require.Equal(t, domain.ErrCodeValidation, domain.GetErrorCode(err))
	require.Len(t, p.History, 1)

	_, _, err = wf.CommitAction(ctx, 99, "Progr", "")
	require.True(t, domain.IsNotFound(err))
}

func TestWorkflow_UncommitLatestAndNode(t *testing.T) {
	ctx := context.Background()
	repo := newRepo(t)
	wf := openWorkflow(t, repo)
	p, err := wf.AddProject(ctx, "Acme", "Lic", 50)
	require.NoError(t, err)
	_, _, err = wf.CommitAction(ctx, p.ID, "Progr", "call")
	require.NoError(t, err)
	_, _, err = wf.CommitAction(ctx, p.ID, "Done", "signed")
	require.NoError(t, err)
	require.Len(t, wf.Done(), 1)

	_, removed, err := wf.UncommitAction(ctx, p.ID, 0)
	require.NoError(t, err)
	require.Equal(t, 3, removed.Node)
	require.Equal(t, []int{1}, ids(wf.Active()), "project is active again")
	require.Empty(t, wf.Done())

	_, removed, err = wf.UncommitAction(ctx, p.ID, 1)
	require.NoError(t, err)
	require.Equal(t, domain.StatusStart, removed.Status)

	_, _, err = wf.UncommitAction(ctx, p.ID, 2)
	require.Equal(t, domain.ErrCodeValidation, domain.GetErrorCode(err))

	_, _, err = wf.UncommitAction(ctx, p.ID, 7)
	require.Equal(t, domain.ErrCodeNodeNotFound, domain.GetErrorCode(err))

	reopened := openWorkflow(t, repo)
	project, err := reopened.FindProject(p.ID)
	require.NoError(t, err)
	require.Len(t, project.History, 1)
	require.Equal(t, 2, project.First().Node)
}

func TestWorkflow_UpdateProject(t *testing.T) {
	ctx := context.Background()
	wf := openWorkflow(t, newRepo(t))
	p, err := wf.AddProject(ctx, "Acme", "Lic", 50)
	require.NoError(t, err)

	summary, pi, moneyYear := "Patent licence", "Dr Who", 12
	updated, err := wf.UpdateProject(ctx, p.ID, service.ProjectUpdate{
		Summary:   &summary,
		PI:        &pi,
		MoneyYear: &moneyYear,
	})
	require.NoError(t, err)
	require.Equal(t, "Patent licence", updated.Summary)
	require.Equal(t, "Dr Who", updated.PI)
	require.Equal(t, 12, updated.MoneyYear)
	require.Equal(t, "Acme", updated.Name)

	bad := "NDA"
	_, err = wf.UpdateProject(ctx, p.ID, service.ProjectUpdate{Type: &bad})
	require.Equal(t, domain.ErrCodeValidation, domain.GetErrorCode(err))

	_, err = wf.UpdateProject(ctx, 42, service.ProjectUpdate{Summary: &summary})
	require.Equal(t, domain.ErrCodeProjectNotFound, domain.GetErrorCode(err))
}

func TestWorkflow_RemoveProject(t *testing.T) {
	ctx := context.Background()
	wf := openWorkflow(t, newRepo(t))
	_, err := wf.AddProject(ctx, "Acme", "Lic", 50)
	require.NoError(t, err)
	_, err = wf.AddProject(ctx, "Beta", "R&D", 20)
	require.NoError(t, err)
	_, _, err = wf.CommitAction(ctx, 2, "Done", "")
	require.NoError(t, err)

	removed, err := wf.RemoveProject(ctx, 2)
	require.NoError(t, err)
	require.Equal(t, "Beta", removed.Name)
	require.Empty(t, wf.Done())

	_, err = wf.RemoveProject(ctx, 2)
	require.Equal(t, domain.ErrCodeProjectNotFound, domain.GetErrorCode(err))
	require.Len(t, wf.Active(), 1)
}

func TestWorkflow_RollsBackWhenSaveFails(t *testing.T) {
	ctx := context.Background()
	existing := domain.NewProject(1, "Acme", domain.TypeLicense, 50, base)

	repo := &mocks.Repository{}
	repo.On("Load", mock.Anything).Return(&ports.Snapshot{Projects: []*domain.Project{existing}}, nil)
	repo.On("Save", mock.Anything, mock.Anything).Return(domain.ErrStorageWrite("db.json", errors.New("disk full")))

	wf := openWorkflow(t, repo)

	_, err := wf.AddProject(ctx, "Beta", "R&D", 20)
	require.Equal(t, domain.ErrCodeStorageWrite, domain.GetErrorCode(err))
	require.Equal(t, []int{1}, ids(wf.Active()))

	_, _, err = wf.CommitAction(ctx, 1, "Done", "signed")
	require.Error(t, err)
	require.Equal(t, []int{1}, ids(wf.Active()))
	require.Empty(t, wf.Done())
	project, err := wf.FindProject(1)
	require.NoError(t, err)
	require.Len(t, project.History, 1)

	_, err = wf.RemoveProject(ctx, 1)
	require.Error(t, err)
	require.Len(t, wf.All(), 1)

	repo.AssertNumberOfCalls(t, "Save", 3)
}

func TestWorkflow_OpenPropagatesLoadErrors(t *testing.T) {
	repo := &mocks.Repository{}
	repo.On("Load", mock.Anything).Return(nil, domain.ErrStorageRead("db.json", errors.New("boom")))

	_, err := service.OpenWorkflow(context.Background(), repo, domain.DefaultSettings(), nil)
	require.Equal(t, domain.ErrCodeStorageRead, domain.GetErrorCode(err))
}

func TestWorkflow_SaveKeepsExtraFields(t *testing.T) {
	ctx := context.Background()
	snapshot := &ports.Snapshot{Extra: map[string]json.RawMessage{
		"owner": json.RawMessage(`{"name":"S. Carlioz"}`),
	}}

	repo := &mocks.Repository{}
	repo.On("Load", mock.Anything).Return(snapshot, nil)
	repo.On("Save", mock.Anything, mock.MatchedBy(func(s *ports.Snapshot) bool {
		_, ok := s.Extra["owner"]
		return ok && len(s.Projects) == 1
	})).Return(nil)

	wf := openWorkflow(t, repo)
	_, err := wf.AddProject(ctx, "Acme", "Lic", 50)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
