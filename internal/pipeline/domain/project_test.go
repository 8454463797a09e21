package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, time.March, 4, 9, 30, 0, 123456000, time.Local)

func TestNewProject_StartsWithStartEntry(t *testing.T) {
	p := NewProject(1, "Acme", TypeLicense, 50, t0)

	require.Len(t, p.History, 1)
	require.Equal(t, HistoryEntry{Node: 1, Status: StatusStart, Date: t0, Comment: "-"}, p.History[0])
	require.False(t, p.IsDone())
}

func TestProject_AddActionUsesMaxNode(t *testing.T) {
	p := NewProject(1, "Acme", TypeLicense, 50, t0)
	p.AddAction(StatusProgress, "call", t0.Add(time.Hour))
	p.AddAction(StatusBudget, "", t0.Add(2*time.Hour))

	_, err := p.DeleteAction(2)
	require.NoError(t, err)

	entry := p.AddAction(StatusContract, "draft sent", t0.Add(3*time.Hour))
	require.Equal(t, 4, entry.Node)
	require.Equal(t, StatusContract, p.Latest().Status)
	require.Equal(t, "-", p.History[1].Comment)
}

func TestProject_DeleteActionGuards(t *testing.T) {
	p := NewProject(7, "Acme", TypeRnD, 10, t0)

	_, err := p.DeleteAction(1)
	require.Equal(t, ErrCodeValidation, GetErrorCode(err))
	require.Len(t, p.History, 1)

	_, err = p.DeleteAction(42)
	require.Equal(t, ErrCodeNodeNotFound, GetErrorCode(err))
	require.True(t, IsNotFound(err))
}

func TestProject_IsDoneLooksAtWholeHistory(t *testing.T) {
	p := NewProject(1, "Acme", TypeLicense, 50, t0)
	p.AddAction(StatusDone, "signed", t0.Add(time.Hour))
	p.AddAction(StatusSign, "amendment", t0.Add(2*time.Hour))

	require.True(t, p.IsDone())
	require.Equal(t, StatusSign, p.Latest().Status)
}

func TestProject_SortHistoryByDate(t *testing.T) {
	p := &Project{ID: 1, History: []HistoryEntry{
		{Node: 2, Status: StatusProgress, Date: t0.Add(time.Hour)},
		{Node: 1, Status: StatusStart, Date: t0},
	}}
	p.SortHistory()

	require.Equal(t, 1, p.First().Node)
	require.Equal(t, 2, p.Latest().Node)
}

func TestProject_Overlaps(t *testing.T) {
	p := NewProject(1, "Acme", TypeLicense, 50, t0)
	p.AddAction(StatusSign, "", t0.AddDate(0, 2, 0))

	require.True(t, p.Overlaps(t0.AddDate(0, 1, 0), t0.AddDate(1, 0, 0)))
	require.True(t, p.Overlaps(t0.AddDate(-1, 0, 0), t0))
	require.False(t, p.Overlaps(t0.AddDate(0, 3, 0), t0.AddDate(1, 0, 0)))
	require.False(t, p.Overlaps(t0.AddDate(-1, 0, 0), t0.Add(-time.Second)))
}

func TestProject_CloneIsDeep(t *testing.T) {
	p := NewProject(1, "Acme", TypeLicense, 50, t0)
	c := p.Clone()
	c.AddAction(StatusDone, "", t0.Add(time.Hour))
	c.Name = "Other"

	require.Len(t, p.History, 1)
	require.Equal(t, "Acme", p.Name)
}

func TestWholeDays(t *testing.T) {
	require.Equal(t, 0, WholeDays(23*time.Hour))
	require.Equal(t, 1, WholeDays(25*time.Hour))
	require.Equal(t, -1, WholeDays(-time.Hour))
}

func TestSettings_WeightsFollowPipeline(t *testing.T) {
	s := DefaultSettings()
	for i, st := range Pipeline {
		require.Equal(t, i+1, s.Weight(st))
	}
	require.Equal(t, 0, s.Weight("Nope"))
	require.Equal(t, "xxx   ", s.ProgressBar(StatusBudget))
	require.Equal(t, "xxxxxx", s.ProgressBar(StatusDone))

	s.ProgressChar = "●"
	require.Equal(t, "●●    ", s.ProgressBar(StatusProgress))
}

func TestSettings_ParseTypeAndStatus(t *testing.T) {
	s := DefaultSettings()

	typ, err := s.ParseType("aLic")
	require.NoError(t, err)
	require.True(t, typ.IsLicense())

	_, err = s.ParseType("NDA")
	require.Equal(t, ErrCodeValidation, GetErrorCode(err))

	st, err := s.ParseStatus("Contr")
	require.NoError(t, err)
	require.Equal(t, StatusContract, st)

	_, err = s.ParseStatus("done")
	require.Equal(t, ErrCodeValidation, GetErrorCode(err))
}

func TestContractTypeFamilies(t *testing.T) {
	require.True(t, TypeMaterialTransf.IsRnD())
	require.True(t, TypeRnDAmendment.IsRnD())
	require.False(t, TypeLicense.IsRnD())
	require.False(t, TypeRnD.IsLicense())
}

func TestStorageDates(t *testing.T) {
	got, err := ParseStorageDate("2024-03-04T09:30:00.123456")
	require.NoError(t, err)
	require.True(t, got.Equal(t0))
	require.Equal(t, "2024-03-04T09:30:00.123456", FormatStorageDate(got))

	for _, bad := range []string{"2024-03-04T09:30:00", "2024-03-04 09:30:00.123456", "04/03/2024", "2024-03-04T09:30:00.123456Z"} {
		_, err := ParseStorageDate(bad)
		require.Equal(t, ErrCodeDateParse, GetErrorCode(err), bad)
	}
}

func TestCLIDates(t *testing.T) {
	got, err := ParseCLIDate("31/12/2023")
	require.NoError(t, err)
	require.Equal(t, time.Date(2023, time.December, 31, 0, 0, 0, 0, time.Local), got)
	require.Equal(t, time.Date(2023, time.December, 31, 23, 59, 59, 999999999, time.Local), EndOfDay(got))

	_, err = ParseCLIDate("2023-12-31")
	require.Equal(t, ErrCodeDateParse, GetErrorCode(err))
}
