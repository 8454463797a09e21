package domain

import (
	"fmt"
	"sort"
	"time"
)

// DefaultComment is stored when a history entry is recorded without a note
const DefaultComment = "-"

// HistoryEntry is one recorded status transition of a project
type HistoryEntry struct {
	Node    int       `json:"node"`
	Status  Status    `json:"status"`
	Date    time.Time `json:"date"`
	Comment string    `json:"comment"`
}

// Project is a tracked business-development deal
type Project struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	Type      ContractType   `json:"type"`
	Money     int            `json:"money"`
	MoneyYear int            `json:"money_year"`
	PI        string         `json:"pi"`
	Ref       string         `json:"ref"`
	Summary   string         `json:"summary"`
	History   []HistoryEntry `json:"history"`
}

// NewProject creates a project whose history starts with a Start entry
func NewProject(id int, name string, contractType ContractType, money int, now time.Time) *Project {
	p := &Project{
		ID:    id,
		Name:  name,
		Type:  contractType,
		Money: money,
	}
	p.EnsureHistory(now)
	return p
}

// Now returns the current time at the precision the database stores
func Now() time.Time {
	return time.Now().Truncate(time.Microsecond)
}

// String renders a one-line description of the project
func (p *Project) String() string {
	return fmt.Sprintf("Project: %-10s %-3s %5d kEUR", p.Name, p.Type, p.Money)
}

// EnsureHistory adds the synthetic Start entry when the history is empty
func (p *Project) EnsureHistory(now time.Time) {
	if len(p.History) > 0 {
		return
	}
	p.History = append(p.History, HistoryEntry{
		Node:    1,
		Status:  StatusStart,
		Date:    now,
		Comment: DefaultComment,
	})
}

// First returns the oldest history entry
func (p *Project) First() HistoryEntry {
	return p.History[0]
}

// Latest returns the most recent history entry
func (p *Project) Latest() HistoryEntry {
	return p.History[len(p.History)-1]
}

// IsDone returns true if any history entry reached the Done status
func (p *Project) IsDone() bool {
	for _, h := range p.History {
		if h.Status == StatusDone {
			return true
		}
	}
	return false
}

// SortHistory orders the history by date, keeping node order for equal dates
func (p *Project) SortHistory() {
	sort.SliceStable(p.History, func(i, j int) bool {
		return p.History[i].Date.Before(p.History[j].Date)
	})
}

// NextNode returns the node number for the next appended entry
func (p *Project) NextNode() int {
	next := 1
	for _, h := range p.History {
		if h.Node >= next {
			next = h.Node + 1
		}
	}
	return next
}

// AddAction appends a history entry stamped with now
func (p *Project) AddAction(status Status, comment string, now time.Time) HistoryEntry {
	if comment == "" {
		comment = DefaultComment
	}
	entry := HistoryEntry{
		Node:    p.NextNode(),
		Status:  status,
		Date:    now,
		Comment: comment,
	}
	p.History = append(p.History, entry)
	return entry
}

// DeleteAction removes the history entry with the given node.
// The sole remaining entry is never removed.
func (p *Project) DeleteAction(node int) (HistoryEntry, error) {
	for i, h := range p.History {
		if h.Node != node {
			continue
		}
		if len(p.History) == 1 {
			return HistoryEntry{}, ErrLastHistoryEntry(p.ID)
		}
		p.History = append(p.History[:i], p.History[i+1:]...)
		return h, nil
	}
	return HistoryEntry{}, ErrNodeNotFound(p.ID, node)
}

// ElapsedDays returns the whole days between the first and last entries
func (p *Project) ElapsedDays() int {
	return WholeDays(p.Latest().Date.Sub(p.First().Date))
}

// Overlaps reports whether the project's lifespan intersects [start, end]
func (p *Project) Overlaps(start, end time.Time) bool {
	return !p.First().Date.After(end) && !p.Latest().Date.Before(start)
}

// Clone returns a deep copy of the project
func (p *Project) Clone() *Project {
	c := *p
	c.History = append([]HistoryEntry(nil), p.History...)
	return &c
}

// WholeDays floors a duration to whole days
func WholeDays(d time.Duration) int {
	days := int(d / (24 * time.Hour))
	if d < 0 && d%(24*time.Hour) != 0 {
		days--
	}
	return days
}
