package service

import (
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/dylan/pm/internal/pipeline/domain"
)

// ProgressCells is the number of colored cells in a report progress row
const ProgressCells = 6

// ReportProject is one row of the follow-up document
type ReportProject struct {
	Name    string              `yaml:"name"`
	Type    string              `yaml:"type"`
	Euro    string              `yaml:"euro"`
	Comment string              `yaml:"comment"`
	Cells   [ProgressCells]bool `yaml:"cells,flow"`
}

// ReportContext is the data handed to the document renderer
type ReportContext struct {
	Date     string          `yaml:"date"`
	Projects []ReportProject `yaml:"projects"`
}

// TabularHeaders are the column titles of the spreadsheet export
var TabularHeaders = []string{
	"Person in charge",
	"Type of contract",
	"Company",
	"Summary",
	"-",
	"-",
	"-",
	"PI",
	"Status",
	"EUR 1st year",
	"EUR pot.",
	"Ref",
}

var statusLabels = map[domain.Status]string{
	domain.StatusStart:    "1 - Prospection",
	domain.StatusProgress: "2 - Programme scientifique",
	domain.StatusBudget:   "3 - Budget",
	domain.StatusContract: "4 - Négociation contrat",
	domain.StatusSign:     "5 - Signature / Suivi",
}

var contractLabels = map[domain.ContractType]string{
	domain.TypeRnD:            "Collab R&D",
	domain.TypeRnDAmendment:   "Collab R&D",
	domain.TypeLicense:        "Licence",
	domain.TypeLicenseAmend:   "Licence",
	domain.TypeMaterialTransf: "Collab R&D",
}

// TabularRow is one spreadsheet line; values line up with TabularHeaders
type TabularRow []any

// reportProjects returns the active projects ordered by key, followed by the
// done ones ordered the same way when all is set. The workflow collections
// are left untouched.
func (w *Workflow) reportProjects(key SortKey, all bool) []*domain.Project {
	less, _ := w.lessFunc(key)
	projects := append([]*domain.Project(nil), w.active...)
	sortProjects(projects, less)
	if all {
		done := append([]*domain.Project(nil), w.done...)
		sortProjects(done, less)
		projects = append(projects, done...)
	}
	return projects
}

// ReportContext builds the follow-up document context sorted by status
func (w *Workflow) ReportContext(all bool, now time.Time) ReportContext {
	ctx := ReportContext{
		Date:     domain.FormatDay(now),
		Projects: []ReportProject{},
	}
	for _, p := range w.reportProjects(SortByStatus, all) {
		latest := p.Latest()
		row := ReportProject{
			Name:    p.Name,
			Type:    strings.ReplaceAll(string(p.Type), "&", "n"),
			Euro:    "-",
			Comment: latest.Comment,
		}
		if p.Money > 0 {
			row.Euro = strconv.Itoa(p.Money)
		}
		weight := w.settings.Weight(latest.Status)
		for i := range row.Cells {
			row.Cells[i] = weight > i
		}
		ctx.Projects = append(ctx.Projects, row)
	}
	return ctx
}

// TabularRows builds the spreadsheet rows sorted by name
func (w *Workflow) TabularRows(all bool) []TabularRow {
	projects := w.reportProjects(SortByName, all)
	rows := make([]TabularRow, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, TabularRow{
			w.settings.User,
			lookup(contractLabels, p.Type),
			p.Name,
			p.Summary,
			nil,
			nil,
			nil,
			p.PI,
			lookup(statusLabels, p.Latest().Status),
			p.MoneyYear * 1000,
			p.Money * 1000,
			p.Ref,
		})
	}
	return rows
}

// ReportFileName returns the base name of a report for the month of now
func ReportFileName(prefix, ext string, now time.Time) string {
	return prefix + "_" + strconv.Itoa(int(now.Month())) + "_" + strconv.Itoa(now.Year()) + ext
}

func lookup[K ~string](labels map[K]string, key K) string {
	if label, ok := labels[key]; ok {
		return label
	}
	return string(key)
}

// ProjectsByID returns every project ordered by id without reordering the
// workflow collections.
func (w *Workflow) ProjectsByID() []*domain.Project {
	all := w.All()
	sort.SliceStable(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}
