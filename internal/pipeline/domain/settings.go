package domain

import (
	"strings"
	"unicode/utf8"
)

// Status is a pipeline stage recorded in a project's history
type Status string

const (
	StatusStart    Status = "Start"
	StatusProgress Status = "Progr"
	StatusBudget   Status = "Budge"
	StatusContract Status = "Contr"
	StatusSign     Status = "Sign"
	StatusDone     Status = "Done"
)

// ContractType is the kind of deal a project negotiates
type ContractType string

const (
	TypeRnD            ContractType = "R&D"
	TypeRnDAmendment   ContractType = "aR&D"
	TypeLicense        ContractType = "Lic"
	TypeLicenseAmend   ContractType = "aLic"
	TypeMaterialTransf ContractType = "MTA"
)

// IsLicense returns true for license deals and their amendments
func (t ContractType) IsLicense() bool {
	return t == TypeLicense || t == TypeLicenseAmend
}

// IsRnD returns true for R&D collaborations, their amendments and MTAs
func (t ContractType) IsRnD() bool {
	return t == TypeRnD || t == TypeRnDAmendment || t == TypeMaterialTransf || t == "aMTA"
}

// Pipeline is the fixed ordering of statuses; position+1 is the progress weight.
var Pipeline = []Status{
	StatusStart,
	StatusProgress,
	StatusBudget,
	StatusContract,
	StatusSign,
	StatusDone,
}

// ContractTypes lists the types accepted when a project is created or updated.
var ContractTypes = []ContractType{
	TypeRnD,
	TypeRnDAmendment,
	TypeLicense,
	TypeLicenseAmend,
	TypeMaterialTransf,
}

// Settings is the immutable configuration shared by the store and the renderer
type Settings struct {
	Statuses        []Status
	ContractTypes   []ContractType
	ProgressChar    string
	Width           int
	WarnDays        int
	User            string
	ReportCellColor string
}

// DefaultSettings returns the settings the tool ships with
func DefaultSettings() Settings {
	return Settings{
		Statuses:        append([]Status(nil), Pipeline...),
		ContractTypes:   append([]ContractType(nil), ContractTypes...),
		ProgressChar:    "x",
		Width:           85,
		WarnDays:        7,
		ReportCellColor: "d7e2f7",
	}
}

// Weight returns the progress weight (1..n) of a status, or 0 if unknown
func (s Settings) Weight(status Status) int {
	for i, st := range s.Statuses {
		if st == status {
			return i + 1
		}
	}
	return 0
}

// MaxWeight is the weight of the final status
func (s Settings) MaxWeight() int {
	return len(s.Statuses)
}

// ProgressBar renders the weight of a status as a fixed-width bar
func (s Settings) ProgressBar(status Status) string {
	bar := strings.Repeat(s.ProgressChar, s.Weight(status))
	if pad := s.MaxWeight() - utf8.RuneCountInString(bar); pad > 0 {
		bar += strings.Repeat(" ", pad)
	}
	return bar
}

// ParseStatus validates a status name against the pipeline
func (s Settings) ParseStatus(value string) (Status, error) {
	for _, st := range s.Statuses {
		if string(st) == value {
			return st, nil
		}
	}
	return "", ErrUnknownStatus(value, s.Statuses)
}

// ParseType validates a contract type against the enumeration
func (s Settings) ParseType(value string) (ContractType, error) {
	for _, t := range s.ContractTypes {
		if string(t) == value {
			return t, nil
		}
	}
	return "", ErrUnknownType(value, s.ContractTypes)
}

func joinStatuses(statuses []Status) string {
	names := make([]string, len(statuses))
	for i, st := range statuses {
		names[i] = string(st)
	}
	return strings.Join(names, ", ")
}

func joinTypes(types []ContractType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return strings.Join(names, ", ")
}
