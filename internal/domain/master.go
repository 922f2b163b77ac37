package domain

import (
	"slices"
	"strings"
)

// MasterData holds the controlled vocabularies: task types and projects grow
// as the CEO types new values, priorities and statuses are fixed enumerations.
type MasterData struct {
	TaskTypes  []string     `json:"taskTypes"`
	Projects   []string     `json:"projects"`
	Priorities []Priority   `json:"priorities"`
	Statuses   []WorkStatus `json:"statuses"`
}

// DefaultMasterData returns the seed vocabularies: no task types or projects,
// full priority and status enumerations.
func DefaultMasterData() MasterData {
	return MasterData{
		TaskTypes:  []string{},
		Projects:   []string{},
		Priorities: Priorities(),
		Statuses:   Statuses(),
	}
}

// EnsureValue prepends a trimmed value to a vocabulary list unless it is
// empty or already present (exact match after trimming).
func EnsureValue(list []string, raw string) []string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return list
	}
	if slices.Contains(list, value) {
		return list
	}
	return append([]string{value}, list...)
}

// EnsureTaskType grows the task-type vocabulary.
func (m *MasterData) EnsureTaskType(value string) {
	m.TaskTypes = EnsureValue(m.TaskTypes, value)
}

// EnsureProject grows the project vocabulary.
func (m *MasterData) EnsureProject(value string) {
	m.Projects = EnsureValue(m.Projects, value)
}

// Normalize backfills missing vocabulary slices and the fixed enumerations.
func (m *MasterData) Normalize() {
	if m.TaskTypes == nil {
		m.TaskTypes = []string{}
	}
	if m.Projects == nil {
		m.Projects = []string{}
	}
	if len(m.Priorities) == 0 {
		m.Priorities = Priorities()
	}
	if len(m.Statuses) == 0 {
		m.Statuses = Statuses()
	}
}

// Clone returns a deep copy of the vocabularies.
func (m MasterData) Clone() MasterData {
	return MasterData{
		TaskTypes:  append([]string(nil), m.TaskTypes...),
		Projects:   append([]string(nil), m.Projects...),
		Priorities: append([]Priority(nil), m.Priorities...),
		Statuses:   append([]WorkStatus(nil), m.Statuses...),
	}
}
