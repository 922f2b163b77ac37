package domain

import "strings"

// Employee is one roster entry. ID is a stable internal key and never changes
// after creation; HumanID is the org-facing identifier shown on reports.
type Employee struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	HumanID     string `json:"employeeId"`
	Designation string `json:"designation"`
	AccessCode  int    `json:"accessCode"`
}

// NewEmployee constructs a validated roster entry.
func NewEmployee(id, name, humanID, designation string, accessCode int) (Employee, error) {
	id = strings.TrimSpace(id)
	name = strings.TrimSpace(name)
	if id == "" {
		return Employee{}, ErrInvalidID
	}
	if name == "" {
		return Employee{}, ErrInvalidName
	}
	if accessCode <= 0 {
		return Employee{}, ErrInvalidAccessCode
	}
	return Employee{
		ID:          id,
		Name:        name,
		HumanID:     strings.TrimSpace(humanID),
		Designation: strings.TrimSpace(designation),
		AccessCode:  accessCode,
	}, nil
}

// EmployeePatch carries the fields a roster edit may change. Nil fields are
// left untouched; ID is immutable and deliberately absent.
type EmployeePatch struct {
	Name        *string
	HumanID     *string
	Designation *string
	AccessCode  *int
}

// Apply merges a patch into the employee.
func (e *Employee) Apply(patch EmployeePatch) error {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return ErrInvalidName
		}
		e.Name = name
	}
	if patch.HumanID != nil {
		e.HumanID = strings.TrimSpace(*patch.HumanID)
	}
	if patch.Designation != nil {
		e.Designation = strings.TrimSpace(*patch.Designation)
	}
	if patch.AccessCode != nil {
		if *patch.AccessCode <= 0 {
			return ErrInvalidAccessCode
		}
		e.AccessCode = *patch.AccessCode
	}
	return nil
}
