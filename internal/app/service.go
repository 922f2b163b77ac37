package app

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/phaseeng/taskdesk/internal/domain"
)

// ServiceConfig holds configuration for the service.
type ServiceConfig struct {
	CEOAccessCode int
}

// Service owns the in-memory envelope and session and is the only component
// permitted to mutate either. Every mutation validates its input, computes
// the next envelope, replaces the in-memory state, and persists before
// reporting success. There is exactly one logical writer; no locking.
type Service struct {
	store   EnvelopeStore
	idGen   IDGenerator
	clock   Clock
	ceoCode int

	envelope *domain.Envelope
	session  *domain.Session
}

// NewService constructs a new service around a persistence adapter.
func NewService(store EnvelopeStore, idGen IDGenerator, clock Clock, cfg ServiceConfig) *Service {
	if idGen == nil {
		idGen = func() string { return "" }
	}
	if clock == nil {
		clock = time.Now
	}
	return &Service{
		store:   store,
		idGen:   idGen,
		clock:   clock,
		ceoCode: cfg.CEOAccessCode,
	}
}

// Init loads the stored envelope or seeds an empty one, re-derives every
// assignment snapshot against the current roster, restores the session, and
// persists the normalized result.
func (s *Service) Init(ctx context.Context) error {
	env, err := s.store.LoadEnvelope(ctx)
	if err != nil {
		return fmt.Errorf("load envelope: %w", err)
	}
	if env == nil {
		seeded := domain.Seed(s.clock())
		env = &seeded
	}
	env.Normalize(s.clock())
	s.envelope = env

	sess, err := s.store.LoadSession(ctx)
	if err != nil {
		return fmt.Errorf("load session: %w", err)
	}
	s.session = sess

	return s.persist(ctx)
}

// persist stamps the envelope and writes it through the store.
func (s *Service) persist(ctx context.Context) error {
	s.envelope.UpdatedAt = s.clock().UTC()
	if err := s.store.SaveEnvelope(ctx, s.envelope.Clone()); err != nil {
		return fmt.Errorf("save envelope: %w", err)
	}
	return nil
}

// Envelope returns a deep copy of the current in-memory envelope.
func (s *Service) Envelope() (domain.Envelope, error) {
	if s.envelope == nil {
		return domain.Envelope{}, ErrNotInitialized
	}
	return s.envelope.Clone(), nil
}

// CreateAssignmentInput holds input values for create-assignment operations.
type CreateAssignmentInput struct {
	SN           int
	DateAssigned domain.Date
	EmployeeID   string
	TaskType     string
	Project      string
	TaskDetails  string
	Deadline     domain.Date
	Priority     domain.Priority
	CEOComment   string
}

// CreateAssignment records a new unit of work for an existing roster entry.
// The new row starts NOT_STARTED with empty remarks, carries fresh snapshot
// fields, and is prepended so listings stay most-recent-first. Non-empty task
// types and projects grow the controlled vocabularies.
func (s *Service) CreateAssignment(ctx context.Context, in CreateAssignmentInput) (domain.Assignment, error) {
	if s.envelope == nil {
		return domain.Assignment{}, ErrNotInitialized
	}
	if in.Priority == "" {
		in.Priority = domain.PriorityMedium
	}
	if !in.Priority.Valid() {
		return domain.Assignment{}, domain.ErrInvalidPriority
	}
	if !in.DateAssigned.Valid() || !in.Deadline.Valid() {
		return domain.Assignment{}, domain.ErrInvalidDate
	}

	next := s.envelope.Clone()
	if _, ok := next.FindEmployee(in.EmployeeID); !ok {
		return domain.Assignment{}, fmt.Errorf("create assignment: %w", domain.ErrUnknownEmployee)
	}

	now := s.clock().UTC()
	row := domain.Assignment{
		ID:              s.idGen(),
		SN:              in.SN,
		DateAssigned:    in.DateAssigned,
		EmployeeID:      strings.TrimSpace(in.EmployeeID),
		TaskType:        in.TaskType,
		Project:         in.Project,
		TaskDetails:     in.TaskDetails,
		Deadline:        in.Deadline,
		Priority:        in.Priority,
		WorkStatus:      domain.StatusNotStarted,
		EmployeeRemarks: "",
		LastUpdateAt:    nil,
		DoneDate:        nil,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	row.SyncSnapshot(next.Employees)

	next.MasterData.EnsureTaskType(row.TaskType)
	next.MasterData.EnsureProject(row.Project)
	next.Assignments = append([]domain.Assignment{row}, next.Assignments...)

	s.envelope = &next
	if err := s.persist(ctx); err != nil {
		return domain.Assignment{}, err
	}
	return row.Clone(), nil
}

// CoreUpdate carries the CEO-editable assignment fields. Nil fields are left
// untouched; the struct is the compile-time allow-list for CEO edits.
type CoreUpdate struct {
	SN           *int
	DateAssigned *domain.Date
	EmployeeID   *string
	Designation  *string
	TaskType     *string
	Project      *string
	TaskDetails  *string
	Deadline     *domain.Date
	Priority     *domain.Priority
	CEOComment   *string
}

// UpdateAssignmentCore applies a CEO-side edit. Snapshots are re-derived
// afterwards, which also covers a reassignment to another employee. Unknown
// ids fail with ErrNotFound.
func (s *Service) UpdateAssignmentCore(ctx context.Context, id string, patch CoreUpdate) (domain.Assignment, error) {
	if s.envelope == nil {
		return domain.Assignment{}, ErrNotInitialized
	}
	if patch.Priority != nil && !patch.Priority.Valid() {
		return domain.Assignment{}, domain.ErrInvalidPriority
	}
	if patch.DateAssigned != nil && !patch.DateAssigned.Valid() {
		return domain.Assignment{}, domain.ErrInvalidDate
	}
	if patch.Deadline != nil && !patch.Deadline.Valid() {
		return domain.Assignment{}, domain.ErrInvalidDate
	}

	next := s.envelope.Clone()
	idx := assignmentIndex(next.Assignments, id)
	if idx < 0 {
		return domain.Assignment{}, fmt.Errorf("assignment %q: %w", id, ErrNotFound)
	}
	if patch.EmployeeID != nil {
		if _, ok := next.FindEmployee(*patch.EmployeeID); !ok {
			return domain.Assignment{}, fmt.Errorf("update assignment: %w", domain.ErrUnknownEmployee)
		}
	}

	row := &next.Assignments[idx]
	if patch.SN != nil {
		row.SN = *patch.SN
	}
	if patch.DateAssigned != nil {
		row.DateAssigned = *patch.DateAssigned
	}
	if patch.EmployeeID != nil {
		row.EmployeeID = strings.TrimSpace(*patch.EmployeeID)
	}
	if patch.Designation != nil {
		row.Designation = *patch.Designation
	}
	if patch.TaskType != nil {
		row.TaskType = *patch.TaskType
		next.MasterData.EnsureTaskType(*patch.TaskType)
	}
	if patch.Project != nil {
		row.Project = *patch.Project
		next.MasterData.EnsureProject(*patch.Project)
	}
	if patch.TaskDetails != nil {
		row.TaskDetails = *patch.TaskDetails
	}
	if patch.Deadline != nil {
		row.Deadline = *patch.Deadline
	}
	if patch.Priority != nil {
		row.Priority = *patch.Priority
	}
	if patch.CEOComment != nil {
		row.CEOComment = *patch.CEOComment
	}
	row.UpdatedAt = s.clock().UTC()
	row.SyncSnapshot(next.Employees)

	s.envelope = &next
	if err := s.persist(ctx); err != nil {
		return domain.Assignment{}, err
	}
	return row.Clone(), nil
}

// EmployeeUpdate carries the employee-editable assignment fields.
type EmployeeUpdate struct {
	WorkStatus      *domain.WorkStatus
	EmployeeRemarks *string
	DoneDate        *domain.Date
}

// UpdateByEmployee applies an employee-side edit. The done-date invariant is
// enforced on every call and lastUpdateAt is always restamped. Vocabularies
// are never touched from this path. Unknown ids fail with ErrNotFound.
func (s *Service) UpdateByEmployee(ctx context.Context, id string, patch EmployeeUpdate) (domain.Assignment, error) {
	if s.envelope == nil {
		return domain.Assignment{}, ErrNotInitialized
	}
	if patch.DoneDate != nil && !patch.DoneDate.Valid() {
		return domain.Assignment{}, domain.ErrInvalidDate
	}

	next := s.envelope.Clone()
	idx := assignmentIndex(next.Assignments, id)
	if idx < 0 {
		return domain.Assignment{}, fmt.Errorf("assignment %q: %w", id, ErrNotFound)
	}

	now := s.clock().UTC()
	row := &next.Assignments[idx]
	status := row.WorkStatus
	if patch.WorkStatus != nil {
		status = *patch.WorkStatus
	}
	if err := row.SetWorkStatus(status, patch.DoneDate, now); err != nil {
		return domain.Assignment{}, err
	}
	if patch.EmployeeRemarks != nil {
		row.EmployeeRemarks = *patch.EmployeeRemarks
	}
	ts := now
	row.LastUpdateAt = &ts
	row.UpdatedAt = now

	s.envelope = &next
	if err := s.persist(ctx); err != nil {
		return domain.Assignment{}, err
	}
	return row.Clone(), nil
}

// AddEmployeeInput holds input values for roster-creation operations. ID is
// optional; a fresh uuid is generated when absent.
type AddEmployeeInput struct {
	ID          string
	Name        string
	HumanID     string
	Designation string
	AccessCode  int
}

// AddEmployee prepends a roster entry and re-derives every assignment
// snapshot (cheap full re-sync at this scale).
func (s *Service) AddEmployee(ctx context.Context, in AddEmployeeInput) (domain.Employee, error) {
	if s.envelope == nil {
		return domain.Employee{}, ErrNotInitialized
	}
	id := strings.TrimSpace(in.ID)
	if id == "" {
		id = s.idGen()
	}
	emp, err := domain.NewEmployee(id, in.Name, in.HumanID, in.Designation, in.AccessCode)
	if err != nil {
		return domain.Employee{}, err
	}

	next := s.envelope.Clone()
	if _, ok := next.FindEmployee(emp.ID); ok {
		return domain.Employee{}, fmt.Errorf("employee %q already exists: %w", emp.ID, domain.ErrInvalidID)
	}
	next.Employees = append([]domain.Employee{emp}, next.Employees...)
	for i := range next.Assignments {
		next.Assignments[i].SyncSnapshot(next.Employees)
	}

	s.envelope = &next
	if err := s.persist(ctx); err != nil {
		return domain.Employee{}, err
	}
	return emp, nil
}

// UpdateEmployee merges a patch into a roster entry and re-derives snapshots
// on the assignments referencing it.
func (s *Service) UpdateEmployee(ctx context.Context, id string, patch domain.EmployeePatch) (domain.Employee, error) {
	if s.envelope == nil {
		return domain.Employee{}, ErrNotInitialized
	}

	next := s.envelope.Clone()
	idx := -1
	for i := range next.Employees {
		if next.Employees[i].ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return domain.Employee{}, fmt.Errorf("employee %q: %w", id, ErrNotFound)
	}
	if err := next.Employees[idx].Apply(patch); err != nil {
		return domain.Employee{}, err
	}
	for i := range next.Assignments {
		if next.Assignments[i].EmployeeID == id {
			next.Assignments[i].SyncSnapshot(next.Employees)
		}
	}

	s.envelope = &next
	if err := s.persist(ctx); err != nil {
		return domain.Employee{}, err
	}
	return next.Employees[idx], nil
}

// DeleteEmployee removes a roster entry without cascading: assignments keep
// their (now dangling) EmployeeID and have their snapshot fields overwritten
// with the deletion sentinel so historical records survive roster changes.
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	if s.envelope == nil {
		return ErrNotInitialized
	}

	next := s.envelope.Clone()
	kept := next.Employees[:0]
	found := false
	for _, emp := range next.Employees {
		if emp.ID == id {
			found = true
			continue
		}
		kept = append(kept, emp)
	}
	if !found {
		return fmt.Errorf("employee %q: %w", id, ErrNotFound)
	}
	next.Employees = kept
	for i := range next.Assignments {
		if next.Assignments[i].EmployeeID == id {
			next.Assignments[i].MarkEmployeeDeleted()
		}
	}

	s.envelope = &next
	return s.persist(ctx)
}

// ResetAll clears the persisted envelope and session, reseeds the empty
// envelope, and returns to the logged-out state.
func (s *Service) ResetAll(ctx context.Context) error {
	if err := s.store.ClearEnvelope(ctx); err != nil {
		return fmt.Errorf("clear envelope: %w", err)
	}
	if err := s.store.ClearSession(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	seeded := domain.Seed(s.clock())
	s.envelope = &seeded
	s.session = nil
	return s.persist(ctx)
}

// Export returns the full current envelope verbatim, the backup artifact.
// Calling it twice without an intervening mutation yields equal payloads.
func (s *Service) Export() (domain.Envelope, error) {
	return s.Envelope()
}

// importProbe mirrors the wire-level checks the import contract requires
// before any state is replaced.
type importProbe struct {
	SchemaVersion *int            `json:"schemaVersion"`
	Employees     json.RawMessage `json:"employees"`
	Assignments   json.RawMessage `json:"assignments"`
}

// ImportJSON validates and ingests a backup payload. Import is all-or-nothing:
// the prior in-memory state is untouched unless the whole payload is accepted.
// Assignments missing an id get a fresh one, createdAt is backfilled,
// updatedAt is always restamped, and snapshots are re-derived against the
// imported roster. The replace is destructive; nothing is merged.
func (s *Service) ImportJSON(ctx context.Context, payload []byte) error {
	if s.envelope == nil {
		return ErrNotInitialized
	}

	var probe importProbe
	if err := json.Unmarshal(payload, &probe); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}
	if probe.SchemaVersion == nil || *probe.SchemaVersion != domain.SchemaVersion {
		return fmt.Errorf("%w: expected schemaVersion=%d with employees[] and assignments[]", ErrInvalidImport, domain.SchemaVersion)
	}
	if !isJSONArray(probe.Employees) || !isJSONArray(probe.Assignments) {
		return fmt.Errorf("%w: expected schemaVersion=%d with employees[] and assignments[]", ErrInvalidImport, domain.SchemaVersion)
	}

	var incoming domain.Envelope
	if err := json.Unmarshal(payload, &incoming); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidImport, err)
	}

	now := s.clock().UTC()
	for i := range incoming.Assignments {
		row := &incoming.Assignments[i]
		if strings.TrimSpace(row.ID) == "" {
			row.ID = s.idGen()
		}
		if row.CreatedAt.IsZero() {
			row.CreatedAt = now
		}
		row.UpdatedAt = now
	}
	incoming.Normalize(now)

	s.envelope = &incoming
	return s.persist(ctx)
}

// Login resolves a numeric access code to a session: the configured CEO code
// wins, otherwise the first roster entry with a matching code (first match
// wins when codes collide). The resulting session is persisted.
func (s *Service) Login(ctx context.Context, accessCode int) (domain.Session, error) {
	if s.envelope == nil {
		return domain.Session{}, ErrNotInitialized
	}
	now := s.clock()

	if s.ceoCode != 0 && accessCode == s.ceoCode {
		sess := domain.NewCEOSession(now)
		return sess, s.SetSession(ctx, &sess)
	}
	for _, emp := range s.envelope.Employees {
		if emp.AccessCode == accessCode {
			sess, err := domain.NewEmployeeSession(emp.ID, now)
			if err != nil {
				return domain.Session{}, err
			}
			return sess, s.SetSession(ctx, &sess)
		}
	}
	return domain.Session{}, ErrAccessDenied
}

// SetSession persists a session, or clears it when nil (logout).
func (s *Service) SetSession(ctx context.Context, sess *domain.Session) error {
	if sess == nil {
		if err := s.store.ClearSession(ctx); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		s.session = nil
		return nil
	}
	if err := sess.Validate(); err != nil {
		return err
	}
	if sess.Role == domain.RoleEmployee {
		if s.envelope == nil {
			return ErrNotInitialized
		}
		if _, ok := s.envelope.FindEmployee(sess.EmployeeID); !ok {
			return fmt.Errorf("session: %w", domain.ErrUnknownEmployee)
		}
	}
	if err := s.store.SaveSession(ctx, *sess); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	copied := *sess
	s.session = &copied
	return nil
}

// Logout clears the persisted session.
func (s *Service) Logout(ctx context.Context) error {
	return s.SetSession(ctx, nil)
}

// Session returns the current actor, nil when logged out.
func (s *Service) Session() *domain.Session {
	if s.session == nil {
		return nil
	}
	copied := *s.session
	return &copied
}

// assignmentIndex finds a row by id, -1 when absent.
func assignmentIndex(rows []domain.Assignment, id string) int {
	for i := range rows {
		if rows[i].ID == id {
			return i
		}
	}
	return -1
}

// isJSONArray reports whether a raw JSON value is array-typed.
func isJSONArray(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) > 0 && trimmed[0] == '['
}
