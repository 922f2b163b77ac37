package app

import (
	"context"
	"time"

	"github.com/phaseeng/taskdesk/internal/domain"
)

// EnvelopeStore is the persistence port for the versioned envelope and the
// independently lifecycled session record. Load calls return nil when nothing
// is stored (or when the stored value is unusable and has been degraded to
// absent data by the adapter).
type EnvelopeStore interface {
	LoadEnvelope(context.Context) (*domain.Envelope, error)
	SaveEnvelope(context.Context, domain.Envelope) error
	ClearEnvelope(context.Context) error

	LoadSession(context.Context) (*domain.Session, error)
	SaveSession(context.Context, domain.Session) error
	ClearSession(context.Context) error
}

// IDGenerator returns unique identifiers for new entities.
type IDGenerator func() string

// Clock returns the current time.
type Clock func() time.Time
