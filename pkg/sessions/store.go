// Package sessions holds the multi-step import flow state between HTTP
// calls: the parsed table and the current mapping list. State here is
// ephemeral pipeline state with a TTL, not persisted configuration.
package sessions

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/leadwise/lead-engine/pkg/models"
)

// Import is one uploaded file working its way through the pipeline. The
// table is immutable after creation; the mapping list is replaced
// wholesale whenever the mapper runs or a reviewer edits an entry.
type Import struct {
	ID        uuid.UUID             `json:"id"`
	Filename  string                `json:"filename"`
	Table     *models.RawTable      `json:"table"`
	Mappings  []models.FieldMapping `json:"mappings,omitempty"`
	CreatedAt time.Time             `json:"createdAt"`
}

// Store persists import sessions for the duration of the flow.
type Store interface {
	// Create stores a new import session for the parsed table.
	Create(ctx context.Context, filename string, table *models.RawTable) (*Import, error)

	// Get returns the session, or apperrors.ErrImportNotFound.
	Get(ctx context.Context, id uuid.UUID) (*Import, error)

	// SaveMappings replaces the session's mapping list.
	SaveMappings(ctx context.Context, id uuid.UUID, mappings []models.FieldMapping) error

	// Delete discards the session. Deleting an unknown id is not an
	// error.
	Delete(ctx context.Context, id uuid.UUID) error
}
