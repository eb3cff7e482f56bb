package sessions

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/leadwise/lead-engine/pkg/apperrors"
	"github.com/leadwise/lead-engine/pkg/models"
)

// MemoryStore keeps import sessions in process memory. Expired sessions
// are dropped lazily on access and during writes.
type MemoryStore struct {
	mu      sync.RWMutex
	imports map[uuid.UUID]*Import
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a new in-memory store. A non-positive TTL keeps
// sessions until deleted.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		imports: make(map[uuid.UUID]*Import),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, filename string, table *models.RawTable) (*Import, error) {
	imp := &Import{
		ID:        uuid.New(),
		Filename:  filename,
		Table:     table,
		CreatedAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.evictExpired()
	s.imports[imp.ID] = imp
	return imp, nil
}

// Get implements Store. The returned Import is a copy: the table is
// shared (immutable after Create) but the mapping list is cloned so
// callers never read a slice a concurrent SaveMappings is replacing.
func (s *MemoryStore) Get(_ context.Context, id uuid.UUID) (*Import, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	imp, ok := s.imports[id]
	if !ok || s.expired(imp) {
		return nil, apperrors.ErrImportNotFound
	}
	cp := *imp
	cp.Mappings = slices.Clone(imp.Mappings)
	return &cp, nil
}

// SaveMappings implements Store.
func (s *MemoryStore) SaveMappings(_ context.Context, id uuid.UUID, mappings []models.FieldMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	imp, ok := s.imports[id]
	if !ok || s.expired(imp) {
		return apperrors.ErrImportNotFound
	}
	imp.Mappings = mappings
	return nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.imports, id)
	return nil
}

func (s *MemoryStore) expired(imp *Import) bool {
	return s.ttl > 0 && s.now().Sub(imp.CreatedAt) > s.ttl
}

// evictExpired must be called with the write lock held.
func (s *MemoryStore) evictExpired() {
	if s.ttl <= 0 {
		return
	}
	for id, imp := range s.imports {
		if s.expired(imp) {
			delete(s.imports, id)
		}
	}
}

// Ensure MemoryStore implements Store at compile time.
var _ Store = (*MemoryStore)(nil)
