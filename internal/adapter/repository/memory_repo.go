package repository

import (
	"context"
	"slices"
	"sync"

	"resume-builder/internal/domain"

	"github.com/google/uuid"
)

// MemoryRepo keeps documents in process. It backs the server when no
// database is configured and the tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	docs map[uuid.UUID]domain.StoredDocument
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{docs: map[uuid.UUID]domain.StoredDocument{}}
}

func (r *MemoryRepo) Save(_ context.Context, d *domain.StoredDocument) error {
	cp := *d
	cp.Content = d.Content.Clone()
	r.mu.Lock()
	r.docs[d.ID] = cp
	r.mu.Unlock()
	return nil
}

func (r *MemoryRepo) Get(_ context.Context, id uuid.UUID) (*domain.StoredDocument, error) {
	r.mu.RLock()
	d, ok := r.docs[id]
	r.mu.RUnlock()
	if !ok {
		return nil, domain.ErrNotFound
	}
	d.Content = d.Content.Clone()
	return &d, nil
}

func (r *MemoryRepo) List(_ context.Context, owner uuid.UUID) ([]*domain.StoredDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []*domain.StoredDocument
	for _, d := range r.docs {
		if d.OwnerID != owner {
			continue
		}
		d.Content = d.Content.Clone()
		out = append(out, &d)
	}
	slices.SortFunc(out, func(a, b *domain.StoredDocument) int { return b.UpdatedAt.Compare(a.UpdatedAt) })
	return out, nil
}

func (r *MemoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.docs, id)
	return nil
}
